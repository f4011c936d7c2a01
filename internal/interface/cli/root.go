package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neilberkman/majordomo/internal/core/api"
	"github.com/neilberkman/majordomo/internal/core/cache"
	"github.com/neilberkman/majordomo/internal/core/config"
	"github.com/neilberkman/majordomo/internal/core/logging"
	"github.com/neilberkman/majordomo/internal/core/notify"
	"github.com/neilberkman/majordomo/internal/core/session"
)

var (
	configPath  string
	hostFlag    string
	portFlag    int
	debugFlag   bool
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// errReported marks a failure the notifier already printed
var errReported = errors.New("already reported")

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "majordomo",
	Short: "Majordomo coding assistant client",
	Long: `majordomo - chat with your project's coding assistants

Pick a project, pick or start a conversation with one of the assistants
configured on the Majordomo server, and ask away.

The server address comes from ~/.config/majordomo/config.toml, the
MAJORDOMO_HOST / MAJORDOMO_PORT environment variables, or --host / --port.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file path")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Majordomo server host (overrides config)")
	rootCmd.PersistentFlags().IntVar(&portFlag, "port", 0, "Majordomo server port (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log at debug level")
}

// appEnv is what every command needs to reach the server
type appEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	client *api.Client
}

func setup() (*appEnv, error) {
	cfg, err := config.Load(configPath, config.Overrides{Host: hostFlag, Port: portFlag})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.LogDir, cfg.LogLevel, debugFlag)
	if err != nil {
		return nil, err
	}
	logger.Info("starting",
		zap.String("version", versionInfo),
		zap.String("server", cfg.BaseURL()),
		zap.String("config", cfg.LoadedFrom))

	client := api.NewClient(cfg.BaseURL(),
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger.Named("api")))

	return &appEnv{cfg: cfg, logger: logger, client: client}, nil
}

// service builds a session service that reports through n
func (e *appEnv) service(n notify.Notifier) *session.Service {
	return session.New(e.client, cache.New(), n, session.WithLogger(e.logger.Named("session")))
}

// stderrNotifier prints notifications for the non-interactive commands
func (e *appEnv) stderrNotifier() notify.Notifier {
	return notify.NewWriter(os.Stderr, e.cfg.ErrorTemplate, e.logger)
}

func (e *appEnv) close() {
	_ = e.logger.Sync()
}
