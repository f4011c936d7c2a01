package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/neilberkman/majordomo/internal/core/notify"
)

const (
	DefaultHost    = "localhost"
	DefaultPort    = 5005
	DefaultTimeout = 30 * time.Second
	DefaultLogDir  = "/tmp/majordomo/logs"

	HostEnv = "MAJORDOMO_HOST"
	PortEnv = "MAJORDOMO_PORT"
)

// DefaultExportTemplate renders a conversation transcript as markdown
const DefaultExportTemplate = `# {{{title}}}

**Conversation:** ` + "`{{{id}}}`" + `
**Project:** {{{project}}}
**Assistant:** {{{assistant}}}
**Exported:** {{{exported}}}
**Messages:** {{count}}

---

{{#messages}}
**{{{role}}}** _{{{time}}}_

{{{content}}}

---

{{/messages}}
`

type Config struct {
	Host           string
	Port           int
	Timeout        time.Duration
	LogDir         string
	LogLevel       string
	ErrorTemplate  string
	ExportTemplate string
	ExportDir      string
	LoadedFrom     string // Empty when running on defaults
}

type tomlConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	Timeout        string `toml:"timeout"`
	LogDir         string `toml:"log_dir"`
	LogLevel       string `toml:"log_level"`
	ErrorTemplate  string `toml:"error_template"`
	ExportTemplate string `toml:"export_template"`
	ExportDir      string `toml:"export_dir"`
}

// DefaultPath returns ~/.config/majordomo/config.toml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "~"
	}
	return filepath.Join(home, ".config", "majordomo", "config.toml")
}

// Defaults returns the configuration used when no file exists
func Defaults() *Config {
	return &Config{
		Host:           DefaultHost,
		Port:           DefaultPort,
		Timeout:        DefaultTimeout,
		LogDir:         DefaultLogDir,
		LogLevel:       "info",
		ErrorTemplate:  notify.DefaultTemplate,
		ExportTemplate: DefaultExportTemplate,
		ExportDir:      ".",
	}
}

// Overrides are the command-line values; zero fields are unset
type Overrides struct {
	Host string
	Port int
}

// Load reads the TOML file at path (DefaultPath when empty), then applies
// MAJORDOMO_HOST and MAJORDOMO_PORT, then o. A missing file means defaults.
// An environment value shadowed by an override is not parsed.
func Load(path string, o Overrides) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		path = DefaultPath()
	}

	var tc tomlConfig
	_, err := toml.DecodeFile(path, &tc)
	switch {
	case err == nil:
		if err := cfg.merge(tc); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
		cfg.LoadedFrom = path
	case errors.Is(err, fs.ErrNotExist):
		// Use defaults
	default:
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if host := os.Getenv(HostEnv); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv(PortEnv); port != "" && o.Port == 0 {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", PortEnv, port, err)
		}
		cfg.Port = p
	}

	if o.Host != "" {
		cfg.Host = o.Host
	}
	if o.Port != 0 {
		cfg.Port = o.Port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(tc tomlConfig) error {
	if tc.Host != "" {
		c.Host = tc.Host
	}
	if tc.Port != 0 {
		c.Port = tc.Port
	}
	if tc.Timeout != "" {
		d, err := time.ParseDuration(tc.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	if tc.LogDir != "" {
		c.LogDir = tc.LogDir
	}
	if tc.LogLevel != "" {
		c.LogLevel = tc.LogLevel
	}
	if tc.ErrorTemplate != "" {
		c.ErrorTemplate = tc.ErrorTemplate
	}
	if tc.ExportTemplate != "" {
		c.ExportTemplate = tc.ExportTemplate
	}
	if tc.ExportDir != "" {
		c.ExportDir = tc.ExportDir
	}
	return nil
}

// Validate checks the values a user can get wrong
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// BaseURL is the address of the Majordomo backend
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}
