package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/neilberkman/majordomo/internal/core/notify"
	"github.com/neilberkman/majordomo/internal/interface/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive chat UI",
	Long:  "Launch a terminal UI for browsing projects and conversations and chatting with assistants",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	notes := notify.NewChannel(16)
	model := tui.New(env.service(notes), notes.C(), tui.Options{
		ExportDir:      env.cfg.ExportDir,
		ExportTemplate: env.cfg.ExportTemplate,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
