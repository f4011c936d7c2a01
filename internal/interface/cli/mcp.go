package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neilberkman/majordomo/cmd/majordomo/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for coding agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio that lets other
agents list projects, assistants and conversations, and ask Majordomo
assistants questions.

Configure in your agent's MCP config:
  {
    "mcpServers": {
      "majordomo": {
        "command": "majordomo",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	if err := mcp.StartServer(env.client, rootCmd.Version); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
