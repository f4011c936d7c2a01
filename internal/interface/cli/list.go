package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/neilberkman/majordomo/internal/core/session"
)

var conversationsProject string

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects known to the server",
	Long: `List the projects configured on the Majordomo server.

The server's active project is marked with '*'.`,
	Args: cobra.NoArgs,
	RunE: runProjects,
}

var assistantsCmd = &cobra.Command{
	Use:   "assistants",
	Short: "List available assistants",
	Args:  cobra.NoArgs,
	RunE:  runAssistants,
}

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List conversations of a project",
	Long: `List the conversations of a project.

Defaults to the server's active project.

Examples:
  majordomo conversations
  majordomo conversations --project gpt4-go`,
	Args: cobra.NoArgs,
	RunE: runConversations,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(assistantsCmd)
	rootCmd.AddCommand(conversationsCmd)
	conversationsCmd.Flags().StringVarP(&conversationsProject, "project", "p", "", "Project name (default: active project)")
}

func runProjects(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	svc := env.service(env.stderrNotifier())
	active, projects := svc.ListProjects(cmd.Context())

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	fmt.Printf("Showing %d project(s)\n\n", len(projects))
	for _, p := range projects {
		marker := " "
		if p.Name == active {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, p.Name)
		if p.Description != "" {
			fmt.Printf("    Description: %s\n", truncate(p.Description, 80))
		}
		if p.Location != "" {
			fmt.Printf("    Location: %s\n", p.Location)
		}
		fmt.Println()
	}
	return nil
}

func runAssistants(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	svc := env.service(env.stderrNotifier())
	assistants := svc.ListAssistants(cmd.Context())

	if len(assistants) == 0 {
		fmt.Println("No assistants found.")
		return nil
	}

	for i, a := range assistants {
		fmt.Printf("[%d] %s\n", i+1, a.Name)
		fmt.Printf("    Model: %s\n", a.Model)
		if a.Instructions != "" {
			fmt.Printf("    Instructions: %s\n", truncate(firstLine(a.Instructions), 80))
		}
		fmt.Println()
	}
	return nil
}

func runConversations(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	svc := env.service(env.stderrNotifier())
	project, err := resolveProject(cmd.Context(), svc, conversationsProject)
	if err != nil {
		return err
	}

	conversations := svc.ListConversations(cmd.Context(), project)
	if len(conversations) == 0 {
		fmt.Printf("No conversations found for project: %s\n", project)
		return nil
	}

	fmt.Printf("Showing %d conversation(s) for project: %s\n\n", len(conversations), project)
	for _, c := range conversations {
		fmt.Printf("%s\n", c.Title)
		fmt.Printf("    ID: %s\n", c.ID)
		fmt.Printf("    Assistant: %s\n", c.Assistant)
		fmt.Println()
	}
	return nil
}

// resolveProject returns name if given and known, else the active project
func resolveProject(ctx context.Context, svc *session.Service, name string) (string, error) {
	if name != "" {
		if _, err := svc.ProjectByName(ctx, name); err != nil {
			return "", errReported
		}
		return name, nil
	}
	active, _ := svc.ListProjects(ctx)
	if active == "" {
		return "", fmt.Errorf("no active project; use --project")
	}
	return active, nil
}

// firstLine returns the first non-blank line of s
func firstLine(s string) string {
	return strings.SplitN(strings.TrimSpace(s), "\n", 2)[0]
}

// truncate shortens text for one-line display, cutting on rune boundaries
func truncate(s string, maxLen int) string {
	// Remove newlines and excessive whitespace
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	// Find a good break point (end of word)
	truncated := string(runes[:maxLen])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > 0 && utf8.RuneCountInString(truncated[:lastSpace]) > maxLen-20 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}
