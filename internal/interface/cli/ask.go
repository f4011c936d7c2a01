package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neilberkman/majordomo/internal/core/models"
)

const defaultConversationTitle = "New Conversation"

var (
	askAssistant string
	askThreadID  string
	askTitle     string
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send one prompt to an assistant",
	Long: `Send a single prompt and print the answer.

Without --thread-id a new conversation is started and its id is printed,
so it can be continued later.

Examples:
  majordomo ask --assistant PyDev "How do I read a file line by line?"
  majordomo ask -a PyDev --thread-id thread_abc123 "And in reverse?"
  majordomo ask -a WebDev --title "Navbar" "Make the navbar sticky"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askAssistant, "assistant", "a", "", "Assistant to ask (required)")
	askCmd.Flags().StringVarP(&askThreadID, "thread-id", "t", "", "Continue an existing conversation")
	askCmd.Flags().StringVar(&askTitle, "title", defaultConversationTitle, "Title for a new conversation")
	_ = askCmd.MarkFlagRequired("assistant")
}

func runAsk(cmd *cobra.Command, args []string) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	svc := env.service(env.stderrNotifier())
	if _, ok := svc.AssistantByName(cmd.Context(), askAssistant); !ok {
		return errReported
	}

	var conv *models.Conversation
	if askThreadID != "" {
		conv = &models.Conversation{ID: askThreadID, Title: askTitle, Assistant: askAssistant}
	} else {
		conv = svc.CreateLocalConversation(askTitle, askAssistant)
	}

	spinner := NewSpinner(fmt.Sprintf("Asking %s...", askAssistant))
	spinner.Start()
	reply, ok := svc.AskAssistant(cmd.Context(), prompt, conv)
	spinner.Stop()
	if !ok {
		return errReported
	}

	fmt.Println(reply.Content)
	fmt.Println()
	fmt.Printf("[thread: %s]\n", conv.ID)
	return nil
}
