package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatShowContext bool

var chatCmd = &cobra.Command{
	Use:   "chat [url] [question]",
	Short: "Ask a question about an analysed policy",
	Long: `Answers a question using the indexed text of a policy analysed before.

The question is rewritten into several search queries, the matching passages
are retrieved and the language model answers from those passages only.`,
	Args:        cobra.MinimumNArgs(2),
	Annotations: map[string]string{annotationStack: "true"},
	RunE:        runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatShowContext, "context", false, "print the queries and passages used")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := requireScan(); err != nil {
		return err
	}
	url := args[0]
	question := strings.Join(args[1:], " ")

	answer, err := scanService.Chat(commandContext(cmd), url, question)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, answer)
	}

	cmd.Println(answer.Text)

	if chatShowContext {
		cmd.Println()
		cmd.Println(title("Queries"))
		for _, q := range answer.Queries {
			cmd.Printf("  - %s\n", q)
		}
		cmd.Println()
		cmd.Println(title("Passages"))
		for i, c := range answer.Context {
			cmd.Printf("[%d] %s\n\n", i+1, c)
		}
	}
	return nil
}
