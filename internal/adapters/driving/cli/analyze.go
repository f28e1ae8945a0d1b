package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

var analyzeFile string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [url]",
	Short: "Analyse a privacy policy",
	Long: `Indexes the privacy policy at url and prints its risk summary.

A cached summary is returned when the policy was analysed before and its
index is still on disk. Use --file to read the page from disk, or "-" to
read it from stdin, instead of fetching url.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationStack: "true"},
	RunE:        runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", `read the page from a file ("-" for stdin)`)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := requireScan(); err != nil {
		return err
	}
	url := args[0]

	page, err := readSource(cmd, url, analyzeFile)
	if err != nil {
		return err
	}

	result, err := scanService.Analyze(commandContext(cmd), url, page)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, result)
	}

	cmd.Println(title("Privacy Summary"))
	if result.Status == domain.ScanStatusCached {
		cmd.Println(mutedStyle.Render("(cached)"))
	}
	cmd.Println()
	cmd.Println(result.Summary)
	return nil
}
