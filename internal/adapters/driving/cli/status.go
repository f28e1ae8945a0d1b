package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status [url]",
	Short: "Show the cache state of a policy",
	Long: `Reports whether a policy has been analysed and whether its index is still
on disk. A stale policy has a cached summary but must be analysed again
before questions can be answered.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationStack: "true"},
	RunE:        runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusOutput struct {
	URL         string           `json:"url"`
	Fingerprint string           `json:"fingerprint"`
	State       domain.ScanState `json:"state"`
	IndexPath   string           `json:"index_path,omitempty"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := requireScan(); err != nil {
		return err
	}
	url := strings.TrimSpace(args[0])

	state, record, err := scanService.Status(commandContext(cmd), url)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	out := statusOutput{URL: url, Fingerprint: domain.Fingerprint(url), State: state}
	if record != nil {
		out.IndexPath = record.IndexPath
		out.UpdatedAt = &record.UpdatedAt
	}

	if jsonFlag {
		return printJSON(cmd, out)
	}

	cmd.Printf("URL:         %s\n", out.URL)
	cmd.Printf("Fingerprint: %s\n", out.Fingerprint)
	cmd.Printf("State:       %s\n", stateStyle(state).Render(state.String()))
	if record != nil {
		cmd.Printf("Index:       %s\n", record.IndexPath)
		cmd.Printf("Updated:     %s\n", record.UpdatedAt.Format(time.RFC3339))
	}
	if state == domain.ScanStateStale {
		cmd.Println(mutedStyle.Render("Run 'privashield analyze' again to rebuild the index."))
	}
	return nil
}

func stateStyle(state domain.ScanState) lipgloss.Style {
	switch state {
	case domain.ScanStateIndexed:
		return successStyle
	case domain.ScanStateStale:
		return warningStyle
	default:
		return mutedStyle
	}
}
