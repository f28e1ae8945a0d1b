package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// reportFull is the pseudo kind running the summary plus every report.
const reportFull = "full"

var reportFile string

var reportCmd = &cobra.Command{
	Use:   "report [kind] [url]",
	Short: "Produce a structured report for a policy",
	Long: `Asks the language model for a structured report on a policy.

Kinds:
  risks           - risk score, level and the clauses behind it
  permissions     - device permissions the policy implies
  hidden-clauses  - clauses users are unlikely to notice
  full            - summary plus every report above`,
	Args:        cobra.ExactArgs(2),
	ValidArgs:   []string{"risks", "permissions", "hidden-clauses", reportFull},
	Annotations: map[string]string{annotationStack: "true"},
	RunE:        runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFile, "file", "f", "", `read the page from a file ("-" for stdin)`)
	rootCmd.AddCommand(reportCmd)
}

// parseReportKind accepts both dashed and underscored kind names.
func parseReportKind(s string) (domain.ReportKind, error) {
	kind := domain.ReportKind(strings.ReplaceAll(strings.ToLower(s), "-", "_"))
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: unknown report kind %q", domain.ErrInvalidInput, s)
	}
	return kind, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := requireScan(); err != nil {
		return err
	}
	name, url := args[0], args[1]

	var kind domain.ReportKind
	if name != reportFull {
		k, err := parseReportKind(name)
		if err != nil {
			return err
		}
		kind = k
		if analysisService == nil {
			return errors.New("analysis service not configured")
		}
	}

	page, err := readSource(cmd, url, reportFile)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if name == reportFull {
		full, err := scanService.FullAnalysis(ctx, url, page)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		if jsonFlag {
			return printJSON(cmd, full)
		}
		cmd.Println(title("Privacy Summary"))
		cmd.Println(full.Summary)
		cmd.Println()
		if err := printReport(cmd, domain.ReportRisks, full.Risks); err != nil {
			return err
		}
		if err := printReport(cmd, domain.ReportPermissions, full.Permissions); err != nil {
			return err
		}
		return printReport(cmd, domain.ReportHiddenClauses, full.HiddenClauses)
	}

	report, err := analysisService.Report(ctx, kind, page)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, report)
	}
	return printReport(cmd, kind, report)
}

func printReport(cmd *cobra.Command, kind domain.ReportKind, report domain.Report) error {
	cmd.Println(title(reportTitle(kind)))

	if report.Failed() {
		cmd.Println(errorStyle.Render(fmt.Sprint(report[domain.ReportKeyError])))
	}
	if kind == domain.ReportRisks {
		if level, ok := report["risk_level"].(string); ok {
			cmd.Printf("Risk level: %s (score %v)\n", riskStyle(level).Render(level), report["overall_risk_score"])
		}
	}
	if err := printJSON(cmd, report); err != nil {
		return err
	}
	cmd.Println()
	return nil
}

func reportTitle(kind domain.ReportKind) string {
	switch kind {
	case domain.ReportRisks:
		return "Risk Analysis"
	case domain.ReportPermissions:
		return "Permission Mapping"
	case domain.ReportHiddenClauses:
		return "Hidden Clauses"
	default:
		return kind.String()
	}
}
