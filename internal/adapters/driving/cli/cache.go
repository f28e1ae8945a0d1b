package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cachePurgeIndex bool

var cacheCmd = &cobra.Command{
	Use:         "cache",
	Short:       "Manage cached scans",
	Annotations: map[string]string{annotationStack: "true"},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached scans",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached scan",
	Long: `Deletes every scan record. With --purge-index the index artifacts are
removed from disk as well.`,
	Args: cobra.NoArgs,
	RunE: runCacheClear,
}

func init() {
	cacheClearCmd.Flags().BoolVar(&cachePurgeIndex, "purge-index", false, "also delete index artifacts")
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	if err := requireScan(); err != nil {
		return err
	}

	records, err := scanService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No cached scans.")
		return nil
	}

	cmd.Println(title(fmt.Sprintf("Cached Scans (%d)", len(records))))
	for _, r := range records {
		cmd.Printf("%s  %s  %s\n", r.Fingerprint, mutedStyle.Render(r.UpdatedAt.Format(time.DateTime)), r.URL)
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if err := requireScan(); err != nil {
		return err
	}

	n, err := scanService.ClearCache(commandContext(cmd), cachePurgeIndex)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, map[string]any{"deleted": n, "purged_index": cachePurgeIndex})
	}

	cmd.Printf("Deleted %d cached scan(s).\n", n)
	if cachePurgeIndex {
		cmd.Println("Index artifacts removed.")
	}
	return nil
}
