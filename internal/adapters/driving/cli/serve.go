package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driving/httpapi"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// defaultServeAddr is used when neither --addr nor the config sets one.
const defaultServeAddr = ":8000"

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON API used by the browser extension.

Prompt templates in the prompts directory are reloaded when they change.
Prometheus metrics are served on /metrics.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationStack: "true"},
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config, then :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireScan(); err != nil {
		return err
	}

	server, err := httpapi.NewServer(
		&httpapi.Ports{Scan: scanService, Analysis: analysisService},
		httpapi.Options{
			Metrics: serverDeps.Metrics,
			Backend: serverDeps.Backend,
			Version: version,
		},
	)
	if err != nil {
		return err
	}

	addr := resolveServeAddr()
	cmd.Printf("PrivaShield API listening on %s\n", addr)

	g, ctx := errgroup.WithContext(commandContext(cmd))
	if serverDeps.Watcher != nil {
		watcher := serverDeps.Watcher
		g.Go(func() error {
			if err := watcher.Run(ctx); err != nil {
				logger.Warn("Prompt reload disabled: %v", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		return server.Run(ctx, addr)
	})
	return g.Wait()
}

func resolveServeAddr() string {
	switch {
	case serveAddr != "":
		return serveAddr
	case serverDeps.ServerAddr != "":
		return serverDeps.ServerAddr
	default:
		return defaultServeAddr
	}
}
