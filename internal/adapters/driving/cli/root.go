// Package cli provides the privashield command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driving/httpapi"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driving"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// annotationStack marks commands that need the AI stack and scan cache.
// Commands without it only get the settings service.
const annotationStack = "privashield.stack"

// Runner is a long-running background task such as the prompt watcher.
type Runner interface {
	Run(ctx context.Context) error
}

// Options are passed to the Initializer.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// Stack requests the full stack rather than settings alone.
	Stack bool
}

// Services are the ports the commands drive.
type Services struct {
	Scan     driving.ScanService
	Analysis driving.AnalysisService
	Settings driving.SettingsService

	// Metrics is exposed by serve. Optional.
	Metrics httpapi.Metrics

	// Backend names the scan cache backend.
	Backend string

	// ServerAddr is the configured HTTP listen address.
	ServerAddr string

	// Watcher reloads prompt templates while serve runs. Optional.
	Watcher Runner

	// Warnings are reported once before the command runs.
	Warnings []string

	// Close releases stores and connections. Optional.
	Close func() error
}

// Initializer builds the services for a command.
type Initializer func(ctx context.Context, opts Options) (*Services, error)

var (
	scanService     driving.ScanService
	analysisService driving.AnalysisService
	settingsService driving.SettingsService
	serverDeps      Services

	initializer Initializer
	closeFn     func() error
)

var (
	verboseFlag   bool
	configDirFlag string
	jsonFlag      bool
)

var rootCmd = &cobra.Command{
	Use:   "privashield",
	Short: "Privacy policy analysis with retrieval augmented generation",
	Long: `PrivaShield reads privacy policies, indexes them for retrieval and uses a
language model to summarise risks, answer questions and produce structured
reports on data practices.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  initServices,
	PersistentPostRunE: closeServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "configuration directory")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output results as JSON")
}

// SetInitializer registers the function that builds services on demand.
func SetInitializer(fn Initializer) {
	initializer = fn
}

// SetServices installs services directly, bypassing the initializer.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	scanService = s.Scan
	analysisService = s.Analysis
	settingsService = s.Settings
	serverDeps = *s
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func needsStack(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationStack]; ok {
			return true
		}
	}
	return false
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)
	logger.SetOutput(cmd.ErrOrStderr())

	if initializer == nil || cmd == versionCmd {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := initializer(ctx, Options{ConfigDir: configDirFlag, Stack: needsStack(cmd)})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	for _, w := range s.Warnings {
		logger.Warn("%s", w)
	}
	SetServices(s)
	closeFn = s.Close
	return nil
}

func closeServices(_ *cobra.Command, _ []string) error {
	if closeFn == nil {
		return nil
	}
	fn := closeFn
	closeFn = nil
	return fn()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func requireScan() error {
	if scanService == nil {
		return errors.New("scan service not configured")
	}
	return nil
}
