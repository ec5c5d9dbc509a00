// Package cli implements the genesis-convert command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/autonomize-ai/genesis-convert/factory"
	"github.com/autonomize-ai/genesis-convert/langflow"
	"github.com/autonomize-ai/genesis-convert/logging"
	"github.com/autonomize-ai/genesis-convert/optimize"
	"github.com/autonomize-ai/genesis-convert/registry"
	"github.com/autonomize-ai/genesis-convert/skeleton"
)

var (
	verbose    bool
	pluginsDir string

	appVersion = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "genesis-convert",
	Short: "Convert agent specifications to and from execution runtimes",
	Long:  "genesis-convert validates, optimizes, and converts declarative agent specifications into runtime artifacts (visual flows, durable workflows, streaming topologies) and back.",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&pluginsDir, "plugins", "", "directory of converter plugin manifests")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(compatCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(reverseCmd)
}

// SetVersionInfo sets the version and commit for display.
func SetVersionInfo(version, commit string) {
	appVersion = version
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("genesis-convert %s (commit: %s)\n", version, commit))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// toolchain bundles the per-invocation dependency graph. Every command
// builds its own; there is no shared registry state between runs.
type toolchain struct {
	logger    *zap.Logger
	registry  *registry.Registry
	optimizer *optimize.Optimizer
	factory   *factory.Factory
}

func newToolchain() *toolchain {
	logger := logging.New(verbose)

	reg := registry.New(logger)
	reg.RegisterInstance(langflow.New())
	reg.RegisterInstance(skeleton.NewTemporal())
	reg.RegisterInstance(skeleton.NewKafka())
	if pluginsDir != "" {
		n := reg.DiscoverPlugins(pluginsDir)
		logger.Debug("plugin discovery complete", zap.Int("registered", n))
	}

	opt := optimize.New(logger)
	return &toolchain{
		logger:    logger,
		registry:  reg,
		optimizer: opt,
		factory:   factory.New(reg, opt, logger),
	}
}
