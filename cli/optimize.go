package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/optimize"
)

var (
	optimizeFile   string
	optimizeTarget string
	optimizeLevel  string
	optimizeOut    string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize a specification for a target and report bottlenecks",
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeFile, "file", "f", "", "specification file (YAML or JSON)")
	optimizeCmd.Flags().StringVarP(&optimizeTarget, "target", "t", "langflow", "conversion target")
	optimizeCmd.Flags().StringVarP(&optimizeLevel, "level", "l", string(optimize.LevelBalanced), "optimization level")
	optimizeCmd.Flags().StringVarP(&optimizeOut, "output", "o", "", "write optimized specification to file (default stdout)")
	_ = optimizeCmd.MarkFlagRequired("file")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	tc := newToolchain()
	defer tc.logger.Sync() //nolint:errcheck

	s, err := loadSpecification(optimizeFile)
	if err != nil {
		return err
	}
	target, err := convert.ParseTarget(optimizeTarget)
	if err != nil {
		return err
	}
	level, err := optimize.ParseLevel(optimizeLevel)
	if err != nil {
		return err
	}
	converter, ok := tc.registry.Converter(target)
	if !ok {
		return fmt.Errorf("no converter registered for target %q", target)
	}

	result, err := tc.optimizer.Optimize(cmd.Context(), s, converter, level, nil)
	if err != nil {
		return err
	}
	printWarnings(result.Warnings)

	errOut := cmd.ErrOrStderr()
	if len(result.Applied) == 0 {
		fmt.Fprintln(errOut, dimStyle.Render("No optimizations applied; specification already within bounds."))
	} else {
		for _, name := range result.Applied {
			fmt.Fprintln(errOut, successStyle.Render("applied: ")+name)
		}
	}
	fmt.Fprintf(errOut, "complexity %.1f, estimated memory %dMB\n",
		result.Metrics.ComplexityScore, result.Metrics.MemoryEstimateMB)

	bottlenecks := tc.optimizer.DetectBottlenecks(result.OptimizedSpec, converter)
	for _, b := range bottlenecks.Bottlenecks {
		line := fmt.Sprintf("[%s] %s: %s", b.Severity, b.Type, b.Description)
		if b.Severity == "high" {
			fmt.Fprintln(errOut, errStyle.Render(line))
		} else {
			fmt.Fprintln(errOut, warnStyle.Render(line))
		}
	}
	printSuggestions(bottlenecks.Recommendations)
	printSuggestions(result.Metrics.Recommendations)

	return writeJSON(optimizeOut, result.OptimizedSpec)
}
