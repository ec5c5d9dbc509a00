package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autonomize-ai/genesis-convert/convert"
)

var (
	benchmarkFile       string
	benchmarkTargets    []string
	benchmarkIterations int
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark conversion performance across targets",
	RunE:  runBenchmark,
}

func init() {
	benchmarkCmd.Flags().StringVarP(&benchmarkFile, "file", "f", "", "specification file (YAML or JSON)")
	benchmarkCmd.Flags().StringArrayVarP(&benchmarkTargets, "target", "t", nil, "target to benchmark (repeatable; default all)")
	benchmarkCmd.Flags().IntVarP(&benchmarkIterations, "iterations", "n", 5, "conversions per target")
	_ = benchmarkCmd.MarkFlagRequired("file")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	tc := newToolchain()
	defer tc.logger.Sync() //nolint:errcheck

	s, err := loadSpecification(benchmarkFile)
	if err != nil {
		return err
	}

	var targets []convert.Target
	for _, raw := range benchmarkTargets {
		t, err := convert.ParseTarget(raw)
		if err != nil {
			return err
		}
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		targets = tc.registry.AvailableTargets()
	}

	report, err := tc.optimizer.Benchmark(cmd.Context(), tc.factory, s, targets, benchmarkIterations)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf(
		"%d components, complexity %.1f, %d iterations per target", report.ComponentCount, report.Complexity, benchmarkIterations)))
	for _, target := range targets {
		tb := report.Results[target]
		fmt.Fprintf(out, "%-10s avg %-12s min %-12s max %-12s success %3.0f%%\n",
			target,
			tb.Avg.Round(timeRounding), tb.Min.Round(timeRounding), tb.Max.Round(timeRounding),
			tb.SuccessRate*100)
	}
	if report.Fastest == "" {
		fmt.Fprintln(out, errStyle.Render("no target completed a successful conversion"))
		return nil
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf(
		"fastest: %s, most reliable: %s", report.Fastest, report.MostReliable)))
	return nil
}
