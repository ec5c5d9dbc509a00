package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var targetsRecommendFile string

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List registered conversion targets and their capabilities",
	RunE:  runTargets,
}

func init() {
	targetsCmd.Flags().StringVar(&targetsRecommendFile, "recommend", "", "specification file to recommend a target for")
}

func runTargets(cmd *cobra.Command, args []string) error {
	tc := newToolchain()
	defer tc.logger.Sync() //nolint:errcheck

	out := cmd.OutOrStdout()
	for _, caps := range tc.factory.ListTargets() {
		status := caps.ImplementationStatus
		if status == "" {
			status = "full"
		}
		direction := "forward"
		if caps.Bidirectional {
			direction = "bidirectional"
		}
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s (%s %s)", caps.Target, caps.Name, caps.Version)))
		fmt.Fprintf(out, "  status: %s, %s, streaming: %v\n", status, direction, caps.Streaming)
		fmt.Fprintf(out, "  components: %s\n", strings.Join(caps.SupportedComponents, ", "))
		if len(caps.PlannedFeatures) > 0 {
			fmt.Fprintf(out, "  planned: %s\n", strings.Join(caps.PlannedFeatures, ", "))
		}
	}

	if targetsRecommendFile == "" {
		return nil
	}
	s, err := loadSpecification(targetsRecommendFile)
	if err != nil {
		return err
	}
	rec, ok := tc.registry.BestTargetFor(s)
	if !ok {
		return fmt.Errorf("no registered target supports this specification")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf(
		"Recommended target: %s (%.0f%% component coverage)", rec.Target, rec.Score*100)))
	if rec.Warning != "" {
		printWarnings([]string{rec.Warning})
	}
	return nil
}
