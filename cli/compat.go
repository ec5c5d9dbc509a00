package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autonomize-ai/genesis-convert/convert"
)

var (
	compatFile    string
	compatTargets []string
)

var compatCmd = &cobra.Command{
	Use:   "compat",
	Short: "Check specification compatibility across targets without converting",
	RunE:  runCompat,
}

func init() {
	compatCmd.Flags().StringVarP(&compatFile, "file", "f", "", "specification file (YAML or JSON)")
	compatCmd.Flags().StringArrayVarP(&compatTargets, "target", "t", nil, "target to check (repeatable; default all)")
	_ = compatCmd.MarkFlagRequired("file")
}

func runCompat(cmd *cobra.Command, args []string) error {
	tc := newToolchain()
	defer tc.logger.Sync() //nolint:errcheck

	s, err := loadSpecification(compatFile)
	if err != nil {
		return err
	}

	var targets []convert.Target
	for _, raw := range compatTargets {
		t, err := convert.ParseTarget(raw)
		if err != nil {
			return err
		}
		targets = append(targets, t)
	}

	results := tc.factory.CheckCompatibility(cmd.Context(), s, targets)
	out := cmd.OutOrStdout()

	incompatible := 0
	for _, target := range tc.registry.AvailableTargets() {
		res, ok := results[target]
		if !ok {
			continue
		}
		verdict := successStyle.Render("compatible")
		if !res.Compatible {
			verdict = errStyle.Render("incompatible")
			incompatible++
		}
		status := ""
		if res.ImplementationStatus != "" {
			status = dimStyle.Render(" [" + res.ImplementationStatus + "]")
		}
		fmt.Fprintf(out, "%s: %s%s\n", target, verdict, status)
		printErrors(res.Errors)
		printWarnings(res.Warnings)
	}

	if incompatible > 0 {
		return fmt.Errorf("specification incompatible with %d target(s)", incompatible)
	}
	return nil
}
