package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/optimize"
)

var (
	convertFile     string
	convertTarget   string
	convertOptimize string
	convertOut      string
	convertVars     []string
	convertStrict   bool
	convertSkipVal  bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a specification to a runtime artifact",
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFile, "file", "f", "", "specification file (YAML or JSON)")
	convertCmd.Flags().StringVarP(&convertTarget, "target", "t", "langflow", "conversion target")
	convertCmd.Flags().StringVar(&convertOptimize, "optimize", "", "optimization level: fast, balanced, or thorough")
	convertCmd.Flags().StringVarP(&convertOut, "output", "o", "", "output file (default stdout)")
	convertCmd.Flags().StringArrayVar(&convertVars, "var", nil, "runtime variable as key=value (repeatable)")
	convertCmd.Flags().BoolVar(&convertStrict, "strict", false, "treat validation warnings as errors")
	convertCmd.Flags().BoolVar(&convertSkipVal, "skip-validation", false, "skip pre-conversion validation")
	_ = convertCmd.MarkFlagRequired("file")
}

func runConvert(cmd *cobra.Command, args []string) error {
	tc := newToolchain()
	defer tc.logger.Sync() //nolint:errcheck

	s, err := loadSpecification(convertFile)
	if err != nil {
		return err
	}
	target, err := convert.ParseTarget(convertTarget)
	if err != nil {
		return err
	}
	vars, err := parseVars(convertVars)
	if err != nil {
		return err
	}

	var level optimize.Level
	if convertOptimize != "" {
		if level, err = optimize.ParseLevel(convertOptimize); err != nil {
			return err
		}
	}

	opts := convert.DefaultValidationOptions()
	opts.StrictMode = convertStrict
	if convertSkipVal {
		opts = &convert.ValidationOptions{}
	}

	res := tc.factory.ConvertSpecification(cmd.Context(), s, target, vars, opts, level)
	printWarnings(res.Warnings)
	printSuggestions(res.Suggestions)

	if !res.Success {
		printErrors(res.Errors)
		return fmt.Errorf("conversion to %s failed: %d error(s)", target, len(res.Errors))
	}

	if err := writeJSON(convertOut, res.Artifact); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render(fmt.Sprintf(
		"Converted %q to %s (%d components in %s).",
		s.Name, target, len(s.Components), res.Metrics.Duration.Round(timeRounding))))
	return nil
}

func parseVars(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", pair)
		}
		vars[k] = v
	}
	return vars, nil
}
