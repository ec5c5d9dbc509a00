package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autonomize-ai/genesis-convert/convert"
)

var (
	validateFile   string
	validateTarget string
	validateStrict bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a specification against a conversion target",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "specification file (YAML or JSON)")
	validateCmd.Flags().StringVarP(&validateTarget, "target", "t", "langflow", "conversion target")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
	_ = validateCmd.MarkFlagRequired("file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	tc := newToolchain()
	defer tc.logger.Sync() //nolint:errcheck

	s, err := loadSpecification(validateFile)
	if err != nil {
		return err
	}
	target, err := convert.ParseTarget(validateTarget)
	if err != nil {
		return err
	}

	opts := convert.DefaultValidationOptions()
	opts.StrictMode = validateStrict

	report, err := tc.factory.ValidateSpecification(cmd.Context(), s, target, opts)
	if err != nil {
		return err
	}

	printWarnings(report.Warnings)
	printErrors(report.Errors)
	printSuggestions(report.Suggestions)
	for _, hint := range report.Hints {
		for k, v := range hint.Hints {
			fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render(fmt.Sprintf("hint (%s/%s): %s", hint.ComponentID, k, v)))
		}
	}

	if !report.Valid {
		return fmt.Errorf("validation failed: %d error(s)", len(report.Errors))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render(fmt.Sprintf(
		"Validation passed: %d components, %d edges, %d constraints checked.",
		report.ComponentCount, report.EdgeCount, report.ConstraintsChecked)))
	return nil
}
