package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autonomize-ai/genesis-convert/reverse"
)

var (
	reverseFile         string
	reverseName         string
	reverseDescription  string
	reverseDomain       string
	reverseVersion      string
	reverseOut          string
	reverseDefaultUseAs string
	reversePreserveVars bool
	reverseInspectOnly  bool
)

var reverseCmd = &cobra.Command{
	Use:   "reverse",
	Short: "Convert a runtime artifact back into a specification",
	RunE:  runReverse,
}

func init() {
	reverseCmd.Flags().StringVarP(&reverseFile, "file", "f", "", "artifact file (JSON)")
	reverseCmd.Flags().StringVar(&reverseName, "name", "", "override specification name")
	reverseCmd.Flags().StringVar(&reverseDescription, "description", "", "override specification description")
	reverseCmd.Flags().StringVar(&reverseDomain, "domain", "", "override specification domain")
	reverseCmd.Flags().StringVar(&reverseVersion, "spec-version", "", "override specification version")
	reverseCmd.Flags().StringVarP(&reverseOut, "output", "o", "", "output file (default stdout)")
	reverseCmd.Flags().StringVar(&reverseDefaultUseAs, "default-use-as", "", "useAs for unmapped connection fields")
	reverseCmd.Flags().BoolVar(&reversePreserveVars, "preserve-variables", false, "promote {{placeholder}} values to spec variables")
	reverseCmd.Flags().BoolVar(&reverseInspectOnly, "inspect", false, "report convertibility without converting")
	_ = reverseCmd.MarkFlagRequired("file")
}

func runReverse(cmd *cobra.Command, args []string) error {
	tc := newToolchain()
	defer tc.logger.Sync() //nolint:errcheck

	artifact, err := loadArtifact(reverseFile)
	if err != nil {
		return err
	}
	rc := reverse.New(tc.logger)

	if reverseInspectOnly {
		inspection, err := rc.Inspect(artifact)
		if err != nil {
			return err
		}
		printSuggestions(inspection.Recommendations)
		fmt.Fprintln(cmd.ErrOrStderr(), headerStyle.Render(fmt.Sprintf(
			"%d nodes (%d convertible), %d edges", inspection.NodeCount, inspection.ConvertibleNodes, inspection.EdgeCount)))
		return writeJSON(reverseOut, inspection)
	}

	s, err := rc.ConvertArtifact(cmd.Context(), artifact, reverse.Options{
		Name:              reverseName,
		Description:       reverseDescription,
		Domain:            reverseDomain,
		Version:           reverseVersion,
		PreserveVariables: reversePreserveVars,
		DefaultUseAs:      reverseDefaultUseAs,
	})
	if err != nil {
		return err
	}

	if err := writeJSON(reverseOut, s); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render(fmt.Sprintf(
		"Recovered specification %q with %d components.", s.Name, len(s.Components))))
	return nil
}
