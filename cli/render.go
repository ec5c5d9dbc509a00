package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/schema"
	"github.com/autonomize-ai/genesis-convert/spec"
)

// timeRounding trims durations for display.
const timeRounding = time.Millisecond

var (
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

func printErrors(errs []string) {
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, errStyle.Render("ERROR: ")+e)
	}
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, warnStyle.Render("WARNING: ")+w)
	}
}

func printSuggestions(suggestions []string) {
	for _, s := range suggestions {
		fmt.Fprintln(os.Stderr, dimStyle.Render("hint: "+s))
	}
}

// loadSpecification reads a specification document, schema-checks it, and
// decodes it.
func loadSpecification(path string) (*spec.Specification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading specification: %w", err)
	}

	schemaErrs, err := schema.ValidateDocument(data)
	if err != nil {
		return nil, fmt.Errorf("checking specification document: %w", err)
	}
	if len(schemaErrs) > 0 {
		printErrors(schemaErrs)
		return nil, fmt.Errorf("specification document invalid: %d schema error(s)", len(schemaErrs))
	}

	s, err := spec.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parsing specification: %w", err)
	}
	return s, nil
}

// loadArtifact reads a flow artifact JSON file.
func loadArtifact(path string) (convert.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	var artifact convert.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parsing artifact: %w", err)
	}
	return artifact, nil
}

// writeJSON writes v as indented JSON to path, or stdout when path is "".
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
