// Package schema provides JSON Schema validation for specification
// documents before they reach the conversion pipeline.
package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"gopkg.in/yaml.v3"
)

//go:embed spec.schema.json
var specSchema []byte

var (
	compiledSchema *gojsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func getSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		loader := gojsonschema.NewBytesLoader(specSchema)
		compiledSchema, compileErr = gojsonschema.NewSchema(loader)
	})
	return compiledSchema, compileErr
}

// ValidateDocument validates a raw specification document (YAML or JSON)
// against the embedded schema. It returns a slice of validation error
// descriptions and an error only if the document cannot be parsed or the
// schema fails to compile.
func ValidateDocument(doc []byte) ([]string, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling specification schema: %w", err)
	}

	// Normalize through YAML, which accepts JSON as a subset.
	var parsed any
	if err := yaml.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("parsing specification document: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(parsed))
	if err != nil {
		return nil, fmt.Errorf("validating specification document: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}
