// Package skeleton provides declarative placeholder adapters for targets
// whose forward conversion is not implemented yet. A skeleton reports full
// capability metadata and validates specifications, but conversion fails
// with a queryable "skeleton" error — partial-ecosystem rollout is an
// explicit, inspectable state rather than a hidden limitation.
package skeleton

import (
	"context"
	"fmt"
	"strings"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/spec"
)

// FitnessCheck flags specifications that are structurally valid but poorly
// suited to the target (wrong run-mode, missing required component shapes).
type FitnessCheck func(s *spec.Specification) []convert.ValidationError

// Descriptor declares a skeleton adapter. Plugin manifests and the built-in
// temporal/kafka adapters both construct converters from one.
type Descriptor struct {
	Name                string
	Version             string
	Target              convert.Target
	Features            []string
	SupportedComponents []string
	PlannedFeatures     []string
	Streaming           bool
	Limits              convert.Constraints
	Fitness             []FitnessCheck
}

// Converter is a skeleton adapter built from a Descriptor.
type Converter struct {
	desc      Descriptor
	supported map[string]bool
}

// New builds a skeleton converter.
func New(desc Descriptor) *Converter {
	supported := make(map[string]bool, len(desc.SupportedComponents))
	for _, t := range desc.SupportedComponents {
		supported[t] = true
	}
	return &Converter{desc: desc, supported: supported}
}

func (c *Converter) Target() convert.Target { return c.desc.Target }

func (c *Converter) Capabilities() convert.Capabilities {
	return convert.Capabilities{
		Name:                 c.desc.Name,
		Version:              c.desc.Version,
		Target:               c.desc.Target,
		Features:             c.desc.Features,
		SupportedComponents:  c.desc.SupportedComponents,
		Bidirectional:        false,
		Streaming:            c.desc.Streaming,
		ImplementationStatus: "skeleton",
		PlannedFeatures:      c.desc.PlannedFeatures,
	}
}

// ValidateSpecification never fails for a structurally valid specification.
func (c *Converter) ValidateSpecification(s *spec.Specification) []convert.ValidationError {
	var errs []convert.ValidationError

	if s.Name == "" {
		errs = append(errs, convert.ValidationError{Code: convert.CodeMissingField, Message: "required field missing: name"})
	}
	if len(s.Components) == 0 {
		errs = append(errs, convert.ValidationError{Code: convert.CodeEmptySpecification, Message: "at least one component is required"})
	}
	for i := range s.Components {
		comp := &s.Components[i]
		if comp.ID == "" {
			errs = append(errs, convert.ValidationError{
				Code:    convert.CodeMissingField,
				Message: fmt.Sprintf("component %d missing required field: id", i),
			})
		}
		if comp.Type == "" {
			errs = append(errs, convert.ValidationError{
				Code:        convert.CodeMissingField,
				ComponentID: comp.ID,
				Message:     "missing required field: type",
			})
		}
		for _, rel := range comp.Provides {
			if rel.In != "" && s.Component(rel.In) == nil {
				errs = append(errs, convert.ValidationError{
					Code:        convert.CodeUnknownEdgeTarget,
					ComponentID: comp.ID,
					Message:     fmt.Sprintf("provides references non-existent component: %s", rel.In),
				})
			}
		}
	}

	for _, check := range c.desc.Fitness {
		errs = append(errs, check(s)...)
	}
	return errs
}

// ConvertToTarget unconditionally fails with the documented skeleton error.
func (c *Converter) ConvertToTarget(_ context.Context, _ *spec.Specification, _ map[string]any, _ *convert.ValidationOptions) (*convert.ConversionResult, error) {
	return nil, convert.NewSkeletonError(c.desc.Target, c.desc.PlannedFeatures)
}

// ConvertFromTarget fails: skeletons do not support reverse conversion.
func (c *Converter) ConvertFromTarget(_ context.Context, _ convert.Artifact) (*spec.Specification, error) {
	return nil, convert.NewUnsupportedDirection(c.desc.Target, convert.DirectionFromTarget)
}

func (c *Converter) SupportsComponentType(componentType string) bool {
	return c.supported[componentType]
}

func (c *Converter) ComponentCompatibility(comp *spec.Component) convert.Compatibility {
	compat := convert.Compatibility{
		SpecType:         comp.Type,
		RuntimeComponent: "(planned)",
	}
	if !c.supported[comp.Type] {
		compat.Constraints = append(compat.Constraints,
			fmt.Sprintf("type %s is not in the %s support table", comp.Type, c.desc.Name))
	}
	compat.Constraints = append(compat.Constraints,
		fmt.Sprintf("%s conversion is not implemented yet", c.desc.Name))
	return compat
}

func (c *Converter) Constraints() convert.Constraints { return c.desc.Limits }

// ValidateEdge applies structural checks only; skeleton adapters have no
// runtime-specific connection rules yet.
func (c *Converter) ValidateEdge(source, target *spec.Component, rel spec.Provides) convert.EdgeValidation {
	v := convert.EdgeValidation{
		SourceID:       source.ID,
		TargetID:       target.ID,
		ConnectionType: rel.UseAs,
		Score:          1.0,
	}
	if rel.UseAs == "" {
		v.Errors = append(v.Errors, "missing 'useAs' field in connection")
	}
	if rel.In == "" {
		v.Errors = append(v.Errors, "missing 'in' field in connection")
	}
	if !c.supported[source.Type] || !c.supported[target.Type] {
		v.Score = 0.5
		v.Warnings = append(v.Warnings, "edge touches component types outside the support table")
	}
	v.Valid = len(v.Errors) == 0
	if !v.Valid {
		v.Score = 0
	}
	return v
}

// hasComponentMatching reports whether any component type contains the
// given fragment.
func hasComponentMatching(s *spec.Specification, fragment string) bool {
	for i := range s.Components {
		if strings.Contains(strings.ToLower(s.Components[i].Type), fragment) {
			return true
		}
	}
	return false
}
