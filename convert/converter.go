package convert

import (
	"context"
	"fmt"

	"github.com/autonomize-ai/genesis-convert/spec"
)

// Artifact is the target-specific execution structure produced by forward
// conversion. Its exact serialization is owned by the surrounding
// application; this subsystem only validates and decorates its shape.
type Artifact map[string]any

// Capabilities describes what a converter can do. It must be cheap to
// produce; the registry caches it upstream.
type Capabilities struct {
	Name                 string   `json:"name"`
	Version              string   `json:"version"`
	Target               Target   `json:"target"`
	Features             []string `json:"features,omitempty"`
	SupportedComponents  []string `json:"supported_components,omitempty"`
	Bidirectional        bool     `json:"bidirectional"`
	Streaming            bool     `json:"streaming"`
	ImplementationStatus string   `json:"implementation_status,omitempty"`
	PlannedFeatures      []string `json:"planned_features,omitempty"`
}

// Constraints are target-specific structural limits checked during
// pre-conversion validation. A zero value means unlimited.
type Constraints struct {
	MaxComponents        int `json:"max_components,omitempty"`
	MaxMemoryMB          int `json:"max_memory_mb,omitempty"`
	MaxConcurrentTasks   int `json:"max_concurrent_tasks,omitempty"`
	MaxEdgesPerComponent int `json:"max_edges_per_component,omitempty"`
	MaxTotalEdges        int `json:"max_total_edges,omitempty"`
}

// ValidationOptions controls which validation passes run for one request.
type ValidationOptions struct {
	TypeChecking     bool
	EdgeValidation   bool
	PerformanceHints bool
	StrictMode       bool
}

// Enabled reports whether any validation pass is requested.
func (o *ValidationOptions) Enabled() bool {
	return o.TypeChecking || o.EdgeValidation || o.PerformanceHints || o.StrictMode
}

// DefaultValidationOptions enables every non-strict pass.
func DefaultValidationOptions() *ValidationOptions {
	return &ValidationOptions{TypeChecking: true, EdgeValidation: true, PerformanceHints: true}
}

// Compatibility is the per-component verdict produced during validation.
// Created fresh per call; never cached across specifications.
type Compatibility struct {
	SpecType         string            `json:"spec_type"`
	RuntimeComponent string            `json:"runtime_component"`
	Inputs           []string          `json:"inputs,omitempty"`
	Outputs          []string          `json:"outputs,omitempty"`
	ConfigSchema     map[string]any    `json:"config_schema,omitempty"`
	Constraints      []string          `json:"constraints,omitempty"`
	Hints            map[string]string `json:"hints,omitempty"`
}

// EdgeValidation is the per-edge verdict. Unsupported edges are reported
// with Valid=false, a non-empty Errors list, and a Score of 0 — never as an
// error return.
type EdgeValidation struct {
	Valid          bool     `json:"valid"`
	SourceID       string   `json:"source"`
	TargetID       string   `json:"target"`
	ConnectionType string   `json:"connection_type"`
	Errors         []string `json:"errors,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty"`
	Score          float64  `json:"compatibility_score"`
}

// Converter is the contract every target adapter implements.
type Converter interface {
	// Target returns the runtime this adapter converts to/from.
	Target() Target

	// Capabilities reports adapter metadata. Side-effect free.
	Capabilities() Capabilities

	// ValidateSpecification runs pure structural/semantic checks. Expected
	// validation failures are returned as values, never as panics or errors.
	ValidateSpecification(s *spec.Specification) []ValidationError

	// ConvertToTarget converts a specification into the target's execution
	// artifact. Unrecoverable failures yield a *ConversionError.
	ConvertToTarget(ctx context.Context, s *spec.Specification, vars map[string]any, opts *ValidationOptions) (*ConversionResult, error)

	// ConvertFromTarget reconstructs a specification from an execution
	// artifact. Adapters without reverse support fail with a
	// *ConversionError wrapping ErrUnsupportedDirection.
	ConvertFromTarget(ctx context.Context, artifact Artifact) (*spec.Specification, error)

	// SupportsComponentType reports whether the component type resolves in
	// this adapter's support table.
	SupportsComponentType(componentType string) bool

	// ComponentCompatibility produces the per-component verdict.
	ComponentCompatibility(c *spec.Component) Compatibility

	// Constraints returns the target's structural limits.
	Constraints() Constraints

	// ValidateEdge checks one provides relation between two components.
	ValidateEdge(source, target *spec.Component, rel spec.Provides) EdgeValidation
}

// SupportedModes derives the conversion modes a converter supports from its
// capabilities: forward always, reverse only behind the capability flag.
func SupportedModes(c Converter) []Mode {
	modes := []Mode{ModeToTarget}
	if c.Capabilities().Bidirectional {
		modes = append(modes, ModeFromTarget)
	}
	return modes
}

// SupportsMode reports whether the converter supports the given mode.
func SupportsMode(c Converter, mode Mode) bool {
	for _, m := range SupportedModes(c) {
		if m == mode {
			return true
		}
	}
	return false
}

// Convert dispatches to the appropriate direction after validating that the
// requested mode is supported. It fails fast with an argument error before
// any work begins otherwise.
func Convert(ctx context.Context, c Converter, data any, mode Mode, vars map[string]any, opts *ValidationOptions) (*ConversionResult, error) {
	if !SupportsMode(c, mode) {
		return nil, fmt.Errorf("conversion mode %q not supported by target %q", mode, c.Target())
	}

	switch mode {
	case ModeToTarget:
		s, ok := data.(*spec.Specification)
		if !ok {
			return nil, fmt.Errorf("mode %q requires a *spec.Specification, got %T", mode, data)
		}
		return c.ConvertToTarget(ctx, s, vars, opts)
	case ModeFromTarget:
		artifact, ok := data.(Artifact)
		if !ok {
			if m, isMap := data.(map[string]any); isMap {
				artifact = Artifact(m)
			} else {
				return nil, fmt.Errorf("mode %q requires an Artifact, got %T", mode, data)
			}
		}
		s, err := c.ConvertFromTarget(ctx, artifact)
		if err != nil {
			return nil, err
		}
		return &ConversionResult{
			Success:       true,
			Target:        c.Target(),
			Specification: s,
			Timestamp:     now(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown conversion mode %q", mode)
	}
}
