package convert

import (
	"time"

	"github.com/autonomize-ai/genesis-convert/spec"
)

func now() time.Time { return time.Now().UTC() }

// Metrics is the per-conversion performance bag attached to results.
type Metrics struct {
	Duration             time.Duration `json:"duration"`
	ComponentsPerSecond  float64       `json:"components_per_second,omitempty"`
	MemoryEstimateMB     int           `json:"memory_estimate_mb,omitempty"`
	OptimizationsApplied []string      `json:"optimizations_applied,omitempty"`
}

// ConversionResult is created once per conversion attempt and is immutable
// after return; callers never mutate it.
type ConversionResult struct {
	Success       bool                `json:"success"`
	Target        Target              `json:"target"`
	Artifact      Artifact            `json:"artifact,omitempty"`
	Specification *spec.Specification `json:"specification,omitempty"`
	Errors        []string            `json:"errors,omitempty"`
	Warnings      []string            `json:"warnings,omitempty"`
	Suggestions   []string            `json:"suggestions,omitempty"`
	Metadata      map[string]any      `json:"metadata,omitempty"`
	Metrics       Metrics             `json:"metrics"`
	Timestamp     time.Time           `json:"timestamp"`
}

// Failed builds a failed result for the given target.
func Failed(target Target, errs ...string) *ConversionResult {
	return &ConversionResult{
		Success:   false,
		Target:    target,
		Errors:    errs,
		Timestamp: now(),
	}
}

// PerformanceHint carries per-component hints surfaced during validation.
type PerformanceHint struct {
	ComponentID string            `json:"component"`
	Hints       map[string]string `json:"hints"`
}

// ValidationReport is the outcome of pre-conversion validation against one
// target. Validation failures never escape as errors; they are reported
// here and embedded into failed ConversionResults by the factory.
type ValidationReport struct {
	Valid       bool              `json:"valid"`
	Target      Target            `json:"target"`
	Errors      []string          `json:"errors,omitempty"`
	Warnings    []string          `json:"warnings,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Hints       []PerformanceHint `json:"performance_hints,omitempty"`

	Duration           time.Duration `json:"duration"`
	ComponentCount     int           `json:"component_count"`
	EdgeCount          int           `json:"edge_count"`
	ConstraintsChecked int           `json:"constraints_checked"`
}
