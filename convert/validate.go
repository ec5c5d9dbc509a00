package convert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/autonomize-ai/genesis-convert/spec"
)

// PreConversionValidation runs the shared pre-conversion passes against one
// converter: per-component compatibility, edge validation, and structural
// constraint checks. Which passes run is controlled by opts.
func PreConversionValidation(ctx context.Context, c Converter, s *spec.Specification, opts *ValidationOptions) *ValidationReport {
	start := time.Now()
	if opts == nil {
		opts = DefaultValidationOptions()
	}

	report := &ValidationReport{
		Target:         c.Target(),
		ComponentCount: len(s.Components),
	}

	report.Errors = append(report.Errors, Messages(c.ValidateSpecification(s))...)

	if opts.TypeChecking || opts.PerformanceHints {
		for i := range s.Components {
			comp := &s.Components[i]
			compat := c.ComponentCompatibility(comp)
			if opts.TypeChecking {
				for _, constraint := range compat.Constraints {
					report.Warnings = append(report.Warnings, fmt.Sprintf("component %s: %s", comp.ID, constraint))
				}
			}
			if opts.PerformanceHints && len(compat.Hints) > 0 {
				report.Hints = append(report.Hints, PerformanceHint{ComponentID: comp.ID, Hints: compat.Hints})
			}
		}
	}

	if opts.EdgeValidation {
		for i := range s.Components {
			source := &s.Components[i]
			for _, rel := range source.Provides {
				report.EdgeCount++
				target := s.Component(rel.In)
				if target == nil {
					report.Errors = append(report.Errors,
						fmt.Sprintf("edge %s -> %s: target component does not exist", source.ID, rel.In))
					continue
				}
				verdict := c.ValidateEdge(source, target, rel)
				prefix := fmt.Sprintf("edge %s -> %s: ", verdict.SourceID, verdict.TargetID)
				if !verdict.Valid {
					for _, e := range verdict.Errors {
						report.Errors = append(report.Errors, prefix+e)
					}
				}
				for _, w := range verdict.Warnings {
					report.Warnings = append(report.Warnings, prefix+w)
				}
				report.Suggestions = append(report.Suggestions, verdict.Suggestions...)
			}
		}
	}

	violations, checked := CheckConstraints(s, c.Constraints())
	report.Errors = append(report.Errors, violations...)
	report.ConstraintsChecked = checked

	if opts.StrictMode && len(report.Warnings) > 0 {
		report.Errors = append(report.Errors, report.Warnings...)
		report.Warnings = nil
	}

	report.Valid = len(report.Errors) == 0
	report.Duration = time.Since(start)
	return report
}

// CheckConstraints checks a specification against target constraints and
// returns the violation messages plus the number of constraints evaluated.
func CheckConstraints(s *spec.Specification, limits Constraints) ([]string, int) {
	var violations []string
	checked := 0

	if limits.MaxComponents > 0 {
		checked++
		if n := len(s.Components); n > limits.MaxComponents {
			violations = append(violations, fmt.Sprintf("too many components: %d > %d", n, limits.MaxComponents))
		}
	}
	if limits.MaxMemoryMB > 0 {
		checked++
		if est := EstimateMemoryMB(s); est > limits.MaxMemoryMB {
			violations = append(violations, fmt.Sprintf("estimated memory usage too high: %dMB > %dMB", est, limits.MaxMemoryMB))
		}
	}
	if limits.MaxConcurrentTasks > 0 {
		checked++
		if est := EstimateConcurrency(s); est > limits.MaxConcurrentTasks {
			violations = append(violations, fmt.Sprintf("too many concurrent tasks: %d > %d", est, limits.MaxConcurrentTasks))
		}
	}
	if limits.MaxEdgesPerComponent > 0 {
		checked++
		for i := range s.Components {
			if n := len(s.Components[i].Provides); n > limits.MaxEdgesPerComponent {
				violations = append(violations, fmt.Sprintf("component %s has too many outgoing edges: %d > %d",
					s.Components[i].ID, n, limits.MaxEdgesPerComponent))
			}
		}
	}
	if limits.MaxTotalEdges > 0 {
		checked++
		if n := s.EdgeCount(); n > limits.MaxTotalEdges {
			violations = append(violations, fmt.Sprintf("too many edges: %d > %d", n, limits.MaxTotalEdges))
		}
	}

	return violations, checked
}

// EstimateMemoryMB estimates memory usage as a base overhead plus a weight
// per component type. Agents and models dominate.
func EstimateMemoryMB(s *spec.Specification) int {
	const base = 100
	total := base
	for i := range s.Components {
		t := strings.ToLower(s.Components[i].Type)
		switch {
		case strings.Contains(t, "crew"):
			total += 300
		case strings.Contains(t, "model"):
			total += 500
		case strings.Contains(t, "agent"):
			total += 200
		default:
			total += 50
		}
	}
	return total
}

// EstimateConcurrency counts parallel branches: a component feeding multiple
// targets contributes len(provides)-1 concurrent tasks.
func EstimateConcurrency(s *spec.Specification) int {
	parallel := 0
	for i := range s.Components {
		if n := len(s.Components[i].Provides); n > 1 {
			parallel += n - 1
		}
	}
	if parallel < 1 {
		return 1
	}
	return parallel
}
