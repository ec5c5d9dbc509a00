package optimize

import (
	"fmt"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/spec"
)

// Bottleneck severities, worst first.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Bottleneck describes one structural performance concern.
type Bottleneck struct {
	Type        string   `json:"type"`
	Severity    string   `json:"severity"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Components  []string `json:"components,omitempty"`
}

// BottleneckReport is the result of structural analysis against one target.
type BottleneckReport struct {
	Target          convert.Target `json:"target"`
	ComponentCount  int            `json:"component_count"`
	EdgeCount       int            `json:"edge_count"`
	EdgeDensity     float64        `json:"edge_density"`
	Bottlenecks     []Bottleneck   `json:"bottlenecks,omitempty"`
	SeveritySummary map[string]int `json:"severity_summary"`
	Recommendations []string       `json:"recommendations,omitempty"`
}

// DetectBottlenecks inspects a specification for structural patterns that
// degrade conversion or runtime performance on the given target.
func (o *Optimizer) DetectBottlenecks(s *spec.Specification, c convert.Converter) *BottleneckReport {
	report := &BottleneckReport{
		Target:          c.Target(),
		ComponentCount:  len(s.Components),
		EdgeCount:       s.EdgeCount(),
		SeveritySummary: map[string]int{},
	}
	if n := len(s.Components); n > 0 {
		report.EdgeDensity = float64(report.EdgeCount) / float64(n)
	}

	if len(s.Components) > 20 {
		report.add(Bottleneck{
			Type:        "component_count",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("%d components exceed the recommended maximum of 20", len(s.Components)),
			Impact:      "conversion and runtime latency grow with component count",
		})
	} else if len(s.Components) > 10 {
		report.add(Bottleneck{
			Type:        "component_count",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("%d components may slow conversion", len(s.Components)),
			Impact:      "moderate conversion latency",
		})
	}

	if report.EdgeDensity > 3 {
		report.add(Bottleneck{
			Type:        "edge_density",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("average of %.1f connections per component", report.EdgeDensity),
			Impact:      "dense wiring complicates scheduling and debugging",
		})
	}

	if heavy := heavyComponents(s); len(heavy) > 0 {
		report.add(Bottleneck{
			Type:        "memory_heavy_components",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("%d components with large memory estimates", len(heavy)),
			Impact:      "estimated memory footprint exceeds typical worker limits",
			Components:  heavy,
		})
	}

	if unsupported := unsupportedComponents(s, c); len(unsupported) > 0 {
		report.add(Bottleneck{
			Type:        "unsupported_components",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("%d component types unsupported by %s", len(unsupported), c.Target()),
			Impact:      "conversion degrades or fails for these components",
			Components:  unsupported,
		})
	}

	if mb := convert.EstimateMemoryMB(s); mb > 1000 {
		report.add(Bottleneck{
			Type:        "total_memory",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("estimated %dMB total memory", mb),
			Impact:      "may exceed available memory on standard workers",
		})
	}

	report.Recommendations = bottleneckRecommendations(report)
	return report
}

func (r *BottleneckReport) add(b Bottleneck) {
	r.Bottlenecks = append(r.Bottlenecks, b)
	r.SeveritySummary[b.Severity]++
}

func bottleneckRecommendations(r *BottleneckReport) []string {
	var recs []string
	for _, b := range r.Bottlenecks {
		switch b.Type {
		case "component_count":
			recs = append(recs, "split the workflow into smaller, composable specifications")
		case "edge_density":
			recs = append(recs, "introduce intermediate components to reduce fan-in and fan-out")
		case "memory_heavy_components":
			recs = append(recs, "bound max_tokens and batch sizes on memory-heavy components")
		case "unsupported_components":
			recs = append(recs, "replace unsupported component types or choose a different target")
		case "total_memory":
			recs = append(recs, "reduce concurrent memory-heavy components or raise worker limits")
		}
	}
	return recs
}

// bottleneckIndicators gives the quick structural signals recorded by
// analyze and in run metrics.
func bottleneckIndicators(s *spec.Specification) []string {
	var out []string
	if len(s.Components) > 20 {
		out = append(out, "high_component_count")
	}
	if n := len(s.Components); n > 0 && float64(s.EdgeCount())/float64(n) > 3 {
		out = append(out, "high_edge_density")
	}
	if convert.EstimateMemoryMB(s) > 1000 {
		out = append(out, "high_memory_estimate")
	}
	return out
}

func heavyComponents(s *spec.Specification) []string {
	var out []string
	for i := range s.Components {
		t := s.Components[i].Type
		if containsFold(t, "crew") || containsFold(t, "model") {
			out = append(out, s.Components[i].ID)
		}
	}
	return out
}

func unsupportedComponents(s *spec.Specification, c convert.Converter) []string {
	var out []string
	seen := map[string]bool{}
	for i := range s.Components {
		t := s.Components[i].Type
		if seen[t] {
			continue
		}
		seen[t] = true
		if !c.SupportsComponentType(t) {
			out = append(out, t)
		}
	}
	return out
}
