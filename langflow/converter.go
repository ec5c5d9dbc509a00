package langflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/spec"
)

const converterVersion = "1.0.0"

// toolCapableTypes may feed a tools connection without an explicit asTools
// flag.
var toolCapableTypes = map[string]bool{
	"genesis:mcp_tool":             true,
	"genesis:knowledge_hub_search": true,
	"genesis:api_request":          true,
}

// Converter is the visual-runtime adapter. It delegates artifact assembly
// to a FlowBuilder and type resolution to a ComponentMapper, both swappable
// for tests.
type Converter struct {
	mapper       ComponentMapper
	builder      FlowBuilder
	defaultUseAs string
}

// Option configures a Converter.
type Option func(*Converter)

// WithMapper replaces the component mapper.
func WithMapper(m ComponentMapper) Option {
	return func(c *Converter) { c.mapper = m }
}

// WithBuilder replaces the flow builder.
func WithBuilder(b FlowBuilder) Option {
	return func(c *Converter) { c.builder = b }
}

// WithDefaultUseAs sets the useAs assigned to reverse-converted edges whose
// field name has no mapping. Defaults to "input".
func WithDefaultUseAs(useAs string) Option {
	return func(c *Converter) { c.defaultUseAs = useAs }
}

// New builds the adapter with the static mapper and default builder.
func New(opts ...Option) *Converter {
	c := &Converter{defaultUseAs: "input"}
	for _, opt := range opts {
		opt(c)
	}
	if c.mapper == nil {
		c.mapper = NewStaticMapper()
	}
	if c.builder == nil {
		c.builder = NewBuilder(c.mapper)
	}
	return c
}

func (c *Converter) Target() convert.Target { return convert.TargetLangflow }

func (c *Converter) Capabilities() convert.Capabilities {
	return convert.Capabilities{
		Name:    "Langflow",
		Version: converterVersion,
		Target:  convert.TargetLangflow,
		Features: []string{
			"visual_flow_design",
			"component_library",
			"real_time_execution",
			"streaming_support",
			"api_integration",
			"custom_components",
		},
		SupportedComponents: c.mapper.SupportedTypes(),
		Bidirectional:       true,
		Streaming:           true,
	}
}

// ValidateSpecification checks required fields, component shape, support
// table resolution, and provides-target existence. Every defect is
// reported; nothing short-circuits.
func (c *Converter) ValidateSpecification(s *spec.Specification) []convert.ValidationError {
	var errs []convert.ValidationError

	if s.Name == "" {
		errs = append(errs, convert.ValidationError{Code: convert.CodeMissingField, Message: "required field missing: name"})
	}
	if s.Description == "" {
		errs = append(errs, convert.ValidationError{Code: convert.CodeMissingField, Message: "required field missing: description"})
	}
	if s.Goal == "" {
		errs = append(errs, convert.ValidationError{Code: convert.CodeMissingField, Message: "required field missing: agentGoal"})
	}
	if len(s.Components) == 0 {
		errs = append(errs, convert.ValidationError{Code: convert.CodeEmptySpecification, Message: "at least one component is required"})
		return errs
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
			continue
		}
		if !c.mapper.Supports(comp.Type) {
			errs = append(errs, convert.ValidationError{
				Code:        convert.CodeComponentNotSupported,
				ComponentID: comp.ID,
				Message:     fmt.Sprintf("unsupported component type: %s", comp.Type),
			})
		}
		for j, rel := range comp.Provides {
			if rel.In == "" {
				errs = append(errs, convert.ValidationError{
					Code:        convert.CodeInvalidEdge,
					ComponentID: comp.ID,
					Message:     fmt.Sprintf("provides[%d] missing required field: in", j),
				})
				continue
			}
			if s.Component(rel.In) == nil {
				errs = append(errs, convert.ValidationError{
					Code:        convert.CodeUnknownEdgeTarget,
					ComponentID: comp.ID,
					Message:     fmt.Sprintf("provides[%d] references non-existent component: %s", j, rel.In),
				})
			}
		}
	}
	return errs
}

// ConvertToTarget builds the flow artifact. Structural defects yield a
// failed result; only builder breakage is an error.
func (c *Converter) ConvertToTarget(ctx context.Context, s *spec.Specification, vars map[string]any, opts *convert.ValidationOptions) (*convert.ConversionResult, error) {
	start := time.Now()

	if errs := c.ValidateSpecification(s); len(errs) > 0 {
		res := convert.Failed(convert.TargetLangflow, convert.Messages(errs)...)
		res.Metadata = map[string]any{"validation_failed": true}
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, convert.NewConversionError(convert.TargetLangflow, convert.DirectionToTarget, "conversion canceled", err)
	}

	artifact, warnings, err := c.builder.Build(s, vars)
	if err != nil {
		return nil, convert.NewConversionError(convert.TargetLangflow, convert.DirectionToTarget, "flow build failed", err)
	}

	// Provenance decoration.
	artifact["converted_by"] = "LangflowConverter"
	artifact["conversion_timestamp"] = time.Now().UTC().Format(time.RFC3339)
	artifact["genesis_spec_version"] = versionOrDefault(s.Version)

	duration := time.Since(start)
	data, _ := artifact["data"].(map[string]any)
	nodes, _ := data["nodes"].([]any)
	edges, _ := data["edges"].([]any)

	res := &convert.ConversionResult{
		Success:  true,
		Target:   convert.TargetLangflow,
		Artifact: artifact,
		Warnings: warnings,
		Metadata: map[string]any{
			"conversion_method":    "FlowBuilder.Build",
			"components_processed": len(s.Components),
			"variables_applied":    len(vars),
			"node_count":           len(nodes),
			"edge_count":           len(edges),
		},
		Metrics: convert.Metrics{
			Duration:         duration,
			MemoryEstimateMB: convert.EstimateMemoryMB(s),
		},
		Timestamp: time.Now().UTC(),
	}
	if secs := duration.Seconds(); secs > 0 {
		res.Metrics.ComponentsPerSecond = float64(len(s.Components)) / secs
	}
	return res, nil
}

func versionOrDefault(v string) string {
	if v == "" {
		return "1.0.0"
	}
	return v
}

func (c *Converter) SupportsComponentType(componentType string) bool {
	return c.mapper.Supports(componentType)
}

func (c *Converter) ComponentCompatibility(comp *spec.Component) convert.Compatibility {
	mapping := c.mapper.Map(comp.Type)
	io := c.mapper.IO(mapping.Component)

	var constraints []string
	hints := map[string]string{}

	lower := strings.ToLower(comp.Type)
	if strings.Contains(lower, "crew") {
		constraints = append(constraints, "requires a crew execution library at runtime")
		hints["memory"] = "crew components use additional memory"
	}
	if comp.Type == "genesis:mcp_tool" {
		constraints = append(constraints, "requires MCP server configuration")
		hints["startup"] = "MCP tools may have initialization delay"
	}
	if strings.Contains(lower, "autonomize") {
		constraints = append(constraints, "requires Autonomize model access")
		hints["api"] = "external API calls may affect latency"
	}
	if comp.AsTools && !toolCapableTypes[comp.Type] {
		constraints = append(constraints, "component may not be optimized for tool usage")
	}
	if len(hints) == 0 {
		hints = nil
	}

	return convert.Compatibility{
		SpecType:         comp.Type,
		RuntimeComponent: mapping.Component,
		Inputs:           io.InputFields,
		Outputs:          io.OutputFields,
		ConfigSchema:     mapping.Config,
		Constraints:      constraints,
		Hints:            hints,
	}
}

// Constraints reflect visual canvas limits: too many nodes degrade the UI
// well before the engine struggles.
func (c *Converter) Constraints() convert.Constraints {
	return convert.Constraints{
		MaxComponents:        50,
		MaxMemoryMB:          4096,
		MaxConcurrentTasks:   10,
		MaxEdgesPerComponent: 5,
		MaxTotalEdges:        100,
	}
}

// ValidateEdge applies the per-useAs wiring rules and scores compatibility.
// A broken edge comes back Valid=false with Score 0, never as an error.
func (c *Converter) ValidateEdge(source, target *spec.Component, rel spec.Provides) convert.EdgeValidation {
	v := convert.EdgeValidation{
		SourceID:       source.ID,
		TargetID:       target.ID,
		ConnectionType: rel.UseAs,
	}

	if rel.UseAs == "" {
		v.Errors = append(v.Errors, "missing 'useAs' field in connection")
	}
	if rel.In == "" {
		v.Errors = append(v.Errors, "missing 'in' field in connection")
	}

	switch rel.UseAs {
	case "tool", "tools":
		if !source.AsTools && !toolCapableTypes[source.Type] {
			v.Errors = append(v.Errors, fmt.Sprintf("component %s not marked as tool (asTools: true)", source.ID))
		}
		if !strings.Contains(strings.ToLower(target.Type), "agent") {
			v.Warnings = append(v.Warnings, fmt.Sprintf("component %s may not support tool connections", target.ID))
		}
	case "input":
		if source.Type != "genesis:chat_input" && source.Type != "genesis:prompt" {
			v.Warnings = append(v.Warnings, fmt.Sprintf("unusual input source type: %s", source.Type))
		}
		if !strings.Contains(strings.ToLower(target.Type), "agent") && !strings.Contains(strings.ToLower(target.Type), "output") {
			v.Warnings = append(v.Warnings, fmt.Sprintf("component %s may not accept input connections", target.ID))
		}
	case "system_prompt":
		if source.Type != "genesis:prompt" && source.Type != "genesis:prompt_template" {
			v.Errors = append(v.Errors, fmt.Sprintf("system prompt must come from genesis:prompt, not %s", source.Type))
		}
		if !strings.Contains(strings.ToLower(target.Type), "agent") {
			v.Errors = append(v.Errors, fmt.Sprintf("system prompt can only connect to agents, not %s", target.Type))
		}
	}

	v.Score = c.edgeScore(source, target, rel)
	if v.Score < 0.7 {
		v.Suggestions = append(v.Suggestions, fmt.Sprintf("consider optimizing connection %s -> %s", source.ID, target.ID))
	}
	if len(source.Provides) > 5 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("component %s has many outgoing connections, may impact canvas performance", source.ID))
	}

	v.Valid = len(v.Errors) == 0
	if !v.Valid {
		v.Score = 0
	}
	return v
}

// edgeScore starts at 1.0 and penalizes fallback mappings, incompatible
// handle types, and mislabeled tool sources; clamped to [0,1].
func (c *Converter) edgeScore(source, target *spec.Component, rel spec.Provides) float64 {
	score := 1.0

	sourceMapping := c.mapper.Map(source.Type)
	targetMapping := c.mapper.Map(target.Type)
	if sourceMapping.Component == FallbackComponent {
		score -= 0.2
	}
	if targetMapping.Component == FallbackComponent {
		score -= 0.2
	}

	sourceIO := c.mapper.IO(sourceMapping.Component)
	targetIO := c.mapper.IO(targetMapping.Component)
	outputTypes := sourceIO.OutputTypes
	if len(outputTypes) == 0 {
		outputTypes = []string{"Message", "Data"}
	}
	inputTypes := targetIO.InputTypes
	if len(inputTypes) == 0 {
		inputTypes = []string{"Message", "Data", "str"}
	}
	if typesCompatible(outputTypes, inputTypes) {
		score += 0.2
	} else {
		score -= 0.3
	}

	if rel.UseAs == "tools" || rel.UseAs == "tool" {
		if source.AsTools || toolCapableTypes[source.Type] {
			score += 0.1
		} else {
			score -= 0.2
		}
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
