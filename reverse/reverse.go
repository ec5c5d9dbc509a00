// Package reverse is the public facade for artifact-to-specification
// conversion: it wraps the langflow adapter's reverse path with identity
// overrides, variable preservation, and metadata inference.
package reverse

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/langflow"
	"github.com/autonomize-ai/genesis-convert/spec"
	"github.com/autonomize-ai/genesis-convert/util"
)

// Options controls one reverse conversion. Zero-value fields keep whatever
// the artifact provides.
type Options struct {
	Name              string
	Description       string
	Domain            string
	Version           string
	PreserveVariables bool
	DefaultUseAs      string
}

// Converter is the reverse-conversion facade. Safe for concurrent use.
type Converter struct {
	mapper *langflow.StaticMapper
	logger *zap.Logger
}

// New builds the facade. A nil logger falls back to a no-op logger.
func New(logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{mapper: langflow.NewStaticMapper(), logger: logger}
}

// ConvertArtifact lifts one flow artifact into a specification, applies the
// requested identity overrides, and infers workflow metadata. The URN is
// regenerated whenever name, domain, or version change so identity and id
// never drift apart.
func (c *Converter) ConvertArtifact(ctx context.Context, artifact convert.Artifact, opts Options) (*spec.Specification, error) {
	adapterOpts := []langflow.Option{langflow.WithMapper(c.mapper)}
	if opts.DefaultUseAs != "" {
		adapterOpts = append(adapterOpts, langflow.WithDefaultUseAs(opts.DefaultUseAs))
	}
	adapter := langflow.New(adapterOpts...)

	s, err := adapter.ConvertFromTarget(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("reverse conversion: %w", err)
	}

	overridden := false
	if opts.Name != "" {
		s.Name = opts.Name
		overridden = true
	}
	if opts.Description != "" {
		s.Description = opts.Description
	}
	if opts.Domain != "" {
		s.Domain = opts.Domain
		overridden = true
	}
	if opts.Version != "" {
		s.Version = opts.Version
		overridden = true
	}
	if overridden {
		s.ID = fmt.Sprintf("urn:agent:genesis:%s:%s:%s", s.Domain, util.Slugify(s.Name), s.Version)
	}

	if opts.PreserveVariables {
		preserveVariables(s, artifact)
	}
	inferMetadata(s)

	c.logger.Debug("artifact converted to specification",
		zap.String("spec", s.ID),
		zap.Int("components", len(s.Components)))
	return s, nil
}

// ConvertBatch converts artifacts independently: one bad artifact never
// blocks the rest. The returned error aggregates every per-item failure;
// successes are returned either way, in input order.
func (c *Converter) ConvertBatch(ctx context.Context, artifacts []convert.Artifact, opts Options) ([]*spec.Specification, error) {
	var specs []*spec.Specification
	var failures []string

	for i, artifact := range artifacts {
		s, err := c.ConvertArtifact(ctx, artifact, opts)
		if err != nil {
			failures = append(failures, fmt.Sprintf("artifact %d: %v", i, err))
			continue
		}
		specs = append(specs, s)
	}

	if len(failures) > 0 {
		return specs, fmt.Errorf("%d of %d artifacts failed: %s", len(failures), len(artifacts), strings.Join(failures, "; "))
	}
	return specs, nil
}

// Inspection is the validate-only view of an artifact.
type Inspection struct {
	Name             string   `json:"name"`
	NodeCount        int      `json:"node_count"`
	EdgeCount        int      `json:"edge_count"`
	ConvertibleNodes int      `json:"convertible_nodes"`
	UnknownNodes     []string `json:"unknown_nodes,omitempty"`
	Recommendations  []string `json:"recommendations,omitempty"`
}

// Inspect reports whether an artifact can convert cleanly, without
// converting it.
func (c *Converter) Inspect(artifact convert.Artifact) (*Inspection, error) {
	data, ok := artifact["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid artifact: missing data")
	}
	nodes, ok := data["nodes"].([]any)
	if !ok {
		return nil, fmt.Errorf("invalid artifact: data.nodes must be a list")
	}
	edges, _ := data["edges"].([]any)

	ins := &Inspection{
		NodeCount: len(nodes),
		EdgeCount: len(edges),
	}
	if name, ok := artifact["name"].(string); ok {
		ins.Name = name
	}

	for _, raw := range nodes {
		node, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		nodeData, _ := node["data"].(map[string]any)
		runtimeType, _ := nodeData["type"].(string)
		if runtimeType == "" {
			continue
		}
		if _, known := c.mapper.Reverse(runtimeType); known {
			ins.ConvertibleNodes++
		} else {
			ins.UnknownNodes = append(ins.UnknownNodes, runtimeType)
		}
	}

	if len(ins.UnknownNodes) > 0 {
		ins.Recommendations = append(ins.Recommendations,
			fmt.Sprintf("%d node types will fall back to generic components", len(ins.UnknownNodes)))
	}
	if ins.NodeCount > 25 {
		ins.Recommendations = append(ins.Recommendations,
			"large flow: consider splitting the converted specification")
	}
	if ins.NodeCount == 0 {
		ins.Recommendations = append(ins.Recommendations, "artifact has no nodes; conversion would produce an empty specification")
	}
	return ins, nil
}

// preserveVariables promotes {{placeholder}} references found anywhere in
// the artifact to specification-level variables.
func preserveVariables(s *spec.Specification, artifact convert.Artifact) {
	names := langflow.Placeholders(map[string]any(artifact))
	if len(names) == 0 {
		return
	}
	declared := map[string]bool{}
	for _, v := range s.Variables {
		declared[v.Name] = true
	}
	for _, name := range names {
		if declared[name] {
			continue
		}
		s.Variables = append(s.Variables, spec.Variable{
			Name:        name,
			Type:        "string",
			Description: "preserved from artifact placeholder",
		})
	}
}

// inferMetadata derives agency level, interaction mode, and a coarse
// complexity label from the converted component graph.
func inferMetadata(s *spec.Specification) {
	agents, tools := 0, 0
	hasChatInput, hasChatOutput := false, false
	for i := range s.Components {
		t := strings.ToLower(s.Components[i].Type)
		switch {
		case strings.Contains(t, "agent"):
			agents++
		case strings.Contains(t, "tool"), s.Components[i].AsTools:
			tools++
		}
		if t == "genesis:chat_input" {
			hasChatInput = true
		}
		if t == "genesis:chat_output" {
			hasChatOutput = true
		}
	}

	agency := "low"
	switch {
	case agents > 1 || (agents == 1 && tools >= 2):
		agency = "high"
	case agents == 1 && tools >= 1:
		agency = "medium"
	}

	interaction := "batch"
	if hasChatInput && hasChatOutput {
		interaction = "conversational"
	}

	complexity := "simple"
	switch {
	case len(s.Components) > 8:
		complexity = "complex"
	case len(s.Components) > 3:
		complexity = "moderate"
	}

	if s.Metadata == nil {
		s.Metadata = map[string]any{}
	}
	s.Metadata["agencyLevel"] = agency
	s.Metadata["interactionMode"] = interaction
	s.Metadata["complexity"] = complexity
}
