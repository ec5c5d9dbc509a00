package langflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/spec"
	"github.com/autonomize-ai/genesis-convert/util"
)

// fieldUseAsMap maps a flow edge's target field name back to the provides
// useAs discriminator. Unknown fields fall back to the converter's
// configured default.
var fieldUseAsMap = map[string]string{
	"tools":         "tools",
	"input_value":   "input",
	"system_prompt": "system_prompt",
	"template":      "prompt",
	"search_query":  "query",
	"message":       "input",
}

// ConvertFromTarget lifts a flow artifact back into a specification: nodes
// become components via reverse mapping, edges become provides relations.
// The mapping is structure-preserving, not inverse — template defaults and
// layout are dropped, so round-tripping yields an equivalent graph, not an
// identical document.
func (c *Converter) ConvertFromTarget(ctx context.Context, artifact convert.Artifact) (*spec.Specification, error) {
	if err := ctx.Err(); err != nil {
		return nil, convert.NewConversionError(convert.TargetLangflow, convert.DirectionFromTarget, "conversion canceled", err)
	}

	nodes, edges, err := flowShape(artifact)
	if err != nil {
		return nil, convert.NewConversionError(convert.TargetLangflow, convert.DirectionFromTarget, "invalid flow structure", err)
	}

	name := stringAt(artifact, "name")
	if name == "" {
		name = "Converted Flow"
	}
	description := stringAt(artifact, "description")
	if description == "" {
		description = "Flow converted from Langflow"
	}

	s := &spec.Specification{
		ID:          fmt.Sprintf("urn:agent:genesis:converted:%s:1.0.0", util.Slugify(name)),
		Name:        name,
		Description: description,
		Domain:      "converted",
		Version:     "1.0.0",
		Kind:        "Single Agent",
		Goal:        goalFromArtifact(artifact),
	}

	for _, raw := range nodes {
		node, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		comp, ok := c.componentFromNode(node)
		if !ok {
			continue
		}
		s.Components = append(s.Components, comp)
	}

	c.addProvidesFromEdges(s, edges)
	return s, nil
}

// flowShape validates the artifact's required structure and extracts the
// node and edge lists.
func flowShape(artifact convert.Artifact) (nodes, edges []any, err error) {
	data, ok := artifact["data"].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("missing required field: data")
	}
	nodes, ok = data["nodes"].([]any)
	if !ok {
		return nil, nil, fmt.Errorf("data.nodes must be a list")
	}
	edges, ok = data["edges"].([]any)
	if !ok {
		if data["edges"] == nil {
			return nodes, nil, nil
		}
		return nil, nil, fmt.Errorf("data.edges must be a list")
	}
	return nodes, edges, nil
}

func (c *Converter) componentFromNode(node map[string]any) (spec.Component, bool) {
	data, _ := node["data"].(map[string]any)
	nodeID := stringAt(node, "id")
	runtimeType := stringAt(data, "type")
	if nodeID == "" || runtimeType == "" {
		return spec.Component{}, false
	}

	abstractType, known := c.mapper.Reverse(runtimeType)
	if !known {
		abstractType = "genesis:" + strings.ToLower(runtimeType)
	}

	comp := spec.Component{
		ID:          nodeID,
		Type:        abstractType,
		Name:        stringAt(data, "display_name"),
		Kind:        inferKind(runtimeType),
		Description: stringAt(data, "description"),
	}
	if comp.Name == "" {
		comp.Name = nodeID
	}

	nodeData, _ := data["node"].(map[string]any)
	if template, ok := nodeData["template"].(map[string]any); ok {
		if config := configFromTemplate(template); len(config) > 0 {
			comp.Config = config
		}
	}
	return comp, true
}

// configFromTemplate keeps only fields carrying a meaningful value; empty
// strings and nils are template defaults, not configuration.
func configFromTemplate(template map[string]any) map[string]any {
	config := map[string]any{}
	for name, raw := range template {
		f, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		value, present := f["value"]
		if !present || value == nil || value == "" {
			continue
		}
		config[name] = value
	}
	return config
}

func (c *Converter) addProvidesFromEdges(s *spec.Specification, edges []any) {
	for _, raw := range edges {
		edge, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		sourceID := stringAt(edge, "source")
		targetID := stringAt(edge, "target")
		if sourceID == "" || targetID == "" {
			continue
		}

		useAs := c.useAsFromEdge(edge)
		source := s.Component(sourceID)
		if source == nil {
			continue
		}
		source.Provides = append(source.Provides, spec.Provides{
			UseAs:       useAs,
			In:          targetID,
			Description: fmt.Sprintf("Provides %s to %s", useAs, targetID),
		})
		if useAs == "tools" {
			source.AsTools = true
		}
	}
}

// useAsFromEdge recovers the useAs discriminator from the edge's target
// handle, in either its decoded or œ-encoded form.
func (c *Converter) useAsFromEdge(edge map[string]any) string {
	var handle map[string]any
	if data, ok := edge["data"].(map[string]any); ok {
		handle, _ = data["targetHandle"].(map[string]any)
	}
	if handle == nil {
		if encoded, ok := edge["targetHandle"].(string); ok {
			handle = decodeHandle(encoded)
		}
	}

	fieldName := stringAt(handle, "fieldName")
	if useAs, ok := fieldUseAsMap[fieldName]; ok {
		return useAs
	}
	return c.defaultUseAs
}

func goalFromArtifact(artifact convert.Artifact) string {
	if meta, ok := artifact["metadata"].(map[string]any); ok {
		if goal := stringAt(meta, "agentGoal"); goal != "" {
			return goal
		}
	}
	return "Converted agent workflow"
}

func stringAt(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
