package langflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/spec"
)

// FlowBuilder turns an already-validated specification into a flow
// artifact. Build reports skipped edges as warnings rather than failing the
// whole conversion.
type FlowBuilder interface {
	Build(s *spec.Specification, vars map[string]any) (convert.Artifact, []string, error)
}

// Builder is the default FlowBuilder: nodes from component templates,
// deterministic kind-based positions, edges derived from provides relations
// with handle-level type checking.
type Builder struct {
	mapper ComponentMapper
}

// NewBuilder builds a Builder over the given mapper.
func NewBuilder(mapper ComponentMapper) *Builder {
	return &Builder{mapper: mapper}
}

func (b *Builder) Build(s *spec.Specification, vars map[string]any) (convert.Artifact, []string, error) {
	nodes := make([]any, 0, len(s.Components))
	nodeByID := make(map[string]map[string]any, len(s.Components))

	for i := range s.Components {
		node := b.buildNode(&s.Components[i], i, s, vars)
		nodes = append(nodes, node)
		nodeByID[s.Components[i].ID] = node
	}

	var edges []any
	var warnings []string
	for i := range s.Components {
		source := &s.Components[i]
		for _, rel := range source.Provides {
			edge, err := b.buildEdge(source, rel, nodeByID)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("edge %s -> %s skipped: %v", source.ID, rel.In, err))
				continue
			}
			edges = append(edges, edge)
		}
	}

	artifact := convert.Artifact{
		"id":           uuid.NewString(),
		"name":         s.Name,
		"description":  s.Description,
		"is_component": false,
		"updated_at":   time.Now().UTC().Format(time.RFC3339),
		"data": map[string]any{
			"nodes":    nodes,
			"edges":    edges,
			"viewport": map[string]any{"x": 0, "y": 0, "zoom": 0.5},
		},
		"metadata": map[string]any{
			"agentGoal": s.Goal,
			"kind":      s.Kind,
			"domain":    s.Domain,
		},
	}
	return artifact, warnings, nil
}

func (b *Builder) buildNode(c *spec.Component, index int, s *spec.Specification, vars map[string]any) map[string]any {
	mapping := b.mapper.Map(c.Type)
	nodeData := nodeTemplate(mapping.Component)
	nodeData["display_name"] = displayName(c)
	nodeData["description"] = c.Description

	if usedAsTool(c) {
		nodeData["tool_mode"] = true
		ensureToolOutput(nodeData)
	}

	template, _ := nodeData["template"].(map[string]any)
	config := mergeConfig(mapping.Config, c.Config)
	config = aliasConfigKeys(mapping.Component, config)

	// Agents inherit the specification goal as their system prompt when no
	// explicit one is configured.
	if strings.Contains(strings.ToLower(c.Type), "agent") && s.Goal != "" {
		if _, set := config["system_prompt"]; !set {
			config["system_prompt"] = s.Goal
		}
	}

	applyConfig(template, ResolveVariables(config, vars))

	position := nodePosition(index, c.Kind, c.ID)
	return map[string]any{
		"id":       c.ID,
		"type":     "genericNode",
		"position": position,
		"data": map[string]any{
			"id":           c.ID,
			"type":         mapping.DataType,
			"description":  c.Description,
			"display_name": displayName(c),
			"node":         nodeData,
			"outputs":      nodeData["outputs"],
		},
		"width":            384,
		"height":           nodeHeight(c.Kind),
		"selected":         false,
		"dragging":         false,
		"positionAbsolute": position,
	}
}

func displayName(c *spec.Component) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// ensureToolOutput makes component_as_tool the first declared output.
func ensureToolOutput(nodeData map[string]any) {
	outputs, _ := nodeData["outputs"].([]any)
	for _, o := range outputs {
		if m, ok := o.(map[string]any); ok && m["name"] == "component_as_tool" {
			return
		}
	}
	nodeData["outputs"] = append([]any{toolOutput()}, outputs...)
}

func usedAsTool(c *spec.Component) bool {
	if c.AsTools {
		return true
	}
	for _, rel := range c.Provides {
		if rel.UseAs == "tool" || rel.UseAs == "tools" {
			return true
		}
	}
	return false
}

func mergeConfig(defaults, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func aliasConfigKeys(runtimeComponent string, config map[string]any) map[string]any {
	aliases := configFieldAliases[runtimeComponent]
	if len(aliases) == 0 {
		return config
	}
	out := make(map[string]any, len(config))
	for k, v := range config {
		if renamed, ok := aliases[k]; ok {
			out[renamed] = v
		} else {
			out[k] = v
		}
	}
	return out
}

// applyConfig sets template field values for config keys the template
// declares; unknown keys are dropped.
func applyConfig(template map[string]any, config map[string]any) {
	for key, value := range config {
		f, ok := template[key].(map[string]any)
		if !ok {
			continue
		}
		f["value"] = value
	}
}

// buildEdge creates one flow edge from a provides relation. The error marks
// edges skipped for type incompatibility or missing endpoints.
func (b *Builder) buildEdge(source *spec.Component, rel spec.Provides, nodeByID map[string]map[string]any) (map[string]any, error) {
	if rel.In == "" || rel.UseAs == "" {
		return nil, fmt.Errorf("provides requires both useAs and in")
	}
	targetNode, ok := nodeByID[rel.In]
	if !ok {
		return nil, fmt.Errorf("target component %q not found", rel.In)
	}
	sourceNode := nodeByID[source.ID]

	sourceType := dataType(sourceNode)
	targetType := dataType(targetNode)

	outputField := outputFieldFor(rel.UseAs, sourceNode, sourceType)
	inputField := inputFieldFor(rel.UseAs, targetType)
	outputTypes := outputTypesFor(sourceNode, outputField, sourceType)
	inputTypes := inputTypesFor(targetNode, inputField)

	if !typesCompatible(outputTypes, inputTypes) {
		return nil, fmt.Errorf("type mismatch: %s.%s %v -> %s.%s %v",
			sourceType, outputField, outputTypes, targetType, inputField, inputTypes)
	}

	sourceHandle := map[string]any{
		"dataType":     sourceType,
		"id":           source.ID,
		"name":         outputField,
		"output_types": outputTypes,
	}
	targetHandle := map[string]any{
		"fieldName":  inputField,
		"id":         rel.In,
		"inputTypes": inputTypes,
		"type":       handleType(inputField, inputTypes),
	}

	sourceEnc := encodeHandle(sourceHandle)
	targetEnc := encodeHandle(targetHandle)

	return map[string]any{
		"id":           fmt.Sprintf("xy-edge__%s%s-%s%s", source.ID, sourceEnc, rel.In, targetEnc),
		"source":       source.ID,
		"sourceHandle": sourceEnc,
		"target":       rel.In,
		"targetHandle": targetEnc,
		"selected":     false,
		"className":    "",
		"data": map[string]any{
			"sourceHandle": sourceHandle,
			"targetHandle": targetHandle,
			"label":        rel.Description,
		},
	}, nil
}

func dataType(node map[string]any) string {
	if data, ok := node["data"].(map[string]any); ok {
		if t, ok := data["type"].(string); ok {
			return t
		}
	}
	return ""
}

func nodeOutputs(node map[string]any) []map[string]any {
	data, _ := node["data"].(map[string]any)
	raw, _ := data["outputs"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, o := range raw {
		if m, ok := o.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func outputFieldFor(useAs string, sourceNode map[string]any, sourceType string) string {
	outputs := nodeOutputs(sourceNode)

	if useAs == "tool" || useAs == "tools" {
		for _, o := range outputs {
			if typesOf(o["types"]) != nil && containsString(typesOf(o["types"]), "Tool") {
				if name, ok := o["name"].(string); ok {
					return name
				}
			}
		}
		return "component_as_tool"
	}

	if len(outputs) == 1 {
		if name, ok := outputs[0]["name"].(string); ok {
			return name
		}
	}
	for _, preferred := range preferredOutputs(useAs) {
		for _, o := range outputs {
			if o["name"] == preferred {
				return preferred
			}
		}
	}
	if len(outputs) > 0 {
		if name, ok := outputs[0]["name"].(string); ok {
			return name
		}
	}

	switch {
	case strings.Contains(sourceType, "ChatInput"):
		return "message"
	case strings.Contains(sourceType, "AutonomizeModel"):
		return "prediction"
	case strings.Contains(sourceType, "Agent"):
		return "response"
	case strings.Contains(sourceType, "Prompt"):
		return "prompt"
	default:
		return "output"
	}
}

func preferredOutputs(useAs string) []string {
	switch useAs {
	case "input":
		return []string{"message", "response"}
	case "system_prompt", "prompt":
		return []string{"prompt", "response"}
	default:
		return []string{"response"}
	}
}

// useAsFieldMap maps a provides useAs discriminator to the target node's
// template field. The reverse direction lives in reverse.go.
var useAsFieldMap = map[string]string{
	"input":         "input_value",
	"tool":          "tools",
	"tools":         "tools",
	"system_prompt": "system_prompt",
	"prompt":        "template",
	"query":         "search_query",
	"llm":           "llm",
	"response":      "input_value",
	"message":       "input_value",
	"text":          "input_value",
	"output":        "input_value",
	"memory":        "memory",
}

func inputFieldFor(useAs, targetType string) string {
	if strings.Contains(targetType, "AutonomizeModel") {
		switch useAs {
		case "input", "query", "text":
			return "search_query"
		}
	}
	if f, ok := useAsFieldMap[useAs]; ok {
		return f
	}
	return useAs
}

func outputTypesFor(node map[string]any, outputField, sourceType string) []string {
	if outputField == "component_as_tool" {
		return []string{"Tool"}
	}
	for _, o := range nodeOutputs(node) {
		if o["name"] == outputField {
			if types := typesOf(o["types"]); len(types) > 0 {
				return types
			}
		}
	}
	switch {
	case strings.Contains(sourceType, "AutonomizeModel"):
		return []string{"Data"}
	case strings.Contains(outputField, "Tool"):
		return []string{"Tool"}
	default:
		return []string{"Message"}
	}
}

// defaultInputTypes covers fields absent from a node's template.
var defaultInputTypes = map[string][]string{
	"tools":         {"Tool"},
	"input_value":   {"Data", "DataFrame", "Message"},
	"search_query":  {"Message", "str"},
	"system_prompt": {"Message"},
	"template":      {"Message", "str"},
	"memory":        {"Message"},
}

func inputTypesFor(node map[string]any, inputField string) []string {
	data, _ := node["data"].(map[string]any)
	nodeData, _ := data["node"].(map[string]any)
	template, _ := nodeData["template"].(map[string]any)
	if f, ok := template[inputField].(map[string]any); ok {
		if types := typesOf(f["input_types"]); len(types) > 0 {
			return types
		}
	}
	if types, ok := defaultInputTypes[inputField]; ok {
		return types
	}
	return []string{"Message", "str"}
}

// compatibleConversions lists input types each output type can feed beyond
// an exact match.
var compatibleConversions = map[string][]string{
	"Message":   {"str", "text", "Text", "Data"},
	"str":       {"Message", "text", "Text"},
	"Data":      {"dict", "object", "any", "Message"},
	"DataFrame": {"Data", "object", "any"},
}

func typesCompatible(outputTypes, inputTypes []string) bool {
	if containsString(outputTypes, "Tool") && containsString(inputTypes, "Tool") {
		return true
	}
	for _, o := range outputTypes {
		if containsString(inputTypes, o) {
			return true
		}
	}
	for _, o := range outputTypes {
		for _, c := range compatibleConversions[o] {
			if containsString(inputTypes, c) {
				return true
			}
		}
	}
	return containsString(inputTypes, "any") || containsString(inputTypes, "object") || containsString(inputTypes, "Any")
}

func handleType(inputField string, inputTypes []string) string {
	if inputField == "tools" || containsString(inputTypes, "Tool") {
		return "other"
	}
	if len(inputTypes) > 1 {
		return "other"
	}
	if len(inputTypes) == 1 {
		if inputTypes[0] == "Message" {
			return "str"
		}
		if inputTypes[0] == "Data" || inputTypes[0] == "DataFrame" {
			return "other"
		}
		return strings.ToLower(inputTypes[0])
	}
	return "str"
}

// encodeHandle serializes a handle the way the runtime's canvas does:
// compact JSON with double quotes swapped for œ so the string can embed in
// edge ids.
func encodeHandle(handle map[string]any) string {
	raw, err := json.Marshal(handle)
	if err != nil {
		return ""
	}
	return strings.ReplaceAll(string(raw), `"`, handleQuote)
}

const handleQuote = "œ"

func decodeHandle(encoded string) map[string]any {
	raw := strings.ReplaceAll(encoded, handleQuote, `"`)
	var handle map[string]any
	if err := json.Unmarshal([]byte(raw), &handle); err != nil {
		return nil
	}
	return handle
}

func typesOf(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		// Round-tripped artifacts may decode as []string already.
		if ss, ok := v.([]string); ok {
			return ss
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func containsString(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

// Node layout: one column per component kind, alternating vertical offsets
// for siblings. Output components sit on the far right.
func nodePosition(index int, kind, componentID string) map[string]any {
	isOutput := strings.Contains(strings.ToLower(componentID), "output") ||
		strings.Contains(strings.ToLower(componentID), "result")

	columns := map[string]int{
		"Data":   150,
		"Tool":   350,
		"Prompt": 900,
		"Agent":  1300,
		"Model":  1300,
	}
	baseX, ok := columns[kind]
	if !ok {
		baseX = 500
	}
	if kind == "Data" && isOutput {
		baseX = 1700
	}
	const (
		baseY            = 350
		horizontalSpread = 120
		verticalSpread   = 500
	)

	var offsetX, offsetY int
	switch index {
	case 0:
	case 1:
		offsetX, offsetY = horizontalSpread, -verticalSpread
	case 2:
		offsetX, offsetY = horizontalSpread*2, verticalSpread
	case 3:
		offsetX, offsetY = horizontalSpread*3, -verticalSpread*2
	default:
		offsetX = (index % 4) * horizontalSpread
		offsetY = (index/4 - 1) * verticalSpread
	}

	return map[string]any{"x": baseX + offsetX, "y": baseY + offsetY}
}

func nodeHeight(kind string) int {
	heights := map[string]int{
		"Agent":  300,
		"Prompt": 180,
		"Tool":   200,
		"Model":  180,
		"Data":   150,
	}
	if h, ok := heights[kind]; ok {
		return h
	}
	return 200
}
