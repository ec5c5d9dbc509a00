// Package langflow is the fully-implemented bidirectional adapter for the
// visual workflow runtime: specifications become flow graphs of nodes and
// edges, and existing flows can be lifted back into specifications.
package langflow

import (
	"sort"
	"strings"
)

// Mapping resolves one abstract component type to a runtime component.
type Mapping struct {
	Component string         // runtime component name
	DataType  string         // node data type used on edges; defaults to Component
	Config    map[string]any // default config merged under the component's own
}

// IOMapping describes the runtime component's connectable surface.
type IOMapping struct {
	InputFields  []string
	OutputFields []string
	InputTypes   []string
	OutputTypes  []string
}

// ComponentMapper resolves abstract component types to runtime components
// and back. Implementations must be safe for concurrent use.
type ComponentMapper interface {
	// Map resolves a component type. Unknown types resolve to the
	// CustomComponent fallback rather than failing.
	Map(componentType string) Mapping

	// IO returns the connectable surface of a runtime component.
	IO(runtimeComponent string) IOMapping

	// Reverse looks up the abstract type for a runtime component.
	Reverse(runtimeComponent string) (string, bool)

	// Supports reports whether the component type resolves to a real
	// runtime component (not the fallback).
	Supports(componentType string) bool

	// SupportedTypes lists every mapped abstract type, sorted.
	SupportedTypes() []string
}

// FallbackComponent is the runtime component unknown types resolve to.
const FallbackComponent = "CustomComponent"

// staticMappings is the built-in type table.
var staticMappings = map[string]Mapping{
	"genesis:chat_input":           {Component: "ChatInput"},
	"genesis:chat_output":          {Component: "ChatOutput"},
	"genesis:agent":                {Component: "Agent"},
	"genesis:autonomize_agent":     {Component: "AutonomizeAgent", DataType: "Agent"},
	"genesis:prompt":               {Component: "Prompt"},
	"genesis:prompt_template":      {Component: "Prompt"},
	"genesis:mcp_tool":             {Component: "MCPTools"},
	"genesis:api_request":          {Component: "APIRequest"},
	"genesis:knowledge_hub_search": {Component: "KnowledgeHubSearch"},
	"genesis:model":                {Component: "LanguageModelComponent"},
	"genesis:autonomize_model":     {Component: "AutonomizeModel"},
	"genesis:memory":               {Component: "Memory"},
	"genesis:file":                 {Component: "File"},
}

// staticIO is the connectable surface per runtime component.
var staticIO = map[string]IOMapping{
	"ChatInput": {
		OutputFields: []string{"message"},
		OutputTypes:  []string{"Message"},
	},
	"ChatOutput": {
		InputFields: []string{"input_value"},
		InputTypes:  []string{"Data", "DataFrame", "Message"},
		OutputTypes: []string{"Message"},
	},
	"Agent": {
		InputFields:  []string{"input_value", "system_prompt", "tools"},
		InputTypes:   []string{"Message", "Tool"},
		OutputFields: []string{"response"},
		OutputTypes:  []string{"Message"},
	},
	"AutonomizeAgent": {
		InputFields:  []string{"input_value", "system_prompt", "tools"},
		InputTypes:   []string{"Message", "Tool"},
		OutputFields: []string{"response"},
		OutputTypes:  []string{"Message"},
	},
	"Prompt": {
		InputFields:  []string{"template"},
		InputTypes:   []string{"Message", "str"},
		OutputFields: []string{"prompt"},
		OutputTypes:  []string{"Message"},
	},
	"MCPTools": {
		OutputFields: []string{"component_as_tool"},
		OutputTypes:  []string{"Tool"},
	},
	"APIRequest": {
		InputFields:  []string{"url_input", "body"},
		InputTypes:   []string{"Message", "str"},
		OutputFields: []string{"response"},
		OutputTypes:  []string{"Data"},
	},
	"KnowledgeHubSearch": {
		InputFields:  []string{"search_query"},
		InputTypes:   []string{"Message", "str"},
		OutputFields: []string{"results"},
		OutputTypes:  []string{"Data", "Tool"},
	},
	"LanguageModelComponent": {
		InputFields:  []string{"input_value", "system_message"},
		InputTypes:   []string{"Message", "str"},
		OutputFields: []string{"text_output"},
		OutputTypes:  []string{"Message"},
	},
	"AutonomizeModel": {
		InputFields:  []string{"search_query"},
		InputTypes:   []string{"Message", "str"},
		OutputFields: []string{"prediction"},
		OutputTypes:  []string{"Data"},
	},
	"Memory": {
		InputFields:  []string{"message"},
		InputTypes:   []string{"Message"},
		OutputFields: []string{"memory"},
		OutputTypes:  []string{"Message"},
	},
	"File": {
		OutputFields: []string{"data"},
		OutputTypes:  []string{"Data"},
	},
}

// StaticMapper is the built-in ComponentMapper backed by fixed tables. The
// zero value is not usable; construct with NewStaticMapper.
type StaticMapper struct {
	mappings map[string]Mapping
	io       map[string]IOMapping
	reverse  map[string]string
}

// NewStaticMapper builds a mapper over the built-in tables.
func NewStaticMapper() *StaticMapper {
	reverse := make(map[string]string, len(staticMappings))
	// Iterate sorted so aliased runtime components (Prompt serves both
	// prompt and prompt_template) reverse-map deterministically.
	types := make([]string, 0, len(staticMappings))
	for t := range staticMappings {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		m := staticMappings[t]
		if _, taken := reverse[m.Component]; !taken {
			reverse[m.Component] = t
		}
	}
	return &StaticMapper{mappings: staticMappings, io: staticIO, reverse: reverse}
}

func (m *StaticMapper) Map(componentType string) Mapping {
	if mapping, ok := m.mappings[componentType]; ok {
		if mapping.DataType == "" {
			mapping.DataType = mapping.Component
		}
		return mapping
	}
	return Mapping{Component: FallbackComponent, DataType: FallbackComponent}
}

func (m *StaticMapper) IO(runtimeComponent string) IOMapping {
	return m.io[runtimeComponent]
}

func (m *StaticMapper) Reverse(runtimeComponent string) (string, bool) {
	t, ok := m.reverse[runtimeComponent]
	return t, ok
}

func (m *StaticMapper) Supports(componentType string) bool {
	_, ok := m.mappings[componentType]
	return ok
}

func (m *StaticMapper) SupportedTypes() []string {
	types := make([]string, 0, len(m.mappings))
	for t := range m.mappings {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// inferKind guesses the component kind from a runtime component name during
// reverse conversion.
func inferKind(runtimeComponent string) string {
	lower := strings.ToLower(runtimeComponent)
	switch {
	case strings.Contains(lower, "agent"):
		return "Agent"
	case strings.Contains(lower, "input"), strings.Contains(lower, "output"):
		return "Data"
	case strings.Contains(lower, "prompt"):
		return "Prompt"
	case strings.Contains(lower, "tool"), strings.Contains(lower, "mcp"):
		return "Tool"
	case strings.Contains(lower, "model"), strings.Contains(lower, "llm"):
		return "Model"
	default:
		return "Data"
	}
}
