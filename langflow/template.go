package langflow

// Node templates mirror the runtime's component registry shape: a template
// of named fields plus declared outputs. Fields and outputs stay as plain
// maps because artifacts round-trip through JSON.

// field aliases a template field literal to keep the tables readable.
func field(kv map[string]any) map[string]any { return kv }

// nodeTemplate builds the editable node body for a runtime component.
// Components absent from the table get a generic single-input template.
func nodeTemplate(runtimeComponent string) map[string]any {
	var template map[string]any
	var outputs []any

	switch runtimeComponent {
	case "ChatInput":
		outputs = []any{output("message", "Message")}
		template = map[string]any{
			"input_value":          field(map[string]any{"type": "str", "display_name": "Text"}),
			"sender":               field(map[string]any{"type": "str", "display_name": "Sender"}),
			"sender_name":          field(map[string]any{"type": "str", "display_name": "Sender Name"}),
			"should_store_message": field(map[string]any{"type": "bool", "display_name": "Store Messages", "value": true}),
		}
	case "ChatOutput":
		outputs = []any{output("message", "Message")}
		template = map[string]any{
			"input_value":          field(map[string]any{"input_types": []any{"Data", "DataFrame", "Message"}, "display_name": "Input"}),
			"should_store_message": field(map[string]any{"type": "bool", "display_name": "Store Messages", "value": true}),
			"data_template":        field(map[string]any{"type": "str", "display_name": "Data Template"}),
		}
	case "Agent", "AutonomizeAgent":
		outputs = []any{output("response", "Message")}
		template = map[string]any{
			"input_value":           field(map[string]any{"input_types": []any{"Message"}, "display_name": "Input"}),
			"system_prompt":         field(map[string]any{"input_types": []any{"Message"}, "display_name": "System Prompt", "value": ""}),
			"tools":                 field(map[string]any{"input_types": []any{"Tool"}, "display_name": "Tools", "list": true}),
			"agent_llm":             field(map[string]any{"type": "str", "display_name": "Model Provider", "value": "Azure OpenAI"}),
			"azure_deployment_name": field(map[string]any{"type": "str", "display_name": "Azure Deployment", "value": ""}),
			"azure_api_base":        field(map[string]any{"type": "str", "display_name": "Azure Endpoint", "value": ""}),
			"azure_api_version":     field(map[string]any{"type": "str", "display_name": "API Version", "value": "2024-02-15-preview"}),
			"openai_api_key":        field(map[string]any{"type": "str", "display_name": "API Key", "password": true, "value": ""}),
			"model_name":            field(map[string]any{"type": "str", "display_name": "Model Name", "value": "gpt-4"}),
			"temperature":           field(map[string]any{"type": "float", "display_name": "Temperature", "value": 0.7}),
			"max_tokens":            field(map[string]any{"type": "int", "display_name": "Max Tokens", "value": 2000}),
			"stream":                field(map[string]any{"type": "bool", "display_name": "Stream", "value": false}),
			"memory":                field(map[string]any{"input_types": []any{"Message"}, "display_name": "Memory"}),
		}
	case "Prompt":
		outputs = []any{output("prompt", "Message")}
		template = map[string]any{
			"template":        field(map[string]any{"type": "str", "display_name": "Template", "value": ""}),
			"input_variables": field(map[string]any{"type": "list", "display_name": "Input Variables", "value": []any{}}),
		}
	case "MCPTools":
		outputs = []any{output("component_as_tool", "Tool")}
		template = map[string]any{
			"tool_names":       field(map[string]any{"type": "str", "display_name": "Tool Name", "value": ""}),
			"tool_description": field(map[string]any{"type": "str", "display_name": "Tool Description", "value": ""}),
			"connection_mode":  field(map[string]any{"type": "str", "display_name": "Connection Mode", "value": "stdio"}),
			"command":          field(map[string]any{"type": "str", "display_name": "Command", "value": ""}),
			"url":              field(map[string]any{"type": "str", "display_name": "URL", "value": ""}),
			"timeout_seconds":  field(map[string]any{"type": "int", "display_name": "Timeout", "value": 30}),
		}
	case "APIRequest":
		outputs = []any{output("response", "Data")}
		template = map[string]any{
			"method":    field(map[string]any{"type": "str", "display_name": "Method", "value": "GET"}),
			"url_input": field(map[string]any{"type": "str", "display_name": "URL", "value": ""}),
			"headers":   field(map[string]any{"type": "list", "display_name": "Headers", "value": []any{}}),
			"body":      field(map[string]any{"type": "dict", "display_name": "Body", "value": map[string]any{}}),
			"timeout":   field(map[string]any{"type": "int", "display_name": "Timeout", "value": 30}),
		}
	case "KnowledgeHubSearch":
		outputs = []any{output("results", "Data")}
		template = map[string]any{
			"search_query":  field(map[string]any{"input_types": []any{"Message", "str"}, "display_name": "Search Query"}),
			"selected_hubs": field(map[string]any{"type": "list", "display_name": "Knowledge Hubs", "value": []any{}}),
			"top_k":         field(map[string]any{"type": "int", "display_name": "Results", "value": 5}),
		}
	case "LanguageModelComponent":
		outputs = []any{output("text_output", "Message")}
		template = map[string]any{
			"input_value":    field(map[string]any{"input_types": []any{"Message", "str"}, "display_name": "Input"}),
			"system_message": field(map[string]any{"input_types": []any{"Message", "str"}, "display_name": "System Message"}),
			"provider":       field(map[string]any{"type": "str", "display_name": "Provider", "value": "OpenAI"}),
			"api_key":        field(map[string]any{"type": "str", "display_name": "API Key", "password": true, "value": ""}),
			"temperature":    field(map[string]any{"type": "float", "display_name": "Temperature", "value": 0.1}),
			"max_tokens":     field(map[string]any{"type": "int", "display_name": "Max Tokens", "value": 2000}),
		}
	case "AutonomizeModel":
		outputs = []any{output("prediction", "Data")}
		template = map[string]any{
			"search_query": field(map[string]any{"input_types": []any{"Message", "str"}, "display_name": "Query"}),
			"model_id":     field(map[string]any{"type": "str", "display_name": "Model", "value": ""}),
		}
	case "Memory":
		outputs = []any{output("memory", "Message")}
		template = map[string]any{
			"message":      field(map[string]any{"input_types": []any{"Message"}, "display_name": "Message"}),
			"session_id":   field(map[string]any{"type": "str", "display_name": "Session ID", "value": ""}),
			"n_messages":   field(map[string]any{"type": "int", "display_name": "History Size", "value": 100}),
		}
	case "File":
		outputs = []any{output("data", "Data")}
		template = map[string]any{
			"file_path":     field(map[string]any{"type": "str", "display_name": "File Path", "value": ""}),
			"parse_content": field(map[string]any{"type": "bool", "display_name": "Parse Content", "value": true}),
		}
	default:
		outputs = []any{output("output", "Any")}
		template = map[string]any{
			"input_value": field(map[string]any{"input_types": []any{"Any"}, "display_name": "Input"}),
			"config":      field(map[string]any{"type": "dict", "display_name": "Configuration", "value": map[string]any{}}),
		}
	}

	return map[string]any{
		"template":     template,
		"outputs":      outputs,
		"base_classes": []any{runtimeComponent},
		"display_name": runtimeComponent,
	}
}

func output(name string, types ...string) map[string]any {
	typesAny := make([]any, len(types))
	for i, t := range types {
		typesAny[i] = t
	}
	return map[string]any{
		"name":     name,
		"types":    typesAny,
		"selected": types[0],
		"value":    "__UNDEFINED__",
		"cache":    true,
	}
}

// toolOutput is the output prepended to nodes operating in tool mode.
func toolOutput() map[string]any {
	return map[string]any{
		"types":        []any{"Tool"},
		"selected":     "Tool",
		"name":         "component_as_tool",
		"display_name": "Toolset",
		"method":       "to_toolkit",
		"value":        "__UNDEFINED__",
		"cache":        true,
		"tool_mode":    true,
	}
}

// configFieldAliases renames abstract config keys to the runtime component's
// template fields before values are applied.
var configFieldAliases = map[string]map[string]string{
	"Agent": {
		"provider":         "agent_llm",
		"azure_deployment": "azure_deployment_name",
		"azure_endpoint":   "azure_api_base",
		"api_key":          "openai_api_key",
		"llm_model":        "model_name",
		"streaming":        "stream",
	},
	"AutonomizeAgent": {
		"provider":         "agent_llm",
		"azure_deployment": "azure_deployment_name",
		"azure_endpoint":   "azure_api_base",
	},
	"MCPTools": {
		"tool_name":   "tool_names",
		"description": "tool_description",
	},
	"APIRequest": {
		"url": "url_input",
	},
	"KnowledgeHubSearch": {
		"collections": "selected_hubs",
	},
}
