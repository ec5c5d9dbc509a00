package langflow

import (
	"reflect"
	"testing"
)

func TestResolveVariables(t *testing.T) {
	vars := map[string]any{
		"api_key": "sk-test",
		"top_k":   7,
		"region":  "eu-west-1",
	}

	config := map[string]any{
		"api_key":  "{{api_key}}",
		"top_k":    "{{ top_k }}",
		"endpoint": "https://{{region}}.example.com/v1",
		"missing":  "{{unbound}}",
		"mixed":    "key={{api_key}}, count={{top_k}}",
		"plain":    "no placeholders",
		"number":   42,
		"nested": map[string]any{
			"inner": "{{api_key}}",
		},
		"list": []any{"{{region}}", "static"},
	}

	out := ResolveVariables(config, vars)

	if out["api_key"] != "sk-test" {
		t.Errorf("api_key = %v", out["api_key"])
	}
	// An exact single-placeholder value keeps the bound native type.
	if out["top_k"] != 7 {
		t.Errorf("top_k = %v (%T), want int 7", out["top_k"], out["top_k"])
	}
	if out["endpoint"] != "https://eu-west-1.example.com/v1" {
		t.Errorf("endpoint = %v", out["endpoint"])
	}
	// Unbound placeholders stay verbatim for the runtime to resolve.
	if out["missing"] != "{{unbound}}" {
		t.Errorf("missing = %v, want verbatim placeholder", out["missing"])
	}
	// Non-string bindings inside a larger string stay as placeholders.
	if out["mixed"] != "key=sk-test, count={{top_k}}" {
		t.Errorf("mixed = %v", out["mixed"])
	}
	if out["plain"] != "no placeholders" || out["number"] != 42 {
		t.Errorf("untouched values changed: plain=%v number=%v", out["plain"], out["number"])
	}
	if nested := out["nested"].(map[string]any); nested["inner"] != "sk-test" {
		t.Errorf("nested.inner = %v", nested["inner"])
	}
	if list := out["list"].([]any); list[0] != "eu-west-1" || list[1] != "static" {
		t.Errorf("list = %v", list)
	}

	// The input config is not mutated.
	if config["api_key"] != "{{api_key}}" {
		t.Error("input config mutated")
	}
}

func TestResolveVariablesEmpty(t *testing.T) {
	if out := ResolveVariables(nil, map[string]any{"a": 1}); out != nil {
		t.Errorf("ResolveVariables(nil) = %v, want nil", out)
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("start {{one}} then {{two}} and {{one}} again")
	want := []string{"one", "two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Placeholders() = %v, want %v", got, want)
	}

	nested := Placeholders(map[string]any{
		"a": []any{"{{var_a}}"},
	})
	if !reflect.DeepEqual(nested, []string{"var_a"}) {
		t.Errorf("Placeholders(nested) = %v, want [var_a]", nested)
	}

	if got := Placeholders("nothing here"); len(got) != 0 {
		t.Errorf("Placeholders(plain) = %v, want none", got)
	}
}

func TestStaticMapper(t *testing.T) {
	m := NewStaticMapper()

	agent := m.Map("genesis:agent")
	if agent.Component != "Agent" || agent.DataType != "Agent" {
		t.Errorf("Map(genesis:agent) = %+v", agent)
	}

	// DataType may differ from the runtime component name.
	auto := m.Map("genesis:autonomize_agent")
	if auto.Component != "AutonomizeAgent" || auto.DataType != "Agent" {
		t.Errorf("Map(genesis:autonomize_agent) = %+v", auto)
	}

	unknown := m.Map("genesis:mystery")
	if unknown.Component != FallbackComponent {
		t.Errorf("Map(unknown) = %+v, want fallback", unknown)
	}
	if m.Supports("genesis:mystery") {
		t.Error("Supports(unknown) = true")
	}

	// Prompt serves two abstract types; reverse lookup is deterministic.
	back, ok := m.Reverse("Prompt")
	if !ok || back != "genesis:prompt" {
		t.Errorf("Reverse(Prompt) = (%q, %v), want genesis:prompt", back, ok)
	}
	if _, ok := m.Reverse("Nonexistent"); ok {
		t.Error("Reverse(Nonexistent) ok = true")
	}

	io := m.IO("Agent")
	if !containsString(io.InputFields, "tools") || !containsString(io.OutputFields, "response") {
		t.Errorf("IO(Agent) = %+v", io)
	}
}
