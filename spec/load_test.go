package spec

import (
	"testing"
)

const listFormYAML = `
name: Support Flow
description: Answers support tickets
agentGoal: Resolve customer issues
components:
  - id: in
    type: genesis:chat_input
  - id: agent
    type: genesis:agent
    config:
      temperature: 0.5
    provides:
      - useAs: input
        in: out
  - id: out
    type: genesis:chat_output
`

const mapFormYAML = `
name: Support Flow
components:
  in:
    type: genesis:chat_input
  agent:
    type: genesis:agent
    provides:
      - useAs: input
        in: out
  out:
    type: genesis:chat_output
`

func TestLoadListForm(t *testing.T) {
	s, err := Load([]byte(listFormYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Name != "Support Flow" {
		t.Errorf("Name = %q, want %q", s.Name, "Support Flow")
	}
	if s.Goal != "Resolve customer issues" {
		t.Errorf("Goal = %q, want %q", s.Goal, "Resolve customer issues")
	}
	if len(s.Components) != 3 {
		t.Fatalf("len(Components) = %d, want 3", len(s.Components))
	}
	wantIDs := []string{"in", "agent", "out"}
	for i, id := range wantIDs {
		if s.Components[i].ID != id {
			t.Errorf("Components[%d].ID = %q, want %q", i, s.Components[i].ID, id)
		}
	}
	if s.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", s.EdgeCount())
	}
}

func TestLoadMapForm(t *testing.T) {
	s, err := Load([]byte(mapFormYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Components) != 3 {
		t.Fatalf("len(Components) = %d, want 3", len(s.Components))
	}
	// Mapping keys become component ids, preserving document order.
	wantIDs := []string{"in", "agent", "out"}
	for i, id := range wantIDs {
		if s.Components[i].ID != id {
			t.Errorf("Components[%d].ID = %q, want %q", i, s.Components[i].ID, id)
		}
	}
	agent := s.Component("agent")
	if agent == nil {
		t.Fatal("Component(\"agent\") = nil")
	}
	if len(agent.Provides) != 1 || agent.Provides[0].In != "out" {
		t.Errorf("agent.Provides = %+v, want one edge into \"out\"", agent.Provides)
	}
}

func TestLoadJSON(t *testing.T) {
	doc := `{
		"name": "JSON Flow",
		"components": {
			"first": {"type": "genesis:chat_input"},
			"second": {"type": "genesis:agent"}
		}
	}`
	s, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Components) != 2 {
		t.Fatalf("len(Components) = %d, want 2", len(s.Components))
	}
	if s.Components[0].ID != "first" || s.Components[1].ID != "second" {
		t.Errorf("component order = [%q, %q], want [first, second]",
			s.Components[0].ID, s.Components[1].ID)
	}
}

func TestLoadRejectsScalarComponents(t *testing.T) {
	if _, err := Load([]byte("name: Bad\ncomponents: 42\n")); err == nil {
		t.Error("Load() error = nil, want error for scalar components")
	}
}

func TestComponentTypes(t *testing.T) {
	s := &Specification{Components: Components{
		{ID: "a", Type: "genesis:agent"},
		{ID: "b", Type: "genesis:mcp_tool"},
		{ID: "c", Type: "genesis:agent"},
		{ID: "d"},
	}}
	got := s.ComponentTypes()
	want := []string{"genesis:agent", "genesis:mcp_tool"}
	if len(got) != len(want) {
		t.Fatalf("ComponentTypes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ComponentTypes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCloneIsolation(t *testing.T) {
	orig := &Specification{
		Name: "Original",
		Components: Components{
			{
				ID:   "agent",
				Type: "genesis:agent",
				Config: map[string]any{
					"temperature": 0.9,
					"nested":      map[string]any{"keep": true},
				},
				Provides: []Provides{{UseAs: "input", In: "out"}},
			},
		},
		Metadata: map[string]any{"domain": "support"},
	}

	c := orig.Clone()
	c.Name = "Changed"
	c.Components[0].Config["temperature"] = 0.1
	c.Components[0].Config["nested"].(map[string]any)["keep"] = false
	c.Components[0].Provides[0].In = "elsewhere"
	c.Metadata["domain"] = "other"

	if orig.Name != "Original" {
		t.Errorf("original Name mutated to %q", orig.Name)
	}
	if got := orig.Components[0].Config["temperature"]; got != 0.9 {
		t.Errorf("original temperature mutated to %v", got)
	}
	if got := orig.Components[0].Config["nested"].(map[string]any)["keep"]; got != true {
		t.Errorf("original nested config mutated to %v", got)
	}
	if got := orig.Components[0].Provides[0].In; got != "out" {
		t.Errorf("original provides mutated to %q", got)
	}
	if got := orig.Metadata["domain"]; got != "support" {
		t.Errorf("original metadata mutated to %v", got)
	}
}

func TestCloneNil(t *testing.T) {
	var s *Specification
	if s.Clone() != nil {
		t.Error("Clone() on nil = non-nil, want nil")
	}
}
