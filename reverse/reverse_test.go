package reverse

import (
	"context"
	"strings"
	"testing"

	"github.com/autonomize-ai/genesis-convert/convert"
)

func node(id, runtimeType string) map[string]any {
	return map[string]any{
		"id":   id,
		"data": map[string]any{"type": runtimeType},
	}
}

func edge(source, target, fieldName string) map[string]any {
	return map[string]any{
		"source": source,
		"target": target,
		"data": map[string]any{
			"targetHandle": map[string]any{"fieldName": fieldName},
		},
	}
}

func chatFlow() convert.Artifact {
	return convert.Artifact{
		"name":        "Research Helper",
		"description": "Looks things up",
		"metadata":    map[string]any{"agentGoal": "Answer research questions"},
		"data": map[string]any{
			"nodes": []any{
				node("in", "ChatInput"),
				node("agent", "Agent"),
				node("kb", "KnowledgeHubSearch"),
				node("out", "ChatOutput"),
			},
			"edges": []any{
				edge("in", "agent", "input_value"),
				edge("kb", "agent", "tools"),
				edge("agent", "out", "input_value"),
			},
		},
	}
}

func TestConvertArtifact(t *testing.T) {
	c := New(nil)

	s, err := c.ConvertArtifact(context.Background(), chatFlow(), Options{})
	if err != nil {
		t.Fatalf("ConvertArtifact() error = %v", err)
	}
	if s.Name != "Research Helper" {
		t.Errorf("Name = %q", s.Name)
	}
	// No overrides: the adapter's converted URN survives.
	if s.ID != "urn:agent:genesis:converted:research-helper:1.0.0" {
		t.Errorf("ID = %q", s.ID)
	}
	if len(s.Components) != 4 || s.EdgeCount() != 3 {
		t.Errorf("graph = %d components / %d edges, want 4/3", len(s.Components), s.EdgeCount())
	}
}

func TestConvertArtifactOverridesRegenerateURN(t *testing.T) {
	c := New(nil)

	s, err := c.ConvertArtifact(context.Background(), chatFlow(), Options{
		Name:    "Research Agent v2",
		Domain:  "research",
		Version: "2.0.0",
	})
	if err != nil {
		t.Fatalf("ConvertArtifact() error = %v", err)
	}
	if s.ID != "urn:agent:genesis:research:research-agent-v2:2.0.0" {
		t.Errorf("ID = %q, want regenerated URN", s.ID)
	}
	if s.Name != "Research Agent v2" || s.Domain != "research" || s.Version != "2.0.0" {
		t.Errorf("identity = %q/%q/%q", s.Name, s.Domain, s.Version)
	}

	// Description alone does not touch the URN.
	s2, err := c.ConvertArtifact(context.Background(), chatFlow(), Options{Description: "Different words"})
	if err != nil {
		t.Fatalf("ConvertArtifact() error = %v", err)
	}
	if s2.ID != "urn:agent:genesis:converted:research-helper:1.0.0" {
		t.Errorf("ID = %q, want unchanged URN", s2.ID)
	}
	if s2.Description != "Different words" {
		t.Errorf("Description = %q", s2.Description)
	}
}

func TestConvertArtifactPreservesVariables(t *testing.T) {
	c := New(nil)
	artifact := chatFlow()
	data := artifact["data"].(map[string]any)
	nodes := data["nodes"].([]any)
	nodes[1].(map[string]any)["data"].(map[string]any)["node"] = map[string]any{
		"template": map[string]any{
			"openai_api_key": map[string]any{"value": "{{api_key}}"},
			"model_name":     map[string]any{"value": "{{model}} on {{api_key}}"},
		},
	}

	s, err := c.ConvertArtifact(context.Background(), artifact, Options{PreserveVariables: true})
	if err != nil {
		t.Fatalf("ConvertArtifact() error = %v", err)
	}

	names := map[string]bool{}
	for _, v := range s.Variables {
		names[v.Name] = true
		if v.Type != "string" {
			t.Errorf("variable %s type = %q, want string", v.Name, v.Type)
		}
	}
	if len(s.Variables) != 2 || !names["api_key"] || !names["model"] {
		t.Errorf("Variables = %+v, want api_key and model once each", s.Variables)
	}

	// Without the flag, nothing is preserved.
	plain, err := c.ConvertArtifact(context.Background(), artifact, Options{})
	if err != nil {
		t.Fatalf("ConvertArtifact() error = %v", err)
	}
	if len(plain.Variables) != 0 {
		t.Errorf("Variables = %+v, want none without PreserveVariables", plain.Variables)
	}
}

func TestConvertArtifactInfersMetadata(t *testing.T) {
	c := New(nil)

	s, err := c.ConvertArtifact(context.Background(), chatFlow(), Options{})
	if err != nil {
		t.Fatalf("ConvertArtifact() error = %v", err)
	}
	// One agent plus one tool source, chat on both ends, 4 components.
	if got := s.Metadata["agencyLevel"]; got != "medium" {
		t.Errorf("agencyLevel = %v, want medium", got)
	}
	if got := s.Metadata["interactionMode"]; got != "conversational" {
		t.Errorf("interactionMode = %v, want conversational", got)
	}
	if got := s.Metadata["complexity"]; got != "moderate" {
		t.Errorf("complexity = %v, want moderate", got)
	}
}

func TestConvertBatch(t *testing.T) {
	c := New(nil)
	bad := convert.Artifact{"name": "broken"} // no data

	specs, err := c.ConvertBatch(context.Background(), []convert.Artifact{chatFlow(), bad, chatFlow()}, Options{})
	if err == nil {
		t.Fatal("ConvertBatch() error = nil, want aggregate failure")
	}
	if len(specs) != 2 {
		t.Errorf("len(specs) = %d, want 2 successes", len(specs))
	}
	if !strings.Contains(err.Error(), "1 of 3 artifacts failed") {
		t.Errorf("err = %v, want 1-of-3 aggregate", err)
	}
	if !strings.Contains(err.Error(), "artifact 1:") {
		t.Errorf("err = %v, want failing index", err)
	}

	ok, err := c.ConvertBatch(context.Background(), []convert.Artifact{chatFlow()}, Options{})
	if err != nil || len(ok) != 1 {
		t.Errorf("ConvertBatch(all good) = (%d specs, %v)", len(ok), err)
	}
}

func TestInspect(t *testing.T) {
	c := New(nil)

	artifact := chatFlow()
	data := artifact["data"].(map[string]any)
	data["nodes"] = append(data["nodes"].([]any), node("x", "FancyRouter"))

	ins, err := c.Inspect(artifact)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if ins.Name != "Research Helper" {
		t.Errorf("Name = %q", ins.Name)
	}
	if ins.NodeCount != 5 || ins.EdgeCount != 3 {
		t.Errorf("counts = %d nodes / %d edges, want 5/3", ins.NodeCount, ins.EdgeCount)
	}
	if ins.ConvertibleNodes != 4 {
		t.Errorf("ConvertibleNodes = %d, want 4", ins.ConvertibleNodes)
	}
	if len(ins.UnknownNodes) != 1 || ins.UnknownNodes[0] != "FancyRouter" {
		t.Errorf("UnknownNodes = %v", ins.UnknownNodes)
	}
	if len(ins.Recommendations) == 0 {
		t.Error("Recommendations empty, want fallback note")
	}

	if _, err := c.Inspect(convert.Artifact{}); err == nil {
		t.Error("Inspect(empty) error = nil")
	}
}

func TestInspectEmptyFlow(t *testing.T) {
	c := New(nil)
	ins, err := c.Inspect(convert.Artifact{
		"data": map[string]any{"nodes": []any{}},
	})
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	found := false
	for _, r := range ins.Recommendations {
		if strings.Contains(r, "no nodes") {
			found = true
		}
	}
	if !found {
		t.Errorf("Recommendations = %v, want empty-flow note", ins.Recommendations)
	}
}
