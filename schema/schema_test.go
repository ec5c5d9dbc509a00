package schema

import "testing"

const validYAML = `
name: Support Flow
description: Answers support tickets
agentGoal: Resolve customer issues
components:
  - id: in
    type: genesis:chat_input
  - id: agent
    type: genesis:agent
    provides:
      - useAs: input
        in: out
  - id: out
    type: genesis:chat_output
variables:
  - name: api_key
    type: string
`

const validMapFormJSON = `{
	"name": "JSON Flow",
	"description": "d",
	"agentGoal": "g",
	"components": {
		"in": {"type": "genesis:chat_input"}
	}
}`

func TestValidateDocumentValid(t *testing.T) {
	for name, doc := range map[string]string{
		"yaml list form": validYAML,
		"json map form":  validMapFormJSON,
	} {
		t.Run(name, func(t *testing.T) {
			errs, err := ValidateDocument([]byte(doc))
			if err != nil {
				t.Fatalf("ValidateDocument() error = %v", err)
			}
			if len(errs) != 0 {
				t.Errorf("errs = %v, want none", errs)
			}
		})
	}
}

func TestValidateDocumentDefects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing name", `
description: d
agentGoal: g
components:
  - id: a
    type: genesis:agent
`},
		{"empty components list", `
name: n
description: d
agentGoal: g
components: []
`},
		{"component missing type", `
name: n
description: d
agentGoal: g
components:
  - id: a
`},
		{"provides missing in", `
name: n
description: d
agentGoal: g
components:
  - id: a
    type: genesis:agent
    provides:
      - useAs: input
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := ValidateDocument([]byte(tt.doc))
			if err != nil {
				t.Fatalf("ValidateDocument() error = %v", err)
			}
			if len(errs) == 0 {
				t.Error("errs empty, want schema violations")
			}
		})
	}
}

func TestValidateDocumentUnparseable(t *testing.T) {
	if _, err := ValidateDocument([]byte("name: [unterminated")); err == nil {
		t.Error("ValidateDocument(bad yaml) error = nil")
	}
}
