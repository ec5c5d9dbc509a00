// Package spec defines the canonical in-memory representation of an agent
// specification: a graph of typed components joined by provides relations.
package spec

// Specification is the runtime-agnostic description of an agent workflow.
// It is pure data; converters and the optimizer never mutate one in place.
type Specification struct {
	ID          string      `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Domain      string      `json:"domain,omitempty" yaml:"domain,omitempty"`
	Version     string      `json:"version,omitempty" yaml:"version,omitempty"`
	Kind        string      `json:"kind,omitempty" yaml:"kind,omitempty"`
	Goal        string      `json:"agentGoal,omitempty" yaml:"agentGoal,omitempty"`
	Components  Components  `json:"components" yaml:"components"`
	Variables   []Variable  `json:"variables,omitempty" yaml:"variables,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Component is a single node in the specification graph. Type is a
// namespaced string such as "genesis:agent"; whether it resolves is decided
// per target by each converter's component-support table.
type Component struct {
	ID          string         `json:"id" yaml:"id"`
	Type        string         `json:"type" yaml:"type"`
	Name        string         `json:"name,omitempty" yaml:"name,omitempty"`
	Kind        string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Config      map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
	Provides    []Provides     `json:"provides,omitempty" yaml:"provides,omitempty"`
	AsTools     bool           `json:"asTools,omitempty" yaml:"asTools,omitempty"`
}

// Provides is a directed edge from its owning component to component In,
// discriminated by UseAs (how the target consumes the source's output).
type Provides struct {
	UseAs       string `json:"useAs" yaml:"useAs"`
	In          string `json:"in" yaml:"in"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Variable is a specification-level variable with an inferred or declared
// default, produced by variable preservation during reverse conversion.
type Variable struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Component returns the component with the given id, or nil.
func (s *Specification) Component(id string) *Component {
	for i := range s.Components {
		if s.Components[i].ID == id {
			return &s.Components[i]
		}
	}
	return nil
}

// ComponentTypes returns the distinct component types in document order.
func (s *Specification) ComponentTypes() []string {
	seen := make(map[string]bool, len(s.Components))
	var types []string
	for i := range s.Components {
		t := s.Components[i].Type
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	return types
}

// EdgeCount returns the total number of provides relations.
func (s *Specification) EdgeCount() int {
	n := 0
	for i := range s.Components {
		n += len(s.Components[i].Provides)
	}
	return n
}

// Clone returns a deep copy. Optimization rules rewrite clones so the
// original specification stays usable as a fallback.
func (s *Specification) Clone() *Specification {
	if s == nil {
		return nil
	}
	out := *s
	out.Components = make(Components, len(s.Components))
	for i := range s.Components {
		out.Components[i] = s.Components[i].clone()
	}
	if s.Variables != nil {
		out.Variables = make([]Variable, len(s.Variables))
		copy(out.Variables, s.Variables)
	}
	out.Metadata = cloneMap(s.Metadata)
	return &out
}

func (c Component) clone() Component {
	out := c
	out.Config = cloneMap(c.Config)
	if c.Provides != nil {
		out.Provides = make([]Provides, len(c.Provides))
		copy(out.Provides, c.Provides)
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
