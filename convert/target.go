// Package convert defines the converter contract shared by every target
// adapter: capability reporting, validation, forward and reverse conversion,
// and per-component/per-edge compatibility checks.
package convert

import "fmt"

// Target identifies a concrete execution runtime a specification can be
// converted into. The set is closed; adapters discovered from plugin
// manifests register under TargetGeneric-compatible identifiers validated
// at registration time.
type Target string

const (
	// TargetLangflow is the visual workflow-execution runtime.
	TargetLangflow Target = "langflow"
	// TargetTemporal is the durable-workflow-engine runtime.
	TargetTemporal Target = "temporal"
	// TargetKafka is the streaming-topology runtime.
	TargetKafka Target = "kafka"
	// TargetGeneric is reserved for tests and plugin-declared adapters.
	TargetGeneric Target = "generic"
)

// Valid reports whether t is a non-empty target identifier.
func (t Target) Valid() bool { return t != "" }

func (t Target) String() string { return string(t) }

// ParseTarget resolves a target identifier string to a known Target.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetLangflow, TargetTemporal, TargetKafka, TargetGeneric:
		return Target(s), nil
	}
	return "", fmt.Errorf("unknown target %q", s)
}

// Mode is the conversion direction.
type Mode string

const (
	ModeToTarget   Mode = "to-target"
	ModeFromTarget Mode = "from-target"
)
