package skeleton

import (
	"context"
	"errors"
	"testing"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/spec"
)

func validSpec() *spec.Specification {
	return &spec.Specification{
		Name: "Streaming Flow",
		Goal: "Process events",
		Components: spec.Components{
			{ID: "in", Type: "genesis:chat_input"},
			{ID: "agent", Type: "genesis:agent", Provides: []spec.Provides{{UseAs: "input", In: "out"}}},
			{ID: "out", Type: "genesis:chat_output"},
		},
	}
}

func TestSkeletonContract(t *testing.T) {
	for _, c := range []*Converter{NewTemporal(), NewKafka()} {
		t.Run(c.Target().String(), func(t *testing.T) {
			caps := c.Capabilities()
			if caps.ImplementationStatus != "skeleton" {
				t.Errorf("ImplementationStatus = %q, want skeleton", caps.ImplementationStatus)
			}
			if caps.Bidirectional {
				t.Error("Bidirectional = true, want false")
			}
			if len(caps.PlannedFeatures) == 0 {
				t.Error("PlannedFeatures is empty")
			}

			// Forward conversion always fails with the documented error.
			_, err := c.ConvertToTarget(context.Background(), validSpec(), nil, nil)
			if err == nil {
				t.Fatal("ConvertToTarget() error = nil, want skeleton error")
			}
			var convErr *convert.ConversionError
			if !errors.As(err, &convErr) {
				t.Fatalf("error %v is not a *ConversionError", err)
			}
			if !errors.Is(err, convert.ErrSkeleton) {
				t.Error("errors.Is(ErrSkeleton) = false")
			}
			if got := convErr.Details["implementation_status"]; got != "skeleton" {
				t.Errorf("Details[implementation_status] = %v, want skeleton", got)
			}

			// Reverse conversion is an unsupported direction.
			if _, err := c.ConvertFromTarget(context.Background(), convert.Artifact{}); !errors.Is(err, convert.ErrUnsupportedDirection) {
				t.Errorf("ConvertFromTarget() error = %v, want ErrUnsupportedDirection", err)
			}
		})
	}
}

func TestValidateSpecification(t *testing.T) {
	c := NewKafka()

	if errs := c.ValidateSpecification(validSpec()); len(errs) != 0 {
		t.Errorf("ValidateSpecification(valid) = %v, want none", errs)
	}

	broken := &spec.Specification{
		Components: spec.Components{
			{ID: "", Type: "genesis:chat_input"},
			{ID: "agent", Provides: []spec.Provides{{UseAs: "input", In: "missing"}}},
		},
	}
	errs := c.ValidateSpecification(broken)
	// no name, missing id, missing type, unknown edge target, no output sink
	if len(errs) < 4 {
		t.Errorf("len(errs) = %d, want >= 4: %v", len(errs), errs)
	}
}

func TestTemporalFitness(t *testing.T) {
	c := NewTemporal()

	s := validSpec()
	s.Goal = ""
	errs := c.ValidateSpecification(s)
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1: %v", len(errs), errs)
	}
	if errs[0].Code != convert.CodeMissingField {
		t.Errorf("Code = %q, want %q", errs[0].Code, convert.CodeMissingField)
	}
}

func TestKafkaFitness(t *testing.T) {
	c := NewKafka()

	noSink := &spec.Specification{
		Name: "No Sink",
		Components: spec.Components{
			{ID: "in", Type: "genesis:chat_input"},
			{ID: "agent", Type: "genesis:agent"},
		},
	}
	errs := c.ValidateSpecification(noSink)
	if len(errs) != 1 || errs[0].Code != convert.CodeConstraintViolation {
		t.Errorf("errs = %v, want one constraint violation for the missing sink", errs)
	}
}

func TestComponentCompatibility(t *testing.T) {
	c := NewTemporal()

	supported := c.ComponentCompatibility(&spec.Component{ID: "a", Type: "genesis:agent"})
	if len(supported.Constraints) != 1 {
		t.Errorf("supported constraints = %v, want only the not-implemented note", supported.Constraints)
	}

	unsupported := c.ComponentCompatibility(&spec.Component{ID: "b", Type: "genesis:hologram"})
	if len(unsupported.Constraints) != 2 {
		t.Errorf("unsupported constraints = %v, want support-table note plus not-implemented note", unsupported.Constraints)
	}
	if c.SupportsComponentType("genesis:hologram") {
		t.Error("SupportsComponentType(genesis:hologram) = true")
	}
}

func TestValidateEdge(t *testing.T) {
	c := NewKafka()
	source := &spec.Component{ID: "in", Type: "genesis:chat_input"}
	target := &spec.Component{ID: "agent", Type: "genesis:agent"}

	good := c.ValidateEdge(source, target, spec.Provides{UseAs: "input", In: "agent"})
	if !good.Valid || good.Score != 1.0 {
		t.Errorf("good edge = %+v, want valid with score 1", good)
	}

	missing := c.ValidateEdge(source, target, spec.Provides{})
	if missing.Valid || missing.Score != 0 || len(missing.Errors) != 2 {
		t.Errorf("missing-fields edge = %+v, want invalid with 2 errors and score 0", missing)
	}

	offTable := c.ValidateEdge(source, &spec.Component{ID: "x", Type: "genesis:crew"}, spec.Provides{UseAs: "input", In: "x"})
	if !offTable.Valid || offTable.Score != 0.5 || len(offTable.Warnings) != 1 {
		t.Errorf("off-table edge = %+v, want valid with score 0.5 and a warning", offTable)
	}
}
