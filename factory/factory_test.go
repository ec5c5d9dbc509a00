package factory

import (
	"context"
	"strings"
	"testing"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/registry"
	"github.com/autonomize-ai/genesis-convert/spec"
)

// fakeConverter converts everything it supports; panicking adapters are
// modeled with the panicMsg knob.
type fakeConverter struct {
	target    convert.Target
	supported map[string]bool
	panicMsg  string
}

func (f *fakeConverter) Target() convert.Target { return f.target }

func (f *fakeConverter) Capabilities() convert.Capabilities {
	return convert.Capabilities{Name: "FakeConverter", Version: "0.0.1", Target: f.target}
}

func (f *fakeConverter) ValidateSpecification(s *spec.Specification) []convert.ValidationError {
	var errs []convert.ValidationError
	for i := range s.Components {
		c := &s.Components[i]
		if c.Type == "" {
			errs = append(errs, convert.ValidationError{Code: convert.CodeMissingField, ComponentID: c.ID, Message: "missing required field: type"})
			continue
		}
		if !f.supported[c.Type] {
			errs = append(errs, convert.ValidationError{Code: convert.CodeComponentNotSupported, ComponentID: c.ID,
				Message: "component type " + c.Type + " is not supported"})
		}
	}
	return errs
}

func (f *fakeConverter) ConvertToTarget(ctx context.Context, s *spec.Specification, vars map[string]any, opts *convert.ValidationOptions) (*convert.ConversionResult, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return &convert.ConversionResult{
		Success:  true,
		Target:   f.target,
		Artifact: convert.Artifact{"nodes": make([]any, len(s.Components))},
	}, nil
}

func (f *fakeConverter) ConvertFromTarget(ctx context.Context, artifact convert.Artifact) (*spec.Specification, error) {
	return nil, convert.NewUnsupportedDirection(f.target, convert.DirectionFromTarget)
}

func (f *fakeConverter) SupportsComponentType(componentType string) bool {
	return f.supported[componentType]
}

func (f *fakeConverter) ComponentCompatibility(c *spec.Component) convert.Compatibility {
	return convert.Compatibility{SpecType: c.Type, RuntimeComponent: "Fake"}
}

func (f *fakeConverter) Constraints() convert.Constraints { return convert.Constraints{} }

func (f *fakeConverter) ValidateEdge(source, target *spec.Component, rel spec.Provides) convert.EdgeValidation {
	return convert.EdgeValidation{Valid: true, SourceID: source.ID, TargetID: target.ID, ConnectionType: rel.UseAs, Score: 1}
}

func allSupport() map[string]bool {
	return map[string]bool{"x:input": true, "x:agent": true, "x:output": true}
}

func sampleSpec() *spec.Specification {
	return &spec.Specification{
		Name: "Sample",
		Components: spec.Components{
			{ID: "in", Type: "x:input"},
			{ID: "agent", Type: "x:agent", Provides: []spec.Provides{{UseAs: "input", In: "out"}}},
			{ID: "out", Type: "x:output"},
		},
	}
}

func newFactory(converters ...convert.Converter) *Factory {
	reg := registry.New(nil)
	for _, c := range converters {
		reg.RegisterInstance(c)
	}
	return New(reg, nil, nil)
}

func TestConvertSpecification(t *testing.T) {
	f := newFactory(&fakeConverter{target: convert.TargetGeneric, supported: allSupport()})

	res := f.ConvertSpecification(context.Background(), sampleSpec(), convert.TargetGeneric, nil, nil, "")
	if !res.Success {
		t.Fatalf("Success = false, errors: %v", res.Errors)
	}
	if res.Artifact == nil {
		t.Error("Artifact = nil")
	}
	if _, ok := res.Metadata["pipeline_duration_ms"]; !ok {
		t.Error("Metadata missing pipeline_duration_ms")
	}
}

func TestConvertSpecificationUnknownTarget(t *testing.T) {
	f := newFactory()

	res := f.ConvertSpecification(context.Background(), sampleSpec(), convert.TargetKafka, nil, nil, "")
	if res.Success {
		t.Fatal("Success = true for unknown target")
	}
	if len(res.Errors) == 0 || !strings.Contains(res.Errors[0], "no converter registered") {
		t.Errorf("Errors = %v, want no-converter-registered", res.Errors)
	}
}

func TestConvertSpecificationValidationFailure(t *testing.T) {
	support := allSupport()
	delete(support, "x:agent")
	f := newFactory(&fakeConverter{target: convert.TargetGeneric, supported: support})

	res := f.ConvertSpecification(context.Background(), sampleSpec(), convert.TargetGeneric, nil, nil, "")
	if res.Success {
		t.Fatal("Success = true, want validation failure")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "agent") {
		t.Errorf("Errors = %v, want exactly one error referencing agent", res.Errors)
	}
	if got := res.Metadata["validation_failed"]; got != true {
		t.Errorf("Metadata[validation_failed] = %v, want true", got)
	}
}

func TestConvertSpecificationSkipValidation(t *testing.T) {
	support := allSupport()
	delete(support, "x:agent")
	f := newFactory(&fakeConverter{target: convert.TargetGeneric, supported: support})

	// Every pass disabled: the adapter runs despite the unsupported type.
	res := f.ConvertSpecification(context.Background(), sampleSpec(), convert.TargetGeneric, nil, &convert.ValidationOptions{}, "")
	if !res.Success {
		t.Errorf("Success = false with validation skipped, errors: %v", res.Errors)
	}
}

func TestConvertSpecificationPartialValidationOptions(t *testing.T) {
	support := allSupport()
	delete(support, "x:agent")

	tests := []struct {
		name string
		opts *convert.ValidationOptions
	}{
		{"hints only", &convert.ValidationOptions{PerformanceHints: true}},
		{"strict only", &convert.ValidationOptions{StrictMode: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFactory(&fakeConverter{target: convert.TargetGeneric, supported: support})

			// Any enabled pass must run the validation phase.
			res := f.ConvertSpecification(context.Background(), sampleSpec(), convert.TargetGeneric, nil, tt.opts, "")
			if res.Success {
				t.Fatal("Success = true, want validation failure")
			}
			if len(res.Errors) == 0 || !strings.Contains(res.Errors[0], "agent") {
				t.Errorf("Errors = %v, want unsupported-agent error", res.Errors)
			}
		})
	}
}

func TestConvertSpecificationPanicIsolated(t *testing.T) {
	f := newFactory(&fakeConverter{target: convert.TargetGeneric, supported: allSupport(), panicMsg: "boom"})

	res := f.ConvertSpecification(context.Background(), sampleSpec(), convert.TargetGeneric, nil, nil, "")
	if res.Success {
		t.Fatal("Success = true, want panic surfaced as failure")
	}
	if len(res.Errors) == 0 || !strings.Contains(res.Errors[0], "boom") {
		t.Errorf("Errors = %v, want panic message", res.Errors)
	}
}

func TestConvertToMultipleTargetsFanOutIsolation(t *testing.T) {
	f := newFactory(
		&fakeConverter{target: convert.TargetLangflow, supported: allSupport()},
		&fakeConverter{target: convert.TargetTemporal, supported: allSupport(), panicMsg: "adapter bug"},
		&fakeConverter{target: convert.TargetKafka, supported: allSupport()},
	)

	targets := []convert.Target{convert.TargetLangflow, convert.TargetTemporal, convert.TargetKafka}
	results := f.ConvertToMultipleTargets(context.Background(), sampleSpec(), targets, nil, nil, "")

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	succeeded, failed := 0, 0
	for target, res := range results {
		if res == nil {
			t.Fatalf("results[%s] = nil", target)
		}
		if res.Success {
			succeeded++
		} else {
			failed++
		}
	}
	if succeeded != 2 || failed != 1 {
		t.Errorf("succeeded = %d, failed = %d, want 2/1", succeeded, failed)
	}
	if results[convert.TargetTemporal].Success {
		t.Error("panicking adapter's result Success = true")
	}
}

func TestConvertToMultipleTargetsDeduplicates(t *testing.T) {
	f := newFactory(&fakeConverter{target: convert.TargetGeneric, supported: allSupport()})

	targets := []convert.Target{convert.TargetGeneric, convert.TargetGeneric, convert.TargetGeneric}
	results := f.ConvertToMultipleTargets(context.Background(), sampleSpec(), targets, nil, nil, "")
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
}

func TestValidateSpecification(t *testing.T) {
	f := newFactory(&fakeConverter{target: convert.TargetGeneric, supported: allSupport()})

	report, err := f.ValidateSpecification(context.Background(), sampleSpec(), convert.TargetGeneric, nil)
	if err != nil {
		t.Fatalf("ValidateSpecification() error = %v", err)
	}
	if !report.Valid {
		t.Errorf("report.Valid = false, errors: %v", report.Errors)
	}

	if _, err := f.ValidateSpecification(context.Background(), sampleSpec(), convert.TargetKafka, nil); err == nil {
		t.Error("ValidateSpecification(unknown target) error = nil")
	}
}

func TestCheckCompatibility(t *testing.T) {
	support := allSupport()
	delete(support, "x:agent")
	f := newFactory(
		&fakeConverter{target: convert.TargetLangflow, supported: allSupport()},
		&fakeConverter{target: convert.TargetTemporal, supported: support},
	)

	// Empty targets means every registered target.
	out := f.CheckCompatibility(context.Background(), sampleSpec(), nil)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if !out[convert.TargetLangflow].Compatible {
		t.Errorf("langflow verdict = %+v, want compatible", out[convert.TargetLangflow])
	}
	if out[convert.TargetTemporal].Compatible {
		t.Errorf("temporal verdict = %+v, want incompatible", out[convert.TargetTemporal])
	}

	unknown := f.CheckCompatibility(context.Background(), sampleSpec(), []convert.Target{convert.TargetKafka})
	if v := unknown[convert.TargetKafka]; v.Compatible || len(v.Errors) == 0 {
		t.Errorf("unknown-target verdict = %+v, want error", v)
	}
}

func TestListTargets(t *testing.T) {
	f := newFactory(
		&fakeConverter{target: convert.TargetLangflow, supported: allSupport()},
		&fakeConverter{target: convert.TargetKafka, supported: allSupport()},
	)

	caps := f.ListTargets()
	if len(caps) != 2 {
		t.Fatalf("len(caps) = %d, want 2", len(caps))
	}
	if caps[0].Target != convert.TargetLangflow || caps[1].Target != convert.TargetKafka {
		t.Errorf("targets = [%v, %v], want registration order", caps[0].Target, caps[1].Target)
	}

	if _, ok := f.TargetInfo(convert.TargetTemporal); ok {
		t.Error("TargetInfo(unregistered) ok = true")
	}
}
