// Package factory orchestrates the validate -> optimize -> convert pipeline
// over the converter registry, including concurrent multi-target fan-out and
// cross-target compatibility checks.
package factory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/optimize"
	"github.com/autonomize-ai/genesis-convert/registry"
	"github.com/autonomize-ai/genesis-convert/spec"
)

// Factory drives conversions end to end. It is safe for concurrent use: the
// registry guards its own state and the optimizer's rules are pure.
type Factory struct {
	registry  *registry.Registry
	optimizer *optimize.Optimizer
	logger    *zap.Logger
}

// New builds a factory. A nil optimizer disables the optimization phase; a
// nil logger falls back to a no-op logger.
func New(reg *registry.Registry, opt *optimize.Optimizer, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{registry: reg, optimizer: opt, logger: logger}
}

// Registry exposes the underlying registry for callers that register
// converters after construction.
func (f *Factory) Registry() *registry.Registry { return f.registry }

// ConvertSpecification runs the full pipeline for one target and always
// returns a result: pipeline failures, adapter errors, and adapter panics
// all surface as failed results, never as panics to the caller. Pass a nil
// opts for default validation, ValidationOptions with every pass disabled to
// skip validation, and an empty level to skip optimization.
func (f *Factory) ConvertSpecification(ctx context.Context, s *spec.Specification, target convert.Target, vars map[string]any, opts *convert.ValidationOptions, level optimize.Level) *convert.ConversionResult {
	start := time.Now()

	c, ok := f.registry.Converter(target)
	if !ok {
		return convert.Failed(target, fmt.Sprintf("no converter registered for target %q", target))
	}
	if opts == nil {
		opts = convert.DefaultValidationOptions()
	}

	// Validation phase. Skipped entirely when every pass is disabled.
	if opts.Enabled() {
		report := convert.PreConversionValidation(ctx, c, s, opts)
		if !report.Valid {
			res := convert.Failed(target, report.Errors...)
			res.Warnings = report.Warnings
			res.Suggestions = report.Suggestions
			res.Metadata = map[string]any{"validation": report, "validation_failed": true}
			res.Metrics.Duration = time.Since(start)
			f.logger.Debug("pre-conversion validation failed",
				zap.String("target", target.String()),
				zap.Int("errors", len(report.Errors)))
			return res
		}
	}

	// Optimization phase. Failures here degrade to the unoptimized spec.
	var applied []string
	if level != "" && f.optimizer != nil {
		s, applied = f.optimizer.OptimizeForConversion(ctx, s, target, level)
	}

	res := f.runConversion(ctx, c, s, vars, opts)
	if res == nil {
		res = convert.Failed(target, "converter returned no result")
	}

	if res.Metadata == nil {
		res.Metadata = map[string]any{}
	}
	res.Metadata["pipeline_duration_ms"] = time.Since(start).Milliseconds()
	res.Metadata["optimization_level"] = string(level)
	if len(applied) > 0 {
		res.Metrics.OptimizationsApplied = applied
	}
	if res.Metrics.Duration == 0 {
		res.Metrics.Duration = time.Since(start)
	}
	if secs := res.Metrics.Duration.Seconds(); secs > 0 {
		res.Metrics.ComponentsPerSecond = float64(len(s.Components)) / secs
	}
	return res
}

// runConversion isolates the adapter call: a panicking or erroring adapter
// produces a failed result for its target and nothing else.
func (f *Factory) runConversion(ctx context.Context, c convert.Converter, s *spec.Specification, vars map[string]any, opts *convert.ValidationOptions) (res *convert.ConversionResult) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("converter panicked",
				zap.String("target", c.Target().String()),
				zap.Any("panic", r))
			res = convert.Failed(c.Target(), fmt.Sprintf("converter panicked: %v", r))
		}
	}()

	res, err := c.ConvertToTarget(ctx, s, vars, opts)
	if err != nil {
		failed := convert.Failed(c.Target(), err.Error())
		var convErr *convert.ConversionError
		if errors.As(err, &convErr) && len(convErr.Details) > 0 {
			failed.Metadata = map[string]any{}
			for k, v := range convErr.Details {
				failed.Metadata[k] = v
			}
		}
		return failed
	}
	return res
}

// ValidateSpecification runs pre-conversion validation only. The only error
// is a genuinely unknown target.
func (f *Factory) ValidateSpecification(ctx context.Context, s *spec.Specification, target convert.Target, opts *convert.ValidationOptions) (*convert.ValidationReport, error) {
	c, ok := f.registry.Converter(target)
	if !ok {
		return nil, fmt.Errorf("no converter registered for target %q", target)
	}
	return convert.PreConversionValidation(ctx, c, s, opts), nil
}

// ConvertToMultipleTargets fans out one conversion per target and waits for
// all of them: every requested target gets exactly one result, and a
// panicking adapter is confined to its own entry.
func (f *Factory) ConvertToMultipleTargets(ctx context.Context, s *spec.Specification, targets []convert.Target, vars map[string]any, opts *convert.ValidationOptions, level optimize.Level) map[convert.Target]*convert.ConversionResult {
	results := make(map[convert.Target]*convert.ConversionResult, len(targets))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, target := range targets {
		mu.Lock()
		if _, dup := results[target]; dup {
			mu.Unlock()
			continue
		}
		results[target] = nil // reserve; deduplicates repeated targets
		mu.Unlock()

		wg.Add(1)
		go func(t convert.Target) {
			defer wg.Done()
			res := f.convertGuarded(ctx, s, t, vars, opts, level)
			mu.Lock()
			results[t] = res
			mu.Unlock()
		}(target)
	}
	wg.Wait()
	return results
}

// convertGuarded adds a second recover layer around the whole pipeline so a
// fan-out goroutine can never crash the process.
func (f *Factory) convertGuarded(ctx context.Context, s *spec.Specification, target convert.Target, vars map[string]any, opts *convert.ValidationOptions, level optimize.Level) (res *convert.ConversionResult) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("conversion pipeline panicked",
				zap.String("target", target.String()),
				zap.Any("panic", r))
			res = convert.Failed(target, fmt.Sprintf("conversion panicked: %v", r))
		}
	}()
	return f.ConvertSpecification(ctx, s, target, vars, opts, level)
}

// TargetCompatibility is the per-target verdict from CheckCompatibility.
type TargetCompatibility struct {
	Compatible           bool     `json:"compatible"`
	ImplementationStatus string   `json:"implementation_status,omitempty"`
	Errors               []string `json:"errors,omitempty"`
	Warnings             []string `json:"warnings,omitempty"`
	Suggestions          []string `json:"suggestions,omitempty"`
}

// CheckCompatibility validates the specification against each target
// without converting. A nil or empty targets slice means every registered
// target.
func (f *Factory) CheckCompatibility(ctx context.Context, s *spec.Specification, targets []convert.Target) map[convert.Target]TargetCompatibility {
	if len(targets) == 0 {
		targets = f.registry.AvailableTargets()
	}
	out := make(map[convert.Target]TargetCompatibility, len(targets))
	for _, target := range targets {
		c, ok := f.registry.Converter(target)
		if !ok {
			out[target] = TargetCompatibility{Errors: []string{fmt.Sprintf("no converter registered for target %q", target)}}
			continue
		}
		report := convert.PreConversionValidation(ctx, c, s, convert.DefaultValidationOptions())
		out[target] = TargetCompatibility{
			Compatible:           report.Valid,
			ImplementationStatus: c.Capabilities().ImplementationStatus,
			Errors:               report.Errors,
			Warnings:             report.Warnings,
			Suggestions:          report.Suggestions,
		}
	}
	return out
}

// TargetInfo returns the cached capabilities for one target.
func (f *Factory) TargetInfo(target convert.Target) (convert.Capabilities, bool) {
	return f.registry.Capabilities(target)
}

// ListTargets returns the capabilities of every registered target in
// registration order.
func (f *Factory) ListTargets() []convert.Capabilities {
	targets := f.registry.AvailableTargets()
	out := make([]convert.Capabilities, 0, len(targets))
	for _, t := range targets {
		if caps, ok := f.registry.Capabilities(t); ok {
			out = append(out, caps)
		}
	}
	return out
}
