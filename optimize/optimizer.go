// Package optimize rewrites specifications for a chosen optimization level
// through a priority-ordered rule engine, computes performance metrics, and
// detects structural bottlenecks.
package optimize

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/spec"
)

// Level selects how aggressively the optimizer rewrites a specification.
type Level string

const (
	LevelFast     Level = "fast"
	LevelBalanced Level = "balanced"
	LevelThorough Level = "thorough"
)

// ParseLevel resolves a level string.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelFast, LevelBalanced, LevelThorough:
		return Level(s), nil
	}
	return "", fmt.Errorf("unknown optimization level %q", s)
}

// fastRuleLimit short-circuits rule application in fast mode.
const fastRuleLimit = 3

// historyLimit bounds the in-process performance history ring.
const historyLimit = 100

// Rule is a pure, predicate-gated specification rewrite. Apply never
// mutates its input; it returns a rewritten clone and whether anything
// actually changed, which keeps repeated optimization idempotent.
type Rule struct {
	Name        string
	Description string
	Priority    int // 1-10, higher applies first
	Targets     []convert.Target // empty = all targets
	Applies     func(s *spec.Specification, level Level) bool
	Apply       func(s *spec.Specification) (*spec.Specification, bool)
}

func (r Rule) appliesToTarget(t convert.Target) bool {
	if len(r.Targets) == 0 {
		return true
	}
	for _, rt := range r.Targets {
		if rt == t {
			return true
		}
	}
	return false
}

// Metrics summarizes one optimization run.
type Metrics struct {
	Target               convert.Target `json:"target"`
	Duration             time.Duration  `json:"duration"`
	ComponentCount       int            `json:"component_count"`
	EdgeCount            int            `json:"edge_count"`
	MemoryEstimateMB     int            `json:"memory_estimate_mb"`
	ComplexityScore      float64        `json:"complexity_score"`
	Level                Level          `json:"optimization_level"`
	OptimizationsApplied []string       `json:"optimizations_applied,omitempty"`
	Bottlenecks          []string       `json:"bottlenecks,omitempty"`
	Recommendations      []string       `json:"recommendations,omitempty"`
}

// HistoryEntry is one record in the bounded performance history.
type HistoryEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Target    convert.Target `json:"target"`
	Metrics   Metrics        `json:"metrics"`
}

// Analysis captures the pre-rewrite characteristics of a specification.
type Analysis struct {
	ComponentCount   int      `json:"component_count"`
	ComplexityScore  float64  `json:"complexity_score"`
	MemoryEstimateMB int      `json:"memory_estimate_mb"`
	Indicators       []string `json:"bottleneck_indicators,omitempty"`
}

// Result is the outcome of Optimize. The original specification is kept as
// a fallback; optimization failures degrade, they never abort.
type Result struct {
	OptimizedSpec *spec.Specification       `json:"optimized_spec"`
	Original      *spec.Specification       `json:"-"`
	Applied       []string                  `json:"optimizations_applied,omitempty"`
	Analysis      Analysis                  `json:"analysis"`
	Validation    *convert.ValidationReport `json:"validation,omitempty"`
	Warnings      []string                  `json:"warnings,omitempty"`
	Metrics       Metrics                   `json:"metrics"`
}

// Optimizer applies registered rules in descending priority order. Rules
// are registered at construction and are stateless; the only mutable state
// is the history ring, guarded by a mutex so optimization calls can run
// concurrently.
type Optimizer struct {
	rules  []Rule
	logger *zap.Logger

	mu      sync.Mutex
	history []HistoryEntry
}

// New builds an optimizer with the built-in rule set.
func New(logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{rules: builtinRules(), logger: logger}
}

// RegisterRule adds a rule. Registration happens before concurrent use.
func (o *Optimizer) RegisterRule(r Rule) {
	o.rules = append(o.rules, r)
}

// Optimize runs Analyze -> Apply Rules -> Validate -> Report for one target
// converter. A validation regression on the rewritten specification is
// reported as a warning, not a failure: the original remains usable.
func (o *Optimizer) Optimize(ctx context.Context, s *spec.Specification, c convert.Converter, level Level, custom []Rule) (*Result, error) {
	if _, err := ParseLevel(string(level)); err != nil {
		return nil, err
	}
	start := time.Now()

	analysis := o.analyze(s)
	optimized, applied := o.applyRules(s, c.Target(), level, custom)

	result := &Result{
		OptimizedSpec: optimized,
		Original:      s,
		Applied:       applied,
		Analysis:      analysis,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := convert.PreConversionValidation(ctx, c, optimized, convert.DefaultValidationOptions())
	result.Validation = report
	if !report.Valid {
		result.Warnings = append(result.Warnings,
			"optimization introduced validation errors; the original specification remains usable as a fallback")
		o.logger.Warn("optimized specification failed re-validation",
			zap.String("target", c.Target().String()),
			zap.Strings("errors", report.Errors))
	}

	result.Metrics = Metrics{
		Target:               c.Target(),
		Duration:             time.Since(start),
		ComponentCount:       len(optimized.Components),
		EdgeCount:            optimized.EdgeCount(),
		MemoryEstimateMB:     convert.EstimateMemoryMB(optimized),
		ComplexityScore:      Complexity(optimized),
		Level:                level,
		OptimizationsApplied: applied,
		Bottlenecks:          bottleneckIndicators(optimized),
	}
	result.Metrics.Recommendations = Recommendations(result.Metrics)
	o.record(result.Metrics)

	return result, nil
}

// OptimizeForConversion is the factory-pipeline entry point: it rewrites
// the specification and returns the applied rule names, falling back to the
// input on any problem so the conversion pipeline never loses its spec.
func (o *Optimizer) OptimizeForConversion(ctx context.Context, s *spec.Specification, target convert.Target, level Level) (*spec.Specification, []string) {
	if _, err := ParseLevel(string(level)); err != nil {
		o.logger.Warn("skipping optimization", zap.Error(err))
		return s, nil
	}
	if err := ctx.Err(); err != nil {
		return s, nil
	}
	optimized, applied := o.applyRules(s, target, level, nil)
	return optimized, applied
}

// History returns a copy of the recorded metrics, most recent last.
func (o *Optimizer) History() []HistoryEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]HistoryEntry, len(o.history))
	copy(out, o.history)
	return out
}

func (o *Optimizer) record(m Metrics) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = append(o.history, HistoryEntry{Timestamp: time.Now().UTC(), Target: m.Target, Metrics: m})
	if len(o.history) > historyLimit {
		o.history = o.history[len(o.history)-historyLimit:]
	}
}

func (o *Optimizer) analyze(s *spec.Specification) Analysis {
	return Analysis{
		ComponentCount:   len(s.Components),
		ComplexityScore:  Complexity(s),
		MemoryEstimateMB: convert.EstimateMemoryMB(s),
		Indicators:       bottleneckIndicators(s),
	}
}

// applyRules runs matching rules in descending priority order. Only rules
// that actually changed the specification count as applied; fast mode stops
// after fastRuleLimit applications.
func (o *Optimizer) applyRules(s *spec.Specification, target convert.Target, level Level, custom []Rule) (*spec.Specification, []string) {
	rules := make([]Rule, 0, len(o.rules)+len(custom))
	rules = append(rules, o.rules...)
	rules = append(rules, custom...)

	matching := rules[:0]
	for _, r := range rules {
		if r.appliesToTarget(target) {
			matching = append(matching, r)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool { return matching[i].Priority > matching[j].Priority })

	current := s
	var applied []string
	for _, rule := range matching {
		if rule.Applies != nil && !rule.Applies(current, level) {
			continue
		}
		next, changed := rule.Apply(current)
		if next == nil {
			o.logger.Warn("optimization rule returned nil specification, skipping", zap.String("rule", rule.Name))
			continue
		}
		current = next
		if !changed {
			continue
		}
		applied = append(applied, rule.Name)
		if level == LevelFast && len(applied) >= fastRuleLimit {
			break
		}
	}
	return current, applied
}

// Complexity scores a specification: it grows with component count,
// connection count, and heavy component types, capped at 10.
func Complexity(s *spec.Specification) float64 {
	score := float64(len(s.Components)) * 0.1
	for i := range s.Components {
		t := s.Components[i].Type
		switch {
		case containsFold(t, "crew"):
			score += 0.5
		case containsFold(t, "agent"):
			score += 0.3
		default:
			score += 0.1
		}
		score += float64(len(s.Components[i].Provides)) * 0.1
	}
	if score > 10 {
		return 10
	}
	return score
}

// Recommendations derives advice from recorded metrics.
func Recommendations(m Metrics) []string {
	var recs []string
	if m.Duration > 10*time.Second {
		recs = append(recs, "consider reducing component count or complexity for faster conversion")
	}
	if m.MemoryEstimateMB > 1000 {
		recs = append(recs, "high memory estimate: consider optimizing large data components")
	}
	if m.ComplexityScore > 5.0 {
		recs = append(recs, "high workflow complexity: consider breaking into smaller workflows")
	}
	if m.EdgeCount > 50 {
		recs = append(recs, "high edge count may impact performance: consider simplifying connections")
	}
	if m.Level == LevelFast {
		recs = append(recs, "fast optimization used: 'balanced' or 'thorough' may produce better results")
	}
	return recs
}
