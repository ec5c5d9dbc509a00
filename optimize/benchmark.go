package optimize

import (
	"context"
	"fmt"
	"time"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/spec"
)

// Pipeline is the conversion entry point the benchmark drives. The factory
// package satisfies it.
type Pipeline interface {
	ConvertSpecification(ctx context.Context, s *spec.Specification, target convert.Target, vars map[string]any, opts *convert.ValidationOptions, level Level) *convert.ConversionResult
}

// TargetBenchmark aggregates the timing of one target's conversion runs.
type TargetBenchmark struct {
	Target      convert.Target `json:"target"`
	Iterations  int            `json:"iterations"`
	Avg         time.Duration  `json:"avg"`
	Min         time.Duration  `json:"min"`
	Max         time.Duration  `json:"max"`
	SuccessRate float64        `json:"success_rate"`
}

// BenchmarkReport compares conversion performance across targets.
type BenchmarkReport struct {
	Results        map[convert.Target]TargetBenchmark `json:"results"`
	Fastest        convert.Target                     `json:"fastest,omitempty"`
	MostReliable   convert.Target                     `json:"most_reliable,omitempty"`
	ComponentCount int                                `json:"component_count"`
	Complexity     float64                            `json:"complexity_score"`
}

// Benchmark converts the specification to each target the given number of
// times and aggregates timings. Failed iterations count against the success
// rate but are discarded from the duration aggregates, so a target that
// fails instantly does not look fast; a target with no successful iteration
// is never picked as fastest.
func (o *Optimizer) Benchmark(ctx context.Context, p Pipeline, s *spec.Specification, targets []convert.Target, iterations int) (*BenchmarkReport, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("benchmark iterations must be >= 1, got %d", iterations)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("benchmark requires at least one target")
	}

	report := &BenchmarkReport{
		Results:        make(map[convert.Target]TargetBenchmark, len(targets)),
		ComponentCount: len(s.Components),
		Complexity:     Complexity(s),
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tb := TargetBenchmark{Target: target, Iterations: iterations}
		successes := 0
		var total time.Duration
		for i := 0; i < iterations; i++ {
			start := time.Now()
			res := p.ConvertSpecification(ctx, s, target, nil, nil, "")
			elapsed := time.Since(start)
			if res == nil || !res.Success {
				continue
			}
			successes++
			total += elapsed
			if successes == 1 || elapsed < tb.Min {
				tb.Min = elapsed
			}
			if elapsed > tb.Max {
				tb.Max = elapsed
			}
		}
		if successes > 0 {
			tb.Avg = total / time.Duration(successes)
		}
		tb.SuccessRate = float64(successes) / float64(iterations)
		report.Results[target] = tb
	}

	report.Fastest = pickTarget(targets, report.Results,
		func(tb TargetBenchmark) bool { return tb.SuccessRate > 0 },
		func(a, b TargetBenchmark) bool { return a.Avg < b.Avg })
	report.MostReliable = pickTarget(targets, report.Results,
		nil,
		func(a, b TargetBenchmark) bool { return a.SuccessRate > b.SuccessRate })
	return report, nil
}

// pickTarget scans in the caller's target order, so ties keep the first.
// Targets failing the eligibility check are skipped; empty means none
// qualified.
func pickTarget(order []convert.Target, results map[convert.Target]TargetBenchmark, eligible func(TargetBenchmark) bool, better func(a, b TargetBenchmark) bool) convert.Target {
	var best convert.Target
	for _, t := range order {
		tb := results[t]
		if eligible != nil && !eligible(tb) {
			continue
		}
		if best == "" || better(tb, results[best]) {
			best = t
		}
	}
	return best
}
