package optimize

import (
	"strings"

	"github.com/autonomize-ai/genesis-convert/convert"
	"github.com/autonomize-ai/genesis-convert/spec"
)

const (
	maxTimeoutSeconds = 60
	maxTemperature    = 0.7
	maxTokens         = 2000
	maxBatchSize      = 10
)

// cacheableTypes are component types whose results are safe to cache.
var cacheableTypes = []string{"api_request", "knowledge_hub_search", "mcp_tool"}

func builtinRules() []Rule {
	return []Rule{
		{
			Name:        "reduce_timeout_values",
			Description: "cap per-component timeouts at 60s to fail fast",
			Priority:    8,
			Targets:     []convert.Target{convert.TargetLangflow, convert.TargetTemporal},
			Applies: func(s *spec.Specification, level Level) bool {
				return level == LevelFast || level == LevelBalanced
			},
			Apply: capNumericConfig("timeout", maxTimeoutSeconds),
		},
		{
			Name:        "enable_caching",
			Description: "turn on result caching for cacheable component types",
			Priority:    7,
			Targets:     []convert.Target{convert.TargetLangflow},
			Applies: func(s *spec.Specification, level Level) bool {
				return level == LevelThorough
			},
			Apply: enableCaching,
		},
		{
			Name:        "optimize_agent_temperature",
			Description: "cap agent temperature at 0.7 for consistent output",
			Priority:    6,
			Targets:     []convert.Target{convert.TargetLangflow},
			Applies: func(s *spec.Specification, level Level) bool {
				return level != LevelFast
			},
			Apply: capAgentTemperature,
		},
		{
			Name:        "optimize_memory_usage",
			Description: "bound max_tokens and batch_size on memory-heavy components",
			Priority:    5,
			Targets:     []convert.Target{convert.TargetLangflow, convert.TargetTemporal},
			Applies: func(s *spec.Specification, level Level) bool {
				return level == LevelBalanced || level == LevelThorough
			},
			Apply: boundMemoryConfig,
		},
	}
}

// capNumericConfig caps the named numeric config field across all components.
func capNumericConfig(key string, max float64) func(*spec.Specification) (*spec.Specification, bool) {
	return func(s *spec.Specification) (*spec.Specification, bool) {
		out := s.Clone()
		changed := false
		for i := range out.Components {
			cfg := out.Components[i].Config
			v, ok := asFloat(cfg[key])
			if !ok || v <= max {
				continue
			}
			cfg[key] = int(max)
			changed = true
		}
		return out, changed
	}
}

func enableCaching(s *spec.Specification) (*spec.Specification, bool) {
	out := s.Clone()
	changed := false
	for i := range out.Components {
		c := &out.Components[i]
		if !isCacheable(c.Type) {
			continue
		}
		if c.Config == nil {
			c.Config = map[string]any{}
		}
		if _, set := c.Config["cache_enabled"]; set {
			continue
		}
		c.Config["cache_enabled"] = true
		changed = true
	}
	return out, changed
}

func capAgentTemperature(s *spec.Specification) (*spec.Specification, bool) {
	out := s.Clone()
	changed := false
	for i := range out.Components {
		c := &out.Components[i]
		if !containsFold(c.Type, "agent") {
			continue
		}
		v, ok := asFloat(c.Config["temperature"])
		if !ok || v <= maxTemperature {
			continue
		}
		c.Config["temperature"] = maxTemperature
		changed = true
	}
	return out, changed
}

func boundMemoryConfig(s *spec.Specification) (*spec.Specification, bool) {
	out := s.Clone()
	changed := false
	for i := range out.Components {
		cfg := out.Components[i].Config
		if v, ok := asFloat(cfg["max_tokens"]); ok && v > maxTokens {
			cfg["max_tokens"] = maxTokens
			changed = true
		}
		if v, ok := asFloat(cfg["batch_size"]); ok && v > maxBatchSize {
			cfg["batch_size"] = maxBatchSize
			changed = true
		}
	}
	return out, changed
}

func isCacheable(componentType string) bool {
	for _, t := range cacheableTypes {
		if containsFold(componentType, t) {
			return true
		}
	}
	return false
}

// asFloat normalizes the numeric types YAML and JSON decoding produce.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
