package langflow

import (
	"regexp"
	"strings"
)

// placeholderPattern matches {{name}} variable references in config values.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.-]*)\s*\}\}`)

// ResolveVariables substitutes {{name}} placeholders inside string config
// values from vars. A placeholder with no binding is kept verbatim so the
// runtime can resolve it later; nothing else is touched.
func ResolveVariables(config map[string]any, vars map[string]any) map[string]any {
	if len(config) == 0 {
		return config
	}
	out := make(map[string]any, len(config))
	for k, v := range config {
		out[k] = resolveValue(v, vars)
	}
	return out
}

func resolveValue(v any, vars map[string]any) any {
	switch val := v.(type) {
	case string:
		return resolveString(val, vars)
	case map[string]any:
		return ResolveVariables(val, vars)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = resolveValue(item, vars)
		}
		return out
	default:
		return v
	}
}

func resolveString(s string, vars map[string]any) any {
	if !strings.Contains(s, "{{") {
		return s
	}

	// A value that is exactly one placeholder keeps the variable's native
	// type instead of flattening to a string.
	if m := placeholderPattern.FindStringSubmatch(s); m != nil && m[0] == s {
		if bound, ok := vars[m[1]]; ok {
			return bound
		}
		return s
	}

	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if bound, ok := vars[name]; ok {
			if str, isStr := bound.(string); isStr {
				return str
			}
		}
		return match
	})
}

// Placeholders returns the distinct variable names referenced anywhere in
// the value, in first-appearance order.
func Placeholders(v any) []string {
	var names []string
	seen := map[string]bool{}
	collectPlaceholders(v, &names, seen)
	return names
}

func collectPlaceholders(v any, names *[]string, seen map[string]bool) {
	switch val := v.(type) {
	case string:
		for _, m := range placeholderPattern.FindAllStringSubmatch(val, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				*names = append(*names, m[1])
			}
		}
	case map[string]any:
		for _, item := range val {
			collectPlaceholders(item, names, seen)
		}
	case []any:
		for _, item := range val {
			collectPlaceholders(item, names, seen)
		}
	}
}
