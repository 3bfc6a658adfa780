package layering

import "github.com/goliatone/go-props/internal/flatten"

// Merge composes payloads ordered from strongest to weakest. Nested maps are
// merged key by key; any other value from a stronger payload wins. A nil
// value counts as unset and falls through to weaker payloads. Inputs are
// never modified.
func Merge(payloads ...map[string]any) map[string]any {
	merged := map[string]any{}
	for i := len(payloads) - 1; i >= 0; i-- {
		merged = mergeMaps(payloads[i], merged)
	}
	return merged
}

func mergeMaps(strong, weak map[string]any) map[string]any {
	out := make(map[string]any, len(strong)+len(weak))
	for key, value := range weak {
		out[key] = cloneValue(value)
	}
	for _, key := range flatten.SortedKeys(strong) {
		value := strong[key]
		if value == nil {
			continue
		}
		if strongMap, ok := value.(map[string]any); ok {
			weakMap, _ := out[key].(map[string]any)
			out[key] = mergeMaps(strongMap, weakMap)
			continue
		}
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			out[key] = cloneValue(child)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = cloneValue(child)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
