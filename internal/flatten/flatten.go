// Package flatten converts between nested payload maps and flat maps keyed
// by joined paths.
package flatten

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Flatten walks nested map[string]any values and returns the leaves keyed by
// their sep-joined path. Empty nested maps are kept as leaves.
func Flatten(payload map[string]any, sep string) map[string]any {
	out := map[string]any{}
	flattenInto(out, payload, "", sep)
	return out
}

func flattenInto(out map[string]any, value map[string]any, prefix, sep string) {
	for key, child := range value {
		path := key
		if prefix != "" {
			path = prefix + sep + key
		}
		if nested, ok := asMap(child); ok && len(nested) > 0 {
			flattenInto(out, nested, path, sep)
			continue
		}
		out[path] = child
	}
}

// Nest is the inverse of Flatten.
func Nest(flat map[string]any, sep string) map[string]any {
	out := map[string]any{}
	for _, key := range SortedKeys(flat) {
		parts := strings.Split(key, sep)
		current := out
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				next = map[string]any{}
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = flat[key]
	}
	return out
}

// Lookup follows path segments through nested maps.
func Lookup(payload map[string]any, segments []string) (any, bool) {
	var current any = payload
	for _, segment := range segments {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Delete removes the entry at segments, pruning maps left empty. It reports
// whether anything was removed.
func Delete(payload map[string]any, segments []string) bool {
	if len(segments) == 0 {
		return false
	}
	if len(segments) == 1 {
		if _, ok := payload[segments[0]]; !ok {
			return false
		}
		delete(payload, segments[0])
		return true
	}
	next, ok := asMap(payload[segments[0]])
	if !ok {
		return false
	}
	removed := Delete(next, segments[1:])
	if removed && len(next) == 0 {
		delete(payload, segments[0])
	}
	return removed
}

// Stringify renders a decoded payload value in the form property codecs
// parse: scalars verbatim, lists comma-joined, maps as JSON.
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case json.Number:
		return typed.String()
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'g', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(typed)
	case []any:
		parts := make([]string, len(typed))
		for i, item := range typed {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(typed, ",")
	case map[string]any:
		buf, err := json.Marshal(typed)
		if err != nil {
			return ""
		}
		return string(buf)
	default:
		return fmt.Sprint(typed)
	}
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func asMap(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = item
		}
		return out, true
	default:
		return nil, false
	}
}
