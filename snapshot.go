package props

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-props/internal/flatten"
)

// FieldDescriptor describes one leaf of a tree.
type FieldDescriptor struct {
	Path        string
	Type        string
	Label       string
	Description string
	Link        string
}

// Snapshot returns the subtree below a as nested maps keyed by child name.
// Links contribute the value of their target, or nil when unresolved; links
// to composites are left out so that self-referencing trees terminate.
func Snapshot(a *Ambassador) map[string]any {
	if a == nil {
		return nil
	}
	out := make(map[string]any, len(a.children))
	for _, child := range a.children {
		if composite, ok := child.(Composite); ok {
			out[child.Name()] = Snapshot(composite.AsAmbassador())
			continue
		}
		if link, ok := child.(*Link); ok {
			target, err := link.Resolve()
			if err != nil {
				out[child.Name()] = nil
				continue
			}
			if _, ok := target.(Composite); ok {
				continue
			}
			out[child.Name()] = target.Raw()
			continue
		}
		out[child.Name()] = child.Raw()
	}
	return out
}

// Apply writes payload into the subtree below a. Nested maps descend into
// composite children; every other value is rendered to its string form and
// passed to FromString. Changes are batched into a single commit. The first
// failure stops the walk; values applied before it stay in place.
func Apply(a *Ambassador, payload map[string]any) error {
	if a == nil {
		return ErrNilProperty
	}
	defer a.BeginSuspend().End()
	return applyPayload(a, payload, nil)
}

func applyPayload(a *Ambassador, payload map[string]any, prefix []string) error {
	for _, key := range flatten.SortedKeys(payload) {
		segments := append(append([]string(nil), prefix...), key)
		child, ok := a.Child(key)
		if !ok {
			return newPathError(PathNotFound, segments, key, a)
		}
		value := payload[key]
		if composite, ok := child.(Composite); ok {
			nested, isMap := value.(map[string]any)
			if !isMap {
				if err := child.FromString(flatten.Stringify(value)); err != nil {
					return err
				}
				continue
			}
			if err := applyPayload(composite.AsAmbassador(), nested, segments); err != nil {
				return err
			}
			continue
		}
		if err := child.FromString(flatten.Stringify(value)); err != nil {
			return fmt.Errorf("props: apply %q: %w", strings.Join(segments, "/"), err)
		}
	}
	return nil
}

// Describe lists the leaves below a in depth-first insertion order with
// slash paths relative to a. Empty composites are listed as leaves.
func Describe(a *Ambassador) []FieldDescriptor {
	if a == nil {
		return nil
	}
	fields := describeInto(nil, a, "")
	if fields == nil {
		fields = []FieldDescriptor{}
	}
	return fields
}

func describeInto(fields []FieldDescriptor, a *Ambassador, prefix string) []FieldDescriptor {
	for _, child := range a.children {
		path := joinSlash(prefix, child.Name())
		if composite, ok := child.(Composite); ok && composite.AsAmbassador().Len() > 0 {
			fields = describeInto(fields, composite.AsAmbassador(), path)
			continue
		}
		hint := child.Hint()
		field := FieldDescriptor{
			Path:        path,
			Type:        child.ValueType().String(),
			Label:       hint.Label,
			Description: hint.Description,
		}
		if link, ok := child.(*Link); ok {
			field.Link = link.Path()
		}
		fields = append(fields, field)
	}
	return fields
}

func joinSlash(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "/" + segment
}

var errNotAnObject = errors.New("expected a JSON object")

func decodePayload(s string) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(s)))
	decoder.UseNumber()
	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errNotAnObject
	}
	return payload, nil
}
