package props

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-props/internal/signal"
)

// Ambassador is a property that owns an ordered list of named children. It
// resolves paths, fans changes out to listeners and batches notifications
// through nestable suspensions. Ambassadors are not safe for concurrent use;
// callers sharing a tree across goroutines must serialize access.
//
// Ambassador is embedded by Model, which provides the mutating API.
type Ambassador struct {
	node
	self         Property
	children     []Property
	listeners    signal.Signal[Property]
	changed      signal.Signal[string]
	suspendCount int
	dirty        bool
	logger       TreeLogger
	activity     activityEmitter
}

func (a *Ambassador) init(self Property, n node, cfg config) {
	a.node = n
	a.self = self
	a.logger = cfg.logger
	a.activity = cfg.activity
}

// AsAmbassador implements Composite.
func (a *Ambassador) AsAmbassador() *Ambassador {
	return a
}

// Self returns the property embedding this ambassador.
func (a *Ambassador) Self() Property {
	return a.self
}

// Properties returns the children in insertion order. The slice is a copy.
func (a *Ambassador) Properties() []Property {
	return append([]Property(nil), a.children...)
}

// Len returns the number of direct children.
func (a *Ambassador) Len() int {
	return len(a.children)
}

// Child returns the direct child named name.
func (a *Ambassador) Child(name string) (Property, bool) {
	idx := a.indexOf(name)
	if idx < 0 {
		return nil, false
	}
	return a.children[idx], true
}

func (a *Ambassador) indexOf(name string) int {
	for i, child := range a.children {
		if child.HasName(name) {
			return i
		}
	}
	return -1
}

// GetProperty resolves a slash separated path. A leading "/" starts from the
// root; otherwise resolution starts here. An empty path yields the
// ambassador itself.
func (a *Ambassador) GetProperty(path string) (Property, error) {
	start := a
	if strings.HasPrefix(path, "/") {
		start = a.Root()
		path = strings.TrimLeft(path, "/")
	}
	return start.Traverse(SplitPath(path))
}

// HasProperty reports whether path resolves.
func (a *Ambassador) HasProperty(path string) bool {
	_, err := a.GetProperty(path)
	return err == nil
}

// Traverse walks segments starting at a. "." stays in place, ".." moves to
// the owner and any other segment selects a direct child by name. Composite
// children are descended into; a leaf followed by further segments fails
// with PathNotAComposite. Empty segments are ignored.
func (a *Ambassador) Traverse(segments []string) (Property, error) {
	current := a
	var result Property = a.self
	leaf := false
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if leaf {
			return nil, newPathError(PathNotAComposite, segments, segment, current)
		}
		switch segment {
		case ".":
		case "..":
			if current.owner == nil {
				return nil, newPathError(PathEscapedRoot, segments, segment, current)
			}
			current = current.owner
			result = current.self
		default:
			child, ok := current.Child(segment)
			if !ok {
				return nil, newPathError(PathNotFound, segments, segment, current)
			}
			result = child
			if composite, ok := child.(Composite); ok {
				current = composite.AsAmbassador()
			} else {
				leaf = true
			}
		}
	}
	return result, nil
}

// Root walks owner references up to the top of the tree.
func (a *Ambassador) Root() *Ambassador {
	current := a
	for current.owner != nil {
		current = current.owner
	}
	return current
}

// IsDirty reports whether unacknowledged changes exist.
func (a *Ambassador) IsDirty() bool {
	return a.dirty
}

func (a *Ambassador) setDirty(dirty bool) {
	a.dirty = dirty
}

// Clean clears the dirty flag and publishes one tree change with an empty
// path. Call it once an external load has completed.
func (a *Ambassador) Clean() {
	a.setDirty(false)
	a.publish("")
}

// OnChange subscribes fn to the "tree changed" event. fn receives the path of
// the change relative to a; an empty path denotes a commit or clean.
func (a *Ambassador) OnChange(fn func(path string)) *Subscription {
	return a.changed.Subscribe(fn)
}

// Observe implements Property; composites report every tree change.
func (a *Ambassador) Observe(fn func()) *Subscription {
	return a.changed.Subscribe(func(string) { fn() })
}

func (a *Ambassador) publish(path string) {
	a.changed.Publish(path)
	a.logChange(path)
	a.emitChange(path)
}

// ValueType implements Property.
func (a *Ambassador) ValueType() TypeTag {
	return TypeOf[*Ambassador]()
}

// Raw implements Property and returns Snapshot(a).
func (a *Ambassador) Raw() any {
	return Snapshot(a)
}

// String renders the subtree as a JSON object.
func (a *Ambassador) String() string {
	buf, err := json.Marshal(Snapshot(a))
	if err != nil {
		return "{}"
	}
	return string(buf)
}

// FromString applies a JSON object produced by String.
func (a *Ambassador) FromString(s string) error {
	payload, err := decodePayload(s)
	if err != nil {
		return wrapParseError(a.self, s, err)
	}
	return Apply(a, payload)
}

// Store forwards every child to pm under namespace + name + ".".
func (a *Ambassador) Store(pm PersistentManager, namespace string) error {
	prefix := namespace + a.name + "."
	for _, child := range a.children {
		if err := child.Store(pm, prefix); err != nil {
			return err
		}
	}
	return nil
}

// Load reads every child from pm under namespace + name + ".".
func (a *Ambassador) Load(pm PersistentManager, namespace string) error {
	prefix := namespace + a.name + "."
	for _, child := range a.children {
		if err := child.Load(pm, prefix); err != nil {
			return err
		}
	}
	return nil
}

// SplitPath splits a slash separated path into segments, dropping empty ones.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// PathOf returns the absolute slash path of p ("/" for a root, the bare name
// for a detached leaf).
func PathOf(p Property) string {
	if p == nil {
		return ""
	}
	var segments []string
	current := p
	for current.Owner() != nil {
		segments = append(segments, current.Name())
		current = current.Owner().self
	}
	if len(segments) == 0 {
		if _, ok := p.(Composite); ok {
			return "/"
		}
		return p.Name()
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return "/" + strings.Join(segments, "/")
}
