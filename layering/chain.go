package layering

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	props "github.com/goliatone/go-props"
	"github.com/goliatone/go-props/internal/flatten"
)

// Layer is one scope's contribution to the effective configuration.
type Layer struct {
	Scope      Scope
	Payload    map[string]any
	SnapshotID string
}

// Chain is an ordered sequence of layers, strongest first.
type Chain struct {
	ordered []Layer
}

// NewChain drops layers with an unknown level, keeps the first layer for
// each scope identifier and orders the rest from strongest to weakest.
// Peers keep their relative order.
func NewChain(layers ...Layer) Chain {
	filtered := make([]Layer, 0, len(layers))
	seen := map[string]struct{}{}
	for _, layer := range layers {
		if layer.Scope.Level == LevelUnknown {
			continue
		}
		id := layer.Scope.Identifier()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		filtered = append(filtered, layer)
	}
	slices.SortStableFunc(filtered, func(a, b Layer) int {
		return int(b.Scope.Level) - int(a.Scope.Level)
	})
	return Chain{ordered: filtered}
}

// Ordered returns a copy of the layers, strongest first.
func (c Chain) Ordered() []Layer {
	return append([]Layer(nil), c.ordered...)
}

// Len reports the number of layers.
func (c Chain) Len() int {
	return len(c.ordered)
}

// Strongest returns the highest precedence layer.
func (c Chain) Strongest() (Layer, bool) {
	if len(c.ordered) == 0 {
		return Layer{}, false
	}
	return c.ordered[0], true
}

// Weakest returns the lowest precedence layer.
func (c Chain) Weakest() (Layer, bool) {
	if len(c.ordered) == 0 {
		return Layer{}, false
	}
	return c.ordered[len(c.ordered)-1], true
}

// Merge returns the effective payload of the chain.
func (c Chain) Merge() map[string]any {
	payloads := make([]map[string]any, len(c.ordered))
	for i, layer := range c.ordered {
		payloads[i] = layer.Payload
	}
	return Merge(payloads...)
}

// Apply writes the effective payload into the tree below a. The tree
// publishes a single commit for the whole chain.
func (c Chain) Apply(a *props.Ambassador) error {
	if err := props.Apply(a, c.Merge()); err != nil {
		return fmt.Errorf("layering: apply %d layers: %w", len(c.ordered), err)
	}
	return nil
}

// Trace reports how every layer contributes to the slash path.
type Trace struct {
	Path   string       `json:"path"`
	Layers []Provenance `json:"layers"`
}

// Provenance is a single layer's contribution to a traced path.
type Provenance struct {
	Scope      Scope  `json:"scope"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Value      any    `json:"value,omitempty"`
	Found      bool   `json:"found"`
}

// Trace looks path up in every layer, strongest first.
func (c Chain) Trace(path string) Trace {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	trace := Trace{Path: path, Layers: make([]Provenance, 0, len(c.ordered))}
	for _, layer := range c.ordered {
		entry := Provenance{Scope: layer.Scope, SnapshotID: layer.SnapshotID}
		if value, ok := flatten.Lookup(layer.Payload, segments); ok && value != nil {
			entry.Value = value
			entry.Found = true
		}
		trace.Layers = append(trace.Layers, entry)
	}
	return trace
}

// Effective returns the winning contribution, if any layer sets the path.
func (t Trace) Effective() (Provenance, bool) {
	for _, entry := range t.Layers {
		if entry.Found {
			return entry, true
		}
	}
	return Provenance{}, false
}

// ToJSON renders the trace for logs and transport.
func (t Trace) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}
