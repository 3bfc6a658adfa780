// Package factory creates properties from type descriptors. A descriptor is
// an opaque name looked up verbatim in a Registry; it is never parsed.
package factory

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	props "github.com/goliatone/go-props"
)

var (
	// ErrUnknownDescriptor indicates Create received an unregistered descriptor.
	ErrUnknownDescriptor = errors.New("factory: unknown type descriptor")
	// ErrDuplicateDescriptor indicates a descriptor was registered twice.
	ErrDuplicateDescriptor = errors.New("factory: descriptor already registered")
)

// Constructor builds a property holding the zero value of its type.
type Constructor func(name string, opts ...props.Option) (props.Property, error)

// Registry maps descriptors to constructors. It is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry returns a registry preloaded with the built-in descriptors:
// int, float, bool, string, duration, strings and model.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for descriptor, ctor := range builtins() {
		r.constructors[descriptor] = ctor
	}
	return r
}

// NewEmptyRegistry returns a registry without descriptors.
func NewEmptyRegistry() *Registry {
	return &Registry{constructors: map[string]Constructor{}}
}

// Register adds ctor under descriptor.
func (r *Registry) Register(descriptor string, ctor Constructor) error {
	if descriptor == "" {
		return fmt.Errorf("factory: descriptor must not be empty")
	}
	if ctor == nil {
		return fmt.Errorf("factory: constructor for %q is nil", descriptor)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.constructors[descriptor]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateDescriptor, descriptor)
	}
	r.constructors[descriptor] = ctor
	return nil
}

// Descriptors returns the registered descriptors sorted alphabetically.
func (r *Registry) Descriptors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.constructors))
	for descriptor := range r.constructors {
		out = append(out, descriptor)
	}
	sort.Strings(out)
	return out
}

// Create builds a property named name for descriptor. A non-empty
// defaultValue is applied through FromString.
func (r *Registry) Create(name, descriptor, defaultValue string, opts ...props.Option) (props.Property, error) {
	r.mu.RLock()
	ctor, ok := r.constructors[descriptor]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDescriptor, descriptor)
	}
	p, err := ctor(name, opts...)
	if err != nil {
		return nil, err
	}
	if defaultValue == "" {
		return p, nil
	}
	if err := p.FromString(defaultValue); err != nil {
		return nil, err
	}
	return p, nil
}

// Spec declares one property of a tree built by Build.
type Spec struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Link        string `json:"link,omitempty" yaml:"link,omitempty"`
	Children    []Spec `json:"children,omitempty" yaml:"children,omitempty"`
}

// Build creates a model named name holding one property per spec. Specs with
// a Link become links; specs with children become nested models.
func (r *Registry) Build(name string, specs []Spec, opts ...props.Option) (*props.Model, error) {
	m, err := props.NewModel(name, opts...)
	if err != nil {
		return nil, err
	}
	for _, spec := range specs {
		p, err := r.fromSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("factory: %s/%s: %w", name, spec.Name, err)
		}
		if _, err := m.AddProperty(p); err != nil {
			return nil, fmt.Errorf("factory: %s/%s: %w", name, spec.Name, err)
		}
	}
	return m, nil
}

func (r *Registry) fromSpec(spec Spec) (props.Property, error) {
	var opts []props.Option
	if spec.Label != "" {
		opts = append(opts, props.WithLabel(spec.Label))
	}
	if spec.Description != "" {
		opts = append(opts, props.WithDescription(spec.Description))
	}
	switch {
	case spec.Link != "":
		return props.NewLink(spec.Name, spec.Link, opts...)
	case len(spec.Children) > 0:
		return r.Build(spec.Name, spec.Children, opts...)
	default:
		return r.Create(spec.Name, spec.Type, spec.Default, opts...)
	}
}

func builtins() map[string]Constructor {
	return map[string]Constructor{
		"int": func(name string, opts ...props.Option) (props.Property, error) {
			return props.NewInt(name, 0, opts...)
		},
		"float": func(name string, opts ...props.Option) (props.Property, error) {
			return props.NewFloat(name, 0, opts...)
		},
		"bool": func(name string, opts ...props.Option) (props.Property, error) {
			return props.NewBool(name, false, opts...)
		},
		"string": func(name string, opts ...props.Option) (props.Property, error) {
			return props.NewString(name, "", opts...)
		},
		"duration": func(name string, opts ...props.Option) (props.Property, error) {
			return props.NewDuration(name, 0, opts...)
		},
		"strings": func(name string, opts ...props.Option) (props.Property, error) {
			return props.NewStrings(name, nil, opts...)
		},
		"model": func(name string, opts ...props.Option) (props.Property, error) {
			return props.NewModel(name, opts...)
		},
	}
}
