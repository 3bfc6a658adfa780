package props

import (
	"time"

	"github.com/goliatone/go-props/internal/signal"
)

// Value is a property storing a T locally.
type Value[T any] struct {
	node
	value   T
	codec   Codec[T]
	changed signal.Signal[T]
}

// NewValue constructs a Value with an explicit codec.
func NewValue[T any](name string, initial T, codec Codec[T], opts ...Option) (*Value[T], error) {
	if codec == nil {
		codec = JSONCodec[T]()
	}
	n, err := newNode(name, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return &Value[T]{node: n, value: initial, codec: codec}, nil
}

// MustValue is NewValue for names known to be valid; it panics on error.
func MustValue[T any](name string, initial T, codec Codec[T], opts ...Option) *Value[T] {
	v, err := NewValue(name, initial, codec, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// NewInt constructs an int64 property.
func NewInt(name string, initial int64, opts ...Option) (*Value[int64], error) {
	return NewValue(name, initial, IntCodec(), opts...)
}

// NewFloat constructs a float64 property.
func NewFloat(name string, initial float64, opts ...Option) (*Value[float64], error) {
	return NewValue(name, initial, FloatCodec(), opts...)
}

// NewBool constructs a bool property.
func NewBool(name string, initial bool, opts ...Option) (*Value[bool], error) {
	return NewValue(name, initial, BoolCodec(), opts...)
}

// NewString constructs a string property.
func NewString(name string, initial string, opts ...Option) (*Value[string], error) {
	return NewValue(name, initial, StringCodec(), opts...)
}

// NewDuration constructs a time.Duration property.
func NewDuration(name string, initial time.Duration, opts ...Option) (*Value[time.Duration], error) {
	return NewValue(name, initial, DurationCodec(), opts...)
}

// NewStrings constructs a []string property rendered comma separated.
func NewStrings(name string, initial []string, opts ...Option) (*Value[[]string], error) {
	return NewValue(name, append([]string(nil), initial...), StringsCodec(), opts...)
}

// NewJSON constructs a property whose string form is JSON.
func NewJSON[T any](name string, initial T, opts ...Option) (*Value[T], error) {
	return NewValue(name, initial, JSONCodec[T](), opts...)
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	return v.value
}

// Set replaces the value and notifies subscribers synchronously.
func (v *Value[T]) Set(value T) {
	v.value = value
	v.changed.Publish(value)
}

// Subscribe registers fn for value changes.
func (v *Value[T]) Subscribe(fn func(T)) *Subscription {
	return v.changed.Subscribe(fn)
}

// Observe registers fn for value changes without the value.
func (v *Value[T]) Observe(fn func()) *Subscription {
	return v.changed.Subscribe(func(T) { fn() })
}

// CompareToString parses s and compares the canonical string forms.
func (v *Value[T]) CompareToString(s string) bool {
	parsed, err := v.codec.Parse(s)
	if err != nil {
		return false
	}
	return v.codec.Format(parsed) == v.codec.Format(v.value)
}

func (v *Value[T]) String() string {
	return v.codec.Format(v.value)
}

// FromString parses s with the property codec and sets the result.
func (v *Value[T]) FromString(s string) error {
	parsed, err := v.codec.Parse(s)
	if err != nil {
		return wrapParseError(v, s, err)
	}
	v.Set(parsed)
	return nil
}

// ValueType implements Property.
func (v *Value[T]) ValueType() TypeTag {
	return TypeOf[T]()
}

// Raw implements Property.
func (v *Value[T]) Raw() any {
	return v.value
}

// Store implements Property.
func (v *Value[T]) Store(pm PersistentManager, namespace string) error {
	return pm.StoreProperty(v, namespace)
}

// Load implements Property.
func (v *Value[T]) Load(pm PersistentManager, namespace string) error {
	return pm.LoadProperty(v, namespace)
}
