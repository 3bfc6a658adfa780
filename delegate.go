package props

import (
	"errors"

	"github.com/goliatone/go-props/internal/signal"
)

var errDelegateAccessors = errors.New("props: delegate requires getter and setter")

// Delegate is a property whose storage lives on a foreign object, reached
// through a getter and a setter. Set forwards to the setter and publishes
// nothing itself; any notification comes from whatever the setter mutates.
type Delegate[T any] struct {
	node
	get     func() T
	set     func(T)
	codec   Codec[T]
	changed signal.Signal[T]
}

// NewDelegate constructs a delegate over get/set.
func NewDelegate[T any](name string, get func() T, set func(T), codec Codec[T], opts ...Option) (*Delegate[T], error) {
	if get == nil || set == nil {
		return nil, errDelegateAccessors
	}
	if codec == nil {
		codec = JSONCodec[T]()
	}
	n, err := newNode(name, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return &Delegate[T]{node: n, get: get, set: set, codec: codec}, nil
}

// DelegateTo builds a delegate over another accessor's Get and Set. The
// delegate does not subscribe to target; observe the target itself to follow
// its changes.
func DelegateTo[T any](name string, target Accessor[T], codec Codec[T], opts ...Option) (*Delegate[T], error) {
	if target == nil {
		return nil, errDelegateAccessors
	}
	return NewDelegate(name, target.Get, target.Set, codec, opts...)
}

// Get implements Accessor.
func (d *Delegate[T]) Get() T {
	return d.get()
}

// Set implements Accessor.
func (d *Delegate[T]) Set(value T) {
	d.set(value)
}

// Touch announces a foreign change to the delegate's subscribers.
func (d *Delegate[T]) Touch() {
	d.changed.Publish(d.get())
}

// Subscribe implements Accessor.
func (d *Delegate[T]) Subscribe(fn func(T)) *Subscription {
	return d.changed.Subscribe(fn)
}

// Observe implements Property.
func (d *Delegate[T]) Observe(fn func()) *Subscription {
	return d.changed.Subscribe(func(T) { fn() })
}

// CompareToString implements Accessor.
func (d *Delegate[T]) CompareToString(s string) bool {
	parsed, err := d.codec.Parse(s)
	if err != nil {
		return false
	}
	return d.codec.Format(parsed) == d.codec.Format(d.get())
}

func (d *Delegate[T]) String() string {
	return d.codec.Format(d.get())
}

// FromString implements Property.
func (d *Delegate[T]) FromString(s string) error {
	parsed, err := d.codec.Parse(s)
	if err != nil {
		return wrapParseError(d, s, err)
	}
	d.set(parsed)
	return nil
}

// ValueType implements Property.
func (d *Delegate[T]) ValueType() TypeTag {
	return TypeOf[T]()
}

// Raw implements Property.
func (d *Delegate[T]) Raw() any {
	return d.get()
}

// Store implements Property.
func (d *Delegate[T]) Store(pm PersistentManager, namespace string) error {
	return pm.StoreProperty(d, namespace)
}

// Load implements Property.
func (d *Delegate[T]) Load(pm PersistentManager, namespace string) error {
	return pm.LoadProperty(d, namespace)
}

// ConverterDelegate is a delegate that only speaks strings: format renders
// the foreign value and parse writes it back.
type ConverterDelegate struct {
	node
	format  func() string
	parse   func(string) error
	changed signal.Signal[string]
}

// NewConverterDelegate constructs a string-converting delegate.
func NewConverterDelegate(name string, format func() string, parse func(string) error, opts ...Option) (*ConverterDelegate, error) {
	if format == nil || parse == nil {
		return nil, errDelegateAccessors
	}
	n, err := newNode(name, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return &ConverterDelegate{node: n, format: format, parse: parse}, nil
}

func (c *ConverterDelegate) String() string {
	return c.format()
}

// FromString forwards s to the parse closure.
func (c *ConverterDelegate) FromString(s string) error {
	if err := c.parse(s); err != nil {
		return wrapParseError(c, s, err)
	}
	return nil
}

// CompareToString compares s with the current string form.
func (c *ConverterDelegate) CompareToString(s string) bool {
	return c.format() == s
}

// Touch announces a foreign change to observers.
func (c *ConverterDelegate) Touch() {
	c.changed.Publish(c.format())
}

// ValueType implements Property.
func (c *ConverterDelegate) ValueType() TypeTag {
	return TypeOf[string]()
}

// Raw implements Property.
func (c *ConverterDelegate) Raw() any {
	return c.format()
}

// Observe implements Property.
func (c *ConverterDelegate) Observe(fn func()) *Subscription {
	return c.changed.Subscribe(func(string) { fn() })
}

// Store implements Property.
func (c *ConverterDelegate) Store(pm PersistentManager, namespace string) error {
	return pm.StoreProperty(c, namespace)
}

// Load implements Property.
func (c *ConverterDelegate) Load(pm PersistentManager, namespace string) error {
	return pm.LoadProperty(c, namespace)
}
