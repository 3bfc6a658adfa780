package props

import "github.com/goliatone/go-props/internal/signal"

// Subscription is the token returned by every subscribe-style call.
// Unsubscribe detaches the callback and is safe to call repeatedly.
type Subscription = signal.Subscription

// Property is the named, type-erased unit of a tree. Implementations are the
// types in this package: Value, Model, Link, Delegate and ConverterDelegate.
type Property interface {
	// Name returns the name the property was constructed with.
	Name() string
	// HasName reports whether name equals Name().
	HasName(name string) bool
	// MakesDirty reports whether a change counts toward the owner's dirty flag.
	MakesDirty() bool
	// String renders the current value.
	String() string
	// FromString parses s and stores the result, failing with *ParseError.
	FromString(s string) error
	// ValueType identifies the stored value type.
	ValueType() TypeTag
	// Raw returns the current value without static typing.
	Raw() any
	// Hint returns a copy of the attached metadata (zero when none).
	Hint() Hint
	// EditHint returns the attached metadata, creating it on first use.
	EditHint() *Hint
	// Owner returns the owning ambassador, nil while detached.
	Owner() *Ambassador
	// Observe subscribes fn to the property's change stream.
	Observe(fn func()) *Subscription
	// Store forwards the property to pm under namespace.
	Store(pm PersistentManager, namespace string) error
	// Load reads the property back from pm under namespace.
	Load(pm PersistentManager, namespace string) error

	base() *node
}

// Composite is implemented by properties that own children.
type Composite interface {
	Property
	AsAmbassador() *Ambassador
}

// Option configures a property at construction time.
type Option func(*config)

type config struct {
	makesDirty bool
	hint       *Hint
	logger     TreeLogger
	activity   activityEmitter
}

func applyOptions(opts []Option) config {
	cfg := config{makesDirty: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithMakesDirty controls whether changes count toward the owner's dirty
// flag. Properties make their owner dirty unless configured otherwise.
func WithMakesDirty(makesDirty bool) Option {
	return func(cfg *config) {
		cfg.makesDirty = makesDirty
	}
}

// WithHint attaches a copy of hint to the property.
func WithHint(hint Hint) Option {
	return func(cfg *config) {
		cloned := hint.clone()
		cfg.hint = &cloned
	}
}

// WithLabel sets the hint label.
func WithLabel(label string) Option {
	return func(cfg *config) {
		cfg.ensureHint().Label = label
	}
}

// WithDescription sets the hint description.
func WithDescription(description string) Option {
	return func(cfg *config) {
		cfg.ensureHint().Description = description
	}
}

// WithValidator appends a validator to the hint.
func WithValidator(v Validator) Option {
	return func(cfg *config) {
		cfg.ensureHint().AddValidator(v)
	}
}

func (cfg *config) ensureHint() *Hint {
	if cfg.hint == nil {
		cfg.hint = &Hint{}
	}
	return cfg.hint
}

// node carries the state shared by every Property implementation.
type node struct {
	name       string
	makesDirty bool
	hint       *Hint
	owner      *Ambassador
}

func newNode(name string, cfg config) (node, error) {
	if name == "" {
		return node{}, ErrEmptyName
	}
	return node{
		name:       name,
		makesDirty: cfg.makesDirty,
		hint:       cfg.hint,
	}, nil
}

func (n *node) Name() string {
	return n.name
}

func (n *node) HasName(name string) bool {
	return n.name == name
}

func (n *node) MakesDirty() bool {
	return n.makesDirty
}

func (n *node) Hint() Hint {
	if n.hint == nil {
		return Hint{}
	}
	return n.hint.clone()
}

func (n *node) EditHint() *Hint {
	if n.hint == nil {
		n.hint = &Hint{}
	}
	return n.hint
}

func (n *node) Owner() *Ambassador {
	return n.owner
}

func (n *node) base() *node {
	return n
}
