package props

import (
	"fmt"

	"github.com/goliatone/go-props/internal/signal"
)

// Link aliases another property of the same tree by path. Nothing is cached:
// every operation resolves the path against the current owner, so replacing
// the target is observed on the next access.
type Link struct {
	node
	path    string
	changed signal.Signal[struct{}]
}

// NewLink constructs a link to path. Paths are relative to the owning model
// ("..", "." and names) unless they start with "/".
func NewLink(name, path string, opts ...Option) (*Link, error) {
	cfg := applyOptions(opts)
	n, err := newNode(name, cfg)
	if err != nil {
		return nil, err
	}
	return &Link{node: n, path: path}, nil
}

// Path returns the stored target path.
func (l *Link) Path() string {
	return l.path
}

// Resolve looks the target up through the owning ambassador.
func (l *Link) Resolve() (Property, error) {
	if l.owner == nil {
		return nil, ErrNoOwner
	}
	return l.owner.GetProperty(l.path)
}

// String renders the target value. An unresolved link renders "" and the
// failure is reported to the owner's TreeLogger; use Resolve or LinkGet to
// receive the error.
func (l *Link) String() string {
	target, ok := l.target()
	if !ok {
		return ""
	}
	return target.String()
}

// FromString forwards to the target.
func (l *Link) FromString(s string) error {
	target, err := l.Resolve()
	if err != nil {
		return err
	}
	return target.FromString(s)
}

// ValueType reports the target value type. An unresolved link reports the
// zero tag, logged like String.
func (l *Link) ValueType() TypeTag {
	target, ok := l.target()
	if !ok {
		return TypeTag{}
	}
	return target.ValueType()
}

// Raw returns the target value. An unresolved link yields nil, logged like
// String.
func (l *Link) Raw() any {
	target, ok := l.target()
	if !ok {
		return nil
	}
	return target.Raw()
}

func (l *Link) target() (Property, bool) {
	target, err := l.Resolve()
	if err == nil {
		return target, true
	}
	if l.owner != nil {
		l.owner.treeLogger().LogChange(ChangeLogEvent{
			Model: l.owner.name,
			Path:  l.name,
			Dirty: l.owner.dirty,
			Err:   fmt.Errorf("props: link %q to %q: %w", l.name, l.path, err),
		})
	}
	return nil, false
}

// Observe implements Property. Links hold no storage and never publish;
// observe the target to follow its changes.
func (l *Link) Observe(fn func()) *Subscription {
	return l.changed.Subscribe(func(struct{}) { fn() })
}

// Store is a no-op: the target persists under its own key.
func (l *Link) Store(PersistentManager, string) error {
	return nil
}

// Load is a no-op: the target loads under its own key.
func (l *Link) Load(PersistentManager, string) error {
	return nil
}

// LinkGet resolves l and reads the target as T.
func LinkGet[T any](l *Link) (T, error) {
	accessor, err := As[T](l)
	if err != nil {
		var zero T
		return zero, err
	}
	return accessor.Get(), nil
}

// LinkSet resolves l and writes value to the target.
func LinkSet[T any](l *Link, value T) error {
	accessor, err := As[T](l)
	if err != nil {
		return err
	}
	accessor.Set(value)
	return nil
}
