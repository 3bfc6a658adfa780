package props

import (
	"fmt"

	"github.com/goliatone/go-props/internal/hydrate"
)

// BindOption configures Decode.
type BindOption func(*bindConfig)

type bindConfig struct {
	strict bool
}

// BindStrict makes Decode fail when the tree holds a property that T has no
// field for.
func BindStrict() BindOption {
	return func(cfg *bindConfig) {
		cfg.strict = true
	}
}

// Decode copies the subtree below a into a new T, matching child names to
// JSON field names. When T (or *T) has a Validate() error method it is run
// on the result.
func Decode[T any](a *Ambassador, opts ...BindOption) (T, error) {
	var zero T
	if a == nil {
		return zero, ErrNilProperty
	}
	cfg := bindConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	decoderOpts := []hydrate.DecoderOption[T]{
		hydrate.WithPostHook[T](func(_ hydrate.Context, value *T) error {
			if v, ok := any(value).(interface{ Validate() error }); ok {
				return v.Validate()
			}
			return nil
		}),
	}
	if cfg.strict {
		decoderOpts = append(decoderOpts, hydrate.WithDisallowUnknownFields[T]())
	}
	value, err := hydrate.NewDecoder(decoderOpts...).Decode(bindContext(a), Snapshot(a))
	if err != nil {
		return zero, fmt.Errorf("props: decode %q: %w", a.name, err)
	}
	return value, nil
}

// Encode writes value into the subtree below a through Apply. Every field
// of value must name an existing child.
func Encode(a *Ambassador, value any) error {
	if a == nil {
		return ErrNilProperty
	}
	payload, err := hydrate.Encode(bindContext(a), value)
	if err != nil {
		return fmt.Errorf("props: encode %q: %w", a.name, err)
	}
	return Apply(a, payload)
}

func bindContext(a *Ambassador) hydrate.Context {
	return hydrate.Context{Model: a.name, Path: PathOf(a.self)}
}
