package props

import (
	"context"
	"fmt"

	"github.com/goliatone/go-props/pkg/activity"
)

type activityEmitter interface {
	Enabled() bool
	Emit(ctx context.Context, event activity.Event) error
}

// WithActivityEmitter makes a model emit activity events for the changes and
// commits it publishes.
func WithActivityEmitter(emitter *activity.Emitter) Option {
	return func(cfg *config) {
		if emitter == nil {
			cfg.activity = nil
			return
		}
		cfg.activity = emitter
	}
}

// WithActivityHooks is WithActivityEmitter over an enabled emitter with
// default configuration.
func WithActivityHooks(hooks activity.Hooks) Option {
	return WithActivityEmitter(activity.NewEmitter(hooks, activity.Config{Enabled: true}))
}

func (a *Ambassador) activityEnabled() bool {
	return a.activity != nil && a.activity.Enabled()
}

func (a *Ambassador) emitChange(path string) {
	if !a.activityEnabled() {
		return
	}
	if path == "" {
		a.emit(path, activity.Committed(a.name))
		return
	}
	event := activity.Changed(a.name, path)
	if p, err := a.GetProperty(path); err == nil {
		event.ValueType = p.ValueType().String()
		if _, composite := p.(Composite); !composite {
			event.Value = p.Raw()
		}
	}
	a.emit(path, event)
}

func (a *Ambassador) emitFileEvent(loaded bool, file string) {
	if !a.activityEnabled() {
		return
	}
	if loaded {
		a.emit("", activity.Loaded(a.name, file))
		return
	}
	a.emit("", activity.Saved(a.name, file))
}

func (a *Ambassador) emit(path string, event activity.Event) {
	if err := a.activity.Emit(context.Background(), event); err != nil {
		a.treeLogger().LogChange(ChangeLogEvent{
			Model: a.name,
			Path:  path,
			Dirty: a.dirty,
			Err:   fmt.Errorf("props: activity %s: %w", event.Verb, err),
		})
	}
}
