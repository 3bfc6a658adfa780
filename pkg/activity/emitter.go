package activity

import (
	"context"
	"strings"
)

// DefaultChannel is applied to events emitted without a channel.
const DefaultChannel = "properties"

// Config holds the defaults an Emitter stamps onto events.
type Config struct {
	Enabled  bool
	Channel  string
	ActorID  string
	TenantID string
}

// Emitter stamps defaults onto events and forwards them to hooks.
type Emitter struct {
	hooks Hooks
	cfg   Config
}

// NewEmitter constructs an emitter. It stays disabled unless cfg.Enabled is
// set and at least one non-nil hook is supplied.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	cfg.Channel = strings.TrimSpace(cfg.Channel)
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	cfg.ActorID = strings.TrimSpace(cfg.ActorID)
	cfg.TenantID = strings.TrimSpace(cfg.TenantID)
	e := &Emitter{hooks: hooks.compact(), cfg: cfg}
	e.cfg.Enabled = cfg.Enabled && len(e.hooks) > 0
	return e
}

// Enabled reports whether Emit reaches any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled
}

// Emit fills the channel, actor and tenant the event leaves blank and
// notifies the hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	fallback(&event.Channel, e.cfg.Channel)
	fallback(&event.ActorID, e.cfg.ActorID)
	fallback(&event.TenantID, e.cfg.TenantID)
	return e.hooks.Notify(ctx, event)
}

func fallback(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}
