package activity

import (
	"context"
	"sync"
)

// CaptureHook keeps every event it is notified of. Err, when set, is
// returned from each Notify.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
	Err    error
}

// Notify implements Hook.
func (c *CaptureHook) Notify(_ context.Context, event Event) error {
	c.mu.Lock()
	c.Events = append(c.Events, event.Normalize())
	c.mu.Unlock()
	return c.Err
}

// Verbs lists captured verbs in arrival order.
func (c *CaptureHook) Verbs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.Events))
	for _, event := range c.Events {
		out = append(out, event.Verb)
	}
	return out
}

// Last returns the most recent event.
func (c *CaptureHook) Last() (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Events) == 0 {
		return Event{}, false
	}
	return c.Events[len(c.Events)-1], true
}

// Reset forgets captured events.
func (c *CaptureHook) Reset() {
	c.mu.Lock()
	c.Events = nil
	c.mu.Unlock()
}
