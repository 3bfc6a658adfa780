// Package signal provides a typed publish/subscribe channel scoped to a single
// owner. Delivery is synchronous and follows subscription order.
package signal

import "sync"

// Subscription is the token returned by Subscribe. Unsubscribe detaches the
// handler; calling it more than once is a no-op.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// NewSubscription wraps cancel in a Subscription token.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Unsubscribe detaches the handler behind the token.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

type handler[T any] struct {
	fn      func(T)
	removed bool
}

// Signal fans a value out to its subscribers. The zero value is ready to use.
// A Signal is not safe for concurrent use.
type Signal[T any] struct {
	handlers []*handler[T]
}

// Subscribe appends fn to the subscriber list.
func (s *Signal[T]) Subscribe(fn func(T)) *Subscription {
	h := &handler[T]{fn: fn}
	s.handlers = append(s.handlers, h)
	return NewSubscription(func() {
		h.removed = true
		for i, candidate := range s.handlers {
			if candidate == h {
				s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
				return
			}
		}
	})
}

// Publish calls every subscriber with value. Handlers iterate over a snapshot
// taken before the first call, so subscribing from inside a handler takes
// effect on the next Publish. Handlers removed mid-delivery are skipped.
func (s *Signal[T]) Publish(value T) {
	if len(s.handlers) == 0 {
		return
	}
	snapshot := append([]*handler[T](nil), s.handlers...)
	for _, h := range snapshot {
		if h.removed || h.fn == nil {
			continue
		}
		h.fn(value)
	}
}

// Len reports the number of active subscribers.
func (s *Signal[T]) Len() int {
	return len(s.handlers)
}
