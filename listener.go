package props

import "reflect"

// ChangeListener receives the direct child whose subtree changed.
type ChangeListener interface {
	ReceiveChange(p Property)
}

// ChangeListenerFunc adapts a function to ChangeListener.
type ChangeListenerFunc func(p Property)

// ReceiveChange implements ChangeListener.
func (f ChangeListenerFunc) ReceiveChange(p Property) {
	if f != nil {
		f(p)
	}
}

// RegisterListener adds l to the listener set. The returned token removes it
// again; the ambassador never owns the listener. A nil listener, including
// a typed nil pointer or func, fails with ErrNullListener.
func (a *Ambassador) RegisterListener(l ChangeListener) (*Subscription, error) {
	if isNilListener(l) {
		return nil, ErrNullListener
	}
	return a.listeners.Subscribe(l.ReceiveChange), nil
}

func isNilListener(l ChangeListener) bool {
	if l == nil {
		return true
	}
	v := reflect.ValueOf(l)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// RemoveListener detaches the listener behind sub. Unknown or already
// removed tokens are ignored.
func (a *Ambassador) RemoveListener(sub *Subscription) {
	sub.Unsubscribe()
}

// Notify calls ReceiveChange(p) on every registered listener in registration
// order. Listeners registered or removed during delivery take effect on the
// next call.
func (a *Ambassador) Notify(p Property) {
	a.listeners.Publish(p)
}

// ListenerCount returns the number of registered listeners.
func (a *Ambassador) ListenerCount() int {
	return a.listeners.Len()
}
