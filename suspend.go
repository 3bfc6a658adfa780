package props

import "sync"

// Suspension is an open batching scope returned by BeginSuspend. End closes
// it; only the outermost scope publishes.
type Suspension struct {
	once       sync.Once
	ambassador *Ambassador
}

// BeginSuspend opens a batching scope. While any scope is open, child
// changes mark the ambassador dirty but are not broadcast. Scopes nest:
//
//	defer m.BeginSuspend().End()
func (a *Ambassador) BeginSuspend() *Suspension {
	a.suspendCount++
	return &Suspension{ambassador: a}
}

// End closes the scope and commits. Calling End more than once has no
// further effect.
func (s *Suspension) End() {
	if s == nil || s.ambassador == nil {
		return
	}
	s.once.Do(func() {
		a := s.ambassador
		if a.suspendCount > 0 {
			a.suspendCount--
		}
		a.Commit()
	})
}

// IsSuspended reports whether a batching scope is open.
func (a *Ambassador) IsSuspended() bool {
	return a.suspendCount > 0
}

// Commit publishes one tree change with an empty path and clears the dirty
// flag, unless a batching scope is still open.
func (a *Ambassador) Commit() {
	if a.suspendCount > 0 {
		return
	}
	a.publish("")
	a.setDirty(false)
}

// release closes the scope without committing.
func (s *Suspension) release() {
	if s == nil || s.ambassador == nil {
		return
	}
	s.once.Do(func() {
		if s.ambassador.suspendCount > 0 {
			s.ambassador.suspendCount--
		}
	})
}
