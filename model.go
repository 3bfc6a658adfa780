package props

// Model is the concrete composite. Each child's change stream is wired into
// the model's own "tree changed" event, so a change anywhere below surfaces
// at every ancestor with the slash-joined path relative to that ancestor.
//
// NewModel and MustModel validate the name. The zero Model is an unnamed
// root that becomes usable on its first AddProperty.
type Model struct {
	Ambassador
	wiring map[Property]*Subscription
}

// NewModel constructs an empty model.
func NewModel(name string, opts ...Option) (*Model, error) {
	cfg := applyOptions(opts)
	n, err := newNode(name, cfg)
	if err != nil {
		return nil, err
	}
	m := &Model{wiring: map[Property]*Subscription{}}
	m.Ambassador.init(m, n, cfg)
	return m, nil
}

// MustModel is NewModel for names known to be valid; it panics on error.
func MustModel(name string, opts ...Option) *Model {
	m, err := NewModel(name, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// ModelName returns the model name.
func (m *Model) ModelName() string {
	return m.name
}

// AddProperty appends p and takes ownership of it. A child with the same
// name is replaced (and detached) unless it is p itself, in which case the
// call is a no-op.
func (m *Model) AddProperty(p Property) (Property, error) {
	if p == nil {
		return nil, ErrNilProperty
	}
	if m.wiring == nil {
		m.wiring = map[Property]*Subscription{}
	}
	if m.self == nil {
		m.self = m
	}
	idx := m.indexOf(p.Name())
	if idx >= 0 && m.children[idx] == p {
		return p, nil
	}
	if p.Owner() != nil {
		return nil, ErrAlreadyOwned
	}
	if composite, ok := p.(Composite); ok {
		child := composite.AsAmbassador()
		for ancestor := &m.Ambassador; ancestor != nil; ancestor = ancestor.owner {
			if ancestor == child {
				return nil, ErrCycle
			}
		}
	}
	if idx >= 0 {
		m.detach(idx)
	}

	m.children = append(m.children, p)
	if p.MakesDirty() {
		m.setDirty(true)
	}
	p.base().owner = &m.Ambassador
	m.wiring[p] = m.wire(p)
	return p, nil
}

// Add is AddProperty keeping the concrete type of p.
func Add[P Property](m *Model, p P) (P, error) {
	if _, err := m.AddProperty(p); err != nil {
		var zero P
		return zero, err
	}
	return p, nil
}

// RemoveProperty detaches the child named name. It reports whether a child
// was removed.
func (m *Model) RemoveProperty(name string) bool {
	idx := m.indexOf(name)
	if idx < 0 {
		return false
	}
	m.detach(idx)
	return true
}

func (m *Model) detach(idx int) {
	child := m.children[idx]
	if sub, ok := m.wiring[child]; ok {
		sub.Unsubscribe()
		delete(m.wiring, child)
	}
	m.children = append(m.children[:idx:idx], m.children[idx+1:]...)
	child.base().owner = nil
}

func (m *Model) wire(child Property) *Subscription {
	name := child.Name()
	if composite, ok := child.(Composite); ok {
		return composite.AsAmbassador().OnChange(func(path string) {
			subpath := name
			if path != "" {
				subpath = name + "/" + path
			}
			m.propagate(child, subpath)
		})
	}
	return child.Observe(func() {
		m.propagate(child, name)
	})
}

func (m *Model) propagate(child Property, subpath string) {
	if child.MakesDirty() {
		m.setDirty(true)
	}
	if m.IsSuspended() {
		return
	}
	m.Notify(child)
	m.publish(subpath)
	m.setDirty(false)
}
