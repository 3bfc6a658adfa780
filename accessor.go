package props

// Accessor is the typed read/write contract of a single value. Set delivers
// the new value to every subscriber, in subscription order, before it
// returns.
type Accessor[T any] interface {
	Get() T
	Set(value T)
	Subscribe(fn func(T)) *Subscription
	// CompareToString reports whether s denotes the current value. It never
	// fails; inputs that cannot be compared yield false.
	CompareToString(s string) bool
}

// As returns the typed accessor behind p. Links are resolved first. A
// property whose value type is not T yields *TypeMismatchError.
func As[T any](p Property) (Accessor[T], error) {
	if p == nil {
		return nil, ErrNilProperty
	}
	if link, ok := p.(*Link); ok {
		target, err := link.Resolve()
		if err != nil {
			return nil, err
		}
		p = target
	}
	want := TypeOf[T]()
	if got := p.ValueType(); got != want {
		return nil, &TypeMismatchError{Property: p.Name(), Want: want, Got: got}
	}
	accessor, ok := p.(Accessor[T])
	if !ok {
		return nil, &TypeMismatchError{Property: p.Name(), Want: want, Got: p.ValueType()}
	}
	return accessor, nil
}

// GetAs resolves path against a and returns the typed accessor found there.
func GetAs[T any](a *Ambassador, path string) (Accessor[T], error) {
	p, err := a.GetProperty(path)
	if err != nil {
		return nil, err
	}
	return As[T](p)
}

// Get reads the value at path as T.
func Get[T any](a *Ambassador, path string) (T, error) {
	accessor, err := GetAs[T](a, path)
	if err != nil {
		var zero T
		return zero, err
	}
	return accessor.Get(), nil
}

// Set writes value to the property at path.
func Set[T any](a *Ambassador, path string, value T) error {
	accessor, err := GetAs[T](a, path)
	if err != nil {
		return err
	}
	accessor.Set(value)
	return nil
}
