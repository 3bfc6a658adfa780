package props

import "reflect"

// TypeTag identifies the value type carried by a property at runtime. Tags
// are comparable; the zero tag means "unknown" (for example an unresolved
// link).
type TypeTag struct {
	rt reflect.Type
}

// TypeOf returns the tag for T.
func TypeOf[T any]() TypeTag {
	return TypeTag{rt: reflect.TypeFor[T]()}
}

// IsZero reports whether the tag is unknown.
func (t TypeTag) IsZero() bool {
	return t.rt == nil
}

// Type exposes the underlying reflect.Type (nil for the zero tag).
func (t TypeTag) Type() reflect.Type {
	return t.rt
}

func (t TypeTag) String() string {
	if t.rt == nil {
		return "unknown"
	}
	return t.rt.String()
}
