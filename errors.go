package props

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyName indicates a property was constructed without a name.
	ErrEmptyName = errors.New("props: property name must not be empty")
	// ErrNilProperty indicates a nil property was passed where one is required.
	ErrNilProperty = errors.New("props: property is nil")
	// ErrAlreadyOwned indicates a property that already belongs to another
	// model was added to a second one.
	ErrAlreadyOwned = errors.New("props: property already has an owner")
	// ErrCycle indicates a model was added below itself.
	ErrCycle = errors.New("props: property would own one of its ancestors")
	// ErrNoOwner indicates a link was resolved before being attached to a tree.
	ErrNoOwner = errors.New("props: link has no owning ambassador")
	// ErrNullListener indicates RegisterListener received a nil listener.
	ErrNullListener = errors.New("props: listener is nil")

	// ErrEscapedRoot matches PathError values of kind PathEscapedRoot.
	ErrEscapedRoot = errors.New("props: path escapes the root")
	// ErrNotFound matches PathError values of kind PathNotFound.
	ErrNotFound = errors.New("props: property not found")
	// ErrNotAComposite matches PathError values of kind PathNotAComposite.
	ErrNotAComposite = errors.New("props: property is not a composite")
)

// PathErrorKind classifies traversal failures.
type PathErrorKind int

const (
	// PathEscapedRoot reports a ".." segment evaluated at the root.
	PathEscapedRoot PathErrorKind = iota + 1
	// PathNotFound reports a segment naming no direct child.
	PathNotFound
	// PathNotAComposite reports segments remaining after a leaf.
	PathNotAComposite
)

func (k PathErrorKind) String() string {
	switch k {
	case PathEscapedRoot:
		return "escaped root"
	case PathNotFound:
		return "not found"
	case PathNotAComposite:
		return "not a composite"
	default:
		return "unknown"
	}
}

// PathError describes where a traversal stopped.
type PathError struct {
	Kind    PathErrorKind
	Path    string
	Segment string
	At      string
}

func (e *PathError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("props: path %q: %s at segment %q (from %s)", e.Path, e.Kind, e.Segment, describeLocation(e.At))
}

// Is lets errors.Is match the kind sentinels.
func (e *PathError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrEscapedRoot:
		return e.Kind == PathEscapedRoot
	case ErrNotFound:
		return e.Kind == PathNotFound
	case ErrNotAComposite:
		return e.Kind == PathNotAComposite
	}
	return false
}

func describeLocation(at string) string {
	if at == "" {
		return "<detached>"
	}
	return at
}

// TypeMismatchError reports a typed access against a property holding a
// different value type.
type TypeMismatchError struct {
	Property string
	Want     TypeTag
	Got      TypeTag
}

func (e *TypeMismatchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("props: property %q holds %s, requested %s", e.Property, e.Got, e.Want)
}

// ParseError reports a FromString input that cannot be converted.
type ParseError struct {
	Property string
	Type     TypeTag
	Input    string
	Err      error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("props: property %q: cannot parse %q as %s: %v", e.Property, e.Input, e.Type, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError reports a hint validator rejecting a property value.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("props: validation failed for %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapParseError(p Property, input string, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return err
	}
	return &ParseError{
		Property: p.Name(),
		Type:     p.ValueType(),
		Input:    input,
		Err:      err,
	}
}

func newPathError(kind PathErrorKind, path []string, segment string, at *Ambassador) *PathError {
	location := ""
	if at != nil {
		location = PathOf(at.self)
	}
	return &PathError{
		Kind:    kind,
		Path:    strings.Join(path, "/"),
		Segment: segment,
		At:      location,
	}
}
