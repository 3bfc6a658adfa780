package props

import "errors"

// Validator checks a property value. Validators are consulted by Validate and
// by GUI layers; mutations never run them.
type Validator interface {
	Validate(p Property) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(p Property) error

// Validate implements Validator.
func (f ValidatorFunc) Validate(p Property) error {
	if f == nil {
		return nil
	}
	return f(p)
}

// Hint is descriptive metadata attached to a property. The core engine stores
// it but never interprets it.
type Hint struct {
	Label       string
	Description string
	Validators  []Validator
	Metadata    map[string]any
}

// AddValidator appends v, ignoring nil.
func (h *Hint) AddValidator(v Validator) {
	if v == nil {
		return
	}
	h.Validators = append(h.Validators, v)
}

// Set stores a metadata entry.
func (h *Hint) Set(key string, value any) {
	if h.Metadata == nil {
		h.Metadata = map[string]any{}
	}
	h.Metadata[key] = value
}

// Lookup returns a metadata entry.
func (h Hint) Lookup(key string) (any, bool) {
	value, ok := h.Metadata[key]
	return value, ok
}

func (h Hint) clone() Hint {
	out := Hint{
		Label:       h.Label,
		Description: h.Description,
	}
	if len(h.Validators) > 0 {
		out.Validators = append([]Validator(nil), h.Validators...)
	}
	if len(h.Metadata) > 0 {
		out.Metadata = make(map[string]any, len(h.Metadata))
		for key, value := range h.Metadata {
			out.Metadata[key] = value
		}
	}
	return out
}

// Validate runs the hint validators of p. For composites every descendant is
// checked as well; failures are joined.
func Validate(p Property) error {
	if p == nil {
		return ErrNilProperty
	}
	var errs []error
	collectValidation(p, &errs)
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func collectValidation(p Property, errs *[]error) {
	if hint := p.base().hint; hint != nil {
		for _, v := range hint.Validators {
			if err := v.Validate(p); err != nil {
				*errs = append(*errs, &ValidationError{Path: PathOf(p), Err: err})
			}
		}
	}
	if composite, ok := p.(Composite); ok {
		for _, child := range composite.AsAmbassador().children {
			collectValidation(child, errs)
		}
	}
}
