package element

import "reflect"

// String is a single line text input.
type String struct {
	base
}

// NewString builds a string element.
func NewString(name, label string, opts ...Option) (*String, error) {
	b, err := newBase(KindString, name, label, newSettings(opts))
	if err != nil {
		return nil, err
	}
	return &String{base: b}, nil
}

func (e *String) Render(value any) (*Descriptor, error) {
	if value != nil && !isString(value) {
		return nil, invalidValue(e.name, value)
	}
	return e.header().
		Set("readonly", e.readonly).
		Set("required", e.required).
		Set("value", value), nil
}

// Password is a masked text input.
type Password struct {
	base
}

// NewPassword builds a password element.
func NewPassword(name, label string, opts ...Option) (*Password, error) {
	b, err := newBase(KindPassword, name, label, newSettings(opts))
	if err != nil {
		return nil, err
	}
	return &Password{base: b}, nil
}

func (e *Password) Render(value any) (*Descriptor, error) {
	if value != nil && !isString(value) {
		return nil, invalidValue(e.name, value)
	}
	return e.header().
		Set("readonly", e.readonly).
		Set("required", e.required).
		Set("value", value), nil
}

// Bool is a checkbox.
type Bool struct {
	base
}

// NewBool builds a bool element.
func NewBool(name, label string, opts ...Option) (*Bool, error) {
	b, err := newBase(KindBool, name, label, newSettings(opts))
	if err != nil {
		return nil, err
	}
	return &Bool{base: b}, nil
}

func (e *Bool) Render(value any) (*Descriptor, error) {
	if value != nil && reflect.ValueOf(value).Kind() != reflect.Bool {
		return nil, invalidValue(e.name, value)
	}
	return e.header().
		Set("readonly", e.readonly).
		Set("required", e.required).
		Set("value", value), nil
}

// Number is a numeric input with optional bounds and step.
type Number struct {
	base
	min  *float64
	max  *float64
	step *float64
}

// NewNumber builds a number element.
func NewNumber(name, label string, opts ...Option) (*Number, error) {
	cfg := newSettings(opts)
	b, err := newBase(KindNumber, name, label, cfg)
	if err != nil {
		return nil, err
	}
	return &Number{base: b, min: cfg.min, max: cfg.max, step: cfg.step}, nil
}

// Min returns the lower bound, if any.
func (e *Number) Min() (float64, bool) { return deref(e.min) }

// Max returns the upper bound, if any.
func (e *Number) Max() (float64, bool) { return deref(e.max) }

// Step returns the increment, if any.
func (e *Number) Step() (float64, bool) { return deref(e.step) }

func (e *Number) Render(value any) (*Descriptor, error) {
	if value != nil && !isNumeric(value) {
		return nil, invalidValue(e.name, value)
	}
	return e.header().
		Set("min", optional(e.min)).
		Set("max", optional(e.max)).
		Set("step", optional(e.step)).
		Set("readonly", e.readonly).
		Set("required", e.required).
		Set("value", value), nil
}

// Hidden carries a value the user never edits, such as an identifier or a
// CSRF token.
type Hidden struct {
	base
}

// NewHidden builds a hidden element. Hidden elements have no label.
func NewHidden(name string, opts ...Option) (*Hidden, error) {
	b, err := newBase(KindHidden, name, "", newSettings(opts))
	if err != nil {
		return nil, err
	}
	return &Hidden{base: b}, nil
}

func (e *Hidden) Render(value any) (*Descriptor, error) {
	if value != nil && !isScalar(value) {
		return nil, invalidValue(e.name, value)
	}
	return e.header().
		Set("label", nil).
		Set("value", value), nil
}

// Label displays a value without submitting it.
type Label struct {
	base
}

// NewLabel builds a label element.
func NewLabel(name, label string, opts ...Option) (*Label, error) {
	b, err := newBase(KindLabel, name, label, newSettings(opts))
	if err != nil {
		return nil, err
	}
	return &Label{base: b}, nil
}

func (e *Label) Render(value any) (*Descriptor, error) {
	if value != nil && !isScalar(value) {
		return nil, invalidValue(e.name, value)
	}
	return e.header().Set("value", value), nil
}

// File is an upload input. Files are never pre-filled, so any value other
// than nil is rejected.
type File struct {
	base
}

// NewFile builds a file element.
func NewFile(name, label string, opts ...Option) (*File, error) {
	b, err := newBase(KindFile, name, label, newSettings(opts))
	if err != nil {
		return nil, err
	}
	return &File{base: b}, nil
}

func (e *File) Render(value any) (*Descriptor, error) {
	if value != nil {
		return nil, invalidValue(e.name, value)
	}
	return e.header().
		Set("required", e.required).
		Set("value", nil), nil
}

func isString(value any) bool {
	if _, ok := value.(string); ok {
		return true
	}
	if _, ok := value.(numeric); ok {
		return false
	}
	return reflect.ValueOf(value).Kind() == reflect.String
}

func optional(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func deref(value *float64) (float64, bool) {
	if value == nil {
		return 0, false
	}
	return *value, true
}
