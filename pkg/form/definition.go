package form

import (
	"fmt"
	"reflect"
)

// Definition is implemented by form authors. A definition is stateless: the
// form is rebuilt from it on every render and handle call.
type Definition interface {
	// Name is the form name; submitted values are addressed by it.
	Name() string
	// Method is the HTTP method the form submits with.
	Method() string
	// NewDTO returns a fresh DTO, a pointer, used when render receives none
	// and as the deserialization target.
	NewDTO() any
	// Action resolves the submission target for dto.
	Action(dto any) Action
	// Build declares the elements of the form for dto.
	Build(b *Builder, dto any) error
}

// Declaration implements Definition from plain values and functions.
type Declaration struct {
	FormName   string
	FormMethod string
	DTO        func() any
	Target     func(dto any) Action
	Elements   func(b *Builder, dto any) error
}

func (d Declaration) Name() string   { return d.FormName }
func (d Declaration) Method() string { return normaliseMethod(d.FormMethod) }

func (d Declaration) NewDTO() any {
	if d.DTO == nil {
		return &map[string]any{}
	}
	return d.DTO()
}

func (d Declaration) Action(dto any) Action {
	if d.Target == nil {
		return Action{}
	}
	return d.Target(dto)
}

func (d Declaration) Build(b *Builder, dto any) error {
	if d.Elements == nil {
		return nil
	}
	return d.Elements(b, dto)
}

// Build constructs the form of def for dto. A nil dto is replaced by
// def.NewDTO(); any other dto must have the declared type.
func Build(def Definition, dto any) (*Form, any, error) {
	if dto == nil {
		dto = def.NewDTO()
	}
	if err := checkDTO(def, dto); err != nil {
		return nil, nil, err
	}

	b := NewBuilder(def.Name()).Method(def.Method())
	action := def.Action(dto)
	b.action = action
	if err := def.Build(b, dto); err != nil {
		return nil, nil, fmt.Errorf("form: build %q: %w", def.Name(), err)
	}
	f, err := b.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("form: build %q: %w", def.Name(), err)
	}
	return f, dto, nil
}

func checkDTO(def Definition, dto any) error {
	want := reflect.TypeOf(def.NewDTO())
	got := reflect.TypeOf(dto)
	if want != got {
		return &DTOTypeError{Form: def.Name(), Want: want, Got: got}
	}
	return nil
}
