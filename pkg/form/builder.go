package form

import (
	"github.com/goliatone/go-jsonform/pkg/element"
)

// Builder assembles a form fluently. The first construction error is kept and
// returned by Build; later calls become no-ops.
//
//	f, err := form.NewBuilder("contact").
//		Method(http.MethodPost).
//		Action("contact_submit", nil).
//		String("name", "Name", element.Required()).
//		Collection("address", "Address", func(b *form.Builder) {
//			b.String("city", "City")
//		}).
//		Build()
type Builder struct {
	name     string
	method   string
	action   Action
	elements []element.Element
	err      error
}

// NewBuilder starts a form named name with method POST.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Method sets the form method.
func (b *Builder) Method(method string) *Builder {
	b.method = method
	return b
}

// Action sets the submission route and its parameters.
func (b *Builder) Action(route string, parameters map[string]any) *Builder {
	b.action = NewAction(route, parameters)
	return b
}

// Add appends an already constructed element.
func (b *Builder) Add(el element.Element) *Builder {
	if b.err != nil {
		return b
	}
	b.elements = append(b.elements, el)
	return b
}

func add[T element.Element](b *Builder, el T, err error) *Builder {
	if b.err != nil {
		return b
	}
	if err != nil {
		b.err = err
		return b
	}
	return b.Add(el)
}

func (b *Builder) String(name, label string, opts ...element.Option) *Builder {
	el, err := element.NewString(name, label, opts...)
	return add(b, el, err)
}

func (b *Builder) Password(name, label string, opts ...element.Option) *Builder {
	el, err := element.NewPassword(name, label, opts...)
	return add(b, el, err)
}

func (b *Builder) Number(name, label string, opts ...element.Option) *Builder {
	el, err := element.NewNumber(name, label, opts...)
	return add(b, el, err)
}

func (b *Builder) Bool(name, label string, opts ...element.Option) *Builder {
	el, err := element.NewBool(name, label, opts...)
	return add(b, el, err)
}

func (b *Builder) Date(name, label string, opts ...element.Option) *Builder {
	el, err := element.NewDate(name, label, opts...)
	return add(b, el, err)
}

func (b *Builder) DateTime(name, label string, opts ...element.Option) *Builder {
	el, err := element.NewDateTime(name, label, opts...)
	return add(b, el, err)
}

func (b *Builder) Hidden(name string, opts ...element.Option) *Builder {
	el, err := element.NewHidden(name, opts...)
	return add(b, el, err)
}

func (b *Builder) Label(name, label string, opts ...element.Option) *Builder {
	el, err := element.NewLabel(name, label, opts...)
	return add(b, el, err)
}

func (b *Builder) File(name, label string, opts ...element.Option) *Builder {
	el, err := element.NewFile(name, label, opts...)
	return add(b, el, err)
}

func (b *Builder) Array(name, label string, options element.Choices, opts ...element.Option) *Builder {
	el, err := element.NewArray(name, label, options, opts...)
	return add(b, el, err)
}

func (b *Builder) Autocomplete(name, label, route string, opts ...element.Option) *Builder {
	el, err := element.NewAutocomplete(name, label, route, opts...)
	return add(b, el, err)
}

// Collection adds a nested group whose children are declared by build.
func (b *Builder) Collection(name, label string, build func(*Builder), opts ...element.Option) *Builder {
	children, err := b.nested(build)
	if err != nil {
		return add[*element.Collection](b, nil, err)
	}
	el, err := element.NewCollection(name, label, children, opts...)
	return add(b, el, err)
}

// PrototypeCollection adds a repeatable group whose prototype is declared by
// build.
func (b *Builder) PrototypeCollection(name, label string, build func(*Builder), opts ...element.Option) *Builder {
	children, err := b.nested(build)
	if err != nil {
		return add[*element.PrototypeCollection](b, nil, err)
	}
	el, err := element.NewPrototypeCollection(name, label, children, opts...)
	return add(b, el, err)
}

func (b *Builder) nested(build func(*Builder)) ([]element.Element, error) {
	child := &Builder{}
	if build != nil {
		build(child)
	}
	return child.elements, child.err
}

// Err returns the first construction error.
func (b *Builder) Err() error { return b.err }

// Build returns the form, or the first error met while building it,
// including duplicate names.
func (b *Builder) Build() (*Form, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.name, b.method, b.action, b.elements...)
}
