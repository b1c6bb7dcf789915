package element

import (
	"regexp"
)

// Kind is the discriminant emitted as the descriptor `type` field.
type Kind string

const (
	KindString              Kind = "string"
	KindNumber              Kind = "number"
	KindBool                Kind = "bool"
	KindDate                Kind = "date"
	KindDateTime            Kind = "dateTime"
	KindHidden              Kind = "hidden"
	KindLabel               Kind = "label"
	KindFile                Kind = "file"
	KindPassword            Kind = "password"
	KindArray               Kind = "array"
	KindAutocomplete        Kind = "autocomplete"
	KindCollection          Kind = "collection"
	KindPrototypeCollection Kind = "prototypeCollection"
)

// Kinds lists every element kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindString, KindNumber, KindBool, KindDate, KindDateTime, KindHidden, KindLabel,
		KindFile, KindPassword, KindArray, KindAutocomplete, KindCollection, KindPrototypeCollection,
	}
}

// Mode selects between a single value and a list of values for choice
// elements.
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeMultiple Mode = "multiple"
)

// Modes lists the accepted modes.
func Modes() []Mode { return []Mode{ModeSingle, ModeMultiple} }

// Element is one typed, named node of a form tree. The set of implementations
// is closed: every kind lives in this package.
type Element interface {
	Name() string
	Label() string
	Kind() Kind
	// Render validates value against the element rule and projects it into a
	// descriptor. A nil value is always accepted.
	Render(value any) (*Descriptor, error)

	element()
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// ValidName reports whether name is usable as an element name: one or more
// ASCII letters or digits.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

func validateName(name string) error {
	if !ValidName(name) {
		return &NameError{Name: name, Err: ErrInvalidName}
	}
	return nil
}

func validateMode(name string, mode Mode) error {
	for _, accepted := range Modes() {
		if mode == accepted {
			return nil
		}
	}
	return &ModeError{Name: name, Mode: mode, Accepted: Modes()}
}

type base struct {
	name     string
	label    string
	kind     Kind
	required bool
	readonly bool
}

func newBase(kind Kind, name, label string, cfg settings) (base, error) {
	if err := validateName(name); err != nil {
		return base{}, err
	}
	return base{
		name:     name,
		label:    label,
		kind:     kind,
		required: cfg.required,
		readonly: cfg.readonly,
	}, nil
}

func (b *base) Name() string  { return b.name }
func (b *base) Label() string { return b.label }
func (b *base) Kind() Kind    { return b.kind }

// Required reports whether the element was marked as mandatory.
func (b *base) Required() bool { return b.required }

// Readonly reports whether the element was marked as read only.
func (b *base) Readonly() bool { return b.readonly }

func (b *base) element() {}

func (b *base) header() *Descriptor {
	return NewDescriptor().
		Set("type", string(b.kind)).
		Set("name", b.name).
		Set("label", b.label)
}

// Must panics when err is non-nil. It is meant for statically known form
// trees built at init time.
func Must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}
