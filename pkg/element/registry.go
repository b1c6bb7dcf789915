package element

import "errors"

var errNilElement = errors.New("element: nil element")

// Registry is an ordered set of uniquely named elements. Forms, collections
// and prototype collections each own one.
type Registry struct {
	order  []Element
	byName map[string]Element
}

// NewRegistry returns an empty registry seeded with elements. It fails on the
// first duplicate name.
func NewRegistry(elements ...Element) (*Registry, error) {
	r := &Registry{byName: make(map[string]Element)}
	if err := r.Add(elements...); err != nil {
		return nil, err
	}
	return r, nil
}

// Add appends elements in order. The batch is all or nothing: a name already
// present, in the registry or earlier in the batch, fails with
// ErrDuplicateName and registers none of elements. A nil element fails the
// same way.
func (r *Registry) Add(elements ...Element) error {
	if r.byName == nil {
		r.byName = make(map[string]Element)
	}
	batch := make(map[string]struct{}, len(elements))
	for _, el := range elements {
		if el == nil {
			return errNilElement
		}
		name := el.Name()
		_, exists := r.byName[name]
		_, repeated := batch[name]
		if exists || repeated {
			return &NameError{Name: name, Err: ErrDuplicateName}
		}
		batch[name] = struct{}{}
	}
	for _, el := range elements {
		r.byName[el.Name()] = el
		r.order = append(r.order, el)
	}
	return nil
}

// Get returns the element registered under name.
func (r *Registry) Get(name string) (Element, bool) {
	if r == nil {
		return nil, false
	}
	el, ok := r.byName[name]
	return el, ok
}

// Elements returns the registered elements in insertion order.
func (r *Registry) Elements() []Element {
	if r == nil {
		return nil
	}
	out := make([]Element, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns the registered names in insertion order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	for i, el := range r.order {
		out[i] = el.Name()
	}
	return out
}

// Len reports the number of registered elements.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Render renders every element, in insertion order, against bag[name]. A
// missing key renders as nil. The first element error is returned as is.
func (r *Registry) Render(bag map[string]any) (*Descriptor, error) {
	out := NewDescriptor()
	if r == nil {
		return out, nil
	}
	for _, el := range r.order {
		rendered, err := el.Render(bag[el.Name()])
		if err != nil {
			return nil, err
		}
		out.Set(el.Name(), rendered)
	}
	return out, nil
}
