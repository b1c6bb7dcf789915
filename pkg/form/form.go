package form

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// Action is the submission target of a form: a route name plus static route
// parameters.
type Action struct {
	Route      string
	Parameters map[string]any
}

// NewAction returns an Action.
func NewAction(route string, parameters map[string]any) Action {
	return Action{Route: route, Parameters: parameters}
}

// Descriptor renders the action as `{route, parameters}`; parameters are
// null when none were given.
func (a Action) Descriptor() *element.Descriptor {
	var parameters any
	if a.Parameters != nil {
		parameters = a.Parameters
	}
	return element.NewDescriptor().
		Set("route", a.Route).
		Set("parameters", parameters)
}

// Form is the root of an element tree. It is built for one render or handle
// call and discarded afterwards.
type Form struct {
	name     string
	method   string
	action   Action
	elements *element.Registry
}

// New builds a form. The method is upper-cased; an empty method means POST.
func New(name, method string, action Action, elements ...element.Element) (*Form, error) {
	registry, err := element.NewRegistry(elements...)
	if err != nil {
		return nil, err
	}
	return &Form{
		name:     name,
		method:   normaliseMethod(method),
		action:   action,
		elements: registry,
	}, nil
}

func (f *Form) Name() string                { return f.name }
func (f *Form) Method() string              { return f.method }
func (f *Form) Action() Action              { return f.action }
func (f *Form) Elements() *element.Registry { return f.elements }

// Add registers more top-level elements.
func (f *Form) Add(elements ...element.Element) error {
	return f.elements.Add(elements...)
}

// Render renders every element against bag and wraps the result as
// `{name, method, action, elements}`.
func (f *Form) Render(bag map[string]any) (*element.Descriptor, error) {
	elements, err := f.elements.Render(bag)
	if err != nil {
		return nil, err
	}
	return element.NewDescriptor().
		Set("name", f.name).
		Set("method", f.method).
		Set("action", f.action.Descriptor()).
		Set("elements", elements), nil
}

func normaliseMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return http.MethodPost
	}
	return method
}
