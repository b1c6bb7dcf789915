package element

// Choice is one select option, or a labelled group of options when Group is
// non-empty.
type Choice struct {
	Value string
	Label string
	Group []Choice
}

// NewChoice returns a plain option.
func NewChoice(value, label string) Choice {
	return Choice{Value: value, Label: label}
}

// NewGroup returns an option group. Groups are one level deep.
func NewGroup(label string, choices ...Choice) Choice {
	return Choice{Label: label, Group: choices}
}

// IsGroup reports whether the choice is a group.
func (c Choice) IsGroup() bool { return len(c.Group) > 0 }

// Choices is an ordered option list.
type Choices []Choice

// ChoicesFromPairs builds a flat option list from value, label pairs.
func ChoicesFromPairs(pairs ...string) Choices {
	out := make(Choices, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, NewChoice(pairs[i], pairs[i+1]))
	}
	return out
}

// Flatten returns every selectable option, groups expanded in order.
func (c Choices) Flatten() []Choice {
	out := make([]Choice, 0, len(c))
	for _, choice := range c {
		if choice.IsGroup() {
			out = append(out, choice.Group...)
			continue
		}
		out = append(out, choice)
	}
	return out
}

// Values returns the selectable option keys in order.
func (c Choices) Values() []string {
	flat := c.Flatten()
	out := make([]string, len(flat))
	for i, choice := range flat {
		out[i] = choice.Value
	}
	return out
}

// Contains reports whether key is a selectable option.
func (c Choices) Contains(key string) bool {
	for _, choice := range c.Flatten() {
		if choice.Value == key {
			return true
		}
	}
	return false
}

// Descriptor renders the options as an ordered `{value: label}` map, with
// groups nested under their label.
func (c Choices) Descriptor() *Descriptor {
	out := NewDescriptor()
	for _, choice := range c {
		if choice.IsGroup() {
			out.Set(choice.Label, Choices(choice.Group).Descriptor())
			continue
		}
		out.Set(choice.Value, choice.Label)
	}
	return out
}

// Array is a select input over a fixed option set.
type Array struct {
	base
	options Choices
	mode    Mode
}

// NewArray builds a select element. It fails with ErrInvalidMode when the
// mode is neither single nor multiple.
func NewArray(name, label string, options Choices, opts ...Option) (*Array, error) {
	cfg := newSettings(opts)
	b, err := newBase(KindArray, name, label, cfg)
	if err != nil {
		return nil, err
	}
	if err := validateMode(name, cfg.mode); err != nil {
		return nil, err
	}
	return &Array{base: b, options: options, mode: cfg.mode}, nil
}

// Options returns the option list.
func (e *Array) Options() Choices { return e.options }

// Mode returns the selection mode.
func (e *Array) Mode() Mode { return e.mode }

// Render coerces value to a list and checks every member against the option
// keys. The offending members are reported in the error.
func (e *Array) Render(value any) (*Descriptor, error) {
	var list []any
	if value != nil {
		list = asList(value)
		var unknown []any
		for _, item := range list {
			if !isScalar(item) || !e.options.Contains(KeyString(item)) {
				unknown = append(unknown, item)
			}
		}
		if len(unknown) > 0 {
			return nil, invalidValue(e.name, unknown)
		}
	}
	return e.header().
		Set("options", e.options.Descriptor()).
		Set("mode", string(e.mode)).
		Set("readonly", e.readonly).
		Set("required", e.required).
		Set("value", listOrNil(list, value)), nil
}

// Autocomplete is a remote lookup input; options are resolved by querying
// route with the typed term in parameter.
type Autocomplete struct {
	base
	route     string
	parameter string
	mode      Mode
}

// NewAutocomplete builds an autocomplete element pointing at route.
func NewAutocomplete(name, label, route string, opts ...Option) (*Autocomplete, error) {
	cfg := newSettings(opts)
	b, err := newBase(KindAutocomplete, name, label, cfg)
	if err != nil {
		return nil, err
	}
	if err := validateMode(name, cfg.mode); err != nil {
		return nil, err
	}
	return &Autocomplete{base: b, route: route, parameter: cfg.parameter, mode: cfg.mode}, nil
}

// Route returns the lookup route.
func (e *Autocomplete) Route() string { return e.route }

// Parameter returns the query parameter carrying the search term.
func (e *Autocomplete) Parameter() string { return e.parameter }

// Mode returns the selection mode.
func (e *Autocomplete) Mode() Mode { return e.mode }

func (e *Autocomplete) Render(value any) (*Descriptor, error) {
	var list []any
	if value != nil {
		list = asList(value)
	}
	return e.header().
		Set("route", e.route).
		Set("parameter", e.parameter).
		Set("mode", string(e.mode)).
		Set("readonly", e.readonly).
		Set("required", e.required).
		Set("value", listOrNil(list, value)), nil
}

func listOrNil(list []any, value any) any {
	if value == nil {
		return nil
	}
	if list == nil {
		return []any{}
	}
	return list
}
