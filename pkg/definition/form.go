package definition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/form"
)

// ErrUnknownType reports an element type outside the supported kinds.
var ErrUnknownType = errors.New("definition: unknown element type")

// Values is the DTO of declarative forms: a plain value bag.
type Values map[string]any

// Form is a form.Definition backed by a FormSpec.
type Form struct {
	name     string
	source   string
	spec     FormSpec
	defaults map[string]any
}

var _ form.Definition = (*Form)(nil)

func newForm(name, source string, spec FormSpec) (*Form, error) {
	if name == "" {
		return nil, fmt.Errorf("definition: file %s defines a form with an empty name", source)
	}
	f := &Form{
		name:     name,
		source:   source,
		spec:     spec,
		defaults: defaults(spec.Elements),
	}
	if !form.SupportedMethod(f.Method()) {
		return nil, fmt.Errorf("definition: form %q (file %s): unsupported method %q", name, source, spec.Method)
	}
	if _, _, err := form.Build(f, nil); err != nil {
		return nil, fmt.Errorf("definition: form %q (file %s): %w", name, source, err)
	}
	return f, nil
}

func (f *Form) Name() string   { return f.name }
func (f *Form) Source() string { return f.source }
func (f *Form) Spec() FormSpec { return f.spec }
func (f *Form) Method() string {
	return strings.ToUpper(strings.TrimSpace(orDefault(f.spec.Method, "POST")))
}

// NewDTO returns a *Values seeded with the declared defaults.
func (f *Form) NewDTO() any {
	values := Values(cloneMap(f.defaults))
	return &values
}

func (f *Form) Action(any) form.Action {
	return form.NewAction(f.spec.Action.Route, cloneMap(f.spec.Action.Parameters))
}

func (f *Form) Build(b *form.Builder, _ any) error {
	elements, err := newElements(f.spec.Elements)
	if err != nil {
		return err
	}
	for _, el := range elements {
		b.Add(el)
	}
	return b.Err()
}

func newElements(specs []ElementSpec) ([]element.Element, error) {
	out := make([]element.Element, 0, len(specs))
	for _, spec := range specs {
		el, err := newElement(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func newElement(spec ElementSpec) (element.Element, error) {
	kind, ok := lookupKind(spec.Type)
	if !ok {
		return nil, fmt.Errorf("%w %q for `%s`", ErrUnknownType, spec.Type, spec.Name)
	}
	opts, err := spec.options(kind)
	if err != nil {
		return nil, fmt.Errorf("definition: element `%s`: %w", spec.Name, err)
	}

	switch kind {
	case element.KindString:
		return element.NewString(spec.Name, spec.Label, opts...)
	case element.KindPassword:
		return element.NewPassword(spec.Name, spec.Label, opts...)
	case element.KindNumber:
		return element.NewNumber(spec.Name, spec.Label, opts...)
	case element.KindBool:
		return element.NewBool(spec.Name, spec.Label, opts...)
	case element.KindDate:
		return element.NewDate(spec.Name, spec.Label, opts...)
	case element.KindDateTime:
		return element.NewDateTime(spec.Name, spec.Label, opts...)
	case element.KindHidden:
		return element.NewHidden(spec.Name, opts...)
	case element.KindLabel:
		return element.NewLabel(spec.Name, spec.Label, opts...)
	case element.KindFile:
		return element.NewFile(spec.Name, spec.Label, opts...)
	case element.KindArray:
		return element.NewArray(spec.Name, spec.Label, element.Choices(spec.Options), opts...)
	case element.KindAutocomplete:
		return element.NewAutocomplete(spec.Name, spec.Label, spec.Route, opts...)
	case element.KindCollection:
		children, err := newElements(spec.Elements)
		if err != nil {
			return nil, err
		}
		return element.NewCollection(spec.Name, spec.Label, children, opts...)
	default:
		prototype, err := newElements(spec.Elements)
		if err != nil {
			return nil, err
		}
		return element.NewPrototypeCollection(spec.Name, spec.Label, prototype, opts...)
	}
}

func lookupKind(raw string) (element.Kind, bool) {
	raw = strings.TrimSpace(raw)
	for _, kind := range element.Kinds() {
		if strings.EqualFold(string(kind), raw) {
			return kind, true
		}
	}
	return "", false
}

func (s ElementSpec) options(kind element.Kind) ([]element.Option, error) {
	var opts []element.Option
	if s.Required {
		opts = append(opts, element.Required())
	}
	if s.Readonly {
		opts = append(opts, element.Readonly())
	}
	if s.Mode != "" {
		opts = append(opts, element.WithMode(element.Mode(strings.ToLower(strings.TrimSpace(s.Mode)))))
	}
	if s.Parameter != "" {
		opts = append(opts, element.WithParameter(s.Parameter))
	}
	if s.Format != "" {
		opts = append(opts, element.WithFormat(s.Format))
	}
	if s.Key != "" {
		opts = append(opts, element.WithKey(s.Key))
	}
	if s.RenderDefault {
		opts = append(opts, element.RenderDefault())
	}
	if s.Step != nil {
		opts = append(opts, element.WithStep(*s.Step))
	}

	switch kind {
	case element.KindNumber:
		if s.Min != nil {
			min, err := toFloat(s.Min)
			if err != nil {
				return nil, fmt.Errorf("min: %w", err)
			}
			opts = append(opts, element.WithMin(min))
		}
		if s.Max != nil {
			max, err := toFloat(s.Max)
			if err != nil {
				return nil, fmt.Errorf("max: %w", err)
			}
			opts = append(opts, element.WithMax(max))
		}
	case element.KindDate, element.KindDateTime:
		if s.Min != nil {
			opts = append(opts, element.WithDateMin(fmt.Sprint(s.Min)))
		}
		if s.Max != nil {
			opts = append(opts, element.WithDateMax(fmt.Sprint(s.Max)))
		}
	}
	return opts, nil
}

func toFloat(value any) (float64, error) {
	switch typed := value.(type) {
	case int:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	case uint64:
		return float64(typed), nil
	case float64:
		return typed, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(typed), 64)
	}
	return 0, fmt.Errorf("expected a number, got %s", element.DescribeValue(value))
}

// defaults collects declared default values, nested under collections.
func defaults(specs []ElementSpec) map[string]any {
	out := make(map[string]any)
	for _, spec := range specs {
		if spec.Default != nil {
			out[spec.Name] = spec.Default
			continue
		}
		kind, _ := lookupKind(spec.Type)
		if kind == element.KindCollection {
			if nested := defaults(spec.Elements); len(nested) > 0 {
				out[spec.Name] = nested
			}
		}
	}
	return out
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
