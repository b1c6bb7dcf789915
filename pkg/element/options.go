package element

import "github.com/google/uuid"

// Option customises an element at construction time. Options that do not
// apply to a kind are ignored by its constructor.
type Option func(*settings)

type settings struct {
	required      bool
	readonly      bool
	min           *float64
	max           *float64
	step          *float64
	format        string
	dateMin       string
	dateMax       string
	mode          Mode
	parameter     string
	key           string
	renderDefault bool
	keyFunc       func() string
}

func newSettings(opts []Option) settings {
	cfg := settings{
		mode:      ModeSingle,
		parameter: DefaultParameter,
		keyFunc:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// DefaultParameter is the query parameter autocomplete lookups send the
// search term in.
const DefaultParameter = "query"

// Required marks the element as mandatory.
func Required() Option {
	return func(s *settings) { s.required = true }
}

// Readonly marks the element as read only.
func Readonly() Option {
	return func(s *settings) { s.readonly = true }
}

// WithMin sets the lower bound of a number element.
func WithMin(min float64) Option {
	return func(s *settings) { s.min = &min }
}

// WithMax sets the upper bound of a number element.
func WithMax(max float64) Option {
	return func(s *settings) { s.max = &max }
}

// WithStep sets the increment of a number element.
func WithStep(step float64) Option {
	return func(s *settings) { s.step = &step }
}

// WithFormat sets the date format, expressed with the tokens `Y m d H i s`.
func WithFormat(format string) Option {
	return func(s *settings) { s.format = format }
}

// WithDateMin sets the earliest selectable date, in the element format.
func WithDateMin(min string) Option {
	return func(s *settings) { s.dateMin = min }
}

// WithDateMax sets the latest selectable date, in the element format.
func WithDateMax(max string) Option {
	return func(s *settings) { s.dateMax = max }
}

// WithMode sets the choice mode of array and autocomplete elements.
func WithMode(mode Mode) Option {
	return func(s *settings) { s.mode = mode }
}

// Multiple is shorthand for WithMode(ModeMultiple).
func Multiple() Option { return WithMode(ModeMultiple) }

// WithParameter overrides the autocomplete query parameter.
func WithParameter(parameter string) Option {
	return func(s *settings) {
		if parameter != "" {
			s.parameter = parameter
		}
	}
}

// WithKey names the entry field identifying prototype collection entries.
func WithKey(key string) Option {
	return func(s *settings) { s.key = key }
}

// RenderDefault makes a prototype collection render one blank entry when it
// has no value.
func RenderDefault() Option {
	return func(s *settings) { s.renderDefault = true }
}

// WithKeyFunc replaces the generator used for synthesized entry keys.
func WithKeyFunc(fn func() string) Option {
	return func(s *settings) {
		if fn != nil {
			s.keyFunc = fn
		}
	}
}
