package form

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/serializer"
)

// Serializer converts DTOs to value bags and back.
type Serializer interface {
	Normalize(dto any) (map[string]any, error)
	// Denormalize populates target in place. weak enables string to scalar
	// coercion for values that came from query strings or form posts.
	Denormalize(bag map[string]any, target any, weak bool) error
}

// InboundValidator checks a submitted bag against the form before it is
// bound. It may return a coerced bag; a nil bag keeps the original.
type InboundValidator interface {
	Validate(ctx context.Context, f *Form, bag map[string]any, weak bool) (map[string]any, error)
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithSerializer replaces the default JSON serializer.
func WithSerializer(s Serializer) ServiceOption {
	return func(svc *Service) {
		if s != nil {
			svc.serializer = s
		}
	}
}

// WithLogger sets the logger used for render and handle failures.
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(svc *Service) {
		svc.logger = logger
	}
}

// WithTranslator localises labels on every render.
func WithTranslator(t render.Translator) ServiceOption {
	return func(svc *Service) {
		svc.translator = t
	}
}

// WithOnMissing overrides the text used for untranslated labels.
func WithOnMissing(handler render.MissingTranslationHandler) ServiceOption {
	return func(svc *Service) {
		svc.onMissing = handler
	}
}

// WithDefaultLocale sets the locale used when a render names none.
func WithDefaultLocale(locale string) ServiceOption {
	return func(svc *Service) {
		svc.locale = locale
	}
}

// WithoutSanitize keeps empty strings and empty containers in submitted bags.
func WithoutSanitize() ServiceOption {
	return func(svc *Service) {
		svc.sanitize = false
	}
}

// WithInboundValidator validates submitted bags before binding.
func WithInboundValidator(v InboundValidator) ServiceOption {
	return func(svc *Service) {
		svc.validator = v
	}
}

// WithHiddenFields appends hidden elements to every render.
func WithHiddenFields(fields ...render.HiddenField) ServiceOption {
	return func(svc *Service) {
		svc.hidden = append(svc.hidden, fields...)
	}
}

// Service renders a form definition and binds submissions to its DTO.
// A Service holds configuration only; every call rebuilds the form.
type Service struct {
	def        Definition
	serializer Serializer
	logger     zerolog.Logger
	translator render.Translator
	onMissing  render.MissingTranslationHandler
	locale     string
	sanitize   bool
	validator  InboundValidator
	hidden     []render.HiddenField
}

// NewService returns a Service for def.
func NewService(def Definition, opts ...ServiceOption) *Service {
	svc := &Service{
		def:        def,
		serializer: serializer.New(),
		logger:     zerolog.Nop(),
		sanitize:   true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

func (s *Service) Name() string           { return s.def.Name() }
func (s *Service) Definition() Definition { return s.def }

// Form builds the element tree for dto without rendering it.
func (s *Service) Form(dto any) (*Form, error) {
	f, _, err := Build(s.def, dto)
	return f, err
}

// RenderOption configures a single render call.
type RenderOption func(*renderConfig)

type renderConfig struct {
	locale string
	hidden []render.HiddenField
	errors map[string][]string
}

// WithLocale selects the translation locale for one render.
func WithLocale(locale string) RenderOption {
	return func(c *renderConfig) {
		c.locale = locale
	}
}

// WithHidden appends hidden fields to one render.
func WithHidden(fields ...render.HiddenField) RenderOption {
	return func(c *renderConfig) {
		c.hidden = append(c.hidden, fields...)
	}
}

// WithRenderErrors attaches an error payload, keyed by dotted field path, to
// the rendered descriptor. Messages under unknown paths become form errors.
func WithRenderErrors(payload map[string][]string) RenderOption {
	return func(c *renderConfig) {
		c.errors = payload
	}
}

// Render builds the form for dto, a fresh DTO when nil, and renders it
// against the normalised DTO values.
func (s *Service) Render(ctx context.Context, dto any, opts ...RenderOption) (*element.Descriptor, error) {
	cfg := renderConfig{locale: s.locale}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	desc, err := s.render(dto, cfg)
	if err != nil {
		s.log(ctx).Debug().
			Str("form", s.def.Name()).
			Err(err).
			Msg("form render failed")
		return nil, err
	}
	return desc, nil
}

func (s *Service) render(dto any, cfg renderConfig) (*element.Descriptor, error) {
	f, dto, err := Build(s.def, dto)
	if err != nil {
		return nil, err
	}
	bag, err := s.serializer.Normalize(dto)
	if err != nil {
		return nil, fmt.Errorf("form: normalize %q: %w", f.Name(), err)
	}
	desc, err := f.Render(bag)
	if err != nil {
		return nil, err
	}

	hidden := append(append([]render.HiddenField(nil), s.hidden...), cfg.hidden...)
	if err := render.AppendHidden(desc, hidden...); err != nil {
		return nil, err
	}

	if s.translator != nil || s.onMissing != nil {
		render.LocalizeDescriptor(desc, render.RenderOptions{
			Locale:     cfg.locale,
			Translator: s.translator,
			OnMissing:  s.onMissing,
		})
	}

	if len(cfg.errors) > 0 {
		render.AttachErrors(desc, render.MapErrorPayload(desc, cfg.errors))
	}
	return desc, nil
}

// HandleOption configures a single handle call.
type HandleOption func(*handleConfig)

type handleConfig struct {
	target any
}

// Into binds the submission into target, which must have the DTO type the
// definition declares, instead of a fresh DTO.
func Into(target any) HandleOption {
	return func(c *handleConfig) {
		c.target = target
	}
}

// Handle extracts the submitted values from r and binds them into a DTO.
// The request method is checked before anything is read from the request.
func (s *Service) Handle(r *http.Request, opts ...HandleOption) (any, error) {
	cfg := handleConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	dto, err := s.handle(r, cfg)
	if err != nil {
		s.log(r.Context()).Debug().
			Str("form", s.def.Name()).
			Str("method", r.Method).
			Err(err).
			Msg("form handle failed")
		return nil, err
	}
	return dto, nil
}

func (s *Service) handle(r *http.Request, cfg handleConfig) (any, error) {
	sub, err := Extract(r, s.def.Name(), s.def.Method())
	if err != nil {
		return nil, err
	}

	target := cfg.target
	if target == nil {
		target = s.def.NewDTO()
	} else if err := checkDTO(s.def, target); err != nil {
		return nil, err
	}

	bag := sub.Values
	if s.sanitize {
		bag = Sanitize(bag)
	}

	if s.validator != nil {
		f, _, err := Build(s.def, target)
		if err != nil {
			return nil, err
		}
		coerced, err := s.validator.Validate(r.Context(), f, bag, sub.Weak)
		if err != nil {
			return nil, err
		}
		if coerced != nil {
			bag = coerced
		}
	}

	if err := s.serializer.Denormalize(bag, target, sub.Weak); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBinding, s.def.Name(), err)
	}
	return target, nil
}

func (s *Service) log(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger := zerolog.Ctx(ctx); logger.GetLevel() != zerolog.Disabled {
			return logger
		}
	}
	return &s.logger
}

// DTOType reports the DTO type the service binds into.
func (s *Service) DTOType() reflect.Type {
	return reflect.TypeOf(s.def.NewDTO())
}
