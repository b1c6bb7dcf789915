// Package server exposes form definitions over HTTP: descriptors, contract
// schemas, submission handling and autocomplete lookups.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-jsonform/components/autocomplete"
	"github.com/goliatone/go-jsonform/internal/config"
	"github.com/goliatone/go-jsonform/internal/metrics"
	"github.com/goliatone/go-jsonform/pkg/definition"
	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/form"
	"github.com/goliatone/go-jsonform/pkg/i18n"
	"github.com/goliatone/go-jsonform/pkg/openapi"
	"github.com/goliatone/go-jsonform/pkg/render"
	"github.com/goliatone/go-jsonform/pkg/routing"
)

const (
	// LookupBase is the path autocomplete endpoints are mounted under.
	LookupBase = "/autocomplete"
	// TimezonesRoute names the built-in timezone lookup.
	TimezonesRoute = "autocomplete_timezones"

	apiTitle   = "jsonform"
	apiVersion = "1.0.0"
)

// Server serves the forms of a definition set.
type Server struct {
	cfg       *config.Config
	logger    zerolog.Logger
	metrics   *metrics.Collector
	defs      fs.FS
	catalog   *i18n.Catalog
	forms     *form.Registry
	routes    *routing.Routes
	urls      *routing.Generator
	renderers *render.Registry
	lookups   []*autocomplete.Component
	router    chi.Router

	reloadMu sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records request, form and lookup metrics into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// WithDefinitions serves the definitions found in fsys instead of the
// configured directory.
func WithDefinitions(fsys fs.FS) Option {
	return func(s *Server) {
		s.defs = fsys
	}
}

// WithCatalog localises labels with catalog instead of the configured
// translations directory.
func WithCatalog(catalog *i18n.Catalog) Option {
	return func(s *Server) {
		s.catalog = catalog
	}
}

// New loads definitions, translations and lookup sources described by cfg
// and builds the router.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server: missing config")
	}
	s := &Server{
		cfg:       cfg,
		logger:    zerolog.Nop(),
		renderers: render.DefaultRegistry(false),
		routes:    routing.New(cfg.Routes),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.defs == nil {
		if cfg.Definitions.Dir != "" {
			s.defs = os.DirFS(cfg.Definitions.Dir)
		} else {
			s.defs = definition.EmbeddedFS()
		}
	}

	if s.catalog == nil && cfg.Translations.Dir != "" {
		catalog, err := i18n.LoadFS(os.DirFS(cfg.Translations.Dir),
			i18n.WithDomain(cfg.Translations.Domain),
			i18n.WithFallback(cfg.Translations.Fallback...),
		)
		if err != nil {
			return nil, fmt.Errorf("server: load translations: %w", err)
		}
		s.catalog = catalog
	}

	lookups, err := buildLookups(cfg.Autocomplete)
	if err != nil {
		return nil, err
	}
	s.lookups = lookups

	services, err := s.loadServices()
	if err != nil {
		return nil, err
	}
	forms, err := form.NewRegistry(services...)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.forms = forms
	s.metrics.ObserveReload(len(services), nil)

	s.urls = routing.NewGenerator(s.routes, routing.WithBaseURL(cfg.Server.BaseURL))

	router, err := s.buildRouter()
	if err != nil {
		return nil, err
	}
	s.router = router

	s.logger.Info().
		Int("forms", len(services)).
		Int("lookups", len(s.lookups)).
		Msg("form server ready")
	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Forms returns the registry of served forms.
func (s *Server) Forms() *form.Registry {
	return s.forms
}

// Describe renders a fresh DTO of the form called name and resolves its
// URLs. A non-empty locale localises labels and is carried into the URLs.
func (s *Server) Describe(ctx context.Context, name, locale string) (*element.Descriptor, error) {
	svc, err := s.forms.Get(name)
	if err != nil {
		return nil, err
	}

	var opts []form.RenderOption
	urls := s.urls
	if locale != "" {
		opts = append(opts, form.WithLocale(locale))
		urls = urls.WithLocale(locale)
	}

	desc, err := svc.Render(ctx, nil, opts...)
	s.metrics.ObserveRender(name, err)
	if err != nil {
		return nil, err
	}
	if err := urls.Resolve(desc); err != nil {
		return nil, err
	}
	return desc, nil
}

// Document exports the contract of every served form.
func (s *Server) Document() (*openapi3.T, error) {
	names := s.forms.List()
	forms := make([]*form.Form, 0, len(names))
	for _, name := range names {
		svc, err := s.forms.Get(name)
		if err != nil {
			continue
		}
		f, err := svc.Form(nil)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return openapi.Document(apiTitle, apiVersion, forms...), nil
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Reload rebuilds every form service from the definition files. On error the
// forms already served are kept.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	services, err := s.loadServices()
	if err == nil {
		err = s.forms.Replace(services...)
	}
	s.metrics.ObserveReload(len(services), err)
	if err != nil {
		s.logger.Error().Err(err).Msg("definition reload failed, keeping current forms")
		return fmt.Errorf("reload definitions: %w", err)
	}

	s.logger.Info().Strs("forms", s.forms.List()).Msg("definitions reloaded")
	return nil
}

func (s *Server) loadServices() ([]*form.Service, error) {
	store, err := definition.LoadFS(s.defs)
	if err != nil {
		return nil, fmt.Errorf("server: load definitions: %w", err)
	}

	opts := []form.ServiceOption{
		form.WithLogger(s.logger),
		form.WithDefaultLocale(s.cfg.Translations.Locale),
		form.WithInboundValidator(openapi.NewValidator()),
	}
	if s.catalog != nil {
		opts = append(opts, form.WithTranslator(s.catalog))
	}

	services := make([]*form.Service, 0, len(store.Names()))
	for _, f := range store.Forms() {
		if route := f.Spec().Action.Route; route != "" {
			if _, known := s.routes.Pattern(route); !known {
				s.routes.Add(route, "/forms/"+f.Name()+"/submit")
			}
		}
		services = append(services, form.NewService(f, opts...))
	}
	return services, nil
}

func (s *Server) buildRouter() (chi.Router, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newLoggingMiddleware(s.logger, s.cfg.Metrics.Path))
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(newMetricsMiddleware(s.metrics, s.cfg.Metrics.Path))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, s.metrics.Handler())
	}
	r.Get("/openapi.json", s.handleOpenAPI)

	r.Get("/forms", s.handleList)
	r.Route("/forms/{form}", func(r chi.Router) {
		r.Get("/", s.handleRender)
		r.Get("/schema", s.handleSchema)
		r.HandleFunc("/submit", s.handleSubmit)
	})

	for _, lookup := range s.lookups {
		mux := lookupMux{router: r, source: lookup.Name(), metrics: s.metrics}
		if _, err := lookup.RegisterRoutes(mux, s.routes, LookupBase); err != nil {
			return nil, fmt.Errorf("server: mount lookup %q: %w", lookup.Name(), err)
		}
	}
	return r, nil
}
