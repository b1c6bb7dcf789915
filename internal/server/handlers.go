package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-jsonform/internal/metrics"
	"github.com/goliatone/go-jsonform/pkg/form"
	"github.com/goliatone/go-jsonform/pkg/openapi"
)

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": s.forms.List()})
}

// handleRender answers with the rendered descriptor. `locale` selects the
// label locale and is carried into generated URLs; `format` picks a renderer.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	renderer, err := s.renderers.Resolve(query.Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	desc, err := s.Describe(r.Context(), chi.URLParam(r, "form"), query.Get("locale"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := renderer.Render(r.Context(), desc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	svc, err := s.forms.Get(chi.URLParam(r, "form"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := svc.Form(nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, openapi.Schema(f))
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Document()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleSubmit binds the request into the form DTO and echoes it back.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "form")
	svc, err := s.forms.Get(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	dto, err := svc.Handle(r)
	s.metrics.ObserveHandle(name, outcome(err), time.Since(start))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": dto})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeBound
	case errors.Is(err, form.ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, form.ErrMalformedBody), errors.Is(err, form.ErrBinding):
		return metrics.OutcomeMalformed
	case errors.Is(err, form.ErrUnsupportedMethod):
		return metrics.OutcomeUnsupported
	default:
		return metrics.OutcomeServerError
	}
}

// statusOf maps form errors onto HTTP status codes. Anything unclassified,
// DTO type mismatches included, is a server error.
func statusOf(err error) int {
	switch {
	case errors.Is(err, form.ErrUnknownForm):
		return http.StatusNotFound
	case errors.Is(err, form.ErrUnsupportedMethod):
		return http.StatusMethodNotAllowed
	case errors.Is(err, form.ErrMalformedBody), errors.Is(err, form.ErrBinding):
		return http.StatusBadRequest
	case errors.Is(err, form.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	body := map[string]any{"error": err.Error()}

	var verr *form.ValidationError
	if errors.As(err, &verr) {
		body["errors"] = verr.Payload()
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("request failed")
		body["error"] = http.StatusText(status)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
