package autocomplete

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

type handlerResponse struct {
	Data []Option `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) []Option {
	t.Helper()
	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Data == nil {
		t.Fatalf("expected a data array, got null")
	}
	return payload.Data
}

func TestNewHandler_EmptyQueryReturnsEmptyDataArray(t *testing.T) {
	h := NewHandler(
		WithSource(StaticFromValues("UTC")),
		WithEmptySearchMode(EmptySearchNone),
	)

	req := httptest.NewRequest(http.MethodGet, "/autocomplete", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := strings.TrimSpace(rec.Header().Get("Content-Type")); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	if data := decode(t, rec); len(data) != 0 {
		t.Fatalf("expected empty data array, got %#v", data)
	}
}

func TestNewHandler_EmptyQueryTopMode(t *testing.T) {
	h := NewHandler(
		WithSource(StaticFromValues("a", "b", "c")),
		WithEmptySearchMode(EmptySearchTop),
	)

	req := httptest.NewRequest(http.MethodGet, "/autocomplete?limit=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	want := []Option{{Value: "a", Label: "a"}, {Value: "b", Label: "b"}}
	if diff := cmp.Diff(want, decode(t, rec)); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestNewHandler_SearchAndLimitClamped(t *testing.T) {
	h := NewHandler(
		WithSource(StaticFromValues("America/Chicago", "America/New_York", "Europe/Paris", "UTC")),
		WithMaxLimit(2),
	)

	req := httptest.NewRequest(http.MethodGet, "/autocomplete?query=America&limit=10", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	want := []Option{
		{Value: "America/Chicago", Label: "America/Chicago"},
		{Value: "America/New_York", Label: "America/New_York"},
	}
	if diff := cmp.Diff(want, decode(t, rec)); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestNewHandler_CustomQueryParams(t *testing.T) {
	h := NewHandler(
		WithSource(StaticFromValues("UTC", "Europe/Paris")),
		WithSearchParam("search"),
		WithLimitParam("l"),
	)

	req := httptest.NewRequest(http.MethodGet, "/autocomplete?search=utc&l=5", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	data := decode(t, rec)
	if len(data) != 1 || data[0].Value != "UTC" {
		t.Fatalf("unexpected payload: %#v", data)
	}
}

func TestNewHandler_SourceFunc(t *testing.T) {
	var gotLimit int
	h := NewHandler(
		WithDefaultLimit(7),
		WithSource(SourceFunc(func(_ context.Context, query string, limit int) ([]Option, error) {
			gotLimit = limit
			return []Option{{Value: "1", Label: strings.ToUpper(query)}}, nil
		})),
	)

	req := httptest.NewRequest(http.MethodGet, "/autocomplete?query=ann", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if diff := cmp.Diff([]Option{{Value: "1", Label: "ANN"}}, decode(t, rec)); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if gotLimit != 7 {
		t.Fatalf("expected default limit 7, got %d", gotLimit)
	}
}

func TestNewHandler_SourceError(t *testing.T) {
	h := NewHandler(WithSource(SourceFunc(func(context.Context, string, int) ([]Option, error) {
		return nil, errors.New("backend down")
	})))

	req := httptest.NewRequest(http.MethodGet, "/autocomplete?query=x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestNewHandler_GuardRejects(t *testing.T) {
	h := NewHandler(
		WithSource(StaticFromValues("UTC")),
		WithGuard(func(r *http.Request) error {
			return StatusError{Code: http.StatusUnauthorized}
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/autocomplete?query=utc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestNewHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(WithSource(StaticFromValues("UTC")))

	req := httptest.NewRequest(http.MethodPost, "/autocomplete?query=utc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestNewHandler_HeadHasNoBody(t *testing.T) {
	h := NewHandler(WithSource(StaticFromValues("UTC")))

	req := httptest.NewRequest(http.MethodHead, "/autocomplete?query=utc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 200, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewHandler_NegativeLimitReturnsEmptyDataArray(t *testing.T) {
	h := NewHandler(WithSource(StaticFromValues("UTC")))

	req := httptest.NewRequest(http.MethodGet, "/autocomplete?query=utc&limit=-1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if data := decode(t, rec); len(data) != 0 {
		t.Fatalf("expected empty data array, got %#v", data)
	}
}
