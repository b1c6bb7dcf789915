package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-jsonform/internal/config"
	"github.com/goliatone/go-jsonform/internal/metrics"
	"github.com/goliatone/go-jsonform/internal/server"
	"github.com/goliatone/go-jsonform/pkg/i18n"
)

func testConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func newServer(t *testing.T, cfg *config.Config, opts ...server.Option) *server.Server {
	t.Helper()
	srv, err := server.New(cfg, opts...)
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	return srv
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func dig(t *testing.T, payload map[string]any, keys ...string) any {
	t.Helper()
	var current any = payload
	for _, key := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			t.Fatalf("expected an object at %s, got %T", key, current)
		}
		current = m[key]
	}
	return current
}

func TestListForms(t *testing.T) {
	h := newServer(t, testConfig(t, "")).Handler()

	rec := do(t, h, http.MethodGet, "/forms", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody(t, rec)["data"]
	if diff := cmp.Diff([]any{"contact", "search"}, got); diff != "" {
		t.Fatalf("form names mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderResolvesURLs(t *testing.T) {
	h := newServer(t, testConfig(t, "")).Handler()

	rec := do(t, h, http.MethodGet, "/forms/contact", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	desc := decodeBody(t, rec)

	if got := dig(t, desc, "name"); got != "contact" {
		t.Fatalf("expected form name, got %v", got)
	}
	if got := dig(t, desc, "action", "url"); got != "/forms/contact/submit" {
		t.Fatalf("expected action url, got %v", got)
	}
	if got := dig(t, desc, "elements", "timezone", "url"); got != "/autocomplete/timezones" {
		t.Fatalf("expected lookup url, got %v", got)
	}
	if got := dig(t, desc, "elements", "address", "elements", "country", "value"); got != "Norway" {
		t.Fatalf("expected definition default, got %v", got)
	}
}

func TestRenderLocale(t *testing.T) {
	catalog := i18n.New()
	catalog.Add("nb", map[string]string{"contact.name": "Navn"})
	h := newServer(t, testConfig(t, ""), server.WithCatalog(catalog)).Handler()

	desc := decodeBody(t, do(t, h, http.MethodGet, "/forms/contact?locale=nb", "", ""))
	if got := dig(t, desc, "elements", "name", "label"); got != "Navn" {
		t.Fatalf("expected translated label, got %v", got)
	}
	if got := dig(t, desc, "action", "url"); got != "/forms/contact/submit?_locale=nb" {
		t.Fatalf("expected locale in action url, got %v", got)
	}
}

func TestRenderFormats(t *testing.T) {
	h := newServer(t, testConfig(t, "")).Handler()

	rec := do(t, h, http.MethodGet, "/forms/search?format=values", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := dig(t, decodeBody(t, rec), "search", "page"); got != float64(1) {
		t.Fatalf("expected seeded page, got %v", got)
	}

	if rec := do(t, h, http.MethodGet, "/forms/search?format=xml", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/forms/missing", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown form, got %d", rec.Code)
	}
}

func TestSchema(t *testing.T) {
	h := newServer(t, testConfig(t, "")).Handler()

	schema := decodeBody(t, do(t, h, http.MethodGet, "/forms/search/schema", "", ""))
	if got := schema["type"]; got != "object" {
		t.Fatalf("expected object schema, got %v", got)
	}
	for _, name := range []string{"term", "page", "kinds", "filters"} {
		if dig(t, schema, "properties", name) == nil {
			t.Errorf("expected property %s", name)
		}
	}

	doc := decodeBody(t, do(t, h, http.MethodGet, "/openapi.json", "", ""))
	if dig(t, doc, "paths", "/forms/contact/submit", "post") == nil {
		t.Fatalf("expected contact submit operation, got %v", doc["paths"])
	}
}

func TestSubmit(t *testing.T) {
	h := newServer(t, testConfig(t, "")).Handler()

	t.Run("json body", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/forms/contact/submit", "application/json",
			`{"contact":{"name":"Ann","email":"ann@example.com","topic":"sales"}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := decodeBody(t, rec)
		if got := dig(t, data, "data", "name"); got != "Ann" {
			t.Fatalf("expected bound name, got %v", got)
		}
		if got := dig(t, data, "data", "topic"); got != "sales" {
			t.Fatalf("expected bound topic, got %v", got)
		}
	})

	t.Run("query", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/forms/search/submit?search%5Bterm%5D=go", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := dig(t, decodeBody(t, rec), "data", "term"); got != "go" {
			t.Fatalf("expected bound term, got %v", got)
		}
	})

	t.Run("validation", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/forms/contact/submit", "application/json",
			`{"contact":{"email":"ann@example.com"}}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}
		if dig(t, decodeBody(t, rec), "errors", "name") == nil {
			t.Fatalf("expected a message for name, got %s", rec.Body.String())
		}
	})

	t.Run("malformed", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/forms/contact/submit", "application/json", `{"contact":`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/forms/contact/submit", "", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestLookup(t *testing.T) {
	cfg := testConfig(t, `
autocomplete:
  - name: colours
    options:
      - value: red
        label: Red
      - value: green
        label: Green
`)
	h := newServer(t, cfg).Handler()

	rec := do(t, h, http.MethodGet, "/autocomplete/timezones?query=Oslo", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := dig(t, decodeBody(t, rec), "data"); !strings.Contains(rec.Body.String(), "Europe/Oslo") {
		t.Fatalf("expected Europe/Oslo, got %v", got)
	}

	rec = do(t, h, http.MethodGet, "/autocomplete/colours?query=gr", "", "")
	want := []any{map[string]any{"value": "green", "label": "Green"}}
	if diff := cmp.Diff(want, decodeBody(t, rec)["data"]); diff != "" {
		t.Fatalf("lookup mismatch (-want +got):\n%s", diff)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := testConfig(t, "metrics:\n  enabled: true\n")
	h := newServer(t, cfg, server.WithMetrics(metrics.NewWithRegistry(reg, reg))).Handler()

	do(t, h, http.MethodPost, "/forms/contact/submit", "application/json", `{"contact":{"name":"Ann","email":"a@b.c"}}`)
	do(t, h, http.MethodGet, "/forms/contact", "", "")
	do(t, h, http.MethodGet, "/autocomplete/timezones?query=utc", "", "")

	body := do(t, h, http.MethodGet, "/metrics", "", "").Body.String()
	for _, line := range []string{
		`jsonform_form_submissions_total{form="contact",outcome="bound"} 1`,
		`jsonform_form_renders_total{form="contact",outcome="rendered"} 1`,
		`jsonform_autocomplete_lookups_total{source="autocomplete_timezones",status="2xx"} 1`,
		`jsonform_http_requests_total{method="POST",route="/forms/{form}/submit",status="2xx"} 1`,
		`jsonform_definitions_loaded 2`,
	} {
		if !strings.Contains(body, line) {
			t.Errorf("expected metrics to contain %s", line)
		}
	}
}

const alphaForm = `
forms:
  alpha:
    method: POST
    elements:
      - type: string
        name: title
        label: Title
`

const betaForm = `
forms:
  beta:
    method: GET
    elements:
      - type: number
        name: count
        label: Count
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.yaml", alphaForm)

	cfg := testConfig(t, "")
	cfg.Definitions.Dir = dir
	srv := newServer(t, cfg)

	writeFile(t, dir, "beta.yaml", betaForm)
	if err := srv.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, srv.Forms().List()); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}

	writeFile(t, dir, "broken.yaml", "forms: [")
	if err := srv.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, srv.Forms().List()); diff != "" {
		t.Fatalf("expected previous forms to be kept (-want +got):\n%s", diff)
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.yaml", alphaForm)

	cfg := testConfig(t, "")
	cfg.Definitions.Dir = dir
	srv := newServer(t, cfg)

	w, err := srv.Watch()
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Stop()

	writeFile(t, dir, "beta.yaml", betaForm)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := srv.Forms().Get("beta"); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("expected beta to be served after the file was written, got %v", srv.Forms().List())
}

func TestWatchRequiresDirectory(t *testing.T) {
	srv := newServer(t, testConfig(t, ""))
	if _, err := srv.Watch(); err == nil {
		t.Fatalf("expected an error without a definitions directory")
	}
}
