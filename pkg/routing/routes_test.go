package routing

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsonform/pkg/element"
)

func TestGenerate(t *testing.T) {
	routes := New(map[string]string{
		"contact_update": "/contact/{id:[0-9]+}",
		"search":         "/search",
	})
	g := NewGenerator(routes, WithBaseURL("https://example.com/"))

	cases := []struct {
		name   string
		route  string
		params map[string]any
		want   string
	}{
		{"placeholder", "contact_update", map[string]any{"id": 7}, "https://example.com/contact/7"},
		{"query", "search", map[string]any{"q": "a b", "tags": []string{"x", "y"}}, "https://example.com/search?q=a+b&tags=x&tags=y"},
		{"escaped", "contact_update", map[string]any{"id": "a/b"}, "https://example.com/contact/a%2Fb"},
		{"nil skipped", "search", map[string]any{"q": nil}, "https://example.com/search"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := g.Generate(tc.route, tc.params)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestGenerateLocale(t *testing.T) {
	g := NewGenerator(New(map[string]string{"home": "/{_locale}/home", "list": "/list"}), WithLocale("en"))

	got, err := g.Generate("home", nil)
	if err != nil || got != "/en/home" {
		t.Fatalf("expected /en/home, got %s %v", got, err)
	}
	got, err = g.WithLocale("es").Generate("list", nil)
	if err != nil || got != "/list?_locale=es" {
		t.Fatalf("expected locale query, got %s %v", got, err)
	}
	got, err = g.Generate("list", map[string]any{LocaleParameter: "fr"})
	if err != nil || got != "/list?_locale=fr" {
		t.Fatalf("expected explicit locale to win, got %s %v", got, err)
	}
}

func TestGenerateErrors(t *testing.T) {
	g := NewGenerator(New(map[string]string{"item": "/items/{id}"}))

	if _, err := g.Generate("missing", nil); !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("expected unknown route, got %v", err)
	}
	if _, err := g.Generate("item", map[string]any{"other": 1}); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected missing parameter, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	lookup := element.Must(element.NewAutocomplete("owner", "Owner", "owners"))
	unknown := element.Must(element.NewAutocomplete("store", "Store", "stores"))
	group := element.Must(element.NewCollection("meta", "Meta", []element.Element{
		element.Must(element.NewAutocomplete("editor", "Editor", "owners")),
	}))
	registry, err := element.NewRegistry(lookup, unknown, group)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	elements, err := registry.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	desc := element.NewDescriptor().
		Set("action", element.NewDescriptor().
			Set("route", "save").
			Set("parameters", map[string]any{"id": 3, "draft": true})).
		Set("elements", elements)

	g := NewGenerator(New(map[string]string{"save": "/save/{id}", "owners": "/lookup/owners"}))
	if err := g.Resolve(desc); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	got := map[string]any{}
	for _, path := range []string{"action.url", "elements.owner.url", "elements.store.url", "elements.meta.elements.editor.url"} {
		if value, ok := desc.Lookup(element.ParsePath(path)); ok {
			got[path] = value
		}
	}
	want := map[string]any{
		"action.url":                        "/save/3?draft=1",
		"elements.owner.url":                "/lookup/owners",
		"elements.meta.elements.editor.url": "/lookup/owners",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resolved urls mismatch (-want +got):\n%s", diff)
	}
}
