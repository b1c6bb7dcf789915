package form

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsonform/pkg/element"
)

func TestBuilderKeepsInsertionOrder(t *testing.T) {
	f, err := NewBuilder("contact").
		Method("put").
		Action("contact_update", map[string]any{"id": 7}).
		String("name", "Name", element.Required()).
		Number("age", "Age").
		Collection("address", "Address", func(b *Builder) {
			b.String("city", "City").String("zip", "Zip")
		}).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if f.Method() != "PUT" {
		t.Fatalf("expected method PUT, got %s", f.Method())
	}

	desc, err := f.Render(map[string]any{
		"name":    "Ann",
		"address": map[string]any{"city": "Oslo"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if diff := cmp.Diff([]string{"name", "method", "action", "elements"}, desc.Keys()); diff != "" {
		t.Fatalf("form keys mismatch (-want +got):\n%s", diff)
	}
	elements, _ := desc.Descriptor("elements")
	if diff := cmp.Diff([]string{"name", "age", "address"}, elements.Keys()); diff != "" {
		t.Fatalf("element keys mismatch (-want +got):\n%s", diff)
	}
	city, ok := desc.Lookup(element.ParsePath("elements.address.elements.city.value"))
	if !ok || city != "Oslo" {
		t.Fatalf("expected nested city Oslo, got %v", city)
	}
	action, _ := desc.Descriptor("action")
	if got := action.StringValue("route"); got != "contact_update" {
		t.Fatalf("expected route contact_update, got %q", got)
	}
}

func TestBuilderDefaultsToPost(t *testing.T) {
	f, err := NewBuilder("empty").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if f.Method() != "POST" {
		t.Fatalf("expected POST, got %s", f.Method())
	}
	desc, err := f.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	action, _ := desc.Descriptor("action")
	if params, _ := action.Get("parameters"); params != nil {
		t.Fatalf("expected null parameters, got %v", params)
	}
}

func TestBuilderKeepsFirstError(t *testing.T) {
	_, err := NewBuilder("broken").
		String("bad name", "Bad").
		String("name", "Name").
		Build()
	if !errors.Is(err, element.ErrInvalidName) {
		t.Fatalf("expected invalid name, got %v", err)
	}

	_, err = NewBuilder("dupes").
		String("name", "Name").
		Number("name", "Also name").
		Build()
	if !errors.Is(err, element.ErrDuplicateName) {
		t.Fatalf("expected duplicate name, got %v", err)
	}

	_, err = NewBuilder("nested").
		Collection("address", "Address", func(b *Builder) {
			b.Array("kind", "Kind", element.ChoicesFromPairs("a", "A"), element.WithMode("both"))
		}).
		Build()
	if !errors.Is(err, element.ErrInvalidMode) {
		t.Fatalf("expected invalid mode from nested builder, got %v", err)
	}
}

func TestFormRenderPropagatesInvalidValue(t *testing.T) {
	f, err := NewBuilder("numbers").Number("age", "Age").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, err = f.Render(map[string]any{"age": "not-a-number"})
	var valueErr *element.ValueError
	if !errors.As(err, &valueErr) || valueErr.Name != "age" {
		t.Fatalf("expected value error for age, got %v", err)
	}
}

func TestSanitize(t *testing.T) {
	input := map[string]any{
		"name":   "",
		"keep":   "x",
		"zero":   0,
		"off":    false,
		"nested": map[string]any{"a": "", "b": map[string]any{"c": ""}},
		"list":   []any{"", "y", map[string]any{"d": ""}},
		"empty":  []any{""},
		"null":   nil,
	}
	want := map[string]any{
		"keep": "x",
		"zero": 0,
		"off":  false,
		"list": []any{"y"},
		"null": nil,
	}
	if diff := cmp.Diff(want, Sanitize(input)); diff != "" {
		t.Fatalf("sanitize mismatch (-want +got):\n%s", diff)
	}
	if _, ok := input["name"]; !ok {
		t.Fatalf("sanitize must not modify its input")
	}
}

func TestSupportedMethod(t *testing.T) {
	for method, want := range map[string]bool{
		"GET": true, "post": true, "PUT": true, "PATCH": true,
		"DELETE": false, "HEAD": false, "OPTIONS": false, "": false,
	} {
		if got := SupportedMethod(method); got != want {
			t.Errorf("SupportedMethod(%q) = %v, want %v", method, got, want)
		}
	}
}
