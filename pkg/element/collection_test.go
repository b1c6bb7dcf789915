package element

import (
	"errors"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestCollectionScopesChildValues(t *testing.T) {
	addr := Must(NewCollection("addr", "Address", []Element{Must(NewString("city", "City"))}))
	registry := Must(NewRegistry(addr))

	rendered, err := registry.Render(map[string]any{"addr": map[string]any{"city": "X"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got, ok := rendered.Lookup(ParsePath("addr.elements.city.value"))
	if !ok || got != "X" {
		t.Fatalf("expected city value X, got %#v (found=%v)", got, ok)
	}

	rendered, err = registry.Render(map[string]any{"addr": nil})
	if err != nil {
		t.Fatalf("render nil collection: %v", err)
	}
	got, ok = rendered.Lookup(ParsePath("addr.elements.city.value"))
	if !ok || got != nil {
		t.Fatalf("expected null city value, got %#v (found=%v)", got, ok)
	}
}

func TestCollectionAcceptsTypedMaps(t *testing.T) {
	addr := Must(NewCollection("addr", "Address", []Element{Must(NewString("city", "City"))}))
	desc, err := addr.Render(map[string]string{"city": "Lyon"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, _ := desc.Lookup(ParsePath("elements.city.value")); got != "Lyon" {
		t.Fatalf("expected Lyon, got %#v", got)
	}
}

func TestPrototypeCollectionExpandsEntries(t *testing.T) {
	items := Must(NewPrototypeCollection("items", "Items", []Element{Must(NewString("label", "Label"))}, WithKey("id")))

	desc, err := items.Render([]any{
		map[string]any{"id": 1, "label": "x"},
		map[string]any{"id": 2, "label": "y"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	elements, ok := desc.Descriptor("elements")
	if !ok {
		t.Fatalf("missing elements")
	}
	if diff := cmp.Diff([]string{"1", "2"}, elements.Keys()); diff != "" {
		t.Fatalf("entry keys mismatch (-want +got):\n%s", diff)
	}
	for key, want := range map[string]string{"1": "x", "2": "y"} {
		got, _ := elements.Lookup(Path{Key(key), Key("label"), Key("value")})
		if got != want {
			t.Fatalf("entry %s label = %#v, want %q", key, got, want)
		}
	}

	prototype, ok := desc.Descriptor("prototype")
	if !ok {
		t.Fatalf("missing prototype template")
	}
	if got, _ := prototype.Lookup(ParsePath("label.value")); got != nil {
		t.Fatalf("prototype template must be blank, got %#v", got)
	}
	if desc.StringValue("key") != "id" {
		t.Fatalf("key = %q, want id", desc.StringValue("key"))
	}
}

func TestPrototypeCollectionKeyFallbacks(t *testing.T) {
	items := Must(NewPrototypeCollection("items", "Items", []Element{Must(NewString("label", "Label"))}))
	if items.Key() != "items" {
		t.Fatalf("key should default to element name, got %q", items.Key())
	}

	entries, err := items.Entries([]any{map[string]any{"label": "a"}, map[string]any{"label": "b"}})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if entries[0].Key != "0" || entries[1].Key != "1" {
		t.Fatalf("expected index keys, got %q %q", entries[0].Key, entries[1].Key)
	}

	entries, err = items.Entries(map[string]any{"b": map[string]any{}, "a": map[string]any{}})
	if err != nil {
		t.Fatalf("keyed entries: %v", err)
	}
	if entries[0].Key != "a" || entries[1].Key != "b" {
		t.Fatalf("expected sorted map keys, got %q %q", entries[0].Key, entries[1].Key)
	}
}

func TestPrototypeCollectionRejectsDuplicateKeys(t *testing.T) {
	items := Must(NewPrototypeCollection("items", "Items", nil, WithKey("id")))
	_, err := items.Render([]any{map[string]any{"id": "a"}, map[string]any{"id": "a"}})
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestPrototypeCollectionFallbackKeysAvoidExplicitKeys(t *testing.T) {
	items := Must(NewPrototypeCollection("items", "Items", nil, WithKey("id")))
	entries, err := items.Entries([]any{
		map[string]any{"id": "1"},
		map[string]any{},
		map[string]any{},
	})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	keys := make([]string, len(entries))
	for i, entry := range entries {
		keys[i] = entry.Key
	}
	if diff := cmp.Diff([]string{"1", "3", "2"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestPrototypeCollectionRenderDefault(t *testing.T) {
	items := Must(NewPrototypeCollection("items", "Items",
		[]Element{Must(NewString("label", "Label"))},
		RenderDefault(),
		WithKeyFunc(func() string { return "generated" }),
	))

	desc, err := items.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	elements, _ := desc.Descriptor("elements")
	if diff := cmp.Diff([]string{"generated"}, elements.Keys()); diff != "" {
		t.Fatalf("default entry mismatch (-want +got):\n%s", diff)
	}

	plain := Must(NewPrototypeCollection("items", "Items", nil))
	desc, err = plain.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	elements, _ = desc.Descriptor("elements")
	if elements.Len() != 0 {
		t.Fatalf("expected no entries, got %v", elements.Keys())
	}
}

func TestRegistryRenderPropagatesFirstError(t *testing.T) {
	registry := Must(NewRegistry(
		Must(NewNumber("age", "Age")),
		Must(NewBool("active", "Active")),
	))
	_, err := registry.Render(map[string]any{"age": "old", "active": "yes"})
	var valueErr *ValueError
	if !errors.As(err, &valueErr) || valueErr.Name != "age" {
		t.Fatalf("expected first failing element, got %v", err)
	}
}

func TestRegistryRenderKeepsInsertionOrder(t *testing.T) {
	registry := Must(NewRegistry(
		Must(NewString("zeta", "Z")),
		Must(NewString("alpha", "A")),
		Must(NewString("mid", "M")),
	))
	desc, err := registry.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	payload, err := gojson.Marshal(desc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roundTrip Descriptor
	if err := gojson.Unmarshal(payload, &roundTrip); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, roundTrip.Keys()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryAddIsAllOrNothing(t *testing.T) {
	registry := Must(NewRegistry(Must(NewString("name", "Name"))))

	err := registry.Add(Must(NewString("email", "Email")), Must(NewString("name", "Name")))
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	err = registry.Add(Must(NewString("phone", "Phone")), Must(NewString("phone", "Phone")))
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName for repeated batch name, got %v", err)
	}
	if diff := cmp.Diff([]string{"name"}, registry.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
