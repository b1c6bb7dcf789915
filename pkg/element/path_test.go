package element

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookupMissingIntermediateIsAbsent(t *testing.T) {
	bag := map[string]any{
		"address": map[string]any{"city": "Oslo"},
		"phones":  []any{map[string]any{"number": "123"}},
	}

	cases := []struct {
		path  string
		want  any
		found bool
	}{
		{"address.city", "Oslo", true},
		{"phones.0.number", "123", true},
		{"phones.1.number", nil, false},
		{"missing.city", nil, false},
		{"address.city.extra", nil, false},
		{"phones.x", nil, false},
		{"phones.-1", nil, false},
	}
	for _, tc := range cases {
		got, ok := Lookup(bag, ParsePath(tc.path))
		if ok != tc.found || got != tc.want {
			t.Fatalf("Lookup(%q) = %#v, %v; want %#v, %v", tc.path, got, ok, tc.want, tc.found)
		}
	}
}

func TestSetCreatesIntermediates(t *testing.T) {
	bag := map[string]any{}
	if err := Set(bag, Path{Key("items"), Index(0), Key("label")}, "a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := Set(bag, Path{Key("items"), Index(1), Key("label")}, "b"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := Set(bag, ParsePath("address.city"), "Oslo"); err != nil {
		t.Fatalf("set: %v", err)
	}
	want := map[string]any{
		"items":   []any{map[string]any{"label": "a"}, map[string]any{"label": "b"}},
		"address": map[string]any{"city": "Oslo"},
	}
	if diff := cmp.Diff(want, bag); diff != "" {
		t.Fatalf("bag mismatch (-want +got):\n%s", diff)
	}
}

func TestPathString(t *testing.T) {
	path := Path{Key("items")}.Child(Index(2), Key("label"))
	if got := path.String(); got != "items.2.label" {
		t.Fatalf("path = %q", got)
	}
}

func TestLookupNegativeIndexIsAbsent(t *testing.T) {
	bag := map[string]any{"a": []any{"x"}}
	got, ok := Lookup(bag, Path{Key("a"), Index(-1)})
	if ok || got != nil {
		t.Fatalf("Lookup(a.-1) = %#v, %v; want absent", got, ok)
	}
}

func TestSetRejectsOutOfRangeIndexes(t *testing.T) {
	cases := map[string]Path{
		"negative index":   {Key("a"), Index(-1)},
		"negative nested":  {Key("a"), Index(-1), Key("b")},
		"gap past the end": {Key("a"), Index(2)},
		"huge numeric key": ParsePath("a.5000000000"),
	}
	for name, path := range cases {
		bag := map[string]any{"a": []any{"x"}}
		if err := Set(bag, path, "v"); err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if diff := cmp.Diff(map[string]any{"a": []any{"x"}}, bag); diff != "" {
			t.Fatalf("%s: bag changed (-want +got):\n%s", name, diff)
		}
	}

	if err := Set(map[string]any{}, Path{Key("a"), Index(-1)}, "v"); err == nil {
		t.Fatalf("expected error for negative index on a new list")
	}
}
