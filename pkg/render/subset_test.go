package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/render"
)

func TestSliceMovesElements(t *testing.T) {
	desc := sampleForm(t)

	slice := render.Slice(desc, "owner", "missing", "name", "owner")

	if diff := cmp.Diff([]string{"owner", "name"}, slice.Keys()); diff != "" {
		t.Fatalf("slice keys mismatch (-want +got):\n%s", diff)
	}
	elements, _ := desc.Descriptor("elements")
	if diff := cmp.Diff([]string{"active", "topic", "tags", "items"}, elements.Keys()); diff != "" {
		t.Fatalf("remaining keys mismatch (-want +got):\n%s", diff)
	}
}

func TestApplySubset(t *testing.T) {
	desc := sampleForm(t)

	render.ApplySubset(desc, render.FieldSubset{
		Names: []string{"name"},
		Kinds: []element.Kind{element.KindArray},
	})

	elements, _ := desc.Descriptor("elements")
	if diff := cmp.Diff([]string{"name", "topic", "tags"}, elements.Keys()); diff != "" {
		t.Fatalf("subset keys mismatch (-want +got):\n%s", diff)
	}

	render.ApplySubset(desc, render.FieldSubset{})
	if elements.Len() != 3 {
		t.Fatalf("empty subset must not change the form")
	}
}
