package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]any{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.CSRFToken("csrf", "token123"),
		render.AuthToken(" authToken ", "abc123"),
		render.VersionField("version", 4),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]any{
		"existing":  "keep",
		"csrf":      "token123",
		"authToken": "abc123",
		"version":   4,
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "authToken", Value: "abc123"},
		{Name: "csrf", Value: "token123"},
		{Name: "existing", Value: "keep"},
		{Name: "version", Value: 4},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendHidden(t *testing.T) {
	desc := sampleForm(t)
	if err := render.AppendHidden(desc, render.CSRFToken("csrfToken", "t0k"), render.VersionField("version", 3)); err != nil {
		t.Fatalf("append hidden: %v", err)
	}

	elements, _ := desc.Descriptor("elements")
	keys := elements.Keys()
	if diff := cmp.Diff([]string{"csrfToken", "version"}, keys[len(keys)-2:]); diff != "" {
		t.Fatalf("hidden fields must be appended in order (-want +got):\n%s", diff)
	}
	if got, _ := elements.Lookup(element.ParsePath("csrfToken.value")); got != "t0k" {
		t.Fatalf("unexpected token value %#v", got)
	}
	if got, _ := elements.Lookup(element.ParsePath("csrfToken.type")); got != "hidden" {
		t.Fatalf("unexpected type %#v", got)
	}

	err := render.AppendHidden(desc, render.Hidden("name", "clash"))
	if !errors.Is(err, element.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	err = render.AppendHidden(desc, render.CSRFToken("_csrf", "x"))
	if !errors.Is(err, element.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}
