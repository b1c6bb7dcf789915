package render_test

import (
	"testing"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// sampleForm renders a small form with every nesting style.
func sampleForm(t *testing.T) *element.Descriptor {
	t.Helper()

	registry := element.Must(element.NewRegistry(
		element.Must(element.NewString("name", "fields.name")),
		element.Must(element.NewBool("active", "Active")),
		element.Must(element.NewArray("topic", "fields.topic", element.Choices{
			element.NewChoice("go", "topics.go"),
			element.NewGroup("topics.group", element.NewChoice("php", "topics.php")),
		})),
		element.Must(element.NewArray("tags", "Tags", element.ChoicesFromPairs("a", "A", "b", "B"), element.Multiple())),
		element.Must(element.NewCollection("owner", "Owner", []element.Element{
			element.Must(element.NewString("email", "Email")),
		})),
		element.Must(element.NewPrototypeCollection("items", "Items", []element.Element{
			element.Must(element.NewString("label", "Label")),
		}, element.WithKey("id"))),
	))

	elements, err := registry.Render(map[string]any{
		"name":  "Ada",
		"topic": "go",
		"owner": map[string]any{"email": "ada@example.com"},
		"items": []any{
			map[string]any{"id": "k1", "label": "first"},
		},
	})
	if err != nil {
		t.Fatalf("render sample form: %v", err)
	}
	return element.NewDescriptor().
		Set("name", "contact").
		Set("method", "POST").
		Set("action", element.NewDescriptor().Set("route", "contact_submit").Set("parameters", nil)).
		Set("elements", elements)
}
