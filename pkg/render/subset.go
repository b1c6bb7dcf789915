package render

import (
	"strings"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// Slice moves the named top-level elements out of desc's `elements` into a
// new ordered descriptor, in the order the names are given. Unknown names are
// skipped. It lets a page render some fields apart from the main form body
// (for example a sidebar) while the remaining fields keep their order.
func Slice(desc *element.Descriptor, names ...string) *element.Descriptor {
	out := element.NewDescriptor()
	if desc == nil {
		return out
	}
	elements, ok := desc.Descriptor("elements")
	if !ok {
		return out
	}
	for _, name := range normaliseNames(names) {
		child, ok := elements.Get(name)
		if !ok {
			continue
		}
		out.Set(name, child)
		elements.Delete(name)
	}
	return out
}

// FieldSubset selects top-level elements by name or by kind.
type FieldSubset struct {
	Names []string
	Kinds []element.Kind
}

// ApplySubset keeps only the elements matching subset. An empty subset
// leaves desc unchanged.
func ApplySubset(desc *element.Descriptor, subset FieldSubset) {
	if desc == nil || (len(subset.Names) == 0 && len(subset.Kinds) == 0) {
		return
	}
	elements, ok := desc.Descriptor("elements")
	if !ok {
		return
	}

	names := make(map[string]struct{}, len(subset.Names))
	for _, name := range normaliseNames(subset.Names) {
		names[name] = struct{}{}
	}
	kinds := make(map[element.Kind]struct{}, len(subset.Kinds))
	for _, kind := range subset.Kinds {
		kinds[kind] = struct{}{}
	}

	for _, name := range elements.Keys() {
		if _, keep := names[name]; keep {
			continue
		}
		if child, ok := elements.Descriptor(name); ok {
			if _, keep := kinds[element.Kind(child.StringValue("type"))]; keep {
				continue
			}
		}
		elements.Delete(name)
	}
}

func normaliseNames(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
