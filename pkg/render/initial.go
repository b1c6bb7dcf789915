package render

import (
	"github.com/goliatone/go-jsonform/pkg/element"
)

// InitialValues projects a rendered form (or an `elements` descriptor) back
// into the value bag a client seeds its form state with:
//
//   - single mode arrays hold their first value or nil, multiple mode a list
//   - bools default to false
//   - collections nest
//   - prototype collections become a list of entries, each carrying its key
//     under the collection key field
//   - every other kind holds its value, or "" when the value is nil
func InitialValues(desc *element.Descriptor) map[string]any {
	if desc == nil {
		return map[string]any{}
	}
	if elements, ok := desc.Descriptor("elements"); ok {
		if _, isElement := desc.Get("type"); !isElement {
			return initialValues(elements)
		}
	}
	return initialValues(desc)
}

func initialValues(elements *element.Descriptor) map[string]any {
	out := make(map[string]any, elements.Len())
	for _, name := range elements.Keys() {
		child, ok := elements.Descriptor(name)
		if !ok {
			continue
		}
		value, _ := child.Get("value")

		switch element.Kind(child.StringValue("type")) {
		case element.KindArray:
			list, _ := element.AsList(value)
			if element.Mode(child.StringValue("mode")) == element.ModeSingle {
				if len(list) > 0 {
					out[name] = list[0]
				} else {
					out[name] = nil
				}
				continue
			}
			if list == nil {
				list = []any{}
			}
			out[name] = list
		case element.KindBool:
			if value == nil {
				value = false
			}
			out[name] = value
		case element.KindCollection:
			nested, _ := child.Descriptor("elements")
			out[name] = initialValues(nested)
		case element.KindPrototypeCollection:
			out[name] = entryValues(child)
		default:
			if value == nil {
				value = ""
			}
			out[name] = value
		}
	}
	return out
}

func entryValues(desc *element.Descriptor) []any {
	keyField := desc.StringValue("key")
	entries, _ := desc.Descriptor("elements")
	out := make([]any, 0, entries.Len())
	for _, key := range entries.Keys() {
		group, ok := entries.Descriptor(key)
		if !ok {
			continue
		}
		values := map[string]any{keyField: key}
		for field, value := range initialValues(group) {
			values[field] = value
		}
		out = append(out, values)
	}
	return out
}
