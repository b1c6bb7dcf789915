package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// HiddenField represents a hidden element appended to a rendered form. Use the
// helpers (CSRFToken, AuthToken, VersionField) to add common fields without
// repeating boilerplate.
type HiddenField struct {
	Name  string
	Value any
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: value,
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Element
// names are alphanumeric, so use names such as "csrfToken".
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// AuthToken constructs a hidden field carrying an authentication token or
// session hint.
func AuthToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField constructs a hidden field used for optimistic locking.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// MergeHiddenFields returns base with fields applied. Empty names are ignored;
// later fields win on name collisions.
func MergeHiddenFields(base map[string]any, fields ...HiddenField) map[string]any {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]any) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// AppendHidden renders fields as hidden elements at the end of the form
// descriptor's `elements`, sorted by name. A name already used by the form
// fails with element.ErrDuplicateName.
func AppendHidden(desc *element.Descriptor, fields ...HiddenField) error {
	if desc == nil || len(fields) == 0 {
		return nil
	}
	elements, ok := desc.Descriptor("elements")
	if !ok {
		elements = element.NewDescriptor()
		desc.Set("elements", elements)
	}
	for _, field := range SortedHiddenFields(MergeHiddenFields(nil, fields...)) {
		if _, exists := elements.Get(field.Name); exists {
			return &element.NameError{Name: field.Name, Err: element.ErrDuplicateName}
		}
		hidden, err := element.NewHidden(field.Name)
		if err != nil {
			return err
		}
		rendered, err := hidden.Render(field.Value)
		if err != nil {
			return fmt.Errorf("render: hidden field: %w", err)
		}
		elements.Set(field.Name, rendered)
	}
	return nil
}
