package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages keyed by the dotted element paths of a rendered form
// (`address.city`, `items.<key>.label`).
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises error payloads (dotted paths, JSON pointers,
// bracket notation) onto the element paths of desc, a rendered form
// descriptor. Unknown paths are treated as form-level errors so messages are
// not lost.
func MapErrorPayload(desc *element.Descriptor, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	fieldPaths := make(map[string]struct{})
	if elements, ok := desc.Descriptor("elements"); ok {
		collectFieldPaths(elements, "", fieldPaths)
	}

	for rawPath, messages := range payload {
		normalizedMessages := normalizeMessages(messages)
		if len(normalizedMessages) == 0 {
			continue
		}

		mapped, formLevel := mapErrorPath(rawPath, fieldPaths, desc.StringValue("name"))
		if formLevel || mapped == "" {
			mapping.Form = append(mapping.Form, normalizedMessages...)
			continue
		}
		mapping.Fields[mapped] = append(mapping.Fields[mapped], normalizedMessages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, fieldPaths map[string]struct{}, formName string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}

	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", true
	}

	best := ""
	for _, variant := range buildSegmentVariants(segments, formName) {
		if path := longestMatchingPath(variant, fieldPaths); path != "" {
			if len(pathSegments(path)) > len(pathSegments(best)) {
				best = path
			}
		}
	}

	if best != "" {
		return best, false
	}

	return "", true
}

func parsePathSegments(path string) []string {
	if path == "" {
		return nil
	}

	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimPrefix(clean, "#")
		clean = strings.TrimPrefix(clean, "/")
		clean = strings.TrimPrefix(clean, ".")
		clean = strings.TrimPrefix(clean, "$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func buildSegmentVariants(segments []string, formName string) [][]string {
	var variants [][]string
	seen := make(map[string]struct{}, 4)

	appendVariant := func(candidate []string) {
		if len(candidate) == 0 {
			return
		}
		key := strings.Join(candidate, ".")
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		var copyCandidate []string
		copyCandidate = append(copyCandidate, candidate...)
		variants = append(variants, copyCandidate)
	}

	appendVariant(segments)

	noWrappers := dropWrapperSegments(segments, formName)
	appendVariant(noWrappers)
	appendVariant(stripNumericSegments(segments))
	appendVariant(stripNumericSegments(noWrappers))

	return variants
}

// dropWrapperSegments strips envelope segments, including the form name
// submissions are addressed by.
func dropWrapperSegments(segments []string, formName string) []string {
	if len(segments) == 0 {
		return segments
	}

	wrappers := map[string]struct{}{
		"body":       {},
		"request":    {},
		"payload":    {},
		"data":       {},
		"attributes": {},
	}
	if formName != "" {
		wrappers[strings.ToLower(formName)] = struct{}{}
	}

	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}

	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestMatchingPath(segments []string, fieldPaths map[string]struct{}) string {
	if len(segments) == 0 || len(fieldPaths) == 0 {
		return ""
	}

	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := fieldPaths[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func pathSegments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func collectFieldPaths(elements *element.Descriptor, prefix string, dest map[string]struct{}) {
	for _, name := range elements.Keys() {
		child, ok := elements.Descriptor(name)
		if !ok {
			continue
		}
		path := joinPath(prefix, name)
		dest[path] = struct{}{}

		switch element.Kind(child.StringValue("type")) {
		case element.KindCollection:
			if nested, ok := child.Descriptor("elements"); ok {
				collectFieldPaths(nested, path, dest)
			}
		case element.KindPrototypeCollection:
			collectEntryPaths(child, path, dest)
		}
	}
}

// collectEntryPaths registers `<path>.<key>.<child>` for rendered entries and
// `<path>.<child>` from the prototype so index-stripped variants still match.
func collectEntryPaths(desc *element.Descriptor, prefix string, dest map[string]struct{}) {
	if entries, ok := desc.Descriptor("elements"); ok {
		for _, key := range entries.Keys() {
			if group, ok := entries.Descriptor(key); ok {
				entryPath := joinPath(prefix, key)
				dest[entryPath] = struct{}{}
				collectFieldPaths(group, entryPath, dest)
			}
		}
	}
	if prototype, ok := desc.Descriptor("prototype"); ok {
		collectFieldPaths(prototype, prefix, dest)
	}
}

func joinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}

// AttachErrors writes mapped messages onto desc: field messages under the
// `errors` key of the matching element descriptor, form messages under the
// form's own `errors` key.
func AttachErrors(desc *element.Descriptor, mapping ErrorMapping) {
	if desc == nil {
		return
	}
	if len(mapping.Form) > 0 {
		desc.Set("errors", mapping.Form)
	}
	elements, ok := desc.Descriptor("elements")
	if !ok {
		return
	}
	for path, messages := range mapping.Fields {
		if target := resolveElement(elements, pathSegments(path)); target != nil {
			target.Set("errors", messages)
		}
	}
}

func resolveElement(elements *element.Descriptor, segments []string) *element.Descriptor {
	for len(segments) > 0 {
		current, ok := elements.Descriptor(segments[0])
		if !ok {
			return nil
		}
		segments = segments[1:]
		if len(segments) == 0 {
			return current
		}

		switch element.Kind(current.StringValue("type")) {
		case element.KindCollection:
			elements, ok = current.Descriptor("elements")
		case element.KindPrototypeCollection:
			entries, _ := current.Descriptor("elements")
			if group, found := entries.Descriptor(segments[0]); found {
				if len(segments) == 1 {
					return nil
				}
				elements, ok = group, true
				segments = segments[1:]
				break
			}
			elements, ok = current.Descriptor("prototype")
		default:
			return nil
		}
		if !ok {
			return nil
		}
	}
	return nil
}
