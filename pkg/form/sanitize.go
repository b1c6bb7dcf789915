package form

// Sanitize returns a copy of bag without empty strings and without maps or
// lists left empty once their own content is sanitized. Submitting an empty
// string therefore leaves the DTO field unchanged.
func Sanitize(bag map[string]any) map[string]any {
	out := make(map[string]any, len(bag))
	for key, value := range bag {
		if clean, keep := sanitizeValue(value); keep {
			out[key] = clean
		}
	}
	return out
}

func sanitizeValue(value any) (any, bool) {
	switch v := value.(type) {
	case string:
		return v, v != ""
	case map[string]any:
		clean := Sanitize(v)
		return clean, len(clean) > 0
	case []any:
		clean := make([]any, 0, len(v))
		for _, item := range v {
			if item, keep := sanitizeValue(item); keep {
				clean = append(clean, item)
			}
		}
		return clean, len(clean) > 0
	default:
		return value, true
	}
}
