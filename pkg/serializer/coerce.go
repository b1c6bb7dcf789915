package serializer

import (
	"reflect"
	"strconv"
	"strings"
)

// Coerce converts string scalars inside value to the kinds t expects: numbers,
// booleans, and single values wrapped into lists. Values that cannot be
// converted are left untouched so decoding reports them.
func Coerce(value any, t reflect.Type) any {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || value == nil {
		return value
	}

	switch typed := value.(type) {
	case string:
		return coerceString(typed, t)
	case []any:
		if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
			return value
		}
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Coerce(item, t.Elem())
		}
		return out
	case map[string]any:
		switch t.Kind() {
		case reflect.Struct:
			out := make(map[string]any, len(typed))
			for key, item := range typed {
				if field, ok := fieldByJSONName(t, key); ok {
					out[key] = Coerce(item, field.Type)
					continue
				}
				out[key] = item
			}
			return out
		case reflect.Map:
			out := make(map[string]any, len(typed))
			for key, item := range typed {
				out[key] = Coerce(item, t.Elem())
			}
			return out
		case reflect.Slice, reflect.Array:
			if list, ok := indexedList(typed); ok {
				return Coerce(list, t)
			}
		}
	}
	return value
}

func coerceString(raw string, t reflect.Type) any {
	trimmed := strings.TrimSpace(raw)
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f == float64(int64(f)) {
			return int64(f)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, err := strconv.ParseUint(trimmed, 10, 64); err == nil {
			return n
		}
	case reflect.Float32, reflect.Float64:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	case reflect.Bool:
		if b, ok := ParseBool(trimmed); ok {
			return b
		}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return raw
		}
		return []any{coerceString(raw, t.Elem())}
	}
	return raw
}

// ParseBool accepts the spellings browsers and query strings use for
// checkboxes.
func ParseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes", "y":
		return true, true
	case "0", "false", "off", "no", "n", "":
		return false, true
	}
	return false, false
}

func fieldByJSONName(t reflect.Type, name string) (reflect.StructField, bool) {
	var folded *reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() && !field.Anonymous {
			continue
		}
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		tagName, _, _ := strings.Cut(tag, ",")
		if field.Anonymous && tagName == "" {
			inner := field.Type
			if inner.Kind() == reflect.Pointer {
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				if found, ok := fieldByJSONName(inner, name); ok {
					return found, true
				}
			}
			continue
		}
		if tagName == "" {
			tagName = field.Name
		}
		if tagName == name {
			return field, true
		}
		if folded == nil && strings.EqualFold(tagName, name) {
			f := field
			folded = &f
		}
	}
	if folded != nil {
		return *folded, true
	}
	return reflect.StructField{}, false
}

// indexedList converts a map keyed 0..n-1 into a list.
func indexedList(bag map[string]any) ([]any, bool) {
	if len(bag) == 0 {
		return nil, false
	}
	out := make([]any, len(bag))
	for key, value := range bag {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(bag) || strconv.Itoa(idx) != key {
			return nil, false
		}
		out[idx] = value
	}
	return out, true
}
