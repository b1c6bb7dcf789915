package element

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// numeric is satisfied by json.Number from both encoding/json and go-json.
type numeric interface {
	Float64() (float64, error)
	String() string
}

func isNumeric(value any) bool {
	switch typed := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case numeric:
		_, err := typed.Float64()
		return err == nil
	case string:
		return isNumericString(typed)
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// isNumericString accepts decimal and exponent notation with optional
// surrounding whitespace, the way numeric strings arrive from query strings.
func isNumericString(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return false
	}
	lower := strings.ToLower(trimmed)
	return !strings.Contains(lower, "inf") && !strings.Contains(lower, "nan") && !strings.HasPrefix(lower, "0x")
}

func isScalar(value any) bool {
	switch value.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case numeric:
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// asList coerces a value into a list: lists are copied into []any, anything
// else becomes a one element list.
func asList(value any) []any {
	switch typed := value.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(typed))
		copy(out, typed)
		return out
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out
	}
	if list, ok := reflectList(value); ok {
		return list
	}
	return []any{value}
}

func reflectList(value any) ([]any, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// AsMap reports whether value is a string-keyed map and returns it as a
// value bag. Descriptors are accepted so rendered trees can be fed back.
func AsMap(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case *Descriptor:
		if typed == nil {
			return nil, false
		}
		return typed.Map(), true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// AsList reports whether value is a list (slice or array, excluding byte
// slices) and returns its items.
func AsList(value any) ([]any, bool) {
	if typed, ok := value.([]any); ok {
		return typed, true
	}
	return reflectList(value)
}

// KeyString formats a scalar the way it appears as a descriptor key.
func KeyString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case numeric:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case bool:
		if typed {
			return "1"
		}
		return "0"
	}
	return fmt.Sprint(value)
}
