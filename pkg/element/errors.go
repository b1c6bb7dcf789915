package element

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrInvalidName reports an element name that is not a safe identifier.
	ErrInvalidName = errors.New("element: invalid name")
	// ErrDuplicateName reports a second element registered under an existing
	// name within one collection.
	ErrDuplicateName = errors.New("element: duplicate name")
	// ErrInvalidMode reports a select/autocomplete mode outside the accepted set.
	ErrInvalidMode = errors.New("element: invalid mode")
	// ErrInvalidValue reports a render-time value that fails its element's rule.
	ErrInvalidValue = errors.New("element: invalid value")
)

// NameError carries the offending name for ErrInvalidName and ErrDuplicateName.
type NameError struct {
	Name string
	Err  error
}

func (e *NameError) Error() string {
	if errors.Is(e.Err, ErrDuplicateName) {
		return fmt.Sprintf("duplicate element name `%s`", e.Name)
	}
	return fmt.Sprintf("invalid element name `%s`", e.Name)
}

func (e *NameError) Unwrap() error { return e.Err }

// ModeError is returned when an element is constructed with an unsupported mode.
type ModeError struct {
	Name     string
	Mode     Mode
	Accepted []Mode
}

func (e *ModeError) Error() string {
	accepted := make([]string, 0, len(e.Accepted))
	for _, mode := range e.Accepted {
		accepted = append(accepted, string(mode))
	}
	return fmt.Sprintf("invalid mode `%s` for `%s` element; accepted: `%s`", e.Mode, e.Name, strings.Join(accepted, ", "))
}

func (e *ModeError) Unwrap() error { return ErrInvalidMode }

// ValueError identifies the element whose value failed validation and keeps
// the offending value (or the offending members for list values).
type ValueError struct {
	Name  string
	Value any
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value `%s` for `%s`", DescribeValue(e.Value), e.Name)
}

func (e *ValueError) Unwrap() error { return ErrInvalidValue }

func invalidValue(name string, value any) error {
	return &ValueError{Name: name, Value: value}
}

// DescribeValue renders a value for error messages: scalars verbatim, lists
// joined by commas, anything else by its type.
func DescribeValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return "null"
	case string:
		return typed
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(typed)
	case numeric:
		return fmt.Sprint(typed)
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, DescribeValue(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(typed, ", ")
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, DescribeValue(rv.Index(i).Interface()))
		}
		return strings.Join(parts, ", ")
	case reflect.Map:
		return fmt.Sprintf("unknown type `%s`", rv.Type())
	case reflect.Pointer, reflect.Struct:
		return rv.Type().String()
	}
	return fmt.Sprintf("unknown type `%T`", value)
}
