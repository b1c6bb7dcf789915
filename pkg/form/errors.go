package form

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

var (
	// ErrWrongDTOType reports a DTO whose type differs from the type the form
	// definition declares.
	ErrWrongDTOType = errors.New("form: wrong dto type")
	// ErrUnsupportedMethod reports a request the form cannot handle.
	ErrUnsupportedMethod = errors.New("form: unsupported method")
	// ErrMalformedBody reports a request body that is not a JSON object.
	ErrMalformedBody = errors.New("form: malformed request body")
	// ErrBinding reports submitted values that do not fit the DTO.
	ErrBinding = errors.New("form: cannot bind values")
	// ErrValidation reports submitted values rejected by an inbound validator.
	ErrValidation = errors.New("form: validation failed")
	// ErrUnknownForm reports a lookup for a form that is not registered.
	ErrUnknownForm = errors.New("form: unknown form")
)

// DTOTypeError carries the expected and received DTO types.
type DTOTypeError struct {
	Form string
	Want reflect.Type
	Got  reflect.Type
}

func (e *DTOTypeError) Error() string {
	return fmt.Sprintf("invalid dto class for form `%s`: expected `%s`, got `%s`", e.Form, typeName(e.Want), typeName(e.Got))
}

func (e *DTOTypeError) Unwrap() error { return ErrWrongDTOType }

// MethodError carries the rejected request method.
type MethodError struct {
	Form   string
	Method string
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("can not handle `%s` request method", e.Method)
}

func (e *MethodError) Unwrap() error { return ErrUnsupportedMethod }

// ValidationError groups inbound validation messages by dotted field path.
// Messages that belong to no field are kept in Form.
type ValidationError struct {
	Fields map[string][]string
	Form   []string
}

// Add records message for path; an empty path is form level.
func (e *ValidationError) Add(path, message string) {
	if path == "" {
		e.Form = append(e.Form, message)
		return
	}
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[path] = append(e.Fields[path], message)
}

// Empty reports whether no message was recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && len(e.Form) == 0)
}

// Payload merges field and form messages into one map, form messages under
// the empty key.
func (e *ValidationError) Payload() map[string][]string {
	out := make(map[string][]string, len(e.Fields)+1)
	for path, messages := range e.Fields {
		out[path] = append([]string(nil), messages...)
	}
	if len(e.Form) > 0 {
		out[""] = append([]string(nil), e.Form...)
	}
	return out
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for path := range e.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	parts := make([]string, 0, len(paths)+len(e.Form))
	parts = append(parts, e.Form...)
	for _, path := range paths {
		parts = append(parts, path+": "+strings.Join(e.Fields[path], ", "))
	}
	return "form: validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
