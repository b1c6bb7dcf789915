package openapi

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/form"
	"github.com/goliatone/go-jsonform/pkg/serializer"
)

// Validator checks submitted bags against the schema exported from the
// form. It implements form.InboundValidator.
type Validator struct {
	visit []openapi3.SchemaValidationOption
}

var _ form.InboundValidator = (*Validator)(nil)

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithSchemaOptions appends kin-openapi validation options.
func WithSchemaOptions(opts ...openapi3.SchemaValidationOption) ValidatorOption {
	return func(v *Validator) {
		v.visit = append(v.visit, opts...)
	}
}

// NewValidator returns a Validator reporting every failure at once.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{visit: []openapi3.SchemaValidationOption{openapi3.MultiErrors()}}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Validate coerces bag to the schema types, string scalars included when
// weak is set, and validates it. Failures are returned as a
// *form.ValidationError keyed by dotted field path.
func (v *Validator) Validate(ctx context.Context, f *form.Form, bag map[string]any, weak bool) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	schema := Schema(f)
	coerced, _ := coerce(schema, bag, weak).(map[string]any)
	if coerced == nil {
		coerced = map[string]any{}
	}

	verr := &form.ValidationError{}
	if err := schema.VisitJSON(coerced, v.visit...); err != nil {
		collect(err, verr)
	}
	checkDates(f.Elements(), coerced, "", verr)
	if !verr.Empty() {
		return nil, verr
	}
	return coerced, nil
}

func collect(err error, verr *form.ValidationError) {
	switch typed := err.(type) {
	case openapi3.MultiError:
		for _, item := range typed {
			collect(item, verr)
		}
	case *openapi3.SchemaError:
		verr.Add(strings.Join(typed.JSONPointer(), "."), typed.Reason)
	default:
		verr.Add("", err.Error())
	}
}

func coerce(schema *openapi3.Schema, value any, weak bool) any {
	if schema == nil || value == nil {
		return plain(value)
	}
	switch {
	case schema.Type.Is(openapi3.TypeObject):
		bag, ok := value.(map[string]any)
		if !ok {
			return plain(value)
		}
		out := make(map[string]any, len(bag))
		for key, item := range bag {
			if ref := schema.Properties[key]; ref != nil && ref.Value != nil {
				out[key] = coerce(ref.Value, item, weak)
				continue
			}
			out[key] = plain(item)
		}
		return out
	case schema.Type.Is(openapi3.TypeArray):
		var items *openapi3.Schema
		if schema.Items != nil {
			items = schema.Items.Value
		}
		switch typed := value.(type) {
		case []any:
			out := make([]any, len(typed))
			for i, item := range typed {
				out[i] = coerce(items, item, weak)
			}
			return out
		case map[string]any:
			keys := make([]string, 0, len(typed))
			for key := range typed {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			out := make([]any, 0, len(typed))
			for _, key := range keys {
				out = append(out, coerce(items, typed[key], weak))
			}
			return out
		default:
			if weak {
				return []any{coerce(items, value, weak)}
			}
		}
	case schema.Type.Is(openapi3.TypeNumber):
		if raw, ok := value.(string); ok && weak {
			if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				return n
			}
		}
	case schema.Type.Is(openapi3.TypeBoolean):
		if raw, ok := value.(string); ok && weak {
			if b, ok := serializer.ParseBool(raw); ok {
				return b
			}
		}
	}
	return plain(value)
}

type floater interface{ Float64() (float64, error) }

// plain converts numbers to float64 so schema checks see JSON types.
func plain(value any) any {
	switch typed := value.(type) {
	case nil, string, bool, float64:
		return value
	case floater:
		if n, err := typed.Float64(); err == nil {
			return n
		}
		return value
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case float32:
		return float64(typed)
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = plain(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = plain(item)
		}
		return out
	}
	return value
}

type temporal interface {
	Parse(raw string) (time.Time, error)
	Format() string
	Bounds() (string, string)
}

func checkDates(registry *element.Registry, bag map[string]any, prefix string, verr *form.ValidationError) {
	for _, el := range registry.Elements() {
		path := el.Name()
		if prefix != "" {
			path = prefix + "." + path
		}
		value, present := bag[el.Name()]
		if !present || value == nil {
			continue
		}
		switch typed := el.(type) {
		case temporal:
			raw, ok := value.(string)
			if !ok || raw == "" {
				continue
			}
			checkDate(typed, raw, path, verr)
		case *element.Collection:
			if nested, ok := value.(map[string]any); ok {
				checkDates(typed.Children(), nested, path, verr)
			}
		case *element.PrototypeCollection:
			entries, ok := value.([]any)
			if !ok {
				continue
			}
			for i, entry := range entries {
				if nested, ok := entry.(map[string]any); ok {
					checkDates(typed.Prototype(), nested, fmt.Sprintf("%s.%d", path, i), verr)
				}
			}
		}
	}
}

func checkDate(el temporal, raw, path string, verr *form.ValidationError) {
	at, err := el.Parse(raw)
	if err != nil {
		verr.Add(path, fmt.Sprintf("value must match the format %q", el.Format()))
		return
	}
	min, max := el.Bounds()
	if min != "" {
		if bound, err := el.Parse(min); err == nil && at.Before(bound) {
			verr.Add(path, fmt.Sprintf("value must not be before %s", min))
		}
	}
	if max != "" {
		if bound, err := el.Parse(max); err == nil && at.After(bound) {
			verr.Add(path, fmt.Sprintf("value must not be after %s", max))
		}
	}
}
