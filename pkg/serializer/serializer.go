package serializer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	json "github.com/goccy/go-json"
)

var (
	// ErrNotObject is returned when a DTO or a payload does not encode to a
	// JSON object.
	ErrNotObject = errors.New("serializer: value is not an object")
	// ErrInvalidTarget is returned when Denormalize receives something other
	// than a non-nil pointer.
	ErrInvalidTarget = errors.New("serializer: target must be a non-nil pointer")
)

// JSON converts DTOs to value bags and back by going through their JSON
// encoding, so `json` struct tags define the field names.
type JSON struct{}

// New returns the default serializer.
func New() *JSON { return &JSON{} }

// Normalize encodes dto into a value bag. Numbers are kept as json.Number so
// integer precision survives the round trip.
func (s *JSON) Normalize(dto any) (map[string]any, error) {
	if dto == nil {
		return map[string]any{}, nil
	}
	payload, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("serializer: normalize %T: %w", dto, err)
	}
	decoded, err := Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("serializer: normalize %T: %w", dto, err)
	}
	if decoded == nil {
		return map[string]any{}, nil
	}
	bag, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T normalizes to %T", ErrNotObject, dto, decoded)
	}
	return bag, nil
}

// Denormalize writes bag into target, which must be a pointer. Fields absent
// from bag keep their current value, so an existing DTO can be populated in
// place. With weak set, string scalars are converted to the target field
// types first (query strings and form posts carry only strings).
func (s *JSON) Denormalize(bag map[string]any, target any, weak bool) error {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	var value any = bag
	if weak {
		value = Coerce(bag, rv.Type().Elem())
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializer: denormalize into %T: %w", target, err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("serializer: denormalize into %T: %w", target, err)
	}
	return nil
}

// Decode reads one JSON document with numbers kept as json.Number. An empty
// input decodes to nil.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// DecodeObject is Decode restricted to JSON objects.
func DecodeObject(r io.Reader) (map[string]any, error) {
	decoded, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if decoded == nil {
		return map[string]any{}, nil
	}
	bag, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, decoded)
	}
	return bag, nil
}
