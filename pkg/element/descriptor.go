package element

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// Descriptor is the JSON-serialisable payload produced by rendering an
// element or a form. Keys keep their insertion order, which is the rendering
// order consumers rely on.
type Descriptor struct {
	keys   []string
	values map[string]any
}

// NewDescriptor returns an empty descriptor.
func NewDescriptor() *Descriptor {
	return &Descriptor{values: make(map[string]any)}
}

// Set stores value under key. Re-setting a key keeps its original position.
func (d *Descriptor) Set(key string, value any) *Descriptor {
	if d.values == nil {
		d.values = make(map[string]any)
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
	return d
}

// Get returns the value stored under key.
func (d *Descriptor) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	value, ok := d.values[key]
	return value, ok
}

// Descriptor returns the nested descriptor stored under key, if any.
func (d *Descriptor) Descriptor(key string) (*Descriptor, bool) {
	value, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	nested, ok := value.(*Descriptor)
	return nested, ok && nested != nil
}

// StringValue returns the string stored under key or "".
func (d *Descriptor) StringValue(key string) string {
	value, _ := d.Get(key)
	str, _ := value.(string)
	return str
}

// Delete removes key, preserving the order of the remaining keys.
func (d *Descriptor) Delete(key string) {
	if d == nil {
		return
	}
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, existing := range d.keys {
		if existing == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (d *Descriptor) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len reports the number of keys.
func (d *Descriptor) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Lookup resolves path against the descriptor tree. A missing intermediate
// yields (nil, false).
func (d *Descriptor) Lookup(path Path) (any, bool) {
	if d == nil {
		return nil, false
	}
	return Lookup(d, path)
}

// Map converts the descriptor into plain maps and slices, dropping order.
func (d *Descriptor) Map() map[string]any {
	if d == nil {
		return nil
	}
	out := make(map[string]any, len(d.keys))
	for _, key := range d.keys {
		out[key] = plain(d.values[key])
	}
	return out
}

func plain(value any) any {
	switch typed := value.(type) {
	case *Descriptor:
		return typed.Map()
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = plain(item)
		}
		return out
	default:
		return value
	}
}

// MarshalJSON writes the keys in insertion order.
func (d *Descriptor) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encodedValue, err := json.Marshal(d.values[key])
		if err != nil {
			return nil, fmt.Errorf("element: encode %q: %w", key, err)
		}
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping key order; nested objects become
// descriptors and numbers are kept as json.Number.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("element: descriptor must be a JSON object")
	}
	decoded, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*d = *decoded
	return nil
}

func decodeObject(dec *json.Decoder) (*Descriptor, error) {
	out := NewDescriptor()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return out, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("element: unexpected object key %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out.Set(key, value)
	}
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		return decodeObject(dec)
	case '[':
		list := []any{}
		for dec.More() {
			item, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("element: unexpected delimiter %v", delim)
}
