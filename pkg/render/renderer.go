package render

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// Renderer encodes a rendered form descriptor for a client.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, desc *element.Descriptor) ([]byte, error)
}

// JSONRenderer writes the descriptor itself, keys in render order.
type JSONRenderer struct {
	Indent bool
}

func (JSONRenderer) Name() string        { return "json" }
func (JSONRenderer) ContentType() string { return "application/json" }

func (r JSONRenderer) Render(_ context.Context, desc *element.Descriptor) ([]byte, error) {
	if r.Indent {
		return json.MarshalIndent(desc, "", "  ")
	}
	return json.Marshal(desc)
}

// ValuesRenderer writes the initial value bag of the descriptor, addressed by
// the form name when the descriptor carries one.
type ValuesRenderer struct {
	Indent bool
}

func (ValuesRenderer) Name() string        { return "values" }
func (ValuesRenderer) ContentType() string { return "application/json" }

func (r ValuesRenderer) Render(_ context.Context, desc *element.Descriptor) ([]byte, error) {
	var payload any = InitialValues(desc)
	if name := desc.StringValue("name"); name != "" {
		if _, isElement := desc.Get("type"); !isElement {
			payload = map[string]any{name: payload}
		}
	}
	var (
		out []byte
		err error
	)
	if r.Indent {
		out, err = json.MarshalIndent(payload, "", "  ")
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("render: encode values: %w", err)
	}
	return out, nil
}

// DefaultRegistry returns a registry holding the json and values renderers.
func DefaultRegistry(indent bool) *Registry {
	registry := NewRegistry()
	registry.MustRegister(JSONRenderer{Indent: indent})
	registry.MustRegister(ValuesRenderer{Indent: indent})
	return registry
}
