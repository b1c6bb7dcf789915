package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/form"
)

// Extension keys carried on exported schemas.
const (
	ExtensionKind   = "x-jsonform-kind"
	ExtensionFormat = "x-jsonform-format"
	ExtensionStep   = "x-jsonform-step"
	ExtensionKey    = "x-jsonform-key"
	ExtensionRoute  = "x-jsonform-route"
)

type requirer interface{ Required() bool }
type readonlyer interface{ Readonly() bool }

// Schema exports the values a form accepts as an object schema. Label and
// file elements submit nothing and are left out.
func Schema(f *form.Form) *openapi3.Schema {
	return objectSchema(f.Elements())
}

// Envelope wraps the form schema under the form name, the shape of JSON
// request bodies.
func Envelope(f *form.Form) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	out.Properties = openapi3.Schemas{f.Name(): openapi3.NewSchemaRef("", Schema(f))}
	out.Required = []string{f.Name()}
	return out
}

func objectSchema(registry *element.Registry) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	out.Properties = make(openapi3.Schemas)
	for _, el := range registry.Elements() {
		schema := ElementSchema(el)
		if schema == nil {
			continue
		}
		out.Properties[el.Name()] = openapi3.NewSchemaRef("", schema)
		if r, ok := el.(requirer); ok && r.Required() {
			out.Required = append(out.Required, el.Name())
		}
	}
	return out
}

// ElementSchema returns the schema of one element, nil for kinds that submit
// no value.
func ElementSchema(el element.Element) *openapi3.Schema {
	var schema *openapi3.Schema
	switch typed := el.(type) {
	case *element.String:
		schema = openapi3.NewStringSchema()
	case *element.Password:
		schema = openapi3.NewStringSchema().WithFormat("password")
	case *element.Number:
		schema = openapi3.NewFloat64Schema()
		if min, ok := typed.Min(); ok {
			schema.Min = &min
		}
		if max, ok := typed.Max(); ok {
			schema.Max = &max
		}
		if step, ok := typed.Step(); ok {
			schema.Extensions = map[string]any{ExtensionStep: step}
		}
	case *element.Bool:
		schema = openapi3.NewBoolSchema()
	case *element.Date:
		schema = openapi3.NewStringSchema()
		schema.Extensions = map[string]any{ExtensionFormat: typed.Format()}
	case *element.DateTime:
		schema = openapi3.NewStringSchema()
		schema.Extensions = map[string]any{ExtensionFormat: typed.Format()}
	case *element.Hidden:
		schema = scalarSchema()
	case *element.Array:
		enum := openapi3.NewStringSchema()
		for _, value := range typed.Options().Values() {
			enum.Enum = append(enum.Enum, value)
		}
		schema = listOrSingle(enum, typed.Mode())
	case *element.Autocomplete:
		schema = listOrSingle(scalarSchema(), typed.Mode())
		schema.Extensions = map[string]any{ExtensionRoute: typed.Route()}
	case *element.Collection:
		schema = objectSchema(typed.Children())
	case *element.PrototypeCollection:
		schema = openapi3.NewArraySchema().WithItems(objectSchema(typed.Prototype()))
		schema.Extensions = map[string]any{ExtensionKey: typed.Key()}
	default:
		return nil
	}

	schema.Title = el.Label()
	if r, ok := el.(requirer); !ok || !r.Required() {
		schema.Nullable = true
	}
	if r, ok := el.(readonlyer); ok && r.Readonly() {
		schema.ReadOnly = true
	}
	if schema.Extensions == nil {
		schema.Extensions = make(map[string]any, 1)
	}
	schema.Extensions[ExtensionKind] = string(el.Kind())
	return schema
}

func scalarSchema() *openapi3.Schema {
	return &openapi3.Schema{
		AnyOf: openapi3.SchemaRefs{
			openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
			openapi3.NewSchemaRef("", openapi3.NewFloat64Schema()),
			openapi3.NewSchemaRef("", openapi3.NewBoolSchema()),
		},
	}
}

func listOrSingle(item *openapi3.Schema, mode element.Mode) *openapi3.Schema {
	if mode == element.ModeMultiple {
		return openapi3.NewArraySchema().WithItems(item)
	}
	return item
}

// Document bundles the schemas of forms into an OpenAPI document: one
// component schema per form and one submit operation per form.
func Document(title, version string, forms ...*form.Form) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas, len(forms)),
		},
	}
	for _, f := range forms {
		doc.Components.Schemas[f.Name()] = openapi3.NewSchemaRef("", Schema(f))

		envelope := openapi3.NewObjectSchema()
		envelope.Properties = openapi3.Schemas{
			f.Name(): openapi3.NewSchemaRef("#/components/schemas/"+f.Name(), nil),
		}
		op := openapi3.NewOperation()
		op.OperationID = f.Name()
		op.Responses = openapi3.NewResponses()
		if f.Method() == "GET" {
			for _, name := range f.Elements().Names() {
				ref := doc.Components.Schemas[f.Name()].Value.Properties[name]
				if ref == nil {
					continue
				}
				op.AddParameter(openapi3.NewQueryParameter(name).WithSchema(ref.Value))
			}
		} else {
			op.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithJSONSchema(envelope),
			}
		}
		doc.AddOperation("/forms/"+f.Name()+"/submit", f.Method(), op)
	}
	return doc
}
