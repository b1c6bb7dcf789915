// Package jsonform builds forms from Go definitions or declarative files,
// renders them as ordered JSON descriptors and binds submissions into DTOs.
//
// The root package re-exports the types most callers need and adds one-shot
// helpers; the building blocks live under pkg/.
package jsonform

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/goliatone/go-jsonform/pkg/definition"
	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/form"
	"github.com/goliatone/go-jsonform/pkg/render"
)

// Definition declares a form; alias exported via the root package for
// convenience.
type Definition = form.Definition

// Declaration implements Definition from plain values and functions.
type Declaration = form.Declaration

// Builder collects the elements of a form while it is built.
type Builder = form.Builder

// Action is the submission target of a form.
type Action = form.Action

// Service renders and handles one form definition.
type Service = form.Service

// Registry indexes services by form name.
type Registry = form.Registry

// Descriptor is the ordered document a render produces.
type Descriptor = element.Descriptor

// ValidationError groups inbound validation messages by field path.
type ValidationError = form.ValidationError

// NewService exposes the service constructor from the top-level module.
func NewService(def Definition, opts ...form.ServiceOption) *Service {
	return form.NewService(def, opts...)
}

// EmbeddedDefinitions exposes the bundled example definitions so callers can
// serve them or use them as a starting point.
func EmbeddedDefinitions() fs.FS {
	return definition.EmbeddedFS()
}

// LoadDefinitions parses every definition file under fsys and registers one
// service per form, each built with opts.
func LoadDefinitions(fsys fs.FS, opts ...form.ServiceOption) (*Registry, error) {
	store, err := definition.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	services := make([]*Service, 0, len(store.Names()))
	for _, f := range store.Forms() {
		services = append(services, form.NewService(f, opts...))
	}
	return form.NewRegistry(services...)
}

// RenderJSON renders def for dto, a fresh DTO when nil, and encodes the
// descriptor. It is the simplest entry point for callers that just want the
// JSON a frontend consumes.
func RenderJSON(ctx context.Context, def Definition, dto any, opts ...form.RenderOption) ([]byte, error) {
	desc, err := form.NewService(def).Render(ctx, dto, opts...)
	if err != nil {
		return nil, err
	}
	out, err := render.JSONRenderer{}.Render(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("jsonform: encode %q: %w", def.Name(), err)
	}
	return out, nil
}

// Bind extracts the submission of def from r into a fresh DTO, or into the
// target passed with form.Into.
func Bind(r *http.Request, def Definition, opts ...form.HandleOption) (any, error) {
	return form.NewService(def).Handle(r, opts...)
}
