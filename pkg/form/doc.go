// Package form assembles elements into a form, renders it against a DTO and
// binds submitted requests back into the DTO.
//
// A Definition declares the form: its name, method, DTO type, action and
// elements. A Service wraps a definition and exposes the two entry points:
//
//	svc := form.NewService(contactForm{}, form.WithTranslator(catalog))
//	desc, err := svc.Render(ctx, nil, form.WithLocale("es"))
//	dto, err := svc.Handle(r)
//
// Render output is `{name, method, action, elements}`. Handle reads the query
// string for GET forms and a JSON body addressed by the form name for
// POST, PUT and PATCH forms, with form-encoded bodies as a fallback.
// Submitted values are not checked against element options unless an
// InboundValidator is configured.
package form
