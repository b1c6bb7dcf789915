// Package openapi exports the inbound contract of a form as an OpenAPI 3
// schema and validates submitted value bags against it.
//
// Schema maps element kinds onto schema types: text and date kinds become
// strings, number becomes number with its bounds, bool becomes boolean,
// array becomes an enum of option values (a list of them in multiple mode),
// collections become objects and prototype collections lists of objects.
// Label and file elements are left out.
package openapi
