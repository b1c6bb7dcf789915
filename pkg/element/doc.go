// Package element defines the typed nodes of a form tree and their render
// contract. Each element validates one raw value from the value bag and
// projects it into an insertion-ordered Descriptor with the common
// `type`, `name` and `label` fields followed by kind-specific fields and the
// echoed `value`.
//
// Elements are grouped by Registry, an ordered set with unique names shared by
// forms, Collection and PrototypeCollection. Nested fields are addressed with
// Path (`address.city`, `phones.0.number`); Lookup treats missing
// intermediates as absent.
//
// Errors are typed (NameError, ModeError, ValueError) and unwrap to the
// package sentinels so callers can use errors.Is.
package element
