// Package autocomplete provides the lookup endpoint autocomplete elements
// point at: a small net/http handler answering `{"data":[{"value","label"}]}`
// for a search term, backed by a Source.
//
// The handler responds to GET and HEAD requests and supports search and limit
// parameters. StaticSource ranks prefix matches ahead of other matches;
// TimezoneSource serves an embedded list of IANA zone names.
package autocomplete
