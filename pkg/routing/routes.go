// Package routing resolves route names used by form actions and autocomplete
// elements into URLs.
package routing

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// LocaleParameter is the parameter carrying the request locale.
const LocaleParameter = "_locale"

var (
	// ErrUnknownRoute reports a name with no registered pattern.
	ErrUnknownRoute = errors.New("routing: unknown route")
	// ErrMissingParameter reports a placeholder left without a value.
	ErrMissingParameter = errors.New("routing: missing parameter")
)

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(?::[^}]*)?\}`)

// Routes maps route names to path patterns such as `/contact/{id}`. The
// chi style `{id:[0-9]+}` is accepted; the regular expression is ignored.
type Routes struct {
	mu       sync.RWMutex
	patterns map[string]string
}

// New returns a table holding patterns.
func New(patterns map[string]string) *Routes {
	r := &Routes{patterns: make(map[string]string, len(patterns))}
	for name, pattern := range patterns {
		r.patterns[name] = pattern
	}
	return r
}

// Add registers pattern under name, replacing any previous pattern.
func (r *Routes) Add(name, pattern string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.patterns == nil {
		r.patterns = make(map[string]string)
	}
	r.patterns[name] = pattern
}

// Pattern returns the pattern registered under name.
func (r *Routes) Pattern(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pattern, ok := r.patterns[name]
	return pattern, ok
}

// Names returns the registered names, sorted.
func (r *Routes) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.patterns))
	for name := range r.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generator builds URLs from a route table.
type Generator struct {
	routes *Routes
	base   string
	locale string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithBaseURL prefixes generated paths, for example `https://example.com`.
func WithBaseURL(base string) GeneratorOption {
	return func(g *Generator) {
		g.base = strings.TrimRight(base, "/")
	}
}

// WithLocale adds `_locale` to every generated URL unless the parameters
// already carry one.
func WithLocale(locale string) GeneratorOption {
	return func(g *Generator) {
		g.locale = locale
	}
}

// NewGenerator returns a Generator over routes.
func NewGenerator(routes *Routes, opts ...GeneratorOption) *Generator {
	g := &Generator{routes: routes}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// WithLocale returns a copy of g generating URLs for locale.
func (g *Generator) WithLocale(locale string) *Generator {
	clone := *g
	clone.locale = locale
	return &clone
}

// Generate fills the placeholders of the route named name from params and
// appends the remaining parameters as a sorted query string.
func (g *Generator) Generate(name string, params map[string]any) (string, error) {
	pattern, ok := g.routes.Pattern(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	remaining := make(map[string]any, len(params)+1)
	for key, value := range params {
		remaining[key] = value
	}
	if _, ok := remaining[LocaleParameter]; !ok && g.locale != "" {
		remaining[LocaleParameter] = g.locale
	}

	var missing []string
	path := placeholder.ReplaceAllStringFunc(pattern, func(match string) string {
		key := placeholder.FindStringSubmatch(match)[1]
		value, ok := remaining[key]
		if !ok || value == nil {
			missing = append(missing, key)
			return match
		}
		delete(remaining, key)
		return url.PathEscape(element.KeyString(value))
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: route %q needs %s", ErrMissingParameter, name, strings.Join(missing, ", "))
	}

	query := make(url.Values, len(remaining))
	for key, value := range remaining {
		if value == nil {
			continue
		}
		if list, ok := element.AsList(value); ok {
			for _, item := range list {
				query.Add(key, element.KeyString(item))
			}
			continue
		}
		query.Set(key, element.KeyString(value))
	}

	out := g.base + path
	if encoded := query.Encode(); encoded != "" {
		out += "?" + encoded
	}
	return out, nil
}

// Resolve adds a `url` entry to the action of a rendered form and to every
// autocomplete element, when their routes are registered. Autocomplete elements
// inside collections and prototype entries are resolved too.
func (g *Generator) Resolve(desc *element.Descriptor) error {
	if action, ok := desc.Descriptor("action"); ok {
		route := action.StringValue("route")
		if _, known := g.routes.Pattern(route); known {
			params, _ := action.Get("parameters")
			bag, _ := element.AsMap(params)
			target, err := g.Generate(route, bag)
			if err != nil {
				return err
			}
			action.Set("url", target)
		}
	}
	if elements, ok := desc.Descriptor("elements"); ok {
		g.resolveElements(elements)
	}
	return nil
}

func (g *Generator) resolveElements(elements *element.Descriptor) {
	for _, name := range elements.Keys() {
		el, ok := elements.Descriptor(name)
		if !ok {
			continue
		}
		switch element.Kind(el.StringValue("type")) {
		case element.KindAutocomplete:
			if _, known := g.routes.Pattern(el.StringValue("route")); !known {
				continue
			}
			if target, err := g.Generate(el.StringValue("route"), nil); err == nil {
				el.Set("url", target)
			}
		case element.KindCollection:
			if children, ok := el.Descriptor("elements"); ok {
				g.resolveElements(children)
			}
		case element.KindPrototypeCollection:
			if entries, ok := el.Descriptor("elements"); ok {
				for _, key := range entries.Keys() {
					if group, ok := entries.Descriptor(key); ok {
						g.resolveElements(group)
					}
				}
			}
			if prototype, ok := el.Descriptor("prototype"); ok {
				g.resolveElements(prototype)
			}
		}
	}
}
