package autocomplete

import (
	"net/http"

	"github.com/goliatone/go-jsonform/pkg/routing"
)

// Component bundles a named lookup endpoint: its handler, configuration and
// routing helpers. The name doubles as the route name autocomplete elements
// refer to.
type Component struct {
	name string
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(name string, fns ...OptionFn) *Component {
	return &Component{name: name, opts: NewOptions(fns...)}
}

// Name returns the route name of the component.
func (c *Component) Name() string { return c.name }

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns the lookup handler.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return NewHandler()
	}
	return HandlerWithOptions(c.opts)
}

// RegisterRoutes registers the handler under basePath on mux and records the
// mount path under the component name in routes when routes is set.
func (c *Component) RegisterRoutes(mux Mux, routes *routing.Routes, basePath string) (string, error) {
	pattern, err := RegisterRoutesWithOptions(mux, basePath, c.opts)
	if err != nil {
		return "", err
	}
	if routes != nil {
		routes.Add(c.name, pattern)
	}
	return pattern, nil
}
