package prompt

import (
	"github.com/goliatone/go-jsonform/pkg/element"
)

// state holds the value bag being collected, seeded with the initial values
// of the rendered form.
type state struct {
	values map[string]any
}

func newState(seed map[string]any) *state {
	if seed == nil {
		seed = map[string]any{}
	}
	return &state{values: seed}
}

func (s *state) get(path element.Path) (any, bool) {
	return element.Lookup(s.values, path)
}

func (s *state) set(path element.Path, value any) error {
	return element.Set(s.values, path, value)
}

// remove drops the value at path; missing parents are ignored.
func (s *state) remove(path element.Path) {
	if len(path) == 0 {
		return
	}
	parent := any(s.values)
	if len(path) > 1 {
		var ok bool
		if parent, ok = element.Lookup(s.values, path[:len(path)-1]); !ok {
			return
		}
	}
	if bag, ok := parent.(map[string]any); ok {
		delete(bag, path[len(path)-1].String())
	}
}

func (s *state) text(path element.Path) string {
	value, ok := s.get(path)
	if !ok || value == nil {
		return ""
	}
	return element.KeyString(value)
}
