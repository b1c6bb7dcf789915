package element

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: a map key or a list index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a map key segment.
func Key(key string) Segment { return Segment{key: key} }

// Index returns a list index segment.
func Index(index int) Segment { return Segment{index: index, isIndex: true} }

// IsIndex reports whether the segment was built as a list index.
func (s Segment) IsIndex() bool { return s.isIndex }

// String renders the segment as it appears in a dotted path.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// asIndex interprets the segment as a list position; key segments holding a
// decimal integer qualify too. Negative positions never qualify.
func (s Segment) asIndex() (int, bool) {
	if s.isIndex {
		return s.index, s.index >= 0
	}
	idx, err := strconv.Atoi(s.key)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// Path addresses a value inside a nested value bag or descriptor, for
// example `address.city` or `phones.0.number`.
type Path []Segment

// ParsePath splits a dotted path. Every segment is kept as a key; numeric
// keys still resolve list positions during lookup.
func ParsePath(dotted string) Path {
	dotted = strings.Trim(strings.TrimSpace(dotted), ".")
	if dotted == "" {
		return nil
	}
	parts := strings.Split(dotted, ".")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, Key(part))
	}
	return out
}

// Child returns a copy of p extended with segments.
func (p Path) Child(segments ...Segment) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)
	return append(out, segments...)
}

// String joins the segments with dots.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, segment := range p {
		parts[i] = segment.String()
	}
	return strings.Join(parts, ".")
}

// Lookup resolves path inside root. Maps (including descriptors) are
// addressed by key, lists by index. A missing intermediate is reported as
// absent, never as an error.
func Lookup(root any, path Path) (any, bool) {
	current := root
	for _, segment := range path {
		switch node := current.(type) {
		case *Descriptor:
			next, ok := node.Get(segment.String())
			if !ok {
				return nil, false
			}
			current = next
		case map[string]any:
			next, ok := node[segment.String()]
			if !ok {
				return nil, false
			}
			current = next
		default:
			list, ok := AsList(current)
			if ok {
				idx, ok := segment.asIndex()
				if !ok || idx >= len(list) {
					return nil, false
				}
				current = list[idx]
				continue
			}
			bag, ok := AsMap(current)
			if !ok {
				return nil, false
			}
			next, ok := bag[segment.String()]
			if !ok {
				return nil, false
			}
			current = next
		}
	}
	return current, true
}

// Set writes value at path inside root, creating intermediate maps, or lists
// when the following segment is an index. A list grows by at most one entry,
// so an index past the end of a list fails.
func Set(root map[string]any, path Path, value any) error {
	if root == nil {
		return fmt.Errorf("element: set %q: root map is nil", path)
	}
	if len(path) == 0 {
		return fmt.Errorf("element: set: empty path")
	}
	_, err := setIn(root, path, value)
	return err
}

func setIn(node any, path Path, value any) (any, error) {
	segment := path[0]
	last := len(path) == 1

	switch container := node.(type) {
	case map[string]any:
		key := segment.String()
		if last {
			container[key] = value
			return container, nil
		}
		child, err := setIn(ensureContainer(container[key], path[1]), path[1:], value)
		if err != nil {
			return nil, err
		}
		container[key] = child
		return container, nil

	case []any:
		idx, ok := segment.asIndex()
		if !ok {
			return nil, fmt.Errorf("element: expected list index, got %q", segment)
		}
		switch {
		case idx > len(container):
			return nil, fmt.Errorf("element: index %d out of range for list of %d", idx, len(container))
		case idx == len(container):
			container = append(container, nil)
		}
		if last {
			container[idx] = value
			return container, nil
		}
		child, err := setIn(ensureContainer(container[idx], path[1]), path[1:], value)
		if err != nil {
			return nil, err
		}
		container[idx] = child
		return container, nil
	}
	return nil, fmt.Errorf("element: unexpected container %T for segment %q", node, segment)
}

func ensureContainer(existing any, next Segment) any {
	switch existing.(type) {
	case map[string]any, []any:
		return existing
	}
	if next.isIndex {
		return []any{}
	}
	return make(map[string]any)
}
