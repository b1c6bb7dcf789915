package element

import (
	"sort"
	"strconv"
)

// Collection groups child elements under one nested value scope.
type Collection struct {
	base
	children *Registry
}

// NewCollection builds a collection holding children.
func NewCollection(name, label string, children []Element, opts ...Option) (*Collection, error) {
	b, err := newBase(KindCollection, name, label, newSettings(opts))
	if err != nil {
		return nil, err
	}
	registry, err := NewRegistry(children...)
	if err != nil {
		return nil, err
	}
	return &Collection{base: b, children: registry}, nil
}

// Add registers more children.
func (e *Collection) Add(children ...Element) error { return e.children.Add(children...) }

// Children returns the child registry.
func (e *Collection) Children() *Registry { return e.children }

// Render accepts nil or a map; nil renders every child against nil.
func (e *Collection) Render(value any) (*Descriptor, error) {
	bag, err := scope(e.name, value)
	if err != nil {
		return nil, err
	}
	elements, err := e.children.Render(bag)
	if err != nil {
		return nil, err
	}
	return e.header().Set("elements", elements), nil
}

// PrototypeCollection is a repeatable group: its prototype children are
// rendered once per entry, each rendered group keyed by the entry key.
type PrototypeCollection struct {
	base
	prototype     *Registry
	key           string
	renderDefault bool
	keyFunc       func() string
}

// NewPrototypeCollection builds a repeatable group over prototype. The entry
// key field defaults to the element name.
func NewPrototypeCollection(name, label string, prototype []Element, opts ...Option) (*PrototypeCollection, error) {
	cfg := newSettings(opts)
	b, err := newBase(KindPrototypeCollection, name, label, cfg)
	if err != nil {
		return nil, err
	}
	registry, err := NewRegistry(prototype...)
	if err != nil {
		return nil, err
	}
	key := cfg.key
	if key == "" {
		key = name
	}
	return &PrototypeCollection{
		base:          b,
		prototype:     registry,
		key:           key,
		renderDefault: cfg.renderDefault,
		keyFunc:       cfg.keyFunc,
	}, nil
}

// Add registers more prototype children.
func (e *PrototypeCollection) Add(children ...Element) error { return e.prototype.Add(children...) }

// Prototype returns the prototype registry.
func (e *PrototypeCollection) Prototype() *Registry { return e.prototype }

// Key returns the entry field holding each entry key.
func (e *PrototypeCollection) Key() string { return e.key }

// RendersDefault reports whether a nil value renders one blank entry.
func (e *PrototypeCollection) RendersDefault() bool { return e.renderDefault }

// NewKey generates a key for an entry added outside the server.
func (e *PrototypeCollection) NewKey() string { return e.keyFunc() }

// Entry is one value map of a prototype collection with its resolved key.
type Entry struct {
	Key    string
	Values map[string]any
}

// Entries resolves the entries of value: a list of maps keyed by their key
// field, or a map of maps keyed by map key in sorted order. A list entry
// without a key takes its list index, or the next free integer when another
// entry already claims that index. Duplicate explicit keys fail with
// ErrInvalidValue.
func (e *PrototypeCollection) Entries(value any) ([]Entry, error) {
	if value == nil {
		if e.renderDefault {
			return []Entry{{Key: e.keyFunc(), Values: map[string]any{}}}, nil
		}
		return nil, nil
	}

	var entries []Entry
	if list, ok := AsList(value); ok {
		entries = make([]Entry, 0, len(list))
		keyed := make([]bool, len(list))
		for i, item := range list {
			bag, ok := entryBag(item)
			if !ok {
				return nil, invalidValue(e.name, item)
			}
			entry := Entry{Values: bag}
			if raw, present := bag[e.key]; present && raw != nil && isScalar(raw) {
				entry.Key = KeyString(raw)
				keyed[i] = true
			}
			entries = append(entries, entry)
		}
		assignFallbackKeys(entries, keyed)
	} else if keyed, ok := AsMap(value); ok {
		keys := make([]string, 0, len(keyed))
		for key := range keyed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		entries = make([]Entry, 0, len(keys))
		for _, key := range keys {
			bag, ok := entryBag(keyed[key])
			if !ok {
				return nil, invalidValue(e.name, keyed[key])
			}
			entries = append(entries, Entry{Key: key, Values: bag})
		}
	} else {
		return nil, invalidValue(e.name, value)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.Key]; dup {
			return nil, invalidValue(e.name, entry.Key)
		}
		seen[entry.Key] = struct{}{}
	}
	return entries, nil
}

func assignFallbackKeys(entries []Entry, keyed []bool) {
	taken := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		if keyed[i] {
			taken[entry.Key] = struct{}{}
		}
	}
	next := len(entries)
	for i := range entries {
		if keyed[i] {
			continue
		}
		key := strconv.Itoa(i)
		for {
			if _, used := taken[key]; !used {
				break
			}
			key = strconv.Itoa(next)
			next++
		}
		entries[i].Key = key
		taken[key] = struct{}{}
	}
}

// Render renders one group per entry plus a blank prototype group.
func (e *PrototypeCollection) Render(value any) (*Descriptor, error) {
	entries, err := e.Entries(value)
	if err != nil {
		return nil, err
	}
	elements := NewDescriptor()
	for _, entry := range entries {
		group, err := e.prototype.Render(entry.Values)
		if err != nil {
			return nil, err
		}
		elements.Set(entry.Key, group)
	}
	blank, err := e.prototype.Render(map[string]any{})
	if err != nil {
		return nil, err
	}
	return e.header().
		Set("key", e.key).
		Set("elements", elements).
		Set("prototype", blank), nil
}

func scope(name string, value any) (map[string]any, error) {
	if value == nil {
		return map[string]any{}, nil
	}
	bag, ok := AsMap(value)
	if !ok {
		return nil, invalidValue(name, value)
	}
	return bag, nil
}

func entryBag(item any) (map[string]any, bool) {
	if item == nil {
		return map[string]any{}, true
	}
	return AsMap(item)
}
