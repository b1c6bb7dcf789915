package serializer

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// ParseValues expands bracket notation keys (`a[b]=1`, `a[]=x`,
// `a[0][c]=y`) into a nested value bag. Maps keyed 0..n-1 become lists.
// Repeated plain keys keep their last value.
func ParseValues(values url.Values) map[string]any {
	root := make(map[string]any)
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		segments := splitKey(key)
		if len(segments) == 0 {
			continue
		}
		items := values[key]
		if len(items) == 0 {
			continue
		}
		if segments[len(segments)-1] == "" {
			for _, item := range items {
				insert(root, segments, item)
			}
			continue
		}
		insert(root, segments, items[len(items)-1])
	}

	for key, value := range root {
		root[key] = listify(value)
	}
	return root
}

func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		if key == "" {
			return nil
		}
		return []string{key}
	}
	segments := []string{key[:open]}
	rest := key[open:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return []string{key}
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{key}
		}
		segments = append(segments, rest[1:end])
		rest = rest[end+1:]
	}
	return segments
}

func insert(node map[string]any, segments []string, value string) {
	for _, segment := range segments[:len(segments)-1] {
		if segment == "" {
			segment = strconv.Itoa(len(node))
		}
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
	last := segments[len(segments)-1]
	if last == "" {
		last = strconv.Itoa(len(node))
	}
	node[last] = value
}

func listify(value any) any {
	bag, ok := value.(map[string]any)
	if !ok {
		return value
	}
	for key, item := range bag {
		bag[key] = listify(item)
	}
	if list, ok := indexedList(bag); ok {
		return list
	}
	return bag
}

// EncodeValues flattens a value bag into bracket notation, the inverse of
// ParseValues. Nil values are skipped.
func EncodeValues(bag map[string]any) url.Values {
	out := make(url.Values)
	for key, value := range bag {
		encodeValue(out, key, value)
	}
	return out
}

func encodeValue(out url.Values, prefix string, value any) {
	if value == nil {
		return
	}
	if bag, ok := element.AsMap(value); ok {
		for key, item := range bag {
			encodeValue(out, prefix+"["+key+"]", item)
		}
		return
	}
	if list, ok := element.AsList(value); ok {
		for i, item := range list {
			encodeValue(out, prefix+"["+strconv.Itoa(i)+"]", item)
		}
		return
	}
	out.Add(prefix, element.KeyString(value))
}
