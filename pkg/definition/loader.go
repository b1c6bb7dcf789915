package definition

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks fsys and parses every JSON or YAML definition file. A nil fsys
// yields an empty store. Each form is built once while loading so unknown
// element types, invalid names and invalid modes fail here instead of at the
// first render.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]*Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(doc.Forms))
		for name := range doc.Forms {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, raw := range names {
			name := strings.TrimSpace(raw)
			if name == "" {
				return fmt.Errorf("definition: file %s defines a form with an empty name", path)
			}
			if existing, exists := store.forms[name]; exists {
				return fmt.Errorf("definition: duplicate form %q (files %s and %s)", name, existing.source, path)
			}
			f, err := newForm(name, path, doc.Forms[raw])
			if err != nil {
				return err
			}
			store.forms[name] = f
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse reads a single definition document.
func Parse(data []byte, source string) (*Store, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}
	store := &Store{forms: make(map[string]*Form, len(doc.Forms))}
	for name, spec := range doc.Forms {
		f, err := newForm(strings.TrimSpace(name), source, spec)
		if err != nil {
			return nil, err
		}
		store.forms[f.name] = f
	}
	return store, nil
}

// Form returns the form named name.
func (s *Store) Form(name string) (*Form, bool) {
	if s == nil {
		return nil, false
	}
	f, ok := s.forms[name]
	return f, ok
}

// Names returns the loaded form names, sorted.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.forms))
	for name := range s.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Forms returns the loaded forms sorted by name.
func (s *Store) Forms() []*Form {
	names := s.Names()
	out := make([]*Form, 0, len(names))
	for _, name := range names {
		out = append(out, s.forms[name])
	}
	return out
}

// Empty reports whether the store holds any form.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

// YAML is a superset of JSON, so one decoder reads both and keeps option
// order from the document nodes.
func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(bytes.TrimSpace(data)) == 0 {
		return documentFile{}, fmt.Errorf("definition: file %s is empty", source)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("definition: parse %s: %w", source, err)
	}
	return doc, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
