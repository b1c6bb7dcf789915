package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"gopkg.in/yaml.v3"
)

// DefaultDomain is the catalog domain loaded when none is configured.
const DefaultDomain = "messages"

// ErrMissingMessage is returned when no locale in the lookup chain holds a
// key.
var ErrMissingMessage = errors.New("i18n: missing message")

// MissingError names the key and the locale that failed.
type MissingError struct {
	Locale string
	Key    string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("i18n: no message for %q in locale %q", e.Key, e.Locale)
}

func (e *MissingError) Unwrap() error { return ErrMissingMessage }

// Option configures a Catalog.
type Option func(*Catalog)

// WithFallback sets the locales tried, in order, after the requested one.
func WithFallback(locales ...string) Option {
	return func(c *Catalog) {
		c.fallback = nil
		for _, locale := range locales {
			if normalised := normaliseLocale(locale); normalised != "" {
				c.fallback = append(c.fallback, normalised)
			}
		}
	}
}

// WithDomain selects which `<domain>.<locale>.yaml` files Load reads.
func WithDomain(domain string) Option {
	return func(c *Catalog) {
		if strings.TrimSpace(domain) != "" {
			c.domain = strings.TrimSpace(domain)
		}
	}
}

// Catalog holds messages per locale. Messages are pongo2 templates rendered
// with the map arguments passed to Translate, so `Hello {{ name }}` reads the
// `name` parameter. It is safe for concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	domain    string
	fallback  []string
	messages  map[string]map[string]string
	templates map[string]*pongo2.Template
}

// New returns an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		domain:    DefaultDomain,
		messages:  make(map[string]map[string]string),
		templates: make(map[string]*pongo2.Template),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Add merges messages into locale; later values win.
func (c *Catalog) Add(locale string, messages map[string]string) {
	locale = normaliseLocale(locale)
	if locale == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.messages[locale]
	if !ok {
		bucket = make(map[string]string, len(messages))
		c.messages[locale] = bucket
	}
	for key, message := range messages {
		bucket[key] = message
		delete(c.templates, locale+"\x00"+key)
	}
}

// Locales returns the loaded locales, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate resolves key for locale, trying the base language (`fr` for
// `fr-CA`) and then the fallback chain. Map arguments become template
// parameters.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", &MissingError{Locale: locale, Key: key}
	}

	for _, candidate := range c.chain(locale) {
		c.mu.RLock()
		message, ok := c.messages[candidate][key]
		c.mu.RUnlock()
		if !ok {
			continue
		}
		return c.interpolate(candidate, key, message, args)
	}
	return "", &MissingError{Locale: locale, Key: key}
}

func (c *Catalog) chain(locale string) []string {
	seen := make(map[string]struct{}, 4)
	var out []string
	add := func(candidate string) {
		if candidate == "" {
			return
		}
		if _, exists := seen[candidate]; exists {
			return
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}

	normalised := normaliseLocale(locale)
	add(normalised)
	if base, _, found := strings.Cut(normalised, "-"); found {
		add(base)
	}
	for _, fallback := range c.fallback {
		add(fallback)
	}
	return out
}

func (c *Catalog) interpolate(locale, key, message string, args []any) (string, error) {
	if !strings.Contains(message, "{{") && !strings.Contains(message, "{%") {
		return message, nil
	}

	cacheKey := locale + "\x00" + key
	c.mu.RLock()
	tpl, ok := c.templates[cacheKey]
	c.mu.RUnlock()
	if !ok {
		compiled, err := pongo2.FromString(message)
		if err != nil {
			return "", fmt.Errorf("i18n: compile %q (%s): %w", key, locale, err)
		}
		c.mu.Lock()
		c.templates[cacheKey] = compiled
		c.mu.Unlock()
		tpl = compiled
	}

	ctx := pongo2.Context{"locale": locale}
	for _, arg := range args {
		if params, ok := arg.(map[string]any); ok {
			for name, value := range params {
				ctx[name] = value
			}
		}
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("i18n: render %q (%s): %w", key, locale, err)
	}
	return out, nil
}

// Load reads every `<domain>.<locale>.yaml` (or `.yml`) file under fsys.
// Nested YAML maps are flattened into dotted keys.
func (c *Catalog) Load(fsys fs.FS) error {
	if fsys == nil {
		return nil
	}
	return fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		locale, ok := catalogLocale(path.Base(p), c.domain)
		if !ok {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", p, err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("i18n: parse %s: %w", p, err)
		}
		messages := make(map[string]string)
		flatten("", raw, messages)
		c.Add(locale, messages)
		return nil
	})
}

// LoadFS is a convenience wrapper returning a loaded catalog.
func LoadFS(fsys fs.FS, opts ...Option) (*Catalog, error) {
	c := New(opts...)
	if err := c.Load(fsys); err != nil {
		return nil, err
	}
	return c, nil
}

func catalogLocale(name, domain string) (string, bool) {
	ext := path.Ext(name)
	if ext != ".yaml" && ext != ".yml" {
		return "", false
	}
	stem := strings.TrimSuffix(name, ext)
	prefix := domain + "."
	if !strings.HasPrefix(stem, prefix) {
		return "", false
	}
	locale := normaliseLocale(strings.TrimPrefix(stem, prefix))
	return locale, locale != ""
}

func flatten(prefix string, node map[string]any, dest map[string]string) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch typed := value.(type) {
		case map[string]any:
			flatten(full, typed, dest)
		case nil:
			dest[full] = ""
		default:
			dest[full] = fmt.Sprint(typed)
		}
	}
}

func normaliseLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}
