package render

import (
	"strings"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// LocalizeDescriptor mutates a rendered form or element descriptor in place,
// translating element labels and select option labels. Labels are used as
// message keys; when a key has no message the handler decides the text,
// which by default is the label itself.
//
// Translated labels are stripped of markup unless opts.KeepMarkup is set.
func LocalizeDescriptor(desc *element.Descriptor, opts RenderOptions) {
	if desc == nil {
		return
	}

	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	l := localizer{
		locale:    opts.Locale,
		t:         opts.Translator,
		onMissing: onMissing,
		strip:     !opts.KeepMarkup,
	}

	if _, isElement := desc.Get("type"); isElement {
		l.element(desc)
		return
	}
	if elements, ok := desc.Descriptor("elements"); ok {
		l.elements(elements)
	}
}

type localizer struct {
	locale    string
	t         Translator
	onMissing MissingTranslationHandler
	strip     bool
}

func (l localizer) elements(elements *element.Descriptor) {
	for _, name := range elements.Keys() {
		if child, ok := elements.Descriptor(name); ok {
			l.element(child)
		}
	}
}

func (l localizer) element(desc *element.Descriptor) {
	if label, ok := desc.Get("label"); ok {
		if text, isString := label.(string); isString && strings.TrimSpace(text) != "" {
			desc.Set("label", l.text(text))
		}
	}

	switch element.Kind(desc.StringValue("type")) {
	case element.KindArray:
		if options, ok := desc.Descriptor("options"); ok {
			desc.Set("options", l.options(options))
		}
	case element.KindCollection:
		if children, ok := desc.Descriptor("elements"); ok {
			l.elements(children)
		}
	case element.KindPrototypeCollection:
		if entries, ok := desc.Descriptor("elements"); ok {
			for _, key := range entries.Keys() {
				if group, ok := entries.Descriptor(key); ok {
					l.elements(group)
				}
			}
		}
		if prototype, ok := desc.Descriptor("prototype"); ok {
			l.elements(prototype)
		}
	}
}

// options rebuilds the option map since group labels are keys.
func (l localizer) options(options *element.Descriptor) *element.Descriptor {
	out := element.NewDescriptor()
	for _, key := range options.Keys() {
		value, _ := options.Get(key)
		switch typed := value.(type) {
		case *element.Descriptor:
			out.Set(l.text(key), l.options(typed))
		case string:
			out.Set(key, l.text(typed))
		default:
			out.Set(key, value)
		}
	}
	return out
}

func (l localizer) text(key string) string {
	translated := translate(l.locale, key, key, l.t, l.onMissing)
	if l.strip {
		return SanitizeLabel(translated)
	}
	return translated
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		if strings.TrimSpace(fallback) != "" {
			return fallback
		}
		return key
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
