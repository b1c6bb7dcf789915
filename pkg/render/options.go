package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when
// localisation runs without a Translator.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale. Args carry interpolation
// parameters; implementations decide how to use them.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides the text used when a key cannot be
// translated. err is the translator error, or ErrMissingTranslator.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// RenderOptions describe per-request data applied to a rendered descriptor.
type RenderOptions struct {
	// Locale selects the translation catalog.
	Locale string
	// Translator localises labels and option labels. Labels are treated as
	// message keys; the key itself is kept when no message exists.
	Translator Translator
	// OnMissing overrides the fallback for untranslated keys.
	OnMissing MissingTranslationHandler
	// KeepMarkup disables HTML stripping of translated labels.
	KeepMarkup bool
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		params, ok := arg.(map[string]any)
		if !ok {
			continue
		}
		if fallback, ok := params["default"].(string); ok && strings.TrimSpace(fallback) != "" {
			return fallback
		}
	}
	return key
}
