package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestLocalizeDescriptor_TranslatesLabelsAndOptions(t *testing.T) {
	desc := sampleForm(t)

	render.LocalizeDescriptor(desc, render.RenderOptions{
		Locale: "fr",
		Translator: stubTranslator{
			"fields.name":  "Nom <b>complet</b>",
			"fields.topic": "Sujet",
			"topics.go":    "Go",
			"topics.group": "Autres",
			"topics.php":   "PHP",
			"Label":        "Libellé",
		},
	})

	if got, _ := desc.Lookup(element.ParsePath("elements.name.label")); got != "Nom complet" {
		t.Fatalf("expected translated, stripped label, got %#v", got)
	}
	if got, _ := desc.Lookup(element.ParsePath("elements.active.label")); got != "Active" {
		t.Fatalf("expected untranslated label to fall back to key, got %#v", got)
	}

	options, _ := desc.Lookup(element.ParsePath("elements.topic.options"))
	optionsDesc, ok := options.(*element.Descriptor)
	if !ok {
		t.Fatalf("expected options descriptor, got %T", options)
	}
	if diff := cmp.Diff([]string{"go", "Autres"}, optionsDesc.Keys()); diff != "" {
		t.Fatalf("option keys mismatch (-want +got):\n%s", diff)
	}
	if got, _ := optionsDesc.Lookup(element.ParsePath("Autres.php")); got != "PHP" {
		t.Fatalf("expected grouped option label translated, got %#v", got)
	}

	if got, _ := desc.Lookup(element.ParsePath("elements.items.elements.k1.label.label")); got != "Libellé" {
		t.Fatalf("expected entry label translated, got %#v", got)
	}
	if got, _ := desc.Lookup(element.ParsePath("elements.items.prototype.label.label")); got != "Libellé" {
		t.Fatalf("expected prototype label translated, got %#v", got)
	}
}

func TestLocalizeDescriptor_OnMissingHandler(t *testing.T) {
	desc := sampleForm(t)
	var missing []string

	render.LocalizeDescriptor(desc, render.RenderOptions{
		Locale: "de",
		OnMissing: func(locale, key string, _ []any, err error) string {
			if !errors.Is(err, render.ErrMissingTranslator) {
				t.Fatalf("expected ErrMissingTranslator, got %v", err)
			}
			missing = append(missing, key)
			return "[" + locale + "] " + key
		},
	})

	if got, _ := desc.Lookup(element.ParsePath("elements.owner.elements.email.label")); got != "[de] Email" {
		t.Fatalf("unexpected handler output %#v", got)
	}
	if len(missing) == 0 {
		t.Fatalf("expected missing keys to be reported")
	}
}

func TestSanitizeLabel(t *testing.T) {
	cases := map[string]string{
		"  Plain  ":                                   "Plain",
		"Terms & Conditions":                          "Terms & Conditions",
		`<script>alert(1)</script>Name`:               "Name",
		`<a href="javascript:x">Link</a>`:             "Link",
		"Name &lt;script&gt;alert(1)&lt;/script&gt;":  "Name",
		"&lt;b&gt;Bold&lt;/b&gt;":                     "Bold",
		"Nested &amp;lt;i&amp;gt;x&amp;lt;/i&amp;gt;": "Nested x",
		"a < b": "a < b",
	}

	for input, want := range cases {
		if got := render.SanitizeLabel(input); got != want {
			t.Fatalf("SanitizeLabel(%q) = %q, want %q", input, got, want)
		}
	}
}
