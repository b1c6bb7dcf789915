package render

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// SanitizeLabel strips markup from a label. Labels travel as plain text in
// the descriptor: entities are decoded, then the text is sanitized until no
// decoded form of it carries a tag.
func SanitizeLabel(raw string) string {
	text := strings.TrimSpace(raw)
	for range maxLabelPasses {
		if !strings.ContainsAny(text, "<>&") {
			return text
		}
		cleaned := strings.TrimSpace(html.UnescapeString(labelSanitizer().Sanitize(text)))
		if cleaned == text {
			return text
		}
		text = cleaned
	}
	return strings.NewReplacer("<", "", ">", "").Replace(text)
}

// maxLabelPasses bounds nested entity encodings such as &amp;lt;.
const maxLabelPasses = 4

func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return labelPolicy
}
