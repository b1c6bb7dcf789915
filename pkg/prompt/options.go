package prompt

import (
	"net/http"

	"github.com/google/uuid"
)

// Format controls how collected values are serialized.
type Format string

const (
	// FormatJSON emits `{"<form>": {...}}`, the body a JSON submission carries.
	FormatJSON Format = "json"
	// FormatForm emits bracket encoded form values addressed by the form name.
	FormatForm Format = "form"
	// FormatPretty emits a readable dump of the value bag.
	FormatPretty Format = "pretty"
)

// Transform mutates collected values before they are serialized.
type Transform func(map[string]any) (map[string]any, error)

// Option configures a Client.
type Option func(*Client)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(c *Client) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithFormat selects the output format.
func WithFormat(format Format) Option {
	return func(c *Client) {
		if format != "" {
			c.format = format
		}
	}
}

// WithHTTPClient enables autocomplete lookups and submissions. Without it
// the client stays offline and autocomplete elements take free text.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// WithBaseURL resolves relative lookup and submit URLs against base.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.base = base
	}
}

// WithTransform mutates collected values before serialization.
func WithTransform(fn Transform) Option {
	return func(c *Client) {
		c.transform = fn
	}
}

// WithKeyFunc overrides the key assigned to new prototype entries.
func WithKeyFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.keyFunc = fn
		}
	}
}

func defaultKey() string { return uuid.NewString() }
