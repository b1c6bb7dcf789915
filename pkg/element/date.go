package element

import (
	"strings"
	"time"
)

// Date formats understood by the frontend date pickers.
const (
	FormatDate        = "Y-m-d"
	FormatDateTime    = "Y-m-d H:i"
	FormatDateTimeDMY = "d-m-Y H:i"
)

type temporal struct {
	base
	format string
	layout string
	min    string
	max    string
}

func newTemporal(kind Kind, name, label, defaultFormat string, opts []Option) (temporal, error) {
	cfg := newSettings(opts)
	b, err := newBase(kind, name, label, cfg)
	if err != nil {
		return temporal{}, err
	}
	format := cfg.format
	if format == "" {
		format = defaultFormat
	}
	return temporal{
		base:   b,
		format: format,
		layout: GoLayout(format),
		min:    cfg.dateMin,
		max:    cfg.dateMax,
	}, nil
}

// Format returns the token format, for example `Y-m-d`.
func (e *temporal) Format() string { return e.format }

// Layout returns the equivalent time package layout.
func (e *temporal) Layout() string { return e.layout }

// Bounds returns the configured min and max, empty when unset.
func (e *temporal) Bounds() (string, string) { return e.min, e.max }

// Parse parses raw with the element format.
func (e *temporal) Parse(raw string) (time.Time, error) {
	return time.Parse(e.layout, strings.TrimSpace(raw))
}

func (e *temporal) render(value any) (*Descriptor, error) {
	if value != nil {
		raw, ok := value.(string)
		if !ok && !isString(value) {
			return nil, invalidValue(e.name, value)
		}
		if !ok {
			raw = KeyString(value)
		}
		if raw != "" {
			if _, err := e.Parse(raw); err != nil {
				return nil, invalidValue(e.name, value)
			}
		}
	}
	return e.header().
		Set("format", e.format).
		Set("min", nullable(e.min)).
		Set("max", nullable(e.max)).
		Set("readonly", e.readonly).
		Set("required", e.required).
		Set("value", value), nil
}

// Date is a calendar date picker.
type Date struct {
	temporal
}

// NewDate builds a date element; the format defaults to FormatDate.
func NewDate(name, label string, opts ...Option) (*Date, error) {
	t, err := newTemporal(KindDate, name, label, FormatDate, opts)
	if err != nil {
		return nil, err
	}
	return &Date{temporal: t}, nil
}

func (e *Date) Render(value any) (*Descriptor, error) { return e.render(value) }

// DateTime is a date and time picker.
type DateTime struct {
	temporal
}

// NewDateTime builds a date time element; the format defaults to
// FormatDateTime.
func NewDateTime(name, label string, opts ...Option) (*DateTime, error) {
	t, err := newTemporal(KindDateTime, name, label, FormatDateTime, opts)
	if err != nil {
		return nil, err
	}
	return &DateTime{temporal: t}, nil
}

func (e *DateTime) Render(value any) (*Descriptor, error) { return e.render(value) }

var layoutTokens = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'n': "1",
	'd': "02",
	'j': "2",
	'H': "15",
	'G': "15",
	'h': "03",
	'g': "3",
	'i': "04",
	's': "05",
	'A': "PM",
	'a': "pm",
	'D': "Mon",
	'l': "Monday",
	'M': "Jan",
	'F': "January",
	'T': "MST",
	'P': "-07:00",
	'O': "-0700",
}

// GoLayout converts a date format written with single letter tokens
// (`Y-m-d H:i`) into a time package layout. A backslash escapes the next
// character.
func GoLayout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == '\\' && i+1 < len(format) {
			i++
			b.WriteByte(format[i])
			continue
		}
		if token, ok := layoutTokens[c]; ok {
			b.WriteString(token)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
