package autocomplete

import (
	"bufio"
	"context"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// Option is one suggestion returned to an autocomplete element.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Source answers a lookup. query is trimmed and may be empty when the
// endpoint is configured to list top entries; limit is already clamped.
type Source interface {
	Lookup(ctx context.Context, query string, limit int) ([]Option, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, query string, limit int) ([]Option, error)

func (fn SourceFunc) Lookup(ctx context.Context, query string, limit int) ([]Option, error) {
	return fn(ctx, query, limit)
}

// StaticSource searches a fixed option list. Matching is a case-insensitive
// contains over value and label; prefix matches rank first, then labels sort
// alphabetically. An empty query returns the list head.
type StaticSource struct {
	options []Option
}

// NewStaticSource copies options, filling empty labels with the value.
func NewStaticSource(options ...Option) *StaticSource {
	out := make([]Option, 0, len(options))
	for _, option := range options {
		if option.Label == "" {
			option.Label = option.Value
		}
		out = append(out, option)
	}
	return &StaticSource{options: out}
}

// StaticFromChoices builds a source from element options, flattening groups.
func StaticFromChoices(choices element.Choices) *StaticSource {
	flat := choices.Flatten()
	options := make([]Option, 0, len(flat))
	for _, choice := range flat {
		options = append(options, Option{Value: choice.Value, Label: choice.Label})
	}
	return NewStaticSource(options...)
}

// StaticFromValues builds a source whose labels equal the values.
func StaticFromValues(values ...string) *StaticSource {
	options := make([]Option, 0, len(values))
	for _, value := range values {
		options = append(options, Option{Value: value, Label: value})
	}
	return NewStaticSource(options...)
}

// Options returns a copy of the option list.
func (s *StaticSource) Options() []Option {
	return append([]Option{}, s.options...)
}

func (s *StaticSource) Lookup(_ context.Context, query string, limit int) ([]Option, error) {
	return Search(s.options, query, limit), nil
}

// Search ranks the options matching query and keeps at most limit of them.
func Search(options []Option, query string, limit int) []Option {
	if limit <= 0 {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		if len(options) <= limit {
			return append([]Option{}, options...)
		}
		return append([]Option{}, options[:limit]...)
	}

	q := strings.ToLower(query)
	matches := make([]matched, 0, 32)
	for _, option := range options {
		value := strings.ToLower(option.Value)
		label := strings.ToLower(option.Label)
		if !strings.Contains(value, q) && !strings.Contains(label, q) {
			continue
		}
		matches = append(matches, matched{
			option:   option,
			isPrefix: strings.HasPrefix(value, q) || strings.HasPrefix(label, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].option.Label < matches[j].option.Label
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Option, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.option)
	}
	return out
}

type matched struct {
	option   Option
	isPrefix bool
}

//go:embed data/timezones.txt
var dataFS embed.FS

const timezonesPath = "data/timezones.txt"

var (
	timezonesOnce   sync.Once
	timezonesSource *StaticSource
	timezonesErr    error
)

// TimezoneSource serves the embedded list of IANA zone names.
func TimezoneSource() (*StaticSource, error) {
	timezonesOnce.Do(func() {
		f, err := dataFS.Open(timezonesPath)
		if err != nil {
			timezonesErr = err
			return
		}
		defer func() { _ = f.Close() }()

		values, err := LoadLines(f)
		if err != nil {
			timezonesErr = err
			return
		}
		timezonesSource = StaticFromValues(values...)
	})
	return timezonesSource, timezonesErr
}

// LoadLines reads one value per line, skipping blanks, `#` comments and
// duplicates. The result is sorted.
func LoadLines(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("autocomplete: missing reader")
	}

	scanner := bufio.NewScanner(r)
	lines := make([]string, 0, 128)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Strings(lines)
	return lines, nil
}
