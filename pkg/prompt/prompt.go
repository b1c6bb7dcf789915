package prompt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/render"
)

// Client walks a rendered form descriptor and asks for a value per element.
// The collected bag follows the same name and path contract as a browser
// submission, so it can be posted back to the form's handler unchanged.
type Client struct {
	driver    Driver
	format    Format
	http      *http.Client
	base      string
	transform Transform
	keyFunc   func() string
}

var _ render.Renderer = (*Client)(nil)

// New constructs a client with defaults (survey driver, JSON output).
func New(opts ...Option) *Client {
	c := &Client{
		format:  FormatJSON,
		keyFunc: defaultKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.driver == nil {
		c.driver = NewSurveyDriver(nil)
	}
	return c
}

// Name reports the renderer identifier.
func (c *Client) Name() string { return "prompt" }

// ContentType reports the serialization format used by Render.
func (c *Client) ContentType() string {
	switch c.format {
	case FormatForm:
		return "application/x-www-form-urlencoded"
	case FormatPretty:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every element of desc and serializes the answers.
func (c *Client) Render(ctx context.Context, desc *element.Descriptor) ([]byte, error) {
	values, err := c.Run(ctx, desc)
	if err != nil {
		return nil, err
	}
	return Encode(c.format, desc.StringValue("name"), values)
}

// Run prompts for every element of desc, seeded with the rendered values,
// and returns the collected value bag.
func (c *Client) Run(ctx context.Context, desc *element.Descriptor) (map[string]any, error) {
	if desc == nil {
		return nil, ErrNoDescriptor
	}
	elements := desc
	if nested, ok := desc.Descriptor("elements"); ok {
		elements = nested
	}
	if messages, ok := desc.Get("errors"); ok {
		if err := c.showErrors(ctx, messages); err != nil {
			return nil, err
		}
	}

	s := newState(render.InitialValues(desc))
	if err := c.walk(ctx, elements, nil, s); err != nil {
		return nil, err
	}

	values := s.values
	if c.transform != nil {
		var err error
		if values, err = c.transform(values); err != nil {
			return nil, fmt.Errorf("prompt: transform: %w", err)
		}
	}
	return values, nil
}

func (c *Client) walk(ctx context.Context, elements *element.Descriptor, prefix element.Path, s *state) error {
	for _, name := range elements.Keys() {
		el, ok := elements.Descriptor(name)
		if !ok {
			continue
		}
		if err := c.field(ctx, el, prefix.Child(element.Key(name)), s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) field(ctx context.Context, el *element.Descriptor, path element.Path, s *state) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if messages, ok := el.Get("errors"); ok {
		if err := c.showErrors(ctx, messages); err != nil {
			return err
		}
	}

	kind := element.Kind(el.StringValue("type"))
	if readonly, _ := el.Get("readonly"); readonly == true {
		return nil
	}

	switch kind {
	case element.KindHidden:
		return nil
	case element.KindFile:
		s.remove(path)
		return nil
	case element.KindLabel:
		s.remove(path)
		value, _ := el.Get("value")
		return c.driver.Info(ctx, strings.TrimSpace(el.StringValue("label")+" "+element.KeyString(value)))
	case element.KindPassword:
		return c.promptText(ctx, el, path, s, true)
	case element.KindNumber:
		return c.promptNumber(ctx, el, path, s)
	case element.KindBool:
		return c.promptBool(ctx, el, path, s)
	case element.KindArray:
		return c.promptArray(ctx, el, path, s)
	case element.KindAutocomplete:
		return c.promptAutocomplete(ctx, el, path, s)
	case element.KindCollection:
		children, ok := el.Descriptor("elements")
		if !ok {
			return nil
		}
		if err := c.driver.Info(ctx, el.StringValue("label")); err != nil {
			return err
		}
		return c.walk(ctx, children, path, s)
	case element.KindPrototypeCollection:
		return c.promptEntries(ctx, el, path, s)
	default:
		return c.promptText(ctx, el, path, s, false)
	}
}

func (c *Client) showErrors(ctx context.Context, messages any) error {
	list, _ := element.AsList(messages)
	for _, message := range list {
		if err := c.driver.Info(ctx, "! "+element.KeyString(message)); err != nil {
			return err
		}
	}
	return nil
}

func required(el *element.Descriptor) bool {
	value, _ := el.Get("required")
	return value == true
}

func (c *Client) promptText(ctx context.Context, el *element.Descriptor, path element.Path, s *state, secret bool) error {
	cfg := InputConfig{
		Message:   el.StringValue("label"),
		Default:   s.text(path),
		Validator: textValidator(el),
	}
	ask := c.driver.Input
	if secret {
		cfg.Default = ""
		ask = c.driver.Password
	}
	for {
		response, err := ask(ctx, cfg)
		if err != nil {
			return err
		}
		if err := cfg.Validator(response); err != nil {
			if err := c.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", path, err)); err != nil {
				return err
			}
			continue
		}
		return s.set(path, response)
	}
}

// textValidator checks requiredness and, for dates, the element format.
func textValidator(el *element.Descriptor) func(string) error {
	isRequired := required(el)
	var layout, format string
	switch element.Kind(el.StringValue("type")) {
	case element.KindDate, element.KindDateTime:
		format = el.StringValue("format")
		layout = element.GoLayout(format)
	}
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			if isRequired {
				return errors.New("required")
			}
			return nil
		}
		if layout != "" {
			if _, err := time.Parse(layout, value); err != nil {
				return fmt.Errorf("expected format %s", format)
			}
		}
		return nil
	}
}

func (c *Client) promptNumber(ctx context.Context, el *element.Descriptor, path element.Path, s *state) error {
	isRequired := required(el)
	min, hasMin := bound(el, "min")
	max, hasMax := bound(el, "max")
	validate := func(raw string) error {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			if isRequired {
				return errors.New("required")
			}
			return nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errors.New("expected a number")
		}
		if hasMin && n < min {
			return fmt.Errorf("min %v", min)
		}
		if hasMax && n > max {
			return fmt.Errorf("max %v", max)
		}
		return nil
	}

	for {
		response, err := c.driver.Input(ctx, InputConfig{
			Message:   el.StringValue("label"),
			Default:   s.text(path),
			Validator: validate,
		})
		if err != nil {
			return err
		}
		if err := validate(response); err != nil {
			if err := c.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", path, err)); err != nil {
				return err
			}
			continue
		}
		response = strings.TrimSpace(response)
		if response == "" {
			return s.set(path, nil)
		}
		n, _ := strconv.ParseFloat(response, 64)
		return s.set(path, n)
	}
}

func bound(el *element.Descriptor, key string) (float64, bool) {
	value, ok := el.Get(key)
	if !ok || value == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(element.KeyString(value), 64)
	return n, err == nil
}

func (c *Client) promptBool(ctx context.Context, el *element.Descriptor, path element.Path, s *state) error {
	current, _ := s.get(path)
	answer, err := c.driver.Confirm(ctx, ConfirmConfig{
		Message: el.StringValue("label"),
		Default: current == true,
	})
	if err != nil {
		return err
	}
	return s.set(path, answer)
}

type choice struct {
	value string
	label string
}

// flatten lists the options of an array descriptor, prefixing grouped
// labels with their group.
func flatten(options *element.Descriptor, group string) []choice {
	if options == nil {
		return nil
	}
	var out []choice
	for _, key := range options.Keys() {
		if nested, ok := options.Descriptor(key); ok {
			out = append(out, flatten(nested, key)...)
			continue
		}
		label := options.StringValue(key)
		if group != "" {
			label = group + " / " + label
		}
		out = append(out, choice{value: key, label: label})
	}
	return out
}

func labels(choices []choice) []string {
	out := make([]string, len(choices))
	for i, ch := range choices {
		out[i] = ch.label
	}
	return out
}

func (c *Client) promptArray(ctx context.Context, el *element.Descriptor, path element.Path, s *state) error {
	options, _ := el.Descriptor("options")
	choices := flatten(options, "")
	if len(choices) == 0 {
		return nil
	}
	current, _ := s.get(path)
	selected, _ := element.AsList(current)
	if selected == nil && current != nil {
		selected = []any{current}
	}
	var defaults []int
	for _, value := range selected {
		for i, ch := range choices {
			if ch.value == element.KeyString(value) {
				defaults = append(defaults, i)
			}
		}
	}

	if element.Mode(el.StringValue("mode")) == element.ModeMultiple {
		for {
			picked, err := c.driver.MultiSelect(ctx, SelectConfig{
				Message:  el.StringValue("label"),
				Options:  labels(choices),
				Defaults: defaults,
			})
			if err != nil {
				return err
			}
			if len(picked) == 0 && required(el) {
				if err := c.driver.Info(ctx, fmt.Sprintf("Invalid %s: required", path)); err != nil {
					return err
				}
				continue
			}
			values := make([]any, 0, len(picked))
			for _, idx := range picked {
				if idx >= 0 && idx < len(choices) {
					values = append(values, choices[idx].value)
				}
			}
			return s.set(path, values)
		}
	}

	cfg := SelectConfig{Message: el.StringValue("label"), Options: labels(choices), DefaultIndex: -1}
	if len(defaults) > 0 {
		cfg.DefaultIndex = defaults[0]
	}
	idx, err := c.driver.Select(ctx, cfg)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(choices) {
		return s.set(path, nil)
	}
	return s.set(path, choices[idx].value)
}

func (c *Client) promptAutocomplete(ctx context.Context, el *element.Descriptor, path element.Path, s *state) error {
	multiple := element.Mode(el.StringValue("mode")) == element.ModeMultiple
	target := el.StringValue("url")
	if c.http == nil || target == "" {
		return c.promptFreeText(ctx, el, path, s, multiple)
	}

	var picked []any
	for {
		term, err := c.driver.Input(ctx, InputConfig{
			Message: el.StringValue("label"),
			Help:    "type at least 3 characters to search, leave empty to finish",
		})
		if err != nil {
			return err
		}
		term = strings.TrimSpace(term)
		if term == "" {
			break
		}
		value, err := c.pickSuggestion(ctx, el, target, term)
		if err != nil {
			return err
		}
		picked = append(picked, value)
		if !multiple {
			break
		}
	}

	switch {
	case multiple:
		if picked == nil {
			picked = []any{}
		}
		return s.set(path, picked)
	case len(picked) == 0:
		return s.set(path, nil)
	default:
		return s.set(path, picked[0])
	}
}

func (c *Client) pickSuggestion(ctx context.Context, el *element.Descriptor, target, term string) (any, error) {
	if len(term) < minLookupTerm {
		return term, nil
	}
	suggestions, err := c.lookup(ctx, target, el.StringValue("parameter"), term)
	if err != nil {
		if infoErr := c.driver.Info(ctx, fmt.Sprintf("Warning: lookup failed (%v); using the typed text", err)); infoErr != nil {
			return nil, infoErr
		}
		return term, nil
	}
	if len(suggestions) == 0 {
		return term, nil
	}
	idx, err := c.driver.Select(ctx, SelectConfig{
		Message: el.StringValue("label"),
		Options: labels(suggestions),
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(suggestions) {
		return term, nil
	}
	return suggestions[idx].value, nil
}

func (c *Client) promptFreeText(ctx context.Context, el *element.Descriptor, path element.Path, s *state, multiple bool) error {
	current, _ := s.get(path)
	var defaults []string
	if list, ok := element.AsList(current); ok {
		for _, item := range list {
			defaults = append(defaults, element.KeyString(item))
		}
	} else if current != nil {
		defaults = append(defaults, element.KeyString(current))
	}
	cfg := InputConfig{
		Message:   el.StringValue("label"),
		Default:   strings.Join(defaults, ", "),
		Validator: textValidator(el),
	}
	if multiple {
		cfg.Help = "separate values with commas"
	}
	response, err := c.driver.Input(ctx, cfg)
	if err != nil {
		return err
	}
	if !multiple {
		if strings.TrimSpace(response) == "" {
			return s.set(path, nil)
		}
		return s.set(path, strings.TrimSpace(response))
	}
	values := []any{}
	for _, part := range strings.Split(response, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return s.set(path, values)
}

// promptEntries revisits the existing entries of a prototype collection, then
// adds blank entries from the prototype until the user declines.
func (c *Client) promptEntries(ctx context.Context, el *element.Descriptor, path element.Path, s *state) error {
	keyField := el.StringValue("key")
	label := el.StringValue("label")
	current, _ := s.get(path)
	seeds, _ := element.AsList(current)

	entries := make([]any, 0, len(seeds))
	groups, _ := el.Descriptor("elements")
	if groups != nil {
		for i, key := range groups.Keys() {
			group, ok := groups.Descriptor(key)
			if !ok {
				continue
			}
			var seed map[string]any
			if i < len(seeds) {
				seed, _ = seeds[i].(map[string]any)
			}
			if err := c.driver.Info(ctx, fmt.Sprintf("%s %s", label, key)); err != nil {
				return err
			}
			entry, err := c.entry(ctx, group, seed, keyField, key)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
	}

	prototype, ok := el.Descriptor("prototype")
	if ok {
		for {
			more, err := c.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Add %s?", label)})
			if err != nil {
				return err
			}
			if !more {
				break
			}
			seed := render.InitialValues(prototype)
			entry, err := c.entry(ctx, prototype, seed, keyField, c.keyFunc())
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
	}
	return s.set(path, entries)
}

func (c *Client) entry(ctx context.Context, group *element.Descriptor, seed map[string]any, keyField, key string) (map[string]any, error) {
	if seed == nil {
		seed = map[string]any{}
	}
	s := newState(seed)
	if err := c.walk(ctx, group, nil, s); err != nil {
		return nil, err
	}
	if keyField != "" {
		if value, ok := s.values[keyField]; !ok || value == nil || value == "" {
			s.values[keyField] = key
		}
	}
	return s.values, nil
}
