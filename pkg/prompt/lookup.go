package prompt

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// minLookupTerm is the shortest term sent to an autocomplete endpoint.
const minLookupTerm = 3

// lookup queries an autocomplete endpoint answering `{"data":[{"value",
// "label"}]}`.
func (c *Client) lookup(ctx context.Context, target, parameter, term string) ([]choice, error) {
	reqURL, err := c.resolve(target)
	if err != nil {
		return nil, err
	}
	if parameter == "" {
		parameter = element.DefaultParameter
	}
	q := reqURL.Query()
	q.Set(parameter, term)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Data []struct {
			Value any    `json:"value"`
			Label string `json:"label"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	out := make([]choice, 0, len(payload.Data))
	for _, item := range payload.Data {
		value := element.KeyString(item.Value)
		label := item.Label
		if label == "" {
			label = value
		}
		out = append(out, choice{value: value, label: label})
	}
	return out, nil
}

func (c *Client) resolve(target string) (*url.URL, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if c.base == "" || ref.IsAbs() {
		return ref, nil
	}
	base, err := url.Parse(c.base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return base.ResolveReference(ref), nil
}
