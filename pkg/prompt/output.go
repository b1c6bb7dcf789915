package prompt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/davecgh/go-spew/spew"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/serializer"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Encode serializes values in format. json and form output address the
// values by the form name, as a submission would.
func Encode(format Format, name string, values map[string]any) ([]byte, error) {
	switch format {
	case FormatPretty:
		return []byte(dumper.Sdump(values)), nil
	case FormatForm:
		return []byte(serializer.EncodeValues(envelope(name, values)).Encode()), nil
	case FormatJSON, "":
		out, err := json.MarshalIndent(envelope(name, values), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("prompt: encode json: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("prompt: unknown output format %q", format)
}

func envelope(name string, values map[string]any) map[string]any {
	if name == "" {
		return values
	}
	return map[string]any{name: values}
}

// Response is the answer of the form handler to a submission.
type Response struct {
	Status int
	Body   []byte
}

// Submit sends values to the action of desc: GET forms as a query string,
// other methods as a JSON body addressed by the form name. The action URL is
// the resolved `action.url`; target overrides it when set.
func (c *Client) Submit(ctx context.Context, desc *element.Descriptor, values map[string]any, target string) (*Response, error) {
	if c.http == nil {
		return nil, fmt.Errorf("%w: no http client configured", ErrSubmit)
	}
	if desc == nil {
		return nil, ErrNoDescriptor
	}
	if target == "" {
		if action, ok := desc.Descriptor("action"); ok {
			target = action.StringValue("url")
		}
	}
	if target == "" {
		return nil, fmt.Errorf("%w: form %q has no action url", ErrSubmit, desc.StringValue("name"))
	}
	reqURL, err := c.resolve(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmit, err)
	}

	method := desc.StringValue("method")
	if method == "" {
		method = http.MethodPost
	}
	bag := envelope(desc.StringValue("name"), values)

	var body io.Reader
	if method == http.MethodGet {
		q := reqURL.Query()
		for key, items := range serializer.EncodeValues(bag) {
			q[key] = items
		}
		reqURL.RawQuery = q.Encode()
	} else {
		payload, err := json.Marshal(bag)
		if err != nil {
			return nil, fmt.Errorf("%w: encode: %v", ErrSubmit, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmit, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmit, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrSubmit, err)
	}
	return &Response{Status: resp.StatusCode, Body: raw}, nil
}
