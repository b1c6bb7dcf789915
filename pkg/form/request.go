package form

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/serializer"
)

const (
	maxBodyBytes      = 10 << 20
	maxMultipartBytes = 32 << 20
)

// SupportedMethod reports whether forms can be submitted with method.
func SupportedMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// Submission is the raw value bag extracted from a request.
type Submission struct {
	Values map[string]any
	// Weak is set when the values came from a query string or a form post,
	// where every scalar is a string.
	Weak bool
}

// Extract reads the value bag submitted to a form named name declared with
// method. The request method must be supported and equal to method.
//
// GET reads the query string. POST, PUT and PATCH read a JSON body addressed
// by the form name; an empty body or form-encoded content falls back to the
// posted form values. Bracket notation keys (`a[b][]`) become nested values.
func Extract(r *http.Request, name, method string) (Submission, error) {
	method = normaliseMethod(method)
	requestMethod := strings.ToUpper(r.Method)
	if !SupportedMethod(method) || requestMethod != method {
		return Submission{}, &MethodError{Form: name, Method: r.Method}
	}

	if requestMethod == http.MethodGet {
		return Submission{Values: scoped(serializer.ParseValues(r.URL.Query()), name), Weak: true}, nil
	}

	if isFormContent(r) {
		values, err := postedValues(r, name)
		if err != nil {
			return Submission{}, err
		}
		return Submission{Values: values, Weak: true}, nil
	}

	var body []byte
	if r.Body != nil {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
		if err != nil {
			return Submission{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		if len(data) > maxBodyBytes {
			return Submission{}, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedBody, maxBodyBytes)
		}
		body = data
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return Submission{Values: map[string]any{}, Weak: true}, nil
	}

	data, err := serializer.DecodeObject(bytes.NewReader(body))
	if err != nil {
		return Submission{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	raw, present := data[name]
	if !present || raw == nil {
		return Submission{Values: map[string]any{}}, nil
	}
	values, ok := raw.(map[string]any)
	if !ok {
		return Submission{}, fmt.Errorf("%w: `%s` must be an object, got %s", ErrMalformedBody, name, element.DescribeValue(raw))
	}
	return Submission{Values: values}, nil
}

func isFormContent(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

func postedValues(r *http.Request, name string) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxMultipartBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return scoped(serializer.ParseValues(r.PostForm), name), nil
}

// scoped returns bag[name] when it is a map, bag otherwise.
func scoped(bag map[string]any, name string) map[string]any {
	if name == "" {
		return bag
	}
	if nested, ok := bag[name].(map[string]any); ok {
		return nested
	}
	return bag
}
