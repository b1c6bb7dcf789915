package prompt

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsonform/pkg/element"
	"github.com/goliatone/go-jsonform/pkg/form"
)

type stubDriver struct {
	inputs    []string
	passwords []string
	confirm   []bool
	selectIdx []int
	multiIdx  [][]int
	infos     []string
	messages  []string
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted for " + cfg.Message)
	}
	s.messages = append(s.messages, cfg.Message)
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if len(s.passwords) == 0 {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[0]
	s.passwords = s.passwords[1:]
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if len(s.selectIdx) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[0]
	s.selectIdx = s.selectIdx[1:]
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if len(s.multiIdx) == 0 {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[0]
	s.multiIdx = s.multiIdx[1:]
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func orderDescriptor(t *testing.T) *element.Descriptor {
	t.Helper()
	f, err := form.NewBuilder("order").
		String("customer", "Customer", element.Required()).
		Password("secret", "Secret").
		Number("quantity", "Quantity", element.WithMin(1), element.WithMax(10)).
		Bool("gift", "Gift").
		Date("deliverOn", "Deliver on").
		Hidden("token").
		Label("notice", "Notice").
		File("attachment", "Attachment").
		Array("size", "Size", element.ChoicesFromPairs("s", "Small", "m", "Medium")).
		Array("extras", "Extras", element.ChoicesFromPairs("wrap", "Wrap", "card", "Card"), element.Multiple()).
		Autocomplete("store", "Store", "stores").
		Collection("address", "Address", func(b *form.Builder) {
			b.String("city", "City")
		}).
		PrototypeCollection("lines", "Lines", func(b *form.Builder) {
			b.String("sku", "SKU").Number("amount", "Amount")
		}, element.WithKey("sku")).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	desc, err := f.Render(map[string]any{
		"token": "tok",
		"lines": []any{map[string]any{"sku": "a", "amount": 2}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return desc
}

func TestRunWalksEveryKind(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Ann", "12", "3", "2024-02-01", "Oslo", "Bergen", "a", "", "", "5"},
		passwords: []string{"s3cret"},
		confirm:   []bool{true, true, false},
		selectIdx: []int{1},
		multiIdx:  [][]int{{0, 1}},
	}
	client := New(WithDriver(driver), WithKeyFunc(func() string { return "k1" }))

	got, err := client.Run(context.Background(), orderDescriptor(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := map[string]any{
		"customer":  "Ann",
		"secret":    "s3cret",
		"quantity":  float64(3),
		"gift":      true,
		"deliverOn": "2024-02-01",
		"token":     "tok",
		"size":      "m",
		"extras":    []any{"wrap", "card"},
		"store":     "Oslo",
		"address":   map[string]any{"city": "Bergen"},
		"lines": []any{
			map[string]any{"sku": "a", "amount": nil},
			map[string]any{"sku": "k1", "amount": float64(5)},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantInfos := []string{
		"Invalid customer: required",
		"Invalid quantity: max 10",
		"Notice",
		"Address",
		"Lines a",
	}
	if diff := cmp.Diff(wantInfos, driver.infos); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRunRejectsMalformedDates(t *testing.T) {
	f, err := form.NewBuilder("trip").DateTime("departure", "Departure").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	desc, err := f.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	driver := &stubDriver{inputs: []string{"tomorrow", "2024-05-01 10:30"}}
	got, err := New(WithDriver(driver)).Run(context.Background(), desc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got["departure"] != "2024-05-01 10:30" {
		t.Fatalf("expected departure to be kept, got %v", got["departure"])
	}
	if len(driver.infos) != 1 || !strings.Contains(driver.infos[0], "expected format Y-m-d H:i") {
		t.Fatalf("expected a format warning, got %v", driver.infos)
	}
}

func TestRunShowsAttachedErrors(t *testing.T) {
	f, err := form.NewBuilder("contact").String("email", "Email").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	desc, err := f.Render(map[string]any{"email": "nope"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	desc.Set("errors", []string{"Try again"})
	email, _ := desc.Lookup(element.ParsePath("elements.email"))
	email.(*element.Descriptor).Set("errors", []string{"Invalid email"})

	driver := &stubDriver{inputs: []string{"ann@example.com"}}
	if _, err := New(WithDriver(driver)).Run(context.Background(), desc); err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{"! Try again", "! Invalid email"}, driver.infos); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRunFreeTextAutocompleteMultiple(t *testing.T) {
	f, err := form.NewBuilder("post").Autocomplete("tags", "Tags", "tags", element.Multiple()).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	desc, err := f.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	driver := &stubDriver{inputs: []string{" go, forms ,, json"}}
	got, err := New(WithDriver(driver)).Run(context.Background(), desc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]any{"go", "forms", "json"}, got["tags"]); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAutocompleteLookup(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":[{"value":"osl","label":"Oslo"},{"value":"osk","label":"Oskarshamn"}]}`)
	}))
	defer srv.Close()

	f, err := form.NewBuilder("trip").
		Autocomplete("city", "City", "cities", element.WithParameter("term")).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	desc, err := f.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	city, _ := desc.Lookup(element.ParsePath("elements.city"))
	city.(*element.Descriptor).Set("url", "/lookup/cities")

	driver := &stubDriver{inputs: []string{"Os"}, selectIdx: []int{1}}
	client := New(WithDriver(driver), WithHTTPClient(srv.Client()), WithBaseURL(srv.URL))
	got, err := client.Run(context.Background(), desc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got["city"] != "Os" || gotQuery != nil {
		t.Fatalf("expected short terms to skip the lookup, got %v (query %v)", got["city"], gotQuery)
	}

	driver = &stubDriver{inputs: []string{"Osk"}, selectIdx: []int{1}}
	client = New(WithDriver(driver), WithHTTPClient(srv.Client()), WithBaseURL(srv.URL))
	got, err = client.Run(context.Background(), desc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got["city"] != "osk" {
		t.Fatalf("expected the picked suggestion, got %v", got["city"])
	}
	if gotQuery.Get("term") != "Osk" {
		t.Fatalf("expected the term parameter, got %v", gotQuery)
	}
}

func TestRunAborted(t *testing.T) {
	f, err := form.NewBuilder("contact").Bool("subscribe", "Subscribe").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	desc, err := f.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	_, err = New(WithDriver(abortingDriver{&stubDriver{}})).Run(context.Background(), desc)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := New(WithDriver(&stubDriver{})).Run(context.Background(), nil); !errors.Is(err, ErrNoDescriptor) {
		t.Fatalf("expected ErrNoDescriptor, got %v", err)
	}
}

type abortingDriver struct{ *stubDriver }

func (abortingDriver) Confirm(context.Context, ConfirmConfig) (bool, error) {
	return false, ErrAborted
}

func TestEncode(t *testing.T) {
	values := map[string]any{"name": "Ann", "tags": []any{"a", "b"}}

	out, err := Encode(FormatJSON, "contact", values)
	if err != nil {
		t.Fatalf("encode json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"contact": map[string]any{"name": "Ann", "tags": []any{"a", "b"}}}, decoded); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}

	out, err = Encode(FormatForm, "contact", values)
	if err != nil {
		t.Fatalf("encode form: %v", err)
	}
	if want := "contact%5Bname%5D=Ann&contact%5Btags%5D%5B0%5D=a&contact%5Btags%5D%5B1%5D=b"; string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}

	out, err = Encode(FormatPretty, "contact", values)
	if err != nil {
		t.Fatalf("encode pretty: %v", err)
	}
	if !strings.Contains(string(out), `"Ann"`) {
		t.Fatalf("expected pretty output to contain the values, got %s", out)
	}

	if _, err := Encode("xml", "contact", values); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestSubmit(t *testing.T) {
	var (
		method string
		body   map[string]any
		query  url.Values
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		query = r.URL.Query()
		body = nil
		if r.Method != http.MethodGet {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	defer srv.Close()

	client := New(WithDriver(&stubDriver{}), WithHTTPClient(srv.Client()), WithBaseURL(srv.URL))
	desc := element.NewDescriptor().
		Set("name", "contact").
		Set("method", http.MethodPost).
		Set("action", element.NewDescriptor().Set("route", "contact").Set("url", "/contact"))

	resp, err := client.Submit(context.Background(), desc, map[string]any{"name": "Ann"}, "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Status != http.StatusAccepted || method != http.MethodPost {
		t.Fatalf("expected accepted POST, got %d %s", resp.Status, method)
	}
	if diff := cmp.Diff(map[string]any{"contact": map[string]any{"name": "Ann"}}, body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}

	desc.Set("method", http.MethodGet)
	if _, err := client.Submit(context.Background(), desc, map[string]any{"name": "Ann"}, "/search"); err != nil {
		t.Fatalf("submit get: %v", err)
	}
	if method != http.MethodGet || query.Get("contact[name]") != "Ann" {
		t.Fatalf("expected GET with query values, got %s %v", method, query)
	}

	offline := New(WithDriver(&stubDriver{}))
	if _, err := offline.Submit(context.Background(), desc, nil, ""); !errors.Is(err, ErrSubmit) {
		t.Fatalf("expected ErrSubmit without http client, got %v", err)
	}
}
