package server

import (
	"fmt"
	"os"

	"github.com/goliatone/go-jsonform/components/autocomplete"
	"github.com/goliatone/go-jsonform/internal/config"
)

// buildLookups turns the configured sources into components. The timezone
// lookup the bundled definitions use is added unless configured.
func buildLookups(cfgs []config.AutocompleteConfig) ([]*autocomplete.Component, error) {
	out := make([]*autocomplete.Component, 0, len(cfgs)+1)
	builtin := true
	for _, ac := range cfgs {
		if ac.Name == TimezonesRoute {
			builtin = false
		}
		source, err := lookupSource(ac)
		if err != nil {
			return nil, fmt.Errorf("server: autocomplete %q: %w", ac.Name, err)
		}

		fns := []autocomplete.OptionFn{
			autocomplete.WithRoutePath(ac.Path),
			autocomplete.WithSource(source),
			autocomplete.WithEmptySearchMode(autocomplete.EmptySearchMode(ac.EmptySearch)),
		}
		if ac.SearchParam != "" {
			fns = append(fns, autocomplete.WithSearchParam(ac.SearchParam))
		}
		if ac.LimitParam != "" {
			fns = append(fns, autocomplete.WithLimitParam(ac.LimitParam))
		}
		if ac.DefaultLimit > 0 {
			fns = append(fns, autocomplete.WithDefaultLimit(ac.DefaultLimit))
		}
		if ac.MaxLimit > 0 {
			fns = append(fns, autocomplete.WithMaxLimit(ac.MaxLimit))
		}
		out = append(out, autocomplete.New(ac.Name, fns...))
	}

	if builtin {
		source, err := autocomplete.TimezoneSource()
		if err != nil {
			return nil, fmt.Errorf("server: timezones: %w", err)
		}
		out = append(out, autocomplete.New(TimezonesRoute,
			autocomplete.WithRoutePath("/timezones"),
			autocomplete.WithSource(source),
		))
	}
	return out, nil
}

func lookupSource(ac config.AutocompleteConfig) (autocomplete.Source, error) {
	switch ac.Source {
	case "timezones":
		return autocomplete.TimezoneSource()
	case "file":
		f, err := os.Open(ac.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		values, err := autocomplete.LoadLines(f)
		if err != nil {
			return nil, err
		}
		return autocomplete.StaticFromValues(values...), nil
	default:
		options := make([]autocomplete.Option, 0, len(ac.Options))
		for _, opt := range ac.Options {
			options = append(options, autocomplete.Option{Value: opt.Value, Label: opt.Label})
		}
		return autocomplete.NewStaticSource(options...), nil
	}
}
