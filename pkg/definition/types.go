package definition

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-jsonform/pkg/element"
)

// Store holds the forms loaded from definition files, keyed by form name.
type Store struct {
	forms map[string]*Form
}

// FormSpec is one entry under `forms`.
type FormSpec struct {
	Method   string        `yaml:"method"`
	Action   ActionSpec    `yaml:"action"`
	Elements []ElementSpec `yaml:"elements"`
}

// ActionSpec is the submission target of a form.
type ActionSpec struct {
	Route      string         `yaml:"route"`
	Parameters map[string]any `yaml:"parameters"`
}

// ElementSpec declares one element. Fields that do not apply to Type are
// ignored. Min and Max are numbers for number elements and formatted dates
// for date and dateTime elements.
type ElementSpec struct {
	Type          string        `yaml:"type"`
	Name          string        `yaml:"name"`
	Label         string        `yaml:"label"`
	Required      bool          `yaml:"required"`
	Readonly      bool          `yaml:"readonly"`
	Mode          string        `yaml:"mode"`
	Options       Options       `yaml:"options"`
	Route         string        `yaml:"route"`
	Parameter     string        `yaml:"parameter"`
	Format        string        `yaml:"format"`
	Min           any           `yaml:"min"`
	Max           any           `yaml:"max"`
	Step          *float64      `yaml:"step"`
	Key           string        `yaml:"key"`
	RenderDefault bool          `yaml:"renderDefault"`
	Default       any           `yaml:"default"`
	Elements      []ElementSpec `yaml:"elements"`
}

// Options keeps select options in document order. A mapping value that is
// itself a mapping declares an option group:
//
//	options:
//	  fr: French
//	  Other:
//	    de: German
//
// A sequence of scalars uses each item as both value and label.
type Options element.Choices

func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	choices, err := decodeChoices(node)
	if err != nil {
		return err
	}
	*o = Options(choices)
	return nil
}

func decodeChoices(node *yaml.Node) (element.Choices, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeChoices(node.Alias)
	case yaml.MappingNode:
		out := make(element.Choices, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if value.Kind == yaml.MappingNode || value.Kind == yaml.SequenceNode {
				group, err := decodeChoices(value)
				if err != nil {
					return nil, err
				}
				out = append(out, element.NewGroup(key.Value, group...))
				continue
			}
			if value.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("option %q: unsupported value at line %d", key.Value, value.Line)
			}
			out = append(out, element.NewChoice(key.Value, value.Value))
		}
		return out, nil
	case yaml.SequenceNode:
		out := make(element.Choices, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("options: sequence items must be scalars (line %d)", item.Line)
			}
			out = append(out, element.NewChoice(item.Value, item.Value))
		}
		return out, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" || strings.TrimSpace(node.Value) == "" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("options: expected a mapping or a sequence at line %d", node.Line)
}

type documentFile struct {
	Forms map[string]FormSpec `yaml:"forms"`
}
