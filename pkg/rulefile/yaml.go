package rulefile

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/mash-units/pkg/version"
)

// ErrBadRuleEntry is returned for YAML rules that are not plain strings.
var ErrBadRuleEntry = errors.New("rule entry must be a string")

// yamlFile is the YAML structure of a rule file.
type yamlFile struct {
	Version     string   `yaml:"version"`
	Description string   `yaml:"description,omitempty"`
	Rules       []string `yaml:"rules"`
}

// parseYAML decodes a YAML rule file. Line numbers come from the node tree
// so errors point at the offending list entry.
func parseYAML(data []byte) (*File, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}

	f := &File{Format: FormatYAML}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return f, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: YAML rule file must be a mapping", doc.Line)
	}

	for i := 0; i < len(doc.Content)-1; i += 2 {
		key, value := doc.Content[i], doc.Content[i+1]
		switch key.Value {
		case "version":
			if err := version.Check(value.Value); err != nil {
				return nil, fmt.Errorf("line %d: %w", value.Line, err)
			}
			f.Version = value.Value
		case "description":
			f.Description = value.Value
		case "rules":
			if value.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("line %d: rules must be a list", value.Line)
			}
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("line %d: %w", item.Line, ErrBadRuleEntry)
				}
				f.Lines = append(f.Lines, Line{Number: item.Line, Text: item.Value})
			}
		}
	}
	return f, nil
}

func writeYAML(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlFile{Version: version.Current, Description: f.Description, Rules: f.Definitions()}); err != nil {
		return err
	}
	return enc.Close()
}
