package projects

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PubspecFileName marks the root of a Dart package
const PubspecFileName = "pubspec.yaml"

// ErrInvalidPubspec is returned when pubspec.yaml cannot be parsed
var ErrInvalidPubspec = errors.New("invalid pubspec.yaml")

// Pubspec holds the fields of pubspec.yaml that discovery looks at
type Pubspec struct {
	Name         string    `yaml:"name"`
	Dependencies yaml.Node `yaml:"dependencies"`
}

// IsFlutter reports whether the package depends on the Flutter SDK.
// "flutter:" with no value parses as null and does not count, and a
// dependencies section that is not a mapping has no flutter entry.
func (p *Pubspec) IsFlutter() bool {
	deps := p.Dependencies
	if deps.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(deps.Content); i += 2 {
		if deps.Content[i].Value != "flutter" {
			continue
		}
		value := deps.Content[i+1]
		return !(value.Kind == yaml.ScalarNode && value.Tag == "!!null")
	}
	return false
}

// ParsePubspec parses pubspec.yaml content
func ParsePubspec(data []byte) (*Pubspec, error) {
	var spec Pubspec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ReadPubspec reads and parses pubspec.yaml in dir
func ReadPubspec(dir string) (*Pubspec, error) {
	path := filepath.Join(dir, PubspecFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trying to open pubspec.yaml file at path '%s': %w", path, err)
	}

	spec, err := ParsePubspec(data)
	if err != nil {
		return nil, fmt.Errorf("%w at path '%s': %v", ErrInvalidPubspec, path, err)
	}
	return spec, nil
}
