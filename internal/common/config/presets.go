package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// PresetsFileName is the TOML file, beside config.yaml, holding named commands
const PresetsFileName = "presets.toml"

var (
	// ErrUnknownPreset is returned when a preset name has no entry in presets.toml
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrMissingCommand is returned when a preset has no command
	ErrMissingCommand = errors.New("missing required field: command")
)

// Preset is a named command for "suitcase ford --preset".
//
//	[get]
//	command = "dart pub get"
//	description = "Fetch dependencies"
//	flutter = true
type Preset struct {
	Command     string `toml:"command"`
	Description string `toml:"description,omitempty"`
	// Flutter overrides --include-flutter-projects when set
	Flutter *bool `toml:"flutter,omitempty"`
}

// Presets maps preset names to their definitions
type Presets map[string]Preset

// LoadPresets reads presets.toml from dir.
// A missing file is not an error and yields an empty set.
func LoadPresets(dir string) (Presets, error) {
	path := filepath.Join(dir, PresetsFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Presets{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", PresetsFileName, err)
	}

	var presets Presets
	if err := toml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", PresetsFileName, err)
	}
	if presets == nil {
		presets = Presets{}
	}

	if err := presets.Validate(); err != nil {
		return nil, err
	}
	return presets, nil
}

// Validate checks every preset has a command
func (p Presets) Validate() error {
	for _, name := range p.Names() {
		if p[name].Command == "" {
			return fmt.Errorf("preset %s: %w", name, ErrMissingCommand)
		}
	}
	return nil
}

// Get returns the named preset
func (p Presets) Get(name string) (Preset, error) {
	preset, ok := p[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return preset, nil
}

// Names returns the preset names in sorted order
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
