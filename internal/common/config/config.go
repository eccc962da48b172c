package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultUpdatePackage is the package installed by "suitcase update"
const DefaultUpdatePackage = "github.com/jeroen-meijer/suitcase/cmd/suitcase"

var (
	ErrSourceNotFound = errors.New("update source directory does not exist")
	ErrEmptyShell     = errors.New("shell must not be empty")
)

// Config represents the application configuration
type Config struct {
	Shell    string         `yaml:"shell"`
	Browser  BrowserConfig  `yaml:"browser"`
	Update   UpdateConfig   `yaml:"update"`
	FVM      FVMConfig      `yaml:"fvm"`
	Projects ProjectsConfig `yaml:"projects"`

	// path is the file this config was loaded from
	path string
}

// BrowserConfig overrides how URLs are opened
type BrowserConfig struct {
	Command string `yaml:"command"` // e.g. "firefox --new-tab"; empty uses the platform opener
}

// UpdateConfig controls "suitcase update"
type UpdateConfig struct {
	Package string `yaml:"package"` // Package path passed to go install
	Source  string `yaml:"source"`  // Local checkout to install from instead of the module proxy
}

// FVMConfig holds Flutter Version Management settings
type FVMConfig struct {
	Binary   string   `yaml:"binary"`
	UseFlags []string `yaml:"use_flags,omitempty"`
}

// ProjectsConfig tunes project discovery
type ProjectsConfig struct {
	IgnoredFolders []string `yaml:"ignored_folders,omitempty"`
}

// Default returns the configuration written on first run
func Default() *Config {
	return &Config{
		Shell: "bash",
		Update: UpdateConfig{
			Package: DefaultUpdatePackage,
		},
		FVM: FVMConfig{
			Binary: "fvm",
		},
	}
}

// ConfigDir returns the XDG configuration directory for suitcase
func ConfigDir() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "suitcase"), nil
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/suitcase/config.yaml (XDG standard - priority)
// 2. ~/.suitcase/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(home, ".suitcase", "config.yaml"),
	}, nil
}

// FindConfigPath returns the first existing config file path
// Returns the default path if no config file exists yet
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return paths[0], nil
}

// Load reads configuration from the first available config file
// Priority: ~/.config/suitcase/config.yaml > ~/.suitcase/config.yaml
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path.
// A missing file is created with defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				return nil, saveErr
			}
			cfg.path = path
			return cfg, nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.path = path

	return cfg, nil
}

// LoadWithEnv loads configuration like LoadFrom (or Load when path is empty)
// and applies environment variable overrides.
//
// Supported environment variables:
// - SUITCASE_SHELL: overrides shell
// - SUITCASE_UPDATE_SOURCE: overrides update.source
func LoadWithEnv(path string) (*Config, error) {
	var cfg *Config
	var err error
	if path == "" {
		cfg, err = Load()
	} else {
		cfg, err = LoadFrom(path)
	}
	if err != nil {
		return nil, err
	}

	if shell := os.Getenv("SUITCASE_SHELL"); shell != "" {
		cfg.Shell = shell
	}
	if source := os.Getenv("SUITCASE_UPDATE_SOURCE"); source != "" {
		cfg.Update.Source = source
	}

	return cfg, nil
}

// Path returns the file the configuration was loaded from
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory holding the configuration file
func (c *Config) Dir() string {
	if c.path == "" {
		dir, err := ConfigDir()
		if err != nil {
			return ""
		}
		return dir
	}
	return filepath.Dir(c.path)
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ShellOrDefault returns the configured shell, falling back to bash
func (c *Config) ShellOrDefault() string {
	if strings.TrimSpace(c.Shell) == "" {
		return "bash"
	}
	return c.Shell
}

// FVMBinary returns the configured fvm executable, falling back to "fvm"
func (c *Config) FVMBinary() string {
	if c.FVM.Binary == "" {
		return "fvm"
	}
	return c.FVM.Binary
}

// UpdatePackage returns the package path installed by update
func (c *Config) UpdatePackage() string {
	if c.Update.Package == "" {
		return DefaultUpdatePackage
	}
	return c.Update.Package
}

// UpdateSource returns the expanded local checkout path, or "" when unset
func (c *Config) UpdateSource() (string, error) {
	if c.Update.Source == "" {
		return "", nil
	}

	path, err := ExpandHome(c.Update.Source)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	return path, nil
}

// Validate checks settings that would otherwise fail deep inside a command
func (c *Config) Validate() error {
	if c.Shell != "" && strings.TrimSpace(c.Shell) == "" {
		return ErrEmptyShell
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
