// Package projects discovers Dart and Flutter projects under a directory tree.
package projects

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/jeroen-meijer/suitcase/internal/common/logger"
)

// DefaultIgnoredFolders are pruned during discovery: platform runners,
// plugin symlinks, tool caches and build output.
var DefaultIgnoredFolders = []string{
	"ios",
	"android",
	"windows",
	"linux",
	"macos",
	".symlinks",
	".plugin_symlinks",
	".dart_tool",
	"build",
	".fvm",
	".git",
}

// ErrRootNotFound is returned when the search root is missing or not a directory
var ErrRootNotFound = errors.New("search path does not exist or is not a directory")

// Project describes one directory containing a pubspec.yaml
type Project struct {
	Path        string // Absolute path with symlinks resolved
	Name        string // Directory name
	PackageName string // "name:" from pubspec.yaml, or Name when missing
	IsFlutter   bool
}

// Kind selects which projects a command applies to
type Kind int

const (
	KindAll     Kind = iota // Dart and Flutter projects
	KindDart                // Dart projects that do not depend on Flutter
	KindFlutter             // Flutter projects only
)

// Options controls Find
type Options struct {
	// ExtraIgnored folder names are pruned in addition to DefaultIgnoredFolders
	ExtraIgnored []string
}

// SkippedProject is a pubspec.yaml that was found but could not be read
type SkippedProject struct {
	Path string
	Err  error
}

// Result contains the projects found under Root
type Result struct {
	Root     string
	Projects []Project
	Skipped  []SkippedProject
}

// Find walks root and returns every Dart project below it, root included.
// Ignored folders are pruned whole, so nothing inside them is reported.
func Find(root string, opts Options) (*Result, error) {
	absRoot, err := resolve(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	ignored := ignoredSet(opts.ExtraIgnored)
	result := &Result{Root: absRoot}

	logger.Debug("finding Dart projects recursively in path: %s", absRoot)

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			logger.Debug("skipping unreadable path %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != absRoot && ignored[d.Name()] {
				logger.Debug("pruning ignored folder %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() != PubspecFileName || !d.Type().IsRegular() {
			return nil
		}

		project, err := Load(filepath.Dir(path))
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedProject{Path: filepath.Dir(path), Err: err})
			return nil
		}
		result.Projects = append(result.Projects, *project)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result.Projects, func(i, j int) bool {
		return result.Projects[i].Path < result.Projects[j].Path
	})

	logger.Debug("found %d Dart projects", len(result.Projects))
	return result, nil
}

// Load reads the project metadata of dir
func Load(dir string) (*Project, error) {
	path, err := resolve(dir)
	if err != nil {
		return nil, err
	}

	spec, err := ReadPubspec(path)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	packageName := spec.Name
	if packageName == "" {
		packageName = name
	}

	return &Project{
		Path:        path,
		Name:        name,
		PackageName: packageName,
		IsFlutter:   spec.IsFlutter(),
	}, nil
}

// Filter returns the projects matching kind, preserving order
func Filter(projects []Project, kind Kind) []Project {
	if kind == KindAll {
		return projects
	}

	var filtered []Project
	for _, p := range projects {
		if p.IsFlutter == (kind == KindFlutter) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Summary describes how many projects of kind were found
func Summary(kind Kind, n int) string {
	switch kind {
	case KindDart:
		return fmt.Sprintf("Found %d Dart (non-Flutter) projects", n)
	case KindFlutter:
		return fmt.Sprintf("Found %d Flutter projects", n)
	default:
		return fmt.Sprintf("Found %d Dart and Flutter projects", n)
	}
}

// resolve returns the absolute, symlink-free form of path
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrRootNotFound, path)
		}
		return "", err
	}
	return resolved, nil
}

func ignoredSet(extra []string) map[string]bool {
	set := make(map[string]bool, len(DefaultIgnoredFolders)+len(extra))
	for _, name := range DefaultIgnoredFolders {
		set[name] = true
	}
	for _, name := range extra {
		set[name] = true
	}
	return set
}
