// Package selfupdate reinstalls the running suitcase binary with go install.
package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jeroen-meijer/suitcase/internal/common/logger"
	"github.com/jeroen-meijer/suitcase/internal/common/output"
	"github.com/jeroen-meijer/suitcase/internal/common/progress"
	"github.com/jeroen-meijer/suitcase/internal/common/shell"
)

// DefaultVersion is installed when no version is requested
const DefaultVersion = "latest"

var (
	ErrNoBuildInfo     = errors.New("binary has no Go build information")
	ErrNoInstallTarget = errors.New("cannot determine where go install puts binaries")
)

// Build is the module information embedded in a Go binary
type Build struct {
	Path    string // Main package path
	Module  string // Main module path
	Version string // Module version, DevelVersion for local builds
	Sum     string
}

// IsDevel reports whether the binary was built from a local checkout
func (b *Build) IsDevel() bool {
	return b.Version == "" || b.Version == DevelVersion
}

// ParseBuildInfo reads the output of "go version -m <binary>":
//
//	/home/me/go/bin/suitcase: go1.24.0
//		path	github.com/jeroen-meijer/suitcase/cmd/suitcase
//		mod	github.com/jeroen-meijer/suitcase	v0.3.0	h1:abc=
//		dep	github.com/spf13/cobra	v1.10.2	h1:def=
func ParseBuildInfo(text string) (*Build, error) {
	var build Build
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Split(strings.TrimSpace(line), "\t")
		switch fields[0] {
		case "path":
			if len(fields) > 1 {
				build.Path = fields[1]
			}
		case "mod":
			if len(fields) > 1 {
				build.Module = fields[1]
			}
			if len(fields) > 2 {
				build.Version = fields[2]
			}
			if len(fields) > 3 {
				build.Sum = fields[3]
			}
		}
	}

	if build.Path == "" {
		return nil, ErrNoBuildInfo
	}
	return &build, nil
}

// Options for Update
type Options struct {
	Package   string // Package to install; defaults to the running binary's path
	Version   string // Module version for go install; defaults to "latest"
	Source    string // Local checkout to install from instead of the module proxy
	CheckOnly bool   // Only report the installed build
}

// Result describes the builds before and after an update.
// After is nil when the new binary could not be read.
type Result struct {
	Before *Build
	After  *Build
	Latest string // Newest published version, filled in by CheckOnly runs
}

// CheckSummary renders the outcome of a CheckOnly run
func (r *Result) CheckSummary() string {
	switch {
	case r.Latest == "":
		return fmt.Sprintf("suitcase %s (latest version unknown)", r.Before.Version)
	case r.Before.IsDevel():
		return fmt.Sprintf("suitcase %s, latest published version is %s", r.Before.Version, r.Latest)
	case CompareVersions(r.Latest, r.Before.Version) > 0:
		return fmt.Sprintf("suitcase %s is available (installed: %s)", r.Latest, r.Before.Version)
	default:
		return fmt.Sprintf("suitcase is already up to date (%s)", r.Before.Version)
	}
}

// Summary renders the outcome line logged after an update
func (r *Result) Summary() string {
	switch {
	case r.After == nil:
		return "Upgraded suitcase successfully (but failed to read the new version)"
	case r.After.IsDevel():
		return fmt.Sprintf("Reinstalled suitcase from local source (%s)", r.After.Version)
	case r.Before.Version == r.After.Version:
		return fmt.Sprintf("suitcase is already up to date (%s)", r.After.Version)
	default:
		return fmt.Sprintf("Upgraded suitcase from %s to %s", r.Before.Version, r.After.Version)
	}
}

// Updater drives the go toolchain
type Updater struct {
	exec       shell.Executor
	reporter   progress.Reporter
	executable func() (string, error)
	goBinary   string
}

// NewUpdater creates an Updater for the running executable
func NewUpdater(exec shell.Executor, reporter progress.Reporter) *Updater {
	if exec == nil {
		exec = shell.NewRunner()
	}
	if reporter == nil {
		reporter = progress.Discard
	}
	return &Updater{
		exec:       exec,
		reporter:   reporter,
		executable: os.Executable,
		goBinary:   "go",
	}
}

// ReadBuild returns the build information of the binary at path
func (u *Updater) ReadBuild(ctx context.Context, binary string) (*Build, error) {
	result, err := u.exec.Run(ctx, shell.Command{Name: u.goBinary, Args: []string{"version", "-m", binary}})
	if err != nil {
		return nil, fmt.Errorf("trying to read build info of '%s': %w", binary, err)
	}
	return ParseBuildInfo(result.Stdout)
}

// Current returns the build information of the running binary
func (u *Updater) Current(ctx context.Context) (*Build, error) {
	return progress.Track(u.reporter, "Reading installed build", func() (*Build, error) {
		exe, err := u.executable()
		if err != nil {
			return nil, err
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return u.ReadBuild(ctx, exe)
	})
}

// Update installs the newest suitcase and reports what changed
func (u *Updater) Update(ctx context.Context, opts Options) (*Result, error) {
	before, err := u.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("trying to read the installed build: %w", err)
	}
	logger.Debug("installed build: path %s, module %s, version %s", before.Path, before.Module, before.Version)

	if opts.CheckOnly {
		result := &Result{Before: before, After: before}
		module := before.Module
		if module == "" || module == "command-line-arguments" {
			return result, nil
		}
		latest, err := progress.Track(u.reporter, "Checking latest version", func() (string, error) {
			return u.LatestVersion(ctx, module)
		})
		if err != nil {
			output.Warn("Could not check the latest version: %v", err)
			return result, nil
		}
		result.Latest = latest
		return result, nil
	}

	pkg := opts.Package
	if pkg == "" {
		pkg = before.Path
	}

	if opts.Source != "" {
		err = progress.Do(u.reporter, fmt.Sprintf("Updating suitcase from local path (%s)", opts.Source), func() error {
			_, err := u.exec.Run(ctx, shell.Command{
				Name: u.goBinary,
				Args: []string{"install", LocalPackage(before)},
				Dir:  opts.Source,
			})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("trying to update suitcase from local path (%s): %w", opts.Source, err)
		}
	} else {
		version := opts.Version
		if version == "" {
			version = DefaultVersion
		}
		target := pkg + "@" + version
		err = progress.Do(u.reporter, fmt.Sprintf("Updating suitcase from %s", target), func() error {
			_, err := u.exec.Run(ctx, shell.Command{Name: u.goBinary, Args: []string{"install", target}})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("trying to update suitcase from %s: %w", target, err)
		}
	}

	result := &Result{Before: before}

	installed, err := u.InstalledBinary(ctx, pkg)
	if err != nil {
		logger.Debug("failed to locate the installed binary: %v", err)
		return result, nil
	}

	after, err := u.ReadBuild(ctx, installed)
	if err != nil {
		logger.Debug("failed to read the new build: %v", err)
		return result, nil
	}
	result.After = after

	if !after.IsDevel() && !before.IsDevel() && CompareVersions(after.Version, before.Version) < 0 {
		output.Warn("Installed version %s is older than the previous %s", after.Version, before.Version)
	}
	return result, nil
}

// LatestVersion asks the module proxy, through the go command, for the
// newest version of module.
func (u *Updater) LatestVersion(ctx context.Context, module string) (string, error) {
	result, err := u.exec.Run(ctx, shell.Command{
		Name: u.goBinary,
		Args: []string{"list", "-m", "-f", "{{.Version}}", module + "@latest"},
	})
	if err != nil {
		return "", fmt.Errorf("trying to query the latest version of %s: %w", module, err)
	}
	return strings.TrimSpace(result.Stdout), nil
}

// InstalledBinary returns where go install writes the binary for pkg:
// $GOBIN, or the first $GOPATH entry's bin directory.
func (u *Updater) InstalledBinary(ctx context.Context, pkg string) (string, error) {
	result, err := u.exec.Run(ctx, shell.Command{Name: u.goBinary, Args: []string{"env", "GOBIN", "GOPATH"}})
	if err != nil {
		return "", err
	}

	lines := strings.Split(strings.TrimRight(result.Stdout, "\n"), "\n")
	var gobin, gopath string
	if len(lines) > 0 {
		gobin = strings.TrimSpace(lines[0])
	}
	if len(lines) > 1 {
		gopath = strings.TrimSpace(lines[1])
	}

	dir := gobin
	if dir == "" {
		first := strings.Split(gopath, string(os.PathListSeparator))[0]
		if first == "" {
			return "", ErrNoInstallTarget
		}
		dir = filepath.Join(first, "bin")
	}

	name := path.Base(strings.TrimSuffix(pkg, "/"))
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name), nil
}

// LocalPackage returns the main package relative to the module root,
// e.g. "./cmd/suitcase".
func LocalPackage(build *Build) string {
	rel := strings.TrimPrefix(build.Path, build.Module)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || rel == build.Path {
		return "."
	}
	return "./" + rel
}
