package selfupdate

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeroen-meijer/suitcase/internal/common/output"
	"github.com/jeroen-meijer/suitcase/internal/common/progress"
	"github.com/jeroen-meijer/suitcase/internal/common/shell"
)

const releaseBuild = `/home/me/go/bin/suitcase: go1.24.0
	path	github.com/jeroen-meijer/suitcase/cmd/suitcase
	mod	github.com/jeroen-meijer/suitcase	v0.3.0	h1:abc=
	dep	github.com/spf13/cobra	v1.10.2	h1:def=
	build	-buildmode=exe
	build	GOOS=linux
`

const develBuild = `/home/me/go/bin/suitcase: go1.24.0
	path	github.com/jeroen-meijer/suitcase/cmd/suitcase
	mod	github.com/jeroen-meijer/suitcase	(devel)
	build	vcs=git
`

func buildText(version string) string {
	return strings.Replace(releaseBuild, "v0.3.0", version, 1)
}

func TestParseBuildInfo(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    *Build
		wantErr error
	}{
		{
			name: "release",
			text: releaseBuild,
			want: &Build{
				Path:    "github.com/jeroen-meijer/suitcase/cmd/suitcase",
				Module:  "github.com/jeroen-meijer/suitcase",
				Version: "v0.3.0",
				Sum:     "h1:abc=",
			},
		},
		{
			name: "local build",
			text: develBuild,
			want: &Build{
				Path:    "github.com/jeroen-meijer/suitcase/cmd/suitcase",
				Module:  "github.com/jeroen-meijer/suitcase",
				Version: DevelVersion,
			},
		},
		{
			name: "command-line-arguments build",
			text: "/tmp/x: go1.24.0\n\tpath\tcommand-line-arguments\n",
			want: &Build{Path: "command-line-arguments"},
		},
		{
			name:    "not a go binary",
			text:    "/usr/bin/ls: could not read Go build info",
			wantErr: ErrNoBuildInfo,
		},
		{
			name:    "empty",
			text:    "",
			wantErr: ErrNoBuildInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBuildInfo(tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalPackage(t *testing.T) {
	tests := []struct {
		build Build
		want  string
	}{
		{Build{Path: "github.com/a/suitcase/cmd/suitcase", Module: "github.com/a/suitcase"}, "./cmd/suitcase"},
		{Build{Path: "github.com/a/suitcase", Module: "github.com/a/suitcase"}, "."},
		{Build{Path: "command-line-arguments"}, "."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LocalPackage(&tt.build))
	}
}

func TestResultSummary(t *testing.T) {
	v := func(version string) *Build { return &Build{Version: version} }

	tests := []struct {
		result Result
		want   string
	}{
		{Result{Before: v("v0.2.0"), After: v("v0.3.0")}, "Upgraded suitcase from v0.2.0 to v0.3.0"},
		{Result{Before: v("v0.3.0"), After: v("v0.3.0")}, "suitcase is already up to date (v0.3.0)"},
		{Result{Before: v("v0.3.0")}, "Upgraded suitcase successfully (but failed to read the new version)"},
		{Result{Before: v(DevelVersion), After: v(DevelVersion)}, "Reinstalled suitcase from local source ((devel))"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.result.Summary())
	}
}

// fakeToolchain answers "go version -m", "go env" and "go install" like the
// real toolchain, installing newVersion into gobin.
type fakeToolchain struct {
	current    string
	newVersion string
	gobin      string
	gopath     string
	latest     string
	latestErr  error
	installErr error
	installed  bool
}

func (f *fakeToolchain) run(_ context.Context, cmd shell.Command) (*shell.Result, error) {
	switch cmd.Args[0] {
	case "version":
		if cmd.Args[2] == "/usr/local/bin/suitcase" {
			return &shell.Result{Stdout: f.current}, nil
		}
		if !f.installed {
			return nil, shell.NewExitError(cmd, 1, "", "no such file")
		}
		return &shell.Result{Stdout: buildText(f.newVersion)}, nil
	case "env":
		return &shell.Result{Stdout: f.gobin + "\n" + f.gopath + "\n"}, nil
	case "list":
		if f.latestErr != nil {
			return nil, f.latestErr
		}
		return &shell.Result{Stdout: f.latest + "\n"}, nil
	case "install":
		if f.installErr != nil {
			return nil, f.installErr
		}
		f.installed = true
		return &shell.Result{}, nil
	}
	return nil, errors.New("unexpected command " + cmd.String())
}

func newTestUpdater(tc *fakeToolchain) (*Updater, *shell.MockExecutor, *progress.Recorder) {
	exec := shell.NewMockExecutor()
	exec.RunFunc = tc.run
	rec := &progress.Recorder{}

	u := NewUpdater(exec, rec)
	u.executable = func() (string, error) { return "/usr/local/bin/suitcase", nil }
	return u, exec, rec
}

func TestUpdateFromModuleProxy(t *testing.T) {
	tc := &fakeToolchain{current: releaseBuild, newVersion: "v0.4.0", gopath: "/home/me/go"}
	u, exec, rec := newTestUpdater(tc)

	result, err := u.Update(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "Upgraded suitcase from v0.3.0 to v0.4.0", result.Summary())

	calls := exec.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "go version -m /usr/local/bin/suitcase", calls[0].String())
	assert.Equal(t, "go install github.com/jeroen-meijer/suitcase/cmd/suitcase@latest", calls[1].String())
	assert.Equal(t, "go env GOBIN GOPATH", calls[2].String())
	assert.Equal(t, "go version -m "+filepath.Join("/home/me/go", "bin", "suitcase"), calls[3].String())

	assert.Equal(t, []string{
		"Reading installed build",
		"Updating suitcase from github.com/jeroen-meijer/suitcase/cmd/suitcase@latest",
	}, rec.Prompts())
}

func TestUpdatePinnedVersionAndPackage(t *testing.T) {
	tc := &fakeToolchain{current: releaseBuild, newVersion: "v0.3.0", gobin: "/opt/bin"}
	u, exec, _ := newTestUpdater(tc)

	result, err := u.Update(context.Background(), Options{Package: "example.com/fork/cmd/suitcase", Version: "v0.3.0"})
	require.NoError(t, err)
	assert.Equal(t, "suitcase is already up to date (v0.3.0)", result.Summary())

	calls := exec.Calls()
	assert.Equal(t, "go install example.com/fork/cmd/suitcase@v0.3.0", calls[1].String())
	assert.Equal(t, "go version -m "+filepath.Join("/opt/bin", "suitcase"), calls[3].String())
}

func TestUpdateFromLocalSource(t *testing.T) {
	tc := &fakeToolchain{current: develBuild, newVersion: DevelVersion, gopath: "/home/me/go"}
	u, exec, rec := newTestUpdater(tc)

	_, err := u.Update(context.Background(), Options{Source: "/src/suitcase"})
	require.NoError(t, err)

	install := exec.Calls()[1]
	assert.Equal(t, "go install ./cmd/suitcase", install.String())
	assert.Equal(t, "/src/suitcase", install.Dir)
	assert.Equal(t, "Updating suitcase from local path (/src/suitcase)", rec.Prompts()[1])
}

func TestUpdateCheckOnly(t *testing.T) {
	tc := &fakeToolchain{current: releaseBuild, latest: "v0.5.0"}
	u, exec, rec := newTestUpdater(tc)

	result, err := u.Update(context.Background(), Options{CheckOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "v0.3.0", result.Before.Version)
	assert.Equal(t, "v0.5.0", result.Latest)
	assert.Equal(t, "suitcase v0.5.0 is available (installed: v0.3.0)", result.CheckSummary())

	calls := exec.Calls()
	require.Len(t, calls, 2, "check must not install anything")
	assert.Equal(t, "go list -m -f {{.Version}} github.com/jeroen-meijer/suitcase@latest", calls[1].String())
	assert.Equal(t, []string{"Reading installed build", "Checking latest version"}, rec.Prompts())
}

func TestUpdateCheckOnlyOffline(t *testing.T) {
	tc := &fakeToolchain{current: releaseBuild, latestErr: errors.New("dial tcp: no route to host")}
	u, _, _ := newTestUpdater(tc)

	result, err := u.Update(context.Background(), Options{CheckOnly: true})
	require.NoError(t, err, "an unreachable proxy only degrades the report")
	assert.Equal(t, "suitcase v0.3.0 (latest version unknown)", result.CheckSummary())
}

func TestCheckSummary(t *testing.T) {
	v := func(version string) *Build { return &Build{Version: version} }

	tests := []struct {
		result Result
		want   string
	}{
		{Result{Before: v("v0.3.0"), Latest: "v0.3.0"}, "suitcase is already up to date (v0.3.0)"},
		{Result{Before: v("v0.3.0"), Latest: "v0.2.9"}, "suitcase is already up to date (v0.3.0)"},
		{Result{Before: v("v0.3.0"), Latest: "v0.3.1"}, "suitcase v0.3.1 is available (installed: v0.3.0)"},
		{Result{Before: v(DevelVersion), Latest: "v0.3.1"}, "suitcase (devel), latest published version is v0.3.1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.result.CheckSummary())
	}
}

func TestUpdateInstallFailure(t *testing.T) {
	tc := &fakeToolchain{current: releaseBuild, installErr: errors.New("proxy unreachable")}
	u, _, rec := newTestUpdater(tc)

	_, err := u.Update(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trying to update suitcase from github.com/jeroen-meijer/suitcase/cmd/suitcase@latest")
	assert.Contains(t, err.Error(), "proxy unreachable")

	require.Len(t, rec.Entries, 2)
	assert.False(t, rec.Entries[1].OK)
}

func TestUpdateCannotReadNewBuild(t *testing.T) {
	tc := &fakeToolchain{current: releaseBuild, newVersion: "v0.4.0"}
	u, _, _ := newTestUpdater(tc)

	// Neither GOBIN nor GOPATH is reported, so the new binary cannot be found
	result, err := u.Update(context.Background(), Options{})
	require.NoError(t, err)
	assert.Nil(t, result.After)
	assert.Equal(t, "Upgraded suitcase successfully (but failed to read the new version)", result.Summary())
}

func TestUpdateCurrentBuildUnreadable(t *testing.T) {
	tc := &fakeToolchain{current: "not a go binary"}
	u, _, _ := newTestUpdater(tc)

	_, err := u.Update(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrNoBuildInfo)
	assert.Contains(t, err.Error(), "trying to read the installed build")
}

func TestInstalledBinaryUsesFirstGopathEntry(t *testing.T) {
	gopath := strings.Join([]string{"/first", "/second"}, string(filepath.ListSeparator))
	tc := &fakeToolchain{gopath: gopath}
	u, _, _ := newTestUpdater(tc)

	got, err := u.InstalledBinary(context.Background(), "github.com/jeroen-meijer/suitcase/cmd/suitcase")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/first", "bin", "suitcase"), got)
}

func TestUpdateWarnsAboutDowngrade(t *testing.T) {
	output.NoColor()
	var warnings bytes.Buffer
	orig := output.Stderr
	output.Stderr = &warnings
	t.Cleanup(func() { output.Stderr = orig })

	tc := &fakeToolchain{current: releaseBuild, newVersion: "v0.2.0", gopath: "/home/me/go"}
	u, _, _ := newTestUpdater(tc)

	result, err := u.Update(context.Background(), Options{Version: "v0.2.0"})
	require.NoError(t, err)
	assert.Equal(t, "Upgraded suitcase from v0.3.0 to v0.2.0", result.Summary())
	assert.Equal(t, "⚠ Installed version v0.2.0 is older than the previous v0.3.0\n", warnings.String())
}
