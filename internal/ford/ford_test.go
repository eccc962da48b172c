package ford

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeroen-meijer/suitcase/internal/batch"
	"github.com/jeroen-meijer/suitcase/internal/common/config"
	"github.com/jeroen-meijer/suitcase/internal/common/progress"
	"github.com/jeroen-meijer/suitcase/internal/common/shell"
	"github.com/jeroen-meijer/suitcase/internal/projects"
)

func boolPtr(b bool) *bool { return &b }

// workspace creates one Flutter app and two Dart packages, returning the
// resolved root.
func workspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"app":           "name: app\ndependencies:\n  flutter:\n    sdk: flutter\n",
		"packages/core": "name: core\n",
		"packages/cli":  "name: cli\n",
	}
	for dir, content := range files {
		full := filepath.Join(root, dir)
		require.NoError(t, os.MkdirAll(full, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(full, projects.PubspecFileName), []byte(content), 0644))
	}
	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	return resolved
}

func dirs(calls []shell.Command, root string) []string {
	var out []string
	for _, c := range calls {
		rel, _ := filepath.Rel(root, c.Dir)
		out = append(out, rel)
	}
	sort.Strings(out)
	return out
}

func TestRunIncludesFlutterByDefault(t *testing.T) {
	root := workspace(t)
	exec := shell.NewMockExecutor()
	rec := &progress.Recorder{}

	err := New(exec, rec, nil, nil).Run(context.Background(), Options{
		Command: []string{"dart", "pub", "get"},
		Path:    root,
	})
	require.NoError(t, err)

	calls := exec.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"app", "packages/cli", "packages/core"}, dirs(calls, root))
	for _, c := range calls {
		assert.Equal(t, "bash", c.Name)
		assert.Equal(t, []string{"-c", "dart pub get"}, c.Args)
	}
	assert.Equal(t, "Finding Dart projects", rec.Prompts()[0])
}

func TestRunExcludesFlutter(t *testing.T) {
	root := workspace(t)
	exec := shell.NewMockExecutor()

	err := New(exec, nil, nil, nil).Run(context.Background(), Options{
		Command:        []string{"dart test"},
		Path:           root,
		IncludeFlutter: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"packages/cli", "packages/core"}, dirs(exec.Calls(), root))
}

func TestRunUsesConfiguredShell(t *testing.T) {
	root := workspace(t)
	exec := shell.NewMockExecutor()
	cfg := config.Default()
	cfg.Shell = "zsh"

	err := New(exec, nil, cfg, nil).Run(context.Background(), Options{Command: []string{"ls"}, Path: root})
	require.NoError(t, err)
	for _, c := range exec.Calls() {
		assert.Equal(t, "zsh", c.Name)
	}
}

func TestRunHonoursIgnoredFolders(t *testing.T) {
	root := workspace(t)
	exec := shell.NewMockExecutor()
	cfg := config.Default()
	cfg.Projects.IgnoredFolders = []string{"packages"}

	err := New(exec, nil, cfg, nil).Run(context.Background(), Options{Command: []string{"ls"}, Path: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, dirs(exec.Calls(), root))
}

func TestRunWithPreset(t *testing.T) {
	root := workspace(t)
	presets := config.Presets{
		"analyze": {Command: "dart analyze", Flutter: boolPtr(false)},
		"get":     {Command: "flutter pub get"},
	}

	t.Run("preset flutter setting applies", func(t *testing.T) {
		exec := shell.NewMockExecutor()
		err := New(exec, nil, nil, presets).Run(context.Background(), Options{Preset: "analyze", Path: root})
		require.NoError(t, err)
		assert.Equal(t, []string{"packages/cli", "packages/core"}, dirs(exec.Calls(), root))
		assert.Equal(t, "dart analyze", exec.Calls()[0].Args[1])
	})

	t.Run("explicit flag wins over preset", func(t *testing.T) {
		exec := shell.NewMockExecutor()
		err := New(exec, nil, nil, presets).Run(context.Background(), Options{
			Preset:         "analyze",
			Path:           root,
			IncludeFlutter: boolPtr(true),
		})
		require.NoError(t, err)
		assert.Len(t, exec.Calls(), 3)
	})

	t.Run("unknown preset", func(t *testing.T) {
		err := New(shell.NewMockExecutor(), nil, nil, presets).Run(context.Background(), Options{Preset: "nope", Path: root})
		assert.ErrorIs(t, err, config.ErrUnknownPreset)
	})

	t.Run("preset and command", func(t *testing.T) {
		err := New(shell.NewMockExecutor(), nil, nil, presets).Run(context.Background(), Options{
			Preset:  "get",
			Command: []string{"ls"},
			Path:    root,
		})
		assert.ErrorIs(t, err, ErrConflictingInput)
	})
}

func TestRunWithoutCommand(t *testing.T) {
	exec := shell.NewMockExecutor()

	for _, cmd := range [][]string{nil, {}, {"  "}} {
		err := New(exec, nil, nil, nil).Run(context.Background(), Options{Command: cmd, Path: t.TempDir()})
		assert.ErrorIs(t, err, ErrNoCommand)
	}
	assert.Empty(t, exec.Calls())
}

func TestRunNoProjects(t *testing.T) {
	exec := shell.NewMockExecutor()

	err := New(exec, nil, nil, nil).Run(context.Background(), Options{Command: []string{"ls"}, Path: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, exec.Calls())
}

func TestRunReportsFailures(t *testing.T) {
	root := workspace(t)
	exec := shell.NewMockExecutor()
	exec.RunFunc = func(_ context.Context, cmd shell.Command) (*shell.Result, error) {
		if filepath.Base(cmd.Dir) == "core" {
			return &shell.Result{ExitCode: 2}, shell.NewExitError(cmd, 2, "", "analysis failed")
		}
		return &shell.Result{}, nil
	}

	err := New(exec, nil, nil, nil).Run(context.Background(), Options{Command: []string{"dart", "analyze"}, Path: root})
	require.Error(t, err)

	var batchErr *batch.Error
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, "error while executing command 'dart analyze' for 1 project(s): core", err.Error())
}

func TestRunMissingPath(t *testing.T) {
	err := New(shell.NewMockExecutor(), nil, nil, nil).Run(context.Background(), Options{
		Command: []string{"ls"},
		Path:    filepath.Join(t.TempDir(), "gone"),
	})
	assert.ErrorIs(t, err, projects.ErrRootNotFound)
}
