package projects

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParsePubspecFlutterDetection(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantName    string
		wantFlutter bool
	}{
		{
			name:        "flutter sdk dependency",
			content:     "name: app\ndependencies:\n  flutter:\n    sdk: flutter\n",
			wantName:    "app",
			wantFlutter: true,
		},
		{
			name:        "plain dart package",
			content:     "name: core\ndependencies:\n  meta: ^1.9.0\n",
			wantName:    "core",
			wantFlutter: false,
		},
		{
			name:        "no dependencies section",
			content:     "name: tool\n",
			wantName:    "tool",
			wantFlutter: false,
		},
		{
			name:        "flutter key without value",
			content:     "name: odd\ndependencies:\n  flutter:\n",
			wantName:    "odd",
			wantFlutter: false,
		},
		{
			name:        "explicit null",
			content:     "name: odd\ndependencies:\n  flutter: null\n",
			wantName:    "odd",
			wantFlutter: false,
		},
		{
			name:        "flutter only in dev dependencies",
			content:     "name: lint\ndev_dependencies:\n  flutter:\n    sdk: flutter\n",
			wantName:    "lint",
			wantFlutter: false,
		},
		{
			name:        "version constraint counts",
			content:     "name: legacy\ndependencies:\n  flutter: any\n",
			wantName:    "legacy",
			wantFlutter: true,
		},
		{
			name:        "dependencies as a list",
			content:     "name: listed\ndependencies:\n  - flutter\n",
			wantName:    "listed",
			wantFlutter: false,
		},
		{
			name:        "dependencies as a string",
			content:     "name: plain\ndependencies: none\n",
			wantName:    "plain",
			wantFlutter: false,
		},
		{
			name:        "flutter after other dependencies",
			content:     "name: late\ndependencies:\n  meta: ^1.9.0\n  flutter:\n    sdk: flutter\n",
			wantName:    "late",
			wantFlutter: true,
		},
		{
			name:        "empty file",
			content:     "",
			wantName:    "",
			wantFlutter: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParsePubspec([]byte(tt.content))
			if err != nil {
				t.Fatalf("ParsePubspec failed: %v", err)
			}
			if spec.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, spec.Name)
			}
			if spec.IsFlutter() != tt.wantFlutter {
				t.Errorf("expected IsFlutter %v, got %v", tt.wantFlutter, spec.IsFlutter())
			}
		})
	}
}

func TestReadPubspecErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadPubspec(t.TempDir())
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, PubspecFileName), []byte("dependencies: [a, b"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := ReadPubspec(dir)
		if !errors.Is(err, ErrInvalidPubspec) {
			t.Errorf("expected ErrInvalidPubspec, got %v", err)
		}
	})

	t.Run("dependencies of an unexpected shape", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, PubspecFileName), []byte("name: odd\ndependencies:\n  - flutter\n"), 0644); err != nil {
			t.Fatal(err)
		}
		spec, err := ReadPubspec(dir)
		if err != nil {
			t.Fatalf("expected a readable pubspec, got %v", err)
		}
		if spec.IsFlutter() {
			t.Error("a list of dependencies is not a Flutter dependency")
		}
	})
}
