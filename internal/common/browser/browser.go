// Package browser opens URLs with the platform's default handler.
package browser

import (
	"context"
	"runtime"
	"strings"

	"github.com/jeroen-meijer/suitcase/internal/common/shell"
)

// Opener opens a URL in a browser
type Opener interface {
	Open(ctx context.Context, url string) error
}

// SystemOpener opens URLs through an external command
type SystemOpener struct {
	exec    shell.Executor
	command []string
}

// NewSystemOpener creates an opener for the current platform.
// A non-empty override (e.g. "firefox --new-tab") replaces the platform
// command; the URL is always appended as the last argument.
func NewSystemOpener(exec shell.Executor, override string) *SystemOpener {
	if exec == nil {
		exec = shell.NewRunner()
	}
	command := strings.Fields(override)
	if len(command) == 0 {
		command = DefaultCommand(runtime.GOOS)
	}
	return &SystemOpener{exec: exec, command: command}
}

// DefaultCommand returns the URL handler command for goos
func DefaultCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

// Command returns the invocation used to open url
func (o *SystemOpener) Command(url string) shell.Command {
	args := append([]string{}, o.command[1:]...)
	return shell.Command{Name: o.command[0], Args: append(args, url)}
}

// Open runs the opener command for url
func (o *SystemOpener) Open(ctx context.Context, url string) error {
	_, err := o.exec.Run(ctx, o.Command(url))
	return err
}

// Ensure SystemOpener implements Opener interface
var _ Opener = (*SystemOpener)(nil)
