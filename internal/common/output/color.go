package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/jeroen-meijer/suitcase/internal/common/logger"
)

var (
	// Project kind colors
	Flutter = color.New(color.FgCyan)
	Dart    = color.New(color.FgBlue)

	// Message colors
	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.Faint)

	// Structural colors
	Project = color.New(color.FgBlue, color.Bold)
	Bold    = color.New(color.Bold)
)

// Stdout and Stderr are the writers used by the Print helpers
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// IsTerminalWriter reports whether w is a file attached to a terminal
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// FormatKind renders a "[flutter]" or "[dart]" label
func FormatKind(flutter bool) string {
	if flutter {
		return Flutter.Sprint("[flutter]")
	}
	return Dart.Sprint("[dart]")
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Fprintf(Stdout, "✓ "+format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(Stderr, "✗ "+format+"\n", args...)
}

// PrintWarning prints a warning message to Stderr so that listings on Stdout
// stay parseable
func PrintWarning(format string, args ...interface{}) {
	Warning.Fprintf(Stderr, "⚠ "+format+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Fprintf(Stdout, "→ "+format+"\n", args...)
}

// Warn records a warning in the log file and prints it with PrintWarning
// when the default logger shows warnings
func Warn(format string, args ...interface{}) {
	l := logger.Default()
	l.Debug(format, args...)
	if l.Enabled(logger.LevelWarn) {
		PrintWarning(format, args...)
	}
}
