// Package progress shows a spinner while a step runs and a timed
// ✔/✘ line once it finishes.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/jeroen-meijer/suitcase/internal/common/output"
)

const timestampLayout = "2006-01-02 15:04:05"

// dots is the braille spinner charset
var dots = spinner.CharSets[14]

// Task is a running step started by a Reporter
type Task interface {
	Success()
	Fail()
}

// Reporter starts progress tasks
type Reporter interface {
	Start(prompt string) Task
}

// Track runs fn as a task named prompt, marking it failed when fn returns an error
func Track[T any](r Reporter, prompt string, fn func() (T, error)) (T, error) {
	task := r.Start(prompt)
	result, err := fn()
	if err != nil {
		task.Fail()
	} else {
		task.Success()
	}
	return result, err
}

// Do is Track for steps that only return an error
func Do(r Reporter, prompt string, fn func() error) error {
	_, err := Track(r, prompt, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Terminal renders tasks to a writer, animating when it is a TTY
type Terminal struct {
	out      io.Writer
	animate  bool
	quiet    bool
	interval time.Duration
	now      func() time.Time
}

// NewTerminal creates a Terminal reporter writing to out
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:      out,
		animate:  output.IsTerminalWriter(out),
		interval: 80 * time.Millisecond,
		now:      time.Now,
	}
}

// SetQuiet suppresses all progress output
func (t *Terminal) SetQuiet(quiet bool) {
	t.quiet = quiet
}

// Start begins a task and, on a TTY, its spinner
func (t *Terminal) Start(prompt string) Task {
	if t.quiet {
		return noopTask{}
	}

	task := &terminalTask{
		term:   t,
		prompt: prompt,
		start:  t.now(),
	}

	if t.animate {
		task.spinner = spinner.New(dots, t.interval, spinner.WithWriter(t.out))
		task.spinner.Suffix = fmt.Sprintf(" [%s] %s...", task.start.Format(timestampLayout), prompt)
		task.spinner.Start()
	}
	return task
}

type terminalTask struct {
	term    *Terminal
	prompt  string
	start   time.Time
	spinner *spinner.Spinner
	once    sync.Once
}

func (t *terminalTask) Success() {
	t.finish(true)
}

func (t *terminalTask) Fail() {
	t.finish(false)
}

func (t *terminalTask) finish(ok bool) {
	t.once.Do(func() {
		if t.spinner != nil {
			// Stop erases the spinner line
			t.spinner.Stop()
		}

		end := t.term.now()
		took := end.Sub(t.start).Milliseconds()
		label := fmt.Sprintf("[%s] %s", end.Format(timestampLayout), t.prompt)

		if ok {
			fmt.Fprintf(t.term.out, "%s %s (took %dms)\n", output.Success.Sprint("✔"), label, took)
		} else {
			fmt.Fprintf(t.term.out, "%s %s (took %dms)\n", output.Error.Sprint("✘"), output.Bold.Sprint(label), took)
		}
	})
}

type noopTask struct{}

func (noopTask) Success() {}
func (noopTask) Fail()    {}

type discard struct{}

func (discard) Start(string) Task { return noopTask{} }

// Discard is a Reporter that shows nothing
var Discard Reporter = discard{}

// Recorder is a Reporter that remembers task outcomes, for tests
type Recorder struct {
	mu      sync.Mutex
	Entries []Entry
}

// Entry is one finished (or still running) task seen by a Recorder
type Entry struct {
	Prompt   string
	Finished bool
	OK       bool
}

// Start records a new task
func (r *Recorder) Start(prompt string) Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, Entry{Prompt: prompt})
	return &recordedTask{r: r, index: len(r.Entries) - 1}
}

// Prompts returns the prompts of every task started so far
func (r *Recorder) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	prompts := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		prompts[i] = e.Prompt
	}
	return prompts
}

type recordedTask struct {
	r     *Recorder
	index int
}

func (t *recordedTask) Success() { t.set(true) }
func (t *recordedTask) Fail()    { t.set(false) }

func (t *recordedTask) set(ok bool) {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()
	t.r.Entries[t.index].Finished = true
	t.r.Entries[t.index].OK = ok
}
