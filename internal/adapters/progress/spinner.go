package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

var (
	stepColor  = color.New(color.FgCyan, color.Bold)
	stageColor = color.New(color.FgYellow)
	infoColor  = color.New(color.FgGreen)
	errorColor = color.New(color.FgRed)
)

// SpinnerSink renders deployment progress with a spinner on stderr.
// Spec-level events (Total > 0) set the "[i/n]" prefix shown for every
// following submission event.
type SpinnerSink struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	out     io.Writer

	step      string
	stepStart time.Time
}

// NewSpinnerSink creates a spinner sink writing to stderr
func NewSpinnerSink() *SpinnerSink {
	return newSpinnerSink(os.Stderr)
}

func newSpinnerSink(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{
		spinner: s,
		out:     out,
	}
}

// OnProgress updates the spinner line
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Total > 0 {
		r.step = stepColor.Sprintf("[%d/%d]", event.Current, event.Total)
		r.stepStart = time.Now()
	}

	if !event.Spinner {
		if r.spinner.Active() {
			r.spinner.Stop()
		}
		return
	}

	r.spinner.Suffix = " " + r.suffix(event)
	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

func (r *SpinnerSink) suffix(event usecase.ProgressEvent) string {
	line := event.Message
	if event.Stage != "" {
		line = fmt.Sprintf("%s %s", stageColor.Sprint(event.Stage), line)
	}
	if r.step != "" {
		line = fmt.Sprintf("%s %s (%s)", r.step, line, time.Since(r.stepStart).Round(time.Second))
	}
	return line
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.println(infoColor, "✓ "+message)
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.println(errorColor, "✗ "+message)
}

func (r *SpinnerSink) println(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Stop spinner temporarily
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// Stop clears the spinner line
func (r *SpinnerSink) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
