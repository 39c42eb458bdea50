package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// SpinnerProgressReporter implements progress reporting with a spinner
type SpinnerProgressReporter struct {
	spinner        *spinner.Spinner
	out            io.Writer
	stages         []stageInfo
	currentStage   usecase.ExecutionStage
	stageStartTime time.Time
}

type stageInfo struct {
	Stage     usecase.ExecutionStage
	StartTime time.Time
	EndTime   time.Time
	Message   string
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter.
// The spinner draws on stderr, messages go to stdout.
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(os.Stderr))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     os.Stdout,
		stages:  []stageInfo{},
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.currentStage {
		r.enterStage(event.Stage)
	}

	if event.Stage == usecase.StageCompleted {
		r.stopSpinner()
		color.New(color.FgGreen).Fprintf(r.out, "✓ %s in %s\n", event.Message, r.elapsed().Round(time.Millisecond))
		return
	}

	if event.Spinner {
		r.spinner.Suffix = " " + formatEvent(event)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else {
		r.stopSpinner()
	}

	if len(r.stages) > 0 {
		r.stages[len(r.stages)-1].Message = event.Message
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.printAround(color.New(color.FgCyan), message)
}

// Error stops the spinner and prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.stopSpinner()
	color.New(color.FgRed).Fprintf(r.out, "✗ %s\n", message)
}

// printAround pauses the spinner while a line is printed
func (r *SpinnerProgressReporter) printAround(c *color.Color, message string) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) enterStage(stage usecase.ExecutionStage) {
	now := time.Now()
	if len(r.stages) > 0 {
		r.stages[len(r.stages)-1].EndTime = now
	}
	r.currentStage = stage
	r.stageStartTime = now
	r.stages = append(r.stages, stageInfo{Stage: stage, StartTime: now})
}

// elapsed returns the time since the first stage started
func (r *SpinnerProgressReporter) elapsed() time.Duration {
	if len(r.stages) == 0 {
		return 0
	}
	return time.Since(r.stages[0].StartTime)
}

func (r *SpinnerProgressReporter) stopSpinner() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// formatEvent renders the spinner suffix, e.g. "[1/2] Deploying pool"
func formatEvent(event usecase.ProgressEvent) string {
	if event.Total > 1 && event.Current > 0 {
		return fmt.Sprintf("%s %s",
			color.New(color.Faint).Sprintf("[%d/%d]", event.Current, event.Total),
			event.Message)
	}
	return event.Message
}

// Ensure the reporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
