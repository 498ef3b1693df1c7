// Package progress renders analysis state transitions on the terminal.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/ziadkadry99/repodocs/internal/analysis"
)

// steps orders the non-terminal states of a run.
var steps = map[analysis.State]int{
	analysis.StateFetching:   1,
	analysis.StateWalking:    2,
	analysis.StateExtracting: 3,
	analysis.StateAssembled:  4,
}

const totalSteps = 4

var descriptions = map[analysis.State]string{
	analysis.StateFetching:   "Cloning repository",
	analysis.StateWalking:    "Walking files",
	analysis.StateExtracting: "Extracting facts",
	analysis.StateAssembled:  "Analysis complete",
}

// Reporter is an analysis.Observer that shows run progress.
type Reporter interface {
	analysis.Observer
	Finish()
}

// NewReporter returns a CIReporter when the CI or GITHUB_ACTIONS environment
// variable is set and a TerminalReporter otherwise. Both write to w.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w}
	}
	return NewTerminalReporter(w)
}

// TerminalReporter displays a progress bar.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

// NewTerminalReporter creates a progress bar writing to w.
func NewTerminalReporter(w io.Writer) *TerminalReporter {
	return &TerminalReporter{
		bar: progressbar.NewOptions(totalSteps,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("Analyzing"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func (r *TerminalReporter) OnEvent(e analysis.Event) {
	step, ok := steps[e.State]
	if !ok {
		return
	}
	r.bar.Describe(descriptions[e.State])
	_ = r.bar.Set(step)
}

func (r *TerminalReporter) Finish() {
	_ = r.bar.Finish()
}

// CIReporter prints one line per state, suitable for CI logs.
type CIReporter struct {
	w io.Writer
}

func (r *CIReporter) OnEvent(e analysis.Event) {
	if step, ok := steps[e.State]; ok {
		fmt.Fprintf(r.w, "[%d/%d] %s: %s\n", step, totalSteps, e.Repo, descriptions[e.State])
		return
	}
	switch e.State {
	case analysis.StateFetchError, analysis.StateAnalysisError:
		fmt.Fprintf(r.w, "%s: failed (%s): %s\n", e.Repo, e.State, e.Error)
	case analysis.StateCleanedUp:
		if e.Error != "" {
			fmt.Fprintf(r.w, "%s: cleanup failed: %s\n", e.Repo, e.Error)
		}
	}
}

func (r *CIReporter) Finish() {}
