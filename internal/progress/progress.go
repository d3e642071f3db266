// Package progress wraps a stderr progress bar for file processing.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewTracker creates a bar with the given label and total count. Pass
// quiet=true to suppress all drawing (the Tick calls become no-ops).
func NewTracker(label string, total int, quiet bool) *Tracker {
	if quiet {
		return &Tracker{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label}
}

// Tick increments progress by one. Safe for concurrent use.
func (t *Tracker) Tick() {
	if t.bar != nil {
		t.bar.Add(1)
	}
}

// Finish clears the bar.
func (t *Tracker) Finish() {
	if t.bar != nil {
		t.bar.Finish()
		t.bar.Clear()
	}
}

// FinishError clears the bar and prints the failure.
func (t *Tracker) FinishError(err error) {
	t.Finish()
	fmt.Fprintf(os.Stderr, "  %s error: %v\n", t.label, err)
}
