// Package cli implements the terminal front end of picalc: the progress
// spinner, the display of π and of the run statistics, file output and
// shell completion scripts.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/picalc/internal/chudnovsky"
	"github.com/agbru/picalc/internal/ui"
)

const (
	// ProgressRefreshRate is the spinner and progress bar refresh period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width of the progress bar in characters.
	ProgressBarWidth = 40
	// PreviewDigits is the number of decimals shown in banners and tables
	// before the value is elided.
	PreviewDigits = 50
)

// Color shorthands re-exported for the callers that only import cli.

func ColorReset() string   { return ui.ColorReset() }
func ColorRed() string     { return ui.ColorRed() }
func ColorGreen() string   { return ui.ColorGreen() }
func ColorYellow() string  { return ui.ColorYellow() }
func ColorMagenta() string { return ui.ColorMagenta() }
func ColorCyan() string    { return ui.ColorCyan() }
func ColorBold() string    { return ui.ColorBold() }

// FormatExecutionDuration prints sub-millisecond durations in µs and
// sub-second durations in ms.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// Spinner abstracts the terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// progressBar renders progress, clamped to [0, 1], as a bar of length cells.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0.0), 1.0)
	filled := int(progress * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < filled {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

func progressLabel(numCalculators int) string {
	if numCalculators > 1 {
		return "Avg progress"
	}
	return "Progress"
}

// DisplayProgress renders the spinner and an averaged progress bar until
// progressChan is closed, then prints a final 100% line. It is meant to run
// on its own goroutine and calls wg.Done when it returns.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan chudnovsky.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	if numCalculators <= 0 {
		for range progressChan {
		}
		return
	}

	state := NewProgressWithETA(numCalculators)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	label := progressLabel(numCalculators)
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintf(out, "%s: %s\n", label, FormatProgressBarWithETA(1.0, time.Nanosecond, ProgressBarWidth))
				return
			}
			state.UpdateWithETA(update.CalculatorIndex, update.Value)
		case <-ticker.C:
			s.UpdateSuffix(fmt.Sprintf(" %s: %s", label,
				FormatProgressBarWithETA(state.CalculateAverage(), state.GetETA(), ProgressBarWidth)))
		}
	}
}

// DisplayResult writes the digits of π on their own line, the way the
// value is printed for piping into other tools.
func DisplayResult(out io.Writer, value string) {
	fmt.Fprintln(out, value)
}

// PreviewValue shortens value to PreviewDigits decimals followed by an
// ellipsis.
func PreviewValue(value string) string {
	if dot := strings.IndexByte(value, '.'); dot >= 0 && len(value) > dot+1+PreviewDigits {
		return value[:dot+1+PreviewDigits] + "..."
	}
	return value
}
