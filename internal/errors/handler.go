package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the terminal escape sequences used by
// HandleCalculationError. It lets this package stay independent of the ui
// package.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// PlainColors is a ColorProvider that emits no escape sequences.
type PlainColors struct{}

func (PlainColors) Yellow() string { return "" }
func (PlainColors) Red() string    { return "" }
func (PlainColors) Reset() string  { return "" }

// HandleCalculationError writes a one-line status for a failed run to out
// and returns the exit code matching err.
//
// Timeouts map to ExitErrorTimeout, cancellations to ExitErrorCanceled,
// configuration and validation problems to ExitErrorConfig. Anything else
// is ExitErrorGeneric.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = PlainColors{}
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	var cfgErr ConfigError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", suffix)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), suffix, colors.Reset())
		return ExitErrorCanceled
	case errors.As(err, &cfgErr), IsValidationError(err):
		fmt.Fprintf(out, "%sStatus: Invalid input.%s %v\n", colors.Red(), colors.Reset(), err)
		return ExitErrorConfig
	}
	fmt.Fprintf(out, "%sStatus: Failure.%s An unexpected error occurred: %v\n", colors.Red(), colors.Reset(), err)
	return ExitErrorGeneric
}
