// Package orchestration runs one or more π engines for the same request
// and compares their digits.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/picalc/internal/chudnovsky"
	"github.com/agbru/picalc/internal/cli"
	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/planner"
	"github.com/agbru/picalc/internal/ui"
)

// CalculationResult is the outcome of one engine run.
type CalculationResult struct {
	// Name identifies the engine (Calculator.Name, the registry key).
	Name string
	// Value is π at the plan's precision; nil on error.
	Value *big.Float
	// Digits is Value rendered with the requested decimals.
	Digits string
	// Duration covers the computation and the rendering.
	Duration time.Duration
	// Err is the engine error, if any.
	Err error
}

// ProgressBufferMultiplier sizes the progress channel per calculator so that
// workers rarely wait on a slow display.
const ProgressBufferMultiplier = 5

// ExecuteCalculations runs every calculator concurrently on the request
// described by plan and cfg, while a single goroutine renders progress on
// out. Results keep the order of calculators.
func ExecuteCalculations(ctx context.Context, calculators []chudnovsky.Calculator, plan planner.Plan, cfg config.AppConfig, out io.Writer) []CalculationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan chudnovsky.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	req := plan.Request(cfg.Threads)
	opts := cfg.ToCalculationOptions()
	for i, calc := range calculators {
		g.Go(func() error {
			start := time.Now()
			value, err := calc.Calculate(ctx, progressChan, i, req, opts)
			res := CalculationResult{Name: calc.Name(), Value: value, Err: err}
			if err == nil {
				res.Digits = planner.Render(value, plan.Digits)
			}
			res.Duration = time.Since(start)
			results[i] = res
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// FirstSuccess returns the fastest successful result, or nil. results must
// have been sorted by AnalyzeComparisonResults, or hold a single entry.
func FirstSuccess(results []CalculationResult) *CalculationResult {
	for i := range results {
		if results[i].Err == nil {
			return &results[i]
		}
	}
	return nil
}

// AnalyzeComparisonResults sorts results (successes first, fastest first),
// prints the comparison table on out and returns the exit code: success when
// every successful engine produced the same digits, ExitErrorMismatch when
// two of them disagree, or the mapped error of the first failure when none
// succeeded.
func AnalyzeComparisonResults(results []CalculationResult, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var reference string
	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sEngine%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			if successCount == 0 {
				reference = res.Digits
			}
			successCount++
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No engine could complete the calculation.\n")
		return apperrors.HandleCalculationError(firstError, 0, out, ui.ErrorColors{})
	}

	for _, res := range results {
		if res.Err == nil && res.Digits != reference {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The engines disagree on the digits of π.\n")
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	fmt.Fprintf(out, "π ≈ %s%s%s\n", ui.ColorGreen(), cli.PreviewValue(reference), ui.ColorReset())
	return apperrors.ExitSuccess
}
