package chudnovsky

import (
	"sync"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/parallel"
)

// SplitFunc computes the Triple of a single range. BinarySplit and the
// fork-join splitter both satisfy it once adapted to a Range.
type SplitFunc func(r Range) Triple

// splitShare is the fraction of the progress bar attributed to the worker
// phase; the ordered fold and the evaluation account for the rest.
const splitShare = 0.9

// Reduce evaluates split for every range on its own goroutine, waits for all
// of them, then folds the results strictly in range order:
//
//	acc = results[0]
//	acc = Merge(acc, results[i])   for i = 1..k-1
//
// Each worker writes only its own slot, so no lock guards the results; the
// WaitGroup barrier publishes them to the folding goroutine. A panicking
// worker is recovered and reported as a CalculationError, in which case no
// fold takes place.
//
// Parameters:
//   - ranges: The ordered, contiguous ranges produced by Partition.
//   - split: The function computing the Triple of one range.
//   - reporter: Receives progress in [0, splitShare] as workers complete.
//
// Returns:
//   - Triple: The Triple of the union of all ranges.
//   - error: The first worker failure, if any.
func Reduce(ranges []Range, split SplitFunc, reporter ProgressReporter) (Triple, error) {
	return reduceOrdered[Triple](ranges, split, Merge, reporter)
}

// reduceOrdered is the fork-join and ordered fold behind Reduce, generic
// over the triple representation so that engines using another integer
// type share the same worker and ordering logic.
func reduceOrdered[T any](ranges []Range, split func(Range) T, merge func(left, right T) T, reporter ProgressReporter) (T, error) {
	var zero T
	if len(ranges) == 0 {
		return zero, apperrors.NewValidationError("ranges", "at least one range is required", 0)
	}
	if reporter == nil {
		reporter = func(float64) {}
	}

	tracker := newWorkTracker(totalTerms(ranges), reporter)
	results := make([]T, len(ranges))

	var wg sync.WaitGroup
	var ec parallel.ErrorCollector
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, r Range) {
			defer wg.Done()
			defer ec.CapturePanic("worker " + r.String())
			results[i] = split(r)
			tracker.done(r.Len())
		}(i, r)
	}
	wg.Wait()

	if err := ec.Err(); err != nil {
		return zero, apperrors.CalculationError{Cause: err}
	}
	return foldOrdered(results, merge), nil
}

// foldOrdered merges results left to right and releases every slot once it
// has been folded into the accumulator.
func foldOrdered[T any](results []T, merge func(left, right T) T) T {
	var zero T
	acc := results[0]
	results[0] = zero
	for i := 1; i < len(results); i++ {
		acc = merge(acc, results[i])
		results[i] = zero
	}
	return acc
}

func totalTerms(ranges []Range) int {
	total := 0
	for _, r := range ranges {
		total += r.Len()
	}
	return total
}

// workTracker turns completed worker ranges into monotonic progress values.
type workTracker struct {
	mu           sync.Mutex
	total        int
	completed    int
	lastReported float64
	reporter     ProgressReporter
}

func newWorkTracker(total int, reporter ProgressReporter) *workTracker {
	return &workTracker{total: total, reporter: reporter}
}

func (w *workTracker) done(terms int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.completed += terms
	if w.total <= 0 {
		return
	}
	progress := splitShare * float64(w.completed) / float64(w.total)
	if progress-w.lastReported >= ProgressReportThreshold || w.completed == w.total {
		w.reporter(progress)
		w.lastReported = progress
	}
}
