package chudnovsky

import (
	"context"
	"math/bits"
)

// BinarySplitting is the default engine. The series range is partitioned
// into one contiguous range per worker; each worker runs the sequential
// BinarySplit on its range and the results are folded in order.
type BinarySplitting struct{}

// Name returns the name of the engine.
func (c *BinarySplitting) Name() string {
	return "Binary Splitting"
}

// CalculateCore implements coreCalculator.
func (c *BinarySplitting) CalculateCore(ctx context.Context, reporter ProgressReporter, req Request, opts Options) (Triple, error) {
	ranges, err := Partition(req.SeriesLength, req.effectiveWorkers())
	if err != nil {
		return Triple{}, err
	}
	return Reduce(ranges, splitRange, reporter)
}

// ForkJoinSplitting partitions the range exactly like BinarySplitting but
// additionally evaluates the halves of large sub-ranges on separate
// goroutines inside each worker. It suits machines with more cores than
// requested workers.
type ForkJoinSplitting struct{}

// Name returns the name of the engine.
func (c *ForkJoinSplitting) Name() string {
	return "Binary Splitting (Fork-Join)"
}

// CalculateCore implements coreCalculator.
func (c *ForkJoinSplitting) CalculateCore(ctx context.Context, reporter ProgressReporter, req Request, opts Options) (Triple, error) {
	workers := req.effectiveWorkers()
	ranges, err := Partition(req.SeriesLength, workers)
	if err != nil {
		return Triple{}, err
	}
	threshold := opts.ForkThreshold
	// Workers already occupy log2(workers) levels of parallelism.
	depth := max(forkDepth()-bits.Len(uint(workers))+1, 1)
	split := func(r Range) Triple {
		return binarySplitConcurrent(r.Start, r.End, threshold, depth)
	}
	return Reduce(ranges, split, reporter)
}
