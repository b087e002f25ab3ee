package chudnovsky

// Request describes one π computation. It is read-only for the duration of
// the computation and never shared between computations.
type Request struct {
	// SeriesLength is the number of series terms n to sum.
	SeriesLength int
	// Workers is the number of contiguous ranges evaluated concurrently.
	Workers int
	// PrecisionBits is the mantissa precision of the result.
	PrecisionBits int
}

// Validate rejects requests the core cannot serve.
func (r Request) Validate() error {
	return validateInputs(r.SeriesLength, r.Workers, r.PrecisionBits)
}

// effectiveWorkers clamps the worker count so that no range is empty.
func (r Request) effectiveWorkers() int {
	return min(r.Workers, r.SeriesLength)
}

// Options tunes the engines. The zero value selects the defaults.
type Options struct {
	// ForkThreshold is the minimum number of terms a range needs before the
	// fork-join engine splits it across goroutines.
	ForkThreshold int
	// GuardBits is the extra precision used by the final evaluation.
	GuardBits uint
}

// normalizeOptions returns a copy of opts with defaults for zero fields.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.ForkThreshold <= 0 {
		normalized.ForkThreshold = DefaultForkThreshold
	}
	if normalized.GuardBits == 0 {
		normalized.GuardBits = DefaultGuardBits
	}
	return normalized
}
