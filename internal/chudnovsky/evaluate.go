package chudnovsky

import (
	"math/big"

	apperrors "github.com/agbru/picalc/internal/errors"
)

// Evaluate converts the Triple of [0, n) into π ≈ 426880·√10005·Q/T.
//
// The square root, the products and the division run at precBits+guardBits
// of mantissa; only the returned value is rounded back to precBits. A
// guardBits of 0 selects DefaultGuardBits.
func Evaluate(t Triple, precBits, guardBits uint) *big.Float {
	if guardBits == 0 {
		guardBits = DefaultGuardBits
	}
	work := precBits + guardBits

	constant := new(big.Float).SetPrec(work).SetInt64(sqrtRadicand)
	constant.Sqrt(constant)
	constant.Mul(constant, new(big.Float).SetPrec(work).SetInt64(finalFactor))

	q := new(big.Float).SetPrec(work).SetInt(t.Q)
	tt := new(big.Float).SetPrec(work).SetInt(t.T)

	pi := new(big.Float).SetPrec(work).Mul(constant, q)
	pi.Quo(pi, tt)
	return pi.SetPrec(precBits)
}

// ComputePi computes π from the first seriesLength terms of the Chudnovsky
// series, split across workers goroutines, and returns it with a mantissa
// of precisionBits bits.
//
// A worker count above the series length is clamped to one term per worker.
// The result is bit-for-bit identical for every worker count.
//
// Parameters:
//   - seriesLength: The number of series terms n (>= 1).
//   - workers: The number of concurrent workers k (>= 1).
//   - precisionBits: The mantissa precision of the result (>= 1).
//
// Returns:
//   - *big.Float: The approximation of π.
//   - error: A ValidationError for out-of-range inputs, or a
//     CalculationError if a worker failed.
func ComputePi(seriesLength, workers, precisionBits int) (*big.Float, error) {
	if err := validateInputs(seriesLength, workers, precisionBits); err != nil {
		return nil, err
	}
	workers = min(workers, seriesLength)

	ranges, err := Partition(seriesLength, workers)
	if err != nil {
		return nil, err
	}
	triple, err := Reduce(ranges, splitRange, nil)
	if err != nil {
		return nil, err
	}
	return Evaluate(triple, uint(precisionBits), DefaultGuardBits), nil
}

// splitRange adapts BinarySplit to SplitFunc.
func splitRange(r Range) Triple {
	return BinarySplit(r.Start, r.End)
}

func validateInputs(seriesLength, workers, precisionBits int) error {
	if seriesLength < 1 {
		return apperrors.NewValidationError("series_length", "must be at least 1", seriesLength)
	}
	if workers < 1 {
		return apperrors.NewValidationError("workers", "must be at least 1", workers)
	}
	if precisionBits < 1 {
		return apperrors.NewValidationError("precision_bits", "must be at least 1", precisionBits)
	}
	return nil
}
