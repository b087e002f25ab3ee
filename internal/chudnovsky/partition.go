package chudnovsky

import (
	"fmt"

	apperrors "github.com/agbru/picalc/internal/errors"
)

// Range is a half-open interval [Start, End) of series term indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of terms in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// String implements fmt.Stringer.
func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Partition divides [0, n) into k contiguous, non-overlapping ranges in
// increasing order. Every range holds ⌊n/k⌋ terms except the last one,
// which also absorbs the remainder n mod k.
//
// Parameters:
//   - n: The total number of series terms (n >= 1).
//   - k: The number of ranges (1 <= k <= n).
//
// Returns:
//   - []Range: The ordered ranges.
//   - error: A ValidationError if n or k is out of bounds.
func Partition(n, k int) ([]Range, error) {
	if n < 1 {
		return nil, apperrors.NewValidationError("series_length", "must be at least 1", n)
	}
	if k < 1 {
		return nil, apperrors.NewValidationError("workers", "must be at least 1", k)
	}
	if k > n {
		return nil, apperrors.NewValidationError("workers", fmt.Sprintf("cannot exceed the series length %d", n), k)
	}

	chunk := n / k
	ranges := make([]Range, k)
	for i := range ranges {
		ranges[i] = Range{Start: i * chunk, End: (i + 1) * chunk}
	}
	ranges[k-1].End = n
	return ranges, nil
}
