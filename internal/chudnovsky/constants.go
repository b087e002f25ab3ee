package chudnovsky

import "math/big"

// ─────────────────────────────────────────────────────────────────────────────
// Series Constants
// ─────────────────────────────────────────────────────────────────────────────
//
// Fixed constants of the Chudnovsky formula
//
//	1/π = 12 Σ (-1)^k (6k)! (13591409 + 545140134k) / ((3k)! (k!)^3 640320^(3k+3/2))
//
// They are not configurable.

const (
	// seriesA is the constant term of the per-term numerator polynomial.
	seriesA = 13591409
	// seriesB is the linear coefficient of the per-term numerator polynomial.
	seriesB = 545140134
	// seriesC is the Chudnovsky constant 640320.
	seriesC = 640320
	// sqrtRadicand is the value under the square root of the final constant.
	sqrtRadicand = 10005
	// finalFactor multiplies √10005 in π = 426880·√10005·Q/T.
	finalFactor = 426880
	// qDivisor divides a³·C³ in the denominator factor of each term.
	qDivisor = 24
)

// cCubedOver24 is 640320³/24 = 10939058860032000. The division is exact.
var cCubedOver24 = func() *big.Int {
	c := big.NewInt(seriesC)
	c3 := new(big.Int).Mul(c, c)
	c3.Mul(c3, c)
	q, r := new(big.Int).QuoRem(c3, big.NewInt(qDivisor), new(big.Int))
	if r.Sign() != 0 {
		panic("chudnovsky: 640320^3 is not divisible by 24")
	}
	return q
}()

// ─────────────────────────────────────────────────────────────────────────────
// Tuning Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultGuardBits is the extra working precision used while evaluating
	// 426880·√10005·Q/T, so that rounding in the square root and the division
	// never reaches the last requested bit.
	DefaultGuardBits = 64

	// DefaultForkThreshold is the minimum number of series terms a range must
	// hold before the fork-join splitter evaluates its halves concurrently.
	// Below it the goroutine overhead dominates the multiplications.
	DefaultForkThreshold = 256

	// DigitsPerTerm is the number of decimal digits each term of the series
	// contributes (log10(640320³/1728) ≈ 14.18).
	DigitsPerTerm = 14
)

// ProgressReportThreshold is the minimum progress change (0.0 to 1.0)
// required before a new progress update is sent.
const ProgressReportThreshold = 0.01
