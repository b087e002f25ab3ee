package chudnovsky

import (
	"fmt"
	"math/big"
)

// Triple holds the exact integers (P, Q, T) of the Chudnovsky series over a
// contiguous half-open range of term indices [a, b).
//
// A Triple is never modified once built. Merge allocates fresh integers for
// its result and leaves both operands untouched, so a Triple may be read
// concurrently by any number of goroutines.
type Triple struct {
	P *big.Int
	Q *big.Int
	T *big.Int
}

// Term returns the Triple of the single-index range [a, a+1).
//
//	a = 0: P = 1, Q = 1, T = 13591409
//	a > 0: P = -(6a-5)(2a-1)(6a-1)
//	       Q = a³ · 640320³ / 24
//	       T = P · (13591409 + 545140134·a)
//
// Term panics if a is negative.
func Term(a int) Triple {
	if a < 0 {
		panic(fmt.Sprintf("chudnovsky: negative term index %d", a))
	}
	if a == 0 {
		return Triple{
			P: big.NewInt(1),
			Q: big.NewInt(1),
			T: big.NewInt(seriesA),
		}
	}

	ai := big.NewInt(int64(a))

	p := big.NewInt(int64(6*a - 5))
	p.Mul(p, big.NewInt(int64(2*a-1)))
	p.Mul(p, big.NewInt(int64(6*a-1)))
	p.Neg(p)

	q := new(big.Int).Mul(ai, ai)
	q.Mul(q, ai)
	q.Mul(q, cCubedOver24)

	t := new(big.Int).Mul(ai, big.NewInt(seriesB))
	t.Add(t, big.NewInt(seriesA))
	t.Mul(t, p)

	return Triple{P: p, Q: q, T: t}
}

// Merge combines the Triple of a lower range [a, m) with the Triple of the
// directly following range [m, b) into the Triple of [a, b):
//
//	P = Pl·Pr
//	Q = Ql·Qr
//	T = Qr·Tl + Pl·Tr
//
// The operation is associative but not commutative: left must cover the
// lower indices.
func Merge(left, right Triple) Triple {
	p := new(big.Int).Mul(left.P, right.P)
	q := new(big.Int).Mul(left.Q, right.Q)

	t := new(big.Int).Mul(right.Q, left.T)
	lr := new(big.Int).Mul(left.P, right.T)
	t.Add(t, lr)

	return Triple{P: p, Q: q, T: t}
}

// Equal reports whether both triples hold the same three integers.
func (t Triple) Equal(o Triple) bool {
	return t.P.Cmp(o.P) == 0 && t.Q.Cmp(o.Q) == 0 && t.T.Cmp(o.T) == 0
}
