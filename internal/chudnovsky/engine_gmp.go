//go:build gmp

// This file provides a GMP-backed engine, compiled only with the "gmp" build
// tag (go build -tags=gmp) and a libgmp installation:
//   - Linux: sudo apt-get install libgmp-dev
//   - macOS: brew install gmp
//
// The partition and the ordered fold are shared with the pure Go engines;
// only the integer arithmetic of the triples runs in GMP. The final triple
// is converted to math/big once, before evaluation.

package chudnovsky

import (
	"context"
	"math/big"

	"github.com/ncw/gmp"
)

func init() {
	_ = RegisterCalculator("gmp", func() coreCalculator { return &GMPSplitting{} })
}

// GMPSplitting computes the triples with GMP integers.
type GMPSplitting struct{}

// Name returns the name of the engine.
func (c *GMPSplitting) Name() string {
	return "Binary Splitting (GMP)"
}

// gmpTriple mirrors Triple with gmp.Int fields.
type gmpTriple struct {
	p, q, t *gmp.Int
}

var gmpCCubedOver24 = func() *gmp.Int {
	v := new(gmp.Int)
	v.SetString(cCubedOver24.String(), 10)
	return v
}()

func gmpTerm(a int) gmpTriple {
	if a == 0 {
		return gmpTriple{p: gmp.NewInt(1), q: gmp.NewInt(1), t: gmp.NewInt(seriesA)}
	}
	ai := gmp.NewInt(int64(a))

	p := gmp.NewInt(int64(6*a - 5))
	p.Mul(p, gmp.NewInt(int64(2*a-1)))
	p.Mul(p, gmp.NewInt(int64(6*a-1)))
	p.Neg(p)

	q := new(gmp.Int).Mul(ai, ai)
	q.Mul(q, ai)
	q.Mul(q, gmpCCubedOver24)

	t := new(gmp.Int).Mul(ai, gmp.NewInt(seriesB))
	t.Add(t, gmp.NewInt(seriesA))
	t.Mul(t, p)

	return gmpTriple{p: p, q: q, t: t}
}

func gmpMerge(left, right gmpTriple) gmpTriple {
	p := new(gmp.Int).Mul(left.p, right.p)
	q := new(gmp.Int).Mul(left.q, right.q)
	t := new(gmp.Int).Mul(right.q, left.t)
	t.Add(t, new(gmp.Int).Mul(left.p, right.t))
	return gmpTriple{p: p, q: q, t: t}
}

func gmpBinarySplit(a, b int) gmpTriple {
	if b-a == 1 {
		return gmpTerm(a)
	}
	m := (a + b) / 2
	return gmpMerge(gmpBinarySplit(a, m), gmpBinarySplit(m, b))
}

// gmpToBig converts a GMP integer to math/big, keeping its sign.
func gmpToBig(g *gmp.Int) *big.Int {
	z := new(big.Int).SetBytes(g.Bytes())
	if g.Sign() < 0 {
		z.Neg(z)
	}
	return z
}

// CalculateCore implements coreCalculator.
func (c *GMPSplitting) CalculateCore(ctx context.Context, reporter ProgressReporter, req Request, opts Options) (Triple, error) {
	ranges, err := Partition(req.SeriesLength, req.effectiveWorkers())
	if err != nil {
		return Triple{}, err
	}
	split := func(r Range) gmpTriple { return gmpBinarySplit(r.Start, r.End) }
	g, err := reduceOrdered[gmpTriple](ranges, split, gmpMerge, reporter)
	if err != nil {
		return Triple{}, err
	}
	return Triple{P: gmpToBig(g.p), Q: gmpToBig(g.q), T: gmpToBig(g.t)}, nil
}
