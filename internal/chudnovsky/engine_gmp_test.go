//go:build gmp

package chudnovsky

import (
	"context"
	"testing"
)

func TestGMPSplitting_MatchesBinarySplitting(t *testing.T) {
	t.Parallel()
	n, bits := paramsFor(800)
	req := Request{SeriesLength: n, Workers: 4, PrecisionBits: bits}

	gmpCalc, err := GlobalFactory().Get("gmp")
	if err != nil {
		t.Fatal(err)
	}
	got, err := gmpCalc.Calculate(context.Background(), nil, 0, req, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want, err := ComputePi(n, 4, bits)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cmp(want) != 0 {
		t.Error("GMP engine differs from the math/big engine")
	}
}

func TestGMPToBig_KeepsSign(t *testing.T) {
	t.Parallel()
	tr := gmpBinarySplit(0, 9)
	want := BinarySplit(0, 9)
	if gmpToBig(tr.t).Cmp(want.T) != 0 || gmpToBig(tr.p).Cmp(want.P) != 0 {
		t.Error("conversion lost the value or the sign")
	}
}
