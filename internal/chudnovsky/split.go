package chudnovsky

import (
	"fmt"
	"math/bits"
	"runtime"
	"sync"
)

// BinarySplit returns the Triple of the half-open range [a, b) by splitting
// it at the midpoint and merging the Triples of both halves. The recursion
// depth is O(log(b-a)); each level only keeps the two child Triples alive
// until their merge returns.
//
// BinarySplit panics if b <= a.
func BinarySplit(a, b int) Triple {
	if b <= a {
		panic(fmt.Sprintf("chudnovsky: empty range [%d, %d)", a, b))
	}
	if b-a == 1 {
		return Term(a)
	}
	m := (a + b) / 2
	left := BinarySplit(a, m)
	right := BinarySplit(m, b)
	return Merge(left, right)
}

// forkDepth returns how many levels of the recursion tree may run their
// left half on a new goroutine. Beyond ⌈log2(GOMAXPROCS)⌉+1 levels every
// processor is already busy.
func forkDepth() int {
	return bits.Len(uint(runtime.GOMAXPROCS(0))) + 1
}

// binarySplitConcurrent computes the same Triple as BinarySplit. While the
// range holds at least threshold terms and depth is positive, the left half
// runs on a new goroutine and the right half on the current one.
func binarySplitConcurrent(a, b, threshold, depth int) Triple {
	if b-a < threshold || depth <= 0 {
		return BinarySplit(a, b)
	}
	m := (a + b) / 2

	var left Triple
	var leftPanic any
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			leftPanic = recover()
		}()
		left = binarySplitConcurrent(a, m, threshold, depth-1)
	}()
	right := binarySplitConcurrent(m, b, threshold, depth-1)
	wg.Wait()

	if leftPanic != nil {
		panic(leftPanic)
	}
	return Merge(left, right)
}
