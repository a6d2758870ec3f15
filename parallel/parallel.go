// SPDX-License-Identifier: MIT

// Package parallel provides the structured parallel-for used by the field kernels.
//
// The index space [0,n) is cut into contiguous, disjoint ranges and each range is
// handed to exactly one goroutine. Callers must only write cells owned by their
// range; no locks are taken and no counters are shared across goroutines.
// For returns after every range finished, which makes each call a full barrier.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Range is a half-open index interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns the number of indices covered by r.
func (r Range) Len() int { return r.Hi - r.Lo }

// Workers resolves a requested worker count: values <= 0 mean GOMAXPROCS.
func Workers(requested int) int {
	if requested <= 0 {
		return runtime.GOMAXPROCS(0)
	}

	return requested
}

// Split cuts [0,n) into at most parts contiguous ranges whose lengths differ by
// at most one. The first n%parts ranges get the extra index.
// Split returns nil when n <= 0.
func Split(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts <= 0 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	out := make([]Range, parts)
	base, extra := n/parts, n%parts
	lo := 0
	for i := 0; i < parts; i++ {
		size := base
		if i < extra {
			size++
		}
		out[i] = Range{Lo: lo, Hi: lo + size}
		lo += size
	}

	return out
}

// For runs fn over [0,n) split into contiguous ranges, using up to workers
// goroutines (workers <= 0 means GOMAXPROCS). A single range runs inline.
func For(n, workers int, fn func(lo, hi int)) {
	ranges := Split(n, Workers(workers))
	switch len(ranges) {
	case 0:
		return
	case 1:
		fn(ranges[0].Lo, ranges[0].Hi)
		return
	}

	var g errgroup.Group
	g.SetLimit(len(ranges))
	for _, r := range ranges {
		g.Go(func() error {
			fn(r.Lo, r.Hi)
			return nil
		})
	}
	_ = g.Wait() // fn cannot fail
}

// ForRange is For over the half-open interval [lo,hi) instead of [0,n).
func ForRange(lo, hi, workers int, fn func(lo, hi int)) {
	if hi <= lo {
		return
	}
	For(hi-lo, workers, func(a, b int) {
		fn(lo+a, lo+b)
	})
}
