// This file builds the reduced lattice basis that orders the scanner's
// search directions. The reduction is a generalized basis reduction driven
// by directional widths measured through the feasibility tableau: shorter,
// better-separated directions make the depth-first search branch less.
//
// Every transformation applied here is a unimodular row operation, so the
// result is always a valid basis of the solution lattice; reduction quality
// affects only how fast the search prunes, never which points it finds.

package polyscan

import "math/big"

// basisReductionMaxSteps bounds the reduction loop. Widths shrink by a
// constant factor on every swap, but the bound keeps pathological inputs
// from stalling a scan whose correctness does not depend on reduction.
const basisReductionMaxSteps = 64

// computeReducedBasis returns a (1+dim)×(1+dim) unimodular basis for the
// tableau's solution lattice. Row 0 is the homogeneous coordinate; rows
// 1..dim are the search directions, most constrained first.
func computeReducedBasis(t *Tab) (*Mat, error) {
	dim := t.dim
	B := NewIdentityMat(1 + dim)
	if dim <= 1 {
		return B, nil
	}

	steps := 0
	i := 1
	for i < dim && steps < basisReductionMaxSteps {
		steps++
		wi, st := directionWidth(t, B.Row[i])
		if st == lpEmpty || st == lpUnbounded {
			// Nothing to reduce: the scan itself reports empty or
			// rejects the unbounded input at level 0.
			return B, nil
		}
		if st != lpOK {
			return nil, errSolverStatus("computeReducedBasis", st)
		}
		if wi.Sign() > 0 {
			shift, st := bestShift(t, B.Row[i+1], B.Row[i], wi)
			if st == lpEmpty || st == lpUnbounded {
				return B, nil
			}
			if st != lpOK {
				return nil, errSolverStatus("computeReducedBasis", st)
			}
			if shift.Sign() != 0 {
				B.AddRowMultiple(i+1, i, shift)
			}
		}
		wnext, st := directionWidth(t, B.Row[i+1])
		if st == lpEmpty || st == lpUnbounded {
			return B, nil
		}
		if st != lpOK {
			return nil, errSolverStatus("computeReducedBasis", st)
		}
		// Lovász-style exchange: swap when the next direction is
		// strictly thinner than 3/4 of the current one.
		var lhs, rhs big.Int
		lhs.Mul(wnext, big.NewInt(4))
		rhs.Mul(wi, big.NewInt(3))
		if lhs.Cmp(&rhs) < 0 {
			B.SwapRows(i, i+1)
			if i > 1 {
				i--
			}
		} else {
			i++
		}
	}
	return B, nil
}

// directionWidth returns the integer width max - min of the polyhedron
// along the direction row (constant slot ignored).
func directionWidth(t *Tab, row []big.Int) (*big.Int, lpStatus) {
	dir := cloneRow(row)
	dir[0].SetInt64(0)
	lo, st := t.min(dir)
	if st != lpOK {
		return nil, st
	}
	for j := 1; j < len(dir); j++ {
		dir[j].Neg(&dir[j])
	}
	hi, st := t.min(dir)
	if st != lpOK {
		return nil, st
	}
	w := new(big.Int).Neg(hi)
	w.Sub(w, lo)
	return w, st
}

// bestShift finds an integer a minimizing the width of next + a*cur.
//
// Width is a seminorm, so width(next + a*cur) >= |a|*width(cur) - width(next);
// any minimizer therefore satisfies |a| <= 2*width(next)/width(cur), which
// bounds the search interval. The width along next + a*cur is convex in a,
// so an integer ternary search finds the minimum.
func bestShift(t *Tab, next, cur []big.Int, curWidth *big.Int) (*big.Int, lpStatus) {
	wnext, st := directionWidth(t, next)
	if st != lpOK {
		return nil, st
	}
	bound := new(big.Int).Mul(wnext, big.NewInt(2))
	bound.Div(bound, curWidth)
	bound.Add(bound, bigOne)

	eval := func(a *big.Int) (*big.Int, lpStatus) {
		dir := make([]big.Int, len(next))
		var tmp big.Int
		for j := 1; j < len(next); j++ {
			tmp.Mul(a, &cur[j])
			dir[j].Add(&next[j], &tmp)
		}
		return directionWidth(t, dir)
	}

	lo := new(big.Int).Neg(bound)
	hi := new(big.Int).Set(bound)
	var gap big.Int
	for gap.Sub(hi, lo); gap.Cmp(big.NewInt(2)) > 0; gap.Sub(hi, lo) {
		third := new(big.Int).Div(&gap, big.NewInt(3))
		m1 := new(big.Int).Add(lo, third)
		m2 := new(big.Int).Sub(hi, third)
		w1, st := eval(m1)
		if st != lpOK {
			return nil, st
		}
		w2, st := eval(m2)
		if st != lpOK {
			return nil, st
		}
		if w1.Cmp(w2) <= 0 {
			hi.Set(m2)
		} else {
			lo.Set(m1)
		}
	}

	best := new(big.Int).Set(lo)
	bestW, st := eval(lo)
	if st != lpOK {
		return nil, st
	}
	for a := new(big.Int).Add(lo, bigOne); a.Cmp(hi) <= 0; a.Add(a, bigOne) {
		w, st := eval(a)
		if st != lpOK {
			return nil, st
		}
		if w.Cmp(bestW) < 0 {
			best.Set(a)
			bestW = w
		}
	}
	return best, lpOK
}
