// Package polyscan enumerates and counts the integer points of bounded
// polyhedra. Given a conjunction of affine equality and inequality
// constraints over a fixed number of integer dimensions, it visits every
// lattice point satisfying the constraints, or counts them, without
// enumerating more than necessary.
//
// The engine performs a depth-first search over a reduced lattice basis:
// each search level fixes the coordinate along one basis direction, using
// an exact feasibility solver to compute the feasible range at the level
// and snapshot-based rollback to backtrack without drift. Discovered
// points are delivered to a Visitor; a counting visitor additionally folds
// whole last-level ranges into its accumulator in one step.
//
// The package is single-threaded and synchronous. Scan entry points
// consume their polyhedron or set argument: callers must not reuse it
// afterwards. Polyhedra must be bounded in every direction; an unbounded
// direction is reported as ErrUnbounded, never silently truncated.
package polyscan

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbounded reports a polyhedron that violates the boundedness
	// precondition: some search direction has no finite extent.
	ErrUnbounded = errors.New("polyscan: polyhedron is unbounded along a search direction")

	// ErrSolver reports an internal inconsistency in the feasibility
	// solver, distinct from simple infeasibility.
	ErrSolver = errors.New("polyscan: feasibility solver reported an inconsistent state")

	// ErrAborted reports that the visitor stopped the scan early.
	ErrAborted = errors.New("polyscan: visitor stopped the scan")
)

func errSolverStatus(op string, st lpStatus) error {
	return fmt.Errorf("%s: %w (status %d)", op, ErrSolver, st)
}

// Scan visits every integer point of the polyhedron exactly once, in an
// unspecified order. Scan consumes p: the caller must not use it again.
//
// The polyhedron must be bounded; an unbounded direction aborts with
// ErrUnbounded. If the visitor stops the scan, ErrAborted is returned.
//
// The search fixes one reduced-basis coordinate per level. On entering a
// level it minimizes along the level's basis direction and its negation to
// obtain the feasible integer range, snapshots the solver, and then fixes
// each value in the range in turn, descending after each fix and rolling
// back to the level's snapshot between values. Visitors implementing
// RangeVisitor receive whole last-level ranges instead of single points.
func (p *Polyhedron) Scan(v Visitor) error {
	if p == nil {
		return fmt.Errorf("Scan: polyhedron cannot be nil")
	}
	if v == nil {
		return fmt.Errorf("Scan: visitor cannot be nil")
	}
	dim := p.dim
	if dim == 0 {
		return scanZeroDim(p, v)
	}

	min := NewVec(dim)
	max := NewVec(dim)
	snaps := make([]tabSnap, dim)

	tab, err := newTab(p)
	if err != nil {
		return err
	}
	tab.reserve(dim + 1)
	B, err := computeReducedBasis(tab)
	if err != nil {
		return err
	}

	rv, ranged := v.(RangeVisitor)

	level := 0
	init := true
	for level >= 0 {
		empty := false
		if init {
			val, st := tab.min(B.Row[1+level])
			switch st {
			case lpOK:
				min.El[level].Set(val)
			case lpEmpty:
				empty = true
			case lpUnbounded:
				return ErrUnbounded
			default:
				return errSolverStatus("Scan", st)
			}
			if !empty {
				B.NegSeg(1+level, 1, 1+dim)
				val, st = tab.min(B.Row[1+level])
				B.NegSeg(1+level, 1, 1+dim)
				switch st {
				case lpOK:
					max.El[level].Neg(val)
				case lpEmpty:
					empty = true
				case lpUnbounded:
					return ErrUnbounded
				default:
					return errSolverStatus("Scan", st)
				}
			}
			snaps[level] = tab.snap()
		} else {
			min.El[level].Add(&min.El[level], bigOne)
		}

		if empty || min.El[level].Cmp(&max.El[level]) > 0 {
			level--
			init = false
			if level >= 0 {
				if err := tab.rollback(snaps[level]); err != nil {
					return errSolverStatus("Scan", lpError)
				}
			}
			continue
		}

		if ranged && level == dim-1 {
			// Counting fast path: fold the whole range at once
			// instead of fixing one value at a time.
			if !rv.VisitRange(&min.El[level], &max.El[level]) {
				return ErrAborted
			}
			level--
			init = false
			if level >= 0 {
				if err := tab.rollback(snaps[level]); err != nil {
					return errSolverStatus("Scan", lpError)
				}
			}
			continue
		}

		// Fix this level's coordinate to min by adding the equality
		// basisRow·(1,x) - min == 0, then restore the row's constant
		// so it can serve as a pure direction again.
		B.Row[1+level][0].Neg(&min.El[level])
		if err := tab.addValidEq(B.Row[1+level]); err != nil {
			return errSolverStatus("Scan", lpError)
		}
		B.Row[1+level][0].SetInt64(0)

		if level < dim-1 {
			level++
			init = true
			continue
		}

		sample, err := tab.sample()
		if err != nil {
			return errSolverStatus("Scan", lpError)
		}
		if !v.Visit(sample) {
			return ErrAborted
		}
		init = false
		if err := tab.rollback(snaps[level]); err != nil {
			return errSolverStatus("Scan", lpError)
		}
	}
	return nil
}

// scanZeroDim handles the degenerate 0-dimensional case: the polyhedron
// denotes at most the single empty tuple, so the solver is bypassed
// entirely. A constant contradiction yields zero visits.
func scanZeroDim(p *Polyhedron, v Visitor) error {
	if p.trivialEmpty() {
		return nil
	}
	sample := NewVec(1)
	sample.El[0].SetInt64(1)
	if !v.Visit(sample) {
		return ErrAborted
	}
	return nil
}

// Scan visits every integer point of the union exactly once, in an
// unspecified order. Scan consumes s: the caller must not use it again.
//
// The disjuncts are first made pairwise disjoint, so a point lying in
// several original disjuncts is attributed to exactly one of them. The
// same visitor is passed through every disjunct, so counts and points
// accumulate across the whole union. The first disjunct that fails aborts
// the operation.
func (s *Set) Scan(v Visitor) error {
	if s == nil {
		return fmt.Errorf("Scan: set cannot be nil")
	}
	if v == nil {
		return fmt.Errorf("Scan: visitor cannot be nil")
	}
	s.makeDisjoint()
	for _, p := range s.p {
		if err := p.Scan(v); err != nil {
			return err
		}
	}
	return nil
}
