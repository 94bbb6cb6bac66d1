// This file implements the feasibility tableau: the mutable per-scan solver
// state behind the depth-first search. It supports directional minimization,
// equality addition, and snapshot-based rollback.
//
// Mutation model: the constraints copied from the polyhedron are immutable
// for the tableau's lifetime; the only mutable state is an append-only log
// of equalities fixed during the scan. A snapshot is therefore just the log
// length, and rollback truncates the log, which restores the solver state
// exactly (a versioned undo log). Directional minimization re-solves an
// exact rational LP from the current constraints on every query, so no
// incremental solver state can drift across rollbacks.

package polyscan

import (
	"fmt"
	"math/big"
)

// lpStatus is the outcome of a directional minimization.
type lpStatus int

const (
	lpOK        lpStatus = iota // finite optimum found
	lpEmpty                     // constraints are infeasible
	lpUnbounded                 // objective has no finite lower bound
	lpError                     // internal inconsistency
)

// tabSnap is a snapshot handle: the undo-log length at capture time.
type tabSnap int

// Tab is the feasibility state for one in-progress scan. It is exclusively
// owned by that scan and is not safe for concurrent use.
type Tab struct {
	dim  int
	eq   [][]big.Int // equalities from the polyhedron
	ineq [][]big.Int // inequalities from the polyhedron
	log  [][]big.Int // equalities fixed during the scan; rollback truncates
}

// newTab builds a tableau from the polyhedron's constraints.
func newTab(p *Polyhedron) (*Tab, error) {
	if p == nil {
		return nil, fmt.Errorf("newTab: polyhedron is nil")
	}
	t := &Tab{dim: p.dim}
	for _, r := range p.eq {
		t.eq = append(t.eq, cloneRow(r))
	}
	for _, r := range p.ineq {
		t.ineq = append(t.ineq, cloneRow(r))
	}
	return t, nil
}

// reserve grows the undo log's capacity by at least n entries.
func (t *Tab) reserve(n int) {
	if cap(t.log)-len(t.log) >= n {
		return
	}
	grown := make([][]big.Int, len(t.log), len(t.log)+n)
	copy(grown, t.log)
	t.log = grown
}

// snap captures the current solver state.
func (t *Tab) snap() tabSnap {
	return tabSnap(len(t.log))
}

// rollback restores the solver state captured by s, undoing every equality
// fixed since the snapshot was taken.
func (t *Tab) rollback(s tabSnap) error {
	if s < 0 || int(s) > len(t.log) {
		return fmt.Errorf("rollback: snapshot %d out of range [0, %d]", s, len(t.log))
	}
	t.log = t.log[:s]
	return nil
}

// addValidEq fixes the equality row[0] + row[1]*x0 + ... == 0. The row is
// copied, so the caller may reuse its storage afterwards.
func (t *Tab) addValidEq(row []big.Int) error {
	if len(row) != 1+t.dim {
		return fmt.Errorf("addValidEq: row must have length %d, got %d", 1+t.dim, len(row))
	}
	t.log = append(t.log, cloneRow(row))
	return nil
}

// min returns the smallest integer value the affine form
// dir[0] + dir[1]*x0 + ... attains over the current constraints, i.e. the
// ceiling of the rational optimum. The direction's constant slot
// participates in the returned value but not in the optimization.
func (t *Tab) min(dir []big.Int) (*big.Int, lpStatus) {
	if len(dir) != 1+t.dim {
		return nil, lpError
	}
	opt, st := t.solveMin(dir[1:])
	if st != lpOK {
		return nil, st
	}
	val := ratCeil(opt)
	val.Add(val, &dir[0])
	return val, lpOK
}

// sample reads the current integer point from the tableau. It requires the
// feasible set to have been narrowed to a single point (every dimension
// fixed); the returned vector has length 1+dim with element 0 set to 1.
func (t *Tab) sample() (*Vec, error) {
	s := NewVec(1 + t.dim)
	s.El[0].SetInt64(1)
	dir := make([]big.Int, 1+t.dim)
	for j := 0; j < t.dim; j++ {
		dir[1+j].SetInt64(1)
		val, st := t.min(dir)
		dir[1+j].SetInt64(0)
		if st != lpOK {
			return nil, fmt.Errorf("sample: coordinate %d not determined (status %d)", j, st)
		}
		s.El[1+j].Set(val)
	}
	return s, nil
}

// solveMin minimizes c·x over the tableau's constraints with an exact
// two-phase rational simplex. Bland's rule is used throughout, so the
// method terminates on every input.
//
// The free variables x are split as x = u - w with u, w >= 0; every
// inequality a·x >= b gets a surplus variable. Phase 1 drives an
// all-artificial basis to feasibility, phase 2 optimizes the objective.
func (t *Tab) solveMin(c []big.Int) (*big.Rat, lpStatus) {
	d := t.dim
	nIneq := len(t.ineq)
	nStruct := 2*d + nIneq

	type lpRow struct {
		a []big.Rat
		b big.Rat
	}

	var rows []lpRow
	addRow := func(coeffs []big.Int, slack int, eqLike bool) {
		r := lpRow{a: make([]big.Rat, nStruct)}
		for j := 0; j < d; j++ {
			if coeffs[1+j].Sign() == 0 {
				continue
			}
			r.a[j].SetInt(&coeffs[1+j])
			r.a[d+j].Neg(&r.a[j])
		}
		// a·x >= -coeffs[0], surplus subtracted for inequalities
		var rhs big.Int
		rhs.Neg(&coeffs[0])
		r.b.SetInt(&rhs)
		if !eqLike {
			r.a[2*d+slack].SetInt64(-1)
		}
		rows = append(rows, r)
	}
	for _, r := range t.eq {
		addRow(r, 0, true)
	}
	for _, r := range t.log {
		addRow(r, 0, true)
	}
	for i, r := range t.ineq {
		addRow(r, i, false)
	}

	m := len(rows)
	if m == 0 {
		// No constraints at all: any non-zero objective is unbounded.
		for j := range c {
			if c[j].Sign() != 0 {
				return nil, lpUnbounded
			}
		}
		return new(big.Rat), lpOK
	}

	// Normalize right-hand sides to be non-negative.
	for i := range rows {
		if rows[i].b.Sign() < 0 {
			for j := range rows[i].a {
				rows[i].a[j].Neg(&rows[i].a[j])
			}
			rows[i].b.Neg(&rows[i].b)
		}
	}

	// Append one artificial column per row; they form the initial basis.
	a := make([][]big.Rat, m)
	b := make([]big.Rat, m)
	basis := make([]int, m)
	for i := range rows {
		a[i] = make([]big.Rat, nStruct+m)
		for j := range rows[i].a {
			a[i][j].Set(&rows[i].a[j])
		}
		a[i][nStruct+i].SetInt64(1)
		b[i].Set(&rows[i].b)
		basis[i] = nStruct + i
	}

	pivot := func(pr, pc int, z []big.Rat) {
		var piv big.Rat
		piv.Set(&a[pr][pc])
		for j := range a[pr] {
			if a[pr][j].Sign() != 0 {
				a[pr][j].Quo(&a[pr][j], &piv)
			}
		}
		b[pr].Quo(&b[pr], &piv)
		var f, tmp big.Rat
		for i := range a {
			if i == pr || a[i][pc].Sign() == 0 {
				continue
			}
			f.Set(&a[i][pc])
			for j := range a[i] {
				if a[pr][j].Sign() == 0 {
					continue
				}
				tmp.Mul(&f, &a[pr][j])
				a[i][j].Sub(&a[i][j], &tmp)
			}
			tmp.Mul(&f, &b[pr])
			b[i].Sub(&b[i], &tmp)
		}
		if z[pc].Sign() != 0 {
			f.Set(&z[pc])
			for j := range z {
				if a[pr][j].Sign() == 0 {
					continue
				}
				tmp.Mul(&f, &a[pr][j])
				z[j].Sub(&z[j], &tmp)
			}
		}
		basis[pr] = pc
	}

	// iterate runs simplex to optimality over entering columns < limit.
	// Bland's rule: lowest-index entering column with negative reduced
	// cost, lowest basic index on ratio ties.
	iterate := func(z []big.Rat, limit int) lpStatus {
		for {
			pc := -1
			for j := 0; j < limit; j++ {
				if z[j].Sign() < 0 {
					pc = j
					break
				}
			}
			if pc < 0 {
				return lpOK
			}
			pr := -1
			var best, ratio big.Rat
			for i := range a {
				if a[i][pc].Sign() <= 0 {
					continue
				}
				ratio.Quo(&b[i], &a[i][pc])
				if pr < 0 || ratio.Cmp(&best) < 0 ||
					(ratio.Cmp(&best) == 0 && basis[i] < basis[pr]) {
					pr = i
					best.Set(&ratio)
				}
			}
			if pr < 0 {
				return lpUnbounded
			}
			pivot(pr, pc, z)
		}
	}

	// Phase 1: minimize the sum of artificials. Reduced costs start as
	// -sum of the constraint rows over the structural columns.
	z1 := make([]big.Rat, nStruct+m)
	for i := range a {
		for j := 0; j < nStruct; j++ {
			if a[i][j].Sign() != 0 {
				z1[j].Sub(&z1[j], &a[i][j])
			}
		}
	}
	if st := iterate(z1, nStruct); st != lpOK {
		// The phase-1 objective is bounded below by zero.
		return nil, lpError
	}
	var artSum big.Rat
	for i := range basis {
		if basis[i] >= nStruct {
			artSum.Add(&artSum, &b[i])
		}
	}
	if artSum.Sign() != 0 {
		return nil, lpEmpty
	}

	// Drive remaining zero-valued artificials out of the basis; a row with
	// no structural coefficient left is redundant and is dropped.
	for i := 0; i < len(a); i++ {
		if basis[i] < nStruct {
			continue
		}
		pc := -1
		for j := 0; j < nStruct; j++ {
			if a[i][j].Sign() != 0 {
				pc = j
				break
			}
		}
		if pc >= 0 {
			pivot(i, pc, z1)
			continue
		}
		last := len(a) - 1
		a[i] = a[last]
		b[i].Set(&b[last])
		basis[i] = basis[last]
		a = a[:last]
		b = b[:last]
		basis = basis[:last]
		i--
	}

	// Phase 2: minimize c·(u - w) over the structural columns.
	cost := make([]big.Rat, nStruct)
	for j := 0; j < d; j++ {
		if c[j].Sign() == 0 {
			continue
		}
		cost[j].SetInt(&c[j])
		cost[d+j].Neg(&cost[j])
	}
	// Copy element-wise: a slice copy of big.Rat values would share the
	// underlying word slices, and the in-place updates below would write
	// through to cost.
	z2 := make([]big.Rat, nStruct+m)
	for j := range cost {
		z2[j].Set(&cost[j])
	}
	var tmp big.Rat
	for i := range a {
		if basis[i] >= nStruct {
			continue
		}
		cb := &cost[basis[i]]
		if cb.Sign() == 0 {
			continue
		}
		for j := 0; j < nStruct; j++ {
			if a[i][j].Sign() == 0 {
				continue
			}
			tmp.Mul(cb, &a[i][j])
			z2[j].Sub(&z2[j], &tmp)
		}
	}
	if st := iterate(z2, nStruct); st != lpOK {
		return nil, st
	}

	opt := new(big.Rat)
	for i := range basis {
		if basis[i] >= nStruct {
			continue
		}
		cb := &cost[basis[i]]
		if cb.Sign() == 0 {
			continue
		}
		tmp.Mul(cb, &b[i])
		opt.Add(opt, &tmp)
	}
	return opt, lpOK
}

// ratCeil returns the smallest integer >= x.
func ratCeil(x *big.Rat) *big.Int {
	n := new(big.Int).Set(x.Num())
	den := x.Denom()
	n.Add(n, den)
	n.Sub(n, bigOne)
	return n.Div(n, den)
}
