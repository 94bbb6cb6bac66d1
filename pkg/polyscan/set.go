// This file defines Set, a finite ordered union of polyhedra, and the
// pairwise-disjointness normalization the set scanner relies on.

package polyscan

import (
	"fmt"
	"math/big"
	"strings"
)

// Set is a finite ordered union of polyhedra of one dimension. The
// disjuncts may overlap geometrically; scanning normalizes them to be
// pairwise disjoint first, so every point of the union is visited exactly
// once.
//
// Disjuncts are explicit affine systems: the representation admits no
// existentially quantified local variables, so no additional resolution
// pass is needed before scanning.
type Set struct {
	dim int
	p   []*Polyhedron
}

// NewSet creates an empty union of the given dimension.
func NewSet(dim int) (*Set, error) {
	if dim < 0 {
		return nil, fmt.Errorf("NewSet: dimension must be non-negative, got %d", dim)
	}
	return &Set{dim: dim}, nil
}

// Add appends a disjunct to the union. The set takes ownership of p; the
// caller must not use it afterwards.
func (s *Set) Add(p *Polyhedron) error {
	if p == nil {
		return fmt.Errorf("Add: polyhedron cannot be nil")
	}
	if p.dim != s.dim {
		return fmt.Errorf("Add: dimension mismatch: set has %d, polyhedron has %d", s.dim, p.dim)
	}
	s.p = append(s.p, p)
	return nil
}

// Dim returns the number of dimensions.
func (s *Set) Dim() int {
	return s.dim
}

// Len returns the number of disjuncts.
func (s *Set) Len() int {
	return len(s.p)
}

// String renders the union of the disjuncts' set-builder forms.
func (s *Set) String() string {
	if len(s.p) == 0 {
		return fmt.Sprintf("{ } (dim %d)", s.dim)
	}
	parts := make([]string, len(s.p))
	for i, p := range s.p {
		parts[i] = p.String()
	}
	return strings.Join(parts, " union ")
}

// makeDisjoint rewrites the disjunct list so that the disjuncts are
// pairwise disjoint while their union is unchanged: each disjunct has the
// earlier original disjuncts subtracted from it. Pieces that a constant
// constraint already contradicts are dropped.
func (s *Set) makeDisjoint() {
	if len(s.p) <= 1 {
		return
	}
	var out []*Polyhedron
	for i, d := range s.p {
		pieces := []*Polyhedron{d}
		for j := 0; j < i && len(pieces) > 0; j++ {
			var next []*Polyhedron
			for _, pc := range pieces {
				next = append(next, subtract(pc, s.p[j])...)
			}
			pieces = next
		}
		out = append(out, pieces...)
	}
	s.p = out
}

// subtract returns polyhedra whose union is p minus q. The pieces are
// pairwise disjoint: the k-th piece violates q's k-th constraint and
// satisfies all earlier ones. An equality constraint contributes two
// pieces, one per strict side.
func subtract(p, q *Polyhedron) []*Polyhedron {
	if p.dim != q.dim {
		return []*Polyhedron{p}
	}
	var out []*Polyhedron
	carry := p // accumulates q's constraints satisfied positively

	addPiece := func(rows ...[]big.Int) {
		piece := carry.Clone()
		for _, r := range rows {
			piece.ineq = append(piece.ineq, cloneRow(r))
		}
		if !piece.trivialEmpty() {
			out = append(out, piece)
		}
	}

	for _, r := range q.eq {
		// r == 0 fails on either strict side.
		addPiece(shiftRow(r, -1))         // r >= 1
		addPiece(shiftRow(negRow(r), -1)) // r <= -1
		carry = carry.Clone()
		carry.eq = append(carry.eq, cloneRow(r))
	}
	for _, r := range q.ineq {
		addPiece(shiftRow(negRow(r), -1)) // r <= -1
		carry = carry.Clone()
		carry.ineq = append(carry.ineq, cloneRow(r))
	}
	return out
}

// negRow returns the row with every element negated.
func negRow(r []big.Int) []big.Int {
	n := make([]big.Int, len(r))
	for i := range r {
		n[i].Neg(&r[i])
	}
	return n
}

// shiftRow returns the row with delta added to its constant.
func shiftRow(r []big.Int, delta int64) []big.Int {
	c := cloneRow(r)
	c[0].Add(&c[0], big.NewInt(delta))
	return c
}
