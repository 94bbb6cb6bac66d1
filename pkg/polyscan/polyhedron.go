// This file defines the Polyhedron type: a conjunction of affine equality and
// inequality constraints over a fixed number of integer dimensions.

package polyscan

import (
	"fmt"
	"math/big"
	"strings"
)

// Polyhedron is a conjunction of affine constraints over dim integer
// variables. Constraint rows have length 1+dim with the homogeneous
// constant at index 0: an equality row r means r[0] + r[1]*x0 + ... == 0
// and an inequality row means r[0] + r[1]*x0 + ... >= 0.
//
// The zero-constraint polyhedron is the integer universe of its dimension.
// Scanning requires the polyhedron to be bounded in every direction; that
// is a caller precondition, not something the type enforces.
type Polyhedron struct {
	dim  int
	eq   [][]big.Int
	ineq [][]big.Int
	ids  []*ID // optional per-dimension labels, printing only
}

// NewPolyhedron creates the universe polyhedron of the given dimension.
//
// Returns an error if dim is negative. A 0-dimensional polyhedron denotes
// the single empty tuple unless a constant constraint contradicts it.
func NewPolyhedron(dim int) (*Polyhedron, error) {
	if dim < 0 {
		return nil, fmt.Errorf("NewPolyhedron: dimension must be non-negative, got %d", dim)
	}
	return &Polyhedron{dim: dim}, nil
}

// NewBox creates the box lower[i] <= xi <= upper[i].
//
// Returns an error if the bound slices differ in length. Bounds may be
// inverted (lower > upper); the resulting polyhedron is simply empty.
func NewBox(lower, upper []int64) (*Polyhedron, error) {
	if len(lower) != len(upper) {
		return nil, fmt.Errorf("NewBox: bound lengths differ (%d vs %d)", len(lower), len(upper))
	}
	p, err := NewPolyhedron(len(lower))
	if err != nil {
		return nil, err
	}
	for i := range lower {
		lo := make([]big.Int, 1+p.dim)
		lo[0].SetInt64(-lower[i])
		lo[1+i].SetInt64(1)
		p.ineq = append(p.ineq, lo)

		hi := make([]big.Int, 1+p.dim)
		hi[0].SetInt64(upper[i])
		hi[1+i].SetInt64(-1)
		p.ineq = append(p.ineq, hi)
	}
	return p, nil
}

// Dim returns the number of dimensions.
func (p *Polyhedron) Dim() int {
	return p.dim
}

// AddEquality adds the constraint coeffs[0] + coeffs[1]*x0 + ... == 0.
// The constant comes first, then one coefficient per dimension.
func (p *Polyhedron) AddEquality(coeffs ...int64) error {
	row, err := p.rowFromInts("AddEquality", coeffs)
	if err != nil {
		return err
	}
	p.eq = append(p.eq, row)
	return nil
}

// AddInequality adds the constraint coeffs[0] + coeffs[1]*x0 + ... >= 0.
// The constant comes first, then one coefficient per dimension.
func (p *Polyhedron) AddInequality(coeffs ...int64) error {
	row, err := p.rowFromInts("AddInequality", coeffs)
	if err != nil {
		return err
	}
	p.ineq = append(p.ineq, row)
	return nil
}

// AddEqualityVec adds an equality constraint from a full-precision row.
func (p *Polyhedron) AddEqualityVec(row *Vec) error {
	if row == nil || row.Len() != 1+p.dim {
		return fmt.Errorf("AddEqualityVec: row must have length %d", 1+p.dim)
	}
	p.eq = append(p.eq, cloneRow(row.El))
	return nil
}

// AddInequalityVec adds an inequality constraint from a full-precision row.
func (p *Polyhedron) AddInequalityVec(row *Vec) error {
	if row == nil || row.Len() != 1+p.dim {
		return fmt.Errorf("AddInequalityVec: row must have length %d", 1+p.dim)
	}
	p.ineq = append(p.ineq, cloneRow(row.El))
	return nil
}

func (p *Polyhedron) rowFromInts(op string, coeffs []int64) ([]big.Int, error) {
	if len(coeffs) != 1+p.dim {
		return nil, fmt.Errorf("%s: need %d values (constant first, then one per dimension), got %d",
			op, 1+p.dim, len(coeffs))
	}
	row := make([]big.Int, len(coeffs))
	for i, c := range coeffs {
		row[i].SetInt64(c)
	}
	return row, nil
}

// Clone returns a deep copy of the polyhedron.
// Dimension labels are shared with their reference counts incremented.
func (p *Polyhedron) Clone() *Polyhedron {
	c := &Polyhedron{dim: p.dim}
	for _, r := range p.eq {
		c.eq = append(c.eq, cloneRow(r))
	}
	for _, r := range p.ineq {
		c.ineq = append(c.ineq, cloneRow(r))
	}
	if p.ids != nil {
		c.ids = make([]*ID, len(p.ids))
		for i, id := range p.ids {
			c.ids[i] = id.Copy()
		}
	}
	return c
}

// SetDimID labels dimension i with an identifier handle. The polyhedron
// takes over the caller's reference; labels only affect String output.
func (p *Polyhedron) SetDimID(i int, id *ID) error {
	if i < 0 || i >= p.dim {
		return fmt.Errorf("SetDimID: dimension %d out of range [0, %d)", i, p.dim)
	}
	if p.ids == nil {
		p.ids = make([]*ID, p.dim)
	}
	if p.ids[i] != nil {
		p.ids[i].Free()
	}
	p.ids[i] = id
	return nil
}

// dimNames returns the printable name of each dimension.
func (p *Polyhedron) dimNames() []string {
	names := make([]string, p.dim)
	for i := range names {
		if p.ids != nil && p.ids[i] != nil && p.ids[i].Name() != "" {
			names[i] = p.ids[i].Name()
		} else {
			names[i] = fmt.Sprintf("x%d", i)
		}
	}
	return names
}

// String renders the polyhedron in a set-builder syntax, e.g.
// "{ [x0, x1] : x0 >= 0 and -x0 + 2 >= 0 }".
func (p *Polyhedron) String() string {
	names := p.dimNames()
	var sb strings.Builder
	sb.WriteString("{ [")
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString("]")
	var cons []string
	for _, r := range p.eq {
		cons = append(cons, affineString(r, names)+" = 0")
	}
	for _, r := range p.ineq {
		cons = append(cons, affineString(r, names)+" >= 0")
	}
	if len(cons) > 0 {
		sb.WriteString(" : ")
		sb.WriteString(strings.Join(cons, " and "))
	}
	sb.WriteString(" }")
	return sb.String()
}

// trivialEmpty reports whether a constant-only constraint already
// contradicts the polyhedron. For dim == 0 this is a full emptiness test;
// for higher dimensions it is only a cheap sufficient check.
func (p *Polyhedron) trivialEmpty() bool {
	for _, r := range p.eq {
		if constantOnly(r) && r[0].Sign() != 0 {
			return true
		}
	}
	for _, r := range p.ineq {
		if constantOnly(r) && r[0].Sign() < 0 {
			return true
		}
	}
	return false
}

func constantOnly(row []big.Int) bool {
	for j := 1; j < len(row); j++ {
		if row[j].Sign() != 0 {
			return false
		}
	}
	return true
}
