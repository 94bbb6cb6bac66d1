// This file defines the dense integer vector and matrix primitives used for
// constraint rows, basis matrices, and discovered samples.

package polyscan

import (
	"fmt"
	"math/big"
	"strings"
)

// Vec is a dense vector of arbitrary-precision integers.
//
// Constraint rows and samples store the homogeneous constant at index 0:
// a constraint row r of length 1+dim denotes the affine form
// r[0] + r[1]*x0 + ... + r[dim]*x(dim-1), and a sample of a dim-dimensional
// polyhedron has length 1+dim with element 0 fixed to 1.
type Vec struct {
	El []big.Int
}

// NewVec creates a zero vector of length n.
func NewVec(n int) *Vec {
	return &Vec{El: make([]big.Int, n)}
}

// NewVecInts creates a vector from int64 values, in order.
func NewVecInts(vals ...int64) *Vec {
	v := NewVec(len(vals))
	for i, x := range vals {
		v.El[i].SetInt64(x)
	}
	return v
}

// Len returns the number of elements.
func (v *Vec) Len() int {
	return len(v.El)
}

// Clone returns a deep copy of the vector.
func (v *Vec) Clone() *Vec {
	w := NewVec(len(v.El))
	for i := range v.El {
		w.El[i].Set(&v.El[i])
	}
	return w
}

// String returns a bracketed list of the elements.
func (v *Vec) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := range v.El {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.El[i].String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Mat is a dense row matrix of arbitrary-precision integers.
//
// The scanner uses a Mat to hold the lattice basis: row 0 is reserved for
// the homogeneous coordinate and rows 1..dim are the search directions,
// each laid out like a constraint row (constant slot at index 0).
// The row operations below are unimodular, so a matrix obtained from
// NewIdentityMat through them always has determinant ±1.
type Mat struct {
	Row [][]big.Int
}

// NewMat creates a zero matrix with the given number of rows and columns.
func NewMat(rows, cols int) *Mat {
	m := &Mat{Row: make([][]big.Int, rows)}
	for i := range m.Row {
		m.Row[i] = make([]big.Int, cols)
	}
	return m
}

// NewIdentityMat creates the n×n identity matrix.
func NewIdentityMat(n int) *Mat {
	m := NewMat(n, n)
	for i := 0; i < n; i++ {
		m.Row[i][i].SetInt64(1)
	}
	return m
}

// Clone returns a deep copy of the matrix.
func (m *Mat) Clone() *Mat {
	if len(m.Row) == 0 {
		return &Mat{}
	}
	c := NewMat(len(m.Row), len(m.Row[0]))
	for i := range m.Row {
		for j := range m.Row[i] {
			c.Row[i][j].Set(&m.Row[i][j])
		}
	}
	return c
}

// SwapRows exchanges rows i and j.
func (m *Mat) SwapRows(i, j int) {
	m.Row[i], m.Row[j] = m.Row[j], m.Row[i]
}

// AddRowMultiple adds f times row src to row dst in place.
func (m *Mat) AddRowMultiple(dst, src int, f *big.Int) {
	var t big.Int
	for j := range m.Row[dst] {
		t.Mul(f, &m.Row[src][j])
		m.Row[dst][j].Add(&m.Row[dst][j], &t)
	}
}

// NegSeg negates the elements [from, to) of row i in place.
// The scanner uses this to flip a basis direction's coefficient segment
// while leaving its constant slot alone.
func (m *Mat) NegSeg(i, from, to int) {
	for j := from; j < to; j++ {
		m.Row[i][j].Neg(&m.Row[i][j])
	}
}

// String returns the rows one per line.
func (m *Mat) String() string {
	var sb strings.Builder
	for i, row := range m.Row {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteByte('[')
		for j := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(row[j].String())
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

// cloneRow copies a constraint row.
func cloneRow(r []big.Int) []big.Int {
	c := make([]big.Int, len(r))
	for i := range r {
		c[i].Set(&r[i])
	}
	return c
}

// affineString renders a constraint row as an affine expression over the
// given variable names, e.g. "x0 + 2*x1 - 3".
func affineString(row []big.Int, names []string) string {
	var sb strings.Builder
	first := true
	for j := 1; j < len(row); j++ {
		c := &row[j]
		if c.Sign() == 0 {
			continue
		}
		if first {
			if c.Sign() < 0 {
				sb.WriteString("-")
			}
		} else if c.Sign() < 0 {
			sb.WriteString(" - ")
		} else {
			sb.WriteString(" + ")
		}
		var abs big.Int
		abs.Abs(c)
		if abs.Cmp(bigOne) != 0 {
			fmt.Fprintf(&sb, "%s*", abs.String())
		}
		sb.WriteString(names[j-1])
		first = false
	}
	k := &row[0]
	if first {
		sb.WriteString(k.String())
	} else if k.Sign() > 0 {
		fmt.Fprintf(&sb, " + %s", k.String())
	} else if k.Sign() < 0 {
		var abs big.Int
		abs.Abs(k)
		fmt.Fprintf(&sb, " - %s", abs.String())
	}
	return sb.String()
}

var bigOne = big.NewInt(1)
