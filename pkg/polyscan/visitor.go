// This file defines the visitor capability consumed by the scanners and
// the counting specialization built on it: a counter with an optional
// early-stop cutoff and a range-collapsing last-level fast path.

package polyscan

import (
	"fmt"
	"math/big"
)

// Visitor consumes the points discovered by a scan.
//
// Visit receives one sample of length dim+1 with the homogeneous element 0
// fixed to 1; ownership of the sample passes to the visitor. Returning
// false stops the enclosing scan, which surfaces the stop as ErrAborted.
type Visitor interface {
	Visit(sample *Vec) bool
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(sample *Vec) bool

// Visit calls f.
func (f VisitorFunc) Visit(sample *Vec) bool {
	return f(sample)
}

// RangeVisitor is the explicit capability for the scanner's last-level
// fast path: instead of fixing one value at a time at the innermost
// level, the scanner hands the whole feasible range [min, max] over in a
// single call. An implementation must treat VisitRange exactly as if
// Visit had been called once per point of the range.
//
// Only the counting visitor implements this capability; plain enumeration
// never depends on it.
type RangeVisitor interface {
	Visitor
	VisitRange(min, max *big.Int) bool
}

// counter accumulates a point count with an optional non-zero cutoff.
// A zero max means no cutoff.
type counter struct {
	count big.Int
	max   big.Int
}

// Visit counts a single point and stops once the cutoff is reached.
func (c *counter) Visit(sample *Vec) bool {
	c.count.Add(&c.count, bigOne)
	return c.max.Sign() == 0 || c.count.Cmp(&c.max) < 0
}

// VisitRange folds max-min+1 points into the count in one step. When the
// cutoff is crossed the count saturates at the cutoff before stopping.
func (c *counter) VisitRange(min, max *big.Int) bool {
	c.count.Add(&c.count, max)
	c.count.Sub(&c.count, min)
	c.count.Add(&c.count, bigOne)
	if c.max.Sign() == 0 || c.count.Cmp(&c.max) < 0 {
		return true
	}
	c.count.Set(&c.max)
	return false
}

// done reports whether a scan failure was the counter's own cutoff stop,
// which the counting layer reports as success.
func (c *counter) done() bool {
	return c.max.Sign() != 0 && c.count.Cmp(&c.max) >= 0
}

func newCounter(op string, limit *big.Int) (*counter, error) {
	c := &counter{}
	if limit != nil {
		if limit.Sign() < 0 {
			return nil, fmt.Errorf("%s: limit must be non-negative, got %s", op, limit)
		}
		c.max.Set(limit)
	}
	return c, nil
}

// CountUpto counts the integer points of the polyhedron, stopping early
// once the count reaches limit. A nil or zero limit counts exhaustively.
// CountUpto consumes p: the caller must not use it again.
//
// Reaching the limit is a success with the count saturated at limit; any
// other abort is a genuine failure and the count is not returned.
func (p *Polyhedron) CountUpto(limit *big.Int) (*big.Int, error) {
	c, err := newCounter("CountUpto", limit)
	if err != nil {
		return nil, err
	}
	if err := p.Scan(c); err != nil && !c.done() {
		return nil, err
	}
	return new(big.Int).Set(&c.count), nil
}

// Count counts the integer points of the polyhedron exhaustively.
// Count consumes p: the caller must not use it again.
func (p *Polyhedron) Count() (*big.Int, error) {
	return p.CountUpto(nil)
}

// CountUpto counts the integer points of the union, stopping early once
// the count reaches limit. A nil or zero limit counts exhaustively.
// CountUpto consumes s: the caller must not use it again.
//
// Reaching the limit is a success with the count saturated at limit; any
// other abort is a genuine failure and the count is not returned.
func (s *Set) CountUpto(limit *big.Int) (*big.Int, error) {
	c, err := newCounter("CountUpto", limit)
	if err != nil {
		return nil, err
	}
	if err := s.Scan(c); err != nil && !c.done() {
		return nil, err
	}
	return new(big.Int).Set(&c.count), nil
}

// Count counts the integer points of the union exhaustively.
// Count consumes s: the caller must not use it again.
func (s *Set) Count() (*big.Int, error) {
	return s.CountUpto(nil)
}
