package polyscan

import (
	"errors"
	"math/big"
	"testing"
)

func mustSet(t *testing.T, dim int, disjuncts ...*Polyhedron) *Set {
	t.Helper()
	s, err := NewSet(dim)
	if err != nil {
		t.Fatalf("NewSet failed: %v", err)
	}
	for _, p := range disjuncts {
		if err := s.Add(p); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	return s
}

// collectSetPoints scans s and returns the visited points, failing on
// duplicates: the disjointness normalization must attribute every point of
// the union to exactly one disjunct.
func collectSetPoints(t *testing.T, s *Set) map[string]bool {
	t.Helper()
	pts := make(map[string]bool)
	err := s.Scan(VisitorFunc(func(v *Vec) bool {
		key := v.String()
		if pts[key] {
			t.Fatalf("point %s visited twice", key)
		}
		pts[key] = true
		return true
	}))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return pts
}

func TestSetScanOverlappingBoxes(t *testing.T) {
	// [0,2]x[0,1] and [1,3]x[0,1] overlap on [1,2]x[0,1]; the union has
	// 8 points and each must be visited exactly once.
	s := mustSet(t, 2,
		mustBox(t, []int64{0, 0}, []int64{2, 1}),
		mustBox(t, []int64{1, 0}, []int64{3, 1}),
	)
	got := collectSetPoints(t, s)
	want := bruteForce(2, -1, 4, func(x []int64) bool {
		in1 := 0 <= x[0] && x[0] <= 2 && 0 <= x[1] && x[1] <= 1
		in2 := 1 <= x[0] && x[0] <= 3 && 0 <= x[1] && x[1] <= 1
		return in1 || in2
	})
	if len(want) != 8 {
		t.Fatalf("brute force found %d points, want 8", len(want))
	}
	samePoints(t, got, want)
}

func TestSetScanIdenticalDisjuncts(t *testing.T) {
	s := mustSet(t, 2,
		mustBox(t, []int64{0, 0}, []int64{2, 1}),
		mustBox(t, []int64{0, 0}, []int64{2, 1}),
	)
	got := collectSetPoints(t, s)
	if len(got) != 6 {
		t.Fatalf("duplicated disjunct visited %d points, want 6", len(got))
	}
}

func TestSetScanDisjointDisjuncts(t *testing.T) {
	s := mustSet(t, 1,
		mustBox(t, []int64{0}, []int64{2}),
		mustBox(t, []int64{10}, []int64{11}),
	)
	got := collectSetPoints(t, s)
	if len(got) != 5 {
		t.Fatalf("visited %d points, want 5", len(got))
	}
}

func TestSetCountAccumulatesAcrossDisjuncts(t *testing.T) {
	s := mustSet(t, 1,
		mustBox(t, []int64{0}, []int64{2}),
		mustBox(t, []int64{10}, []int64{11}),
	)
	count, err := s.Count()
	wantCount(t, count, err, 5)
}

func TestSetCountOverlap(t *testing.T) {
	s := mustSet(t, 2,
		mustBox(t, []int64{0, 0}, []int64{2, 1}),
		mustBox(t, []int64{1, 0}, []int64{3, 1}),
	)
	count, err := s.Count()
	wantCount(t, count, err, 8)
}

func TestSetCountUptoCrossesDisjunctBoundary(t *testing.T) {
	// First disjunct holds 3 points; the cutoff lands inside the second.
	s := mustSet(t, 1,
		mustBox(t, []int64{0}, []int64{2}),
		mustBox(t, []int64{10}, []int64{14}),
	)
	count, err := s.CountUpto(big.NewInt(5))
	wantCount(t, count, err, 5)
}

func TestSetCountEmpty(t *testing.T) {
	s := mustSet(t, 3)
	count, err := s.Count()
	wantCount(t, count, err, 0)
}

func TestSetScanEqualityOverlap(t *testing.T) {
	// A segment of the line y = x overlapping a box: subtraction of an
	// equality-constrained disjunct splits into both strict sides.
	line := mustPolyhedron(t, 2, func(p *Polyhedron) error {
		if err := p.AddEquality(0, 1, -1); err != nil {
			return err
		}
		if err := p.AddInequality(0, 1, 0); err != nil {
			return err
		}
		return p.AddInequality(4, -1, 0)
	})
	box := mustBox(t, []int64{0, 0}, []int64{2, 2})
	s := mustSet(t, 2, line, box)
	got := collectSetPoints(t, s)
	want := bruteForce(2, -1, 5, func(x []int64) bool {
		onLine := x[0] == x[1] && 0 <= x[0] && x[0] <= 4
		inBox := 0 <= x[0] && x[0] <= 2 && 0 <= x[1] && x[1] <= 2
		return onLine || inBox
	})
	samePoints(t, got, want)
}

func TestSetScanFailingDisjunctAborts(t *testing.T) {
	t.Run("unbounded disjunct", func(t *testing.T) {
		// The half-line x >= 10 survives subtraction of the box, so the
		// second disjunct's scan must fail and abort the whole set.
		halfLine := mustPolyhedron(t, 1, func(p *Polyhedron) error {
			return p.AddInequality(-10, 1)
		})
		s := mustSet(t, 1, mustBox(t, []int64{0}, []int64{2}), halfLine)
		err := s.Scan(VisitorFunc(func(v *Vec) bool { return true }))
		if !errors.Is(err, ErrUnbounded) {
			t.Fatalf("Scan with unbounded disjunct: err = %v, want ErrUnbounded", err)
		}
	})
	t.Run("visitor stop", func(t *testing.T) {
		s := mustSet(t, 1,
			mustBox(t, []int64{0}, []int64{2}),
			mustBox(t, []int64{10}, []int64{14}),
		)
		seen := 0
		err := s.Scan(VisitorFunc(func(v *Vec) bool {
			seen++
			return seen < 4
		}))
		if !errors.Is(err, ErrAborted) {
			t.Fatalf("Scan with stopping visitor: err = %v, want ErrAborted", err)
		}
		if seen != 4 {
			t.Fatalf("visitor called %d times, want 4", seen)
		}
	})
}

func TestSetCountUptoFailingDisjunct(t *testing.T) {
	// The bounded disjunct contributes 3 points, short of the limit, so
	// the unbounded disjunct's failure is a genuine error, not a cutoff.
	halfLine := mustPolyhedron(t, 1, func(p *Polyhedron) error {
		return p.AddInequality(-10, 1)
	})
	s := mustSet(t, 1, mustBox(t, []int64{0}, []int64{2}), halfLine)
	if _, err := s.CountUpto(big.NewInt(100)); !errors.Is(err, ErrUnbounded) {
		t.Fatalf("CountUpto over unbounded union: err = %v, want ErrUnbounded", err)
	}
}

func TestSetAddValidation(t *testing.T) {
	s := mustSet(t, 2)
	if err := s.Add(nil); err == nil {
		t.Fatal("Add(nil) should fail")
	}
	if err := s.Add(mustBox(t, []int64{0}, []int64{1})); err == nil {
		t.Fatal("Add with mismatched dimension should fail")
	}
}

func TestMakeDisjointPreservesUnion(t *testing.T) {
	// Three mutually overlapping boxes; after normalization the disjunct
	// counts must sum to the union's cardinality.
	build := func(t *testing.T) *Set {
		return mustSet(t, 2,
			mustBox(t, []int64{0, 0}, []int64{3, 3}),
			mustBox(t, []int64{2, 2}, []int64{5, 5}),
			mustBox(t, []int64{1, -1}, []int64{2, 4}),
		)
	}
	want := bruteForce(2, -2, 6, func(x []int64) bool {
		in := func(lo0, lo1, hi0, hi1 int64) bool {
			return lo0 <= x[0] && x[0] <= hi0 && lo1 <= x[1] && x[1] <= hi1
		}
		return in(0, 0, 3, 3) || in(2, 2, 5, 5) || in(1, -1, 2, 4)
	})

	got := collectSetPoints(t, build(t))
	samePoints(t, got, want)

	count, err := build(t).Count()
	wantCount(t, count, err, int64(len(want)))
}
