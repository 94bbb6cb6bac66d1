package polyscan

import (
	"fmt"
	"math/big"
	"sort"
)

// ExamplePolyhedron_Scan enumerates the six integer points of the box
// 0 <= x <= 2, 0 <= y <= 1. The visiting order depends on the reduced
// basis, so the collected points are sorted before printing.
func ExamplePolyhedron_Scan() {
	box, _ := NewBox([]int64{0, 0}, []int64{2, 1})

	var lines []string
	_ = box.Scan(VisitorFunc(func(s *Vec) bool {
		lines = append(lines, fmt.Sprintf("x=%s y=%s", &s.El[1], &s.El[2]))
		return true
	}))
	sort.Strings(lines)

	for _, l := range lines {
		fmt.Println(l)
	}
	// Output:
	// x=0 y=0
	// x=0 y=1
	// x=1 y=0
	// x=1 y=1
	// x=2 y=0
	// x=2 y=1
}

// ExamplePolyhedron_CountUpto counts with an early-stop threshold: the
// scan stops as soon as three points are accounted for, and reports the
// saturated count as a success.
func ExamplePolyhedron_CountUpto() {
	box, _ := NewBox([]int64{0, 0}, []int64{2, 1})

	count, err := box.CountUpto(big.NewInt(3))
	fmt.Println(count, err)
	// Output:
	// 3 <nil>
}

// ExampleSet_Count counts the union of two overlapping boxes. The
// disjuncts are made pairwise disjoint before scanning, so the overlap is
// counted once.
func ExampleSet_Count() {
	a, _ := NewBox([]int64{0, 0}, []int64{2, 1})
	b, _ := NewBox([]int64{1, 0}, []int64{3, 1})

	union, _ := NewSet(2)
	_ = union.Add(a)
	_ = union.Add(b)

	count, _ := union.Count()
	fmt.Println(count)
	// Output:
	// 8
}

// ExampleRegistry demonstrates hash-consed identifier handles: equal
// (name, payload) allocations share one handle, so identity comparison
// replaces structural comparison.
func ExampleRegistry() {
	reg := NewRegistry()
	a, _ := reg.Alloc("i", nil)
	b, _ := reg.Alloc("i", nil)
	c, _ := reg.Alloc("j", nil)

	fmt.Println(a == b, a == c, a)
	// Output:
	// true false i
}
