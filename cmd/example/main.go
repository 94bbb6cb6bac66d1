// Package main demonstrates the polyscan API: enumerating and counting
// the integer points of bounded polyhedra and unions of polyhedra.
package main

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/polylab/polyscan/pkg/polyscan"
)

func main() {
	fmt.Println("=== polyscan Examples ===")
	fmt.Println()

	scanBox()
	countDiamond()
	countWithCutoff()
	countUnion()
	labelledDimensions()
}

// scanBox enumerates a small box with a generic visitor.
func scanBox() {
	fmt.Println("1. Scanning a box:")

	box, err := polyscan.NewBox([]int64{0, 0}, []int64{2, 1})
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	fmt.Println("   ", box)

	var pts []string
	err = box.Scan(polyscan.VisitorFunc(func(s *polyscan.Vec) bool {
		pts = append(pts, fmt.Sprintf("(%s, %s)", &s.El[1], &s.El[2]))
		return true
	}))
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	sort.Strings(pts)
	fmt.Printf("   %d points: %v\n\n", len(pts), pts)
}

// countDiamond counts |x| + |y| <= 3 without materializing the points.
func countDiamond() {
	fmt.Println("2. Counting a diamond:")

	diamond, err := polyscan.NewPolyhedron(2)
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	for _, row := range [][3]int64{
		{3, 1, 1}, {3, 1, -1}, {3, -1, 1}, {3, -1, -1},
	} {
		if err := diamond.AddInequality(row[0], row[1], row[2]); err != nil {
			fmt.Println("   error:", err)
			return
		}
	}

	count, err := diamond.Count()
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	fmt.Printf("   |x| + |y| <= 3 holds %s integer points\n\n", count)
}

// countWithCutoff shows the early-stop threshold: the count saturates at
// the limit and still reports success.
func countWithCutoff() {
	fmt.Println("3. Counting with a cutoff:")

	box, err := polyscan.NewBox([]int64{0, 0}, []int64{999, 999})
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	count, err := box.CountUpto(big.NewInt(1000))
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	fmt.Printf("   a million-point box counted up to the 1000 cutoff: %s\n\n", count)
}

// countUnion counts an overlapping union exactly once per point.
func countUnion() {
	fmt.Println("4. Counting a union of overlapping boxes:")

	a, _ := polyscan.NewBox([]int64{0, 0}, []int64{2, 1})
	b, _ := polyscan.NewBox([]int64{1, 0}, []int64{3, 1})
	union, err := polyscan.NewSet(2)
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	if err := union.Add(a); err != nil {
		fmt.Println("   error:", err)
		return
	}
	if err := union.Add(b); err != nil {
		fmt.Println("   error:", err)
		return
	}

	count, err := union.Count()
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	fmt.Printf("   overlapping boxes cover %s points\n\n", count)
}

// labelledDimensions names dimensions through the identifier registry.
func labelledDimensions() {
	fmt.Println("5. Labelled dimensions:")

	reg := polyscan.NewRegistry()
	i, _ := reg.Alloc("i", nil)
	j, _ := reg.Alloc("j", nil)

	p, err := polyscan.NewPolyhedron(2)
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	_ = p.AddInequality(0, 1, 0)
	_ = p.AddInequality(4, -1, 0)
	_ = p.AddEquality(0, 1, -1)
	_ = p.SetDimID(0, i)
	_ = p.SetDimID(1, j)

	fmt.Println("   ", p)
	count, err := p.Count()
	if err != nil {
		fmt.Println("   error:", err)
		return
	}
	fmt.Printf("   points on the labelled segment: %s\n", count)
}
