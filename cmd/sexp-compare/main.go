// sexp-compare cross-checks two .kicad_sch files with an independent
// s-expression parser. Useful for verifying that a merged document is
// still structurally sound and for diffing node counts between a
// source block and the merged output.
package main

import (
	"fmt"
	"os"

	"github.com/chewxy/sexp"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: sexp-compare <file_a> <file_b>")
		os.Exit(1)
	}

	a, err := summarize(os.Args[1])
	if err != nil {
		fmt.Printf("%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	b, err := summarize(os.Args[2])
	if err != nil {
		fmt.Printf("%s: %v\n", os.Args[2], err)
		os.Exit(1)
	}

	fmt.Printf("%-20s %12s %12s\n", "", "A", "B")
	fmt.Printf("%-20s %12d %12d\n", "top-level sexps", a.topLevel, b.topLevel)
	fmt.Printf("%-20s %12d %12d\n", "total leaves", a.leaves, b.leaves)

	keys := make(map[string]bool)
	for k := range a.heads {
		keys[k] = true
	}
	for k := range b.heads {
		keys[k] = true
	}

	diff := 0
	for key := range keys {
		if a.heads[key] != b.heads[key] {
			fmt.Printf("%-20s %12d %12d\n", key, a.heads[key], b.heads[key])
			diff++
		}
	}
	if diff == 0 {
		fmt.Println("\nno head-count differences")
	}
}

type summary struct {
	topLevel int
	leaves   int
	heads    map[string]int
}

func summarize(filename string) (*summary, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sexps, err := sexp.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	s := &summary{heads: make(map[string]int)}
	s.topLevel = len(sexps)
	for _, root := range sexps {
		s.leaves += root.LeafCount()
		countHeads(root, s.heads)
	}
	return s, nil
}

// countHeads tallies every list node by its head atom, recursively.
func countHeads(s sexp.Sexp, heads map[string]int) {
	if s == nil || s.IsLeaf() {
		return
	}

	if head := s.Head(); head != nil && head.IsLeaf() {
		heads[fmt.Sprint(head)]++
	}

	for rest := s.Tail(); rest != nil && !rest.IsLeaf(); rest = rest.Tail() {
		countHeads(rest.Head(), heads)
	}
}
