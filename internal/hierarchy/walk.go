// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import "sort"

// Flatten walks the forest depth-first and returns every node in display
// order. Depth is already set on each node, which is all a <select> needs
// for indentation.
func Flatten(roots []*Node) []*Node {
	var out []*Node
	flatten(roots, &out)
	return out
}

func flatten(nodes []*Node, out *[]*Node) {
	for _, n := range nodes {
		*out = append(*out, n)
		if len(n.Children) > 0 {
			flatten(n.Children, out)
		}
	}
}

// Find returns the node with the given id, or nil.
func Find(roots []*Node, id int64) *Node {
	for _, n := range roots {
		if n.ID == id {
			return n
		}
		if found := Find(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// ChildrenOf returns the immediate children of parentID, or the roots when
// parentID is nil. This backs the cascading main/category/subcategory
// pickers. Unknown parents yield nil.
func ChildrenOf(roots []*Node, parentID *int64) []*Node {
	if parentID == nil {
		return roots
	}
	if n := Find(roots, *parentID); n != nil {
		return n.Children
	}
	return nil
}

// Height returns the number of levels below n; a leaf has height 0.
func Height(n *Node) int {
	h := 0
	for _, c := range n.Children {
		if ch := Height(c) + 1; ch > h {
			h = ch
		}
	}
	return h
}

// Descendants returns the ids of every node below n, depth-first.
func Descendants(n *Node) []int64 {
	var ids []int64
	for _, c := range Flatten(n.Children) {
		ids = append(ids, c.ID)
	}
	return ids
}

// IDSet is a set of category ids.
type IDSet map[int64]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order. Never nil, so it encodes as [].
func (s IDSet) Sorted() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
