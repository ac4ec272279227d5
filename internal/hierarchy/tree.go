// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy turns the flat, parent-pointer list of product
// categories into a bounded-depth tree, keeps the derived product and
// subcategory counters consistent, validates structural mutations and
// filters the tree by name while preserving ancestor chains.
//
// Everything here is a pure, synchronous computation over an already
// fetched list. Persistence, caching and locking live in the store and
// catalog packages.
package hierarchy

import (
	"errors"
	"fmt"

	"storefront/internal/models"
)

// MaxDepth is the deepest level a category may occupy. Roots sit at 0,
// subcategories at 1 and sub-subcategories at 2.
const MaxDepth = 2

// Precondition violations. These mean a collaborator handed over a list
// that could not have come from the store, not that a user made a mistake.
var (
	ErrMalformedNode = errors.New("malformed category record")
	ErrDuplicateID   = errors.New("duplicate category id")
)

// Node is a category placed in the built tree together with its derived
// statistics. Nodes are rebuilt on every read and never persisted.
type Node struct {
	models.Category

	Children []*Node `json:"children,omitempty"`
	Depth    int     `json:"depth"`

	TotalProductCount          int `json:"total_product_count"`
	TotalPublishedProductCount int `json:"total_published_product_count"`
	DirectSubcategoryCount     int `json:"direct_subcategory_count"`
	TotalSubcategoryCount      int `json:"total_subcategory_count"`
}

// WarningKind names a defect found while reading already corrupt data.
type WarningKind string

const (
	// WarningOrphan: the declared parent does not exist. The node is shown as a root.
	WarningOrphan WarningKind = "orphan"
	// WarningCycle: the parent chain loops back. The node closing the loop is shown as a root.
	WarningCycle WarningKind = "cycle"
	// WarningDepth: the node sits deeper than MaxDepth. It stays attached.
	WarningDepth WarningKind = "depth"
)

// Warning describes a tolerated defect. Warnings never abort a build; they
// are meant for an operator to clean up the underlying rows.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	NodeID   int64       `json:"node_id"`
	ParentID *int64      `json:"parent_id,omitempty"`
	Depth    int         `json:"depth,omitempty"`
}

// String renders the warning for logs and the operator CLI.
func (w Warning) String() string {
	switch w.Kind {
	case WarningOrphan:
		return fmt.Sprintf("category %d references missing parent %d", w.NodeID, derefID(w.ParentID))
	case WarningCycle:
		return fmt.Sprintf("category %d closes a parent cycle through %d; shown as root", w.NodeID, derefID(w.ParentID))
	case WarningDepth:
		return fmt.Sprintf("category %d sits at depth %d (max %d)", w.NodeID, w.Depth, MaxDepth)
	}
	return fmt.Sprintf("category %d: %s", w.NodeID, w.Kind)
}

// Snapshot is a built and aggregated forest plus the warnings collected
// while building it.
type Snapshot struct {
	Roots    []*Node   `json:"roots"`
	Warnings []Warning `json:"warnings"`
}

// Build runs BuildTree followed by ComputeAggregates.
func Build(nodes []models.Category) (*Snapshot, error) {
	roots, warnings, err := BuildTree(nodes)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Roots: ComputeAggregates(roots), Warnings: warnings}, nil
}

// BuildTree converts the flat list into a forest. Siblings keep their
// input order. Orphans and nodes closing a parent cycle are surfaced as
// roots, and nodes deeper than MaxDepth stay attached; each case is
// reported as a Warning. An error is returned only for records that
// violate the store's contract (non-positive or duplicate ids, negative
// counts). A nil list yields an empty forest.
func BuildTree(nodes []models.Category) ([]*Node, []Warning, error) {
	index := make(map[int64]int, len(nodes))
	for i := range nodes {
		c := &nodes[i]
		if c.ID <= 0 {
			return nil, nil, fmt.Errorf("%w: id %d at position %d", ErrMalformedNode, c.ID, i)
		}
		if c.DirectProductCount < 0 || c.DirectPublishedProductCount < 0 {
			return nil, nil, fmt.Errorf("%w: category %d has a negative product count", ErrMalformedNode, c.ID)
		}
		if _, dup := index[c.ID]; dup {
			return nil, nil, fmt.Errorf("%w: %d", ErrDuplicateID, c.ID)
		}
		index[c.ID] = i
	}

	var warnings []Warning

	// parent[i] is the position of node i's effective parent, -1 for roots.
	parent := make([]int, len(nodes))
	for i := range nodes {
		parent[i] = -1
		pid := nodes[i].ParentID
		if pid == nil {
			continue
		}
		p, ok := index[*pid]
		if !ok {
			warnings = append(warnings, Warning{Kind: WarningOrphan, NodeID: nodes[i].ID, ParentID: idPtr(*pid)})
			continue
		}
		parent[i] = p
	}

	warnings = append(warnings, breakCycles(nodes, parent)...)

	arena := make([]Node, len(nodes))
	var roots []*Node
	for i := range arena {
		arena[i].Category = nodes[i]
	}
	for i := range arena {
		if p := parent[i]; p >= 0 {
			arena[p].Children = append(arena[p].Children, &arena[i])
		} else {
			roots = append(roots, &arena[i])
		}
	}

	for _, r := range roots {
		warnings = assignDepth(r, 0, warnings)
	}
	return roots, warnings, nil
}

const (
	unvisited uint8 = iota
	visiting
	visited
)

// breakCycles walks parent pointers from every node. A walk that reaches a
// node still on its own path has found a cycle; the last node on the path
// (the one whose pointer closes the loop) is detached. Each node is put on
// a path at most once, so the whole pass is bounded by len(parent) steps.
func breakCycles(nodes []models.Category, parent []int) []Warning {
	var warnings []Warning
	state := make([]uint8, len(parent))
	path := make([]int, 0, MaxDepth+1)

	for start := range parent {
		if state[start] != unvisited {
			continue
		}
		path = path[:0]
		cur := start
		for steps := 0; cur >= 0 && state[cur] == unvisited && steps <= len(parent); steps++ {
			state[cur] = visiting
			path = append(path, cur)
			cur = parent[cur]
		}
		if cur >= 0 && state[cur] == visiting {
			last := path[len(path)-1]
			warnings = append(warnings, Warning{Kind: WarningCycle, NodeID: nodes[last].ID, ParentID: idPtr(nodes[cur].ID)})
			parent[last] = -1
		}
		for _, i := range path {
			state[i] = visited
		}
	}
	return warnings
}

func assignDepth(n *Node, depth int, warnings []Warning) []Warning {
	n.Depth = depth
	if depth > MaxDepth {
		warnings = append(warnings, Warning{Kind: WarningDepth, NodeID: n.ID, Depth: depth})
	}
	for _, c := range n.Children {
		warnings = assignDepth(c, depth+1, warnings)
	}
	return warnings
}

func idPtr(id int64) *int64 {
	return &id
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
