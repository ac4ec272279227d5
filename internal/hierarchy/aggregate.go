// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

// ComputeAggregates fills the derived counters of every node, children
// before parents, and returns roots for chaining. It is total over any
// forest BuildTree produces.
func ComputeAggregates(roots []*Node) []*Node {
	for _, r := range roots {
		aggregate(r)
	}
	return roots
}

func aggregate(n *Node) {
	n.TotalProductCount = n.DirectProductCount
	n.TotalPublishedProductCount = n.DirectPublishedProductCount
	n.DirectSubcategoryCount = len(n.Children)
	n.TotalSubcategoryCount = 0

	for _, c := range n.Children {
		aggregate(c)
		n.TotalProductCount += c.TotalProductCount
		n.TotalPublishedProductCount += c.TotalPublishedProductCount
		n.TotalSubcategoryCount += 1 + c.TotalSubcategoryCount
	}
}
