// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io"
	"strings"

	"storefront/internal/hierarchy"
)

// printTree writes one line per category, indented by depth. Categories in
// highlight are marked with an asterisk.
func printTree(w io.Writer, roots []*hierarchy.Node, highlight hierarchy.IDSet) {
	for _, n := range hierarchy.Flatten(roots) {
		fmt.Fprintln(w, formatNode(n, highlight.Has(n.ID)))
	}
}

func formatNode(n *hierarchy.Node, marked bool) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", n.Depth))
	if marked {
		b.WriteString("* ")
	}
	fmt.Fprintf(&b, "%s (#%d)", n.Name, n.ID)
	fmt.Fprintf(&b, "  products %d (%d published)", n.TotalProductCount, n.TotalPublishedProductCount)
	if n.TotalSubcategoryCount > 0 {
		fmt.Fprintf(&b, "  subcategories %d", n.TotalSubcategoryCount)
	}
	if !n.IsActive {
		b.WriteString("  [inactive]")
	}
	if n.IsControlled {
		b.WriteString("  [controlled]")
	}
	return b.String()
}

func printWarnings(w io.Writer, warnings []hierarchy.Warning) {
	for _, warn := range warnings {
		fmt.Fprintf(w, "%-7s %s\n", warn.Kind, warn)
	}
}
