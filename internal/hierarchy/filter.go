// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter prunes the forest to the categories whose name contains query,
// ignoring case. A matching node keeps its whole original subtree; a node
// that does not match but has matching descendants keeps only the branches
// leading to them. Everything else is dropped.
//
// The returned set holds the id of every surviving node. Callers union it
// into their own expanded-set while a search is active so no match hides
// behind a collapsed ancestor. A blank query returns roots as is together
// with an empty set. Otherwise the query is matched as given, surrounding
// spaces included.
//
// The input forest is never modified. Matching nodes are shared with the
// input, so the result must be treated as read-only.
func Filter(roots []*Node, query string) ([]*Node, IDSet) {
	expand := IDSet{}
	if strings.TrimSpace(query) == "" {
		return roots, expand
	}

	m := newMatcher(query)
	var out []*Node
	for _, r := range roots {
		if kept := m.prune(r); kept != nil {
			out = append(out, kept)
		}
	}
	for _, n := range Flatten(out) {
		expand[n.ID] = struct{}{}
	}
	return out, expand
}

// NameMatches reports whether name contains query under the same case
// folding Filter uses. A blank query matches nothing.
func NameMatches(name, query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	return newMatcher(query).matches(name)
}

type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(query string) *matcher {
	fold := cases.Fold()
	return &matcher{fold: fold, needle: fold.String(query)}
}

func (m *matcher) matches(name string) bool {
	return strings.Contains(m.fold.String(name), m.needle)
}

func (m *matcher) prune(n *Node) *Node {
	var survivors []*Node
	for _, c := range n.Children {
		if kept := m.prune(c); kept != nil {
			survivors = append(survivors, kept)
		}
	}
	if m.matches(n.Name) {
		return n
	}
	if len(survivors) == 0 {
		return nil
	}
	pruned := *n
	pruned.Children = survivors
	return &pruned
}
