// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/catalog"
	"storefront/internal/hierarchy"
)

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Filter the tree by category name",
		Long: `The search command keeps categories whose name contains the query
(case-insensitive) together with their ancestors and full subtrees. Matching
categories are marked with an asterisk.

Example:
  categoryctl search glass
  categoryctl search "body armor" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(func(svc *catalog.Service) error {
				res, err := svc.Search(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.jsonOut {
					return printJSON(out, res)
				}
				if len(res.Roots) == 0 {
					fmt.Fprintf(out, "no categories match %q\n", args[0])
					return nil
				}
				printTree(out, res.Roots, matching(res.Roots, args[0]))
				return nil
			})
		},
	}
}

// matching collects the ids of the nodes whose own name matches query.
func matching(roots []*hierarchy.Node, query string) hierarchy.IDSet {
	set := hierarchy.IDSet{}
	for _, n := range hierarchy.Flatten(roots) {
		if hierarchy.NameMatches(n.Name, query) {
			set[n.ID] = struct{}{}
		}
	}
	return set
}
