// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"github.com/spf13/cobra"

	"storefront/internal/catalog"
)

func newTreeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Display the category tree with totals",
		Long: `The tree command builds the category tree and prints every category with
its total product, published product and subcategory counts.

Example:
  categoryctl tree
  categoryctl tree --driver sqlite --dsn storefront.db --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(func(svc *catalog.Service) error {
				snap, err := svc.Tree(cmd.Context())
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return printJSON(cmd.OutOrStdout(), snap)
				}
				printTree(cmd.OutOrStdout(), snap.Roots, nil)
				return nil
			})
		},
	}
}
