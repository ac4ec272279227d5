// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/catalog"
)

// errDefectsFound makes audit exit non-zero after the defects were printed.
var errDefectsFound = errors.New("category tree has defects")

func newAuditCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Report orphaned, cyclic and too-deep categories",
		Long: `The audit command builds the category tree and lists every defect the
builder had to tolerate: categories whose parent is missing, parent chains that
loop, and categories nested deeper than allowed. It exits with status 1 when
any defect is found, so it can gate deploys and cron checks.

Example:
  categoryctl audit
  categoryctl audit --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(func(svc *catalog.Service) error {
				snap, err := svc.Tree(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if opts.jsonOut {
					if err := printJSON(out, snap.Warnings); err != nil {
						return err
					}
				} else if len(snap.Warnings) == 0 {
					fmt.Fprintln(out, "no defects found")
				} else {
					printWarnings(out, snap.Warnings)
				}
				if len(snap.Warnings) > 0 {
					return errDefectsFound
				}
				return nil
			})
		},
	}
}
