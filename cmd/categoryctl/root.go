// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/store"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	driver  string
	dsn     string
	jsonOut bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "categoryctl",
		Short: "Inspect the storefront category tree",
		Long: `categoryctl builds the category tree from the storefront database and
prints it with product and subcategory totals. It can also search the tree and
report defects such as orphaned categories or parent cycles.

Connection settings default to the same environment variables the service
reads (DB_DRIVER, SQLITE_PATH, POSTGRES_*).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelError
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "Database driver: postgres or sqlite (default from DB_DRIVER)")
	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "Connection string or SQLite path (default from environment)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging on stderr")

	cmd.AddCommand(newTreeCmd(opts), newAuditCmd(opts), newSearchCmd(opts))
	return cmd
}

// open connects to the configured database, applies pending migrations and
// returns a catalog service without a tree cache. The returned close
// function releases the connection.
func (o *options) open() (*catalog.Service, func() error, error) {
	driver, dsn := o.driver, o.dsn
	if driver == "" || dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		if driver == "" {
			driver = cfg.DBDriver
		}
		if dsn == "" {
			if driver != cfg.DBDriver {
				return nil, nil, fmt.Errorf("--dsn is required when --driver differs from DB_DRIVER")
			}
			dsn = cfg.DSN()
		}
	}

	db, err := database.Connect(driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db, driver); err != nil {
		db.Close()
		return nil, nil, err
	}
	return catalog.NewService(store.NewCategoryStore(db), nil), db.Close, nil
}

// withService opens the database, runs fn and closes the connection.
func (o *options) withService(fn func(*catalog.Service) error) error {
	svc, closeDB, err := o.open()
	if err != nil {
		return err
	}
	defer closeDB()
	return fn(svc)
}

// printJSON outputs data as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
