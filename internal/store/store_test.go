// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides shared database helpers for the store tests.
// Every test gets its own migrated in-memory SQLite database; the
// PostgreSQL helper skips when no server is reachable.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/pressly/goose/v3"

	"storefront/internal/database"
	"storefront/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a fresh in-memory SQLite database and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db, database.DriverSQLite); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testPostgresDB opens the PostgreSQL test database, skipping the test if
// it is unavailable.
func testPostgresDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "storefront") + ":" +
		envOr("POSTGRES_PASSWORD", "changeme") + "@" +
		envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") + "/" +
		envOr("POSTGRES_DB", "storefront") + "?sslmode=disable&connect_timeout=2"

	db, err := database.Connect(database.DriverPostgres, dsn)
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db, database.DriverPostgres); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// mustCreateCategory inserts an active category and fails the test on error.
func mustCreateCategory(t *testing.T, s *CategoryStore, name string, parentID *int64) *models.Category {
	t.Helper()
	c, err := s.Create(context.Background(), &models.Category{Name: name, ParentID: parentID, IsActive: true})
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return c
}

// mustCreateProduct inserts a product and fails the test on error.
func mustCreateProduct(t *testing.T, s *ProductStore, categoryID int64, name string, published bool) *models.Product {
	t.Helper()
	p, err := s.Create(context.Background(), &models.Product{CategoryID: categoryID, Name: name, IsPublished: published})
	if err != nil {
		t.Fatalf("create product %q: %v", name, err)
	}
	return p
}
