// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Every test runs against its own seeded in-memory
// SQLite database through the real catalog service.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"storefront/internal/catalog"
	"storefront/internal/database"
	"storefront/internal/store"
)

// Seeded ids: 1 Vehicles > 2 Armored Vehicles > 3 Ballistic Glass,
// 4 Body Armor > 5 Plate Carriers, 6 Helmets, 7 Accessories.

// testEnv holds the wired-up handler stack for one test.
type testEnv struct {
	router   chi.Router
	products *store.ProductStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := NewCategories(catalog.NewService(store.NewCategoryStore(db), nil))

	r := chi.NewRouter()
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/options", h.Options)
		r.Get("/children", h.Children)
		r.Patch("/{id}", h.Rename)
		r.Put("/{id}/parent", h.Move)
		r.Put("/{id}/active", h.SetActive)
		r.Delete("/{id}", h.Delete)
	})

	return &testEnv{router: r, products: store.NewProductStore(db)}
}

// do sends a request through the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a recorder body, failing the test on error.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

// expectStatus fails the test when the status differs, printing the body.
func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}

type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
