// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/models"
)

// ProductStore covers the slice of the product catalog the category tree
// depends on: which category a product is assigned to and whether it is
// published. Products are owned by the catalog subsystem, which writes
// them directly; this service never routes product writes. ProductStore is
// the seam tests and tooling use to play that subsystem. Product counts per
// category are derived by CategoryStore.List and CategoryStore.ProductCounts,
// which read the table on every tree request, so no write here needs to
// notify the category cache.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// Create inserts a product and returns it.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (category_id, name, is_published)
		VALUES ($1, $2, $3)
		RETURNING id
	`, p.CategoryID, p.Name, p.IsPublished).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	var out models.Product
	err = s.db.QueryRowContext(ctx, `
		SELECT id, category_id, name, is_published, created_at FROM products WHERE id = $1
	`, id).Scan(&out.ID, &out.CategoryID, &out.Name, &out.IsPublished, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &out, nil
}

// Reassign moves a product to another category.
func (s *ProductStore) Reassign(ctx context.Context, productID, categoryID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET category_id = $1 WHERE id = $2`, categoryID, productID)
	if err != nil {
		return fmt.Errorf("reassign product: %w", err)
	}
	return expectAffected(res, "reassign product")
}

// Delete removes a product by ID.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return expectAffected(res, "delete product")
}
