// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/models"
)

// ErrNotFound is returned by updates and deletes that matched no row.
var ErrNotFound = errors.New("not found")

// CategoryStore manages categories in the database. It stores rows as
// given; structural rules are enforced by the hierarchy validator before
// anything reaches it.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, parent_id, is_active, is_controlled, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.ParentID,
		&c.IsActive, &c.IsControlled, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns every category ordered by sort_order, with the number of
// products assigned directly to each one (all and published).
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.parent_id, c.is_active, c.is_controlled,
		       c.sort_order, c.created_at, c.updated_at,
		       COUNT(p.id) AS product_count,
		       COUNT(CASE WHEN p.is_published THEN 1 END) AS published_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.sort_order, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.IsActive, &c.IsControlled,
			&c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
			&c.DirectProductCount, &c.DirectPublishedProductCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ProductCounts returns the direct product counts of every category that
// has at least one product. Categories without products are absent.
func (s *CategoryStore) ProductCounts(ctx context.Context) (map[int64]models.ProductCounts, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id,
		       COUNT(*) AS product_count,
		       COUNT(CASE WHEN is_published THEN 1 END) AS published_count
		FROM products
		GROUP BY category_id
	`)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]models.ProductCounts)
	for rows.Next() {
		var (
			id int64
			pc models.ProductCounts
		)
		if err := rows.Scan(&id, &pc.Total, &pc.Published); err != nil {
			return nil, fmt.Errorf("scan product counts: %w", err)
		}
		counts[id] = pc
	}
	return counts, rows.Err()
}

// FindByID retrieves a category by ID, without product counts. Returns nil
// if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category at the end of its siblings and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	order, err := s.NextSortOrder(ctx, c.ParentID)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	// Only the id comes back from the insert; the full row is re-read so
	// both drivers hand back typed timestamps.
	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, parent_id, is_active, is_controlled, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		c.Name, c.Slug, c.ParentID, c.IsActive, c.IsControlled, order,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	result, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("create category %d: %w", id, ErrNotFound)
	}
	return result, nil
}

// Update writes every mutable column of an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, parent_id = $3, is_active = $4,
			is_controlled = $5, sort_order = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
	`, c.Name, c.Slug, c.ParentID, c.IsActive, c.IsControlled, c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return expectAffected(res, "update category")
}

// Delete removes a category by ID. The schema restricts deleting a category
// that still has children or products.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return expectAffected(res, "delete category")
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *int64) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, err
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
