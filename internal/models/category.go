// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category is a product category stored as a flat, parent-pointer row.
// The hierarchy package turns a list of these into a bounded-depth tree.
type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ParentID     *int64    `json:"parent_id"`
	IsActive     bool      `json:"is_active"`
	IsControlled bool      `json:"is_controlled"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Populated by the store from the products table. They count only
	// products assigned to this category, never its descendants.
	DirectProductCount          int `json:"direct_product_count"`
	DirectPublishedProductCount int `json:"direct_published_product_count"`
}

// IsRoot reports whether the category declares no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// HasParent reports whether the category declares id as its parent.
func (c *Category) HasParent(id int64) bool {
	return c.ParentID != nil && *c.ParentID == id
}
