// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// seedCategory is one demo category with the products assigned to it.
type seedCategory struct {
	name     string
	slug     string
	products []seedProduct
	children []seedCategory
}

type seedProduct struct {
	name      string
	published bool
}

// demoCatalog is a small three-level tree that exercises every counter.
var demoCatalog = []seedCategory{
	{
		name: "Vehicles", slug: "vehicles",
		children: []seedCategory{
			{
				name: "Armored Vehicles", slug: "armored-vehicles",
				products: []seedProduct{{"Armored SUV", true}, {"Cash-in-transit Van", false}},
				children: []seedCategory{
					{name: "Ballistic Glass", slug: "ballistic-glass", products: []seedProduct{{"B6 Windshield", true}}},
				},
			},
		},
	},
	{
		name: "Body Armor", slug: "body-armor",
		children: []seedCategory{
			{name: "Plate Carriers", slug: "plate-carriers", products: []seedProduct{{"Low-profile Carrier", true}, {"Tactical Carrier", true}}},
			{name: "Helmets", slug: "helmets", products: []seedProduct{{"Level IIIA Helmet", false}}},
		},
	},
	{name: "Accessories", slug: "accessories"},
}

// Seed populates the database with a demo category tree for development.
// It is a no-op if any category exists already.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for i, c := range demoCatalog {
		n, err := seedInsert(tx, c, nil, i)
		if err != nil {
			return err
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo categories", "categories", inserted)
	return nil
}

func seedInsert(tx *sql.Tx, c seedCategory, parentID *int64, order int) (int, error) {
	var id int64
	err := tx.QueryRow(`
		INSERT INTO categories (name, slug, parent_id, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, c.name, c.slug, parentID, order).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("seed insert category %q: %w", c.name, err)
	}

	for _, p := range c.products {
		if _, err := tx.Exec(`
			INSERT INTO products (category_id, name, is_published) VALUES ($1, $2, $3)
		`, id, p.name, p.published); err != nil {
			return 0, fmt.Errorf("seed insert product %q: %w", p.name, err)
		}
	}

	inserted := 1
	for i, child := range c.children {
		n, err := seedInsert(tx, child, &id, i)
		if err != nil {
			return 0, err
		}
		inserted += n
	}
	return inserted, nil
}
