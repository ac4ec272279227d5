// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tree.go caches the category rows the tree is built from, so admin page
// loads skip the category scan. Only topology is cached: names, parents,
// flags and sort order. Product counts change outside this service and are
// read fresh on every request. The entry is dropped after every committed
// mutation; the TTL only bounds staleness when a writer outside this
// process touches the categories table.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/models"
)

const (
	// treeKey is the Valkey key holding the serialized category rows.
	treeKey = "catalog:category-topology"

	// DefaultTreeTTL is how long cached rows are kept.
	DefaultTreeTTL = 10 * time.Minute
)

// TreeCache stores category topology in Valkey.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a tree cache backed by the given Valkey client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl <= 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// Get returns the cached rows. Any error is logged and reported as a miss.
func (tc *TreeCache) Get(ctx context.Context) ([]models.Category, bool) {
	raw, err := tc.client.Get(ctx, treeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("tree cache get error", "error", err)
		return nil, false
	}

	var rows []models.Category
	if err := json.Unmarshal(raw, &rows); err != nil {
		slog.Warn("tree cache decode error", "error", err)
		return nil, false
	}
	slog.Debug("tree cache hit", "categories", len(rows))
	return rows, true
}

// Set stores rows with the configured TTL. Product counts are not stored.
func (tc *TreeCache) Set(ctx context.Context, rows []models.Category) error {
	topology := make([]models.Category, len(rows))
	for i, c := range rows {
		c.DirectProductCount = 0
		c.DirectPublishedProductCount = 0
		topology[i] = c
	}
	raw, err := json.Marshal(topology)
	if err != nil {
		return fmt.Errorf("tree cache encode: %w", err)
	}
	if err := tc.client.Set(ctx, treeKey, raw, tc.ttl).Err(); err != nil {
		return fmt.Errorf("tree cache set: %w", err)
	}
	return nil
}

// Invalidate removes the cached rows.
func (tc *TreeCache) Invalidate(ctx context.Context) error {
	if err := tc.client.Del(ctx, treeKey).Err(); err != nil {
		return fmt.Errorf("tree cache invalidate: %w", err)
	}
	slog.Debug("tree cache invalidated")
	return nil
}
