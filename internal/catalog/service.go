// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog serializes category mutations and serves built trees.
//
// Every mutation follows the same pipeline under a single write lock:
// read the latest rows from the store, run the hierarchy validator against
// them, commit the accepted change, then drop the cached tree. Two admins
// acting at once therefore never validate against the same stale snapshot.
// Reads share a read lock. When a tree cache is configured it supplies the
// category topology; product counts are always read from the store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"storefront/internal/hierarchy"
	"storefront/internal/models"
	"storefront/internal/slug"
)

const tracerName = "storefront/internal/catalog"

// Store is the persistence collaborator. *store.CategoryStore satisfies it.
type Store interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int64) error
	NextSortOrder(ctx context.Context, parentID *int64) (int, error)
	ProductCounts(ctx context.Context) (map[int64]models.ProductCounts, error)
}

// TreeCache holds category topology between mutations. Product counts are
// never taken from it. *cache.TreeCache satisfies it.
type TreeCache interface {
	Get(ctx context.Context) ([]models.Category, bool)
	Set(ctx context.Context, rows []models.Category) error
	Invalidate(ctx context.Context) error
}

// Service is the single entry point for reading and changing the category
// tree.
type Service struct {
	mu      sync.RWMutex
	rebuild singleflight.Group
	store   Store
	cache   TreeCache
	tracer  trace.Tracer

	// dirty is set when dropping the cache entry failed after a commit.
	// Reads then skip the cache until a Set or Invalidate succeeds.
	dirty atomic.Bool
}

// NewService creates a Service. cache may be nil, in which case every read
// rebuilds the tree from the store.
func NewService(store Store, cache TreeCache) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		tracer: otel.Tracer(tracerName),
	}
}

// CreateInput carries the fields an admin supplies for a new category.
type CreateInput struct {
	Name         string
	ParentID     *int64
	IsActive     bool
	IsControlled bool
}

// SearchResult is a filtered tree plus the ids the UI should render
// expanded.
type SearchResult struct {
	Roots         []*hierarchy.Node
	AutoExpandIDs []int64
	Warnings      []hierarchy.Warning
}

// Tree returns the full aggregated tree.
func (s *Service) Tree(ctx context.Context) (_ *hierarchy.Snapshot, err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Service.Tree")
	defer func() { endSpan(span, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(ctx, span)
}

// Search filters the tree by name. A blank query returns the whole tree
// with nothing auto-expanded.
func (s *Service) Search(ctx context.Context, query string) (_ *SearchResult, err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Service.Search",
		trace.WithAttributes(attribute.String("catalog.query", query)))
	defer func() { endSpan(span, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := s.snapshot(ctx, span)
	if err != nil {
		return nil, err
	}
	roots, expand := hierarchy.Filter(snap.Roots, query)
	span.SetAttributes(attribute.Int("catalog.matches", len(expand)))
	return &SearchResult{
		Roots:         roots,
		AutoExpandIDs: expand.Sorted(),
		Warnings:      snap.Warnings,
	}, nil
}

// Options returns every category in display order with its depth, for
// parent pickers.
func (s *Service) Options(ctx context.Context) (_ []*hierarchy.Node, err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Service.Options")
	defer func() { endSpan(span, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := s.snapshot(ctx, span)
	if err != nil {
		return nil, err
	}
	return hierarchy.Flatten(snap.Roots), nil
}

// Children returns the immediate children of parentID, or the roots when
// parentID is nil.
func (s *Service) Children(ctx context.Context, parentID *int64) (_ []*hierarchy.Node, err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Service.Children")
	defer func() { endSpan(span, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := s.snapshot(ctx, span)
	if err != nil {
		return nil, err
	}
	if parentID == nil {
		return snap.Roots, nil
	}
	span.SetAttributes(attribute.Int64("catalog.parent_id", *parentID))
	if hierarchy.Find(snap.Roots, *parentID) == nil {
		return nil, &hierarchy.Rejection{
			Err:    hierarchy.ErrUnknownParent,
			NodeID: *parentID,
			Detail: fmt.Sprintf("category %d does not exist", *parentID),
		}
	}
	children := hierarchy.ChildrenOf(snap.Roots, parentID)
	if children == nil {
		children = []*hierarchy.Node{}
	}
	return children, nil
}

// Create validates and stores a new category.
func (s *Service) Create(ctx context.Context, in CreateInput) (_ *models.Category, err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Service.Create")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	nodes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	next, err := hierarchy.Create(nodes, models.Category{
		Name:         in.Name,
		ParentID:     in.ParentID,
		IsActive:     in.IsActive,
		IsControlled: in.IsControlled,
	})
	if err != nil {
		return nil, err
	}

	c := next[len(next)-1]
	c.ID = 0
	c.Slug = slug.Generate(c.Name)

	defer s.invalidate(ctx)
	created, err := s.store.Create(ctx, &c)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("catalog.category_id", created.ID))
	slog.Info("category created", "id", created.ID, "name", created.Name, "parent_id", created.ParentID)
	return created, nil
}

// Rename changes a category's name and regenerates its slug.
func (s *Service) Rename(ctx context.Context, id int64, name string) (_ *models.Category, err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Service.Rename",
		trace.WithAttributes(attribute.Int64("catalog.category_id", id)))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	nodes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	next, err := hierarchy.Rename(nodes, id, name)
	if err != nil {
		return nil, err
	}

	c := lookup(next, id)
	c.Slug = slug.Generate(c.Name)
	if err := s.commit(ctx, &c); err != nil {
		return nil, err
	}
	slog.Info("category renamed", "id", id, "name", c.Name)
	return s.reload(ctx, c)
}

// Move reparents a category. A nil parentID makes it a root.
func (s *Service) Move(ctx context.Context, id int64, parentID *int64) (_ *models.Category, err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Service.Move",
		trace.WithAttributes(attribute.Int64("catalog.category_id", id)))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	nodes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	next, err := hierarchy.Move(nodes, id, parentID)
	if err != nil {
		return nil, err
	}

	before, c := lookup(nodes, id), lookup(next, id)
	if derefParent(before.ParentID) != derefParent(c.ParentID) {
		order, err := s.store.NextSortOrder(ctx, c.ParentID)
		if err != nil {
			return nil, err
		}
		c.SortOrder = order
	}
	if err := s.commit(ctx, &c); err != nil {
		return nil, err
	}
	slog.Info("category moved", "id", id, "parent_id", c.ParentID)
	return s.reload(ctx, c)
}

// SetActive toggles a category's visibility. Deactivation also returns an
// advisory describing the subtree and products that become hidden.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (_ *models.Category, _ *hierarchy.Advisory, err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Service.SetActive",
		trace.WithAttributes(
			attribute.Int64("catalog.category_id", id),
			attribute.Bool("catalog.active", active),
		))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	nodes, err := s.store.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	next, adv, err := hierarchy.SetActive(nodes, id, active)
	if err != nil {
		return nil, nil, err
	}

	c := lookup(next, id)
	if err := s.commit(ctx, &c); err != nil {
		return nil, nil, err
	}
	if adv != nil {
		span.SetAttributes(attribute.Int("catalog.hidden_categories", len(adv.HiddenCategoryIDs)))
		slog.Info("category deactivated", "id", id,
			"hidden_categories", len(adv.HiddenCategoryIDs),
			"hidden_products", adv.HiddenProductCount)
	} else {
		slog.Info("category activated", "id", id)
	}
	updated, err := s.reload(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return updated, adv, nil
}

// Delete removes a category that has no products and no subcategories.
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Service.Delete",
		trace.WithAttributes(attribute.Int64("catalog.category_id", id)))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	nodes, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	if _, err := hierarchy.Delete(nodes, id); err != nil {
		return err
	}

	defer s.invalidate(ctx)
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("category deleted", "id", id)
	return nil
}

// built is the result of one shared rebuild.
type built struct {
	snap *hierarchy.Snapshot
	hit  bool
}

// snapshot builds the tree from cached topology and fresh product counts,
// or from a full store read on a miss. Callers hold at least the read
// lock. Concurrent reads share one build.
func (s *Service) snapshot(ctx context.Context, span trace.Span) (*hierarchy.Snapshot, error) {
	v, err, shared := s.rebuild.Do("tree", func() (any, error) {
		nodes, hit, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		snap, err := hierarchy.Build(nodes)
		if err != nil {
			return nil, fmt.Errorf("build category tree: %w", err)
		}
		if !hit {
			for _, w := range snap.Warnings {
				slog.Warn("category tree defect", "kind", w.Kind, "node_id", w.NodeID, "detail", w.String())
			}
		}
		return built{snap: snap, hit: hit}, nil
	})
	if err != nil {
		return nil, err
	}
	b := v.(built)
	span.SetAttributes(
		attribute.Bool("catalog.cache_hit", b.hit),
		attribute.Bool("catalog.shared_rebuild", shared),
		attribute.Int("catalog.warnings", len(b.snap.Warnings)),
	)
	return b.snap, nil
}

// load returns the category rows with current product counts. It reports
// whether the topology came from the cache.
func (s *Service) load(ctx context.Context) ([]models.Category, bool, error) {
	if s.cache != nil && !s.dirty.Load() {
		if rows, ok := s.cache.Get(ctx); ok {
			counts, err := s.store.ProductCounts(ctx)
			if err != nil {
				return nil, true, err
			}
			for i := range rows {
				pc := counts[rows[i].ID]
				rows[i].DirectProductCount = pc.Total
				rows[i].DirectPublishedProductCount = pc.Published
			}
			return rows, true, nil
		}
	}

	nodes, err := s.store.List(ctx)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, nodes); err != nil {
			slog.Warn("category cache set failed", "error", err)
		} else {
			s.dirty.Store(false)
		}
	}
	return nodes, false, nil
}

// commit writes an accepted change and drops the cached tree.
func (s *Service) commit(ctx context.Context, c *models.Category) error {
	defer s.invalidate(ctx)
	return s.store.Update(ctx, c)
}

// invalidate drops the cached topology. On failure the cache is bypassed
// until it is known to be fresh again.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.dirty.Store(true)
		slog.Warn("category cache invalidation failed, reading from store until refreshed", "error", err)
		return
	}
	s.dirty.Store(false)
}

// reload re-reads a committed category so timestamps are current, keeping
// the product counts from the list it was validated against.
func (s *Service) reload(ctx context.Context, c models.Category) (*models.Category, error) {
	fresh, err := s.store.FindByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, fmt.Errorf("reload category %d: vanished after commit", c.ID)
	}
	fresh.DirectProductCount = c.DirectProductCount
	fresh.DirectPublishedProductCount = c.DirectPublishedProductCount
	return fresh, nil
}

// lookup returns a copy of category id. The validator has already checked
// it exists.
func lookup(nodes []models.Category, id int64) models.Category {
	for _, c := range nodes {
		if c.ID == id {
			return c
		}
	}
	return models.Category{}
}

func derefParent(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

// endSpan records the outcome of an operation. Rejections are tagged with
// their kind so refused mutations can be told apart from failures.
func endSpan(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	var rej *hierarchy.Rejection
	if errors.As(err, &rej) {
		span.SetAttributes(attribute.String("catalog.rejection", rej.Kind()))
		span.SetStatus(codes.Error, "rejected")
		return
	}
	span.SetStatus(codes.Error, err.Error())
}
