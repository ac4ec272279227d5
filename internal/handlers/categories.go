// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API the storefront admin uses to
// browse and edit the category tree.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/hierarchy"
	"storefront/internal/models"
)

// CategoryService is what the handlers need from the catalog.
// *catalog.Service satisfies it.
type CategoryService interface {
	Tree(ctx context.Context) (*hierarchy.Snapshot, error)
	Search(ctx context.Context, query string) (*catalog.SearchResult, error)
	Options(ctx context.Context) ([]*hierarchy.Node, error)
	Children(ctx context.Context, parentID *int64) ([]*hierarchy.Node, error)
	Create(ctx context.Context, in catalog.CreateInput) (*models.Category, error)
	Rename(ctx context.Context, id int64, name string) (*models.Category, error)
	Move(ctx context.Context, id int64, parentID *int64) (*models.Category, error)
	SetActive(ctx context.Context, id int64, active bool) (*models.Category, *hierarchy.Advisory, error)
	Delete(ctx context.Context, id int64) error
}

// Categories groups the category API handlers.
type Categories struct {
	svc CategoryService
}

// NewCategories creates the category handlers.
func NewCategories(svc CategoryService) *Categories {
	return &Categories{svc: svc}
}

// treeResponse is the body of GET /api/categories.
type treeResponse struct {
	Categories    []*hierarchy.Node   `json:"categories"`
	AutoExpandIDs []int64             `json:"auto_expand_ids"`
	Warnings      []hierarchy.Warning `json:"warnings"`
}

// summary is a single category without its subtree, for pickers.
type summary struct {
	ID                     int64  `json:"id"`
	Name                   string `json:"name"`
	Slug                   string `json:"slug"`
	ParentID               *int64 `json:"parent_id"`
	Depth                  int    `json:"depth"`
	IsActive               bool   `json:"is_active"`
	IsControlled           bool   `json:"is_controlled"`
	TotalProductCount      int    `json:"total_product_count"`
	DirectSubcategoryCount int    `json:"direct_subcategory_count"`
}

func summarize(nodes []*hierarchy.Node) []summary {
	out := make([]summary, len(nodes))
	for i, n := range nodes {
		out[i] = summary{
			ID:                     n.ID,
			Name:                   n.Name,
			Slug:                   n.Slug,
			ParentID:               n.ParentID,
			Depth:                  n.Depth,
			IsActive:               n.IsActive,
			IsControlled:           n.IsControlled,
			TotalProductCount:      n.TotalProductCount,
			DirectSubcategoryCount: n.DirectSubcategoryCount,
		}
	}
	return out
}

// List returns the aggregated tree, filtered by ?q= when given.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := treeResponse{
		Categories:    res.Roots,
		AutoExpandIDs: res.AutoExpandIDs,
		Warnings:      res.Warnings,
	}
	if resp.Categories == nil {
		resp.Categories = []*hierarchy.Node{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []hierarchy.Warning{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Options returns every category flattened in display order.
func (h *Categories) Options(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.svc.Options(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": summarize(nodes)})
}

// Children returns the immediate children of ?parent_id=, or the roots.
func (h *Categories) Children(w http.ResponseWriter, r *http.Request) {
	var parentID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("parent_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeBadRequest(w, "parent_id must be a positive integer")
			return
		}
		parentID = &id
	}

	nodes, err := h.svc.Children(r.Context(), parentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": summarize(nodes)})
}

type createRequest struct {
	Name         string `json:"name"`
	ParentID     *int64 `json:"parent_id"`
	IsActive     *bool  `json:"is_active"`
	IsControlled bool   `json:"is_controlled"`
}

// Create adds a category. New categories are active unless the request
// says otherwise.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	c, err := h.svc.Create(r.Context(), catalog.CreateInput{
		Name:         req.Name,
		ParentID:     req.ParentID,
		IsActive:     active,
		IsControlled: req.IsControlled,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type renameRequest struct {
	Name *string `json:"name"`
}

// Rename changes a category's name.
func (h *Categories) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req renameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Name == nil {
		writeBadRequest(w, "name is required")
		return
	}

	c, err := h.svc.Rename(r.Context(), id, *req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type moveRequest struct {
	// ParentID must be present; an explicit null moves the category to the
	// top level.
	ParentID json.RawMessage `json:"parent_id"`
}

// Move reparents a category.
func (h *Categories) Move(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if len(req.ParentID) == 0 {
		writeBadRequest(w, "parent_id is required (null for a top-level category)")
		return
	}

	var parentID *int64
	if !bytes.Equal(req.ParentID, []byte("null")) {
		var pid int64
		if err := json.Unmarshal(req.ParentID, &pid); err != nil || pid <= 0 {
			writeBadRequest(w, "parent_id must be a positive integer or null")
			return
		}
		parentID = &pid
	}

	c, err := h.svc.Move(r.Context(), id, parentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

type setActiveResponse struct {
	Category *models.Category   `json:"category"`
	Advisory *hierarchy.Advisory `json:"advisory"`
}

// SetActive toggles a category. Deactivation answers with an advisory
// listing what became hidden from shoppers.
func (h *Categories) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req setActiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.IsActive == nil {
		writeBadRequest(w, "is_active is required")
		return
	}

	c, adv, err := h.svc.SetActive(r.Context(), id, *req.IsActive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setActiveResponse{Category: c, Advisory: adv})
}

// Delete removes a category.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
