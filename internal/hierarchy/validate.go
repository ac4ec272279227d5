// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"storefront/internal/models"
)

// MaxNameLength is the longest category name accepted, in runes.
const MaxNameLength = 100

// Structural rejections. They are always returned wrapped in a *Rejection.
var (
	ErrInvalidName      = errors.New("invalid category name")
	ErrUnknownNode      = errors.New("category not found")
	ErrUnknownParent    = errors.New("parent category not found")
	ErrDepthExceeded    = errors.New("maximum category depth exceeded")
	ErrCyclicParent     = errors.New("category cannot be placed under itself or its descendants")
	ErrHasProducts      = errors.New("category still has products assigned")
	ErrHasSubcategories = errors.New("category still has subcategories")
)

// Rejection is a refused mutation. The node list it was checked against is
// left untouched.
type Rejection struct {
	Err    error
	NodeID int64
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return r.Err.Error()
	}
	return r.Err.Error() + ": " + r.Detail
}

func (r *Rejection) Unwrap() error { return r.Err }

// Kind returns a stable snake_case name for API clients.
func (r *Rejection) Kind() string {
	switch r.Err {
	case ErrInvalidName:
		return "invalid_name"
	case ErrUnknownNode:
		return "unknown_node"
	case ErrUnknownParent:
		return "unknown_parent"
	case ErrDepthExceeded:
		return "depth_exceeded"
	case ErrCyclicParent:
		return "cyclic_parent"
	case ErrHasProducts:
		return "has_products"
	case ErrHasSubcategories:
		return "has_subcategories"
	}
	return "rejected"
}

func reject(err error, id int64, format string, args ...any) *Rejection {
	return &Rejection{Err: err, NodeID: id, Detail: fmt.Sprintf(format, args...)}
}

// Advisory accompanies a deactivation: the category and its whole subtree,
// with all their products, disappear from shopper-facing listings.
type Advisory struct {
	HiddenCategoryIDs           []int64 `json:"hidden_category_ids"`
	HiddenProductCount          int     `json:"hidden_product_count"`
	HiddenPublishedProductCount int     `json:"hidden_published_product_count"`
}

// NormalizeName trims name and checks it is non-empty and within
// MaxNameLength.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", reject(ErrInvalidName, 0, "name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", reject(ErrInvalidName, 0, "name is too long (max %d characters)", MaxNameLength)
	}
	return name, nil
}

// Create checks that c can be added to nodes and returns the list with c
// appended. A zero c.ID is replaced with one past the largest existing id,
// which is what an in-memory store would assign.
func Create(nodes []models.Category, c models.Category) ([]models.Category, error) {
	name, err := NormalizeName(c.Name)
	if err != nil {
		err.(*Rejection).NodeID = c.ID
		return nil, err
	}
	c.Name = name

	if c.ParentID != nil {
		idx, err := indexTree(nodes)
		if err != nil {
			return nil, err
		}
		parent, ok := idx[*c.ParentID]
		if !ok {
			return nil, reject(ErrUnknownParent, c.ID, "parent %d does not exist", *c.ParentID)
		}
		if parent.Depth >= MaxDepth {
			return nil, reject(ErrDepthExceeded, c.ID, "parent %d is already at depth %d", parent.ID, parent.Depth)
		}
		c.ParentID = idPtr(*c.ParentID)
	}

	var maxID int64
	for i := range nodes {
		if nodes[i].ID == c.ID && c.ID != 0 {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, c.ID)
		}
		maxID = max(maxID, nodes[i].ID)
	}
	if c.ID == 0 {
		c.ID = maxID + 1
	}

	out := make([]models.Category, 0, len(nodes)+1)
	out = append(out, nodes...)
	return append(out, c), nil
}

// Move reparents category id under newParentID, or makes it a root when
// newParentID is nil. The whole moved subtree must still fit within
// MaxDepth, so a node carrying two levels of descendants can only become a
// root.
func Move(nodes []models.Category, id int64, newParentID *int64) ([]models.Category, error) {
	idx, err := indexTree(nodes)
	if err != nil {
		return nil, err
	}
	n, ok := idx[id]
	if !ok {
		return nil, reject(ErrUnknownNode, id, "category %d does not exist", id)
	}
	height := Height(n)

	if newParentID == nil {
		if height > MaxDepth {
			return nil, reject(ErrDepthExceeded, id, "subtree is %d levels deep", height+1)
		}
	} else {
		parent, ok := idx[*newParentID]
		if !ok {
			return nil, reject(ErrUnknownParent, id, "parent %d does not exist", *newParentID)
		}
		if parent == n || Find(n.Children, parent.ID) != nil {
			return nil, reject(ErrCyclicParent, id, "%d is %d or one of its descendants", parent.ID, id)
		}
		if parent.Depth+1+height > MaxDepth {
			return nil, reject(ErrDepthExceeded, id,
				"moving under %d (depth %d) would put descendants at depth %d",
				parent.ID, parent.Depth, parent.Depth+1+height)
		}
	}

	out := slices.Clone(nodes)
	i := position(out, id)
	if newParentID == nil {
		out[i].ParentID = nil
	} else {
		out[i].ParentID = idPtr(*newParentID)
	}
	return out, nil
}

// Delete removes category id. Categories that still own products or
// subcategories are refused rather than cascaded; the caller has to
// reassign or remove those first.
func Delete(nodes []models.Category, id int64) ([]models.Category, error) {
	i := position(nodes, id)
	if i < 0 {
		return nil, reject(ErrUnknownNode, id, "category %d does not exist", id)
	}
	if n := nodes[i].DirectProductCount; n > 0 {
		return nil, reject(ErrHasProducts, id, "%d products assigned; reassign or remove them first", n)
	}
	children := 0
	for j := range nodes {
		if j != i && nodes[j].HasParent(id) {
			children++
		}
	}
	if children > 0 {
		return nil, reject(ErrHasSubcategories, id, "%d subcategories; move or delete them first", children)
	}
	return slices.Delete(slices.Clone(nodes), i, i+1), nil
}

// Rename changes the name of category id.
func Rename(nodes []models.Category, id int64, name string) ([]models.Category, error) {
	i := position(nodes, id)
	if i < 0 {
		return nil, reject(ErrUnknownNode, id, "category %d does not exist", id)
	}
	name, err := NormalizeName(name)
	if err != nil {
		err.(*Rejection).NodeID = id
		return nil, err
	}
	out := slices.Clone(nodes)
	out[i].Name = name
	return out, nil
}

// SetActive toggles category id. Both directions are always permitted.
// Deactivating returns an Advisory describing everything that becomes
// hidden; activating returns a nil Advisory.
func SetActive(nodes []models.Category, id int64, active bool) ([]models.Category, *Advisory, error) {
	i := position(nodes, id)
	if i < 0 {
		return nil, nil, reject(ErrUnknownNode, id, "category %d does not exist", id)
	}

	var adv *Advisory
	if !active {
		snap, err := Build(nodes)
		if err != nil {
			return nil, nil, err
		}
		n := Find(snap.Roots, id)
		adv = &Advisory{
			HiddenCategoryIDs:           append([]int64{id}, Descendants(n)...),
			HiddenProductCount:          n.TotalProductCount,
			HiddenPublishedProductCount: n.TotalPublishedProductCount,
		}
	}

	out := slices.Clone(nodes)
	out[i].IsActive = active
	return out, adv, nil
}

// indexTree builds the forest and indexes every node by id.
func indexTree(nodes []models.Category) (map[int64]*Node, error) {
	roots, _, err := BuildTree(nodes)
	if err != nil {
		return nil, err
	}
	idx := make(map[int64]*Node, len(nodes))
	for _, n := range Flatten(roots) {
		idx[n.ID] = n
	}
	return idx, nil
}

func position(nodes []models.Category, id int64) int {
	return slices.IndexFunc(nodes, func(c models.Category) bool { return c.ID == id })
}
