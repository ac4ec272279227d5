// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"math/rand"

	"storefront/internal/models"
)

func ptr(id int64) *int64 { return &id }

func cat(id int64, name string, parent *int64) models.Category {
	return models.Category{ID: id, Name: name, ParentID: parent, IsActive: true}
}

// scenarioA is Vehicles > Armor > Glass.
func scenarioA() []models.Category {
	return []models.Category{
		cat(1, "Vehicles", nil),
		cat(2, "Armor", ptr(1)),
		cat(3, "Glass", ptr(2)),
	}
}

// randomCatalog builds a valid three-level catalog with random product
// counts. Parents always precede their children.
func randomCatalog(r *rand.Rand, size int) []models.Category {
	nodes := make([]models.Category, 0, size)
	depth := map[int64]int{}
	for i := 1; i <= size; i++ {
		c := cat(int64(i), randomName(r), nil)
		if len(nodes) > 0 && r.Intn(4) != 0 {
			p := nodes[r.Intn(len(nodes))]
			if depth[p.ID] < MaxDepth {
				c.ParentID = ptr(p.ID)
				depth[c.ID] = depth[p.ID] + 1
			}
		}
		c.DirectProductCount = r.Intn(10)
		c.DirectPublishedProductCount = r.Intn(c.DirectProductCount + 1)
		nodes = append(nodes, c)
	}
	return nodes
}

var nameParts = []string{"Armor", "Glass", "Body", "Plates", "Helmets", "Vehicles", "Kits", "Optics"}

func randomName(r *rand.Rand) string {
	return nameParts[r.Intn(len(nameParts))] + " " + nameParts[r.Intn(len(nameParts))]
}

func ids(nodes []*Node) []int64 {
	out := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}
