package inspection

import (
	"sort"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

// selection is the set of item indices chosen for inspection, plus the
// distinct boxes those items touch (for boxes_opened accounting).
type selection struct {
	items []int
	boxes []int
}

// selectUnits implements §4.3 "Selection": computes which units (items or
// boxes) are inspected, enforcing within_box_proportion and min_boxes for
// unit=item.
func selectUnits(cfg config.InspectionConfig, c *consignment.Consignment, s int, r *rng.RNG) selection {
	if cfg.Unit == "box" {
		return selectBoxUnit(cfg, c, s, r)
	}
	return selectItemUnit(cfg, c, s, r)
}

func boxCapacity(cfg config.InspectionConfig, c *consignment.Consignment) int {
	cap := roundHalfAwayFromZero(cfg.WithinBoxProportion * float64(c.ItemsPerBox))
	if cap < 1 {
		cap = 1
	}
	if cap > c.ItemsPerBox {
		cap = c.ItemsPerBox
	}
	return cap
}

func selectBoxUnit(cfg config.InspectionConfig, c *consignment.Consignment, s int, r *rng.RNG) selection {
	if c.Boxes == 0 || s <= 0 {
		return selection{}
	}
	cap := boxCapacity(cfg, c)

	var boxIdx []int
	switch cfg.SelectionStrategy.Type {
	case "convenience":
		for b := 0; b < s && b < c.Boxes; b++ {
			boxIdx = append(boxIdx, b)
		}
	default: // "random" (cluster is invalid for unit=box, rejected at config validation)
		boxIdx = r.ChoiceWithoutReplacement(c.Boxes, minInt(s, c.Boxes))
	}

	items := make([]int, 0, len(boxIdx)*cap)
	for _, b := range boxIdx {
		start, end := c.BoxRange(b)
		limit := start + cap
		if limit > end {
			limit = end
		}
		for i := start; i < limit; i++ {
			items = append(items, i)
		}
	}
	sort.Ints(boxIdx)
	return selection{items: items, boxes: boxIdx}
}

func selectItemUnit(cfg config.InspectionConfig, c *consignment.Consignment, s int, r *rng.RNG) selection {
	n := c.ItemCount()
	if n == 0 || s <= 0 {
		return selection{}
	}
	if s > n {
		s = n
	}

	var sel selection
	switch cfg.SelectionStrategy.Type {
	case "convenience":
		sel = selectItemConvenience(cfg, c, s)
	case "cluster":
		sel = selectItemCluster(cfg, c, s, r)
	default: // "random"
		idx := r.ChoiceWithoutReplacement(n, s)
		sel.items = idx
	}

	sel.boxes = distinctBoxesSorted(c, sel.items)
	sel = enforceMinBoxes(cfg, c, sel, r)
	return sel
}

// selectItemConvenience picks the first s units in index order, respecting
// within_box_proportion per box (§4.3).
func selectItemConvenience(cfg config.InspectionConfig, c *consignment.Consignment, s int) selection {
	cap := boxCapacity(cfg, c)
	items := make([]int, 0, s)
	for b := 0; b < c.Boxes && len(items) < s; b++ {
		start, end := c.BoxRange(b)
		limit := start + cap
		if limit > end {
			limit = end
		}
		for i := start; i < limit && len(items) < s; i++ {
			items = append(items, i)
		}
	}
	return selection{items: items}
}

// selectItemCluster implements cluster(selection=random|interval) for
// unit=item (§4.3): pick b distinct boxes (uniformly, or at a fixed
// interval with wrap-around), inspecting up to capacity c items per box.
func selectItemCluster(cfg config.InspectionConfig, c *consignment.Consignment, s int, r *rng.RNG) selection {
	cap := boxCapacity(cfg, c)
	b := (s + cap - 1) / cap
	if b > c.Boxes {
		b = c.Boxes
	}

	var boxIdx []int
	switch cfg.SelectionStrategy.Cluster.Selection {
	case "interval":
		interval := cfg.SelectionStrategy.Cluster.Interval
		if interval < 1 {
			interval = 1
		}
		seen := make(map[int]bool, b)
		idx := 0
		for len(boxIdx) < b && len(seen) < c.Boxes {
			bi := idx % c.Boxes
			if !seen[bi] {
				seen[bi] = true
				boxIdx = append(boxIdx, bi)
			}
			idx += interval
		}
	default: // "random"
		boxIdx = r.ChoiceWithoutReplacement(c.Boxes, b)
	}
	sort.Ints(boxIdx)

	items := make([]int, 0, b*cap)
	for _, box := range boxIdx {
		if len(items) >= s {
			break
		}
		start, end := c.BoxRange(box)
		limit := start + cap
		if limit > end {
			limit = end
		}
		for i := start; i < limit && len(items) < s; i++ {
			items = append(items, i)
		}
	}
	return selection{items: items, boxes: boxIdx}
}

// enforceMinBoxes adds items from additional boxes until boxes_opened >=
// min_boxes (§4.3), for unit=item.
func enforceMinBoxes(cfg config.InspectionConfig, c *consignment.Consignment, sel selection, r *rng.RNG) selection {
	if len(sel.boxes) >= cfg.MinBoxes || c.Boxes == 0 {
		return sel
	}
	touched := make(map[int]bool, len(sel.boxes))
	for _, b := range sel.boxes {
		touched[b] = true
	}
	cap := boxCapacity(cfg, c)

	candidates := make([]int, 0, c.Boxes)
	for b := 0; b < c.Boxes; b++ {
		if !touched[b] {
			candidates = append(candidates, b)
		}
	}
	r.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	for _, b := range candidates {
		if len(sel.boxes) >= cfg.MinBoxes {
			break
		}
		start, end := c.BoxRange(b)
		limit := start + cap
		if limit > end {
			limit = end
		}
		for i := start; i < limit; i++ {
			sel.items = append(sel.items, i)
		}
		sel.boxes = append(sel.boxes, b)
		touched[b] = true
	}
	sort.Ints(sel.boxes)
	return sel
}

func distinctBoxesSorted(c *consignment.Consignment, items []int) []int {
	seen := make(map[int]bool)
	var boxes []int
	for _, i := range items {
		b := c.BoxOf(i)
		if !seen[b] {
			seen[b] = true
			boxes = append(boxes, b)
		}
	}
	sort.Ints(boxes)
	return boxes
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
