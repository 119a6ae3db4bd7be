package contamination

import (
	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

// Result reports what the contamination engine actually did to a
// consignment, for invariant checking (I1) and diagnostics.
type Result struct {
	Matched             bool
	TargetCount         int
	ContaminatedCount   int
	Rate                float64
	Warnings            []string
}

// Contaminate mutates c.ItemContaminated in place per the resolved
// ContaminationConfig (spec.md §4.2). If no rule matches (and a rule list
// is configured), c is left uncontaminated and Result.Matched is false.
func Contaminate(c *consignment.Consignment, top config.ContaminationTopConfig, r *rng.RNG) Result {
	cfg, matched := resolve(c, top)
	if !matched {
		return Result{Matched: false}
	}

	n := c.ItemCount()
	if n == 0 {
		return Result{Matched: true}
	}

	rate := drawRate(cfg.Rate, r)

	if cfg.Unit == "box" {
		return contaminateByBox(c, cfg, rate)
	}
	return contaminateByItem(c, cfg, rate, r)
}

func contaminateByBox(c *consignment.Consignment, cfg config.ContaminationConfig, rate float64) Result {
	targetBoxesReal := rate * float64(c.Boxes)
	fullBoxes := int(targetBoxesReal)
	residualItems := roundHalfAwayFromZero((targetBoxesReal - float64(fullBoxes)) * float64(c.ItemsPerBox))

	placed := 0
	for b := 0; b < fullBoxes && b < c.Boxes; b++ {
		start, end := c.BoxRange(b)
		for i := start; i < end; i++ {
			c.ItemContaminated.Set(uint(i))
			placed++
		}
	}
	if residualItems > 0 && fullBoxes < c.Boxes {
		start, end := c.BoxRange(fullBoxes)
		limit := start + residualItems
		if limit > end {
			limit = end
		}
		for i := start; i < limit; i++ {
			c.ItemContaminated.Set(uint(i))
			placed++
		}
	}

	return Result{
		Matched:           true,
		TargetCount:       fullBoxes*c.ItemsPerBox + residualItems,
		ContaminatedCount: placed,
		Rate:              rate,
	}
}

func contaminateByItem(c *consignment.Consignment, cfg config.ContaminationConfig, rate float64, r *rng.RNG) Result {
	n := c.ItemCount()
	target := roundHalfAwayFromZero(rate * float64(n))

	var placed int
	var warn string
	switch cfg.Arrangement.Type {
	case "random":
		placed, warn = arrangeRandom(c, target, r)
	case "clustered_single":
		placed, warn = arrangeClusteredSingle(c, target, cfg.Arrangement.ClusteredSingle.Value, r)
	case "clustered_multi":
		m := cfg.Arrangement.ClusteredMulti
		placed, warn = arrangeClusteredMulti(c, target, m.UnitsPerCluster, m.Distribution, m.ClusterItemWidth, r)
	case "random_box":
		placed = arrangeRandomBox(c, cfg.Arrangement, cfg.Rate, r)
		target = placed
	default:
		placed, warn = arrangeRandom(c, target, r)
	}

	res := Result{
		Matched:           true,
		TargetCount:       target,
		ContaminatedCount: placed,
		Rate:              rate,
	}
	if warn != "" {
		res.Warnings = append(res.Warnings, warn)
	}
	return res
}
