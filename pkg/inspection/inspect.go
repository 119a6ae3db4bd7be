package inspection

import (
	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

// Observation is the result of inspecting one consignment (spec.md §3
// RunRecord's inspection-related fields, §4.3 "Observation").
type Observation struct {
	SampleSize int
	Indices    []int // item indices actually examined, regardless of cfg.Unit

	Detected bool

	ItemsInspectedToDetection  int
	ItemsInspectedToCompletion int
	BoxesOpenedToDetection     int
	BoxesOpenedToCompletion    int

	MissedContaminantsToCompletion      int
	InterceptedContaminantsToCompletion int

	AnyContaminantPresent bool
}

// Inspect implements the inspection engine (spec.md §4.3): computes sample
// size, selects units, then runs two parallel examination passes
// ("to detection" and "to completion") with independent effectiveness
// draws — the spec permits sharing draws between the two passes but
// requires the choice to be documented; this implementation draws them
// independently (see DESIGN.md).
func Inspect(c *consignment.Consignment, cfg config.InspectionConfig, r *rng.RNG) Observation {
	obs := Observation{AnyContaminantPresent: c.HasContamination()}

	if c.ItemCount() == 0 {
		return obs
	}

	totalUnits := c.ItemCount()
	if cfg.Unit == "box" {
		totalUnits = c.Boxes
	}
	s := sampleSize(cfg, totalUnits)
	if cfg.Unit == "item" {
		maxByProportion := roundHalfAwayFromZero(cfg.WithinBoxProportion * float64(c.ItemsPerBox) * float64(c.Boxes))
		if s > maxByProportion {
			s = maxByProportion
		}
	}
	obs.SampleSize = s

	sel := selectUnits(cfg, c, s, r)
	obs.Indices = sel.items

	examineToDetection(c, sel.items, cfg.Effectiveness, r, &obs)
	examineToCompletion(c, sel.items, cfg.Effectiveness, r, &obs)

	return obs
}

// examineToDetection iterates selected items in order, stopping at the
// first contaminated item that passes an effectiveness draw (§4.3).
func examineToDetection(c *consignment.Consignment, items []int, effectiveness float64, r *rng.RNG, obs *Observation) {
	touchedBoxes := make(map[int]bool)
	for pos, idx := range items {
		touchedBoxes[c.BoxOf(idx)] = true
		if c.ItemContaminated.Test(uint(idx)) && r.Bernoulli(effectiveness) {
			obs.Detected = true
			obs.ItemsInspectedToDetection = pos + 1
			obs.BoxesOpenedToDetection = len(touchedBoxes)
			return
		}
	}
	obs.ItemsInspectedToDetection = len(items)
	obs.BoxesOpenedToDetection = len(touchedBoxes)
}

// examineToCompletion marks every selected item inspected and tallies
// intercepted/missed contaminants across the full sample (§4.3).
func examineToCompletion(c *consignment.Consignment, items []int, effectiveness float64, r *rng.RNG, obs *Observation) {
	touchedBoxes := make(map[int]bool)
	for _, idx := range items {
		c.ItemInspected.Set(uint(idx))
		touchedBoxes[c.BoxOf(idx)] = true
		if c.ItemContaminated.Test(uint(idx)) {
			if r.Bernoulli(effectiveness) {
				obs.InterceptedContaminantsToCompletion++
			} else {
				obs.MissedContaminantsToCompletion++
			}
		}
	}
	obs.ItemsInspectedToCompletion = len(items)
	obs.BoxesOpenedToCompletion = len(touchedBoxes)
}
