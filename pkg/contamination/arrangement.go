package contamination

import (
	"fmt"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

// arrangeRandom chooses target distinct item indices uniformly from [0,N)
// (spec.md §4.2 arrangement "random"). target larger than N is clamped to N
// with a warning (an edge case the spec explicitly calls recoverable).
func arrangeRandom(c *consignment.Consignment, target int, r *rng.RNG) (int, string) {
	n := c.ItemCount()
	warn := ""
	if target > n {
		warn = fmt.Sprintf("contamination: target %d exceeds item count %d, clamped", target, n)
		target = n
	}
	if target <= 0 {
		return 0, warn
	}
	for _, idx := range r.ChoiceWithoutReplacement(n, target) {
		c.ItemContaminated.Set(uint(idx))
	}
	return target, warn
}

// arrangeClusteredSingle implements "clustered-single(value v)" (spec.md
// §4.2). v=0 is treated as equivalent to random arrangement, per the
// open-question resolution recorded in DESIGN.md.
func arrangeClusteredSingle(c *consignment.Consignment, target int, value float64, r *rng.RNG) (int, string) {
	if value == 0 {
		return arrangeRandom(c, target, r)
	}
	n := c.ItemCount()
	warn := ""
	if target > n {
		warn = fmt.Sprintf("contamination: target %d exceeds item count %d, clamped", target, n)
		target = n
	}
	if target <= 0 || n == 0 {
		return 0, warn
	}

	s := roundHalfAwayFromZero(float64(n) / (1 + value))
	if s < target {
		s = target
	}
	if s > n {
		s = n
	}

	s0 := r.Intn(n)
	windowSlots := r.ChoiceWithoutReplacement(s, target)
	for _, slot := range windowSlots {
		idx := (s0 + slot) % n
		c.ItemContaminated.Set(uint(idx))
	}
	return target, warn
}

// arrangeClusteredMulti implements "clustered-multi" (spec.md §4.2): target
// items are split into clusters of size <= unitsPerCluster, each cluster
// confined to a non-overlapping stratum of the item index space.
func arrangeClusteredMulti(c *consignment.Consignment, target, unitsPerCluster int, distribution string, width int, r *rng.RNG) (int, string) {
	n := c.ItemCount()
	warn := ""
	if target > n {
		warn = fmt.Sprintf("contamination: target %d exceeds item count %d, clamped", target, n)
		target = n
	}
	if target <= 0 || n == 0 || unitsPerCluster <= 0 {
		return 0, warn
	}

	numClusters := (target + unitsPerCluster - 1) / unitsPerCluster
	numStrata := n / width
	if numStrata <= 0 {
		numStrata = 1
		width = n
	}
	if numClusters > numStrata {
		numClusters = numStrata
		if warn == "" {
			warn = fmt.Sprintf("contamination: clamped to %d clusters (only %d strata of width %d available)", numClusters, numStrata, width)
		}
	}
	if numClusters <= 0 {
		return 0, warn
	}

	strataIdx := r.ChoiceWithoutReplacement(numStrata, numClusters)
	remaining := target
	placed := 0
	for _, si := range strataIdx {
		if remaining <= 0 {
			break
		}
		clusterSize := unitsPerCluster
		if clusterSize > remaining {
			clusterSize = remaining
		}
		strataStart := si * width

		switch distribution {
		case "continuous":
			end := strataStart + clusterSize
			if end > n {
				end = n
			}
			for i := strataStart; i < end; i++ {
				c.ItemContaminated.Set(uint(i))
				placed++
			}
		default: // "random"
			strataEnd := strataStart + width
			if strataEnd > n {
				strataEnd = n
			}
			strataWidth := strataEnd - strataStart
			if clusterSize > strataWidth {
				clusterSize = strataWidth
			}
			for _, offset := range r.ChoiceWithoutReplacement(strataWidth, clusterSize) {
				c.ItemContaminated.Set(uint(strataStart + offset))
				placed++
			}
		}
		remaining -= clusterSize
	}
	return placed, warn
}

// arrangeRandomBox implements "random_box" (spec.md §4.2): with probability
// p the consignment is contaminated; if so, ceil(ratio*Boxes) boxes are
// selected and each is contaminated per in_box_arrangement. in_box=random
// reuses the rate distribution, interpreted as a within-box rate — the
// documented resolution of the rate/arrangement overload (see DESIGN.md).
func arrangeRandomBox(c *consignment.Consignment, rb config.ArrangementConfig, rateCfg config.RateConfig, r *rng.RNG) int {
	params := rb.RandomBox
	if !r.Bernoulli(params.Probability) {
		return 0
	}
	numBoxes := int(ceilFloat(params.Ratio * float64(c.Boxes)))
	if numBoxes > c.Boxes {
		numBoxes = c.Boxes
	}
	if numBoxes <= 0 {
		return 0
	}

	placed := 0
	for _, b := range r.ChoiceWithoutReplacement(c.Boxes, numBoxes) {
		start, end := c.BoxRange(b)
		k := end - start
		switch params.InBoxArrangement {
		case "all":
			for i := start; i < end; i++ {
				c.ItemContaminated.Set(uint(i))
				placed++
			}
		case "first":
			c.ItemContaminated.Set(uint(start))
			placed++
		case "one_random":
			c.ItemContaminated.Set(uint(start + r.Intn(k)))
			placed++
		case "random":
			withinRate := drawRate(rateCfg, r)
			count := roundHalfAwayFromZero(withinRate * float64(k))
			if count > k {
				count = k
			}
			for _, offset := range r.ChoiceWithoutReplacement(k, count) {
				c.ItemContaminated.Set(uint(start + offset))
				placed++
			}
		}
	}
	return placed
}

func ceilFloat(v float64) float64 {
	i := float64(int(v))
	if v > i {
		return i + 1
	}
	return i
}
