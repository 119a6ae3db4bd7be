package contamination

import (
	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

// drawRate draws a contamination rate from cfg.Rate, clamped to [0,1]
// (spec.md §4.2 step 2).
func drawRate(rc config.RateConfig, r *rng.RNG) float64 {
	var rate float64
	switch {
	case rc.Fixed != nil:
		rate = *rc.Fixed
	case rc.Beta != nil:
		rate = r.Beta(rc.Beta.A, rc.Beta.B)
	}
	return clamp01(rate)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func roundHalfAwayFromZero(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}
