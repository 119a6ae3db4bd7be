package inspection

import (
	"math"

	"github.com/inspectsim/inspectsim/pkg/config"
)

// sampleSize computes s, the number of units (items or boxes, per
// cfg.Unit) to inspect, from cfg.SampleStrategy (spec.md §4.3). totalUnits
// is the total number of items or boxes, matching cfg.Unit.
func sampleSize(cfg config.InspectionConfig, totalUnits int) int {
	var s int
	switch cfg.SampleStrategy.Type {
	case "all":
		s = totalUnits
	case "proportion":
		s = roundHalfAwayFromZero(cfg.SampleStrategy.Proportion * float64(totalUnits))
	case "fixed_n":
		s = cfg.SampleStrategy.FixedN
		if cfg.Unit == "item" {
			if s > totalUnits {
				s = totalUnits
			}
		} else {
			if s < cfg.MinBoxes {
				s = cfg.MinBoxes
			}
			if s > totalUnits {
				s = totalUnits
			}
		}
	case "hypergeometric":
		s = fosgateSampleSize(totalUnits, cfg.SampleStrategy.Hypergeometric.DetectionLevel, cfg.SampleStrategy.Hypergeometric.ConfidenceLevel)
	}
	if s < 0 {
		s = 0
	}
	if s > totalUnits {
		s = totalUnits
	}
	return s
}

// fosgateSampleSize implements the Fosgate (2009) hypergeometric sample
// size formula (spec.md §4.3):
//
//	s = ceil( (1 - alpha^(1/K)) * (N - (K-1)/2) ), clamped to [0,N]
//
// where alpha = 1-C, N = totalUnits, K = round(D*N). K=0 must produce s=0.
func fosgateSampleSize(N int, detectionLevel, confidenceLevel float64) int {
	if N <= 0 {
		return 0
	}
	K := roundHalfAwayFromZero(detectionLevel * float64(N))
	if K <= 0 {
		return 0
	}
	alpha := 1 - confidenceLevel
	s := (1 - math.Pow(alpha, 1/float64(K))) * (float64(N) - (float64(K)-1)/2)
	result := int(math.Ceil(s))
	if result < 0 {
		result = 0
	}
	if result > N {
		result = N
	}
	return result
}

func roundHalfAwayFromZero(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}
