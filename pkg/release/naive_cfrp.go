package release

import (
	"fmt"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

// naiveCFRP implements the naive Cut-Flower Release Program (spec.md §4.4):
// the "flower of the day" is picked deterministically from the configured
// list as a function of the date; consignments in that list are released
// unless they carry the day's chosen commodity or have max_boxes or more
// boxes.
type naiveCFRP struct {
	name     string
	flowers  []string
	maxBoxes int
}

func newNaiveCFRP(cfg config.ReleaseProgramConfig) (Program, error) {
	if len(cfg.NaiveCFRP.Flowers) == 0 {
		return nil, fmt.Errorf("naive_cfrp: flowers list must be non-empty")
	}
	maxBoxes := cfg.NaiveCFRP.MaxBoxes
	if maxBoxes == 0 {
		maxBoxes = int(^uint(0) >> 1) // unbounded
	}
	return &naiveCFRP{name: cfg.Name, flowers: cfg.NaiveCFRP.Flowers, maxBoxes: maxBoxes}, nil
}

func (p *naiveCFRP) Name() string { return p.name }

func (p *naiveCFRP) flowerOfTheDay(ordinalDate int) string {
	return p.flowers[ordinalDate%len(p.flowers)]
}

func (p *naiveCFRP) Evaluate(c *consignment.Consignment, _ StateStore, _ *rng.RNG) Decision {
	inList := false
	for _, f := range p.flowers {
		if f == c.Commodity {
			inList = true
			break
		}
	}
	if !inList {
		return Decision{Inspect: true, ProgramName: p.name}
	}

	today := p.flowerOfTheDay(c.Date.YearDay())
	if c.Commodity == today {
		return Decision{Inspect: true, ProgramName: p.name}
	}
	if c.Boxes < p.maxBoxes {
		return Decision{Inspect: false, ProgramName: p.name}
	}
	return Decision{Inspect: true, ProgramName: p.name}
}

func (p *naiveCFRP) Apply(*consignment.Consignment, StateStore, bool) {}
