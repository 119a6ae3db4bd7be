package release

import (
	"fmt"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

// dynamicSkipLot implements the dynamic skip-lot state machine (spec.md
// §4.4): per group, a compliance level governs the inspection sampling
// fraction; consecutive passing inspections promote the group to a less
// frequently inspected level, and any failure demotes it (with optional
// quick restating for groups that have reached the top level before).
type dynamicSkipLot struct {
	name              string
	trackedAttributes []string

	levels          []float64 // sampling_fraction per level, index 0 = level 1
	startLevelIndex int

	clearanceNumber int

	quickRestating           bool
	restateLevelIndex        int
	quickRestateClearanceNum int
}

func newDynamicSkipLot(cfg config.ReleaseProgramConfig) (Program, error) {
	d := cfg.DynamicSkipLot
	if len(d.Levels) == 0 {
		return nil, fmt.Errorf("dynamic_skip_lot: levels must be non-empty")
	}
	startLevel := d.StartLevel
	if startLevel == 0 {
		startLevel = 1
	}
	if startLevel < 1 || startLevel > len(d.Levels) {
		return nil, fmt.Errorf("dynamic_skip_lot: start_level %d out of range [1,%d]", startLevel, len(d.Levels))
	}

	restateLevel := d.RestateLevel
	if restateLevel == 0 {
		restateLevel = len(d.Levels) - 1 // L-1, 1-based
	}

	quickRestateClearance := d.QuickRestateClearanceNum
	if quickRestateClearance == 0 {
		quickRestateClearance = d.ClearanceNumber
	}

	return &dynamicSkipLot{
		name:                     cfg.Name,
		trackedAttributes:        d.TrackedAttributes,
		levels:                   d.Levels,
		startLevelIndex:          startLevel - 1,
		clearanceNumber:          d.ClearanceNumber,
		quickRestating:           d.QuickRestating,
		restateLevelIndex:        restateLevel - 1,
		quickRestateClearanceNum: quickRestateClearance,
	}, nil
}

func (p *dynamicSkipLot) Name() string { return p.name }

func (p *dynamicSkipLot) topLevelIndex() int { return len(p.levels) - 1 }

func (p *dynamicSkipLot) stateFor(states StateStore, key string) *GroupState {
	st, ok := states[key]
	if !ok {
		st = &GroupState{LevelIndex: p.startLevelIndex}
		states[key] = st
	}
	return st
}

func (p *dynamicSkipLot) Evaluate(c *consignment.Consignment, states StateStore, r *rng.RNG) Decision {
	key := groupKey(c, p.trackedAttributes)
	st := p.stateFor(states, key)

	fraction := p.levels[st.LevelIndex]
	if !r.Bernoulli(fraction) {
		// Released consignments do not advance consecutive_successes.
		return Decision{Inspect: false, ProgramName: p.name}
	}
	return Decision{Inspect: true, ProgramName: p.name}
}

// Apply folds the inspection result back into the group's state, applying
// the promote/fail transitions (spec.md §4.4). Only called when Evaluate
// decided to inspect.
func (p *dynamicSkipLot) Apply(c *consignment.Consignment, states StateStore, inspectionPassed bool) {
	key := groupKey(c, p.trackedAttributes)
	st := p.stateFor(states, key)

	if inspectionPassed {
		clearance := p.clearanceNumber
		if st.QuickRestated {
			clearance = p.quickRestateClearanceNum
		}
		st.ConsecutiveSuccesses++
		if st.ConsecutiveSuccesses >= clearance && st.LevelIndex < p.topLevelIndex() {
			st.LevelIndex++
			st.ConsecutiveSuccesses = 0
			if st.LevelIndex == p.topLevelIndex() {
				st.HasEverReachedTop = true
				st.QuickRestated = false
			}
		}
		return
	}

	// fail
	if p.quickRestating && st.HasEverReachedTop && st.LevelIndex > p.restateLevelIndex {
		st.LevelIndex = p.restateLevelIndex
		st.QuickRestated = true
	} else {
		st.LevelIndex = p.startLevelIndex
		st.QuickRestated = false
	}
	st.ConsecutiveSuccesses = 0
}
