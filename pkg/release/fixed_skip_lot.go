package release

import (
	"fmt"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

type skipLotLevel struct {
	name             string
	samplingFraction float64
}

type groupLevelRule struct {
	attributes map[string]string
	level      skipLotLevel
}

// fixedSkipLot implements the fixed skip-lot program (spec.md §4.4): each
// consignment is matched against the group_levels entries (attribute/value
// maps, first match wins, default_level otherwise) and inspected with
// probability equal to that level's sampling_fraction. tracked_attributes
// is stored but not consulted by the lookup.
type fixedSkipLot struct {
	name              string
	trackedAttributes []string
	groupLevels       []groupLevelRule
	defaultLevel      skipLotLevel
}

func newFixedSkipLot(cfg config.ReleaseProgramConfig) (Program, error) {
	levels := make(map[string]skipLotLevel, len(cfg.FixedSkipLot.Levels))
	for _, l := range cfg.FixedSkipLot.Levels {
		levels[l.Name] = skipLotLevel{name: l.Name, samplingFraction: l.SamplingFraction}
	}
	def, ok := levels[cfg.FixedSkipLot.DefaultLevel]
	if !ok {
		return nil, fmt.Errorf("fixed_skip_lot: default_level %q not found in levels", cfg.FixedSkipLot.DefaultLevel)
	}

	rules := make([]groupLevelRule, 0, len(cfg.FixedSkipLot.GroupLevels))
	for i, gl := range cfg.FixedSkipLot.GroupLevels {
		level, ok := levels[gl.Level]
		if !ok {
			return nil, fmt.Errorf("fixed_skip_lot: group_levels[%d] references unknown level %q", i, gl.Level)
		}
		rules = append(rules, groupLevelRule{attributes: gl.Attributes, level: level})
	}

	return &fixedSkipLot{
		name:              cfg.Name,
		trackedAttributes: cfg.FixedSkipLot.TrackedAttributes,
		groupLevels:       rules,
		defaultLevel:      def,
	}, nil
}

func (p *fixedSkipLot) Name() string { return p.name }

func (p *fixedSkipLot) Evaluate(c *consignment.Consignment, _ StateStore, r *rng.RNG) Decision {
	level := p.defaultLevel
	for _, rule := range p.groupLevels {
		if groupRuleMatches(c, rule.attributes) {
			level = rule.level
			break
		}
	}
	inspect := r.Bernoulli(level.samplingFraction)
	return Decision{Inspect: inspect, ProgramName: p.name}
}

func groupRuleMatches(c *consignment.Consignment, attributes map[string]string) bool {
	for attr, want := range attributes {
		if attrValue(c, attr) != want {
			return false
		}
	}
	return true
}

func (p *fixedSkipLot) Apply(*consignment.Consignment, StateStore, bool) {}
