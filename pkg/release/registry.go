package release

import (
	"fmt"
	"sync"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

// Decision is the outcome of evaluating one release program against one
// consignment.
type Decision struct {
	Inspect     bool
	ProgramName string
}

// GroupState is the dynamic-skip-lot per-group state machine state
// (spec.md §3 ReleaseProgramState). Process-scoped: owned by the
// orchestrator for one stochastic iteration, reset between iterations.
type GroupState struct {
	LevelIndex           int // 0-based; level 1 in the spec is index 0
	ConsecutiveSuccesses int
	HasEverReachedTop    bool
	QuickRestated        bool // true while promoting back up after a quick-restate
}

// StateStore holds one GroupState per dynamic-skip-lot group key, owned
// exclusively by the orchestrator for the current iteration (spec.md §5, §9
// "Ownership of release-program state").
type StateStore map[string]*GroupState

// Program is a release-program evaluator. Apply is called after Evaluate
// when Evaluate decided to inspect, so the program can fold the inspection
// result back into its state (only dynamic skip-lot uses this).
type Program interface {
	Name() string
	Evaluate(c *consignment.Consignment, states StateStore, r *rng.RNG) Decision
	Apply(c *consignment.Consignment, states StateStore, inspectionPassed bool)
}

// Factory builds a Program from its configuration.
type Factory func(cfg config.ReleaseProgramConfig) (Program, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"naive_cfrp":       func(cfg config.ReleaseProgramConfig) (Program, error) { return newNaiveCFRP(cfg) },
		"scheduled_cfrp":   func(cfg config.ReleaseProgramConfig) (Program, error) { return newScheduledCFRP(cfg) },
		"fixed_skip_lot":   func(cfg config.ReleaseProgramConfig) (Program, error) { return newFixedSkipLot(cfg) },
		"dynamic_skip_lot": func(cfg config.ReleaseProgramConfig) (Program, error) { return newDynamicSkipLot(cfg) },
	}
)

// Register adds or replaces the factory for a program type. Exposed so
// callers (and tests) can register additional program types without
// modifying this package.
func Register(programType string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[programType] = factory
}

// Get returns the registered factory for a program type.
func Get(programType string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[programType]
	return f, ok
}

// Build constructs every configured release program in order.
func Build(cfgs []config.ReleaseProgramConfig) ([]Program, error) {
	programs := make([]Program, 0, len(cfgs))
	for i, cfg := range cfgs {
		factory, ok := Get(cfg.Type)
		if !ok {
			return nil, fmt.Errorf("release: unknown program type %q at index %d", cfg.Type, i)
		}
		p, err := factory(cfg)
		if err != nil {
			return nil, fmt.Errorf("release: building program %d (%s): %w", i, cfg.Type, err)
		}
		programs = append(programs, p)
	}
	return programs, nil
}

// groupKey joins the consignment's values for the tracked attributes into a
// single string, used by dynamic skip-lot to bucket consignments.
func groupKey(c *consignment.Consignment, trackedAttributes []string) string {
	key := ""
	for _, attr := range trackedAttributes {
		key += attr + "=" + attrValue(c, attr) + ";"
	}
	return key
}

func attrValue(c *consignment.Consignment, attr string) string {
	switch attr {
	case "commodity":
		return c.Commodity
	case "origin":
		return c.Origin
	case "port":
		return c.Port
	case "pathway":
		return c.Pathway
	default:
		return ""
	}
}
