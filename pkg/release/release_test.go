package release_test

import (
	"testing"
	"time"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/release"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

func testHash() []byte { return []byte("release-test") }

func newDynamicCfg(levels []float64, clearance, start int, quickRestating bool) config.ReleaseProgramConfig {
	cfg := config.ReleaseProgramConfig{Name: "skiplot", Type: "dynamic_skip_lot"}
	cfg.DynamicSkipLot.Levels = levels
	cfg.DynamicSkipLot.ClearanceNumber = clearance
	cfg.DynamicSkipLot.StartLevel = start
	cfg.DynamicSkipLot.QuickRestating = quickRestating
	cfg.DynamicSkipLot.TrackedAttributes = []string{"commodity"}
	return cfg
}

// Scenario 6 from spec.md §8: levels=[1.0,0.5,0.25], clearance_number=10,
// start=1: feeding 10 passing consignments promotes to level 2; a failing
// consignment at level 2 returns to level 1.
func TestDynamicSkipLot_Scenario6(t *testing.T) {
	cfg := newDynamicCfg([]float64{1.0, 0.5, 0.25}, 10, 1, false)
	programs, err := release.Build([]config.ReleaseProgramConfig{cfg})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	p := programs[0]
	states := release.StateStore{}
	r := rng.NewRNG(1, "release", testHash())
	c := consignment.New("c1", 5, 10, "citrus", "mx", "laredo", "land", time.Now())

	for i := 0; i < 10; i++ {
		d := p.Evaluate(c, states, r)
		if !d.Inspect {
			t.Fatalf("expected inspect at level-1 sampling_fraction=1.0, iteration %d", i)
		}
		p.Apply(c, states, true)
	}
	key := "commodity=citrus;"
	if states[key].LevelIndex != 1 {
		t.Fatalf("LevelIndex = %d, want 1 (level 2) after 10 passes", states[key].LevelIndex)
	}

	p.Apply(c, states, false)
	if states[key].LevelIndex != 0 {
		t.Fatalf("LevelIndex = %d, want 0 (level 1) after a fail", states[key].LevelIndex)
	}
}

// Dynamic skip-lot monotonicity property (spec.md §8): starting from
// start_level=1 with a group that always passes inspection, after exactly
// clearance_number*(L-1) inspected consignments the group's level is L;
// after one FAIL at level L with quick_restating=true, the group's level is
// L-1.
func TestDynamicSkipLot_Monotonicity(t *testing.T) {
	levels := []float64{1.0, 0.8, 0.6, 0.4}
	L := len(levels)
	clearance := 5
	cfg := newDynamicCfg(levels, clearance, 1, true)
	programs, err := release.Build([]config.ReleaseProgramConfig{cfg})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	p := programs[0]
	states := release.StateStore{}
	c := consignment.New("c1", 5, 10, "mango", "br", "miami", "sea", time.Now())

	for i := 0; i < clearance*(L-1); i++ {
		p.Apply(c, states, true)
	}
	key := "commodity=mango;"
	if states[key].LevelIndex != L-1 {
		t.Fatalf("LevelIndex = %d, want %d after %d passes", states[key].LevelIndex, L-1, clearance*(L-1))
	}

	p.Apply(c, states, false)
	if states[key].LevelIndex != L-2 {
		t.Fatalf("LevelIndex = %d, want %d (L-1, 0-based) after one fail with quick_restating", states[key].LevelIndex, L-2)
	}
}

func TestNaiveCFRP_ReleaseCoverage(t *testing.T) {
	cfg := config.ReleaseProgramConfig{Name: "cfrp", Type: "naive_cfrp"}
	cfg.NaiveCFRP.Flowers = []string{"rose", "tulip", "lily"}
	cfg.NaiveCFRP.MaxBoxes = 0 // unbounded
	programs, err := release.Build([]config.ReleaseProgramConfig{cfg})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	p := programs[0]
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) // YearDay=1, flower=tulip (index 1%3)
	states := release.StateStore{}
	r := rng.NewRNG(1, "release", testHash())

	inspectedCount := 0
	for _, flower := range cfg.NaiveCFRP.Flowers {
		c := consignment.New("c", 2, 10, flower, "nl", "miami", "air", date)
		d := p.Evaluate(c, states, r)
		if d.Inspect {
			inspectedCount++
		}
	}
	if inspectedCount != 1 {
		t.Fatalf("inspectedCount = %d, want exactly 1 (the flower of the day)", inspectedCount)
	}
}

func TestFixedSkipLot_DefaultLevel(t *testing.T) {
	cfg := config.ReleaseProgramConfig{Name: "fsl", Type: "fixed_skip_lot"}
	cfg.FixedSkipLot.DefaultLevel = "low"
	cfg.FixedSkipLot.Levels = []struct {
		Name             string  `yaml:"name"`
		SamplingFraction float64 `yaml:"sampling_fraction"`
	}{
		{Name: "low", SamplingFraction: 1.0},
		{Name: "high", SamplingFraction: 0.1},
	}
	programs, err := release.Build([]config.ReleaseProgramConfig{cfg})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	p := programs[0]
	r := rng.NewRNG(1, "release", testHash())
	c := consignment.New("c", 2, 10, "tomato", "mx", "nogales", "land", time.Now())
	d := p.Evaluate(c, release.StateStore{}, r)
	if !d.Inspect {
		t.Fatal("expected inspect with sampling_fraction=1.0 default level")
	}
}
