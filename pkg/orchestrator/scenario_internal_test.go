package orchestrator

import (
	"testing"
	"time"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/release"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

func testHash() []byte { return []byte("orchestrator-test") }

// Concrete scenario 1 from spec.md §8: B=3, K=10, rate=0.1,
// arrangement=random, unit=item, selection=all, effectiveness=1, seed=42 ->
// detected=true, missed_contaminants_to_detection=0. Exercises the real
// evaluateConsignment path (not just pkg/inspection in isolation), since
// that is where RunRecord.MissedContaminantsToDetection is computed.
func TestEvaluateConsignment_Scenario1_NoMissOnDetection(t *testing.T) {
	c := consignment.New("c1", 3, 10, "x", "y", "z", "air", time.Now())
	c.ItemContaminated.Set(0)
	c.ItemContaminated.Set(15)
	c.ItemContaminated.Set(29)

	cfg := &config.Config{
		Inspection: config.InspectionConfig{
			Unit:                "item",
			WithinBoxProportion: 1.0,
			Effectiveness:       1.0,
			SampleStrategy:      config.SampleStrategyConfig{Type: "all"},
			SelectionStrategy:   config.SelectionStrategyConfig{Type: "random"},
		},
	}

	relRNG := rng.NewRNG(42, "release", testHash())
	insRNG := rng.NewRNG(42, "inspection", testHash())
	states := release.StateStore{}

	rr := evaluateConsignment(c, cfg, nil, states, relRNG, insRNG)

	if !rr.Detected {
		t.Fatal("expected Detected = true with effectiveness=1 and selection=all")
	}
	if rr.MissedContaminantsToDetection != 0 {
		t.Fatalf("MissedContaminantsToDetection = %d, want 0 when Detected = true", rr.MissedContaminantsToDetection)
	}
}

// A consignment that is inspected but never detected (effectiveness=0)
// must report every contaminated item as missed.
func TestEvaluateConsignment_NoDetection_MissesAll(t *testing.T) {
	c := consignment.New("c2", 2, 10, "x", "y", "z", "air", time.Now())
	c.ItemContaminated.Set(0)
	c.ItemContaminated.Set(5)

	cfg := &config.Config{
		Inspection: config.InspectionConfig{
			Unit:                "item",
			WithinBoxProportion: 1.0,
			Effectiveness:       0.0,
			SampleStrategy:      config.SampleStrategyConfig{Type: "all"},
			SelectionStrategy:   config.SelectionStrategyConfig{Type: "random"},
		},
	}

	relRNG := rng.NewRNG(1, "release", testHash())
	insRNG := rng.NewRNG(1, "inspection", testHash())
	states := release.StateStore{}

	rr := evaluateConsignment(c, cfg, nil, states, relRNG, insRNG)

	if rr.Detected {
		t.Fatal("expected Detected = false with effectiveness=0")
	}
	if rr.MissedContaminantsToDetection != 2 {
		t.Fatalf("MissedContaminantsToDetection = %d, want 2 (all contaminated items missed)", rr.MissedContaminantsToDetection)
	}
}
