package config_test

import (
	"strings"
	"testing"

	"github.com/inspectsim/inspectsim/pkg/config"
)

func validYAML() string {
	return `
seed: 42
num_simulations: 10
num_consignments: 5
consignment:
  boxes_min: 1
  boxes_max: 10
  items_per_box_min: 5
  items_per_box_max: 50
contamination:
  default:
    unit: item
    rate:
      fixed: 0.1
    arrangement:
      type: random
inspection:
  unit: item
  within_box_proportion: 1.0
  tolerance_level: 0.0
  sample_strategy:
    type: proportion
    proportion: 0.5
  selection_strategy:
    type: random
  min_boxes: 0
  effectiveness: 1.0
`
}

func TestLoadYAML_Valid(t *testing.T) {
	cfg, err := config.LoadYAML([]byte(validYAML()))
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	if cfg.Seed != 42 {
		t.Fatalf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.Contamination.Default.Unit != "item" {
		t.Fatalf("contamination.default.unit = %q, want item", cfg.Contamination.Default.Unit)
	}
}

func TestLoadYAML_InvalidUnit(t *testing.T) {
	bad := strings.Replace(validYAML(), "unit: item", "unit: carton", 1)
	if _, err := config.LoadYAML([]byte(bad)); err == nil {
		t.Fatal("expected validation error for bad unit, got nil")
	}
}

func TestHashDeterministic(t *testing.T) {
	cfg, err := config.LoadYAML([]byte(validYAML()))
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	h1, err := cfg.Hash()
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := cfg.Hash()
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if string(h1) != string(h2) {
		t.Fatal("Hash() not deterministic across calls")
	}
}

func TestLoadJSON_MatchesYAML(t *testing.T) {
	jsonDoc := `{
		"seed": 7,
		"num_simulations": 1,
		"num_consignments": 1,
		"consignment": {"boxes_min": 1, "boxes_max": 2, "items_per_box_min": 1, "items_per_box_max": 2},
		"contamination": {"default": {"unit": "item", "rate": {"fixed": 0.2}, "arrangement": {"type": "random"}}},
		"inspection": {"unit": "item", "within_box_proportion": 1.0, "tolerance_level": 0, "sample_strategy": {"type": "all"}, "selection_strategy": {"type": "random"}, "min_boxes": 0, "effectiveness": 1.0}
	}`
	cfg, err := config.LoadJSON([]byte(jsonDoc))
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	if cfg.Seed != 7 {
		t.Fatalf("Seed = %d, want 7", cfg.Seed)
	}
}

func TestScenarioTableOverride(t *testing.T) {
	base, err := config.LoadYAML([]byte(validYAML()))
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}

	csvDoc := "seed,contamination/default/rate/fixed\n100,0.5\n200,0.75\n"
	rows, err := config.LoadScenarioTable(strings.NewReader(csvDoc))
	if err != nil {
		t.Fatalf("LoadScenarioTable() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	configs, err := config.BuildScenarioConfigs(base, rows)
	if err != nil {
		t.Fatalf("BuildScenarioConfigs() error = %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("len(configs) = %d, want 2", len(configs))
	}
	if configs[0].Seed != 100 {
		t.Fatalf("configs[0].Seed = %d, want 100", configs[0].Seed)
	}
	if *configs[1].Contamination.Default.Rate.Fixed != 0.75 {
		t.Fatalf("configs[1] rate.fixed = %v, want 0.75", *configs[1].Contamination.Default.Rate.Fixed)
	}
}
