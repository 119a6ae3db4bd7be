package config

import (
	"crypto/sha256"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the fully normalized, validated configuration tree for one
// simulation run.
type Config struct {
	Seed            uint64 `yaml:"seed"`
	NumSimulations  int    `yaml:"num_simulations"`
	NumConsignments int    `yaml:"num_consignments"`
	StrictInput     bool   `yaml:"strict_input"`

	Consignment      ConsignmentGenConfig   `yaml:"consignment"`
	Contamination    ContaminationTopConfig `yaml:"contamination"`
	Inspection       InspectionConfig       `yaml:"inspection"`
	ReleasePrograms  []ReleaseProgramConfig `yaml:"release_programs"`
	Pretty           PrettyConfig           `yaml:"pretty"`
}

// ConsignmentGenConfig parameterizes the from-params consignment generator.
type ConsignmentGenConfig struct {
	BoxesMin int `yaml:"boxes_min"`
	BoxesMax int `yaml:"boxes_max"`

	ItemsPerBoxMin int `yaml:"items_per_box_min"`
	ItemsPerBoxMax int `yaml:"items_per_box_max"`

	Commodities []WeightedOption `yaml:"commodities"`
	Origins     []WeightedOption `yaml:"origins"`
	Ports       []WeightedOption `yaml:"ports"`
	Pathways    []WeightedOption `yaml:"pathways"`

	// StartDate/EndDate bound a uniform random draw for each generated
	// consignment's date.
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
}

// WeightedOption is one categorical value and its selection weight.
type WeightedOption struct {
	Value  string  `yaml:"value"`
	Weight float64 `yaml:"weight"`
}

func (c *ConsignmentGenConfig) Validate() error {
	if c.BoxesMin < 0 || c.BoxesMax < c.BoxesMin {
		return fmt.Errorf("config: consignment.boxes_min/boxes_max invalid (%d/%d)", c.BoxesMin, c.BoxesMax)
	}
	if c.ItemsPerBoxMin < 0 || c.ItemsPerBoxMax < c.ItemsPerBoxMin {
		return fmt.Errorf("config: consignment.items_per_box_min/max invalid (%d/%d)", c.ItemsPerBoxMin, c.ItemsPerBoxMax)
	}
	for _, group := range [][]WeightedOption{c.Commodities, c.Origins, c.Ports, c.Pathways} {
		for _, o := range group {
			if o.Weight < 0 {
				return fmt.Errorf("config: negative weight for option %q", o.Value)
			}
		}
	}
	if c.StartDate != "" {
		if _, err := time.Parse("2006-01-02", c.StartDate); err != nil {
			return fmt.Errorf("config: consignment.start_date invalid: %w", err)
		}
	}
	if c.EndDate != "" {
		if _, err := time.Parse("2006-01-02", c.EndDate); err != nil {
			return fmt.Errorf("config: consignment.end_date invalid: %w", err)
		}
	}
	return nil
}

// RateConfig is a contamination-rate distribution: exactly one of Fixed or
// Beta must be set.
type RateConfig struct {
	Fixed *float64 `yaml:"fixed,omitempty"`
	Beta  *struct {
		A float64 `yaml:"a"`
		B float64 `yaml:"b"`
	} `yaml:"beta,omitempty"`
}

func (r *RateConfig) Validate() error {
	if r.Fixed == nil && r.Beta == nil {
		return fmt.Errorf("config: rate requires fixed or beta")
	}
	if r.Fixed != nil && r.Beta != nil {
		return fmt.Errorf("config: rate must set exactly one of fixed or beta")
	}
	if r.Fixed != nil && (*r.Fixed < 0 || *r.Fixed > 1) {
		return fmt.Errorf("config: rate.fixed must be in [0,1], got %v", *r.Fixed)
	}
	if r.Beta != nil && (r.Beta.A <= 0 || r.Beta.B <= 0) {
		return fmt.Errorf("config: rate.beta.a and b must be > 0")
	}
	return nil
}

// ArrangementConfig is a tagged-variant arrangement strategy (§4.2). Type
// selects which nested struct is populated; unpopulated variants are zero
// valued and ignored.
type ArrangementConfig struct {
	Type string `yaml:"type"` // random | clustered_single | clustered_multi | random_box

	ClusteredSingle struct {
		Value float64 `yaml:"value"`
	} `yaml:"clustered_single"`

	ClusteredMulti struct {
		UnitsPerCluster  int    `yaml:"units_per_cluster"`
		Distribution     string `yaml:"distribution"` // random | continuous
		ClusterItemWidth int    `yaml:"cluster_item_width"`
	} `yaml:"clustered_multi"`

	RandomBox struct {
		Probability      float64 `yaml:"probability"`
		Ratio            float64 `yaml:"ratio"`
		InBoxArrangement string  `yaml:"in_box_arrangement"` // all | first | one_random | random
	} `yaml:"random_box"`
}

func (a *ArrangementConfig) Validate() error {
	switch a.Type {
	case "random":
	case "clustered_single":
		if a.ClusteredSingle.Value < 0 {
			return fmt.Errorf("config: arrangement.clustered_single.value must be >= 0")
		}
	case "clustered_multi":
		if a.ClusteredMulti.UnitsPerCluster <= 0 {
			return fmt.Errorf("config: arrangement.clustered_multi.units_per_cluster must be > 0")
		}
		switch a.ClusteredMulti.Distribution {
		case "random":
			if a.ClusteredMulti.ClusterItemWidth < a.ClusteredMulti.UnitsPerCluster {
				return fmt.Errorf("config: arrangement.clustered_multi.cluster_item_width must be >= units_per_cluster for distribution=random")
			}
		case "continuous":
		default:
			return fmt.Errorf("config: arrangement.clustered_multi.distribution must be random or continuous, got %q", a.ClusteredMulti.Distribution)
		}
	case "random_box":
		if a.RandomBox.Probability < 0 || a.RandomBox.Probability > 1 {
			return fmt.Errorf("config: arrangement.random_box.probability must be in [0,1]")
		}
		if a.RandomBox.Ratio < 0 || a.RandomBox.Ratio > 1 {
			return fmt.Errorf("config: arrangement.random_box.ratio must be in [0,1]")
		}
		switch a.RandomBox.InBoxArrangement {
		case "all", "first", "one_random", "random":
		default:
			return fmt.Errorf("config: arrangement.random_box.in_box_arrangement invalid: %q", a.RandomBox.InBoxArrangement)
		}
	default:
		return fmt.Errorf("config: unknown arrangement.type %q", a.Type)
	}
	return nil
}

// ContaminationConfig is the per-consignment (or rule-scoped) contamination
// model (§3).
type ContaminationConfig struct {
	Unit        string            `yaml:"unit"` // item | box
	Rate        RateConfig        `yaml:"rate"`
	Arrangement ArrangementConfig `yaml:"arrangement"`
}

func (c *ContaminationConfig) Validate() error {
	if c.Unit != "item" && c.Unit != "box" {
		return fmt.Errorf("config: contamination.unit must be item or box, got %q", c.Unit)
	}
	if err := c.Rate.Validate(); err != nil {
		return err
	}
	if c.Unit == "box" && c.Arrangement.Type != "" && c.Arrangement.Type != "random" {
		// Box-unit contamination always places contiguously (§4.2 step 3);
		// arrangement only governs item-unit placement.
	}
	if c.Unit == "item" {
		if err := c.Arrangement.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ConsignmentRule is a first-match-wins predicate overriding the default
// ContaminationConfig for matching consignments (§3).
type ConsignmentRule struct {
	Commodity *string    `yaml:"commodity,omitempty"`
	Origin    *string    `yaml:"origin,omitempty"`
	Port      *string    `yaml:"port,omitempty"`
	StartDate *time.Time `yaml:"start_date,omitempty"`
	EndDate   *time.Time `yaml:"end_date,omitempty"`

	UseContaminationDefaults bool                 `yaml:"use_contamination_defaults"`
	Contamination            *ContaminationConfig `yaml:"contamination,omitempty"`
}

// ContaminationTopConfig is the top-level `contamination` config group: a
// default model plus an ordered list of overriding rules.
type ContaminationTopConfig struct {
	Default     ContaminationConfig `yaml:"default"`
	Consignments []ConsignmentRule   `yaml:"consignments"`
}

func (c *ContaminationTopConfig) Validate() error {
	if err := c.Default.Validate(); err != nil {
		return fmt.Errorf("contamination.default: %w", err)
	}
	for i := range c.Consignments {
		rule := &c.Consignments[i]
		if rule.StartDate != nil && rule.EndDate != nil && rule.EndDate.Before(*rule.StartDate) {
			return fmt.Errorf("contamination.consignments[%d]: end_date before start_date", i)
		}
		if rule.Contamination != nil {
			rc := *rule.Contamination
			if rule.UseContaminationDefaults {
				// Validate the rule as resolved: unset fields fall back to
				// the default model (see pkg/contamination).
				if rc.Unit == "" {
					rc.Unit = c.Default.Unit
				}
				if rc.Rate.Fixed == nil && rc.Rate.Beta == nil {
					rc.Rate = c.Default.Rate
				}
				if rc.Arrangement.Type == "" {
					rc.Arrangement = c.Default.Arrangement
				}
			}
			if err := rc.Validate(); err != nil {
				return fmt.Errorf("contamination.consignments[%d]: %w", i, err)
			}
		}
	}
	return nil
}

// SampleStrategyConfig is a tagged-variant sample-size strategy (§4.3).
type SampleStrategyConfig struct {
	Type string `yaml:"type"` // proportion | hypergeometric | fixed_n | all

	Proportion float64 `yaml:"proportion"`

	Hypergeometric struct {
		DetectionLevel  float64 `yaml:"detection_level"`
		ConfidenceLevel float64 `yaml:"confidence_level"`
	} `yaml:"hypergeometric"`

	FixedN int `yaml:"fixed_n"`
}

func (s *SampleStrategyConfig) Validate() error {
	switch s.Type {
	case "all":
	case "proportion":
		if s.Proportion < 0 || s.Proportion > 1 {
			return fmt.Errorf("config: sample_strategy.proportion must be in [0,1]")
		}
	case "hypergeometric":
		if s.Hypergeometric.DetectionLevel <= 0 || s.Hypergeometric.DetectionLevel > 1 {
			return fmt.Errorf("config: sample_strategy.hypergeometric.detection_level must be in (0,1]")
		}
		if s.Hypergeometric.ConfidenceLevel <= 0 || s.Hypergeometric.ConfidenceLevel >= 1 {
			return fmt.Errorf("config: sample_strategy.hypergeometric.confidence_level must be in (0,1)")
		}
	case "fixed_n":
		if s.FixedN < 0 {
			return fmt.Errorf("config: sample_strategy.fixed_n must be >= 0")
		}
	default:
		return fmt.Errorf("config: unknown sample_strategy.type %q", s.Type)
	}
	return nil
}

// SelectionStrategyConfig is a tagged-variant unit-selection strategy (§4.3).
type SelectionStrategyConfig struct {
	Type string `yaml:"type"` // random | convenience | cluster

	Cluster struct {
		Selection string `yaml:"selection"` // random | interval
		Interval  int    `yaml:"interval"`
	} `yaml:"cluster"`
}

func (s *SelectionStrategyConfig) Validate(unit string) error {
	switch s.Type {
	case "random", "convenience":
	case "cluster":
		if unit != "item" {
			return fmt.Errorf("config: selection_strategy.cluster requires inspection.unit=item")
		}
		switch s.Cluster.Selection {
		case "random":
		case "interval":
			if s.Cluster.Interval < 1 {
				return fmt.Errorf("config: selection_strategy.cluster.interval must be >= 1")
			}
		default:
			return fmt.Errorf("config: selection_strategy.cluster.selection must be random or interval, got %q", s.Cluster.Selection)
		}
	default:
		return fmt.Errorf("config: unknown selection_strategy.type %q", s.Type)
	}
	return nil
}

// InspectionConfig is the §3/§4.3 inspection model.
type InspectionConfig struct {
	Unit                string                  `yaml:"unit"` // item | box
	WithinBoxProportion float64                 `yaml:"within_box_proportion"`
	ToleranceLevel      float64                 `yaml:"tolerance_level"`
	SampleStrategy      SampleStrategyConfig    `yaml:"sample_strategy"`
	SelectionStrategy   SelectionStrategyConfig `yaml:"selection_strategy"`
	MinBoxes            int                     `yaml:"min_boxes"`
	Effectiveness       float64                 `yaml:"effectiveness"`
}

func (c *InspectionConfig) Validate() error {
	if c.Unit != "item" && c.Unit != "box" {
		return fmt.Errorf("config: inspection.unit must be item or box, got %q", c.Unit)
	}
	if c.WithinBoxProportion <= 0 || c.WithinBoxProportion > 1 {
		return fmt.Errorf("config: inspection.within_box_proportion must be in (0,1]")
	}
	if c.ToleranceLevel < 0 || c.ToleranceLevel > 1 {
		return fmt.Errorf("config: inspection.tolerance_level must be in [0,1]")
	}
	if c.MinBoxes < 0 {
		return fmt.Errorf("config: inspection.min_boxes must be >= 0")
	}
	if c.Effectiveness < 0 || c.Effectiveness > 1 {
		return fmt.Errorf("config: inspection.effectiveness must be in [0,1]")
	}
	if err := c.SampleStrategy.Validate(); err != nil {
		return err
	}
	if err := c.SelectionStrategy.Validate(c.Unit); err != nil {
		return err
	}
	return nil
}

// ReleaseProgramConfig is a tagged-variant release program (§4.4). Exactly
// one nested struct is populated per Type.
type ReleaseProgramConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // naive_cfrp | scheduled_cfrp | fixed_skip_lot | dynamic_skip_lot

	NaiveCFRP struct {
		Flowers  []string `yaml:"flowers"`
		MaxBoxes int      `yaml:"max_boxes"`
	} `yaml:"naive_cfrp"`

	ScheduledCFRP struct {
		Ports    []string `yaml:"ports"`
		Schedule []struct {
			Date      string `yaml:"date"`
			Commodity string `yaml:"commodity"`
			Origin    string `yaml:"origin"`
		} `yaml:"schedule"`
	} `yaml:"scheduled_cfrp"`

	FixedSkipLot struct {
		TrackedAttributes []string `yaml:"tracked_attributes"`
		DefaultLevel      string   `yaml:"default_level"`
		Levels            []struct {
			Name            string  `yaml:"name"`
			SamplingFraction float64 `yaml:"sampling_fraction"`
		} `yaml:"levels"`
		// GroupLevels assigns a compliance level to groups matching all of
		// Attributes; the first matching entry wins. Groups matched by no
		// entry fall back to DefaultLevel.
		GroupLevels []struct {
			Attributes map[string]string `yaml:"attributes"`
			Level      string             `yaml:"level"`
		} `yaml:"group_levels"`
	} `yaml:"fixed_skip_lot"`

	DynamicSkipLot struct {
		TrackedAttributes        []string  `yaml:"tracked_attributes"`
		Levels                   []float64 `yaml:"levels"` // sampling_fraction per level, index 0 = level 1
		StartLevel               int       `yaml:"start_level"`
		ClearanceNumber          int       `yaml:"clearance_number"`
		QuickRestating           bool      `yaml:"quick_restating"`
		RestateLevel             int       `yaml:"restate_level"`
		QuickRestateClearanceNum int       `yaml:"quick_restate_clearance_number"`
	} `yaml:"dynamic_skip_lot"`
}

func (r *ReleaseProgramConfig) Validate() error {
	switch r.Type {
	case "naive_cfrp":
		if len(r.NaiveCFRP.Flowers) == 0 {
			return fmt.Errorf("config: naive_cfrp.flowers must be non-empty")
		}
	case "scheduled_cfrp":
		for i, row := range r.ScheduledCFRP.Schedule {
			if _, err := time.Parse("2006-01-02", row.Date); err != nil {
				return fmt.Errorf("config: scheduled_cfrp.schedule[%d].date invalid: %w", i, err)
			}
		}
	case "fixed_skip_lot":
		if len(r.FixedSkipLot.Levels) == 0 {
			return fmt.Errorf("config: fixed_skip_lot.levels must be non-empty")
		}
	case "dynamic_skip_lot":
		if len(r.DynamicSkipLot.Levels) == 0 {
			return fmt.Errorf("config: dynamic_skip_lot.levels must be non-empty")
		}
		// start_level 0 means unset; the program then starts at level 1.
		if r.DynamicSkipLot.StartLevel < 0 || r.DynamicSkipLot.StartLevel > len(r.DynamicSkipLot.Levels) {
			return fmt.Errorf("config: dynamic_skip_lot.start_level out of range")
		}
		if r.DynamicSkipLot.ClearanceNumber <= 0 {
			return fmt.Errorf("config: dynamic_skip_lot.clearance_number must be > 0")
		}
	default:
		return fmt.Errorf("config: unknown release_programs[].type %q", r.Type)
	}
	return nil
}

// PrettyConfig configures the text/SVG glyph renderer.
type PrettyConfig struct {
	Flower        string `yaml:"flower"`
	Bug           string `yaml:"bug"`
	HorizontalLine string `yaml:"horizontal_line"`
	BoxLine       string `yaml:"box_line"`
	Spaces        int    `yaml:"spaces"`
}

func defaultPretty() PrettyConfig {
	return PrettyConfig{Flower: "🌸", Bug: "🐛", HorizontalLine: "━", BoxLine: "│", Spaces: 1}
}

// Validate checks every substruct and normalizes Pretty defaults, mirroring
// the teacher's per-substruct Validate() composition.
func (c *Config) Validate() error {
	if c.NumSimulations < 0 {
		return fmt.Errorf("config: num_simulations must be >= 0")
	}
	if c.NumConsignments < 0 {
		return fmt.Errorf("config: num_consignments must be >= 0")
	}
	if err := c.Consignment.Validate(); err != nil {
		return err
	}
	if err := c.Contamination.Validate(); err != nil {
		return err
	}
	if err := c.Inspection.Validate(); err != nil {
		return err
	}
	for i := range c.ReleasePrograms {
		if err := c.ReleasePrograms[i].Validate(); err != nil {
			return fmt.Errorf("release_programs[%d]: %w", i, err)
		}
	}
	if c.Pretty == (PrettyConfig{}) {
		c.Pretty = defaultPretty()
	}
	return nil
}

// Hash returns the SHA-256 hash of the config's canonical YAML encoding,
// used to derive per-stage RNG seeds (pkg/rng).
func (c *Config) Hash() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: hash: %w", err)
	}
	sum := sha256.Sum256(b)
	return sum[:], nil
}

// LoadYAML parses a YAML document into a validated Config.
func LoadYAML(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
