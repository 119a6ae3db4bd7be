package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConfigToTree converts a Config into a generic map tree suitable for
// path-based overriding (see ApplyOverrides), round-tripping through YAML
// so map keys match the struct's yaml tags.
func ConfigToTree(c *Config) (map[string]interface{}, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: tree: marshal: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(b, &tree); err != nil {
		return nil, fmt.Errorf("config: tree: unmarshal: %w", err)
	}
	return tree, nil
}

// TreeToConfig converts a generic map tree back into a validated Config.
func TreeToConfig(tree map[string]interface{}) (*Config, error) {
	b, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("config: tree: marshal: %w", err)
	}
	return LoadYAML(b)
}

// BuildScenarioConfigs applies each scenario row's overrides over base,
// producing one validated Config per row (§6).
func BuildScenarioConfigs(base *Config, rows []ScenarioRow) ([]*Config, error) {
	configs := make([]*Config, 0, len(rows))
	for i, row := range rows {
		tree, err := ConfigToTree(base)
		if err != nil {
			return nil, fmt.Errorf("config: scenario row %d: %w", i, err)
		}
		ApplyOverrides(tree, row)
		cfg, err := TreeToConfig(tree)
		if err != nil {
			return nil, fmt.Errorf("config: scenario row %d: %w", i, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
