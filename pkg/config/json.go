package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadJSON parses a JSON document into a validated Config. JSON is decoded
// into the same generic tree yaml.v3 uses internally, so the two loaders
// share identical type-coercion and validation behavior (§6).
func LoadJSON(data []byte) (*Config, error) {
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("config: parse json: %w", err)
	}
	yamlBytes, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("config: json-to-yaml bridge: %w", err)
	}
	return LoadYAML(yamlBytes)
}
