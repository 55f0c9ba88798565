package cashflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"
)

// LoadScenario reads a scenario file. Extension picks the codec: .yaml/.yml
// parse as YAML, anything else (.hjson, .json) as HJSON, which accepts plain
// JSON plus comments and trailing commas.
func LoadScenario(path string) (*ProjectScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}

	var scenario ProjectScenario
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &scenario); err != nil {
			return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
		}
	default:
		if err := hjson.Unmarshal(data, &scenario); err != nil {
			return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
		}
	}

	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}
