package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TableFile is the YAML layout for scenario/stress-test overrides.
type TableFile struct {
	Scenarios   map[string]Params `yaml:"scenarios"`
	StressTests []StressTest      `yaml:"stress_tests"`
}

// LoadTables reads scenario and stress-test tables from a YAML file.
// Sections left empty in the file keep the shipped defaults.
func LoadTables(path string) (*Analyzer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file TableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse scenario tables: %w", err)
	}

	if file.Scenarios != nil {
		if _, ok := file.Scenarios[Base]; !ok {
			return nil, fmt.Errorf("scenario table must define %s (unknown tags fall back to it)", Base)
		}
	}

	return NewAnalyzer(file.Scenarios, file.StressTests), nil
}
