package scoring

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// PolicyFile is the YAML layout for a scoring policy override.
type PolicyFile struct {
	Weights Weights        `yaml:"weights"`
	Tiers   []TierBoundary `yaml:"tiers"`
}

// LoadPolicy reads a scoring policy from a YAML file. The tier table
// is sorted ascending so a hand-edited file cannot break monotonicity.
func LoadPolicy(path string) (*PolicyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file PolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse scoring policy: %w", err)
	}

	if file.Weights.ProbabilityCap <= 0 || file.Weights.ProbabilityCap > 1 {
		return nil, fmt.Errorf("probability_cap %v outside (0, 1]", file.Weights.ProbabilityCap)
	}
	sort.Slice(file.Tiers, func(i, j int) bool {
		return file.Tiers[i].Below < file.Tiers[j].Below
	})

	return &file, nil
}
