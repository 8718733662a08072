package stamina

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GlobalsFile represents the structure of the host globals YAML file.
// Only the stamina section is read.
type GlobalsFile struct {
	Stamina map[Category]Limits `yaml:"stamina"`
}

// DefaultLimits returns the stock thresholds the host ships with.
func DefaultLimits() map[Category]Limits {
	return map[Category]Limits{
		BaseOverweight:      {Lower: 26, Upper: 67},
		SprintOverweight:    {Lower: 26, Upper: 62},
		WalkOverweight:      {Lower: 39, Upper: 72},
		WalkSpeedOverweight: {Lower: 26, Upper: 62},
	}
}

// LoadTableFromYAML loads the threshold table from a globals file.
// Every category must be present.
func LoadTableFromYAML(filename string) (*ThresholdTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read globals file: %w", err)
	}
	return ParseTable(data)
}

// ParseTable parses the stamina section of a globals document.
func ParseTable(data []byte) (*ThresholdTable, error) {
	var globals GlobalsFile
	if err := yaml.Unmarshal(data, &globals); err != nil {
		return nil, fmt.Errorf("failed to parse globals YAML: %w", err)
	}

	for c := range globals.Stamina {
		if !c.Valid() {
			return nil, fmt.Errorf("unknown stamina category %q", c)
		}
	}
	for _, c := range AllCategories() {
		if _, ok := globals.Stamina[c]; !ok {
			return nil, fmt.Errorf("stamina category %s missing from globals", c)
		}
	}

	return NewThresholdTableFrom(globals.Stamina), nil
}
