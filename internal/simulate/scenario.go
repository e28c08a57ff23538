package simulate

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/epaustria/idfkit/internal/idf"
)

// Scenario is one batch-simulation variant: the same building with some
// constructions swapped and optionally different weather.
type Scenario struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	Weather       string            `yaml:"weather"`
	Constructions map[string]string `yaml:"constructions"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads a scenarios YAML file. Unknown fields are rejected
// so a typo like `construcions:` fails loudly instead of silently running
// the unmodified model.
func LoadScenarios(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenarios: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var doc scenarioFile
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse scenarios %s: %w", path, err)
	}
	if len(doc.Scenarios) == 0 {
		return nil, fmt.Errorf("%s: no scenarios defined", path)
	}

	seen := map[string]bool{}
	for i, sc := range doc.Scenarios {
		if sc.Name == "" {
			return nil, fmt.Errorf("%s: scenario %d has no name", path, i+1)
		}
		if strings.ContainsAny(sc.Name, `/\`) {
			return nil, fmt.Errorf("%s: scenario name %q must not contain path separators", path, sc.Name)
		}
		if seen[sc.Name] {
			return nil, fmt.Errorf("%s: duplicate scenario name %q", path, sc.Name)
		}
		seen[sc.Name] = true
	}
	return doc.Scenarios, nil
}

// ApplyScenario rewrites construction references in place and returns the
// number of replacements. Swapped are the Construction Name field of
// BuildingSurface:Detailed and FenestrationSurface:Detailed records, and
// the names of the Construction records themselves.
func ApplyScenario(file *idf.File, swaps map[string]string) int {
	if len(swaps) == 0 {
		return 0
	}

	replaced := 0
	for i := range file.Objects {
		obj := &file.Objects[i]
		switch idf.NormalizeClass(obj.Class) {
		case "buildingsurface:detailed", "fenestrationsurface:detailed":
			// Fields: name, surface type, construction name, ...
			if len(obj.Fields) > 2 {
				if repl, ok := lookupFold(swaps, obj.Fields[2].Value); ok {
					obj.Fields[2].Value = repl
					replaced++
				}
			}
		case "construction":
			if len(obj.Fields) > 0 {
				if repl, ok := lookupFold(swaps, obj.Fields[0].Value); ok {
					obj.Fields[0].Value = repl
					replaced++
				}
			}
		}
	}
	return replaced
}

// lookupFold finds a swap entry case-insensitively, matching how
// EnergyPlus resolves object references.
func lookupFold(swaps map[string]string, name string) (string, bool) {
	if repl, ok := swaps[name]; ok {
		return repl, true
	}
	for old, repl := range swaps {
		if strings.EqualFold(old, name) {
			return repl, true
		}
	}
	return "", false
}
