package superflow

import (
	"fmt"

	"github.com/FFI-no/superflow/builder"
	"github.com/FFI-no/superflow/config"
)

// GraphSpec is the declarative document Service.Build consumes: one
// ProxelConfig per node plus the ConnectionSpecs wiring them, the same
// config/properties+wires pair builder.Build itself takes, given a name so
// it can round-trip through YAML as a single document.
type GraphSpec struct {
	Proxels     []builder.ProxelConfig[config.Properties] `json:"proxels" yaml:"proxels"`
	Connections []builder.ConnectionSpec                  `json:"connections" yaml:"connections"`
}

// Validate reports the first structural problem in spec that Build would
// otherwise surface only after partially constructing the graph: a proxel
// with no ID, a proxel with an empty Type name, or a duplicate ID. Whether a
// Type name is registered is not checked here.
func (s GraphSpec) Validate() error {
	seen := make(map[string]bool, len(s.Proxels))
	for _, p := range s.Proxels {
		if p.ID == "" {
			return fmt.Errorf("superflow: proxel config is missing an id")
		}
		if p.Type == "" {
			return fmt.Errorf("superflow: proxel %q is missing a type", p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("superflow: duplicate proxel id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
