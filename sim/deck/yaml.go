package deck

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/molstat/molstat/sim"
)

// LoadYAML reads a run spec written as YAML:
//
//	model:
//	  type: TransportJunction
//	  distributions:
//	    - {name: ef, type: constant, args: [0]}
//	    - {name: v, type: uniform, args: [0, 1]}
//	  submodels:
//	    - type: SymmetricOneSiteChannel
//	      distributions: [...]
//	observables:
//	  - {slot: 0, name: StaticConductance, bins: "100 log"}
//	trials: 100000
//	output: hist.dat
//
// Unrecognized keys are rejected. YAML specs carry no line numbers, so
// diagnostics produced from them have Line 0.
func LoadYAML(path string) (*sim.RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run spec: %w", err)
	}
	var spec sim.RunSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing run spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run spec: %w", err)
	}
	return &spec, nil
}
