// Package loader reads the YAML rendering of a parser collaborator's
// output (spec §6 constructor inputs) from disk. It stands in for the
// out-of-scope DQCIR parser and Tseitin transform: whatever produces
// name_to_id/id_to_name/dependencies/matrix/universal_vars/output_gate_id
// is expected to serialize them in this shape.
package loader

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/model"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
)

type document struct {
	NameToID      map[string]uint32 `yaml:"name_to_id"`
	IDToName      map[uint32]string `yaml:"id_to_name"`
	Dependencies  map[string][]string `yaml:"dependencies"`
	Matrix        [][]int32         `yaml:"matrix"`
	UniversalVars []string          `yaml:"universal_vars"`
	OutputGateID  uint32            `yaml:"output_gate_id"`
	Counter       uint32            `yaml:"counter"`
}

// LoadFile reads and parses an instance document from path.
func LoadFile(path string) (model.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Instance{}, errors.Wrapf(err, "reading instance file %q", path)
	}
	in, err := Load(data)
	if err != nil {
		return model.Instance{}, errors.Wrapf(err, "parsing instance file %q", path)
	}
	return in, nil
}

// Load parses an instance document from raw YAML bytes.
func Load(data []byte) (model.Instance, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Instance{}, errors.Wrap(err, "unmarshaling instance yaml")
	}

	in := model.Instance{
		NameToID:      make(map[string]prop.ID, len(doc.NameToID)),
		IDToName:      make(map[prop.ID]string, len(doc.IDToName)),
		Dependencies:  doc.Dependencies,
		UniversalVars: doc.UniversalVars,
		OutputGateID:  prop.ID(doc.OutputGateID),
		Counter:       prop.ID(doc.Counter),
	}
	for name, id := range doc.NameToID {
		in.NameToID[name] = prop.ID(id)
	}
	for id, name := range doc.IDToName {
		in.IDToName[prop.ID(id)] = name
	}
	in.Matrix = make([][]prop.Lit, len(doc.Matrix))
	for i, clause := range doc.Matrix {
		lits := make([]prop.Lit, len(clause))
		for j, l := range clause {
			lits[j] = prop.Lit(l)
		}
		in.Matrix[i] = lits
	}
	return in, nil
}
