package model

import (
	"fmt"
	"sort"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/idalloc"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
)

// Instance is the constructor input of spec §6, exactly as the DQCIR
// parser and Tseitin transform collaborator hands it to the core.
type Instance struct {
	NameToID      map[string]prop.ID
	IDToName      map[prop.ID]string
	Dependencies  map[string][]string // existential name -> ordered universal names
	Matrix        [][]prop.Lit
	UniversalVars []string // introduction order
	OutputGateID  prop.ID

	// Counter is an optional starting watermark. Zero means "compute
	// from name_to_id and the matrix", per spec §6.
	Counter prop.ID
}

// Compiled is everything the solver core is built from: a name
// registry, a dependency map, the immutable matrix, and a fresh-id
// counter seeded past every id the instance already uses.
type Compiled struct {
	Registry      *Registry
	Dependencies  *Dependencies
	Matrix        *Matrix
	Counter       *idalloc.Counter
	Universals    []prop.ID // in UniversalVars order
	Existentials  []prop.ID // sorted for determinism
}

// Compile validates and assembles an Instance into a Compiled solver
// foundation. The design note in spec §9 ("the original computes
// max_id both at construction and inside __init__") is resolved here
// by computing it exactly once.
func Compile(in Instance) (*Compiled, error) {
	registry := NewRegistry(in.NameToID, in.IDToName)

	var errs []error

	byExistential := make(map[prop.ID][]prop.ID, len(in.Dependencies))
	existentials := make([]prop.ID, 0, len(in.Dependencies))
	for name, deps := range in.Dependencies {
		eid, ok := in.NameToID[name]
		if !ok {
			errs = append(errs, fmt.Errorf("dependency map references unknown existential %q", name))
			continue
		}
		depIDs := make([]prop.ID, 0, len(deps))
		for _, dn := range deps {
			did, ok := in.NameToID[dn]
			if !ok {
				errs = append(errs, fmt.Errorf("existential %q depends on unknown universal %q", name, dn))
				continue
			}
			depIDs = append(depIDs, did)
		}
		byExistential[eid] = depIDs
		existentials = append(existentials, eid)
	}
	sort.Slice(existentials, func(i, j int) bool { return existentials[i] < existentials[j] })

	universals := make([]prop.ID, 0, len(in.UniversalVars))
	for _, name := range in.UniversalVars {
		uid, ok := in.NameToID[name]
		if !ok {
			errs = append(errs, fmt.Errorf("universal_vars references unknown variable %q", name))
			continue
		}
		universals = append(universals, uid)
	}

	if err := utilerrors.NewAggregate(errs); err != nil {
		return nil, err
	}

	matrix := &Matrix{Clauses: in.Matrix, OutputGate: prop.PosLit(in.OutputGateID)}

	maxID := in.Counter
	if maxID == 0 {
		for _, id := range in.NameToID {
			if id > maxID {
				maxID = id
			}
		}
		if mv := matrix.MaxVar(); mv > maxID {
			maxID = mv
		}
	}

	return &Compiled{
		Registry:     registry,
		Dependencies: NewDependencies(byExistential),
		Matrix:       matrix,
		Counter:      idalloc.New(maxID),
		Universals:   universals,
		Existentials: existentials,
	}, nil
}

// Statistics computes the solver's Statistics() operation (spec §6)
// directly from the compiled instance.
func (c *Compiled) Statistics() Statistics {
	stats := Statistics{
		TotalVariables:       len(c.Registry.nameToID),
		UniversalVariables:   len(c.Universals),
		ExistentialVariables: len(c.Existentials),
		Clauses:              len(c.Matrix.Clauses),
	}
	var total int
	for _, clause := range c.Matrix.Clauses {
		n := len(clause)
		total += n
		if n > stats.MaxClauseSize {
			stats.MaxClauseSize = n
		}
	}
	if stats.Clauses > 0 {
		stats.AvgClauseSize = float64(total) / float64(stats.Clauses)
	}
	for _, e := range c.Existentials {
		if n := c.Dependencies.Len(e); n > stats.MaxDependencies {
			stats.MaxDependencies = n
		}
	}
	return stats
}
