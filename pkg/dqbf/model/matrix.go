package model

import "github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"

// Matrix is the immutable CNF encoding of the quantifier-free body
// together with its Tseitin gates and output gate literal, as
// produced by the (out-of-scope) DQCIR parser and Tseitin transform.
type Matrix struct {
	Clauses    [][]prop.Lit
	OutputGate prop.Lit
}

// MaxVar returns the largest variable id mentioned anywhere in the
// matrix, or 0 for an empty matrix.
func (m *Matrix) MaxVar() prop.ID {
	var max prop.ID
	for _, clause := range m.Clauses {
		for _, l := range clause {
			if v := l.Var(); v > max {
				max = v
			}
		}
	}
	if v := m.OutputGate.Var(); v > max {
		max = v
	}
	return max
}

// Statistics summarizes the matrix's shape; it backs the solver's
// public Statistics() operation (spec §6).
type Statistics struct {
	TotalVariables      int
	UniversalVariables  int
	ExistentialVariables int
	Clauses             int
	MaxClauseSize       int
	AvgClauseSize       float64
	MaxDependencies     int
}
