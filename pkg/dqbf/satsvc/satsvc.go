// Package satsvc wraps an incremental CDCL engine behind the uniform
// interface spec'd in §4.2: add_clause, solve-with-assumptions,
// model, and get_core. It is the sole point of contact with the
// underlying SAT engine; every other package in this module only ever
// talks to a satsvc.Service.
//
// The concrete implementation is backed by github.com/go-air/gini,
// the same CDCL engine the teacher package uses for its constraint
// solving (there wired through gini's circuit-building logic.C
// layer; here wired directly at the CNF level, since the DQBF matrix
// arrives pre-Tseitin-transformed from the out-of-scope DQCIR parser
// collaborator).
package satsvc

import (
	"sort"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
)

// Service is the SAT engine contract consumed by the rest of the
// solver. Implementations must support at least two independent,
// concurrently-live instances in one process (spec §6).
type Service interface {
	// AddClause appends a clause to the service's permanent clause
	// database. Clauses are never retracted.
	AddClause(clause []prop.Lit)
	// Solve runs the engine under the given assumptions and reports
	// satisfiability.
	Solve(assumptions []prop.Lit) bool
	// Model returns a total assignment over every variable the
	// service has seen, valid after a Solve call returned true.
	Model() []prop.Lit
	// Core returns the subset of the last Solve call's assumptions
	// sufficient for infeasibility, valid after a Solve call returned
	// false. May be empty.
	Core() []prop.Lit
}

// giniService is the gini-backed Service implementation.
type giniService struct {
	g     *gini.Gini
	known map[prop.ID]struct{}
}

// New returns an empty SAT service ready to accept clauses.
func New() Service {
	return &giniService{
		g:     gini.New(),
		known: make(map[prop.ID]struct{}),
	}
}

func dimacsLit(l prop.Lit) z.Lit {
	return z.Dimacs2Lit(int(l))
}

func (s *giniService) track(l prop.Lit) {
	s.known[l.Var()] = struct{}{}
}

func (s *giniService) AddClause(clause []prop.Lit) {
	for _, l := range clause {
		s.track(l)
		s.g.Add(dimacsLit(l))
	}
	s.g.Add(z.LitNull)
}

func (s *giniService) Solve(assumptions []prop.Lit) bool {
	zs := make([]z.Lit, len(assumptions))
	for i, l := range assumptions {
		s.track(l)
		zs[i] = dimacsLit(l)
	}
	s.g.Assume(zs...)
	return s.g.Solve() == 1
}

func (s *giniService) Model() []prop.Lit {
	vars := make([]prop.ID, 0, len(s.known))
	for v := range s.known {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })

	model := make([]prop.Lit, len(vars))
	for i, v := range vars {
		if s.g.Value(dimacsLit(prop.PosLit(v))) {
			model[i] = prop.PosLit(v)
		} else {
			model[i] = prop.NegLit(v)
		}
	}
	return model
}

func (s *giniService) Core() []prop.Lit {
	why := s.g.Why(nil)
	core := make([]prop.Lit, len(why))
	for i, zl := range why {
		core[i] = prop.Lit(zl.Dimacs())
	}
	return core
}
