// Package cegar implements the counterexample-guided expansion
// refinement loop of spec §§4.5-4.7: the counterexample engine that
// searches for and verifies a universal counterexample against the
// current decision-list candidates, the refinement engine that turns
// one into new rules and a blocking clause, and the driver that
// alternates the two until SAT or UNSAT is proven.
package cegar

import (
	"github.com/sirupsen/logrus"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/dqbferrors"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/decisionlist"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/satsvc"
)

// Counterexample is the output of the counterexample engine: the
// minimal set of existentials whose current values are jointly
// responsible for violating the matrix under universalAssignment.
type Counterexample struct {
	ExistCore           []prop.Lit
	UniversalAssignment []prop.Lit
}

// CounterexampleEngine runs the two-step search-then-verify query of
// spec §4.5 against a single counterexample solver.
type CounterexampleEngine struct {
	log          logrus.FieldLogger
	solver       satsvc.Service
	encoder      *decisionlist.Encoder
	existentials []prop.ID
	universals   []prop.ID
	outputGate   prop.Lit

	existentialSet map[prop.ID]struct{}
	universalSet   map[prop.ID]struct{}

	expansionAssignment []prop.Lit
}

// NewCounterexampleEngine builds an engine over the counterexample
// solver already loaded with the matrix.
func NewCounterexampleEngine(solver satsvc.Service, encoder *decisionlist.Encoder, existentials, universals []prop.ID, outputGate prop.Lit, log logrus.FieldLogger) *CounterexampleEngine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	eng := &CounterexampleEngine{
		log:            log,
		solver:         solver,
		encoder:        encoder,
		existentials:   existentials,
		universals:     universals,
		outputGate:     outputGate,
		existentialSet: make(map[prop.ID]struct{}, len(existentials)),
		universalSet:   make(map[prop.ID]struct{}, len(universals)),
	}
	for _, e := range existentials {
		eng.existentialSet[e] = struct{}{}
	}
	for _, u := range universals {
		eng.universalSet[u] = struct{}{}
	}
	return eng
}

// SetExpansionAssignment records the most recent expansion-solver
// model, carried into the next counterexample query's assumptions.
func (eng *CounterexampleEngine) SetExpansionAssignment(assignment []prop.Lit) {
	eng.expansionAssignment = assignment
}

// ExpansionAssignment returns the most recently recorded expansion-solver
// model, i.e. the last assignment passed to SetExpansionAssignment.
func (eng *CounterexampleEngine) ExpansionAssignment() []prop.Lit {
	return eng.expansionAssignment
}

func projectToSet(assignment []prop.Lit, set map[prop.ID]struct{}) []prop.Lit {
	out := make([]prop.Lit, 0, len(set))
	for _, l := range assignment {
		if _, ok := set[l.Var()]; ok {
			out = append(out, l)
		}
	}
	return out
}

// GetCounterexample implements spec §4.5. found=false means the
// current decision-list candidates satisfy the matrix for every
// universal assignment reachable from the current expansion
// assignment — the formula is SAT under them.
func (eng *CounterexampleEngine) GetCounterexample() (found bool, cx *Counterexample, err error) {
	assumptions := make([]prop.Lit, 0, 2+len(eng.existentials)*2+len(eng.expansionAssignment))
	assumptions = append(assumptions, eng.outputGate.Not())
	assumptions = append(assumptions, eng.encoder.Permanent()...)
	for _, e := range eng.existentials {
		assumptions = append(assumptions, prop.PosLit(eng.encoder.Fire(e)))
		assumptions = append(assumptions, eng.encoder.Value(e))
	}
	assumptions = append(assumptions, eng.expansionAssignment...)

	if !eng.solver.Solve(assumptions) {
		return false, nil, nil
	}

	m := eng.solver.Model()
	universalAssignment := projectToSet(m, eng.universalSet)
	existentialAssignment := projectToSet(m, eng.existentialSet)

	verify := make([]prop.Lit, 0, len(universalAssignment)+len(existentialAssignment)+1)
	verify = append(verify, universalAssignment...)
	verify = append(verify, existentialAssignment...)
	verify = append(verify, eng.outputGate)

	if eng.solver.Solve(verify) {
		return false, nil, &dqbferrors.SolverInvariantViolation{Detail: "verification query over a claimed counterexample returned SAT"}
	}
	core := eng.solver.Core()
	existCore := projectToSet(core, eng.existentialSet)

	return true, &Counterexample{ExistCore: existCore, UniversalAssignment: universalAssignment}, nil
}
