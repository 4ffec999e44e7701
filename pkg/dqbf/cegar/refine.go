package cegar

import (
	"github.com/sirupsen/logrus"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/decisionlist"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/expansion"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/model"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/satsvc"
)

// RefinementEngine converts a Counterexample into new decision-list
// rules and a blocking clause over expansion variables, per spec
// §4.6.
type RefinementEngine struct {
	log        logrus.FieldLogger
	encoder    *decisionlist.Encoder
	expansions *expansion.Registry
	deps       *model.Dependencies
	expSolver  satsvc.Service
}

// NewRefinementEngine builds a refinement engine writing blocking
// clauses into expSolver.
func NewRefinementEngine(encoder *decisionlist.Encoder, expansions *expansion.Registry, deps *model.Dependencies, expSolver satsvc.Service, log logrus.FieldLogger) *RefinementEngine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RefinementEngine{
		log:        log,
		encoder:    encoder,
		expansions: expansions,
		deps:       deps,
		expSolver:  expSolver,
	}
}

// Refine installs, for each existential in cx's core, a rule binding
// it to its expansion variable under the universal assignment
// restricted to its dependencies, flips its default away from the
// counterexample's polarity, and adds the resulting blocking clause
// to the expansion solver.
func (r *RefinementEngine) Refine(cx *Counterexample) error {
	blocking := make([]prop.Lit, 0, len(cx.ExistCore))
	for _, lit := range cx.ExistCore {
		e := lit.Var()
		a := r.deps.Restrict(e, cx.UniversalAssignment)
		x, err := r.expansions.Get(e, a)
		if err != nil {
			return err
		}
		if lit.Positive() {
			blocking = append(blocking, prop.NegLit(x))
			if err := r.encoder.SetDefault(e, false); err != nil {
				return err
			}
		} else {
			blocking = append(blocking, prop.PosLit(x))
			if err := r.encoder.SetDefault(e, true); err != nil {
				return err
			}
		}
	}
	r.expSolver.AddClause(blocking)
	r.log.WithFields(logrus.Fields{"core_size": len(cx.ExistCore)}).Debug("installed refinement")
	return nil
}
