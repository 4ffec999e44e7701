package cegar

import (
	"github.com/mitchellh/hashstructure"
	"github.com/sirupsen/logrus"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/dqbferrors"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/expansion"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/metrics"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/satsvc"
)

// Result is the outcome of a full CEGAR run.
type Result int

const (
	Unsat Result = iota
	Sat
)

func (r Result) String() string {
	if r == Sat {
		return "SAT"
	}
	return "UNSAT"
}

// Driver runs the loop of spec §4.7: alternate counterexample search
// and expansion-solver checks until one side proves SAT or UNSAT.
type Driver struct {
	log        logrus.FieldLogger
	engine     *CounterexampleEngine
	refine     *RefinementEngine
	expSolver  satsvc.Service
	expansions *expansion.Registry
	metrics    metrics.Provider

	lastFingerprint     *uint64
	haveLastFingerprint bool
}

// NewDriver wires a CEGAR driver. A nil metrics.Provider defaults to
// metrics.NoOp().
func NewDriver(engine *CounterexampleEngine, refine *RefinementEngine, expSolver satsvc.Service, expansions *expansion.Registry, mp metrics.Provider, log logrus.FieldLogger) *Driver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if mp == nil {
		mp = metrics.NoOp()
	}
	return &Driver{
		log:        log,
		engine:     engine,
		refine:     refine,
		expSolver:  expSolver,
		expansions: expansions,
		metrics:    mp,
	}
}

// Solve runs the driver loop to completion.
func (d *Driver) Solve() (Result, error) {
	iteration := 0
	for {
		iteration++
		found, cx, err := d.engine.GetCounterexample()
		if err != nil {
			return Unsat, err
		}
		if !found {
			d.log.WithFields(logrus.Fields{
				"iterations":     iteration,
				"expansion_vars": d.expansions.Count(),
			}).Info("no counterexample found, formula is satisfiable")
			d.metrics.IterationCompleted()
			return Sat, nil
		}

		fp, hashErr := hashstructure.Hash(*cx, nil)
		if hashErr != nil {
			return Unsat, hashErr
		}
		if d.haveLastFingerprint && d.lastFingerprint != nil && *d.lastFingerprint == fp {
			return Unsat, &dqbferrors.Stall{Fingerprint: fp}
		}
		d.lastFingerprint = &fp
		d.haveLastFingerprint = true

		d.log.WithFields(logrus.Fields{
			"iteration":      iteration,
			"core_size":      len(cx.ExistCore),
			"expansion_vars": d.expansions.Count(),
		}).Debug("cegar iteration")

		if err := d.refine.Refine(cx); err != nil {
			return Unsat, err
		}

		if !d.expSolver.Solve(nil) {
			d.log.WithFields(logrus.Fields{"iterations": iteration}).Info("expansion solver exhausted, formula is unsatisfiable")
			d.metrics.IterationCompleted()
			return Unsat, nil
		}
		model := d.expSolver.Model()
		d.engine.SetExpansionAssignment(projectToSet(model, idSet(d.expansions.IDs())))

		d.metrics.IterationCompleted()
		d.metrics.ExpansionVariableCount(d.expansions.Count())
	}
}

func idSet(ids []prop.ID) map[prop.ID]struct{} {
	s := make(map[prop.ID]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}
