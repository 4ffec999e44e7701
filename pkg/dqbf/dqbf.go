// Package dqbf assembles the DQBF decision procedure: a fresh-id
// counter, a variable registry, two cooperating SAT services, the
// decision-list encoder, the expansion registry, the counterexample
// and refinement engines, the CEGAR driver, and the equivalence
// detector (spec §§2-4, wired per §6's external interfaces).
package dqbf

import (
	"github.com/sirupsen/logrus"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/cegar"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/decisionlist"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/equivalence"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/expansion"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/metrics"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/model"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/satsvc"
)

// defaultMaxEnumeratedUniversals bounds EnumerateModelFunctions: 2^20
// assignments is already well beyond what a human inspecting model
// functions in a CLI report would want, and the cap is reported, not
// silently truncated (spec §9 supplemented-feature decision).
const defaultMaxEnumeratedUniversals = 20

// Solver is the public DQBF decision procedure (spec §6).
type Solver struct {
	log logrus.FieldLogger

	compiled   *model.Compiled
	cxSolver   satsvc.Service
	expSolver  satsvc.Service
	encoder    *decisionlist.Encoder
	expansions *expansion.Registry
	engine     *cegar.CounterexampleEngine
	refine     *cegar.RefinementEngine
	driver     *cegar.Driver

	metrics                 metrics.Provider
	maxEnumeratedUniversals int
}

// Option configures a Solver at construction time.
type Option func(*options) error

type options struct {
	log                     logrus.FieldLogger
	metrics                 metrics.Provider
	maxEnumeratedUniversals int
}

// WithLogger injects a structured logger used throughout the solver.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) error {
		o.log = log
		return nil
	}
}

// WithMetrics injects a metrics.Provider. The default is a no-op.
func WithMetrics(mp metrics.Provider) Option {
	return func(o *options) error {
		o.metrics = mp
		return nil
	}
}

// WithMaxEnumeratedUniversals overrides the cap EnumerateModelFunctions
// reports against instead of silently enumerating an intractable
// number of assignments.
func WithMaxEnumeratedUniversals(n int) Option {
	return func(o *options) error {
		o.maxEnumeratedUniversals = n
		return nil
	}
}

// New builds a Solver from the parser collaborator's output (spec
// §6's constructor inputs), loads the matrix into a fresh
// counterexample solver, and initializes a decision list for every
// existential.
func New(in model.Instance, opts ...Option) (*Solver, error) {
	o := &options{
		log:                     logrus.StandardLogger(),
		metrics:                 metrics.NoOp(),
		maxEnumeratedUniversals: defaultMaxEnumeratedUniversals,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	compiled, err := model.Compile(in)
	if err != nil {
		return nil, err
	}

	cxSolver := satsvc.New()
	for _, clause := range compiled.Matrix.Clauses {
		cxSolver.AddClause(clause)
	}
	expSolver := satsvc.New()

	encoder := decisionlist.New(cxSolver, compiled.Counter, compiled.Registry, o.log)
	for _, e := range compiled.Existentials {
		encoder.Init(e)
	}

	expansions := expansion.New(encoder, compiled.Counter, compiled.Registry, compiled.Dependencies, o.log)
	engine := cegar.NewCounterexampleEngine(cxSolver, encoder, compiled.Existentials, compiled.Universals, compiled.Matrix.OutputGate, o.log)
	refine := cegar.NewRefinementEngine(encoder, expansions, compiled.Dependencies, expSolver, o.log)
	driver := cegar.NewDriver(engine, refine, expSolver, expansions, o.metrics, o.log)

	return &Solver{
		log:                     o.log,
		compiled:                compiled,
		cxSolver:                cxSolver,
		expSolver:               expSolver,
		encoder:                 encoder,
		expansions:              expansions,
		engine:                  engine,
		refine:                  refine,
		driver:                  driver,
		metrics:                 o.metrics,
		maxEnumeratedUniversals: o.maxEnumeratedUniversals,
	}, nil
}

// Solve runs the CEGAR loop to completion.
func (s *Solver) Solve() (cegar.Result, error) {
	return s.driver.Solve()
}

// DetectEquivalentExistentials runs the preprocessing equivalence
// detector of spec §4.8 and returns class representative -> members.
func (s *Solver) DetectEquivalentExistentials() map[prop.ID][]prop.ID {
	detector := equivalence.New(func() satsvc.Service { return satsvc.New() }, s.compiled.Counter, s.compiled.Dependencies, s.compiled.Matrix, s.compiled.Matrix.OutputGate, s.log)
	return detector.Detect(s.compiled.Existentials)
}

// Statistics reports the formula's static shape (spec §6).
func (s *Solver) Statistics() model.Statistics {
	return s.compiled.Statistics()
}

// Universals returns the formula's universal variable ids, in
// introduction order (spec §6 universal_vars).
func (s *Solver) Universals() []prop.ID {
	return s.compiled.Universals
}

// Existentials returns the formula's existential variable ids, sorted
// for determinism.
func (s *Solver) Existentials() []prop.ID {
	return s.compiled.Existentials
}

// NameOf resolves id to its diagnostic name via the variable registry
// (spec §3).
func (s *Solver) NameOf(id prop.ID) string {
	return s.compiled.Registry.NameOf(id)
}

// DependenciesOf returns D_list(e), the ordered universal ids e may
// depend on.
func (s *Solver) DependenciesOf(e prop.ID) []prop.ID {
	return s.compiled.Dependencies.List(e)
}

// ModelFunctions evaluates the current decision-list candidates
// against a single universal assignment and returns the resulting
// existential assignment. It is only meaningful to call after Solve
// has returned cegar.Sat: the decision lists are total functions of
// their universals by construction (every rule list ends in a
// trailing default), so the query below must succeed; ok=false
// surfaces a solver invariant violation instead of panicking.
func (s *Solver) ModelFunctions(universalAssignment []prop.Lit) (existentialAssignment []prop.Lit, ok bool) {
	expansionValue := make(map[prop.ID]prop.Lit, len(s.engine.ExpansionAssignment()))
	for _, l := range s.engine.ExpansionAssignment() {
		expansionValue[l.Var()] = l
	}

	assumptions := make([]prop.Lit, 0, 1+len(s.encoder.Permanent())+3*len(s.compiled.Existentials)+len(universalAssignment))
	assumptions = append(assumptions, s.compiled.Matrix.OutputGate)
	assumptions = append(assumptions, s.encoder.Permanent()...)
	for _, e := range s.compiled.Existentials {
		assumptions = append(assumptions, prop.PosLit(s.encoder.Fire(e)))
		assumptions = append(assumptions, s.encoder.Value(e))

		// An already-installed rule's conclusion may be tied to an
		// expansion variable (decisionlist.Encoder.AddRule's valueVar
		// path) rather than a permanent constant; that variable is
		// otherwise only pinned inside the separate expansion solver,
		// so it must be assumed here too, restricted to e's dependencies
		// and looked up against the last converged expansion assignment
		// (mirrors RefinementEngine.Refine's restrict+lookup and
		// GetCounterexample's use of the expansion assignment).
		restricted := s.compiled.Dependencies.Restrict(e, universalAssignment)
		if x, found := s.expansions.Lookup(e, restricted); found {
			if lit, known := expansionValue[x]; known {
				assumptions = append(assumptions, lit)
			}
		}
	}
	assumptions = append(assumptions, universalAssignment...)

	if !s.cxSolver.Solve(assumptions) {
		return nil, false
	}

	existentialSet := make(map[prop.ID]struct{}, len(s.compiled.Existentials))
	for _, e := range s.compiled.Existentials {
		existentialSet[e] = struct{}{}
	}
	m := s.cxSolver.Model()
	out := make([]prop.Lit, 0, len(s.compiled.Existentials))
	for _, l := range m {
		if _, isExistential := existentialSet[l.Var()]; isExistential {
			out = append(out, l)
		}
	}
	return out, true
}

// EnumerateModelFunctions evaluates ModelFunctions over every
// universal assignment and returns a map keyed by the assignment's
// diagnostic rendering. ok=false means the universal count exceeds
// the configured cap, or ModelFunctions returned ok=false for some
// assignment: the result is reported as incomplete, never
// silently truncated (spec §9 supplemented-feature decision, grounded
// on the original's _enumerate_and_compute_model_functions).
func (s *Solver) EnumerateModelFunctions() (map[string][]prop.Lit, bool) {
	n := len(s.compiled.Universals)
	if n > s.maxEnumeratedUniversals {
		return nil, false
	}
	total := 1 << uint(n)
	results := make(map[string][]prop.Lit, total)
	for mask := 0; mask < total; mask++ {
		assignment := make([]prop.Lit, n)
		for i, u := range s.compiled.Universals {
			if mask&(1<<uint(i)) != 0 {
				assignment[i] = prop.PosLit(u)
			} else {
				assignment[i] = prop.NegLit(u)
			}
		}
		existentialAssignment, ok := s.ModelFunctions(assignment)
		if !ok {
			return nil, false
		}
		results[s.compiled.Registry.FormatLits(assignment)] = existentialAssignment
	}
	return results, true
}
