// Package expansion implements the expansion-variable registry of
// spec §4.4: a canonical, monotone interning of (existential,
// dependency-restricted universal assignment) pairs to fresh
// propositional ids, each backed by a decision-list rule the first
// time it's created.
package expansion

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/decisionlist"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/dqbferrors"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/idalloc"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/model"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
)

// key canonicalizes an assignment restricted to D(e): sorted by
// variable id so that permutations of the same assignment collide.
type key string

func makeKey(assignment []prop.Lit) key {
	sorted := make([]prop.Lit, len(assignment))
	copy(sorted, assignment)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Var() < sorted[j].Var() })
	var b strings.Builder
	for i, l := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(l.String())
	}
	return key(b.String())
}

// Registry is the sole producer of expansion variables: every
// existential/assignment pair maps to exactly one id for the lifetime
// of the solve.
type Registry struct {
	log      logrus.FieldLogger
	counter  *idalloc.Counter
	registry *model.Registry
	deps     *model.Dependencies
	encoder  *decisionlist.Encoder

	byExistential map[prop.ID]map[key]prop.ID
	count         int
}

// New returns an expansion registry that installs decision-list rules
// through enc and mints fresh ids from counter.
func New(enc *decisionlist.Encoder, counter *idalloc.Counter, registry *model.Registry, deps *model.Dependencies, log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		log:           log,
		counter:       counter,
		registry:      registry,
		deps:          deps,
		encoder:       enc,
		byExistential: make(map[prop.ID]map[key]prop.ID),
	}
}

// Count returns the number of expansion variables minted so far,
// across every existential.
func (r *Registry) Count() int {
	return r.count
}

// IDs returns every expansion variable minted so far (exp_id_set),
// used to project an expansion-solver model down to the variables
// that matter for the next counterexample query.
func (r *Registry) IDs() []prop.ID {
	ids := make([]prop.ID, 0, r.count)
	for _, bucket := range r.byExistential {
		for _, id := range bucket {
			ids = append(ids, id)
		}
	}
	return ids
}

// Get returns the expansion variable for (e, universalAssignment),
// creating it (and an accompanying decision-list rule with premise
// universalAssignment) the first time this exact pair is requested.
// universalAssignment must only mention variables in D(e); any other
// variable is a caller bug (spec §7, AssignmentOutsideDependencies).
func (r *Registry) Get(e prop.ID, universalAssignment []prop.Lit) (prop.ID, error) {
	if !r.encoder.Initialized(e) {
		return 0, &dqbferrors.UninitializedExistential{ID: stringer(r.registry.NameOf(e)), Op: "get_expansion"}
	}
	for _, l := range universalAssignment {
		if !r.deps.Contains(e, l.Var()) {
			return 0, &dqbferrors.AssignmentOutsideDependencies{
				Existential: stringer(r.registry.NameOf(e)),
				Offending:   stringer(r.registry.NameOf(l.Var())),
			}
		}
	}

	k := makeKey(universalAssignment)
	bucket, ok := r.byExistential[e]
	if !ok {
		bucket = make(map[key]prop.ID)
		r.byExistential[e] = bucket
	}
	if id, ok := bucket[k]; ok {
		return id, nil
	}

	id := r.counter.Next()
	name := r.registry.NameOf(e)
	r.registry.Name(id, name+"_exp_"+string(k))
	if err := r.encoder.AddRule(e, universalAssignment, true, &id); err != nil {
		return 0, err
	}
	bucket[k] = id
	r.count++

	r.log.WithFields(logrus.Fields{
		"existential": name,
		"assignment":  r.registry.FormatLits(universalAssignment),
		"expansion":   id,
	}).Debug("created expansion variable")
	return id, nil
}

// Lookup reports the expansion variable already interned for (e,
// universalAssignment), without creating one. Unlike Get, this never
// mutates the registry or the decision-list encoder; callers that
// only want to read a converged model (e.g. ModelFunctions) use this
// instead of Get so that inspecting a solved instance never installs
// new, unconstrained decision-list rules.
func (r *Registry) Lookup(e prop.ID, universalAssignment []prop.Lit) (prop.ID, bool) {
	bucket, ok := r.byExistential[e]
	if !ok {
		return 0, false
	}
	id, ok := bucket[makeKey(universalAssignment)]
	return id, ok
}

type stringer string

func (s stringer) String() string { return string(s) }
