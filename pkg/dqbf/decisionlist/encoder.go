// Package decisionlist implements the per-existential ordered
// decision list encoder of spec §4.3: the candidate Skolem function
// for each existential is represented as a first-match rule list,
// encoded directly into the counterexample solver via auxiliary
// clauses and handles (fire, no-previous-fired, value variables).
package decisionlist

import (
	"github.com/sirupsen/logrus"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/dqbferrors"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/idalloc"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/model"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/satsvc"
)

// Record is the structured, append-once-per-rule diagnostic entry
// spec §9 asks for in place of parallel append-only logs: one value
// per rule instead of three lists mutated out of band.
type Record struct {
	RuleIndex int
	FireID    prop.ID
	NoFiredID prop.ID // zero until this rule is specialized by add_rule
	ValueID   prop.ID
	Premise   []prop.Lit // nil until this rule is specialized
}

type state struct {
	value       prop.Lit // value(e): signed id of the current default
	nofired     prop.ID  // nofired(e): nofired after the last specialized rule
	pendingFire prop.ID  // fire(e): the not-yet-specialized trailing default's fire var
	nextIndex   int
	history     []Record
}

// Encoder maintains decision-list state for a set of existentials
// against a single counterexample solver.
type Encoder struct {
	log      logrus.FieldLogger
	svc      satsvc.Service
	counter  *idalloc.Counter
	registry *model.Registry

	states    map[prop.ID]*state
	permanent []prop.Lit
}

// New returns an Encoder that writes decision-list clauses into svc.
func New(svc satsvc.Service, counter *idalloc.Counter, registry *model.Registry, log logrus.FieldLogger) *Encoder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Encoder{
		log:      log,
		svc:      svc,
		counter:  counter,
		registry: registry,
		states:   make(map[prop.ID]*state),
	}
}

// Initialized reports whether e has been init'd.
func (enc *Encoder) Initialized(e prop.ID) bool {
	_, ok := enc.states[e]
	return ok
}

// Init allocates the initial rule-1 handles for e and asserts the
// decision-list base case. Calling Init twice on the same existential
// is a no-op after the first, per spec §8.
func (enc *Encoder) Init(e prop.ID) {
	if enc.Initialized(e) {
		return
	}
	name := enc.registry.NameOf(e)

	value1 := enc.counter.Next()
	enc.registry.Name(value1, name+"_value_1")
	nofired0 := enc.counter.Next()
	enc.registry.Name(nofired0, name+"_nofired_0")
	fire1 := enc.counter.Next()
	enc.registry.Name(fire1, name+"_fire_1")

	// nofired_0 is unit-asserted true.
	enc.svc.AddClause([]prop.Lit{prop.PosLit(nofired0)})

	// (fire_1 ∧ nofired_0) → (e ↔ value_1).
	enc.svc.AddClause([]prop.Lit{prop.NegLit(nofired0), prop.NegLit(fire1), prop.NegLit(e), prop.PosLit(value1)})
	enc.svc.AddClause([]prop.Lit{prop.NegLit(nofired0), prop.NegLit(fire1), prop.PosLit(e), prop.NegLit(value1)})

	enc.states[e] = &state{
		value:       prop.PosLit(value1),
		nofired:     nofired0,
		pendingFire: fire1,
		nextIndex:   1,
		history:     []Record{{RuleIndex: 1, FireID: fire1, ValueID: value1}},
	}
	enc.log.WithFields(logrus.Fields{"existential": name}).Debug("initialized decision list")
}

// Value returns value(e), the signed literal to assume for e's
// current trailing default.
func (enc *Encoder) Value(e prop.ID) prop.Lit {
	return enc.states[e].value
}

// Fire returns fire(e), the trailing default's firing indicator.
func (enc *Encoder) Fire(e prop.ID) prop.ID {
	return enc.states[e].pendingFire
}

// NoFired returns nofired(e) after the most recently specialized rule.
func (enc *Encoder) NoFired(e prop.ID) prop.ID {
	return enc.states[e].nofired
}

// Permanent returns the permanent assumptions accumulated across all
// existentials' constant-conclusion rules.
func (enc *Encoder) Permanent() []prop.Lit {
	return enc.permanent
}

// History returns the structured rule log for e, in rule-index order.
func (enc *Encoder) History(e prop.ID) []Record {
	return enc.states[e].history
}

// SetDefault replaces value(e)'s sign to reflect the desired default
// (true ↔ positive). Per spec §9, callers that install a rule via
// expansion.Registry.Get before flipping the default must do so in that order:
// the flip only ever affects the trailing default slot, never an
// already-allocated rule-specific value.
func (enc *Encoder) SetDefault(e prop.ID, value bool) error {
	st, ok := enc.states[e]
	if !ok {
		return &dqbferrors.UninitializedExistential{ID: stringer(enc.registry.NameOf(e)), Op: "set_default"}
	}
	st.value = prop.LitOf(st.value.Var(), value)
	return nil
}

// AddRule appends a rule "if premise holds and no previous rule
// fired, then e ↔ conclusion" to e's decision list, and opens a fresh
// trailing default. If valueVar is non-nil, the rule's conclusion is
// tied by equivalence to that variable instead of being a permanent
// constant assumption (spec §4.3, §4.4's expansion-variable use).
func (enc *Encoder) AddRule(e prop.ID, premise []prop.Lit, conclusion bool, valueVar *prop.ID) error {
	st, ok := enc.states[e]
	if !ok {
		return &dqbferrors.UninitializedExistential{ID: stringer(enc.registry.NameOf(e)), Op: "add_rule"}
	}

	k := st.nextIndex
	thisFire := st.pendingFire
	thisValueVar := st.value.Var()
	previousNoFired := st.nofired

	name := enc.registry.NameOf(e)
	nextFire := enc.counter.Next()
	enc.registry.Name(nextFire, name+"_fire_next")
	thisNoFired := enc.counter.Next()
	enc.registry.Name(thisNoFired, name+"_nofired_next")
	nextValue := enc.counter.Next()
	enc.registry.Name(nextValue, name+"_value_next")

	// fire_k ↔ premise.
	for _, p := range premise {
		enc.svc.AddClause([]prop.Lit{prop.NegLit(thisFire), p})
	}
	negatedPremise := make([]prop.Lit, len(premise), len(premise)+1)
	for i, p := range premise {
		negatedPremise[i] = p.Not()
	}
	enc.svc.AddClause(append(negatedPremise, prop.PosLit(thisFire)))

	// nofired_k ↔ (nofired_{k-1} ∧ ¬fire_k).
	enc.svc.AddClause([]prop.Lit{prop.NegLit(thisNoFired), prop.PosLit(previousNoFired)})
	enc.svc.AddClause([]prop.Lit{prop.NegLit(thisNoFired), prop.NegLit(thisFire)})
	enc.svc.AddClause([]prop.Lit{prop.PosLit(thisNoFired), prop.NegLit(previousNoFired), prop.PosLit(thisFire)})

	// Selection for the new trailing default k+1: (fire_{k+1} ∧ nofired_k) → (e ↔ value_{k+1}).
	enc.svc.AddClause([]prop.Lit{prop.NegLit(nextFire), prop.NegLit(thisNoFired), prop.NegLit(e), prop.PosLit(nextValue)})
	enc.svc.AddClause([]prop.Lit{prop.NegLit(nextFire), prop.NegLit(thisNoFired), prop.PosLit(e), prop.NegLit(nextValue)})

	// Conclusion for rule k.
	if valueVar == nil {
		enc.permanent = append(enc.permanent, prop.LitOf(thisValueVar, conclusion))
	} else {
		enc.svc.AddClause([]prop.Lit{prop.NegLit(thisValueVar), prop.PosLit(*valueVar)})
		enc.svc.AddClause([]prop.Lit{prop.PosLit(thisValueVar), prop.NegLit(*valueVar)})
	}

	// Finalize rule k's record and open the next pending record.
	st.history[len(st.history)-1].NoFiredID = thisNoFired
	st.history[len(st.history)-1].Premise = premise
	st.history = append(st.history, Record{RuleIndex: k + 1, FireID: nextFire, ValueID: nextValue})

	st.pendingFire = nextFire
	st.nofired = thisNoFired
	st.value = prop.PosLit(nextValue)
	st.nextIndex = k + 1

	enc.log.WithFields(logrus.Fields{
		"existential": name,
		"rule":        k,
		"premise":     enc.registry.FormatLits(premise),
	}).Debug("installed decision-list rule")
	return nil
}

type stringer string

func (s stringer) String() string { return string(s) }
