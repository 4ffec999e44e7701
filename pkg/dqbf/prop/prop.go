// Package prop defines the propositional primitives shared by every
// component of the DQBF solver: variable ids, signed literals, and
// clauses.
package prop

import "fmt"

// ID is a positive propositional variable identifier. Ids are never
// reused once allocated; see the idalloc package.
type ID uint32

// Lit is a signed, nonzero propositional literal. Its magnitude is a
// variable ID and its sign is the literal's polarity.
type Lit int32

// PosLit returns the positive literal for a variable.
func PosLit(v ID) Lit {
	return Lit(v)
}

// NegLit returns the negative literal for a variable.
func NegLit(v ID) Lit {
	return -Lit(v)
}

// LitOf returns the literal for id with the given sign (true => positive).
func LitOf(id ID, positive bool) Lit {
	if positive {
		return PosLit(id)
	}
	return NegLit(id)
}

// Var returns the variable id underlying a literal.
func (l Lit) Var() ID {
	if l < 0 {
		return ID(-l)
	}
	return ID(l)
}

// Positive reports whether the literal has positive polarity.
func (l Lit) Positive() bool {
	return l > 0
}

// Not returns the negation of the literal.
func (l Lit) Not() Lit {
	return -l
}

func (l Lit) String() string {
	if l.Positive() {
		return fmt.Sprintf("%d", l.Var())
	}
	return fmt.Sprintf("-%d", l.Var())
}

// Clause is a finite disjunction of literals.
type Clause []Lit

// Vars returns the set of distinct variables mentioned by lits.
func Vars(lits []Lit) map[ID]struct{} {
	vs := make(map[ID]struct{}, len(lits))
	for _, l := range lits {
		vs[l.Var()] = struct{}{}
	}
	return vs
}
