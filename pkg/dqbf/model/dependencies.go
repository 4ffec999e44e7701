package model

import "github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"

// Dependencies is the dependency map of spec §3: for each existential
// id, an ordered list of the universal ids it may depend on, plus the
// set for fast membership tests.
type Dependencies struct {
	list map[prop.ID][]prop.ID
	set  map[prop.ID]map[prop.ID]struct{}
}

// NewDependencies builds a Dependencies from existential->ordered
// universal-id lists.
func NewDependencies(byExistential map[prop.ID][]prop.ID) *Dependencies {
	d := &Dependencies{
		list: make(map[prop.ID][]prop.ID, len(byExistential)),
		set:  make(map[prop.ID]map[prop.ID]struct{}, len(byExistential)),
	}
	for e, deps := range byExistential {
		cp := make([]prop.ID, len(deps))
		copy(cp, deps)
		d.list[e] = cp
		s := make(map[prop.ID]struct{}, len(deps))
		for _, u := range deps {
			s[u] = struct{}{}
		}
		d.set[e] = s
	}
	return d
}

// List returns D_list(e), the ordered dependency list.
func (d *Dependencies) List(e prop.ID) []prop.ID {
	return d.list[e]
}

// Contains reports whether u is in D(e).
func (d *Dependencies) Contains(e, u prop.ID) bool {
	_, ok := d.set[e][u]
	return ok
}

// Existentials returns every existential id with a registered
// dependency set, in no particular order.
func (d *Dependencies) Existentials() []prop.ID {
	ids := make([]prop.ID, 0, len(d.list))
	for e := range d.list {
		ids = append(ids, e)
	}
	return ids
}

// Len returns |D(e)|.
func (d *Dependencies) Len(e prop.ID) int {
	return len(d.list[e])
}

// Restrict filters an assignment to universal literals down to those
// whose variable lies in D(e).
func (d *Dependencies) Restrict(e prop.ID, universalAssignment []prop.Lit) []prop.Lit {
	deps := d.set[e]
	out := make([]prop.Lit, 0, len(deps))
	for _, l := range universalAssignment {
		if _, ok := deps[l.Var()]; ok {
			out = append(out, l)
		}
	}
	return out
}
