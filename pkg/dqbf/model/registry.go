// Package model holds the immutable inputs handed to the solver by
// its parser collaborator (spec §6) and the variable registry that
// every auxiliary id gets named into (spec §3).
package model

import (
	"fmt"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
)

// DuplicateName is the error for an identifier that appears twice in
// the input. Nothing in this package returns it: NewRegistry does not
// check its tables for duplicates.
type DuplicateName string

func (e DuplicateName) Error() string {
	return fmt.Sprintf("duplicate identifier %q in input", string(e))
}

// Registry is the bijective name<->id mapping of spec §3. It covers
// original universals and existentials, Tseitin gate variables, and
// auxiliary ids minted afterwards. The decision-list encoder and the
// expansion registry call Name immediately after each allocation; the
// equivalence detector's per-pair activation literals are not named,
// and NameOf renders those ids with its placeholder.
type Registry struct {
	nameToID map[string]prop.ID
	idToName map[prop.ID]string
}

// NewRegistry builds a Registry from the parser's bijective tables.
func NewRegistry(nameToID map[string]prop.ID, idToName map[prop.ID]string) *Registry {
	r := &Registry{
		nameToID: make(map[string]prop.ID, len(nameToID)),
		idToName: make(map[prop.ID]string, len(idToName)),
	}
	for name, id := range nameToID {
		r.nameToID[name] = id
		r.idToName[id] = name
	}
	for id, name := range idToName {
		if _, ok := r.idToName[id]; !ok {
			r.idToName[id] = name
		}
	}
	return r
}

// Name binds a mnemonic name to a freshly allocated id. It never
// fails on a fresh id: auxiliary names exist purely for diagnostics
// and are not required to be globally unique.
func (r *Registry) Name(id prop.ID, name string) {
	r.idToName[id] = name
	if _, exists := r.nameToID[name]; !exists {
		r.nameToID[name] = id
	}
}

// NameOf returns the diagnostic name of id, or a synthesized
// placeholder if none was ever recorded.
func (r *Registry) NameOf(id prop.ID) string {
	if name, ok := r.idToName[id]; ok {
		return name
	}
	return fmt.Sprintf("id%d", id)
}

// IDOf resolves a name to its id.
func (r *Registry) IDOf(name string) (prop.ID, bool) {
	id, ok := r.nameToID[name]
	return id, ok
}

// litString renders a literal using the registry's names, e.g. "x3"
// or "~x3", matching the diagnostic format of the original Python
// solver's _format_literals.
func (r *Registry) litString(l prop.Lit) string {
	if l.Positive() {
		return r.NameOf(l.Var())
	}
	return "~" + r.NameOf(l.Var())
}

// FormatLits renders a slice of literals for log messages.
func (r *Registry) FormatLits(lits []prop.Lit) string {
	s := "["
	for i, l := range lits {
		if i > 0 {
			s += ", "
		}
		s += r.litString(l)
	}
	return s + "]"
}
