package satsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
)

func lit(n int) prop.Lit { return prop.Lit(n) }

func TestSolveSatisfiable(t *testing.T) {
	s := New()
	// (x1 v x2)
	s.AddClause([]prop.Lit{lit(1), lit(2)})

	ok := s.Solve([]prop.Lit{lit(-1)})
	assert.True(t, ok)

	var x2 prop.Lit
	for _, l := range s.Model() {
		if l.Var() == 2 {
			x2 = l
		}
	}
	assert.True(t, x2.Positive(), "x2 must be forced true when x1 is false")
}

func TestSolveUnsatisfiable(t *testing.T) {
	s := New()
	s.AddClause([]prop.Lit{lit(1)})
	s.AddClause([]prop.Lit{lit(-1)})

	ok := s.Solve(nil)
	assert.False(t, ok)
}

func TestCoreIsSubsetOfAssumptions(t *testing.T) {
	s := New()
	// x1 <-> x2, assuming x1 and -x2 is unsatisfiable.
	s.AddClause([]prop.Lit{lit(-1), lit(2)})
	s.AddClause([]prop.Lit{lit(1), lit(-2)})

	ok := s.Solve([]prop.Lit{lit(1), lit(-2)})
	assert.False(t, ok)

	core := s.Core()
	assert.NotEmpty(t, core)
	for _, l := range core {
		assert.Contains(t, []prop.Lit{lit(1), lit(-2)}, l)
	}
}

func TestTwoIndependentInstances(t *testing.T) {
	a := New()
	b := New()

	a.AddClause([]prop.Lit{lit(1)})
	b.AddClause([]prop.Lit{lit(-1)})

	assert.True(t, a.Solve(nil))
	assert.True(t, b.Solve(nil))
}
