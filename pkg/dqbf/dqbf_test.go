package dqbf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/cegar"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/model"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
)

// Scenario 1: trivial SAT, no universals. (¬e1 ∨ e2), D(e1)=D(e2)=∅.
func TestSolveTrivialSAT(t *testing.T) {
	in := model.Instance{
		NameToID: map[string]prop.ID{"e1": 1, "e2": 2, "g": 3},
		Dependencies: map[string][]string{
			"e1": {},
			"e2": {},
		},
		Matrix: [][]prop.Lit{
			{1, 3},     // e1 ∨ g   (¬a ∨ g), a = ¬e1
			{-2, 3},    // ¬e2 ∨ g (¬b ∨ g), b = e2
			{-1, 2, -3}, // ¬e1 ∨ e2 ∨ ¬g
		},
		OutputGateID: 3,
	}
	s, err := New(in)
	require.NoError(t, err)

	result, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, cegar.Sat, result)
	assert.Equal(t, 0, s.expansions.Count())

	assignment, ok := s.ModelFunctions(nil)
	require.True(t, ok)
	var e1, e2 bool
	for _, l := range assignment {
		switch l.Var() {
		case 1:
			e1 = l.Positive()
		case 2:
			e2 = l.Positive()
		}
	}
	assert.True(t, !e1 || e2, "¬e1 ∨ e2 must hold")
}

// Scenario 2: trivial UNSAT. e ∧ ¬e, no dependencies.
func TestSolveTrivialUNSAT(t *testing.T) {
	in := model.Instance{
		NameToID: map[string]prop.ID{"e": 1, "g": 2},
		Dependencies: map[string][]string{
			"e": {},
		},
		Matrix: [][]prop.Lit{
			{-2, 1},
			{-2, -1},
			{2, -1, 1},
		},
		OutputGateID: 2,
	}
	s, err := New(in)
	require.NoError(t, err)

	result, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, cegar.Unsat, result)
}

// Scenario 3: linear QBF as DQBF. ∀u ∃e(D={u}). u ↔ e.
func TestSolveLinearQBF(t *testing.T) {
	in := model.Instance{
		NameToID: map[string]prop.ID{"u": 1, "e": 2, "g": 3},
		Dependencies: map[string][]string{
			"e": {"u"},
		},
		Matrix: [][]prop.Lit{
			{-3, -1, 2},
			{-3, 1, -2},
			{3, 1, 2},
			{3, -1, -2},
		},
		UniversalVars: []string{"u"},
		OutputGateID:  3,
	}
	s, err := New(in)
	require.NoError(t, err)

	result, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, cegar.Sat, result)
	assert.Equal(t, 2, s.expansions.Count())

	eTrue, ok := s.ModelFunctions([]prop.Lit{prop.PosLit(1)})
	require.True(t, ok)
	assert.True(t, modelHas(eTrue, 2, true))

	eFalse, ok := s.ModelFunctions([]prop.Lit{prop.NegLit(1)})
	require.True(t, ok)
	assert.True(t, modelHas(eFalse, 2, false))
}

// Scenario 4: Henkin branching, expected UNSAT.
// ∀u1 u2 ∃e1(D={u1}), e2(D={u2}). (e1↔u1) ∧ (e2↔u2) ∧ (e1∨e2).
func TestSolveHenkinBranchingUNSAT(t *testing.T) {
	in := model.Instance{
		NameToID: map[string]prop.ID{
			"u1": 1, "u2": 2, "e1": 3, "e2": 4,
			"g1": 6, "g2": 7, "g3": 8, "g": 5,
		},
		Dependencies: map[string][]string{
			"e1": {"u1"},
			"e2": {"u2"},
		},
		Matrix: [][]prop.Lit{
			// g1 <-> (e1 <-> u1)
			{-6, -3, 1}, {-6, 3, -1}, {6, 3, 1}, {6, -3, -1},
			// g2 <-> (e2 <-> u2)
			{-7, -4, 2}, {-7, 4, -2}, {7, 4, 2}, {7, -4, -2},
			// g3 <-> (e1 ∨ e2)
			{-3, 8}, {-4, 8}, {3, 4, -8},
			// g <-> (g1 ∧ g2 ∧ g3)
			{-5, 6}, {-5, 7}, {-5, 8}, {5, -6, -7, -8},
		},
		UniversalVars: []string{"u1", "u2"},
		OutputGateID:  5,
	}
	s, err := New(in)
	require.NoError(t, err)

	result, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, cegar.Unsat, result)
}

func modelHas(assignment []prop.Lit, v prop.ID, positive bool) bool {
	for _, l := range assignment {
		if l.Var() == v {
			return l.Positive() == positive
		}
	}
	return false
}
