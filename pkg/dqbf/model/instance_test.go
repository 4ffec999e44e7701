package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
)

// linearQBF builds the compiled instance for "forall u exists e(D={u}). u <-> e",
// encoded directly (no Tseitin gates needed for this tiny matrix).
func linearQBF(t *testing.T) *Compiled {
	t.Helper()
	in := Instance{
		NameToID: map[string]prop.ID{"u": 1, "e": 2},
		IDToName: map[prop.ID]string{1: "u", 2: "e"},
		Dependencies: map[string][]string{
			"e": {"u"},
		},
		Matrix: [][]prop.Lit{
			{-1, 2}, // u -> e
			{1, -2}, // e -> u
		},
		UniversalVars: []string{"u"},
		OutputGateID:  0, // no Tseitin gate: matrix already is the goal
	}
	c, err := Compile(in)
	require.NoError(t, err)
	return c
}

func TestCompileLinearQBF(t *testing.T) {
	c := linearQBF(t)

	assert.Equal(t, []prop.ID{1}, c.Universals)
	assert.Equal(t, []prop.ID{2}, c.Existentials)
	assert.Equal(t, []prop.ID{1}, c.Dependencies.List(2))
	assert.True(t, c.Dependencies.Contains(2, 1))
	assert.Equal(t, prop.ID(2), c.Counter.Watermark())
	assert.Equal(t, prop.ID(3), c.Counter.Next())
}

func TestCompileUnknownExistentialInDependencies(t *testing.T) {
	_, err := Compile(Instance{
		NameToID:     map[string]prop.ID{"u": 1},
		Dependencies: map[string][]string{"e": {"u"}},
	})
	assert.Error(t, err)
}

func TestCompileAggregatesAllValidationErrors(t *testing.T) {
	_, err := Compile(Instance{
		NameToID:      map[string]prop.ID{"e": 1},
		Dependencies:  map[string][]string{"e": {"u"}, "missing": {}},
		UniversalVars: []string{"also-missing"},
	})
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "missing")
	assert.Contains(t, msg, "also-missing")
}

func TestCompileIsDeterministicAcrossEquivalentInputs(t *testing.T) {
	a := linearQBF(t)
	b := linearQBF(t)
	if diff := cmp.Diff(a.Existentials, b.Existentials); diff != "" {
		t.Errorf("Existentials differ between two compiles of the same instance (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(a.Universals, b.Universals); diff != "" {
		t.Errorf("Universals differ between two compiles of the same instance (-first +second):\n%s", diff)
	}
}

func TestCompileUnknownUniversalInDependencies(t *testing.T) {
	_, err := Compile(Instance{
		NameToID:     map[string]prop.ID{"e": 1},
		Dependencies: map[string][]string{"e": {"u"}},
	})
	assert.Error(t, err)
}

func TestStatistics(t *testing.T) {
	c := linearQBF(t)
	stats := c.Statistics()

	assert.Equal(t, 2, stats.TotalVariables)
	assert.Equal(t, 1, stats.UniversalVariables)
	assert.Equal(t, 1, stats.ExistentialVariables)
	assert.Equal(t, 2, stats.Clauses)
	assert.Equal(t, 2, stats.MaxClauseSize)
	assert.Equal(t, 2.0, stats.AvgClauseSize)
	assert.Equal(t, 1, stats.MaxDependencies)
}

func TestDependenciesRestrict(t *testing.T) {
	c := linearQBF(t)
	restricted := c.Dependencies.Restrict(2, []prop.Lit{1, -5})
	assert.Equal(t, []prop.Lit{1}, restricted)
}
