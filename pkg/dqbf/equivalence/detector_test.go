package equivalence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/idalloc"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/model"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/satsvc"
)

// henkinMatrix encodes (e1 <-> u1) AND (e2 <-> u2), output gate 7
// asserting both biconditionals hold (ids: u1=1, u2=2, e1=3, e2=4,
// g1=5 for e1<->u1, g2=6 for e2<->u2, g*=7 for g1&g2).
func henkinMatrix() *model.Matrix {
	return &model.Matrix{
		Clauses: [][]prop.Lit{
			// g1 <-> (e1 <-> u1)
			{-5, -1, 3}, {-5, 1, -3}, {5, 1, 3}, {5, -1, -3},
			// g2 <-> (e2 <-> u2)
			{-6, -2, 4}, {-6, 2, -4}, {6, 2, 4}, {6, -2, -4},
			// g* <-> (g1 AND g2)
			{-7, 5}, {-7, 6}, {7, -5, -6},
			{7}, // assert g*
		},
		OutputGate: 7,
	}
}

func TestDetectFindsEquivalentExistentialsWithIsomorphicDependencies(t *testing.T) {
	m := henkinMatrix()
	deps := model.NewDependencies(map[prop.ID][]prop.ID{3: {1}, 4: {2}})
	counter := idalloc.New(10)
	d := New(func() satsvc.Service { return satsvc.New() }, counter, deps, m, 7, nil)

	classes := d.Detect([]prop.ID{3, 4})
	assert.Len(t, classes, 1, "e1 and e2 both depend on an isomorphic single universal and the matrix treats them symmetrically")
}

func TestDetectSeparatesDifferentBucketsByDependencyLength(t *testing.T) {
	m := &model.Matrix{Clauses: [][]prop.Lit{{1}}, OutputGate: 1}
	deps := model.NewDependencies(map[prop.ID][]prop.ID{2: {}, 3: {1}})
	counter := idalloc.New(10)
	d := New(func() satsvc.Service { return satsvc.New() }, counter, deps, m, 1, nil)

	classes := d.Detect([]prop.ID{2, 3})
	assert.Len(t, classes, 2)
}

func TestDetectRejectsExistentialForcedEqualToAUniversal(t *testing.T) {
	// e <-> u forced, D(e) = {u}: equivalence query between e and a
	// second existential with the same single-universal dependency
	// but no such forcing should not spuriously merge them if the
	// matrix distinguishes the two.
	m := &model.Matrix{
		Clauses: [][]prop.Lit{
			{-3, 1}, {3, -1}, // e1 <-> u1 (D(e1) = {u1})
			{4},              // e2 forced true regardless of u2 (D(e2) = {u2})
		},
		OutputGate: 5,
	}
	m.Clauses = append(m.Clauses, []prop.Lit{5})
	deps := model.NewDependencies(map[prop.ID][]prop.ID{3: {1}, 4: {2}})
	counter := idalloc.New(10)
	d := New(func() satsvc.Service { return satsvc.New() }, counter, deps, m, 5, nil)

	classes := d.Detect([]prop.ID{3, 4})
	assert.Len(t, classes, 2, "e1 tracks its universal while e2 is a constant: they are not equivalent")
}
