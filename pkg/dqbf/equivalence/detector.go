// Package equivalence implements the preprocessing equivalence
// detector of spec §4.8: existentials sharing an identical dependency
// vector are grouped by reducing pairwise equivalence to a SAT query
// under a per-pair activation literal.
package equivalence

import (
	"github.com/sirupsen/logrus"

	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/idalloc"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/model"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/prop"
	"github.com/fslivovsky/dqbfsolve/pkg/dqbf/satsvc"
)

// unionFind is a minimal disjoint-set structure over existential ids.
type unionFind struct {
	parent map[prop.ID]prop.ID
}

func newUnionFind(ids []prop.ID) *unionFind {
	uf := &unionFind{parent: make(map[prop.ID]prop.ID, len(ids))}
	for _, id := range ids {
		uf.parent[id] = id
	}
	return uf
}

func (uf *unionFind) find(x prop.ID) prop.ID {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b prop.ID) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = rb
	}
}

// Detector runs the dependency-length-bucketed pairwise equivalence
// query. It does not mutate the matrix solver used by the rest of
// the solver core; it bootstraps one dedicated service per bucket.
type Detector struct {
	log        logrus.FieldLogger
	newService func() satsvc.Service
	counter    *idalloc.Counter
	deps       *model.Dependencies
	matrix     *model.Matrix
	outputGate prop.Lit
}

// New builds a Detector. newService must return a fresh, empty SAT
// service each call (spec §9 resolves the "dedicated SAT service"
// wording in favor of one fresh instance per dependency-length
// bucket, reused across every pair in that bucket, rather than one
// per pair: the matrix only needs to be reloaded once per bucket, and
// per-pair activation literals are never retracted anyway since
// clauses are append-only throughout this solver).
func New(newService func() satsvc.Service, counter *idalloc.Counter, deps *model.Dependencies, matrix *model.Matrix, outputGate prop.Lit, log logrus.FieldLogger) *Detector {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Detector{
		log:        log,
		newService: newService,
		counter:    counter,
		deps:       deps,
		matrix:     matrix,
		outputGate: outputGate,
	}
}

func loadMatrix(svc satsvc.Service, m *model.Matrix) {
	for _, clause := range m.Clauses {
		svc.AddClause(clause)
	}
}

// Detect partitions existentials into equivalence classes, returning
// a map from class representative to the full member list (including
// the representative itself).
func (d *Detector) Detect(existentials []prop.ID) map[prop.ID][]prop.ID {
	buckets := make(map[int][]prop.ID)
	for _, e := range existentials {
		n := d.deps.Len(e)
		buckets[n] = append(buckets[n], e)
	}

	uf := newUnionFind(existentials)

	for _, bucket := range buckets {
		if len(bucket) < 2 {
			continue
		}
		svc := d.newService()
		loadMatrix(svc, d.matrix)

		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				e1, e2 := bucket[i], bucket[j]
				if uf.find(e1) == uf.find(e2) {
					continue
				}
				if d.equivalent(svc, e1, e2) {
					uf.union(e1, e2)
				}
			}
		}
	}

	classes := make(map[prop.ID][]prop.ID)
	for _, e := range existentials {
		rep := uf.find(e)
		classes[rep] = append(classes[rep], e)
	}
	return classes
}

// equivalent runs the per-pair SAT query of spec §4.8: UNSAT under
// matching dependency assignments and a satisfied matrix means e1 and
// e2 can never differ.
func (d *Detector) equivalent(svc satsvc.Service, e1, e2 prop.ID) bool {
	activation := d.counter.Next()

	deps1 := d.deps.List(e1)
	deps2 := d.deps.List(e2)
	for j := range deps1 {
		dep1, dep2 := deps1[j], deps2[j]
		svc.AddClause([]prop.Lit{prop.NegLit(activation), prop.PosLit(dep1), prop.NegLit(dep2)})
		svc.AddClause([]prop.Lit{prop.NegLit(activation), prop.NegLit(dep1), prop.PosLit(dep2)})
	}
	svc.AddClause([]prop.Lit{prop.NegLit(activation), prop.PosLit(e1), prop.PosLit(e2)})
	svc.AddClause([]prop.Lit{prop.NegLit(activation), prop.NegLit(e1), prop.NegLit(e2)})

	sat := svc.Solve([]prop.Lit{prop.PosLit(activation), d.outputGate})
	d.log.WithFields(logrus.Fields{"e1": e1, "e2": e2, "equivalent": !sat}).Debug("equivalence query")
	return !sat
}
