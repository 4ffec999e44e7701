// Package dqbferrors defines the error kinds of spec §7. The first
// three are caller bugs reported synchronously without state
// mutation; the latter two indicate internal inconsistency and are
// meant to terminate the process (callers that want to recover
// instead may still inspect them with errors.As).
package dqbferrors

import "fmt"

// InvalidExistential is returned when an id expected to be
// existential is not.
type InvalidExistential struct {
	ID  fmt.Stringer
	Op  string
}

func (e *InvalidExistential) Error() string {
	return fmt.Sprintf("%s: %s is not an existential variable", e.Op, e.ID)
}

// UninitializedExistential is returned when set_default or add_rule
// is invoked before init.
type UninitializedExistential struct {
	ID fmt.Stringer
	Op string
}

func (e *UninitializedExistential) Error() string {
	return fmt.Sprintf("%s: existential %s has not been initialized", e.Op, e.ID)
}

// AssignmentOutsideDependencies is returned when get_expansion
// receives a literal whose variable is not in the existential's
// dependency set.
type AssignmentOutsideDependencies struct {
	Existential fmt.Stringer
	Offending   fmt.Stringer
}

func (e *AssignmentOutsideDependencies) Error() string {
	return fmt.Sprintf("assignment to %s is outside the dependency set of %s", e.Offending, e.Existential)
}

// SolverInvariantViolation indicates the verification counterexample
// query returned SAT, which can only happen if the implementation is
// wrong. It is a fatal assertion, not a runtime condition.
type SolverInvariantViolation struct {
	Detail string
}

func (e *SolverInvariantViolation) Error() string {
	return fmt.Sprintf("solver invariant violated: %s", e.Detail)
}

// Stall indicates two consecutive identical counterexamples were
// observed, meaning the CEGAR loop is not making progress.
type Stall struct {
	Fingerprint uint64
}

func (e *Stall) Error() string {
	return fmt.Sprintf("stalled: counterexample %x repeated with no progress", e.Fingerprint)
}

// SATServiceFailure wraps an error surfaced by the underlying SAT
// engine unchanged, per spec §7: the decision procedure does not
// interpret or retry engine failures, only propagates them with the
// operation that triggered them attached.
type SATServiceFailure struct {
	Op  string
	Err error
}

func (e *SATServiceFailure) Error() string {
	return fmt.Sprintf("%s: sat service failure: %v", e.Op, e.Err)
}

func (e *SATServiceFailure) Unwrap() error {
	return e.Err
}
