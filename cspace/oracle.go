package cspace

// EvaluationContext is the handle returned when an oracle is positioned at a configuration. Region growth
// primitives start from it.
type EvaluationContext struct {
	Configuration Configuration
}

// FeasibilityOracle answers collision queries. Implementations usually hold a mutable evaluation context
// that changes on every call, so a single oracle must not be used from several goroutines at once.
type FeasibilityOracle interface {
	// IsFeasible reports whether q is inside the joint limits and collision free.
	IsFeasible(q Configuration) bool
	// CenterOn moves the oracle's evaluation context to q and returns a handle to it.
	CenterOn(q Configuration) *EvaluationContext
}

// Cloner is implemented by oracles that can produce independent copies for use by other goroutines.
type Cloner interface {
	Clone() FeasibilityOracle
}
