// Package expr defines the expression tree that models are written in.
//
// The tree is a closed set of node kinds (Parameter, FunctionParameter, Scalar,
// Variable, Time, SpatialVariable, StateVector, Binary, Unary, Function,
// Interpolant and Concatenation). Every node carries an ID derived from its
// structure at construction time, so two structurally identical subtrees share
// an ID no matter where they live in memory. Downstream passes (parameter
// substitution, scalar updates) use the ID as a memoization key.
//
// Nodes are immutable once built, with one exception: (*Scalar).SetValue
// rewrites a scalar's value cell in place and recomputes its ID. Callers that
// hold a reference to the scalar observe the new value.
//
// Traversal helpers (PreOrder, Walk, Equal, Evaluate) use an explicit work
// stack so that very deep trees, such as long sums of terms, do not exhaust the
// goroutine stack.
package expr
