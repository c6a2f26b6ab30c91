// Package substitute rewrites expression trees by resolving their Parameter
// and FunctionParameter leaves against a parameter table.
//
// An Engine memoizes results by node ID, so a subtree referenced many times in
// a model is rewritten once. The memo belongs to one table and is dropped as
// soon as the table's version moves.
package substitute
