// Package hcl provides the HCL front end: parameter files implementing the
// config.Loader interface, function files resolved by "[function]" values,
// and model definition files translated into expression trees.
//
// Expressions in function bodies are evaluated with go-cty numbers. Expressions
// in model files are never evaluated; their syntax trees are translated node
// by node into the expr package's closed set of node kinds.
package hcl
