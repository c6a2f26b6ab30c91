// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the ordered equation containers.
//
// Go maps have no stable iteration order, and two runs over the same model
// must produce identical trees. Both containers therefore keep insertion order
// in a slice and index it by key.
package model

import (
	"github.com/specialistvlad/symparam/internal/expr"
)

// Equations maps unknowns to expressions, keyed by the unknown's ID.
type Equations struct {
	keys  []expr.Node
	exprs []expr.Node
	index map[expr.ID]int
}

// NewEquations creates an empty collection.
func NewEquations() *Equations {
	return &Equations{index: make(map[expr.ID]int)}
}

// Set binds key to eq. Rebinding a key keeps its original position.
func (e *Equations) Set(key, eq expr.Node) {
	if i, ok := e.index[key.ID()]; ok {
		e.exprs[i] = eq
		return
	}
	e.index[key.ID()] = len(e.keys)
	e.keys = append(e.keys, key)
	e.exprs = append(e.exprs, eq)
}

// Get returns the expression bound to key.
func (e *Equations) Get(key expr.Node) (expr.Node, bool) {
	i, ok := e.index[key.ID()]
	if !ok {
		return nil, false
	}
	return e.exprs[i], true
}

// Len is the number of equations.
func (e *Equations) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// At returns the i-th key and expression.
func (e *Equations) At(i int) (key, eq expr.Node) {
	return e.keys[i], e.exprs[i]
}

// Replace swaps the expression at position i, keeping its key.
func (e *Equations) Replace(i int, eq expr.Node) {
	e.exprs[i] = eq
}

// Keys returns the unknowns in insertion order.
func (e *Equations) Keys() []expr.Node {
	return append([]expr.Node(nil), e.keys...)
}

// Named maps names to expressions.
type Named struct {
	names []string
	exprs []expr.Node
	index map[string]int
}

// NewNamed creates an empty collection.
func NewNamed() *Named {
	return &Named{index: make(map[string]int)}
}

// Set binds name to eq. Rebinding a name keeps its original position.
func (n *Named) Set(name string, eq expr.Node) {
	if i, ok := n.index[name]; ok {
		n.exprs[i] = eq
		return
	}
	n.index[name] = len(n.names)
	n.names = append(n.names, name)
	n.exprs = append(n.exprs, eq)
}

// Get returns the expression bound to name.
func (n *Named) Get(name string) (expr.Node, bool) {
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.exprs[i], true
}

// Len is the number of entries.
func (n *Named) Len() int {
	if n == nil {
		return 0
	}
	return len(n.names)
}

// At returns the i-th name and expression.
func (n *Named) At(i int) (string, expr.Node) {
	return n.names[i], n.exprs[i]
}

// Replace swaps the expression at position i.
func (n *Named) Replace(i int, eq expr.Node) {
	n.exprs[i] = eq
}

// Names returns the names in insertion order.
func (n *Named) Names() []string {
	return append([]string(nil), n.names...)
}
