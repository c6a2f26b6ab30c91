// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines boundary conditions and the sides they can be imposed on.
package model

import (
	"fmt"

	"github.com/specialistvlad/symparam/internal/expr"
)

// Side is a location where a boundary condition may be imposed.
type Side string

const (
	SideLeft        Side = "left"
	SideRight       Side = "right"
	SideNegativeTab Side = "negative tab"
	SidePositiveTab Side = "positive tab"
	SideNoTab       Side = "no tab"
)

// Sides lists every recognized side in a fixed order.
var Sides = []Side{SideLeft, SideRight, SideNegativeTab, SidePositiveTab, SideNoTab}

// ParseSide accepts both the display form ("negative tab") and the
// identifier form ("negative_tab").
func ParseSide(s string) (Side, error) {
	for _, side := range Sides {
		if s == string(side) || s == side.Ident() {
			return side, nil
		}
	}
	return "", fmt.Errorf("unknown boundary side %q", s)
}

// Ident is the side's name with spaces replaced by underscores.
func (s Side) Ident() string {
	b := []byte(s)
	for i := range b {
		if b[i] == ' ' {
			b[i] = '_'
		}
	}
	return string(b)
}

// ConditionType distinguishes fixed-value from fixed-flux conditions.
type ConditionType int

const (
	Dirichlet ConditionType = iota
	Neumann
)

func (t ConditionType) String() string {
	switch t {
	case Dirichlet:
		return "Dirichlet"
	case Neumann:
		return "Neumann"
	}
	return fmt.Sprintf("ConditionType(%d)", int(t))
}

// ParseConditionType parses "Dirichlet" or "Neumann".
func ParseConditionType(s string) (ConditionType, error) {
	switch s {
	case "Dirichlet", "dirichlet":
		return Dirichlet, nil
	case "Neumann", "neumann":
		return Neumann, nil
	}
	return 0, fmt.Errorf("unknown boundary condition type %q", s)
}

// Condition is the expression imposed at one side.
type Condition struct {
	Expr expr.Node
	Type ConditionType
}

// BoundaryCondition groups the conditions imposed on one unknown.
type BoundaryCondition struct {
	Unknown expr.Node
	Sides   map[Side]Condition
}
