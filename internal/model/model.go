// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Model aggregate and its geometry.
package model

import (
	"github.com/specialistvlad/symparam/internal/expr"
)

// Model is a set of equation collections over a shared set of unknowns.
type Model struct {
	Name               string
	RHS                *Equations
	Algebraic          *Equations
	InitialConditions  *Equations
	BoundaryConditions []BoundaryCondition
	Variables          *Named
	Events             *Named
}

// New creates a model with empty collections.
func New(name string) *Model {
	return &Model{
		Name:              name,
		RHS:               NewEquations(),
		Algebraic:         NewEquations(),
		InitialConditions: NewEquations(),
		Variables:         NewNamed(),
		Events:            NewNamed(),
	}
}

// AddBoundaryCondition imposes cond on one side of unknown, merging with any
// conditions already given for it.
func (m *Model) AddBoundaryCondition(unknown expr.Node, side Side, cond Condition) {
	for i := range m.BoundaryConditions {
		if m.BoundaryConditions[i].Unknown.ID() == unknown.ID() {
			m.BoundaryConditions[i].Sides[side] = cond
			return
		}
	}
	m.BoundaryConditions = append(m.BoundaryConditions, BoundaryCondition{
		Unknown: unknown,
		Sides:   map[Side]Condition{side: cond},
	})
}

// IsEmpty reports whether the model has no equations to solve.
func (m *Model) IsEmpty() bool {
	return m.RHS.Len() == 0 && m.Algebraic.Len() == 0
}

// Limits bounds a coordinate.
type Limits struct {
	Min, Max expr.Node
}

// Coordinate is one spatial variable of a domain and its range.
type Coordinate struct {
	// Level is "primary" or "secondary".
	Level    string
	Variable string
	Limits   Limits
}

// Tab is one geometric property of a current-collector tab, such as its
// centre position or width.
type Tab struct {
	Tab      string
	Property string
	Value    expr.Node
}

// DomainGeometry describes one domain.
type DomainGeometry struct {
	Domain      string
	Coordinates []Coordinate
	Tabs        []Tab
}

// Geometry is an ordered list of domain geometries.
type Geometry struct {
	Domains []*DomainGeometry
}

// Domain returns the geometry of the named domain, adding it if missing.
func (g *Geometry) Domain(name string) *DomainGeometry {
	for _, d := range g.Domains {
		if d.Domain == name {
			return d
		}
	}
	d := &DomainGeometry{Domain: name}
	g.Domains = append(g.Domains, d)
	return d
}
