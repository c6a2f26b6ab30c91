// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the equation collections of a model: state
// derivatives, algebraic constraints, initial and boundary conditions, output
// variables and events. Each collection is an ordered container of expression
// trees, so anything that walks a model visits equations in the order they
// were added.
//
// # Core Concepts
//
//   - Equations: trees keyed by the unknown they determine (RHS, algebraic,
//     initial conditions).
//
//   - Named: trees keyed by a display name (output variables, events).
//
//   - BoundaryCondition: per unknown, a condition expression and type for each
//     side it is imposed on. Sides that are not imposed are simply absent.
//
//   - Geometry: the coordinate limits and tab positions of each domain, which
//     may themselves be written in terms of parameters.
//
// Model definitions are built unparameterized, handed once to the assembler to
// substitute parameter values, and then optionally re-run through its update
// mode for parameter sweeps. The assembler rewrites the collections in place.
package model
