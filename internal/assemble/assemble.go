// Package assemble runs the substitution engine or the scalar updater over
// every collection of a model.
package assemble

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/symparam/internal/ctxlog"
	"github.com/specialistvlad/symparam/internal/expr"
	"github.com/specialistvlad/symparam/internal/model"
	"github.com/specialistvlad/symparam/internal/scalarupdate"
	"github.com/specialistvlad/symparam/internal/substitute"
)

// ErrEmptyModel is returned for models with neither RHS nor algebraic
// equations.
var ErrEmptyModel = errors.New("model has no equations")

// Mode selects the pass Assemble applies.
type Mode int

const (
	// ModeSubstitute rebuilds every tree with parameters resolved.
	ModeSubstitute Mode = iota
	// ModeUpdate refreshes the values of already substituted trees in place.
	ModeUpdate
)

func (m Mode) String() string {
	switch m {
	case ModeSubstitute:
		return "substitute"
	case ModeUpdate:
		return "update"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Discretiser rebuilds the discretised form of a model after its parameter
// values change.
type Discretiser interface {
	Rediscretise(ctx context.Context, m *model.Model) error
}

// Assembler applies a parameter pass to whole models.
type Assembler struct {
	engine  *substitute.Engine
	updater *scalarupdate.Updater
}

// New creates an assembler. A nil updater is replaced by one built on engine.
func New(engine *substitute.Engine, updater *scalarupdate.Updater) *Assembler {
	if updater == nil {
		updater = scalarupdate.New(engine)
	}
	return &Assembler{engine: engine, updater: updater}
}

// Engine returns the substitution engine the assembler runs.
func (a *Assembler) Engine() *substitute.Engine { return a.engine }

func (a *Assembler) pass(mode Mode) func(expr.Node) (expr.Node, error) {
	if mode == ModeUpdate {
		return a.updater.Update
	}
	return a.engine.Process
}

// Assemble applies mode to every collection of m, replacing their trees in
// place. On error the model is left partially processed and must not be used.
func (a *Assembler) Assemble(ctx context.Context, m *model.Model, mode Mode) error {
	logger := ctxlog.FromContext(ctx).With("model", m.Name, "mode", mode.String())
	if m.IsEmpty() {
		return fmt.Errorf("cannot assemble %q: %w", m.Name, ErrEmptyModel)
	}
	logger.Info("Assembling model.", "rhs", m.RHS.Len(), "algebraic", m.Algebraic.Len())
	apply := a.pass(mode)

	for _, c := range []struct {
		name string
		eqs  *model.Equations
	}{
		{"rhs", m.RHS},
		{"algebraic", m.Algebraic},
		{"initial condition", m.InitialConditions},
	} {
		for i := 0; i < c.eqs.Len(); i++ {
			key, eq := c.eqs.At(i)
			logger.Debug("Processing equation.", "collection", c.name, "unknown", key.String())
			out, err := apply(eq)
			if err != nil {
				return fmt.Errorf("%s for %s: %w", c.name, key, err)
			}
			c.eqs.Replace(i, out)
		}
	}

	for i, bc := range m.BoundaryConditions {
		logger.Debug("Processing boundary conditions.", "unknown", bc.Unknown.String(), "sides", len(bc.Sides))
		processed, err := a.boundaryCondition(apply, bc)
		if err != nil {
			return err
		}
		m.BoundaryConditions[i] = processed
	}

	for _, c := range []struct {
		name  string
		named *model.Named
	}{
		{"variable", m.Variables},
		{"event", m.Events},
	} {
		for i := 0; i < c.named.Len(); i++ {
			name, eq := c.named.At(i)
			logger.Debug("Processing equation.", "collection", c.name, "name", name)
			out, err := apply(eq)
			if err != nil {
				return fmt.Errorf("%s %q: %w", c.name, name, err)
			}
			c.named.Replace(i, out)
		}
	}

	logger.Info("Finished assembling model.", "substitutions", a.engine.Substitutions())
	return nil
}

// boundaryCondition processes the unknown so that it matches the processed
// equations, and each recognized side present in bc. Condition types are kept.
func (a *Assembler) boundaryCondition(apply func(expr.Node) (expr.Node, error), bc model.BoundaryCondition) (model.BoundaryCondition, error) {
	unknown, err := apply(bc.Unknown)
	if err != nil {
		return bc, fmt.Errorf("boundary condition unknown %s: %w", bc.Unknown, err)
	}
	out := model.BoundaryCondition{Unknown: unknown, Sides: make(map[model.Side]model.Condition, len(bc.Sides))}
	for _, side := range model.Sides {
		cond, ok := bc.Sides[side]
		if !ok {
			continue
		}
		processed, err := apply(cond.Expr)
		if err != nil {
			return bc, fmt.Errorf("boundary condition %s at %s: %w", bc.Unknown, side, err)
		}
		out.Sides[side] = model.Condition{Expr: processed, Type: cond.Type}
	}
	return out, nil
}

// ProcessGeometry substitutes the coordinate limits and tab values of g.
func (a *Assembler) ProcessGeometry(ctx context.Context, g *model.Geometry) error {
	logger := ctxlog.FromContext(ctx)
	for _, d := range g.Domains {
		logger.Debug("Processing geometry.", "domain", d.Domain)
		for i := range d.Coordinates {
			c := &d.Coordinates[i]
			lo, err := a.engine.Process(c.Limits.Min)
			if err != nil {
				return fmt.Errorf("geometry %s %s min: %w", d.Domain, c.Variable, err)
			}
			hi, err := a.engine.Process(c.Limits.Max)
			if err != nil {
				return fmt.Errorf("geometry %s %s max: %w", d.Domain, c.Variable, err)
			}
			c.Limits = model.Limits{Min: lo, Max: hi}
		}
		for i := range d.Tabs {
			tab := &d.Tabs[i]
			v, err := a.engine.Process(tab.Value)
			if err != nil {
				return fmt.Errorf("geometry %s %s tab %s: %w", d.Domain, tab.Tab, tab.Property, err)
			}
			tab.Value = v
		}
	}
	return nil
}

// UpdateModel refreshes the values of an assembled model and asks the
// discretiser to rebuild its discretised form.
func (a *Assembler) UpdateModel(ctx context.Context, m *model.Model, d Discretiser) error {
	if err := a.Assemble(ctx, m, ModeUpdate); err != nil {
		return err
	}
	if d == nil {
		return nil
	}
	if err := d.Rediscretise(ctx, m); err != nil {
		return fmt.Errorf("rediscretising %q: %w", m.Name, err)
	}
	return nil
}
