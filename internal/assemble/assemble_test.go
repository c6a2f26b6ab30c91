package assemble_test

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/symparam/internal/assemble"
	"github.com/specialistvlad/symparam/internal/callable"
	"github.com/specialistvlad/symparam/internal/expr"
	"github.com/specialistvlad/symparam/internal/model"
	"github.com/specialistvlad/symparam/internal/parameters"
	"github.com/specialistvlad/symparam/internal/registry"
	"github.com/specialistvlad/symparam/internal/substitute"
	"github.com/specialistvlad/symparam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssembler(t *testing.T, values map[string]any) (*parameters.Table, *assemble.Assembler) {
	t.Helper()
	tab, err := parameters.FromValues(values, parameters.WithRegistry(registry.NewWithModules(callable.Module{})))
	require.NoError(t, err)
	return tab, assemble.New(substitute.New(tab), nil)
}

// diffusion builds dc/dt = D * div(grad(c)) with a flux condition on the left
// only.
func diffusion() (*model.Model, *expr.Variable) {
	c := expr.NewVariable("c", "negative particle")
	m := model.New("diffusion")
	flux := expr.NewUnary(expr.OpDivergence, expr.NewUnary(expr.OpGrad, c))
	m.RHS.Set(c, expr.Mul(expr.NewParameter("D", "negative particle"), flux))
	m.InitialConditions.Set(c, expr.NewParameter("c0", "negative particle"))
	m.AddBoundaryCondition(c, model.SideLeft, model.Condition{
		Expr: expr.Negate(expr.NewParameter("j")),
		Type: model.Neumann,
	})
	m.Variables.Set("Surface concentration", expr.Mul(expr.NewParameter("c0"), expr.NewScalar(2)))
	m.Events.Set("Depleted", expr.Sub(c, expr.NewParameter("c_min")))
	return m, c
}

func TestAssemble_Substitute(t *testing.T) {
	_, a := newAssembler(t, map[string]any{"D": 1e-14, "c0": 0.5, "j": 2, "c_min": 0.01})
	m, c := diffusion()

	buf := &testutil.SafeBuffer{}
	require.NoError(t, a.Assemble(testutil.LogContext(t, buf), m, assemble.ModeSubstitute))

	for _, eqs := range []*model.Equations{m.RHS, m.InitialConditions} {
		for i := 0; i < eqs.Len(); i++ {
			_, eq := eqs.At(i)
			assert.Empty(t, expr.Unresolved(eq), "%s", eq)
		}
	}
	rhs, ok := m.RHS.Get(c)
	require.True(t, ok)
	assert.Equal(t, []string{"negative particle"}, rhs.Domain())

	ic, _ := m.InitialConditions.Get(c)
	assert.True(t, expr.Equal(expr.NewNamedScalar(0.5, "c0", "negative particle"), ic))

	v, _ := m.Variables.Get("Surface concentration")
	got, err := expr.Evaluate(v, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	ev, _ := m.Events.Get("Depleted")
	assert.Empty(t, expr.Unresolved(ev))

	testutil.AssertLogged(t, buf, "Assembling model.", "Finished assembling model.", "mode=substitute", "collection=rhs")
}

func TestAssemble_BoundaryConditionSidesArePreserved(t *testing.T) {
	_, a := newAssembler(t, map[string]any{"D": 1, "c0": 1, "j": 3, "c_min": 0})
	m, c := diffusion()

	require.NoError(t, a.Assemble(context.Background(), m, assemble.ModeSubstitute))

	require.Len(t, m.BoundaryConditions, 1)
	bc := m.BoundaryConditions[0]
	assert.Equal(t, c.ID(), bc.Unknown.ID(), "processed unknown matches the processed equations")
	require.Len(t, bc.Sides, 1)
	left, ok := bc.Sides[model.SideLeft]
	require.True(t, ok)
	assert.Equal(t, model.Neumann, left.Type)
	_, ok = bc.Sides[model.SideRight]
	assert.False(t, ok)

	v, err := expr.Evaluate(left.Expr, nil)
	require.NoError(t, err)
	assert.Equal(t, -3.0, v)
}

func TestAssemble_EmptyModel(t *testing.T) {
	_, a := newAssembler(t, nil)
	m := model.New("nothing")
	m.Variables.Set("x", expr.NewScalar(1))

	err := a.Assemble(context.Background(), m, assemble.ModeSubstitute)
	require.ErrorIs(t, err, assemble.ErrEmptyModel)
}

func TestAssemble_ReportsFailingEquation(t *testing.T) {
	_, a := newAssembler(t, map[string]any{"D": 1})
	m, _ := diffusion()

	err := a.Assemble(context.Background(), m, assemble.ModeSubstitute)
	require.ErrorIs(t, err, parameters.ErrUnknownParameter)
	assert.Contains(t, err.Error(), "initial condition")
}

func TestAssemble_UpdateKeepsStructure(t *testing.T) {
	tab, a := newAssembler(t, map[string]any{"D": 1, "c0": 0.5, "j": 2, "c_min": 0})
	m, c := diffusion()
	require.NoError(t, a.Assemble(context.Background(), m, assemble.ModeSubstitute))
	rhsBefore, _ := m.RHS.Get(c)
	kinds := expr.Kinds(rhsBefore)

	require.NoError(t, tab.Update(map[string]any{"c0": 0.25, "j": 4}))
	require.NoError(t, a.Assemble(context.Background(), m, assemble.ModeUpdate))

	rhsAfter, _ := m.RHS.Get(c)
	assert.Same(t, rhsBefore, rhsAfter)
	assert.Equal(t, kinds, expr.Kinds(rhsAfter))

	v, _ := m.Variables.Get("Surface concentration")
	got, err := expr.Evaluate(v, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)

	got, err = expr.Evaluate(m.BoundaryConditions[0].Sides[model.SideLeft].Expr, nil)
	require.NoError(t, err)
	assert.Equal(t, -4.0, got)
}

type recordingDiscretiser struct {
	calls int
	err   error
}

func (d *recordingDiscretiser) Rediscretise(_ context.Context, _ *model.Model) error {
	d.calls++
	return d.err
}

func TestUpdateModel(t *testing.T) {
	_, a := newAssembler(t, map[string]any{"D": 1, "c0": 0.5, "j": 2, "c_min": 0})
	m, _ := diffusion()
	require.NoError(t, a.Assemble(context.Background(), m, assemble.ModeSubstitute))

	d := &recordingDiscretiser{}
	require.NoError(t, a.UpdateModel(context.Background(), m, d))
	assert.Equal(t, 1, d.calls)

	d.err = errors.New("mesh changed")
	err := a.UpdateModel(context.Background(), m, d)
	require.ErrorIs(t, err, d.err)
}

func TestProcessGeometry(t *testing.T) {
	_, a := newAssembler(t, map[string]any{"L_n": 1e-4, "Tab centre [m]": 0.05})
	var g model.Geometry
	neg := g.Domain("negative electrode")
	neg.Coordinates = append(neg.Coordinates, model.Coordinate{
		Level:    "primary",
		Variable: "x_n",
		Limits:   model.Limits{Min: expr.NewScalar(0), Max: expr.NewParameter("L_n")},
	})
	cc := g.Domain("current collector")
	cc.Tabs = append(cc.Tabs, model.Tab{Tab: "negative", Property: "z_centre", Value: expr.NewParameter("Tab centre [m]")})

	require.NoError(t, a.ProcessGeometry(context.Background(), &g))

	v, err := expr.Evaluate(neg.Coordinates[0].Limits.Max, nil)
	require.NoError(t, err)
	assert.Equal(t, 1e-4, v)
	v, err = expr.Evaluate(cc.Tabs[0].Value, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.05, v)

	g.Domain("separator").Coordinates = []model.Coordinate{{Level: "primary", Variable: "x_s", Limits: model.Limits{Min: expr.NewParameter("missing"), Max: expr.NewScalar(1)}}}
	require.ErrorIs(t, a.ProcessGeometry(context.Background(), &g), parameters.ErrUnknownParameter)
}
