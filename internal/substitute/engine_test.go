package substitute_test

import (
	"math"
	"testing"

	"github.com/specialistvlad/symparam/internal/callable"
	"github.com/specialistvlad/symparam/internal/expr"
	"github.com/specialistvlad/symparam/internal/parameters"
	"github.com/specialistvlad/symparam/internal/registry"
	"github.com/specialistvlad/symparam/internal/substitute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rowsLoader map[string][][]float64

func (r rowsLoader) LoadData(_, rel string) (callable.Tabulated, error) {
	return callable.NewTabulated(rel, r[rel])
}

func newTable(t *testing.T, values map[string]any) *parameters.Table {
	t.Helper()
	tab, err := parameters.FromValues(values,
		parameters.WithRegistry(registry.NewWithModules(callable.Module{})),
		parameters.WithDataLoader(rowsLoader{"curve": {{1}, {2}, {3}}}),
	)
	require.NoError(t, err)
	return tab
}

func TestProcess_ParameterPlusScalar(t *testing.T) {
	e := substitute.New(newTable(t, map[string]any{"a": 5.0}))

	out, err := e.Process(expr.Add(expr.NewParameter("a"), expr.NewScalar(2)))
	require.NoError(t, err)

	want := expr.Add(expr.NewNamedScalar(5, "a"), expr.NewScalar(2))
	assert.True(t, expr.Equal(want, out), "got %s", out)

	v, err := e.Evaluate(expr.Add(expr.NewParameter("a"), expr.NewScalar(2)))
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestProcess_UnknownParameter(t *testing.T) {
	e := substitute.New(newTable(t, nil))
	_, err := e.Process(expr.Mul(expr.NewScalar(2), expr.NewParameter("b")))
	require.ErrorIs(t, err, parameters.ErrUnknownParameter)
}

func TestProcess_DataBecomesInterpolant(t *testing.T) {
	e := substitute.New(newTable(t, map[string]any{"curve": "[data]curve"}))

	out, err := e.Process(expr.NewFunctionParameter("curve", expr.NewScalar(0)))
	require.NoError(t, err)
	in, ok := out.(*expr.Interpolant)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, "curve", in.Label())

	v, err := e.Evaluate(expr.NewFunctionParameter("curve", expr.NewScalar(0)))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = e.Evaluate(expr.NewFunctionParameter("curve", expr.NewScalar(1.5)))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, v, 1e-12)
}

func TestProcess_SharedSubtreeSubstitutedOnce(t *testing.T) {
	tab := newTable(t, map[string]any{"a": 1, "b": 2})
	e := substitute.New(tab)

	shared := expr.Add(expr.NewParameter("a"), expr.NewParameter("b"))
	twin := expr.Add(expr.NewParameter("a"), expr.NewParameter("b"))
	tree := expr.Mul(shared, expr.Sub(twin, shared))

	out, err := e.Process(tree)
	require.NoError(t, err)
	// a, b, a+b, (a+b)-(a+b), product
	assert.Equal(t, 5, e.Substitutions())

	mul := out.(*expr.Binary)
	sub := mul.Right().(*expr.Binary)
	assert.Same(t, mul.Left(), sub.Left(), "references share the memoized result")
	assert.Same(t, sub.Left(), sub.Right())

	_, err = e.Process(tree)
	require.NoError(t, err)
	assert.Equal(t, 5, e.Substitutions(), "second pass is served from the memo")

	require.NoError(t, tab.Set("a", 10, ""))
	out, err = e.Process(tree)
	require.NoError(t, err)
	assert.Equal(t, 5, e.Substitutions(), "table change clears the memo")
	v, err := expr.Evaluate(out, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
	v, err = expr.Evaluate(mul.Left(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v, "earlier results are not touched")
}

func TestProcess_Deterministic(t *testing.T) {
	values := map[string]any{"a": 1.5, "f": "[function]tanh", "Typical current [A]": 2}
	tree := expr.NewConcatenation(
		expr.Add(expr.NewParameter("a", "negative electrode"), expr.NewVariable("c", "negative electrode")),
		expr.NewBroadcast(expr.NewFunctionParameter("f", expr.NewParameter("a")), "separator"),
		expr.Div(expr.NewParameter("Typical current [A]"), expr.NewTime()),
	)

	first, err := substitute.New(newTable(t, values)).Process(tree)
	require.NoError(t, err)
	second, err := substitute.New(newTable(t, values)).Process(tree)
	require.NoError(t, err)

	assert.True(t, expr.Equal(first, second))
	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, first.String(), second.String())
}

func TestProcess_IdempotentOnResolvedTrees(t *testing.T) {
	e := substitute.New(newTable(t, map[string]any{"a": 3, "f": "[function]exp"}))
	tree := expr.Add(
		expr.Mul(expr.NewParameter("a"), expr.NewVariable("x", "cathode")),
		expr.NewFunctionParameter("f", expr.NewTime()),
	)

	once, err := e.Process(tree)
	require.NoError(t, err)
	require.Empty(t, expr.Unresolved(once))

	twice, err := e.Process(once)
	require.NoError(t, err)
	assert.True(t, expr.Equal(once, twice))
	assert.Equal(t, expr.Count(once), expr.Count(twice))
}

func TestProcess_SameLabelDataDerivatives(t *testing.T) {
	lo, err := callable.NewTabulated("curve", [][]float64{{0, 0}, {1, 1}})
	require.NoError(t, err)
	hi, err := callable.NewTabulated("curve", [][]float64{{0, 0}, {1, 10}})
	require.NoError(t, err)
	e := substitute.New(newTable(t, map[string]any{"lo": lo, "hi": hi}))

	x := expr.NewVariable("x")
	env := &expr.Env{Variables: map[string]float64{"x": 0.5}}
	tree := expr.Add(
		expr.NewFunctionParameter("lo", x).WithDiffVariable(x),
		expr.NewFunctionParameter("hi", x).WithDiffVariable(x),
	)

	once, err := e.Process(tree)
	require.NoError(t, err)
	sum := once.(*expr.Binary)
	assert.NotEqual(t, sum.Left().ID(), sum.Right().ID())
	assert.False(t, expr.Equal(sum.Left(), sum.Right()))
	v, err := expr.Evaluate(once, env)
	require.NoError(t, err)
	assert.InDelta(t, 11.0, v, 1e-6)

	twice, err := e.Process(once)
	require.NoError(t, err)
	assert.True(t, expr.Equal(once, twice))
	v, err = expr.Evaluate(twice, env)
	require.NoError(t, err)
	assert.InDelta(t, 11.0, v, 1e-6)
}

func TestProcess_KeepsOperatorDomain(t *testing.T) {
	e := substitute.New(newTable(t, map[string]any{"a": 3}))

	b := expr.Mul(expr.NewParameter("a", "separator"), expr.NewVariable("c", "separator"))
	out, err := e.Process(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"separator"}, out.Domain())
	assert.Equal(t, []string{"separator"}, out.(*expr.Binary).Left().Domain())

	u := expr.NewBroadcast(expr.NewParameter("a"), "positive electrode")
	out, err = e.Process(u)
	require.NoError(t, err)
	assert.Equal(t, []string{"positive electrode"}, out.Domain())
}

func TestProcess_FunctionParameter(t *testing.T) {
	e := substitute.New(newTable(t, map[string]any{"f": "[function]exp", "g": 4}))
	x := expr.NewVariable("x")
	env := &expr.Env{Variables: map[string]float64{"x": 1}}

	out, err := e.Process(expr.NewFunctionParameter("f", x))
	require.NoError(t, err)
	fn, ok := out.(*expr.Function)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, "f", fn.Name())
	v, err := expr.Evaluate(out, env)
	require.NoError(t, err)
	assert.InDelta(t, math.E, v, 1e-12)

	out, err = e.Process(expr.NewFunctionParameter("g", x))
	require.NoError(t, err)
	assert.True(t, expr.Equal(expr.NewNamedScalar(4, "g"), out))
}

func TestProcess_DiffVariable(t *testing.T) {
	e := substitute.New(newTable(t, map[string]any{"f": "[function]sin", "k": 2}))
	x := expr.NewVariable("x")
	arg := expr.Mul(expr.NewParameter("k"), x)

	out, err := e.Process(expr.NewFunctionParameter("f", arg).WithDiffVariable(x))
	require.NoError(t, err)

	v, err := expr.Evaluate(out, &expr.Env{Variables: map[string]float64{"x": 0.3}})
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Cos(0.6), v, 1e-9)
}

func TestProcess_HolderSubParameters(t *testing.T) {
	tab := newTable(t, map[string]any{
		"Current function":    "[inbuilt class]GetConstantCurrent",
		"Typical current [A]": 0.68,
	})
	e := substitute.New(tab)

	out, err := e.Process(expr.NewFunctionParameter("Current function", expr.NewTime()))
	require.NoError(t, err)

	v, err := expr.Evaluate(out, &expr.Env{Time: 10})
	require.NoError(t, err)
	assert.Equal(t, 0.68, v)

	entry, err := tab.Lookup("Current function")
	require.NoError(t, err)
	h := entry.Callable.(callable.Holder)
	cached, ok := h.Parameters().Evaluated(callable.CurrentParam)
	require.True(t, ok)
	assert.Equal(t, 0.68, cached)

	sym, _ := h.Parameters().Symbol(callable.CurrentParam)
	assert.Equal(t, expr.KindParameter, sym.Kind(), "sub-parameters stay symbolic")
}

func TestProcess_HolderMissingSubParameter(t *testing.T) {
	e := substitute.New(newTable(t, map[string]any{"Current function": "[inbuilt class]GetSinusoidalCurrent", "Typical current [A]": 1}))
	_, err := e.Process(expr.NewFunctionParameter("Current function", expr.NewTime()))
	require.ErrorIs(t, err, parameters.ErrUnknownParameter)
	assert.Contains(t, err.Error(), "Current frequency [Hz]")
}

func TestProcess_SelfReferenceFails(t *testing.T) {
	c := callable.NewConstantCurrent()
	c.Parameters().Set(callable.CurrentParam, expr.NewFunctionParameter("Current function", expr.NewScalar(0)))
	e := substitute.New(newTable(t, map[string]any{"Current function": c}))

	_, err := e.Process(expr.NewFunctionParameter("Current function", expr.NewTime()))
	require.ErrorIs(t, err, substitute.ErrCycle)
}

func TestProcess_UnsupportedNodeKind(t *testing.T) {
	e := substitute.New(newTable(t, nil))
	_, err := e.Process(expr.Add(expr.NewStateVector(0, 10), expr.NewScalar(1)))
	require.ErrorIs(t, err, substitute.ErrUnsupportedNodeKind)

	var ne *substitute.NodeError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, expr.KindStateVector, ne.Kind)
}

func TestEvaluate_NotConstant(t *testing.T) {
	e := substitute.New(newTable(t, map[string]any{"a": 1}))

	_, err := e.Evaluate(expr.Add(expr.NewParameter("a"), expr.NewVariable("x")))
	require.ErrorIs(t, err, substitute.ErrNotConstant)

	_, err = e.Evaluate(expr.NewConcatenation(expr.NewParameter("a"), expr.NewScalar(2)))
	require.ErrorIs(t, err, substitute.ErrNotConstant)
}

func TestProcess_CopiesLeaves(t *testing.T) {
	e := substitute.New(newTable(t, nil))
	s := expr.NewNamedScalar(1, "a")

	out, err := e.Process(s)
	require.NoError(t, err)
	assert.NotSame(t, s, out)
	assert.True(t, expr.Equal(s, out))
}

func TestProcess_DeepTree(t *testing.T) {
	e := substitute.New(newTable(t, map[string]any{"a": 1}))
	var tree expr.Node = expr.NewParameter("a")
	for i := 0; i < 50000; i++ {
		tree = expr.Add(tree, expr.NewScalar(float64(i%7)))
	}

	v, err := e.Evaluate(tree)
	require.NoError(t, err)
	assert.Greater(t, v, 1.0)
}
