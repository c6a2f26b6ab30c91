package expr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/interp"
)

// Callable is a numeric function of one or more float arguments. Node IDs
// take both the name and the callable's identity (see IdentityOf).
type Callable interface {
	Name() string
	Call(args ...float64) (float64, error)
}

// Differentiable is a Callable that knows its own partial derivatives.
type Differentiable interface {
	Callable
	Derivative(arg int) Callable
}

// Function applies a callable to its children. Functions created by parameter
// substitution remember the table name they were bound from.
type Function struct {
	id       ID
	fn       Callable
	name     string
	children []Node
	domain   []string
}

// NewFunction applies fn to children, bound under fn's own name.
func NewFunction(fn Callable, children ...Node) *Function {
	return NewBoundFunction(fn.Name(), fn, children...)
}

// NewBoundFunction applies fn to children and records the parameter name the
// callable was looked up under.
func NewBoundFunction(name string, fn Callable, children ...Node) *Function {
	return newFunction(name, fn, cloneNodes(children))
}

func newFunction(name string, fn Callable, children []Node) *Function {
	f := &Function{fn: fn, name: name, children: children, domain: domainOf(children...)}
	f.id = newHasher(KindFunction).str(name).str(fn.Name()).u64(IdentityOf(fn)).nodes(children).strs(f.domain).sum()
	return f
}

// CopyWith rebuilds f around new children. Unlike operators, the domain is
// re-derived from the new children.
func (f *Function) CopyWith(children []Node) *Function {
	return newFunction(f.name, f.fn, cloneNodes(children))
}

func (f *Function) ID() ID             { return f.id }
func (f *Function) Kind() Kind         { return KindFunction }
func (f *Function) Domain() []string   { return f.domain }
func (f *Function) Children() []Node   { return f.children }
func (f *Function) Callable() Callable { return f.fn }
func (f *Function) Name() string       { return f.name }
func (f *Function) String() string     { return f.fn.Name() + "(" + joinNodes(f.children) + ")" }
func (f *Function) sealed()            {}

// Interpolant looks its value up in tabulated data by piecewise linear
// interpolation of its single child.
type Interpolant struct {
	id       ID
	dataID   uint64
	label    string
	x, y     []float64
	pl       interp.PiecewiseLinear
	children []Node
	domain   []string
}

// NewInterpolant fits y(x) and applies it to children. x must be strictly
// increasing and hold at least two points.
func NewInterpolant(label string, x, y []float64, children ...Node) (*Interpolant, error) {
	if len(children) != 1 {
		return nil, fmt.Errorf("interpolant %q takes exactly one argument, got %d", label, len(children))
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("interpolant %q: %d x values but %d y values", label, len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("interpolant %q needs at least two data points", label)
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return nil, fmt.Errorf("interpolant %q: x data must be strictly increasing", label)
		}
	}
	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)
	in := &Interpolant{label: label, x: xs, y: ys, children: cloneNodes(children), domain: domainOf(children...)}
	if err := in.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitting interpolant %q: %w", label, err)
	}
	h := newHasher(KindInterpolant).str(label).u64(uint64(len(xs)))
	for i := range xs {
		h.f64(xs[i]).f64(ys[i])
	}
	in.dataID = uint64(h.sum())
	in.id = newHasher(KindInterpolant).u64(in.dataID).nodes(in.children).strs(in.domain).sum()
	return in, nil
}

// CopyWith rebuilds the interpolant around a new child, sharing its data.
func (in *Interpolant) CopyWith(children []Node) (*Interpolant, error) {
	return NewInterpolant(in.label, in.x, in.y, children...)
}

func (in *Interpolant) ID() ID           { return in.id }
func (in *Interpolant) Kind() Kind       { return KindInterpolant }
func (in *Interpolant) Domain() []string { return in.domain }
func (in *Interpolant) Children() []Node { return in.children }
func (in *Interpolant) Label() string    { return in.label }
func (in *Interpolant) X() []float64     { return in.x }
func (in *Interpolant) Y() []float64     { return in.y }
func (in *Interpolant) sealed()          {}

func (in *Interpolant) String() string {
	return "interpolate[" + in.label + "](" + joinNodes(in.children) + ")"
}

// Predict evaluates the fitted table at v. Outside the data range the nearest
// end value is returned.
func (in *Interpolant) Predict(v float64) float64 {
	return in.pl.Predict(v)
}

// interpolantFunc exposes an Interpolant as a Callable so its derivative can be
// built like any other function's.
type interpolantFunc struct{ in *Interpolant }

func (f interpolantFunc) Name() string     { return "interpolate[" + f.in.label + "]" }
func (f interpolantFunc) Identity() uint64 { return f.in.dataID }

func (f interpolantFunc) Call(args ...float64) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: expected 1 argument, got %d", f.Name(), len(args))
	}
	return f.in.Predict(args[0]), nil
}

// MathFunc is a named elementary function of one argument.
type MathFunc struct {
	name string
	f    func(float64) float64
	df   func(float64) float64
}

var (
	Exp     = &MathFunc{"exp", math.Exp, math.Exp}
	Log     = &MathFunc{"log", math.Log, func(x float64) float64 { return 1 / x }}
	Sqrt    = &MathFunc{"sqrt", math.Sqrt, func(x float64) float64 { return 0.5 / math.Sqrt(x) }}
	Sin     = &MathFunc{"sin", math.Sin, math.Cos}
	Cos     = &MathFunc{"cos", math.Cos, func(x float64) float64 { return -math.Sin(x) }}
	Sinh    = &MathFunc{"sinh", math.Sinh, math.Cosh}
	Cosh    = &MathFunc{"cosh", math.Cosh, math.Sinh}
	Tanh    = &MathFunc{"tanh", math.Tanh, func(x float64) float64 { t := math.Tanh(x); return 1 - t*t }}
	Arcsinh = &MathFunc{"arcsinh", math.Asinh, func(x float64) float64 { return 1 / math.Sqrt(x*x+1) }}
	Sign    = &MathFunc{"sign", sign, func(float64) float64 { return 0 }}
)

var mathFuncs = map[string]*MathFunc{}

func init() {
	for _, m := range []*MathFunc{Exp, Log, Sqrt, Sin, Cos, Sinh, Cosh, Tanh, Arcsinh, Sign} {
		mathFuncs[m.name] = m
	}
}

// LookupMath finds an elementary function by name.
func LookupMath(name string) (*MathFunc, bool) {
	m, ok := mathFuncs[name]
	return m, ok
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func (m *MathFunc) Name() string     { return m.name }
func (m *MathFunc) Identity() uint64 { return nameIdentity(m.name) }

func (m *MathFunc) Call(args ...float64) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: expected 1 argument, got %d", m.name, len(args))
	}
	return m.f(args[0]), nil
}

// Derivative returns the analytic derivative. Second derivatives fall back to
// finite differences.
func (m *MathFunc) Derivative(arg int) Callable {
	if m.df == nil || arg != 0 {
		return &numericPartial{fn: m, arg: arg}
	}
	return &MathFunc{name: "d" + m.name, f: m.df}
}

// PartialDerivative returns d fn / d args[arg].
func PartialDerivative(fn Callable, arg int) Callable {
	if d, ok := fn.(Differentiable); ok {
		return d.Derivative(arg)
	}
	return &numericPartial{fn: fn, arg: arg}
}

// numericPartial differentiates a callable with central differences.
type numericPartial struct {
	fn  Callable
	arg int
}

func (p *numericPartial) Name() string {
	return fmt.Sprintf("d%s/darg%d", p.fn.Name(), p.arg)
}

// Identity follows the wrapped callable, so partials of two same-named
// functions stay apart.
func (p *numericPartial) Identity() uint64 {
	h := newHasher(KindFunction).u64(IdentityOf(p.fn)).u64(uint64(p.arg))
	return uint64(h.sum())
}

func (p *numericPartial) Call(args ...float64) (float64, error) {
	if p.arg >= len(args) {
		return 0, fmt.Errorf("%s: argument %d out of range", p.Name(), p.arg)
	}
	var callErr error
	f := func(x float64) float64 {
		shifted := append([]float64(nil), args...)
		shifted[p.arg] = x
		v, err := p.fn.Call(shifted...)
		if err != nil && callErr == nil {
			callErr = err
		}
		return v
	}
	d := fd.Derivative(f, args[p.arg], &fd.Settings{Formula: fd.Central})
	return d, callErr
}
