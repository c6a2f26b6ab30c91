package substitute

import (
	"fmt"

	"github.com/specialistvlad/symparam/internal/callable"
	"github.com/specialistvlad/symparam/internal/expr"
	"github.com/specialistvlad/symparam/internal/parameters"
)

// Engine substitutes parameters of one table into expression trees.
// It is not safe for concurrent use.
type Engine struct {
	table   *parameters.Table
	version uint64
	memo    map[expr.ID]expr.Node
	// active holds the names of callables whose sub-parameters are being
	// resolved, to catch self references.
	active map[string]bool
	misses int
}

// New creates an engine bound to table.
func New(table *parameters.Table) *Engine {
	return &Engine{
		table:   table,
		version: table.Version(),
		memo:    make(map[expr.ID]expr.Node),
		active:  make(map[string]bool),
	}
}

// Table returns the table the engine resolves names against.
func (e *Engine) Table() *parameters.Table { return e.table }

// Substitutions is the number of nodes rewritten since the memo was last
// cleared. Memo hits are not counted.
func (e *Engine) Substitutions() int { return e.misses }

// Reset drops the memo.
func (e *Engine) Reset() {
	clear(e.memo)
	e.misses = 0
	e.version = e.table.Version()
}

func (e *Engine) sync() {
	if e.table.Version() != e.version {
		e.Reset()
	}
}

// Process returns a copy of root with every parameter resolved. root itself is
// not modified, although callables held by the table have their evaluated
// sub-parameters refreshed.
func (e *Engine) Process(root expr.Node) (expr.Node, error) {
	e.sync()

	type frame struct {
		n        expr.Node
		expanded bool
	}
	stack := []frame{{n: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := top.n
		if _, ok := e.memo[n.ID()]; ok {
			stack = stack[:len(stack)-1]
			continue
		}
		if !top.expanded {
			top.expanded = true
			deps := dependencies(n)
			for i := len(deps) - 1; i >= 0; i-- {
				if _, ok := e.memo[deps[i].ID()]; !ok {
					stack = append(stack, frame{n: deps[i]})
				}
			}
			continue
		}
		stack = stack[:len(stack)-1]

		out, err := e.rewrite(n)
		if err != nil {
			return nil, err
		}
		e.memo[n.ID()] = out
		e.misses++
	}
	return e.memo[root.ID()], nil
}

// Evaluate substitutes root and computes its value, which must be a constant
// scalar.
func (e *Engine) Evaluate(root expr.Node) (float64, error) {
	out, err := e.Process(root)
	if err != nil {
		return 0, err
	}
	return EvaluateProcessed(out)
}

// dependencies lists the nodes that must be rewritten before n.
func dependencies(n expr.Node) []expr.Node {
	children := n.Children()
	if fp, ok := n.(*expr.FunctionParameter); ok && fp.DiffVariable() != nil {
		return append(append([]expr.Node(nil), children...), fp.DiffVariable())
	}
	return children
}

// processed returns the memoized results for nodes.
func (e *Engine) processed(nodes []expr.Node) []expr.Node {
	out := make([]expr.Node, len(nodes))
	for i, n := range nodes {
		out[i] = e.memo[n.ID()]
	}
	return out
}

func (e *Engine) rewrite(n expr.Node) (expr.Node, error) {
	switch v := n.(type) {
	case *expr.Parameter:
		value, err := e.table.Float(v.Name())
		if err != nil {
			return nil, err
		}
		return expr.NewNamedScalar(value, v.Name(), v.Domain()...), nil

	case *expr.FunctionParameter:
		return e.rewriteFunctionParameter(v)

	case *expr.Binary:
		return v.CopyWith(e.memo[v.Left().ID()], e.memo[v.Right().ID()]), nil

	case *expr.Unary:
		return v.CopyWith(e.memo[v.Child().ID()]), nil

	case *expr.Function:
		return v.CopyWith(e.processed(v.Children())), nil

	case *expr.Interpolant:
		return v.CopyWith(e.processed(v.Children()))

	case *expr.Concatenation:
		return v.CopyWith(e.processed(v.Children())), nil

	case expr.Copier:
		return v.NewCopy(), nil
	}
	return nil, &NodeError{Kind: n.Kind(), Node: n.String(), Err: ErrUnsupportedNodeKind}
}

func (e *Engine) rewriteFunctionParameter(fp *expr.FunctionParameter) (expr.Node, error) {
	name := fp.Name()
	children := e.processed(fp.Children())

	entry, err := e.table.Lookup(name)
	if err != nil {
		return nil, err
	}

	var out expr.Node
	switch entry.Kind {
	case parameters.EntryData:
		in, err := expr.NewInterpolant(entry.Data.Label, entry.Data.X, entry.Data.Y, children...)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		out = in
	case parameters.EntryScalar:
		// A number given where a function is expected acts as a constant.
		out = expr.NewNamedScalar(entry.Scalar, name)
	case parameters.EntryCallable:
		if h, ok := entry.Callable.(callable.Holder); ok {
			if err := e.Prepare(name, h); err != nil {
				return nil, err
			}
		}
		out = expr.NewBoundFunction(name, entry.Callable, children...)
	}

	if dv := fp.DiffVariable(); dv != nil {
		d, err := expr.Diff(out, e.memo[dv.ID()])
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		out = d
	}
	return out, nil
}

// Prepare substitutes the sub-parameters of h, caches their values inside h
// and rebuilds its lookup table when it has one.
func (e *Engine) Prepare(name string, h callable.Holder) error {
	if e.active[name] {
		return fmt.Errorf("%w: %q", ErrCycle, name)
	}
	e.active[name] = true
	defer delete(e.active, name)

	if err := e.resolveSymbols(name, h.Parameters()); err != nil {
		return err
	}
	if d, ok := h.(callable.DataBacked); ok {
		if err := d.Interpolate(); err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
	}
	return nil
}

// resolveSymbols substitutes every symbol of ps in name order and caches its
// value. The symbols stay symbolic so that later table changes reach them.
func (e *Engine) resolveSymbols(owner string, ps *callable.ParameterSet) error {
	for _, sub := range ps.Names() {
		sym, _ := ps.Symbol(sub)
		out, err := e.Process(sym)
		if err != nil {
			return fmt.Errorf("parameter %q: sub-parameter %q: %w", owner, sub, err)
		}
		value, err := EvaluateProcessed(out)
		if err != nil {
			return fmt.Errorf("parameter %q: sub-parameter %q: %w", owner, sub, err)
		}
		ps.SetEvaluated(sub, value)
	}
	return nil
}

// EvaluateProcessed computes the value of an already substituted tree, which
// must be a constant scalar.
func EvaluateProcessed(out expr.Node) (float64, error) {
	if !expr.IsConstant(out) || !expr.EvaluatesToNumber(out) {
		return 0, fmt.Errorf("%w: %s", ErrNotConstant, out)
	}
	return expr.Evaluate(out, nil)
}
