package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/symparam/internal/expr"
	"github.com/zclconf/go-cty/cty"
)

// ParamRoot is the traversal root for unbound parameters: param["Name [units]"].
const ParamRoot = "param"

// TimeName refers to the time leaf.
const TimeName = "t"

// translator turns native HCL expressions into expression trees. Declared
// names resolve to the same leaf each time they are referenced.
type translator struct {
	names map[string]expr.Node
}

func newTranslator() *translator {
	return &translator{names: make(map[string]expr.Node)}
}

func (t *translator) declare(name string, n expr.Node) error {
	if name == ParamRoot || name == TimeName {
		return fmt.Errorf("%q is reserved and cannot be declared", name)
	}
	if _, ok := t.names[name]; ok {
		return fmt.Errorf("%q is declared more than once", name)
	}
	t.names[name] = n
	return nil
}

// unknown returns the declared variable an equation is labelled with.
func (t *translator) unknown(name string) (expr.Node, error) {
	n, ok := t.names[name]
	if !ok || n.Kind() != expr.KindVariable {
		return nil, fmt.Errorf("%q is not a declared variable", name)
	}
	return n, nil
}

func (t *translator) translate(e hcl.Expression) (expr.Node, error) {
	switch e := e.(type) {
	case *hclsyntax.LiteralValueExpr:
		v, err := toFloat(e.Val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Range(), err)
		}
		return expr.NewScalar(v), nil

	case *hclsyntax.ParenthesesExpr:
		return t.translate(e.Expression)

	case *hclsyntax.ScopeTraversalExpr:
		return t.traversal(e)

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return nil, fmt.Errorf("%s: unsupported unary operator", e.Range())
		}
		child, err := t.translate(e.Val)
		if err != nil {
			return nil, err
		}
		return expr.Negate(child), nil

	case *hclsyntax.BinaryOpExpr:
		var op expr.BinaryOp
		switch e.Op {
		case hclsyntax.OpAdd:
			op = expr.OpAdd
		case hclsyntax.OpSubtract:
			op = expr.OpSub
		case hclsyntax.OpMultiply:
			op = expr.OpMul
		case hclsyntax.OpDivide:
			op = expr.OpDiv
		default:
			return nil, fmt.Errorf("%s: unsupported binary operator", e.Range())
		}
		l, err := t.translate(e.LHS)
		if err != nil {
			return nil, err
		}
		r, err := t.translate(e.RHS)
		if err != nil {
			return nil, err
		}
		return expr.NewBinary(op, l, r), nil

	case *hclsyntax.FunctionCallExpr:
		return t.call(e)
	}
	return nil, fmt.Errorf("%s: unsupported expression", e.Range())
}

func (t *translator) traversal(e *hclsyntax.ScopeTraversalExpr) (expr.Node, error) {
	root := e.Traversal.RootName()
	switch {
	case root == TimeName && len(e.Traversal) == 1:
		return expr.NewTime(), nil
	case root == ParamRoot:
		if len(e.Traversal) != 2 {
			return nil, fmt.Errorf("%s: parameters are referenced as %s[\"name\"]", e.Range(), ParamRoot)
		}
		idx, ok := e.Traversal[1].(hcl.TraverseIndex)
		if !ok || !idx.Key.Type().Equals(cty.String) || idx.Key.IsNull() {
			return nil, fmt.Errorf("%s: parameter name must be a string index", e.Range())
		}
		return expr.NewParameter(idx.Key.AsString()), nil
	}
	if len(e.Traversal) != 1 {
		return nil, fmt.Errorf("%s: %q does not have attributes", e.Range(), root)
	}
	n, ok := t.names[root]
	if !ok {
		return nil, fmt.Errorf("%s: %q is not declared", e.Range(), root)
	}
	return n, nil
}

func (t *translator) call(e *hclsyntax.FunctionCallExpr) (expr.Node, error) {
	switch e.Name {
	case "param":
		name, domain, err := t.strings(e, 1)
		if err != nil {
			return nil, err
		}
		return expr.NewParameter(name, domain...), nil
	case "fparam", "dfparam":
		return t.functionParameter(e)
	case "broadcast":
		if len(e.Args) < 2 {
			return nil, fmt.Errorf("%s: broadcast needs a child and at least one domain", e.Range())
		}
		child, err := t.translate(e.Args[0])
		if err != nil {
			return nil, err
		}
		domain := make([]string, 0, len(e.Args)-1)
		for _, a := range e.Args[1:] {
			s, err := stringArg(a)
			if err != nil {
				return nil, err
			}
			domain = append(domain, s)
		}
		return expr.NewBroadcast(child, domain...), nil
	}

	args, err := t.args(e.Args)
	if err != nil {
		return nil, err
	}
	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s: %s expects %d arguments, got %d", e.Range(), e.Name, n, len(args))
		}
		return nil
	}
	switch e.Name {
	case "pow":
		if err := arity(2); err != nil {
			return nil, err
		}
		return expr.Pow(args[0], args[1]), nil
	case "abs", "grad", "div":
		if err := arity(1); err != nil {
			return nil, err
		}
		op := map[string]expr.UnaryOp{"abs": expr.OpAbs, "grad": expr.OpGrad, "div": expr.OpDivergence}[e.Name]
		return expr.NewUnary(op, args[0]), nil
	case "concat":
		if len(args) == 0 {
			return nil, fmt.Errorf("%s: concat needs at least one argument", e.Range())
		}
		return expr.NewConcatenation(args...), nil
	}
	if m, ok := expr.LookupMath(e.Name); ok {
		if err := arity(1); err != nil {
			return nil, err
		}
		return expr.NewFunction(m, args...), nil
	}
	return nil, fmt.Errorf("%s: unknown function %q", e.NameRange, e.Name)
}

// functionParameter handles fparam("name", args...) and
// dfparam("name", wrt, args...).
func (t *translator) functionParameter(e *hclsyntax.FunctionCallExpr) (expr.Node, error) {
	if len(e.Args) == 0 {
		return nil, fmt.Errorf("%s: %s needs a parameter name", e.Range(), e.Name)
	}
	name, err := stringArg(e.Args[0])
	if err != nil {
		return nil, err
	}
	rest := e.Args[1:]
	var wrt expr.Node
	if e.Name == "dfparam" {
		if len(rest) == 0 {
			return nil, fmt.Errorf("%s: dfparam needs a variable to differentiate by", e.Range())
		}
		if wrt, err = t.translate(rest[0]); err != nil {
			return nil, err
		}
		rest = rest[1:]
	}
	args, err := t.args(rest)
	if err != nil {
		return nil, err
	}
	fp := expr.NewFunctionParameter(name, args...)
	if wrt != nil {
		return fp.WithDiffVariable(wrt), nil
	}
	return fp, nil
}

func (t *translator) args(in []hclsyntax.Expression) ([]expr.Node, error) {
	out := make([]expr.Node, 0, len(in))
	for _, a := range in {
		n, err := t.translate(a)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// strings reads a call whose arguments are all string literals. The first
// required arguments must be present.
func (t *translator) strings(e *hclsyntax.FunctionCallExpr, required int) (string, []string, error) {
	if len(e.Args) < required {
		return "", nil, fmt.Errorf("%s: %s needs a name", e.Range(), e.Name)
	}
	out := make([]string, 0, len(e.Args))
	for _, a := range e.Args {
		s, err := stringArg(a)
		if err != nil {
			return "", nil, err
		}
		out = append(out, s)
	}
	return out[0], out[1:], nil
}

// stringArg evaluates a literal string argument.
func stringArg(e hclsyntax.Expression) (string, error) {
	val, diags := e.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("%s: expected a string literal: %w", e.Range(), diags)
	}
	if val.IsNull() || !val.Type().Equals(cty.String) {
		return "", fmt.Errorf("%s: expected a string literal", e.Range())
	}
	return val.AsString(), nil
}
