package expr

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotEvaluable is returned when a tree holds a node that has no scalar
	// value on its own, such as a spatial operator or an unresolved parameter.
	ErrNotEvaluable = errors.New("expression cannot be evaluated")
	// ErrUnresolved marks Parameter or FunctionParameter nodes met where a
	// substituted tree was expected.
	ErrUnresolved = errors.New("expression contains unresolved parameters")
)

// Env supplies values for the non-constant leaves of a tree.
type Env struct {
	Time      float64
	Variables map[string]float64
}

// IsConstant reports whether the tree depends on nothing but constants: no
// time, unknowns, coordinates, state vectors or unresolved parameters.
func IsConstant(root Node) bool {
	constant := true
	Walk(root, func(n Node) bool {
		switch n.Kind() {
		case KindTime, KindVariable, KindSpatialVariable, KindStateVector, KindParameter, KindFunctionParameter:
			constant = false
		}
		return constant
	})
	return constant
}

// EvaluatesToNumber reports whether the tree is scalar valued, i.e. contains
// no concatenations, broadcasts or spatial operators.
func EvaluatesToNumber(root Node) bool {
	scalar := true
	Walk(root, func(n Node) bool {
		switch v := n.(type) {
		case *Concatenation:
			scalar = false
		case *Unary:
			if v.op != OpNegate && v.op != OpAbs {
				scalar = false
			}
		}
		return scalar
	})
	return scalar
}

// Evaluate computes the scalar value of a tree. env may be nil for constant
// trees.
func Evaluate(root Node, env *Env) (float64, error) {
	type frame struct {
		n        Node
		expanded bool
	}
	stack := []frame{{n: root}}
	var values []float64
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := top.n.Children()
		if !top.expanded && len(children) > 0 {
			top.expanded = true
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, frame{n: children[i]})
			}
			continue
		}
		n := top.n
		stack = stack[:len(stack)-1]

		args := values[len(values)-len(children):]
		v, err := evalNode(n, args, env)
		if err != nil {
			return 0, err
		}
		values = append(values[:len(values)-len(children)], v)
	}
	return values[0], nil
}

func evalNode(n Node, args []float64, env *Env) (float64, error) {
	switch v := n.(type) {
	case *Scalar:
		return v.value, nil
	case *Time:
		if env == nil {
			return 0, fmt.Errorf("%w: time needs an environment", ErrNotEvaluable)
		}
		return env.Time, nil
	case *Variable:
		return lookupEnv(env, v.name)
	case *SpatialVariable:
		return lookupEnv(env, v.name)
	case *Binary:
		return applyBinary(v.op, args[0], args[1]), nil
	case *Unary:
		switch v.op {
		case OpNegate:
			return -args[0], nil
		case OpAbs:
			return math.Abs(args[0]), nil
		}
		return 0, fmt.Errorf("%w: %s needs discretisation", ErrNotEvaluable, v.op)
	case *Function:
		out, err := v.fn.Call(args...)
		if err != nil {
			return 0, fmt.Errorf("calling %s: %w", v.fn.Name(), err)
		}
		return out, nil
	case *Interpolant:
		return v.Predict(args[0]), nil
	case *Parameter, *FunctionParameter:
		return 0, fmt.Errorf("%w: %s", ErrUnresolved, n)
	}
	return 0, fmt.Errorf("%w: %s node %s", ErrNotEvaluable, n.Kind(), n)
}

func lookupEnv(env *Env, name string) (float64, error) {
	if env != nil {
		if v, ok := env.Variables[name]; ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: no value for %q", ErrNotEvaluable, name)
}

func applyBinary(op BinaryOp, l, r float64) float64 {
	switch op {
	case OpAdd:
		return l + r
	case OpSub:
		return l - r
	case OpMul:
		return l * r
	case OpDiv:
		return l / r
	case OpPow:
		return math.Pow(l, r)
	}
	return math.NaN()
}
