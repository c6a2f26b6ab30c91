package hcl

import (
	"fmt"
	"math"

	"github.com/specialistvlad/symparam/internal/expr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// mathFunctions is the function table available to function bodies and
// parameter values.
func mathFunctions() map[string]function.Function {
	fns := map[string]function.Function{
		"abs":   stdlib.AbsoluteFunc,
		"pow":   stdlib.PowFunc,
		"max":   stdlib.MaxFunc,
		"min":   stdlib.MinFunc,
		"floor": stdlib.FloorFunc,
		"ceil":  stdlib.CeilFunc,
	}
	for _, name := range []string{"exp", "log", "sqrt", "sin", "cos", "sinh", "cosh", "tanh", "arcsinh", "sign"} {
		m, _ := expr.LookupMath(name)
		fns[name] = unaryFunction(m)
	}
	return fns
}

// unaryFunction exposes a one-argument callable as a cty function.
func unaryFunction(fn expr.Callable) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "x", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			x, err := toFloat(args[0])
			if err != nil {
				return cty.UnknownVal(cty.Number), err
			}
			v, err := fn.Call(x)
			if err != nil {
				return cty.UnknownVal(cty.Number), err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return cty.UnknownVal(cty.Number), fmt.Errorf("%s(%g) is not a finite number", fn.Name(), x)
			}
			return cty.NumberFloatVal(v), nil
		},
	})
}

func toFloat(v cty.Value) (float64, error) {
	if v.IsNull() || !v.IsKnown() {
		return 0, fmt.Errorf("value is not known")
	}
	if !v.Type().Equals(cty.Number) {
		return 0, fmt.Errorf("expected a number, got %s", v.Type().FriendlyName())
	}
	f, _ := v.AsBigFloat().Float64()
	return f, nil
}
