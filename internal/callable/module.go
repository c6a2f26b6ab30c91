package callable

import (
	"github.com/specialistvlad/symparam/internal/expr"
	"github.com/specialistvlad/symparam/internal/registry"
)

// Module registers the current setters as inbuilt classes and the elementary
// math functions as named functions.
type Module struct{}

func (Module) Register(r *registry.Registry) {
	r.RegisterClass("GetConstantCurrent", func() expr.Callable { return NewConstantCurrent() })
	r.RegisterClass("GetSinusoidalCurrent", func() expr.Callable { return NewSinusoidalCurrent() })
	for _, name := range []string{"exp", "log", "sqrt", "sin", "cos", "sinh", "cosh", "tanh", "arcsinh", "sign"} {
		m, _ := expr.LookupMath(name)
		r.RegisterFunction(name, m)
	}
}
