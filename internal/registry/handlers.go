package registry

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/symparam/internal/expr"
)

// RegisterClass registers a zero-argument factory for an inbuilt class.
func (r *Registry) RegisterClass(name string, f Factory) {
	if _, exists := r.classes[name]; exists {
		panic(fmt.Sprintf("inbuilt class with name '%s' already registered", name))
	}
	slog.Debug("Registering inbuilt class.", "name", name)
	r.classes[name] = f
}

// RegisterFunction registers a Go callable that "[function]" values can
// refer to by name.
func (r *Registry) RegisterFunction(name string, fn expr.Callable) {
	if _, exists := r.functions[name]; exists {
		panic(fmt.Sprintf("function with name '%s' already registered", name))
	}
	slog.Debug("Registering function.", "name", name)
	r.functions[name] = fn
}
