package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/symparam/internal/expr"
)

// ErrUnknownName is returned when no class or function is registered under a
// requested name.
var ErrUnknownName = errors.New("name is not registered")

// Factory constructs a fresh instance of an inbuilt class.
type Factory func() expr.Callable

// Module is implemented by packages that contribute classes or functions.
type Module interface {
	Register(r *Registry)
}

// Registry holds the inbuilt classes and named Go functions for a single
// application instance.
type Registry struct {
	classes   map[string]Factory
	functions map[string]expr.Callable
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		classes:   make(map[string]Factory),
		functions: make(map[string]expr.Callable),
	}
}

// NewWithModules creates a Registry and lets every module register into it.
func NewWithModules(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// NewInstance constructs the class registered under name.
func (r *Registry) NewInstance(name string) (expr.Callable, error) {
	f, ok := r.classes[name]
	if !ok {
		return nil, fmt.Errorf("inbuilt class %q: %w", name, ErrUnknownName)
	}
	return f(), nil
}

// Function returns the Go callable registered under name.
func (r *Registry) Function(name string) (expr.Callable, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// Classes lists the registered class names in sorted order.
func (r *Registry) Classes() []string {
	return sortedKeys(r.classes)
}

// Functions lists the registered function names in sorted order.
func (r *Registry) Functions() []string {
	return sortedKeys(r.functions)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
