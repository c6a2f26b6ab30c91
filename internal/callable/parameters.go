package callable

import (
	"sort"

	"github.com/specialistvlad/symparam/internal/expr"
)

// Holder is a callable that depends on named symbolic sub-parameters.
type Holder interface {
	expr.Callable
	Parameters() *ParameterSet
}

// DataBacked is a callable whose lookup table must be rebuilt after its
// evaluated parameters change.
type DataBacked interface {
	Interpolate() error
}

// ParameterSet maps sub-parameter names to expression trees, alongside a cache
// of their numeric values.
type ParameterSet struct {
	symbols map[string]expr.Node
	values  map[string]float64
}

// NewParameterSet creates an empty set.
func NewParameterSet() *ParameterSet {
	return &ParameterSet{
		symbols: make(map[string]expr.Node),
		values:  make(map[string]float64),
	}
}

// Set binds a sub-parameter to a tree and drops any cached value for it.
func (p *ParameterSet) Set(name string, n expr.Node) {
	p.symbols[name] = n
	delete(p.values, name)
}

// Symbol returns the tree bound to name.
func (p *ParameterSet) Symbol(name string) (expr.Node, bool) {
	n, ok := p.symbols[name]
	return n, ok
}

// Names returns the sub-parameter names in sorted order.
func (p *ParameterSet) Names() []string {
	names := make([]string, 0, len(p.symbols))
	for name := range p.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetEvaluated caches the numeric value of a sub-parameter.
func (p *ParameterSet) SetEvaluated(name string, v float64) {
	p.values[name] = v
}

// Evaluated returns the cached numeric value of a sub-parameter.
func (p *ParameterSet) Evaluated(name string) (float64, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Reset replaces the symbols with those of other and clears the cache.
func (p *ParameterSet) Reset(other *ParameterSet) {
	p.symbols = make(map[string]expr.Node, len(other.symbols))
	for k, v := range other.symbols {
		p.symbols[k] = v
	}
	p.values = make(map[string]float64)
}

// Clone returns an independent copy of the set, cache included.
func (p *ParameterSet) Clone() *ParameterSet {
	c := NewParameterSet()
	for k, v := range p.symbols {
		c.symbols[k] = v
	}
	for k, v := range p.values {
		c.values[k] = v
	}
	return c
}
