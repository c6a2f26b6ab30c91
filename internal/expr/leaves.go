package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Parameter is an unbound named value. Substitution replaces it with a Scalar.
type Parameter struct {
	id     ID
	name   string
	domain []string
}

// NewParameter creates a parameter leaf living on the given domain.
func NewParameter(name string, domain ...string) *Parameter {
	p := &Parameter{name: name, domain: cloneDomain(domain)}
	p.id = newHasher(KindParameter).str(name).strs(p.domain).sum()
	return p
}

func (p *Parameter) ID() ID           { return p.id }
func (p *Parameter) Kind() Kind       { return KindParameter }
func (p *Parameter) Domain() []string { return p.domain }
func (p *Parameter) Children() []Node { return nil }
func (p *Parameter) String() string   { return p.name }
func (p *Parameter) Name() string     { return p.name }
func (p *Parameter) sealed()          {}

// FunctionParameter is an unbound named function of its children. The table
// entry it resolves to decides whether it becomes a Function or an Interpolant.
type FunctionParameter struct {
	id       ID
	name     string
	children []Node
	diffVar  Node
	domain   []string
}

// NewFunctionParameter creates a function parameter applied to children.
func NewFunctionParameter(name string, children ...Node) *FunctionParameter {
	return newFunctionParameter(name, cloneNodes(children), nil)
}

func newFunctionParameter(name string, children []Node, diffVar Node) *FunctionParameter {
	f := &FunctionParameter{name: name, children: children, diffVar: diffVar, domain: domainOf(children...)}
	h := newHasher(KindFunctionParameter).str(name).nodes(children).strs(f.domain)
	if diffVar != nil {
		h.u64(uint64(diffVar.ID()))
	}
	f.id = h.sum()
	return f
}

// WithDiffVariable returns a copy of f that, once substituted, is
// differentiated with respect to v.
func (f *FunctionParameter) WithDiffVariable(v Node) *FunctionParameter {
	return newFunctionParameter(f.name, f.children, v)
}

func (f *FunctionParameter) ID() ID           { return f.id }
func (f *FunctionParameter) Kind() Kind       { return KindFunctionParameter }
func (f *FunctionParameter) Domain() []string { return f.domain }
func (f *FunctionParameter) Children() []Node { return f.children }
func (f *FunctionParameter) Name() string     { return f.name }
func (f *FunctionParameter) sealed()          {}

// DiffVariable is the node to differentiate with respect to, or nil.
func (f *FunctionParameter) DiffVariable() Node { return f.diffVar }

func (f *FunctionParameter) String() string {
	s := f.name + "(" + joinNodes(f.children) + ")"
	if f.diffVar != nil {
		s = "d" + s + "/d" + f.diffVar.String()
	}
	return s
}

// Scalar is a numeric constant. A scalar produced by substituting a Parameter
// keeps the parameter's name so that later scalar updates can find it.
type Scalar struct {
	id     ID
	value  float64
	name   string
	domain []string
}

// NewScalar creates an anonymous constant.
func NewScalar(v float64) *Scalar {
	return NewNamedScalar(v, "")
}

// NewNamedScalar creates a constant that remembers the parameter it came from.
func NewNamedScalar(v float64, name string, domain ...string) *Scalar {
	s := &Scalar{value: v, name: name, domain: cloneDomain(domain)}
	s.rehash()
	return s
}

func (s *Scalar) rehash() {
	s.id = newHasher(KindScalar).f64(s.value).str(s.name).strs(s.domain).sum()
}

func (s *Scalar) ID() ID           { return s.id }
func (s *Scalar) Kind() Kind       { return KindScalar }
func (s *Scalar) Domain() []string { return s.domain }
func (s *Scalar) Children() []Node { return nil }
func (s *Scalar) Value() float64   { return s.value }
func (s *Scalar) Name() string     { return s.name }
func (s *Scalar) NewCopy() Node    { return NewNamedScalar(s.value, s.name, s.domain...) }
func (s *Scalar) sealed()          {}

// SetValue overwrites the value in place and recomputes the ID.
func (s *Scalar) SetValue(v float64) {
	s.value = v
	s.rehash()
}

func (s *Scalar) String() string {
	return strconv.FormatFloat(s.value, 'g', -1, 64)
}

// Variable is an unknown of the model.
type Variable struct {
	id     ID
	name   string
	domain []string
}

// NewVariable creates an unknown living on the given domain.
func NewVariable(name string, domain ...string) *Variable {
	v := &Variable{name: name, domain: cloneDomain(domain)}
	v.id = newHasher(KindVariable).str(name).strs(v.domain).sum()
	return v
}

func (v *Variable) ID() ID           { return v.id }
func (v *Variable) Kind() Kind       { return KindVariable }
func (v *Variable) Domain() []string { return v.domain }
func (v *Variable) Children() []Node { return nil }
func (v *Variable) String() string   { return v.name }
func (v *Variable) Name() string     { return v.name }
func (v *Variable) NewCopy() Node    { return NewVariable(v.name, v.domain...) }
func (v *Variable) sealed()          {}

// Time is the independent time variable.
type Time struct{ id ID }

// NewTime returns a time leaf.
func NewTime() *Time {
	return &Time{id: newHasher(KindTime).sum()}
}

func (t *Time) ID() ID           { return t.id }
func (t *Time) Kind() Kind       { return KindTime }
func (t *Time) Domain() []string { return nil }
func (t *Time) Children() []Node { return nil }
func (t *Time) String() string   { return "t" }
func (t *Time) NewCopy() Node    { return NewTime() }
func (t *Time) sealed()          {}

// SpatialVariable is a coordinate such as x or r on a domain.
type SpatialVariable struct {
	id     ID
	name   string
	domain []string
}

// NewSpatialVariable creates a coordinate leaf.
func NewSpatialVariable(name string, domain ...string) *SpatialVariable {
	s := &SpatialVariable{name: name, domain: cloneDomain(domain)}
	s.id = newHasher(KindSpatialVariable).str(name).strs(s.domain).sum()
	return s
}

func (s *SpatialVariable) ID() ID           { return s.id }
func (s *SpatialVariable) Kind() Kind       { return KindSpatialVariable }
func (s *SpatialVariable) Domain() []string { return s.domain }
func (s *SpatialVariable) Children() []Node { return nil }
func (s *SpatialVariable) String() string   { return s.name }
func (s *SpatialVariable) Name() string     { return s.name }
func (s *SpatialVariable) NewCopy() Node    { return NewSpatialVariable(s.name, s.domain...) }
func (s *SpatialVariable) sealed()          {}

// StateVector is a slice of the discretised solution vector. It only appears
// after discretisation and has no copy rule: parameters must be processed
// before a model is discretised.
type StateVector struct {
	id          ID
	start, stop int
	domain      []string
}

// NewStateVector creates a y[start:stop] leaf.
func NewStateVector(start, stop int, domain ...string) *StateVector {
	s := &StateVector{start: start, stop: stop, domain: cloneDomain(domain)}
	s.id = newHasher(KindStateVector).u64(uint64(start)).u64(uint64(stop)).strs(s.domain).sum()
	return s
}

func (s *StateVector) ID() ID           { return s.id }
func (s *StateVector) Kind() Kind       { return KindStateVector }
func (s *StateVector) Domain() []string { return s.domain }
func (s *StateVector) Children() []Node { return nil }
func (s *StateVector) String() string   { return fmt.Sprintf("y[%d:%d]", s.start, s.stop) }
func (s *StateVector) sealed()          {}

func joinNodes(ns []Node) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
