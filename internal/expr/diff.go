package expr

import "fmt"

// Diff differentiates root with respect to the node wrt. Derivatives are not
// simplified, but any subtree that does not contain wrt differentiates to a
// zero scalar. root must not contain unresolved parameters.
func Diff(root, wrt Node) (Node, error) {
	if names := Unresolved(root); len(names) > 0 {
		return nil, fmt.Errorf("%w: cannot differentiate %v", ErrUnresolved, names)
	}
	d := differ{wrt: wrt.ID(), memo: make(map[ID]Node)}
	d.has = dependsOn(root, d.wrt)
	return d.run(root)
}

// dependsOn maps the ID of every node under root to whether wrt occurs in its
// subtree. Each distinct subtree is inspected once.
func dependsOn(root Node, wrt ID) map[ID]bool {
	has := make(map[ID]bool)
	type frame struct {
		n        Node
		expanded bool
	}
	stack := []frame{{n: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		id := f.n.ID()
		if _, done := has[id]; done {
			continue
		}
		if !f.expanded {
			stack = append(stack, frame{n: f.n, expanded: true})
			for _, c := range f.n.Children() {
				stack = append(stack, frame{n: c})
			}
			continue
		}
		found := id == wrt
		for _, c := range f.n.Children() {
			found = found || has[c.ID()]
		}
		has[id] = found
	}
	return has
}

type differ struct {
	wrt  ID
	has  map[ID]bool
	memo map[ID]Node
}

// run differentiates root bottom-up with an explicit stack: a node's rule
// runs only once the derivatives of all its children are in the memo.
func (d *differ) run(root Node) (Node, error) {
	type frame struct {
		n        Node
		expanded bool
	}
	stack := []frame{{n: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		id := f.n.ID()
		if id == d.wrt || !d.has[id] {
			continue
		}
		if _, done := d.memo[id]; done {
			continue
		}
		if !f.expanded {
			stack = append(stack, frame{n: f.n, expanded: true})
			for _, c := range f.n.Children() {
				stack = append(stack, frame{n: c})
			}
			continue
		}
		out, err := d.rule(f.n)
		if err != nil {
			return nil, err
		}
		d.memo[id] = out
	}
	return d.of(root), nil
}

// of returns the derivative of a node whose children have been processed.
func (d *differ) of(n Node) Node {
	id := n.ID()
	if id == d.wrt {
		return NewScalar(1)
	}
	if !d.has[id] {
		return NewScalar(0)
	}
	return d.memo[id]
}

func (d *differ) rule(n Node) (Node, error) {
	switch v := n.(type) {
	case *Binary:
		dl, dr := d.of(v.left), d.of(v.right)
		l, r := v.left, v.right
		switch v.op {
		case OpAdd:
			return Add(dl, dr), nil
		case OpSub:
			return Sub(dl, dr), nil
		case OpMul:
			return Add(Mul(dl, r), Mul(l, dr)), nil
		case OpDiv:
			return Div(Sub(Mul(dl, r), Mul(l, dr)), Pow(r, NewScalar(2))), nil
		case OpPow:
			if !d.has[r.ID()] {
				return Mul(Mul(r, Pow(l, Sub(r, NewScalar(1)))), dl), nil
			}
			// d(l^r) = l^r * (r' ln l + r l'/l)
			return Mul(Pow(l, r), Add(Mul(dr, NewFunction(Log, l)), Mul(r, Div(dl, l)))), nil
		}
	case *Unary:
		dc := d.of(v.child)
		switch v.op {
		case OpNegate:
			return Negate(dc), nil
		case OpAbs:
			return Mul(NewFunction(Sign, v.child), dc), nil
		default:
			return v.CopyWith(dc), nil
		}
	case *Function:
		return d.chain(v.name, v.fn, v.children), nil
	case *Interpolant:
		return d.chain(v.label, interpolantFunc{v}, v.children), nil
	case *Concatenation:
		parts := make([]Node, len(v.children))
		for i, c := range v.children {
			parts[i] = d.of(c)
		}
		return newConcatenation(parts), nil
	case *Parameter, *FunctionParameter:
		return nil, fmt.Errorf("%w: cannot differentiate %s", ErrUnresolved, n)
	}
	return nil, fmt.Errorf("%w: cannot differentiate %s node", ErrNotEvaluable, n.Kind())
}

// chain applies the multivariate chain rule: sum_i df/dx_i * dx_i/dwrt. The
// partials are bound under the name of the function they came from.
func (d *differ) chain(name string, fn Callable, children []Node) Node {
	var sum Node
	for i, c := range children {
		if !d.has[c.ID()] {
			continue
		}
		partial := NewBoundFunction(fmt.Sprintf("d%s/darg%d", name, i), PartialDerivative(fn, i), children...)
		term := Mul(partial, d.of(c))
		if sum == nil {
			sum = term
		} else {
			sum = Add(sum, term)
		}
	}
	if sum == nil {
		return NewScalar(0)
	}
	return sum
}
