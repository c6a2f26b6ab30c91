package expr

import (
	"slices"
)

// Walk visits every node reachable from root in pre-order: a node first, then
// its children left to right. Shared subtrees are visited once per reference.
// Returning false from fn skips the node's children.
func Walk(root Node, fn func(Node) bool) {
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// PreOrder returns the nodes reachable from root in pre-order.
func PreOrder(root Node) []Node {
	var out []Node
	Walk(root, func(n Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Count returns the number of node references in the tree.
func Count(root Node) int {
	n := 0
	Walk(root, func(Node) bool {
		n++
		return true
	})
	return n
}

// Kinds returns the kind of every node in pre-order.
func Kinds(root Node) []Kind {
	var out []Kind
	Walk(root, func(n Node) bool {
		out = append(out, n.Kind())
		return true
	})
	return out
}

// Contains reports whether a node with the given ID occurs in the tree.
func Contains(root Node, id ID) bool {
	found := false
	Walk(root, func(n Node) bool {
		if found {
			return false
		}
		if n.ID() == id {
			found = true
			return false
		}
		return true
	})
	return found
}

// Unresolved returns the names of Parameter and FunctionParameter nodes left
// in the tree, in pre-order without duplicates.
func Unresolved(root Node) []string {
	var names []string
	seen := make(map[string]struct{})
	Walk(root, func(n Node) bool {
		var name string
		switch v := n.(type) {
		case *Parameter:
			name = v.Name()
		case *FunctionParameter:
			name = v.Name()
		default:
			return true
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		return true
	})
	return names
}

// Equal reports whether a and b are structurally identical: same kinds,
// operators, names, values, domains and children.
func Equal(a, b Node) bool {
	type pair struct{ a, b Node }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !shallowEqual(p.a, p.b) {
			return false
		}
		ac, bc := p.a.Children(), p.b.Children()
		if len(ac) != len(bc) {
			return false
		}
		for i := range ac {
			stack = append(stack, pair{ac[i], bc[i]})
		}
	}
	return true
}

func shallowEqual(a, b Node) bool {
	if a.Kind() != b.Kind() || !slices.Equal(a.Domain(), b.Domain()) {
		return false
	}
	switch x := a.(type) {
	case *Parameter:
		return x.name == b.(*Parameter).name
	case *FunctionParameter:
		y := b.(*FunctionParameter)
		if x.name != y.name || (x.diffVar == nil) != (y.diffVar == nil) {
			return false
		}
		return x.diffVar == nil || Equal(x.diffVar, y.diffVar)
	case *Scalar:
		y := b.(*Scalar)
		return x.value == y.value && x.name == y.name
	case *Variable:
		return x.name == b.(*Variable).name
	case *SpatialVariable:
		return x.name == b.(*SpatialVariable).name
	case *StateVector:
		y := b.(*StateVector)
		return x.start == y.start && x.stop == y.stop
	case *Binary:
		return x.op == b.(*Binary).op
	case *Unary:
		return x.op == b.(*Unary).op
	case *Function:
		y := b.(*Function)
		return x.name == y.name && x.fn.Name() == y.fn.Name() && IdentityOf(x.fn) == IdentityOf(y.fn)
	case *Interpolant:
		y := b.(*Interpolant)
		return x.label == y.label && slices.Equal(x.x, y.x) && slices.Equal(x.y, y.y)
	}
	return true
}
