package substitute

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/symparam/internal/expr"
)

var (
	// ErrUnsupportedNodeKind is returned for nodes that have no copy rule.
	ErrUnsupportedNodeKind = errors.New("unsupported node kind")
	// ErrNotConstant is returned by Evaluate when the substituted tree is not a
	// constant scalar.
	ErrNotConstant = errors.New("expression is not a constant scalar")
	// ErrCycle is returned when a callable's sub-parameters refer back to the
	// callable itself.
	ErrCycle = errors.New("parameter refers to itself")
)

// NodeError reports the node kind a substitution failed on.
type NodeError struct {
	Kind expr.Kind
	Node string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%v: %s node %s", e.Err, e.Kind, e.Node)
}

func (e *NodeError) Unwrap() error { return e.Err }
