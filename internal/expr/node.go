package expr

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
)

// ID is the structural identity of a node.
type ID uint64

// Kind tags which case of the node variant a value is.
type Kind int

const (
	KindParameter Kind = iota
	KindFunctionParameter
	KindScalar
	KindVariable
	KindTime
	KindSpatialVariable
	KindStateVector
	KindBinary
	KindUnary
	KindFunction
	KindInterpolant
	KindConcatenation
)

var kindNames = [...]string{
	KindParameter:         "Parameter",
	KindFunctionParameter: "FunctionParameter",
	KindScalar:            "Scalar",
	KindVariable:          "Variable",
	KindTime:              "Time",
	KindSpatialVariable:   "SpatialVariable",
	KindStateVector:       "StateVector",
	KindBinary:            "Binary",
	KindUnary:             "Unary",
	KindFunction:          "Function",
	KindInterpolant:       "Interpolant",
	KindConcatenation:     "Concatenation",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Node is a single vertex of an expression tree. The set of implementations is
// closed: only types in this package satisfy it.
type Node interface {
	ID() ID
	Kind() Kind
	// Domain lists the spatial domains the node's value lives on. Empty means
	// the node is domain-independent.
	Domain() []string
	// Children returns the node's direct operands in evaluation order. The
	// returned slice must not be modified.
	Children() []Node
	String() string

	sealed()
}

// Copier is implemented by leaf kinds that have no operands and can be
// duplicated as-is.
type Copier interface {
	Node
	NewCopy() Node
}

// hasher accumulates the fields that make up a node's identity.
type hasher struct {
	h   hash.Hash64
	buf [8]byte
}

func newHasher(k Kind) *hasher {
	h := &hasher{h: fnv.New64a()}
	h.u64(uint64(k))
	return h
}

func (h *hasher) u64(v uint64) *hasher {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	h.h.Write(h.buf[:])
	return h
}

func (h *hasher) f64(v float64) *hasher {
	return h.u64(math.Float64bits(v))
}

func (h *hasher) str(s string) *hasher {
	h.u64(uint64(len(s)))
	h.h.Write([]byte(s))
	return h
}

func (h *hasher) strs(ss []string) *hasher {
	h.u64(uint64(len(ss)))
	for _, s := range ss {
		h.str(s)
	}
	return h
}

func (h *hasher) nodes(ns []Node) *hasher {
	h.u64(uint64(len(ns)))
	for _, n := range ns {
		h.u64(uint64(n.ID()))
	}
	return h
}

func (h *hasher) sum() ID {
	return ID(h.h.Sum64())
}

func cloneDomain(d []string) []string {
	if len(d) == 0 {
		return nil
	}
	out := make([]string, len(d))
	copy(out, d)
	return out
}

// domainOf returns the first non-empty domain among nodes.
func domainOf(nodes ...Node) []string {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if d := n.Domain(); len(d) > 0 {
			return cloneDomain(d)
		}
	}
	return nil
}

func cloneNodes(ns []Node) []Node {
	out := make([]Node, len(ns))
	copy(out, ns)
	return out
}
