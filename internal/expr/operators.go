package expr

// BinaryOp selects the arithmetic of a Binary node.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

var binarySymbols = [...]string{OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpPow: "**"}

func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(binarySymbols) {
		return "?"
	}
	return binarySymbols[op]
}

// Binary applies an arithmetic operator to two operands.
type Binary struct {
	id          ID
	op          BinaryOp
	left, right Node
	domain      []string
}

// NewBinary builds op(left, right). The result lives on the first non-empty
// domain of its operands.
func NewBinary(op BinaryOp, left, right Node) *Binary {
	return newBinary(op, left, right, domainOf(left, right))
}

func newBinary(op BinaryOp, left, right Node, domain []string) *Binary {
	b := &Binary{op: op, left: left, right: right, domain: domain}
	b.id = newHasher(KindBinary).u64(uint64(op)).u64(uint64(left.ID())).u64(uint64(right.ID())).strs(domain).sum()
	return b
}

func Add(l, r Node) *Binary { return NewBinary(OpAdd, l, r) }
func Sub(l, r Node) *Binary { return NewBinary(OpSub, l, r) }
func Mul(l, r Node) *Binary { return NewBinary(OpMul, l, r) }
func Div(l, r Node) *Binary { return NewBinary(OpDiv, l, r) }
func Pow(l, r Node) *Binary { return NewBinary(OpPow, l, r) }

// CopyWith rebuilds b around new operands, keeping its operator and domain.
func (b *Binary) CopyWith(left, right Node) *Binary {
	return newBinary(b.op, left, right, cloneDomain(b.domain))
}

func (b *Binary) ID() ID           { return b.id }
func (b *Binary) Kind() Kind       { return KindBinary }
func (b *Binary) Domain() []string { return b.domain }
func (b *Binary) Children() []Node { return []Node{b.left, b.right} }
func (b *Binary) Op() BinaryOp     { return b.op }
func (b *Binary) Left() Node       { return b.left }
func (b *Binary) Right() Node      { return b.right }
func (b *Binary) sealed()          {}

func (b *Binary) String() string {
	return "(" + b.left.String() + " " + b.op.String() + " " + b.right.String() + ")"
}

// UnaryOp selects the operation of a Unary node.
type UnaryOp int

const (
	OpNegate UnaryOp = iota
	OpAbs
	OpGrad
	OpDivergence
	OpBroadcast
)

var unaryNames = [...]string{OpNegate: "-", OpAbs: "abs", OpGrad: "grad", OpDivergence: "div", OpBroadcast: "broadcast"}

func (op UnaryOp) String() string {
	if op < 0 || int(op) >= len(unaryNames) {
		return "?"
	}
	return unaryNames[op]
}

// Unary applies a single-operand operation. Gradient and divergence are
// spatial operators resolved by discretisation; broadcast spreads its child
// over a target domain.
type Unary struct {
	id     ID
	op     UnaryOp
	child  Node
	domain []string
}

// NewUnary builds op(child) on the child's domain.
func NewUnary(op UnaryOp, child Node) *Unary {
	return newUnary(op, child, domainOf(child))
}

// NewBroadcast spreads child over domain.
func NewBroadcast(child Node, domain ...string) *Unary {
	return newUnary(OpBroadcast, child, cloneDomain(domain))
}

func newUnary(op UnaryOp, child Node, domain []string) *Unary {
	u := &Unary{op: op, child: child, domain: domain}
	u.id = newHasher(KindUnary).u64(uint64(op)).u64(uint64(child.ID())).strs(domain).sum()
	return u
}

func Negate(n Node) *Unary { return NewUnary(OpNegate, n) }

// CopyWith rebuilds u around a new child, keeping its operator and domain.
func (u *Unary) CopyWith(child Node) *Unary {
	return newUnary(u.op, child, cloneDomain(u.domain))
}

func (u *Unary) ID() ID           { return u.id }
func (u *Unary) Kind() Kind       { return KindUnary }
func (u *Unary) Domain() []string { return u.domain }
func (u *Unary) Children() []Node { return []Node{u.child} }
func (u *Unary) Op() UnaryOp      { return u.op }
func (u *Unary) Child() Node      { return u.child }
func (u *Unary) sealed()          {}

func (u *Unary) String() string {
	if u.op == OpNegate {
		return "-" + u.child.String()
	}
	return u.op.String() + "(" + u.child.String() + ")"
}

// Concatenation stacks its children into one vector-valued node.
type Concatenation struct {
	id       ID
	children []Node
	domain   []string
}

// NewConcatenation concatenates children. Its domain is the ordered union of
// the children's domains.
func NewConcatenation(children ...Node) *Concatenation {
	return newConcatenation(cloneNodes(children))
}

func newConcatenation(children []Node) *Concatenation {
	var domain []string
	seen := make(map[string]struct{})
	for _, c := range children {
		for _, d := range c.Domain() {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			domain = append(domain, d)
		}
	}
	c := &Concatenation{children: children, domain: domain}
	c.id = newHasher(KindConcatenation).nodes(children).strs(domain).sum()
	return c
}

// CopyWith rebuilds c around new children.
func (c *Concatenation) CopyWith(children []Node) *Concatenation {
	return newConcatenation(cloneNodes(children))
}

func (c *Concatenation) ID() ID           { return c.id }
func (c *Concatenation) Kind() Kind       { return KindConcatenation }
func (c *Concatenation) Domain() []string { return c.domain }
func (c *Concatenation) Children() []Node { return c.children }
func (c *Concatenation) String() string   { return "concat(" + joinNodes(c.children) + ")" }
func (c *Concatenation) sealed()          {}
