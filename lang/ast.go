package lang

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Expr is a node of the abstract syntax tree.
//
// The set of implementations is closed: [*Literal], [*Variable], [*Binary],
// and [*Assign]. Each node exclusively owns its children.
type Expr interface {
	// Position returns the location of the first token of the expression.
	Position() Position

	// String returns the expression in canonical source form.
	String() string

	expr()
}

// Literal is a constant integer.
type Literal struct {
	Value int64
	Pos   Position
}

// Variable is a reference to a named cell in the [Environment], resolved at
// evaluation time.
type Variable struct {
	Name string
	Pos  Position
}

// Binary applies an arithmetic operator to two operands.
type Binary struct {
	Left  Expr
	Op    Op
	Right Expr
	Pos   Position
}

// Assign stores the value of an expression in a named cell and yields it.
type Assign struct {
	Name  string
	Value Expr
	Pos   Position
}

func (*Literal) expr()  {}
func (*Variable) expr() {}
func (*Binary) expr()   {}
func (*Assign) expr()   {}

// Position returns the location of the numeral.
func (e *Literal) Position() Position { return e.Pos }

// Position returns the location of the identifier.
func (e *Variable) Position() Position { return e.Pos }

// Position returns the location of the left operand.
func (e *Binary) Position() Position { return e.Pos }

// Position returns the location of the assignment target.
func (e *Assign) Position() Position { return e.Pos }

func (e *Literal) String() string  { return Format(e) }
func (e *Variable) String() string { return Format(e) }
func (e *Binary) String() string   { return Format(e) }
func (e *Assign) String() string   { return Format(e) }

// Op is a binary arithmetic operator.
type Op int

const (
	// OpAdd is integer addition.
	OpAdd Op = iota
	// OpSubtract is integer subtraction.
	OpSubtract
	// OpMultiply is integer multiplication.
	OpMultiply
	// OpDivide is integer division truncated toward zero.
	OpDivide
)

// String returns the name of the operator.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "Add"

	case OpSubtract:
		return "Subtract"

	case OpMultiply:
		return "Multiply"

	case OpDivide:
		return "Divide"

	default:
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
}

// Symbol returns the source spelling of the operator.
func (op Op) Symbol() string {
	switch op {
	case OpAdd:
		return "+"

	case OpSubtract:
		return "-"

	case OpMultiply:
		return "*"

	case OpDivide:
		return "/"

	default:
		return "?"
	}
}

// precedence returns the binding strength of the operator.
func (op Op) precedence() int {
	switch op {
	case OpMultiply, OpDivide:
		return precMultiplicative

	default:
		return precAdditive
	}
}

// Precedence levels, lowest first. No binary operator has precAssign; it is
// the outermost level for formatting, where an assignment needs no
// parentheses.
const (
	precAssign = iota + 1
	precAdditive
	precMultiplicative
	precFactor
)

// binaryOps maps operator tokens to the operators they denote.
var binaryOps = map[Kind]Op{
	KindPlus:  OpAdd,
	KindMinus: OpSubtract,
	KindStar:  OpMultiply,
	KindSlash: OpDivide,
}

// NewLiteral returns a literal node with no source position.
func NewLiteral(value int64) *Literal {
	return &Literal{Value: value}
}

// NewVariable returns a variable reference with no source position.
func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

// NewBinary returns a binary node with no source position.
func NewBinary(left Expr, op Op, right Expr) *Binary {
	return &Binary{Left: left, Op: op, Right: right}
}

// NewAssign returns an assignment node with no source position.
func NewAssign(name string, value Expr) *Assign {
	return &Assign{Name: name, Value: value}
}

// Constant returns an expression that evaluates to value and whose canonical
// form parses. Numerals are unsigned, so negative values are built by
// subtraction from zero.
func Constant(value int64) Expr {
	switch {
	case value >= 0:
		return NewLiteral(value)

	case value == math.MinInt64:
		return NewBinary(
			NewBinary(NewLiteral(0), OpSubtract, NewLiteral(math.MaxInt64)),
			OpSubtract,
			NewLiteral(1),
		)

	default:
		return NewBinary(NewLiteral(0), OpSubtract, NewLiteral(-value))
	}
}

// Equal reports whether a and b are structurally identical.
// Source positions are not compared.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case nil:
		return b == nil

	case *Literal:
		y, ok := b.(*Literal)

		return ok && x.Value == y.Value

	case *Variable:
		y, ok := b.(*Variable)

		return ok && x.Name == y.Name

	case *Binary:
		y, ok := b.(*Binary)

		return ok && x.Op == y.Op &&
			Equal(x.Left, y.Left) && Equal(x.Right, y.Right)

	case *Assign:
		y, ok := b.(*Assign)

		return ok && x.Name == y.Name && Equal(x.Value, y.Value)

	default:
		return false
	}
}

// Walk traverses the tree rooted at e in depth-first pre-order, calling fn for
// each node. Children are skipped when fn returns false.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch x := e.(type) {
	case *Binary:
		Walk(x.Left, fn)
		Walk(x.Right, fn)

	case *Assign:
		Walk(x.Value, fn)
	}
}

// Variables returns the distinct variable names read or assigned by e, in
// order of first appearance.
func Variables(e Expr) []string {
	var (
		names []string
		seen  = make(map[string]struct{})
	)

	add := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	Walk(e, func(n Expr) bool {
		switch x := n.(type) {
		case *Variable:
			add(x.Name)

		case *Assign:
			add(x.Name)
		}

		return true
	})

	return names
}

// Print writes an indented tree representation of e to w.
func Print(w io.Writer, e Expr) error {
	var b strings.Builder

	printNode(&b, e, 0)

	_, err := io.WriteString(w, b.String())

	return err
}

func printNode(b *strings.Builder, e Expr, depth int) {
	indent := strings.Repeat("  ", depth)

	switch x := e.(type) {
	case *Literal:
		fmt.Fprintf(b, "%sLiteral(%d)\n", indent, x.Value)

	case *Variable:
		fmt.Fprintf(b, "%sVariable(%s)\n", indent, x.Name)

	case *Binary:
		fmt.Fprintf(b, "%sBinary(%s)\n", indent, x.Op)
		printNode(b, x.Left, depth+1)
		printNode(b, x.Right, depth+1)

	case *Assign:
		fmt.Fprintf(b, "%sAssign(%s)\n", indent, x.Name)
		printNode(b, x.Value, depth+1)

	default:
		fmt.Fprintf(b, "%s<nil>\n", indent)
	}
}
