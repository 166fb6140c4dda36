package logic

import (
	"fmt"
	"strings"
)

// Operator is the boolean connective of a Calculation.
type Operator int

const (
	_ Operator = iota
	OpAnd
	OpOr
	OpXor
)

func (op Operator) String() string {
	switch op {
	case OpAnd:
		return "∧"
	case OpOr:
		return "∨"
	case OpXor:
		return "⊻"
	default:
		return "?"
	}
}

// Operand is a possibly negated reference to a variable.
type Operand struct {
	Name    Name
	Negated bool
}

// Pos returns the positive operand for name.
func Pos(name Name) Operand { return Operand{Name: name} }

// Neg returns the negated operand for name.
func Neg(name Name) Operand { return Operand{Name: name, Negated: true} }

// Not flips the sign of the operand.
func (o Operand) Not() Operand { return Operand{Name: o.Name, Negated: !o.Negated} }

// Index is the numeric suffix of the referenced name.
func (o Operand) Index() int { return o.Name.Index() }

func (o Operand) String() string {
	if o.Negated {
		return "¬" + string(o.Name)
	}
	return string(o.Name)
}

// RHS is the right-hand side of one program line. It is one of Constant,
// Equation or Calculation. Values are immutable: resolution builds new
// values rather than editing existing ones, so programs can share them.
type RHS interface {
	isRHS()
	String() string
	Equal(other RHS) bool
}

// Constant is a fixed truth value.
type Constant struct {
	Value bool
}

func (Constant) isRHS() {}

func (c Constant) String() string {
	if c.Value {
		return "True"
	}
	return "False"
}

func (c Constant) Equal(other RHS) bool {
	o, ok := other.(Constant)
	return ok && o.Value == c.Value
}

// Equation is a signed alias of another variable.
type Equation struct {
	Operand Operand
}

func (Equation) isRHS() {}

func (e Equation) String() string { return e.Operand.String() }

func (e Equation) Equal(other RHS) bool {
	o, ok := other.(Equation)
	return ok && o.Operand == e.Operand
}

// Calculation applies one operator to a multiset of signed operands.
type Calculation struct {
	Op       Operator
	Operands []Operand
}

// NewCalculation validates and builds a Calculation. The operand slice is
// copied.
func NewCalculation(op Operator, operands ...Operand) (Calculation, error) {
	switch op {
	case OpAnd, OpOr, OpXor:
	default:
		return Calculation{}, fmt.Errorf("unknown operator %d", op)
	}
	if len(operands) < 2 {
		return Calculation{}, fmt.Errorf("%w: got %d", ErrTooFewOperands, len(operands))
	}
	ops := make([]Operand, len(operands))
	copy(ops, operands)
	return Calculation{Op: op, Operands: ops}, nil
}

func (Calculation) isRHS() {}

func (c Calculation) String() string {
	parts := make([]string, len(c.Operands))
	for i, o := range c.Operands {
		parts[i] = o.String()
	}
	return strings.Join(parts, " "+c.Op.String()+" ")
}

func (c Calculation) Equal(other RHS) bool {
	o, ok := other.(Calculation)
	if !ok || o.Op != c.Op || len(o.Operands) != len(c.Operands) {
		return false
	}
	for i := range c.Operands {
		if c.Operands[i] != o.Operands[i] {
			return false
		}
	}
	return true
}

// References returns the operands a right-hand side depends on.
func References(rhs RHS) []Operand {
	switch r := rhs.(type) {
	case Equation:
		return []Operand{r.Operand}
	case Calculation:
		return r.Operands
	default:
		return nil
	}
}

// Expression is one line of a program: Target = RHS.
type Expression struct {
	Target Name
	RHS    RHS
}

// IsConstraint reports whether the line pins an input parameter.
func (e Expression) IsConstraint() bool { return e.Target.IsInput() }

func (e Expression) String() string {
	return string(e.Target) + " = " + e.RHS.String()
}

// Assign builds an Expression.
func Assign(target Name, rhs RHS) Expression {
	return Expression{Target: target, RHS: rhs}
}

// Lit builds a Constant.
func Lit(v bool) RHS { return Constant{Value: v} }

// Eq builds an Equation.
func Eq(o Operand) RHS { return Equation{Operand: o} }

// And builds an AND calculation. It panics on fewer than two operands and
// is meant for producers and tests that build programs in code.
func And(operands ...Operand) RHS { return mustCalc(OpAnd, operands) }

// Or builds an OR calculation; see And.
func Or(operands ...Operand) RHS { return mustCalc(OpOr, operands) }

// Xor builds an XOR calculation; see And.
func Xor(operands ...Operand) RHS { return mustCalc(OpXor, operands) }

func mustCalc(op Operator, operands []Operand) RHS {
	c, err := NewCalculation(op, operands...)
	if err != nil {
		panic(err)
	}
	return c
}
