package verify

import (
	gl "github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/gnolang/boolattack/internal/logic"
)

// encoder translates one copy of a program into the shared circuit. Free
// inputs become fresh circuit inputs; every other name maps to the literal
// of its right-hand side.
type encoder struct {
	c    *gl.C
	fn   *logic.BooleanFunction
	lits map[logic.Name]z.Lit
}

func newEncoder(c *gl.C, fn *logic.BooleanFunction) *encoder {
	return &encoder{c: c, fn: fn, lits: make(map[logic.Name]z.Lit, fn.Len())}
}

// lit returns the literal for name, encoding its dependencies first. The
// walk is iterative so deep programs do not grow the goroutine stack.
func (e *encoder) lit(name logic.Name) z.Lit {
	if m, ok := e.lits[name]; ok {
		return m
	}
	stack := []logic.Name{name}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if _, ok := e.lits[top]; ok {
			stack = stack[:len(stack)-1]
			continue
		}
		rhs, defined := e.fn.Expression(top)
		if !defined {
			e.lits[top] = e.c.Lit()
			stack = stack[:len(stack)-1]
			continue
		}
		pending := false
		for _, o := range logic.References(rhs) {
			if _, ok := e.lits[o.Name]; !ok {
				stack = append(stack, o.Name)
				pending = true
			}
		}
		if pending {
			continue
		}
		e.lits[top] = e.gate(rhs)
		stack = stack[:len(stack)-1]
	}
	return e.lits[name]
}

func (e *encoder) operand(o logic.Operand) z.Lit {
	m := e.lits[o.Name]
	if o.Negated {
		return m.Not()
	}
	return m
}

func (e *encoder) gate(rhs logic.RHS) z.Lit {
	switch r := rhs.(type) {
	case logic.Constant:
		if r.Value {
			return e.c.T
		}
		return e.c.F
	case logic.Equation:
		return e.operand(r.Operand)
	case logic.Calculation:
		ms := make([]z.Lit, len(r.Operands))
		for i, o := range r.Operands {
			ms[i] = e.operand(o)
		}
		switch r.Op {
		case logic.OpAnd:
			return e.c.Ands(ms...)
		case logic.OpOr:
			return e.c.Ors(ms...)
		default:
			acc := ms[0]
			for _, m := range ms[1:] {
				acc = e.c.Xor(acc, m)
			}
			return acc
		}
	}
	return e.c.F
}
