// Package circuit emits boolean programs for word arithmetic and the
// SHA-256 compression function.
package circuit

import (
	"github.com/gnolang/boolattack/internal/logic"
)

// Bit is a wire: a possibly negated reference to an input parameter or an
// internal variable.
type Bit = logic.Operand

// Word is a little-endian group of wires: index 0 is the least
// significant bit.
type Word []Bit

// Builder emits a straight-line program with densely numbered names.
// Inputs are i1.., internal lines v1.., outputs o1.. in creation order.
type Builder struct {
	inputs    int
	internals int
	outputs   int
	exprs     []logic.Expression

	constants map[bool]Bit
}

func NewBuilder() *Builder {
	return &Builder{constants: make(map[bool]Bit, 2)}
}

func (b *Builder) emit(rhs logic.RHS) Bit {
	b.internals++
	name := logic.Internal(b.internals)
	b.exprs = append(b.exprs, logic.Assign(name, rhs))
	return logic.Pos(name)
}

// Input allocates a fresh input parameter.
func (b *Builder) Input() Bit {
	b.inputs++
	return logic.Pos(logic.Input(b.inputs))
}

// InputWord allocates n inputs, most significant bit first, so the first
// allocated input is the top bit of the word.
func (b *Builder) InputWord(n int) Word {
	w := make(Word, n)
	for i := n - 1; i >= 0; i-- {
		w[i] = b.Input()
	}
	return w
}

// Const returns the wire for a constant. Each value is emitted once.
func (b *Builder) Const(v bool) Bit {
	if bit, ok := b.constants[v]; ok {
		return bit
	}
	bit := b.emit(logic.Lit(v))
	b.constants[v] = bit
	return bit
}

// ConstWord spreads the low n bits of v over constant wires.
func (b *Builder) ConstWord(v uint64, n int) Word {
	w := make(Word, n)
	for i := range w {
		w[i] = b.Const(v>>uint(i)&1 == 1)
	}
	return w
}

func (b *Builder) And(x, y Bit) Bit { return b.emit(logic.And(x, y)) }
func (b *Builder) Or(x, y Bit) Bit  { return b.emit(logic.Or(x, y)) }

// Xor emits one n-ary XOR line.
func (b *Builder) Xor(bits ...Bit) Bit { return b.emit(logic.Xor(bits...)) }

// Not flips the wire's sign; no line is emitted.
func Not(x Bit) Bit { return x.Not() }

// Output allocates the next output parameter and binds it to x.
func (b *Builder) Output(x Bit) logic.Name {
	b.outputs++
	name := logic.Output(b.outputs)
	b.exprs = append(b.exprs, logic.Assign(name, logic.Eq(x)))
	return name
}

// OutputWord binds w to fresh outputs, most significant bit first.
func (b *Builder) OutputWord(w Word) {
	for i := len(w) - 1; i >= 0; i-- {
		b.Output(w[i])
	}
}

// Inputs is the number of input parameters allocated so far.
func (b *Builder) Inputs() int { return b.inputs }

// Expressions returns the emitted lines in order.
func (b *Builder) Expressions() []logic.Expression {
	return append([]logic.Expression(nil), b.exprs...)
}

// Function validates the emitted lines and returns them as a program.
func (b *Builder) Function() (*logic.BooleanFunction, error) {
	return logic.FromExpressions(b.exprs)
}

// AndWord, OrWord and XorWord apply the gate bit by bit.
func (b *Builder) AndWord(x, y Word) Word {
	return zipWith(x, y, b.And)
}

func (b *Builder) OrWord(x, y Word) Word {
	return zipWith(x, y, b.Or)
}

func (b *Builder) XorWord(ws ...Word) Word {
	out := make(Word, len(ws[0]))
	bits := make([]Bit, len(ws))
	for i := range out {
		for j, w := range ws {
			bits[j] = w[i]
		}
		out[i] = b.Xor(bits...)
	}
	return out
}

func NotWord(x Word) Word {
	out := make(Word, len(x))
	for i, bit := range x {
		out[i] = Not(bit)
	}
	return out
}

func zipWith(x, y Word, gate func(Bit, Bit) Bit) Word {
	out := make(Word, len(x))
	for i := range out {
		out[i] = gate(x[i], y[i])
	}
	return out
}

// Add is an n-bit ripple-carry adder; the final carry is dropped.
//
//	t = a ⊻ b, s = t ⊻ c, c' = (a ∧ b) ∨ (c ∧ t)
func (b *Builder) Add(x, y Word) Word {
	out := make(Word, len(x))
	var carry Bit
	for i := range x {
		if i == 0 {
			out[0] = b.Xor(x[0], y[0])
			if len(x) > 1 {
				carry = b.And(x[0], y[0])
			}
			continue
		}
		t := b.Xor(x[i], y[i])
		out[i] = b.Xor(t, carry)
		if i == len(x)-1 {
			break
		}
		carry = b.Or(b.And(x[i], y[i]), b.And(carry, t))
	}
	return out
}

// RotateRight reindexes wires; no line is emitted.
func RotateRight(x Word, n int) Word {
	size := len(x)
	out := make(Word, size)
	n = (n%size + size) % size
	for i := range out {
		out[i] = x[(i+n)%size]
	}
	return out
}

// ShiftRight moves wires towards the low end and fills with False.
func (b *Builder) ShiftRight(x Word, n int) Word {
	out := make(Word, len(x))
	for i := range out {
		if i+n < len(x) {
			out[i] = x[i+n]
		} else {
			out[i] = b.Const(false)
		}
	}
	return out
}
