package circuit

import (
	"fmt"
	"sort"

	"github.com/gnolang/boolattack/internal/logic"
)

// Params sizes a generated circuit. Fields a generator does not use are
// ignored.
type Params struct {
	Bits   int
	Amount int
	Rounds int
}

type generator func(Params) (*logic.BooleanFunction, error)

var generators = map[string]generator{
	"adder":  func(p Params) (*logic.BooleanFunction, error) { return Adder(p.Bits) },
	"and":    func(p Params) (*logic.BooleanFunction, error) { return Bitwise(logic.OpAnd, p.Bits) },
	"or":     func(p Params) (*logic.BooleanFunction, error) { return Bitwise(logic.OpOr, p.Bits) },
	"xor":    func(p Params) (*logic.BooleanFunction, error) { return Bitwise(logic.OpXor, p.Bits) },
	"rotr":   func(p Params) (*logic.BooleanFunction, error) { return Rotator(p.Bits, p.Amount) },
	"shr":    func(p Params) (*logic.BooleanFunction, error) { return Shifter(p.Bits, p.Amount) },
	"sha256": func(p Params) (*logic.BooleanFunction, error) { return SHA256Reduced(p.Rounds) },
}

// Kinds lists the circuit names Generate accepts.
func Kinds() []string {
	kinds := make([]string, 0, len(generators))
	for k := range generators {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Generate builds the named circuit.
func Generate(kind string, p Params) (*logic.BooleanFunction, error) {
	gen, ok := generators[kind]
	if !ok {
		return nil, fmt.Errorf("unknown circuit %q (want one of %v)", kind, Kinds())
	}
	return gen(p)
}

func checkBits(n int) error {
	if n < 1 || n > 64 {
		return fmt.Errorf("bit width must be in 1..64, got %d", n)
	}
	return nil
}

// Adder computes a + b mod 2^n. Inputs are a then b, each most
// significant bit first.
func Adder(n int) (*logic.BooleanFunction, error) {
	if err := checkBits(n); err != nil {
		return nil, err
	}
	b := NewBuilder()
	x, y := b.InputWord(n), b.InputWord(n)
	b.OutputWord(b.Add(x, y))
	return b.Function()
}

// Bitwise applies op to two n-bit words.
func Bitwise(op logic.Operator, n int) (*logic.BooleanFunction, error) {
	if err := checkBits(n); err != nil {
		return nil, err
	}
	b := NewBuilder()
	x, y := b.InputWord(n), b.InputWord(n)
	var out Word
	switch op {
	case logic.OpAnd:
		out = b.AndWord(x, y)
	case logic.OpOr:
		out = b.OrWord(x, y)
	case logic.OpXor:
		out = b.XorWord(x, y)
	default:
		return nil, fmt.Errorf("unknown operator %v", op)
	}
	b.OutputWord(out)
	return b.Function()
}

// Rotator rotates an n-bit word right by k.
func Rotator(n, k int) (*logic.BooleanFunction, error) {
	if err := checkBits(n); err != nil {
		return nil, err
	}
	b := NewBuilder()
	b.OutputWord(RotateRight(b.InputWord(n), k))
	return b.Function()
}

// Shifter shifts an n-bit word right by k.
func Shifter(n, k int) (*logic.BooleanFunction, error) {
	if err := checkBits(n); err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, fmt.Errorf("shift amount must not be negative, got %d", k)
	}
	b := NewBuilder()
	b.OutputWord(b.ShiftRight(b.InputWord(n), k))
	return b.Function()
}
