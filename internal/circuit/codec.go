package circuit

import (
	"encoding/hex"
	"fmt"

	"github.com/gnolang/boolattack/internal/logic"
)

// BytesToBits expands data most significant bit first.
func BytesToBits(data []byte) []bool {
	bits := make([]bool, 0, len(data)*8)
	for _, by := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, by>>uint(i)&1 == 1)
		}
	}
	return bits
}

// BitsToBytes packs bits most significant bit first. The length must be a
// multiple of eight.
func BitsToBytes(bits []bool) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("%d bits is not a whole number of bytes", len(bits))
	}
	out := make([]byte, len(bits)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out, nil
}

// BitsToHex renders bits as lowercase hex.
func BitsToHex(bits []bool) (string, error) {
	data, err := BitsToBytes(bits)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(data), nil
}

// UintToBits renders the low n bits of v most significant bit first, the
// order InputWord allocates inputs in.
func UintToBits(v uint64, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = v>>uint(n-1-i)&1 == 1
	}
	return bits
}

// InputConstraints pins i1, i2, ... to the given values.
func InputConstraints(values []bool) []logic.Constraint {
	cs := make([]logic.Constraint, len(values))
	for i, v := range values {
		cs[i] = logic.Fix(logic.Input(i+1), v)
	}
	return cs
}

// Evaluate fixes every input of fn to values, resolves a copy and returns
// the outputs in index order. fn is not modified.
func Evaluate(fn *logic.BooleanFunction, values []bool) ([]bool, error) {
	out, err := fn.WithConstraints(InputConstraints(values)...)
	if err != nil {
		return nil, err
	}
	out.Resolve()
	bits, ok := out.OutputValues()
	if !ok {
		return nil, fmt.Errorf("outputs did not resolve to constants with %d inputs fixed", len(values))
	}
	return bits, nil
}
