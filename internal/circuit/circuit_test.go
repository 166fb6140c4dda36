package circuit

import (
	"crypto/sha256"
	"encoding/hex"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/boolattack/internal/logic"
)

func concat(parts ...[]bool) []bool {
	var out []bool
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestAdderExhaustive(t *testing.T) {
	t.Parallel()
	const n = 3
	fn, err := Adder(n)
	require.NoError(t, err)
	assert.Len(t, fn.AllInputParameters(), 2*n)
	assert.Len(t, fn.Outputs(), n)

	for a := uint64(0); a < 1<<n; a++ {
		for b := uint64(0); b < 1<<n; b++ {
			got, err := Evaluate(fn, concat(UintToBits(a, n), UintToBits(b, n)))
			require.NoError(t, err)
			assert.Equal(t, UintToBits((a+b)%(1<<n), n), got, "%d + %d", a, b)
		}
	}
}

func TestBitwise(t *testing.T) {
	t.Parallel()
	const n = 8
	x, y := uint64(0xb5), uint64(0x3c)
	tests := []struct {
		op   logic.Operator
		want uint64
	}{
		{logic.OpAnd, x & y},
		{logic.OpOr, x | y},
		{logic.OpXor, x ^ y},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.op.String(), func(t *testing.T) {
			t.Parallel()
			fn, err := Bitwise(tt.op, n)
			require.NoError(t, err)
			got, err := Evaluate(fn, concat(UintToBits(x, n), UintToBits(y, n)))
			require.NoError(t, err)
			assert.Equal(t, UintToBits(tt.want, n), got)
		})
	}
}

func TestRotateAndShift(t *testing.T) {
	t.Parallel()
	const v = uint32(0x80000001)
	for _, k := range []int{0, 1, 7, 31} {
		rot, err := Rotator(32, k)
		require.NoError(t, err)
		got, err := Evaluate(rot, UintToBits(uint64(v), 32))
		require.NoError(t, err)
		assert.Equal(t, UintToBits(uint64(bits.RotateLeft32(v, -k)), 32), got, "rotr %d", k)

		shr, err := Shifter(32, k)
		require.NoError(t, err)
		got, err = Evaluate(shr, UintToBits(uint64(v), 32))
		require.NoError(t, err)
		assert.Equal(t, UintToBits(uint64(v>>uint(k)), 32), got, "shr %d", k)
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"adder", "and", "or", "rotr", "sha256", "shr", "xor"}, Kinds())

	fn, err := Generate("xor", Params{Bits: 2})
	require.NoError(t, err)
	assert.Equal(t, "v1 = i2 ⊻ i4\nv2 = i1 ⊻ i3\no1 = v2\no2 = v1\n", fn.String())

	_, err = Generate("md5", Params{})
	assert.Error(t, err)
	_, err = Generate("adder", Params{Bits: 0})
	assert.Error(t, err)
	_, err = Generate("sha256", Params{Rounds: 65})
	assert.Error(t, err)
}

func TestBuilderSharesConstants(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	w := b.ConstWord(0xf0, 8)
	assert.Len(t, b.Expressions(), 2)
	assert.Equal(t, w[0], w[3])
	assert.Equal(t, w[4], w[7])
	assert.NotEqual(t, w[0], w[4])
}

func TestCodec(t *testing.T) {
	t.Parallel()
	data := []byte{0x80, 0x01, 0xff}
	bitsOut := BytesToBits(data)
	require.Len(t, bitsOut, 24)
	assert.True(t, bitsOut[0])
	assert.False(t, bitsOut[1])
	assert.True(t, bitsOut[15])

	back, err := BitsToBytes(bitsOut)
	require.NoError(t, err)
	assert.Equal(t, data, back)

	h, err := BitsToHex(bitsOut)
	require.NoError(t, err)
	assert.Equal(t, "8001ff", h)

	_, err = BitsToHex(bitsOut[:5])
	assert.Error(t, err)
}

func TestPadBlock(t *testing.T) {
	t.Parallel()
	block, err := PadBlock(nil)
	require.NoError(t, err)
	assert.Equal(t, byte(0x80), block[0])
	for _, by := range block[1:] {
		assert.Zero(t, by)
	}

	block, err = PadBlock([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, byte(0x18), block[63])

	_, err = PadBlock(make([]byte, 56))
	assert.Error(t, err)
}

func sha256Digest(t *testing.T, fn *logic.BooleanFunction, msg []byte) string {
	t.Helper()
	block, err := PadBlock(msg)
	require.NoError(t, err)
	out, err := Evaluate(fn, BytesToBits(block[:]))
	require.NoError(t, err)
	require.Len(t, out, SHA256DigestBits)
	digest, err := BitsToHex(out)
	require.NoError(t, err)
	return digest
}

func TestSHA256EmptyMessage(t *testing.T) {
	t.Parallel()
	fn, err := SHA256()
	require.NoError(t, err)
	assert.Len(t, fn.AllInputParameters(), SHA256BlockBits)
	assert.Len(t, fn.Outputs(), SHA256DigestBits)

	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		sha256Digest(t, fn, nil))
}

func TestSHA256MatchesStdlib(t *testing.T) {
	if testing.Short() {
		t.Skip("evaluates the full compression circuit several times")
	}
	t.Parallel()
	fn, err := SHA256()
	require.NoError(t, err)

	for _, msg := range []string{"abc", "boolean collisions", "0123456789012345678901234567890123456789012345678901234"} {
		want := sha256.Sum256([]byte(msg))
		assert.Equal(t, hex.EncodeToString(want[:]), sha256Digest(t, fn, []byte(msg)), msg)
	}
}
