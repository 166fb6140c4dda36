package circuit

import (
	"encoding/binary"
	"fmt"

	"github.com/gnolang/boolattack/internal/logic"
)

const (
	// SHA256BlockBits is the number of message inputs of the compression
	// circuit.
	SHA256BlockBits = 512
	// SHA256DigestBits is the number of outputs of the compression circuit.
	SHA256DigestBits = 256
	// SHA256Rounds is the full round count.
	SHA256Rounds = 64
)

var sha256IV = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// SHA256 returns the full 64-round compression of one 512-bit block from
// the standard initial hash value. Input i1 is the most significant bit of
// the block's first byte; output o1 is the most significant bit of the
// digest.
func SHA256() (*logic.BooleanFunction, error) {
	return SHA256Reduced(SHA256Rounds)
}

// SHA256Reduced is SHA256 with the compression loop cut to the given
// number of rounds.
func SHA256Reduced(rounds int) (*logic.BooleanFunction, error) {
	if rounds < 1 || rounds > SHA256Rounds {
		return nil, fmt.Errorf("rounds must be in 1..%d, got %d", SHA256Rounds, rounds)
	}
	b := NewBuilder()
	b.sha256Block(rounds)
	return b.Function()
}

func (b *Builder) sha256Block(rounds int) {
	var w [SHA256Rounds]Word
	for t := 0; t < 16; t++ {
		w[t] = b.InputWord(32)
	}
	for t := 16; t < rounds; t++ {
		s0 := b.XorWord(RotateRight(w[t-15], 7), RotateRight(w[t-15], 18), b.ShiftRight(w[t-15], 3))
		s1 := b.XorWord(RotateRight(w[t-2], 17), RotateRight(w[t-2], 19), b.ShiftRight(w[t-2], 10))
		w[t] = b.Add(b.Add(b.Add(w[t-16], s0), w[t-7]), s1)
	}

	var iv [8]Word
	for i, v := range sha256IV {
		iv[i] = b.ConstWord(uint64(v), 32)
	}
	a, bb, c, d, e, f, g, h := iv[0], iv[1], iv[2], iv[3], iv[4], iv[5], iv[6], iv[7]

	for t := 0; t < rounds; t++ {
		sum1 := b.XorWord(RotateRight(e, 6), RotateRight(e, 11), RotateRight(e, 25))
		ch := b.XorWord(b.AndWord(e, f), b.AndWord(NotWord(e), g))
		t1 := b.Add(b.Add(b.Add(b.Add(h, sum1), ch), b.ConstWord(uint64(sha256K[t]), 32)), w[t])

		sum0 := b.XorWord(RotateRight(a, 2), RotateRight(a, 13), RotateRight(a, 22))
		maj := b.XorWord(b.AndWord(a, bb), b.AndWord(a, c), b.AndWord(bb, c))
		t2 := b.Add(sum0, maj)

		h, g, f = g, f, e
		e = b.Add(d, t1)
		d, c, bb = c, bb, a
		a = b.Add(t1, t2)
	}

	for i, v := range [8]Word{a, bb, c, d, e, f, g, h} {
		b.OutputWord(b.Add(iv[i], v))
	}
}

// PadBlock applies SHA-256 padding to a message short enough to fit in a
// single block.
func PadBlock(msg []byte) ([64]byte, error) {
	var block [64]byte
	if len(msg) > 55 {
		return block, fmt.Errorf("message of %d bytes does not fit in one block", len(msg))
	}
	copy(block[:], msg)
	block[len(msg)] = 0x80
	binary.BigEndian.PutUint64(block[56:], uint64(len(msg))*8)
	return block, nil
}
