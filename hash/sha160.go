package hash

import (
	"encoding/binary"
	"math/bits"

	"github.com/opd-ai/gnucrypto/crypto"
)

const sha160Size = 20

var (
	sha160SelfTT crypto.SelfTest
	sha160KAT    = mustHex("A9993E364706816ABA3E25717850C26C9CD0D89D")
)

type sha160 struct {
	h [5]uint32
	w [80]uint32
}

// NewSHA160 returns a SHA-160 (SHA-1) digest.
func NewSHA160() *Digest { return newDigest(&sha160{}) }

func (s *sha160) name() string { return SHA160Name }
func (s *sha160) size() int    { return sha160Size }

func (s *sha160) reset() {
	s.h = [5]uint32{0x67452301, 0xEFCDAB89, 0x98BADCFE, 0x10325476, 0xC3D2E1F0}
	s.w = [80]uint32{}
}

func (s *sha160) clone() engine {
	c := *s
	return &c
}

func (s *sha160) compress(block []byte) {
	w := &s.w
	for t := 0; t < 16; t++ {
		w[t] = binary.BigEndian.Uint32(block[4*t:])
	}
	for t := 16; t < 80; t++ {
		w[t] = bits.RotateLeft32(w[t-3]^w[t-8]^w[t-14]^w[t-16], 1)
	}

	a, b, c, d, e := s.h[0], s.h[1], s.h[2], s.h[3], s.h[4]
	for t := 0; t < 80; t++ {
		var f, k uint32
		switch {
		case t < 20:
			f, k = b&c|^b&d, 0x5A827999
		case t < 40:
			f, k = b^c^d, 0x6ED9EBA1
		case t < 60:
			f, k = b&c|b&d|c&d, 0x8F1BBCDC
		default:
			f, k = b^c^d, 0xCA62C1D6
		}
		tmp := bits.RotateLeft32(a, 5) + f + e + k + w[t]
		e, d, c, b, a = d, c, bits.RotateLeft32(b, 30), a, tmp
	}
	s.h[0] += a
	s.h[1] += b
	s.h[2] += c
	s.h[3] += d
	s.h[4] += e
}

func (s *sha160) padding(count uint64) []byte { return mdPadding(count, true) }

func (s *sha160) result() []byte {
	out := make([]byte, sha160Size)
	for i, v := range s.h {
		binary.BigEndian.PutUint32(out[4*i:], v)
	}
	return out
}

func (s *sha160) selfTest() bool {
	return sha160SelfTT.Result(SHA160Name, func() bool {
		return checkDigest(NewSHA160(), []byte("abc"), sha160KAT)
	})
}
