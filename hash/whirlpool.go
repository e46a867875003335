package hash

import (
	"encoding/binary"
	"sync"

	"github.com/opd-ai/gnucrypto/crypto"
	"github.com/opd-ai/gnucrypto/gf"
)

const (
	whirlpoolSize   = 64
	whirlpoolRounds = 10
)

var whirlpoolSBox = [256]byte{
	0x18, 0x23, 0xc6, 0xe8, 0x87, 0xb8, 0x01, 0x4f, 0x36, 0xa6, 0xd2, 0xf5, 0x79, 0x6f, 0x91, 0x52,
	0x60, 0xbc, 0x9b, 0x8e, 0xa3, 0x0c, 0x7b, 0x35, 0x1d, 0xe0, 0xd7, 0xc2, 0x2e, 0x4b, 0xfe, 0x57,
	0x15, 0x77, 0x37, 0xe5, 0x9f, 0xf0, 0x4a, 0xda, 0x58, 0xc9, 0x29, 0x0a, 0xb1, 0xa0, 0x6b, 0x85,
	0xbd, 0x5d, 0x10, 0xf4, 0xcb, 0x3e, 0x05, 0x67, 0xe4, 0x27, 0x41, 0x8b, 0xa7, 0x7d, 0x95, 0xd8,
	0xfb, 0xee, 0x7c, 0x66, 0xdd, 0x17, 0x47, 0x9e, 0xca, 0x2d, 0xbf, 0x07, 0xad, 0x5a, 0x83, 0x33,
	0x63, 0x02, 0xaa, 0x71, 0xc8, 0x19, 0x49, 0xd9, 0xf2, 0xe3, 0x5b, 0x88, 0x9a, 0x26, 0x32, 0xb0,
	0xe9, 0x0f, 0xd5, 0x80, 0xbe, 0xcd, 0x34, 0x48, 0xff, 0x7a, 0x90, 0x5f, 0x20, 0x68, 0x1a, 0xae,
	0xb4, 0x54, 0x93, 0x22, 0x64, 0xf1, 0x73, 0x12, 0x40, 0x08, 0xc3, 0xec, 0xdb, 0xa1, 0x8d, 0x3d,
	0x97, 0x00, 0xcf, 0x2b, 0x76, 0x82, 0xd6, 0x1b, 0xb5, 0xaf, 0x6a, 0x50, 0x45, 0xf3, 0x30, 0xef,
	0x3f, 0x55, 0xa2, 0xea, 0x65, 0xba, 0x2f, 0xc0, 0xde, 0x1c, 0xfd, 0x4d, 0x92, 0x75, 0x06, 0x8a,
	0xb2, 0xe6, 0x0e, 0x1f, 0x62, 0xd4, 0xa8, 0x96, 0xf9, 0xc5, 0x25, 0x59, 0x84, 0x72, 0x39, 0x4c,
	0x5e, 0x78, 0x38, 0x8c, 0xd1, 0xa5, 0xe2, 0x61, 0xb3, 0x21, 0x9c, 0x1e, 0x43, 0xc7, 0xfc, 0x04,
	0x51, 0x99, 0x6d, 0x0d, 0xfa, 0xdf, 0x7e, 0x24, 0x3b, 0xab, 0xce, 0x11, 0x8f, 0x4e, 0xb7, 0xeb,
	0x3c, 0x81, 0x94, 0xf7, 0xb9, 0x13, 0x2c, 0xd3, 0xe7, 0x6e, 0xc4, 0x03, 0x56, 0x44, 0x7f, 0xa9,
	0x2a, 0xbb, 0xc1, 0x53, 0xdc, 0x0b, 0x9d, 0x6c, 0x31, 0x74, 0xf6, 0x46, 0xac, 0x89, 0x14, 0xe1,
	0x16, 0x3a, 0x69, 0x09, 0x70, 0xb6, 0xd0, 0xed, 0xcc, 0x42, 0x98, 0xa4, 0x28, 0x5c, 0xf8, 0x86,
}

type whirlpoolLUT struct {
	t  [8][256]uint64
	rc [whirlpoolRounds]uint64
}

var (
	whirlpoolOnce   sync.Once
	whirlpoolTbl    *whirlpoolLUT
	whirlpoolSelfTT crypto.SelfTest

	whirlpoolKAT = mustHex("470F0409ABAA446E49667D4EBE12A14387CEDBD10DD17B8243CAD550A089DC0F" +
		"EEA7AA40F6C2AAAB71C6EBD076E43C7CFCA0AD32567897DCB5969861049A0F5A")
)

func buildWhirlpoolTables() *whirlpoolLUT {
	const p = gf.PolyWhirlpool
	t := &whirlpoolLUT{}
	for i := 0; i < 256; i++ {
		s := whirlpoolSBox[i]
		row := gf.Pack64(s, s, gf.Mul(s, 3, p), s, gf.Mul(s, 5, p), gf.Mul(s, 8, p), gf.Mul(s, 9, p), gf.Mul(s, 5, p))
		for k := 0; k < 8; k++ {
			t.t[k][i] = gf.RotR64(row, 8*k)
		}
	}
	for r := range t.rc {
		t.rc[r] = binary.BigEndian.Uint64(whirlpoolSBox[8*r:])
	}
	return t
}

func whirlpoolTables() *whirlpoolLUT {
	whirlpoolOnce.Do(func() { whirlpoolTbl = buildWhirlpoolTables() })
	return whirlpoolTbl
}

type whirlpool struct {
	h    [8]uint64
	k, n [8]uint64
	tbl  *whirlpoolLUT
}

// NewWhirlpool returns a 512-bit Whirlpool digest.
func NewWhirlpool() *Digest { return newDigest(&whirlpool{tbl: whirlpoolTables()}) }

func (w *whirlpool) name() string { return WhirlpoolName }
func (w *whirlpool) size() int    { return whirlpoolSize }

func (w *whirlpool) reset() {
	crypto.WipeWords64(w.h[:])
	crypto.WipeWords64(w.k[:])
	crypto.WipeWords64(w.n[:])
}

func (w *whirlpool) clone() engine {
	c := *w
	return &c
}

// rho computes one round of the W block cipher on x into dst: the S-box,
// cyclic column shift and MDS mix folded into eight table lookups, plus the
// round key.
func (t *whirlpoolLUT) rho(dst, x, key *[8]uint64) {
	for i := 0; i < 8; i++ {
		var v uint64
		for j := 0; j < 8; j++ {
			v ^= t.t[j][byte(x[(i-j)&7]>>(56-8*j))]
		}
		dst[i] = v ^ key[i]
	}
}

func (w *whirlpool) compress(block []byte) {
	var m, tmp, rk [8]uint64
	for i := range m {
		m[i] = binary.BigEndian.Uint64(block[8*i:])
		w.k[i] = w.h[i]
		w.n[i] = m[i] ^ w.h[i]
	}
	for r := 0; r < whirlpoolRounds; r++ {
		rk[0] = w.tbl.rc[r]
		w.tbl.rho(&tmp, &w.k, &rk)
		w.k = tmp
		w.tbl.rho(&tmp, &w.n, &w.k)
		w.n = tmp
	}
	for i := range w.h {
		w.h[i] ^= w.n[i] ^ m[i]
	}
}

// padding appends 0x80 and zeros so that 32 bytes remain in the block, then a
// 256-bit big-endian bit count of which only the low 64 bits are used.
func (w *whirlpool) padding(count uint64) []byte {
	n := int((count + 33) % 64)
	padLen := 33
	if n != 0 {
		padLen = 64 - n + 33
	}
	p := make([]byte, padLen)
	p[0] = 0x80
	binary.BigEndian.PutUint64(p[padLen-8:], count<<3)
	return p
}

func (w *whirlpool) result() []byte {
	out := make([]byte, whirlpoolSize)
	for i, v := range w.h {
		binary.BigEndian.PutUint64(out[8*i:], v)
	}
	return out
}

func (w *whirlpool) selfTest() bool {
	return whirlpoolSelfTT.Result(WhirlpoolName, func() bool {
		return checkDigest(NewWhirlpool(), nil, whirlpoolKAT)
	})
}
