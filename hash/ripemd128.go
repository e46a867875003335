package hash

import "github.com/opd-ai/gnucrypto/crypto"

const ripemd128Size = 16

var (
	ripemd128SelfTT crypto.SelfTest
	ripemd128KAT    = mustHex("CDF26213A150DC3ECB610F18F6B38B46")
)

type ripemd128 struct {
	h [4]uint32
	x [16]uint32
}

// NewRIPEMD128 returns a RIPEMD-128 digest.
func NewRIPEMD128() *Digest { return newDigest(&ripemd128{}) }

func (r *ripemd128) name() string { return RIPEMD128Name }
func (r *ripemd128) size() int    { return ripemd128Size }

func (r *ripemd128) reset() {
	copy(r.h[:], ripemdIV[:4])
	r.x = [16]uint32{}
}

func (r *ripemd128) clone() engine {
	c := *r
	return &c
}

func (r *ripemd128) compress(block []byte) {
	x := &r.x
	ripemdWords(x, block)

	a, b, c, d := r.h[0], r.h[1], r.h[2], r.h[3]
	ap, bp, cp, dp := a, b, c, d
	for j := 0; j < 64; j++ {
		g := j / 16
		t := rotl(a+ripemdF(g, b, c, d)+x[ripemdR[j]]+ripemdK[g], ripemdS[j])
		a, d, c, b = d, c, b, t

		t = rotl(ap+ripemdF(3-g, bp, cp, dp)+x[ripemdRP[j]]+ripemdKP128[g], ripemdSP[j])
		ap, dp, cp, bp = dp, cp, bp, t
	}
	t := r.h[1] + c + dp
	r.h[1] = r.h[2] + d + ap
	r.h[2] = r.h[3] + a + bp
	r.h[3] = r.h[0] + b + cp
	r.h[0] = t
}

func (r *ripemd128) padding(count uint64) []byte { return mdPadding(count, false) }

func (r *ripemd128) result() []byte { return ripemdResult(r.h[:]) }

func (r *ripemd128) selfTest() bool {
	return ripemd128SelfTT.Result(RIPEMD128Name, func() bool {
		return checkDigest(NewRIPEMD128(), nil, ripemd128KAT)
	})
}
