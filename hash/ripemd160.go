package hash

import "github.com/opd-ai/gnucrypto/crypto"

const ripemd160Size = 20

var (
	ripemd160SelfTT crypto.SelfTest
	ripemd160KAT    = mustHex("9C1185A5C5E9FC54612808977EE8F548B2258D31")
)

type ripemd160 struct {
	h [5]uint32
	x [16]uint32
}

// NewRIPEMD160 returns a RIPEMD-160 digest.
func NewRIPEMD160() *Digest { return newDigest(&ripemd160{}) }

func (r *ripemd160) name() string { return RIPEMD160Name }
func (r *ripemd160) size() int    { return ripemd160Size }

func (r *ripemd160) reset() {
	r.h = ripemdIV
	r.x = [16]uint32{}
}

func (r *ripemd160) clone() engine {
	c := *r
	return &c
}

func (r *ripemd160) compress(block []byte) {
	x := &r.x
	ripemdWords(x, block)

	a, b, c, d, e := r.h[0], r.h[1], r.h[2], r.h[3], r.h[4]
	ap, bp, cp, dp, ep := a, b, c, d, e
	for j := 0; j < 80; j++ {
		g := j / 16
		t := rotl(a+ripemdF(g, b, c, d)+x[ripemdR[j]]+ripemdK[g], ripemdS[j]) + e
		a, e, d, c, b = e, d, rotl(c, 10), b, t

		t = rotl(ap+ripemdF(4-g, bp, cp, dp)+x[ripemdRP[j]]+ripemdKP[g], ripemdSP[j]) + ep
		ap, ep, dp, cp, bp = ep, dp, rotl(cp, 10), bp, t
	}
	t := r.h[1] + c + dp
	r.h[1] = r.h[2] + d + ep
	r.h[2] = r.h[3] + e + ap
	r.h[3] = r.h[4] + a + bp
	r.h[4] = r.h[0] + b + cp
	r.h[0] = t
}

func (r *ripemd160) padding(count uint64) []byte { return mdPadding(count, false) }

func (r *ripemd160) result() []byte { return ripemdResult(r.h[:]) }

func (r *ripemd160) selfTest() bool {
	return ripemd160SelfTT.Result(RIPEMD160Name, func() bool {
		return checkDigest(NewRIPEMD160(), nil, ripemd160KAT)
	})
}
