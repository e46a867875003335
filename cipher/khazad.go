package cipher

import (
	"encoding/binary"
	"sync"

	"github.com/opd-ai/gnucrypto/crypto"
	"github.com/opd-ai/gnucrypto/gf"
	"github.com/opd-ai/gnucrypto/interfaces"
)

const khazadRounds = 8

// khazadLUT holds the eight 32-bit halves of the 64-bit round table. t[0..3]
// are indexed by the bytes of the high word, t[4..7] by the low word.
type khazadLUT struct {
	t  [8][256]uint32
	rc [khazadRounds + 1][2]uint32
}

var (
	khazadOnce   sync.Once
	khazadTbl    *khazadLUT
	khazadSelfTT crypto.SelfTest

	khazadKATKey = mustHex("00000000000000000000000000000100")
	khazadKATCT  = mustHex("A0C86A1BBE2CBF4C")
)

func buildKhazadTables() *khazadLUT {
	const p = gf.PolyKhazad
	t := &khazadLUT{}
	for i := 0; i < 256; i++ {
		s := khazadSBox[i]
		s3, s4, s5 := gf.Mul(s, 3, p), gf.Mul(s, 4, p), gf.Mul(s, 5, p)
		s6, s7, s8, sb := gf.Mul(s, 6, p), gf.Mul(s, 7, p), gf.Mul(s, 8, p), gf.Mul(s, 11, p)

		t.t[0][i] = gf.Pack32(s, s3, s4, s5)
		t.t[1][i] = gf.Pack32(s3, s, s5, s4)
		t.t[2][i] = gf.Pack32(s4, s5, s, s3)
		t.t[3][i] = gf.Pack32(s5, s4, s3, s)
		t.t[4][i] = gf.Pack32(s6, s8, sb, s7)
		t.t[5][i] = gf.Pack32(s8, s6, s7, sb)
		t.t[6][i] = gf.Pack32(sb, s7, s6, s8)
		t.t[7][i] = gf.Pack32(s7, sb, s8, s6)
	}
	// Round constants are consecutive 8-byte slices of the S-box.
	for r := range t.rc {
		s := khazadSBox[8*r : 8*r+8]
		t.rc[r][0] = binary.BigEndian.Uint32(s)
		t.rc[r][1] = binary.BigEndian.Uint32(s[4:])
	}
	return t
}

func khazadTables() *khazadLUT {
	khazadOnce.Do(func() { khazadTbl = buildKhazadTables() })
	return khazadTbl
}

// round applies the S-box and the involutional diffusion layer to (a0, a1).
func (t *khazadLUT) round(a0, a1 uint32) (uint32, uint32) {
	half := func(x, y uint32) uint32 {
		return t.t[0][x>>24] ^ t.t[1][x>>16&0xff] ^ t.t[2][x>>8&0xff] ^ t.t[3][x&0xff] ^
			t.t[4][y>>24] ^ t.t[5][y>>16&0xff] ^ t.t[6][y>>8&0xff] ^ t.t[7][y&0xff]
	}
	return half(a0, a1), half(a1, a0)
}

func khazadSub(x uint32) uint32 {
	return gf.Pack32(khazadSBox[x>>24], khazadSBox[x>>16&0xff], khazadSBox[x>>8&0xff], khazadSBox[x&0xff])
}

// Khazad is the 64-bit block, 128-bit key involutional cipher.
type Khazad struct {
	base
}

// NewKhazad returns a Khazad engine.
func NewKhazad() *Khazad {
	return &Khazad{base{
		name:         KhazadName,
		blockSizes:   []int{8},
		keySizes:     []int{16},
		defaultBlock: 8,
		defaultKey:   16,
	}}
}

// Clone returns an independent Khazad engine.
func (c *Khazad) Clone() interfaces.IBlockCipher { return NewKhazad() }

// MakeKey expands a 16-byte key. Each round key is derived from the previous
// two with the round function itself.
func (c *Khazad) MakeKey(key []byte, blockSize int) (interfaces.ISessionKey, error) {
	if err := c.checkMakeKey(key, blockSize); err != nil {
		return nil, err
	}
	t := khazadTables()
	k := newSessionKey(c.name, blockSize, khazadRounds, 2)

	k2 := [2]uint32{binary.BigEndian.Uint32(key), binary.BigEndian.Uint32(key[4:])}
	k1 := [2]uint32{binary.BigEndian.Uint32(key[8:]), binary.BigEndian.Uint32(key[12:])}
	for r := 0; r <= khazadRounds; r++ {
		h, l := t.round(k1[0], k1[1])
		kr := [2]uint32{h ^ t.rc[r][0] ^ k2[0], l ^ t.rc[r][1] ^ k2[1]}
		k.ke[r][0], k.ke[r][1] = kr[0], kr[1]
		k2, k1 = k1, kr
	}

	// The cipher is an involution, so decryption runs the same rounds with
	// reversed keys passed through the linear layer.
	copy(k.kd[0], k.ke[khazadRounds])
	copy(k.kd[khazadRounds], k.ke[0])
	for r := 1; r < khazadRounds; r++ {
		h, l := t.round(khazadSub(k.ke[r][0]), khazadSub(k.ke[r][1]))
		k.kd[khazadRounds-r][0], k.kd[khazadRounds-r][1] = h, l
	}

	c.logSchedule(key, k)
	return k, nil
}

// EncryptBlock encrypts one 8-byte block.
func (c *Khazad) EncryptBlock(in []byte, inOff int, out []byte, outOff int, key interfaces.ISessionKey, blockSize int) error {
	k, err := c.session(in, inOff, out, outOff, key, blockSize)
	if err != nil {
		return err
	}
	khazadTables().crypt(in[inOff:], out[outOff:], k.ke)
	return nil
}

// DecryptBlock decrypts one 8-byte block.
func (c *Khazad) DecryptBlock(in []byte, inOff int, out []byte, outOff int, key interfaces.ISessionKey, blockSize int) error {
	k, err := c.session(in, inOff, out, outOff, key, blockSize)
	if err != nil {
		return err
	}
	khazadTables().crypt(in[inOff:], out[outOff:], k.kd)
	return nil
}

func (t *khazadLUT) crypt(in, out []byte, rk [][]uint32) {
	a0 := binary.BigEndian.Uint32(in) ^ rk[0][0]
	a1 := binary.BigEndian.Uint32(in[4:]) ^ rk[0][1]
	for r := 1; r < khazadRounds; r++ {
		a0, a1 = t.round(a0, a1)
		a0 ^= rk[r][0]
		a1 ^= rk[r][1]
	}
	binary.BigEndian.PutUint32(out, khazadSub(a0)^rk[khazadRounds][0])
	binary.BigEndian.PutUint32(out[4:], khazadSub(a1)^rk[khazadRounds][1])
}

// SelfTest checks encrypt/decrypt symmetry and the known-answer vector once.
func (c *Khazad) SelfTest() bool {
	return khazadSelfTT.Result(KhazadName, func() bool {
		return checkCipher(NewKhazad(), khazadKATKey, khazadKATCT)
	})
}
