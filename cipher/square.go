package cipher

import (
	"encoding/binary"
	"math/bits"
	"sync"

	"github.com/opd-ai/gnucrypto/crypto"
	"github.com/opd-ai/gnucrypto/gf"
	"github.com/opd-ai/gnucrypto/interfaces"
)

const squareRounds = 8

type squareLUT struct {
	se  [256]byte
	sd  [256]byte
	te  [256]uint32
	td  [256]uint32
	off [squareRounds]uint32
}

var (
	squareOnce   sync.Once
	squareTbl    *squareLUT
	squareSelfTT crypto.SelfTest

	squareKATKey = mustHex("00000000000000000000020000000000")
	squareKATCT  = mustHex("A9DF031B4E25E89F527EFFF89CB0BEBA")
)

func buildSquareTables() *squareLUT {
	const p = gf.PolySquare
	t := &squareLUT{se: squareSBox}
	t.sd = gf.Invert(&t.se)
	for i := 0; i < 256; i++ {
		s, d := t.se[i], t.sd[i]
		t.te[i] = gf.Pack32(gf.Mul(s, 2, p), s, s, gf.Mul(s, 3, p))
		t.td[i] = gf.Pack32(gf.Mul(d, 14, p), gf.Mul(d, 9, p), gf.Mul(d, 13, p), gf.Mul(d, 11, p))
	}
	o := byte(1)
	for i := range t.off {
		t.off[i] = uint32(o) << 24
		o = gf.Double(o, p)
	}
	return t
}

func squareTables() *squareLUT {
	squareOnce.Do(func() { squareTbl = buildSquareTables() })
	return squareTbl
}

// squareTheta is the linear diffusion applied to each row of a round key.
func squareTheta(dst, src []uint32) {
	const p = gf.PolySquare
	for i, x := range src {
		l0, l1, l2, l3 := byte(x>>24), byte(x>>16), byte(x>>8), byte(x)
		dst[i] = gf.Pack32(
			gf.Mul(l0, 2, p)^gf.Mul(l1, 3, p)^l2^l3,
			l0^gf.Mul(l1, 2, p)^gf.Mul(l2, 3, p)^l3,
			l0^l1^gf.Mul(l2, 2, p)^gf.Mul(l3, 3, p),
			gf.Mul(l0, 3, p)^l1^l2^gf.Mul(l3, 2, p),
		)
	}
}

// Square is the 128-bit block, 128-bit key predecessor of Rijndael.
type Square struct {
	base
}

// NewSquare returns a Square engine.
func NewSquare() *Square {
	return &Square{base{
		name:         SquareName,
		blockSizes:   []int{16},
		keySizes:     []int{16},
		defaultBlock: 16,
		defaultKey:   16,
	}}
}

// Clone returns an independent Square engine.
func (c *Square) Clone() interfaces.IBlockCipher { return NewSquare() }

// MakeKey expands a 16-byte key.
func (c *Square) MakeKey(key []byte, blockSize int) (interfaces.ISessionKey, error) {
	if err := c.checkMakeKey(key, blockSize); err != nil {
		return nil, err
	}
	t := squareTables()

	var raw [squareRounds + 1][4]uint32
	defer func() { raw = [squareRounds + 1][4]uint32{} }()
	for i := 0; i < 4; i++ {
		raw[0][i] = binary.BigEndian.Uint32(key[4*i:])
	}
	for i := 1; i <= squareRounds; i++ {
		raw[i][0] = raw[i-1][0] ^ bits.RotateLeft32(raw[i-1][3], 8) ^ t.off[i-1]
		for j := 1; j < 4; j++ {
			raw[i][j] = raw[i-1][j] ^ raw[i][j-1]
		}
	}

	k := newSessionKey(c.name, blockSize, squareRounds, 4)
	for i := 0; i < squareRounds; i++ {
		squareTheta(k.ke[i], raw[i][:])
	}
	copy(k.ke[squareRounds], raw[squareRounds][:])
	for i := 1; i <= squareRounds; i++ {
		copy(k.kd[squareRounds-i], raw[i][:])
	}
	squareTheta(k.kd[squareRounds], raw[0][:])

	c.logSchedule(key, k)
	return k, nil
}

// EncryptBlock encrypts one 16-byte block.
func (c *Square) EncryptBlock(in []byte, inOff int, out []byte, outOff int, key interfaces.ISessionKey, blockSize int) error {
	k, err := c.session(in, inOff, out, outOff, key, blockSize)
	if err != nil {
		return err
	}
	t := squareTables()
	squareCrypt(in[inOff:], out[outOff:], k.ke, &t.te, &t.se)
	return nil
}

// DecryptBlock decrypts one 16-byte block.
func (c *Square) DecryptBlock(in []byte, inOff int, out []byte, outOff int, key interfaces.ISessionKey, blockSize int) error {
	k, err := c.session(in, inOff, out, outOff, key, blockSize)
	if err != nil {
		return err
	}
	t := squareTables()
	squareCrypt(in[inOff:], out[outOff:], k.kd, &t.td, &t.sd)
	return nil
}

// squareCrypt transposes while substituting: output row i gathers byte i of
// every input row.
func squareCrypt(in, out []byte, rk [][]uint32, tt *[256]uint32, sbox *[256]byte) {
	var s, n [4]uint32
	for i := range s {
		s[i] = binary.BigEndian.Uint32(in[4*i:]) ^ rk[0][i]
	}
	for r := 1; r < squareRounds; r++ {
		for i := 0; i < 4; i++ {
			sh := 24 - 8*i
			n[i] = tt[s[0]>>sh&0xff] ^
				gf.RotR32(tt[s[1]>>sh&0xff], 8) ^
				gf.RotR32(tt[s[2]>>sh&0xff], 16) ^
				gf.RotR32(tt[s[3]>>sh&0xff], 24) ^
				rk[r][i]
		}
		s = n
	}
	for i := 0; i < 4; i++ {
		sh := 24 - 8*i
		w := gf.Pack32(sbox[s[0]>>sh&0xff], sbox[s[1]>>sh&0xff], sbox[s[2]>>sh&0xff], sbox[s[3]>>sh&0xff])
		binary.BigEndian.PutUint32(out[4*i:], w^rk[squareRounds][i])
	}
}

// SelfTest checks encrypt/decrypt symmetry and the known-answer vector once.
func (c *Square) SelfTest() bool {
	return squareSelfTT.Result(SquareName, func() bool {
		return checkCipher(NewSquare(), squareKATKey, squareKATCT)
	})
}
