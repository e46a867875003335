package cipher

import (
	"encoding/binary"
	"math/bits"
	"sync"

	"github.com/opd-ai/gnucrypto/crypto"
	"github.com/opd-ai/gnucrypto/gf"
	"github.com/opd-ai/gnucrypto/interfaces"
)

// rijndaelLUT holds the fused round tables. te[k] encrypts byte row k
// (SubBytes+MixColumns, rotated right by 8k bits); td[k] does the same for the
// inverse cipher. im[k] is InvMixColumns alone, used on decryption round keys.
type rijndaelLUT struct {
	s    [256]byte
	si   [256]byte
	te   [4][256]uint32
	td   [4][256]uint32
	im   [4][256]uint32
	rcon [30]byte
}

var (
	rijndaelOnce   sync.Once
	rijndaelTbl    *rijndaelLUT
	rijndaelSelfTT crypto.SelfTest

	rijndaelKATKey = mustHex("0000000000000000000000010000000000000000000000000000000000000000")
	rijndaelKATCT  = mustHex("E44429474D6FC3084EB2A6B8B46AF754")
)

func buildRijndaelTables() *rijndaelLUT {
	const p = gf.PolyRijndael
	t := &rijndaelLUT{s: rijndaelSBox}
	t.si = gf.Invert(&t.s)

	for i := 0; i < 256; i++ {
		s := t.s[i]
		x := byte(i)
		enc := gf.Pack32(gf.Mul(s, 2, p), s, s, gf.Mul(s, 3, p))
		inv := gf.Pack32(gf.Mul(x, 14, p), gf.Mul(x, 9, p), gf.Mul(x, 13, p), gf.Mul(x, 11, p))
		for k := 0; k < 4; k++ {
			t.te[k][i] = gf.RotR32(enc, 8*k)
			t.im[k][i] = gf.RotR32(inv, 8*k)
		}
	}
	// td[k][S[i]] = im[k][i], so td[k][y] is InvMixColumns of InvSubBytes(y).
	for i := 0; i < 256; i++ {
		for k := 0; k < 4; k++ {
			t.td[k][t.s[i]] = t.im[k][i]
		}
	}

	r := byte(1)
	for i := range t.rcon {
		t.rcon[i] = r
		r = gf.Double(r, p)
	}
	return t
}

func rijndaelTables() *rijndaelLUT {
	rijndaelOnce.Do(func() { rijndaelTbl = buildRijndaelTables() })
	return rijndaelTbl
}

// rijndaelRounds returns the round count for the given key and block sizes in
// bytes: max(Nk, Nb) + 6.
func rijndaelRounds(keySize, blockSize int) int {
	return max(keySize, blockSize)/4 + 6
}

// rijndaelShifts returns the ShiftRows offsets of rows 1..3 for nb columns.
func rijndaelShifts(nb int) [3]int {
	if nb == 8 {
		return [3]int{1, 3, 4}
	}
	return [3]int{1, 2, 3}
}

// Rijndael is the Rijndael block cipher with 128, 192 and 256-bit blocks and
// keys. With a 16-byte block it is AES.
type Rijndael struct {
	base
}

// NewRijndael returns a Rijndael engine.
func NewRijndael() *Rijndael {
	return &Rijndael{base{
		name:         RijndaelName,
		blockSizes:   []int{16, 24, 32},
		keySizes:     []int{16, 24, 32},
		defaultBlock: 16,
		defaultKey:   16,
	}}
}

// Clone returns an independent Rijndael engine.
func (c *Rijndael) Clone() interfaces.IBlockCipher { return NewRijndael() }

// MakeKey expands key into encryption and decryption schedules.
func (c *Rijndael) MakeKey(key []byte, blockSize int) (interfaces.ISessionKey, error) {
	if err := c.checkMakeKey(key, blockSize); err != nil {
		return nil, err
	}
	t := rijndaelTables()

	nk := len(key) / 4
	nb := blockSize / 4
	rounds := rijndaelRounds(len(key), blockSize)
	w := make([]uint32, (rounds+1)*nb)
	defer crypto.WipeWords32([][]uint32{w})

	for i := 0; i < nk; i++ {
		w[i] = binary.BigEndian.Uint32(key[4*i:])
	}
	for i := nk; i < len(w); i++ {
		tmp := w[i-1]
		switch {
		case i%nk == 0:
			tmp = t.subWord(bits.RotateLeft32(tmp, 8)) ^ uint32(t.rcon[i/nk-1])<<24
		case nk > 6 && i%nk == 4:
			tmp = t.subWord(tmp)
		}
		w[i] = w[i-nk] ^ tmp
	}

	k := newSessionKey(c.name, blockSize, rounds, nb)
	for r := 0; r <= rounds; r++ {
		copy(k.ke[r], w[r*nb:])
		copy(k.kd[rounds-r], w[r*nb:])
	}
	for r := 1; r < rounds; r++ {
		for j, x := range k.kd[r] {
			k.kd[r][j] = t.im[0][x>>24] ^ t.im[1][x>>16&0xff] ^ t.im[2][x>>8&0xff] ^ t.im[3][x&0xff]
		}
	}

	c.logSchedule(key, k)
	return k, nil
}

func (t *rijndaelLUT) subWord(x uint32) uint32 {
	return gf.Pack32(t.s[x>>24], t.s[x>>16&0xff], t.s[x>>8&0xff], t.s[x&0xff])
}

// EncryptBlock encrypts one block.
func (c *Rijndael) EncryptBlock(in []byte, inOff int, out []byte, outOff int, key interfaces.ISessionKey, blockSize int) error {
	k, err := c.session(in, inOff, out, outOff, key, blockSize)
	if err != nil {
		return err
	}
	t := rijndaelTables()
	nb := blockSize / 4
	t.crypt(in[inOff:inOff+blockSize], out[outOff:outOff+blockSize], k.ke, &t.te, &t.s, rijndaelShifts(nb))
	return nil
}

// DecryptBlock decrypts one block.
func (c *Rijndael) DecryptBlock(in []byte, inOff int, out []byte, outOff int, key interfaces.ISessionKey, blockSize int) error {
	k, err := c.session(in, inOff, out, outOff, key, blockSize)
	if err != nil {
		return err
	}
	t := rijndaelTables()
	nb := blockSize / 4
	sh := rijndaelShifts(nb)
	// The inverse ShiftRows reads columns to the left instead of the right.
	back := [3]int{nb - sh[0], nb - sh[1], nb - sh[2]}
	t.crypt(in[inOff:inOff+blockSize], out[outOff:outOff+blockSize], k.kd, &t.td, &t.si, back)
	return nil
}

// crypt runs the full cipher in one direction. Column c of row k is read
// from state column (c+shift[k-1]) mod nb.
func (t *rijndaelLUT) crypt(in, out []byte, rk [][]uint32, tt *[4][256]uint32, sbox *[256]byte, shift [3]int) {
	nb := len(in) / 4
	rounds := len(rk) - 1
	var a, b [8]uint32

	for c := 0; c < nb; c++ {
		a[c] = binary.BigEndian.Uint32(in[4*c:]) ^ rk[0][c]
	}
	for r := 1; r < rounds; r++ {
		for c := 0; c < nb; c++ {
			b[c] = tt[0][a[c]>>24] ^
				tt[1][a[(c+shift[0])%nb]>>16&0xff] ^
				tt[2][a[(c+shift[1])%nb]>>8&0xff] ^
				tt[3][a[(c+shift[2])%nb]&0xff] ^
				rk[r][c]
		}
		a = b
	}
	for c := 0; c < nb; c++ {
		w := gf.Pack32(
			sbox[a[c]>>24],
			sbox[a[(c+shift[0])%nb]>>16&0xff],
			sbox[a[(c+shift[1])%nb]>>8&0xff],
			sbox[a[(c+shift[2])%nb]&0xff],
		) ^ rk[rounds][c]
		binary.BigEndian.PutUint32(out[4*c:], w)
	}
}

// SelfTest checks encrypt/decrypt symmetry for every key and block size and
// the 256-bit-key known-answer vector. The result is computed once.
func (c *Rijndael) SelfTest() bool {
	return rijndaelSelfTT.Result(RijndaelName, func() bool {
		return checkCipher(NewRijndael(), rijndaelKATKey, rijndaelKATCT)
	})
}
