package hash

import (
	"encoding/hex"
	"fmt"

	"github.com/opd-ai/gnucrypto/crypto"
	"github.com/opd-ai/gnucrypto/interfaces"
	"github.com/opd-ai/gnucrypto/limits"
)

// Canonical digest names.
const (
	SHA160Name    = "sha-160"
	RIPEMD128Name = "ripemd128"
	RIPEMD160Name = "ripemd160"
	WhirlpoolName = "whirlpool"
)

// ErrShortBuffer is returned by Update when off and n do not fit the input.
var ErrShortBuffer = limits.ErrShortBuffer

// engine is the algorithm-specific half of a Digest: the chaining state and
// what to do with it. The shared half does buffering and byte counting.
type engine interface {
	name() string
	size() int
	// compress absorbs one HashBlockSize block.
	compress(block []byte)
	// padding returns the trailer for a message of count bytes.
	padding(count uint64) []byte
	// result serializes the chaining state.
	result() []byte
	reset()
	clone() engine
	selfTest() bool
}

// Digest is a streaming message digest over 64-byte blocks. A Digest is not
// safe for concurrent use; Clone it to hash from several goroutines.
type Digest struct {
	eng   engine
	buf   [limits.HashBlockSize]byte
	count uint64
}

var _ interfaces.IMessageDigest = (*Digest)(nil)

func newDigest(e engine) *Digest {
	e.reset()
	return &Digest{eng: e}
}

// Name returns the canonical algorithm name.
func (d *Digest) Name() string { return d.eng.name() }

// HashSize returns the digest length in bytes.
func (d *Digest) HashSize() int { return d.eng.size() }

// Size implements hash.Hash.
func (d *Digest) Size() int { return d.eng.size() }

// BlockSize implements hash.Hash.
func (d *Digest) BlockSize() int { return limits.HashBlockSize }

// UpdateByte absorbs one byte.
func (d *Digest) UpdateByte(b byte) {
	i := int(d.count % limits.HashBlockSize)
	d.count++
	d.buf[i] = b
	if i == limits.HashBlockSize-1 {
		d.eng.compress(d.buf[:])
	}
}

// Update absorbs in[off:off+n].
func (d *Digest) Update(in []byte, off, n int) error {
	if err := limits.ValidateRange(in, off, n); err != nil {
		return fmt.Errorf("%s: %w", d.eng.name(), err)
	}
	d.absorb(in[off : off+n])
	return nil
}

// Write implements io.Writer. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	d.absorb(p)
	return len(p), nil
}

func (d *Digest) absorb(p []byte) {
	const bs = limits.HashBlockSize
	n := len(p)
	i := int(d.count % bs)
	d.count += uint64(n)

	if i > 0 {
		c := copy(d.buf[i:], p)
		if i+c < bs {
			return
		}
		d.eng.compress(d.buf[:])
		p = p[c:]
	}
	for len(p) >= bs {
		d.eng.compress(p[:bs])
		p = p[bs:]
	}
	copy(d.buf[:], p)
}

// Digest appends the padding, returns the digest and resets the engine for
// the next message.
func (d *Digest) Digest() []byte {
	d.absorb(d.eng.padding(d.count))
	out := d.eng.result()
	d.Reset()
	return out
}

// Sum implements hash.Hash. It does not change the running state.
func (d *Digest) Sum(b []byte) []byte {
	return append(b, d.clone().Digest()...)
}

// Reset discards all absorbed input.
func (d *Digest) Reset() {
	d.eng.reset()
	d.count = 0
	crypto.ZeroBytes(d.buf[:])
}

// Clone returns an independent copy including any partial block.
func (d *Digest) Clone() interfaces.IMessageDigest { return d.clone() }

func (d *Digest) clone() *Digest {
	return &Digest{eng: d.eng.clone(), buf: d.buf, count: d.count}
}

// SelfTest checks the algorithm's known-answer vector once per process.
func (d *Digest) SelfTest() bool { return d.eng.selfTest() }

// mdPadding is the Merkle-Damgard trailer shared by the 64-byte-block
// engines: 0x80, zeros up to 56 mod 64, then the bit length as 8 bytes.
func mdPadding(count uint64, bigEndian bool) []byte {
	n := int(count % limits.HashBlockSize)
	padLen := 56 - n
	if n >= 56 {
		padLen = 120 - n
	}
	p := make([]byte, padLen+8)
	p[0] = 0x80
	bitLen := count << 3
	for i := 0; i < 8; i++ {
		if bigEndian {
			p[padLen+i] = byte(bitLen >> (56 - 8*i))
		} else {
			p[padLen+i] = byte(bitLen >> (8 * i))
		}
	}
	return p
}

// checkDigest hashes msg with a fresh engine and compares against want.
func checkDigest(d *Digest, msg, want []byte) bool {
	d.absorb(msg)
	got := d.Digest()
	return string(got) == string(want)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
