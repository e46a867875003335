package cipher

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/opd-ai/gnucrypto/crypto"
	"github.com/opd-ai/gnucrypto/interfaces"
	"github.com/opd-ai/gnucrypto/limits"
	"github.com/sirupsen/logrus"
)

// Canonical cipher names.
const (
	RijndaelName = "rijndael"
	KhazadName   = "khazad"
	SquareName   = "square"
)

var (
	// ErrInvalidKey is returned for nil or wrongly sized key material, or a
	// session key produced by a different cipher.
	ErrInvalidKey = limits.ErrInvalidKey

	// ErrInvalidArgument is returned for unsupported block sizes.
	ErrInvalidArgument = limits.ErrInvalidArgument

	// ErrShortBuffer is returned when an offset leaves less than one block.
	ErrShortBuffer = limits.ErrShortBuffer
)

// SessionKey is the expanded key schedule for one (cipher, key, block size)
// combination. Ke holds the encryption round keys and Kd the decryption round
// keys, each rounds+1 rows of blockSize/4 words (Khazad uses two words per
// 64-bit round key).
type SessionKey struct {
	algorithm string
	blockSize int
	rounds    int
	ke        [][]uint32
	kd        [][]uint32
}

func newSessionKey(algorithm string, blockSize, rounds, words int) *SessionKey {
	k := &SessionKey{
		algorithm: algorithm,
		blockSize: blockSize,
		rounds:    rounds,
		ke:        make([][]uint32, rounds+1),
		kd:        make([][]uint32, rounds+1),
	}
	for r := 0; r <= rounds; r++ {
		k.ke[r] = make([]uint32, words)
		k.kd[r] = make([]uint32, words)
	}
	return k
}

// Algorithm returns the name of the cipher that produced the schedule.
func (k *SessionKey) Algorithm() string { return k.algorithm }

// BlockSize returns the block size in bytes the schedule was built for.
func (k *SessionKey) BlockSize() int { return k.blockSize }

// Rounds returns the number of rounds.
func (k *SessionKey) Rounds() int { return k.rounds }

// Wipe zeroes both schedules. The key must not be used afterwards.
func (k *SessionKey) Wipe() {
	crypto.WipeWords32(k.ke)
	crypto.WipeWords32(k.kd)
}

// base carries the static description shared by all engines.
type base struct {
	name         string
	blockSizes   []int
	keySizes     []int
	defaultBlock int
	defaultKey   int
}

func (b *base) Name() string          { return b.name }
func (b *base) DefaultBlockSize() int { return b.defaultBlock }
func (b *base) DefaultKeySize() int   { return b.defaultKey }
func (b *base) BlockSizes() []int     { return slices.Clone(b.blockSizes) }
func (b *base) KeySizes() []int       { return slices.Clone(b.keySizes) }

// checkMakeKey validates user key material before expansion.
func (b *base) checkMakeKey(key []byte, blockSize int) error {
	if err := limits.ValidateBlockSize(blockSize, b.blockSizes); err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}
	if err := limits.ValidateKeySize(key, b.keySizes); err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}
	return nil
}

// logSchedule records a new key schedule at debug level.
func (b *base) logSchedule(key []byte, k *SessionKey) {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	crypto.NewLogger("cipher", "MakeKey").
		WithFields(crypto.SecureFieldHash(key, "key")).
		WithFields(logrus.Fields{
			"cipher":     b.name,
			"block_size": k.blockSize,
			"rounds":     k.rounds,
		}).
		Debug("Key schedule created")
}

// session validates the arguments of a block operation and returns the
// concrete schedule.
func (b *base) session(in []byte, inOff int, out []byte, outOff int, key interfaces.ISessionKey, blockSize int) (*SessionKey, error) {
	k, ok := key.(*SessionKey)
	if !ok || k == nil {
		return nil, fmt.Errorf("%s: %w: unsupported session key type %T", b.name, ErrInvalidKey, key)
	}
	if k.algorithm != b.name {
		return nil, fmt.Errorf("%s: %w: session key belongs to %s", b.name, ErrInvalidKey, k.algorithm)
	}
	if k.blockSize != blockSize {
		return nil, fmt.Errorf("%s: %w: session key built for %d-byte blocks, got %d",
			b.name, ErrInvalidArgument, k.blockSize, blockSize)
	}
	if err := limits.ValidateRange(in, inOff, blockSize); err != nil {
		return nil, fmt.Errorf("%s: input: %w", b.name, err)
	}
	if err := limits.ValidateRange(out, outOff, blockSize); err != nil {
		return nil, fmt.Errorf("%s: output: %w", b.name, err)
	}
	return k, nil
}

// checkCipher runs the symmetry check for every supported key size at every
// supported block size, then the known-answer vector: the all-zero block
// encrypts to kat and decrypts back to zero.
func checkCipher(c interfaces.IBlockCipher, katKey, kat []byte) bool {
	for _, bs := range c.BlockSizes() {
		for _, ks := range c.KeySizes() {
			if !checkSymmetry(c, ks, bs) {
				return false
			}
		}
	}

	bs := len(kat)
	key, err := c.MakeKey(katKey, bs)
	if err != nil {
		return false
	}
	defer key.Wipe()

	zero := make([]byte, bs)
	ct := make([]byte, bs)
	pt := make([]byte, bs)
	if c.EncryptBlock(zero, 0, ct, 0, key, bs) != nil || !bytes.Equal(ct, kat) {
		return false
	}
	if c.DecryptBlock(ct, 0, pt, 0, key, bs) != nil {
		return false
	}
	return bytes.Equal(pt, zero)
}

// checkSymmetry encrypts block[i] = i under key[i] = i and decrypts it back.
func checkSymmetry(c interfaces.IBlockCipher, keySize, blockSize int) bool {
	kb := make([]byte, keySize)
	for i := range kb {
		kb[i] = byte(i)
	}
	pt := make([]byte, blockSize)
	for i := range pt {
		pt[i] = byte(i)
	}

	key, err := c.MakeKey(kb, blockSize)
	if err != nil {
		return false
	}
	defer key.Wipe()

	ct := make([]byte, blockSize)
	back := make([]byte, blockSize)
	if c.EncryptBlock(pt, 0, ct, 0, key, blockSize) != nil {
		return false
	}
	if c.DecryptBlock(ct, 0, back, 0, key, blockSize) != nil {
		return false
	}
	return bytes.Equal(pt, back) && !bytes.Equal(pt, ct)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
