package interfaces

import (
	"errors"
	"fmt"
	"hash"

	"github.com/opd-ai/gnucrypto/limits"
	"github.com/sirupsen/logrus"
)

// ISelfTester is implemented by every primitive carrying known-answer vectors.
type ISelfTester interface {
	// SelfTest reports whether the primitive reproduces its vectors. The check
	// runs once per process; later calls return the cached result.
	SelfTest() bool
}

// ISessionKey is the expanded key material produced by IBlockCipher.MakeKey.
// It is owned by the caller and immutable once created.
type ISessionKey interface {
	// Algorithm names the cipher that produced the schedule
	Algorithm() string

	// BlockSize is the block size in bytes the schedule was built for
	BlockSize() int

	// Rounds is the number of cipher rounds the schedule covers
	Rounds() int

	// Wipe zeroes both round-key schedules
	Wipe()
}

// IBlockCipher is a fixed-block symmetric cipher engine.
type IBlockCipher interface {
	ISelfTester

	// Name returns the canonical algorithm name
	Name() string

	// DefaultBlockSize returns the block size used when none is specified
	DefaultBlockSize() int

	// DefaultKeySize returns the preferred key length in bytes
	DefaultKeySize() int

	// BlockSizes lists supported block sizes in ascending order
	BlockSizes() []int

	// KeySizes lists supported key lengths in ascending order
	KeySizes() []int

	// MakeKey expands key for the given block size
	MakeKey(key []byte, blockSize int) (ISessionKey, error)

	// EncryptBlock encrypts one block from in[inOff:] into out[outOff:]
	EncryptBlock(in []byte, inOff int, out []byte, outOff int, key ISessionKey, blockSize int) error

	// DecryptBlock decrypts one block from in[inOff:] into out[outOff:]
	DecryptBlock(in []byte, inOff int, out []byte, outOff int, key ISessionKey, blockSize int) error

	// Clone returns an independent instance of the same cipher
	Clone() IBlockCipher
}

// IMessageDigest is a streaming hash engine. It satisfies hash.Hash so it can
// be used with crypto/hmac and any other consumer of the standard interface.
type IMessageDigest interface {
	hash.Hash
	ISelfTester

	// Name returns the canonical algorithm name
	Name() string

	// HashSize returns the digest length in bytes
	HashSize() int

	// UpdateByte absorbs a single byte
	UpdateByte(b byte)

	// Update absorbs in[off:off+n]
	Update(in []byte, off, n int) error

	// Digest finalizes, returns the digest and resets the state for reuse
	Digest() []byte

	// Clone returns an independent copy of the running state
	Clone() IMessageDigest
}

// PrimitiveConfig holds the settings applied when the factory creates primitives
type PrimitiveConfig struct {
	// SelfTestOnCreate runs the primitive's self-test before returning it
	SelfTestOnCreate bool

	// StrictSelfTest turns a failed self-test into an error instead of a warning
	StrictSelfTest bool

	// DefaultBlockSize is the preferred cipher block size in bytes
	DefaultBlockSize int

	// LogLevel is the logrus level name applied by the factory
	LogLevel string
}

var (
	// ErrInvalidBlockSize indicates a DefaultBlockSize outside the supported range
	ErrInvalidBlockSize = errors.New("default block size out of range")

	// ErrInvalidLogLevel indicates a LogLevel logrus cannot parse
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Validate checks the configuration for out-of-range values
func (c *PrimitiveConfig) Validate() error {
	if c.DefaultBlockSize < limits.MinBlockSize || c.DefaultBlockSize > limits.MaxBlockSize {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBlockSize,
			c.DefaultBlockSize, limits.MinBlockSize, limits.MaxBlockSize)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
		}
	}
	return nil
}
