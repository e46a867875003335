// Package limits provides the sentinel errors and size validation shared by
// every primitive in the module.
package limits

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// HashBlockSize is the compression block size of every hash engine.
	HashBlockSize = 64

	// MinBlockSize is the smallest cipher block any engine accepts (Khazad).
	MinBlockSize = 8

	// MaxBlockSize is the largest cipher block any engine accepts (Rijndael-256).
	MaxBlockSize = 32

	// MaxKeySize bounds user keys across all engines.
	MaxKeySize = 32
)

var (
	// ErrInvalidKey indicates key material of the wrong length or a nil key.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidArgument indicates an unsupported block size or a session key
	// used with the wrong block size.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrShortBuffer indicates an offset/length pair outside its buffer.
	ErrShortBuffer = errors.New("buffer too short")
)

// ValidateKeySize checks key against the supported key lengths.
func ValidateKeySize(key []byte, supported []int) error {
	if len(key) == 0 {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if !slices.Contains(supported, len(key)) {
		return fmt.Errorf("%w: key length %d not in %v", ErrInvalidKey, len(key), supported)
	}
	return nil
}

// ValidateBlockSize checks blockSize against the supported block sizes.
func ValidateBlockSize(blockSize int, supported []int) error {
	if !slices.Contains(supported, blockSize) {
		return fmt.Errorf("%w: block size %d not in %v", ErrInvalidArgument, blockSize, supported)
	}
	return nil
}

// ValidateRange checks that buf[off:off+n] is addressable.
func ValidateRange(buf []byte, off, n int) error {
	if off < 0 || n < 0 || off > len(buf) || len(buf)-off < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, off, len(buf))
	}
	return nil
}
