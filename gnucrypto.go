package gnucrypto

import (
	"crypto/hmac"
	"fmt"
	"hash"
	"sync"

	"github.com/opd-ai/gnucrypto/cipher"
	"github.com/opd-ai/gnucrypto/factory"
	"github.com/opd-ai/gnucrypto/interfaces"
	"github.com/opd-ai/gnucrypto/limits"
	"golang.org/x/crypto/pbkdf2"
)

// ErrInvalidArgument is returned by DeriveKey for non-positive parameters.
var ErrInvalidArgument = limits.ErrInvalidArgument

var (
	defaultOnce    sync.Once
	defaultFactory *factory.PrimitiveFactory
)

// Default returns the process-wide factory, built on first use from the
// GNUCRYPTO_* environment.
func Default() *factory.PrimitiveFactory {
	defaultOnce.Do(func() { defaultFactory = factory.NewPrimitiveFactory() })
	return defaultFactory
}

// NewCipher returns the block cipher engine registered under name.
func NewCipher(name string) (interfaces.IBlockCipher, error) {
	return Default().CreateCipher(name)
}

// NewHash returns a fresh message digest registered under name.
func NewHash(name string) (interfaces.IMessageDigest, error) {
	return Default().CreateHash(name)
}

// NewBlock returns a crypto/cipher.Block for the named cipher keyed with key.
func NewBlock(name string, key []byte) (*cipher.Block, error) {
	return Default().CreateBlock(name, key)
}

// CipherNames lists the canonical cipher names.
func CipherNames() []string { return Default().CipherNames() }

// HashNames lists the canonical hash names.
func HashNames() []string { return Default().HashNames() }

// SelfTestAll runs every primitive's known-answer test and reports the
// outcome by canonical name.
func SelfTestAll() map[string]bool { return Default().SelfTestAll() }

// hashFunc resolves name once; the returned constructor clones the untouched
// prototype, so it cannot fail and skips repeated self-test checks.
func hashFunc(name string) (func() hash.Hash, error) {
	proto, err := NewHash(name)
	if err != nil {
		return nil, err
	}
	return func() hash.Hash { return proto.Clone() }, nil
}

// NewHMAC returns an HMAC keyed with key over the named hash.
func NewHMAC(hashName string, key []byte) (hash.Hash, error) {
	h, err := hashFunc(hashName)
	if err != nil {
		return nil, err
	}
	return hmac.New(h, key), nil
}

// DeriveKey stretches password into keyLen bytes with PBKDF2 over the named
// hash.
func DeriveKey(hashName string, password, salt []byte, iter, keyLen int) ([]byte, error) {
	if iter <= 0 || keyLen <= 0 {
		return nil, fmt.Errorf("%w: iterations %d, key length %d", ErrInvalidArgument, iter, keyLen)
	}
	h, err := hashFunc(hashName)
	if err != nil {
		return nil, err
	}
	return pbkdf2.Key(password, salt, iter, keyLen, h), nil
}
