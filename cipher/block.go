package cipher

import (
	stdcipher "crypto/cipher"
	"fmt"

	"github.com/opd-ai/gnucrypto/interfaces"
)

// Block binds an engine to one session key so it can be driven by the
// standard library modes (CBC, CTR, GCM).
type Block struct {
	engine    interfaces.IBlockCipher
	key       interfaces.ISessionKey
	blockSize int
}

var _ stdcipher.Block = (*Block)(nil)

// NewBlock expands key for the engine at the given block size. A blockSize of
// zero selects the engine's default.
func NewBlock(engine interfaces.IBlockCipher, key []byte, blockSize int) (*Block, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: nil cipher engine", ErrInvalidArgument)
	}
	if blockSize == 0 {
		blockSize = engine.DefaultBlockSize()
	}
	sk, err := engine.MakeKey(key, blockSize)
	if err != nil {
		return nil, err
	}
	return &Block{engine: engine, key: sk, blockSize: blockSize}, nil
}

// BlockSize returns the cipher block size in bytes.
func (b *Block) BlockSize() int { return b.blockSize }

// Encrypt encrypts the first block of src into dst. Like the standard library
// block ciphers it panics on short buffers.
func (b *Block) Encrypt(dst, src []byte) {
	if err := b.engine.EncryptBlock(src, 0, dst, 0, b.key, b.blockSize); err != nil {
		panic(fmt.Sprintf("gnucrypto/cipher: %v", err))
	}
}

// Decrypt decrypts the first block of src into dst.
func (b *Block) Decrypt(dst, src []byte) {
	if err := b.engine.DecryptBlock(src, 0, dst, 0, b.key, b.blockSize); err != nil {
		panic(fmt.Sprintf("gnucrypto/cipher: %v", err))
	}
}

// Wipe zeroes the underlying session key.
func (b *Block) Wipe() { b.key.Wipe() }
