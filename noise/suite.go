package noise

import (
	stdcipher "crypto/cipher"
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/flynn/noise"
	"github.com/opd-ai/gnucrypto/cipher"
	gnuhash "github.com/opd-ai/gnucrypto/hash"
)

// HashWhirlpool is the Noise hash function "Whirlpool" (HASHLEN 64).
var HashWhirlpool noise.HashFunc = whirlpoolFunc{}

// CipherRijndaelGCM is the Noise cipher function "RijndaelGCM": AES-256-GCM
// computed by the Rijndael engine. Ciphertexts are identical to
// noise.CipherAESGCM.
var CipherRijndaelGCM noise.CipherFunc = rijndaelGCMFunc{}

type whirlpoolFunc struct{}

func (whirlpoolFunc) Hash() hash.Hash  { return gnuhash.NewWhirlpool() }
func (whirlpoolFunc) HashName() string { return "Whirlpool" }

type rijndaelGCMFunc struct{}

// Cipher panics if the engine rejects the key, which cannot happen for a
// 32-byte Rijndael key; noise.CipherFunc offers no error return.
func (rijndaelGCMFunc) Cipher(k [32]byte) noise.Cipher {
	blk, err := cipher.NewBlock(cipher.NewRijndael(), k[:], 16)
	if err != nil {
		panic(fmt.Sprintf("gnucrypto/noise: %v", err))
	}
	gcm, err := stdcipher.NewGCM(blk)
	if err != nil {
		panic(fmt.Sprintf("gnucrypto/noise: %v", err))
	}
	return aeadCipher{gcm}
}

func (rijndaelGCMFunc) CipherName() string { return "RijndaelGCM" }

// aeadCipher maps the 64-bit Noise counter onto a 96-bit GCM nonce: four zero
// bytes then the counter big-endian.
type aeadCipher struct {
	stdcipher.AEAD
}

func (c aeadCipher) nonce(n uint64) []byte {
	var nonce [12]byte
	binary.BigEndian.PutUint64(nonce[4:], n)
	return nonce[:]
}

func (c aeadCipher) Encrypt(out []byte, n uint64, ad, plaintext []byte) []byte {
	return c.Seal(out, c.nonce(n), plaintext, ad)
}

func (c aeadCipher) Decrypt(out []byte, n uint64, ad, ciphertext []byte) ([]byte, error) {
	return c.Open(out, c.nonce(n), ciphertext, ad)
}

// NewCipherSuite returns Noise_*_25519_RijndaelGCM_Whirlpool.
func NewCipherSuite() noise.CipherSuite {
	return noise.NewCipherSuite(noise.DH25519, CipherRijndaelGCM, HashWhirlpool)
}
