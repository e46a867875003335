// Package gnucrypto is a library of block ciphers and message digests with
// built-in known-answer self-tests.
//
// The primitives are:
//
//   - Ciphers: Rijndael (AES, with 128, 192 and 256-bit blocks), Khazad and
//     Square, in package cipher.
//   - Digests: SHA-160, RIPEMD-128, RIPEMD-160 and Whirlpool, in package hash.
//
// This package is a thin facade over a shared factory.PrimitiveFactory:
//
//	c, err := gnucrypto.NewCipher("aes")
//	key, err := c.MakeKey(k, 16)
//	err = c.EncryptBlock(pt, 0, ct, 0, key, 16)
//
//	d, err := gnucrypto.NewHash("whirlpool")
//	d.Write(data)
//	sum := d.Digest()
//
// NewBlock adapts a cipher to crypto/cipher.Block for use with the standard
// modes, NewHMAC builds an HMAC over any digest and DeriveKey runs PBKDF2.
//
// Every primitive runs its self-test once per process before the factory
// hands it out; see package factory for the environment variables that
// control this.
package gnucrypto
