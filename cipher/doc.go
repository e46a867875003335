// Package cipher implements the Rijndael, Khazad and Square block ciphers.
//
// Each engine is stateless apart from lazily built lookup tables that are
// shared read-only across goroutines. Key material is expanded once by
// MakeKey into a SessionKey that carries both the encryption and decryption
// round keys:
//
//	c := cipher.NewRijndael()
//	key, err := c.MakeKey(userKey, 16)
//	if err != nil {
//		return err
//	}
//	defer key.Wipe()
//	err = c.EncryptBlock(pt, 0, ct, 0, key, 16)
//
// Rijndael with a 16-byte block is AES and interoperates with crypto/aes.
// Block wraps any engine as a crypto/cipher.Block for use with the standard
// modes of operation.
//
// Every engine exposes SelfTest, which checks encrypt/decrypt symmetry for all
// supported sizes plus a fixed known-answer vector. The outcome is cached for
// the lifetime of the process.
package cipher
