// Package hash implements the SHA-160, RIPEMD-128, RIPEMD-160 and Whirlpool
// message digests.
//
// All four share one streaming core, Digest, which buffers input into
// 64-byte blocks and implements hash.Hash, so a Digest can be handed to
// crypto/hmac or io.Copy directly:
//
//	d := hash.NewWhirlpool()
//	io.Copy(d, f)
//	sum := d.Digest()
//
// Digest returns the result and resets the engine; Sum leaves the running
// state intact. Clone copies the state including any buffered partial block.
//
// Whirlpool here is the second (Whirlpool-T) revision, with the S-box built
// from mini-boxes and the 0x11D reduction polynomial.
package hash
