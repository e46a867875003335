// Package gf implements the GF(2^8) arithmetic used to build the substitution
// and round tables of the block ciphers and hashes in this module.
//
// # Field Polynomials
//
// Every primitive fixes its own reduction polynomial:
//
//   - PolyRijndael (0x11B): Rijndael/AES
//   - PolyKhazad (0x11D): Khazad
//   - PolyWhirlpool (0x11D): Whirlpool
//   - PolySquare (0x1F5): Square
//
// Multiplication is the classic shift-and-reduce loop, so the package has no
// log/antilog tables of its own:
//
//	x := gf.Mul(0x57, 0x83, gf.PolyRijndael) // 0xc1
//
// # Word Packing
//
// Round tables fuse four (or eight) field products into one 32-bit (64-bit)
// word. Pack32, Pack64, RotR32 and RotR64 keep the byte order of those
// fusions explicit at the call site:
//
//	t := gf.Pack32(gf.Mul(s, 2, p), s, s, gf.Mul(s, 3, p))
//
// The helpers are pure functions and safe for concurrent use.
package gf
