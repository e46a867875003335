package gf

import "math/bits"

// Reduction polynomials, including the x^8 term.
const (
	PolyRijndael  uint16 = 0x11B
	PolyKhazad    uint16 = 0x11D
	PolyWhirlpool uint16 = 0x11D
	PolySquare    uint16 = 0x1F5
)

// Mul returns a*b reduced modulo poly.
func Mul(a, b byte, poly uint16) byte {
	x := uint16(a)
	var acc uint16
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			acc ^= x
		}
		x <<= 1
		if x&0x100 != 0 {
			x ^= poly
		}
		b >>= 1
	}
	return byte(acc)
}

// Double returns 2*a reduced modulo poly.
func Double(a byte, poly uint16) byte {
	return Mul(a, 2, poly)
}

// Pack32 packs four bytes big-endian.
func Pack32(b0, b1, b2, b3 byte) uint32 {
	return uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)
}

// Pack64 packs eight bytes big-endian.
func Pack64(b0, b1, b2, b3, b4, b5, b6, b7 byte) uint64 {
	return uint64(Pack32(b0, b1, b2, b3))<<32 | uint64(Pack32(b4, b5, b6, b7))
}

// RotR32 rotates x right by n bits.
func RotR32(x uint32, n int) uint32 {
	return bits.RotateLeft32(x, -n)
}

// RotR64 rotates x right by n bits.
func RotR64(x uint64, n int) uint64 {
	return bits.RotateLeft64(x, -n)
}

// Invert returns the inverse permutation of an S-box.
func Invert(sbox *[256]byte) [256]byte {
	var inv [256]byte
	for i, v := range sbox {
		inv[v] = byte(i)
	}
	return inv
}
