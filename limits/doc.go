// Package limits centralizes the size constants and validation errors used by
// the cipher and hash packages, so every primitive reports bad input the same
// way.
//
// # Error Types
//
//   - ErrInvalidKey: nil, empty or wrongly sized key material
//   - ErrInvalidArgument: an unsupported block size, or a session key used
//     with a block size it was not built for
//   - ErrShortBuffer: an offset/length pair outside its slice
//
// All validation functions wrap these sentinels with the offending values, so
// callers match with errors.Is and still get a readable message:
//
//	if err := limits.ValidateKeySize(key, []int{16, 24, 32}); err != nil {
//	    // errors.Is(err, limits.ErrInvalidKey) == true
//	}
//
// # Size Constants
//
// HashBlockSize is 64 bytes for SHA-160, RIPEMD-128, RIPEMD-160 and Whirlpool.
// Cipher blocks range from MinBlockSize (Khazad, 8 bytes) to MaxBlockSize
// (Rijndael with a 256-bit block).
package limits
