// Package factory creates block cipher and message digest engines by name.
//
// Names are case-insensitive and include the usual aliases ("aes" for
// Rijndael, "sha-1" and "sha" for SHA-160, "rmd128" and "rmd160" for the
// RIPEMD variants).
//
// # Configuration
//
// NewPrimitiveFactory starts from a default interfaces.PrimitiveConfig and
// applies environment overrides. Invalid values are logged and ignored:
//   - GNUCRYPTO_SELF_TEST_ON_CREATE: run the primitive's self-test before returning it
//   - GNUCRYPTO_STRICT_SELF_TEST: turn a failed self-test into ErrSelfTestFailed
//   - GNUCRYPTO_DEFAULT_BLOCK_SIZE: preferred cipher block size in bytes, 8 to 32
//   - GNUCRYPTO_LOG_LEVEL: logrus level applied when the factory is created
//
// # Usage
//
//	f := factory.NewPrimitiveFactory()
//	c, err := f.CreateCipher("aes")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	key, err := c.MakeKey(k, 16)
//
// Per-call overrides go through CreateCipherWithConfig and
// CreateHashWithConfig; UpdateConfig replaces the default.
package factory
