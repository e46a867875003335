// Package crypto holds the support code shared by the cipher and hash
// engines: structured logging, wiping of key material, and the once-only
// self-test cache.
//
// # Logging
//
// [LoggerHelper] wraps logrus with the standard "package" and "function"
// fields. Key material is never logged directly; [SecureFieldHash] reduces it
// to a length and a short SHA-256 fingerprint:
//
//	crypto.NewLogger("cipher", "MakeKey").
//	    WithFields(crypto.SecureFieldHash(key, "key")).
//	    Debug("Key schedule created")
//
// # Secure Memory
//
// [SecureWipe] and [ZeroBytes] clear byte slices; [WipeWords32] and
// [WipeWords64] clear expanded round-key schedules and chaining values.
// Session keys call these from their Wipe method.
//
// # Self-Test Cache
//
// Each primitive embeds one package-level [SelfTest]. The first call to
// Result runs the known-answer check; every later call returns the cached
// boolean without recomputing it:
//
//	var katOnce crypto.SelfTest
//
//	func (k *Khazad) SelfTest() bool {
//	    return katOnce.Result("khazad", khazadKAT)
//	}
//
// A false result is logged at error level and must be checked by callers
// before trusting the primitive.
package crypto
