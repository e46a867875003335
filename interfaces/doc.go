// Package interfaces defines the contracts shared by the cipher engines, the
// hash engines and the factory that creates them.
//
// # Core Interfaces
//
// [IBlockCipher] is a fixed-block cipher. Keys are expanded once with MakeKey
// and the resulting [ISessionKey] is passed to every block operation:
//
//	c, _ := factory.NewPrimitiveFactory().CreateCipher("rijndael")
//	key, err := c.MakeKey(userKey, 16)
//	if err != nil {
//	    return err
//	}
//	defer key.Wipe()
//	err = c.EncryptBlock(pt, 0, ct, 0, key, 16)
//
// [IMessageDigest] is a streaming hash. It embeds hash.Hash, so digests plug
// into crypto/hmac, io.Copy and friends, and adds the byte-level Update,
// UpdateByte and Digest operations:
//
//	md, _ := factory.NewPrimitiveFactory().CreateHash("whirlpool")
//	md.Update(data, 0, len(data))
//	sum := md.Digest() // md is reset and reusable
//
// Every primitive is an [ISelfTester]. SelfTest runs the known-answer vectors
// once per process and caches the boolean.
//
// # Configuration
//
// [PrimitiveConfig] carries the factory settings: whether to self-test on
// creation, whether a failure is fatal, the default block size and the log
// level.
package interfaces
