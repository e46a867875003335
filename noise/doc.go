// Package noise plugs the library's primitives into the flynn/noise
// Noise Protocol Framework implementation.
//
// HashWhirlpool and CipherRijndaelGCM implement noise.HashFunc and
// noise.CipherFunc, and NewCipherSuite combines them with Curve25519:
//
//	Noise_IK_25519_RijndaelGCM_Whirlpool
//
// Handshake drives an IK or NN handshake over that suite and exposes the
// split transport states:
//
//	init, _ := noise.NewIKHandshake(myPriv, peerPub, noise.Initiator)
//	msg1, _ := init.WriteMessage(nil)
//	// ... send msg1, receive msg2 ...
//	_, err := init.ReadMessage(msg2)
//	ct, err := init.Encrypt(nil, []byte("hello"))
//
// Use IK when the initiator already knows the responder's static key; NN
// provides confidentiality only.
package noise
