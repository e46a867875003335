package noise

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/flynn/noise"
	"github.com/opd-ai/gnucrypto/crypto"
	"github.com/opd-ai/gnucrypto/limits"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/curve25519"
)

var (
	// ErrHandshakeNotComplete indicates transport encryption was attempted
	// before the final handshake message.
	ErrHandshakeNotComplete = errors.New("handshake not complete")
	// ErrHandshakeComplete indicates a handshake message after completion.
	ErrHandshakeComplete = errors.New("handshake already complete")
	// ErrInvalidKey indicates a static key of the wrong length.
	ErrInvalidKey = limits.ErrInvalidKey
)

// KeySize is the length of Curve25519 private and public keys.
const KeySize = curve25519.ScalarSize

// HandshakeRole defines whether we're initiating or responding to handshake
type HandshakeRole uint8

const (
	// Initiator sends the first handshake message
	Initiator HandshakeRole = iota
	// Responder answers the initiator
	Responder
)

func (r HandshakeRole) String() string {
	if r == Initiator {
		return "initiator"
	}
	return "responder"
}

// Handshake runs one Noise handshake over the RijndaelGCM/Whirlpool suite and
// then carries the resulting transport cipher states.
type Handshake struct {
	role     HandshakeRole
	pattern  string
	state    *noise.HandshakeState
	send     *noise.CipherState
	recv     *noise.CipherState
	complete bool
}

// PublicKey derives the Curve25519 public key for a 32-byte private key.
func PublicKey(private []byte) ([]byte, error) {
	if len(private) != KeySize {
		return nil, fmt.Errorf("%w: private key must be %d bytes, got %d", ErrInvalidKey, KeySize, len(private))
	}
	return curve25519.X25519(private, curve25519.Basepoint)
}

// GenerateKeypair creates a static Curve25519 key pair. A nil rng uses
// crypto/rand.
func GenerateKeypair(rng io.Reader) (private, public []byte, err error) {
	if rng == nil {
		rng = rand.Reader
	}
	private = make([]byte, KeySize)
	if _, err := io.ReadFull(rng, private); err != nil {
		return nil, nil, fmt.Errorf("failed to read private key: %w", err)
	}
	public, err = PublicKey(private)
	if err != nil {
		return nil, nil, err
	}
	return private, public, nil
}

// NewIKHandshake creates an IK handshake. The initiator must know the
// responder's static public key; the responder passes nil and learns the
// initiator's key from the first message.
func NewIKHandshake(staticPrivKey, peerPubKey []byte, role HandshakeRole) (*Handshake, error) {
	if role == Initiator && len(peerPubKey) != KeySize {
		return nil, fmt.Errorf("%w: initiator requires %d-byte peer public key, got %d", ErrInvalidKey, KeySize, len(peerPubKey))
	}
	pub, err := PublicKey(staticPrivKey)
	if err != nil {
		return nil, err
	}

	config := noise.Config{
		CipherSuite: NewCipherSuite(),
		Random:      rand.Reader,
		Pattern:     noise.HandshakeIK,
		Initiator:   role == Initiator,
		StaticKeypair: noise.DHKey{
			Private: append([]byte(nil), staticPrivKey...),
			Public:  pub,
		},
	}
	if role == Initiator {
		config.PeerStatic = append([]byte(nil), peerPubKey...)
	}
	return newHandshake("IK", role, config)
}

// NewNNHandshake creates an unauthenticated NN handshake.
func NewNNHandshake(role HandshakeRole) (*Handshake, error) {
	return newHandshake("NN", role, noise.Config{
		CipherSuite: NewCipherSuite(),
		Random:      rand.Reader,
		Pattern:     noise.HandshakeNN,
		Initiator:   role == Initiator,
	})
}

func newHandshake(pattern string, role HandshakeRole, config noise.Config) (*Handshake, error) {
	state, err := noise.NewHandshakeState(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create handshake state: %w", err)
	}
	crypto.NewLogger("noise", "newHandshake").
		WithFields(crypto.OperationFields("handshake_init", "created", logrus.Fields{
			"pattern": pattern,
			"role":    role.String(),
		})).
		Debug("Handshake state created")
	return &Handshake{role: role, pattern: pattern, state: state}, nil
}

// WriteMessage produces the next handshake message carrying payload.
func (h *Handshake) WriteMessage(payload []byte) ([]byte, error) {
	if h.complete {
		return nil, ErrHandshakeComplete
	}
	msg, cs1, cs2, err := h.state.WriteMessage(nil, payload)
	if err != nil {
		return nil, fmt.Errorf("%s %s write failed: %w", h.pattern, h.role, err)
	}
	h.split(cs1, cs2)
	return msg, nil
}

// ReadMessage consumes a handshake message from the peer and returns its
// payload.
func (h *Handshake) ReadMessage(message []byte) ([]byte, error) {
	if h.complete {
		return nil, ErrHandshakeComplete
	}
	payload, cs1, cs2, err := h.state.ReadMessage(nil, message)
	if err != nil {
		return nil, fmt.Errorf("%s %s read failed: %w", h.pattern, h.role, err)
	}
	h.split(cs1, cs2)
	return payload, nil
}

// split records the transport states once the final message is processed.
// cs1 always protects initiator-to-responder traffic.
func (h *Handshake) split(cs1, cs2 *noise.CipherState) {
	if cs1 == nil || cs2 == nil {
		return
	}
	if h.role == Initiator {
		h.send, h.recv = cs1, cs2
	} else {
		h.send, h.recv = cs2, cs1
	}
	h.complete = true
	crypto.NewLogger("noise", "split").
		WithFields(crypto.OperationFields("handshake", "complete", logrus.Fields{
			"pattern": h.pattern,
			"role":    h.role.String(),
		})).
		Debug("Handshake complete")
}

// IsComplete reports whether transport encryption is available.
func (h *Handshake) IsComplete() bool { return h.complete }

// Encrypt seals a transport message for the peer.
func (h *Handshake) Encrypt(ad, plaintext []byte) ([]byte, error) {
	if !h.complete {
		return nil, ErrHandshakeNotComplete
	}
	return h.send.Encrypt(nil, ad, plaintext)
}

// Decrypt opens a transport message from the peer.
func (h *Handshake) Decrypt(ad, ciphertext []byte) ([]byte, error) {
	if !h.complete {
		return nil, ErrHandshakeNotComplete
	}
	return h.recv.Decrypt(nil, ad, ciphertext)
}

// RemoteStaticKey returns the peer's static public key, which the IK
// responder learns from the first message. NN handshakes have none.
func (h *Handshake) RemoteStaticKey() []byte {
	return append([]byte(nil), h.state.PeerStatic()...)
}

// ChannelBinding returns the handshake hash, unique to this session.
func (h *Handshake) ChannelBinding() ([]byte, error) {
	if !h.complete {
		return nil, ErrHandshakeNotComplete
	}
	return h.state.ChannelBinding(), nil
}
