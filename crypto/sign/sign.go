// Package sign implements Schnorr signatures over Ristretto255.
//
//     Setup : sk = a, pk = A = a*G
//     Sign  : proof of knowledge of a such that A = a*G, bound to the message
//     Verify: verify the proof for A and the message
//
// Signatures are 64 bytes: a challenge followed by one response.
package sign

import (
	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/poksho"
	"github.com/whisperfish/zkgroup/crypto/sho"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

const (
	PrivateKeySize = group.ScalarSize
	PublicKeySize  = group.PointSize
	SignatureSize  = 2 * group.ScalarSize
)

var ErrVerify = zkerr.ErrSignatureVerification

var statement = poksho.NewStatement().Add("A", poksho.Term{Scalar: "a", Point: "G"})

// PrivateKey is a signing key together with its cached public key.
type PrivateKey struct {
	a group.Scalar
	A group.Point
}

// PublicKey verifies signatures.
type PublicKey struct {
	A group.Point
}

// GenerateKey derives a signing key from s.
func GenerateKey(s *sho.Sho) PrivateKey {
	a := s.GetScalar()
	return PrivateKey{a: a, A: group.MulBase(a)}
}

// NewPrivateKey parses a signing key and recomputes its public key.
func NewPrivateKey(b []byte) (PrivateKey, error) {
	a, err := group.DecodeScalar(b)
	if err != nil {
		return PrivateKey{}, err
	}
	A := group.MulBase(a)
	if A.IsIdentity() {
		return PrivateKey{}, group.ErrIdentityPoint
	}
	return PrivateKey{a: a, A: A}, nil
}

// NewPublicKey parses a verification key.
func NewPublicKey(b []byte) (PublicKey, error) {
	A, err := group.DecodePublicPoint(b)
	if err != nil {
		return PublicKey{}, err
	}
	return PublicKey{A: A}, nil
}

// Bytes returns the encoded private scalar.
func (key PrivateKey) Bytes() []byte {
	return key.a.Bytes()
}

// Public returns the verification key of key.
func (key PrivateKey) Public() PublicKey {
	return PublicKey{A: key.A}
}

// Sign signs message. randomness must be 32 unpredictable bytes.
func (key PrivateKey) Sign(message, randomness []byte) ([]byte, error) {
	return statement.Prove(
		poksho.ScalarArgs{"a": key.a},
		poksho.PointArgs{"A": key.A, "G": group.Base()},
		message, randomness)
}

// Bytes returns the encoded public key.
func (pk PublicKey) Bytes() []byte {
	return pk.A.Bytes()
}

// Verify checks sig over message.
func (pk PublicKey) Verify(message, sig []byte) error {
	if len(sig) != SignatureSize {
		return ErrVerify
	}
	err := statement.Verify(sig,
		poksho.PointArgs{"A": pk.A, "G": group.Base()},
		message)
	if err != nil {
		return ErrVerify
	}
	return nil
}
