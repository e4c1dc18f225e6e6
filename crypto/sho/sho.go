// Package sho implements a stateful hash object over cSHAKE256.
//
// A Sho absorbs input, can be ratcheted to a fresh 32-byte chaining key, and
// squeezes output that depends on everything absorbed so far. It serves as
// both the key-derivation function and the transcript hash of the proof
// system.
//
//     New(label, data)    = Absorb(data); Ratchet()   keyed by label
//     Ratchet()           : k = cSHAKE256(state || 0x01); state = k
//     Squeeze(n)          : out || k = cSHAKE256(state || 0x02); state = k
package sho

import (
	"golang.org/x/crypto/sha3"

	"github.com/whisperfish/zkgroup/crypto/group"
)

const (
	// KeySize is the size of the chaining key in bytes.
	KeySize = 32

	customization = "zkgroup SHO v1"

	ratchetDomain = 0x01
	squeezeDomain = 0x02
)

var (
	scalarDST = []byte("zkgroup SHO v1 get_scalar")
	pointDST  = []byte("zkgroup SHO v1 get_point")
)

// Sho is a stateful hash object. It is not safe for concurrent use.
type Sho struct {
	h sha3.ShakeHash
}

// New returns a Sho keyed by label that has absorbed data and ratcheted.
func New(label, data []byte) *Sho {
	s := &Sho{h: sha3.NewCShake256(nil, []byte(customization))}
	s.h.Write(label)
	s.Ratchet()
	s.Absorb(data)
	s.Ratchet()
	return s
}

// Absorb feeds data into the state.
func (s *Sho) Absorb(data []byte) {
	s.h.Write(data)
}

// Ratchet replaces the state by a chaining key derived from it.
func (s *Sho) Ratchet() {
	x := s.h.Clone()
	x.Write([]byte{ratchetDomain})
	var k [KeySize]byte
	x.Read(k[:])
	s.rekey(k[:])
}

// AbsorbAndRatchet is Absorb followed by Ratchet.
func (s *Sho) AbsorbAndRatchet(data []byte) {
	s.Absorb(data)
	s.Ratchet()
}

// Squeeze returns n bytes of output and ratchets the state.
func (s *Sho) Squeeze(n int) []byte {
	x := s.h.Clone()
	x.Write([]byte{squeezeDomain})
	out := make([]byte, n)
	x.Read(out)
	var k [KeySize]byte
	x.Read(k[:])
	s.rekey(k[:])
	return out
}

// GetScalar squeezes a uniformly distributed scalar.
func (s *Sho) GetScalar() group.Scalar {
	return group.HashToScalar(s.Squeeze(64), scalarDST)
}

// GetPoint squeezes a point with unknown discrete logarithm.
func (s *Sho) GetPoint() group.Point {
	return group.HashToPoint(s.Squeeze(64), pointDST)
}

// Clone returns an independent copy of s.
func (s *Sho) Clone() *Sho {
	return &Sho{h: s.h.Clone()}
}

func (s *Sho) rekey(k []byte) {
	s.h = sha3.NewCShake256(nil, []byte(customization))
	s.h.Write(k)
}
