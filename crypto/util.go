package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/sha3"
)

const (
	// HashSizeByte is the size of the hash output in bytes.
	HashSizeByte = 32
	// HashID identifies the used hash as a string.
	HashID = "SHAKE256"
	// RandomnessSize is the size of the seeds accepted by every
	// randomness-supplied operation.
	RandomnessSize = 32
)

// Digest hashes all passed byte slices.
// The passed slices won't be mutated.
func Digest(ms ...[]byte) []byte {
	h := sha3.NewShake256()
	for _, m := range ms {
		h.Write(m)
	}
	ret := make([]byte, HashSizeByte)
	h.Read(ret)
	return ret
}

// MakeRand returns RandomnessSize random bytes.
// It returns an error if the system's randomness source failed.
// The output of the system's PRNG is hashed before being returned so
// that its raw bytes never end up in a serialized artifact.
func MakeRand() ([]byte, error) {
	r := make([]byte, RandomnessSize)
	if _, err := rand.Read(r); err != nil {
		return nil, err
	}
	return Digest(r), nil
}
