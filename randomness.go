package zkgroup

import (
	"github.com/whisperfish/zkgroup/crypto"
	"github.com/whisperfish/zkgroup/crypto/sho"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

// RandomnessSize is the size of a Randomness seed.
const RandomnessSize = crypto.RandomnessSize

// Randomness seeds every WithRandom operation.
type Randomness [RandomnessSize]byte

// NewRandomness draws fresh Randomness from the operating system.
func NewRandomness() (Randomness, error) {
	var r Randomness
	b, err := crypto.MakeRand()
	if err != nil {
		return r, zkerr.Wrap(zkerr.ErrRandomness, err)
	}
	copy(r[:], b)
	return r, nil
}

// sho returns a hash object keyed by label over r.
func (r Randomness) sho(label string) *sho.Sho {
	return sho.New([]byte(label), r[:])
}

// withRandom runs f with fresh Randomness.
func withRandom[T any](f func(Randomness) (T, error)) (T, error) {
	r, err := NewRandomness()
	if err != nil {
		var zero T
		return zero, err
	}
	return f(r)
}
