package zkgroup

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/internal/zkcrypto"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

const (
	ProfileKeySize           = zkcrypto.ProfileKeySize
	ProfileKeyVersionSize    = zkcrypto.ProfileKeyVersionSize
	ProfileKeyCommitmentSize = 1 + zkcrypto.ProfileKeyCommitmentSize + ProfileKeyVersionSize
)

// ProfileKey is a user's 32-byte profile encryption key.
type ProfileKey [ProfileKeySize]byte

// NewProfileKey parses a profile key.
func NewProfileKey(contents []byte) (ProfileKey, error) {
	var pk ProfileKey
	err := copyFixed(pk[:], contents)
	return pk, err
}

// Serialize returns the raw key.
func (pk ProfileKey) Serialize() []byte {
	return append([]byte(nil), pk[:]...)
}

func (pk ProfileKey) attributes(uid uuid.UUID) zkcrypto.ProfileKeyStruct {
	return zkcrypto.NewProfileKeyStruct(pk, uid)
}

// GetCommitment commits to pk for the user uid. The commitment is
// deterministic.
func (pk ProfileKey) GetCommitment(uid uuid.UUID) *ProfileKeyCommitment {
	return &ProfileKeyCommitment{
		c:       zkcrypto.NewProfileKeyCommitment(pk.attributes(uid), uid).ProfileKeyCommitment,
		version: pk.GetProfileKeyVersion(uid),
	}
}

// GetProfileKeyVersion returns the version tag of pk for uid.
func (pk ProfileKey) GetProfileKeyVersion(uid uuid.UUID) ProfileKeyVersion {
	return ProfileKeyVersion(zkcrypto.ProfileKeyVersion(pk, uid))
}

// ProfileKeyVersion is a lower-case hex tag identifying a profile key
// without revealing it.
type ProfileKeyVersion [ProfileKeyVersionSize]byte

// NewProfileKeyVersion parses a version tag.
func NewProfileKeyVersion(contents []byte) (ProfileKeyVersion, error) {
	var v ProfileKeyVersion
	if err := copyFixed(v[:], contents); err != nil {
		return v, err
	}
	if !isLowerHex(v[:]) {
		return ProfileKeyVersion{}, zkerr.ErrInvalidAttribute
	}
	return v, nil
}

func isLowerHex(b []byte) bool {
	for _, c := range b {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Serialize returns the version as bytes.
func (v ProfileKeyVersion) Serialize() []byte {
	return append([]byte(nil), v[:]...)
}

// String returns the hex tag.
func (v ProfileKeyVersion) String() string {
	return string(v[:])
}

// ProfileKeyCommitment commits to a profile key for one user.
type ProfileKeyCommitment struct {
	c       zkcrypto.ProfileKeyCommitment
	version ProfileKeyVersion
}

// NewProfileKeyCommitment parses a commitment.
func NewProfileKeyCommitment(contents []byte) (*ProfileKeyCommitment, error) {
	return deserialize(contents, ProfileKeyCommitmentSize, func(s *cryptobyte.String) (*ProfileKeyCommitment, error) {
		c, err := zkcrypto.ReadProfileKeyCommitment(s)
		if err != nil {
			return nil, err
		}
		var raw []byte
		if !s.ReadBytes(&raw, ProfileKeyVersionSize) {
			return nil, zkerr.ErrBadLength
		}
		v, err := NewProfileKeyVersion(raw)
		if err != nil {
			return nil, err
		}
		return &ProfileKeyCommitment{c: c, version: v}, nil
	})
}

// Serialize encodes c.
func (c *ProfileKeyCommitment) Serialize() []byte {
	return serialize(ProfileKeyCommitmentSize, func(b *cryptobyte.Builder) {
		c.c.Marshal(b)
		b.AddBytes(c.version[:])
	})
}

// GetProfileKeyVersion returns the version of the committed key.
func (c *ProfileKeyCommitment) GetProfileKeyVersion() ProfileKeyVersion {
	return c.version
}

