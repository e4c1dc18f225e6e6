package zkgroup

import (
	"crypto/subtle"

	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/sho"
	"github.com/whisperfish/zkgroup/crypto/sign"
	"github.com/whisperfish/zkgroup/internal/zkcrypto"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

const (
	GroupMasterKeySize    = 32
	GroupIdentifierSize   = 32
	GroupPublicParamsSize = 1 + GroupIdentifierSize + sign.PublicKeySize + 2*group.PointSize
	ChangeSignatureSize   = sign.SignatureSize

	GroupSecretParamsSize = 1 + GroupMasterKeySize + GroupIdentifierSize + blobKeySize +
		zkcrypto.UidEncryptionKeyPairSize + zkcrypto.ProfileKeyEncryptionKeyPairSize +
		signingKeySize

	blobKeySize    = 32
	signingKeySize = sign.PrivateKeySize + sign.PublicKeySize

	labelGroupGenerate = "Signal_ZKGroup_20200424_Random_GroupSecretParams_Generate"
	labelGroupDerive   = "Signal_ZKGroup_20200424_GroupMasterKey_GroupSecretParams_DeriveFromMasterKey"
	labelGroupSign     = "Signal_ZKGroup_20200424_Random_GroupSecretParams_Sign"
)

// GroupMasterKey is the root of all of a group's key material.
type GroupMasterKey [GroupMasterKeySize]byte

// NewGroupMasterKey parses a master key.
func NewGroupMasterKey(contents []byte) (GroupMasterKey, error) {
	var mk GroupMasterKey
	err := copyFixed(mk[:], contents)
	return mk, err
}

// Serialize returns the raw key.
func (mk GroupMasterKey) Serialize() []byte {
	return append([]byte(nil), mk[:]...)
}

// GroupIdentifier names a group to the server.
type GroupIdentifier [GroupIdentifierSize]byte

// NewGroupIdentifier parses a group identifier.
func NewGroupIdentifier(contents []byte) (GroupIdentifier, error) {
	var id GroupIdentifier
	err := copyFixed(id[:], contents)
	return id, err
}

// Serialize returns the raw identifier.
func (id GroupIdentifier) Serialize() []byte {
	return append([]byte(nil), id[:]...)
}

// ChangeSignature is a signature made with a group's signing key.
type ChangeSignature [ChangeSignatureSize]byte

// NewChangeSignature parses a group signature.
func NewChangeSignature(contents []byte) (ChangeSignature, error) {
	var sig ChangeSignature
	err := copyFixed(sig[:], contents)
	return sig, err
}

// Serialize returns the raw signature.
func (sig ChangeSignature) Serialize() []byte {
	return append([]byte(nil), sig[:]...)
}

// GroupSecretParams holds a group's secret keys. It is derived
// deterministically from its GroupMasterKey.
type GroupSecretParams struct {
	masterKey  GroupMasterKey
	groupID    GroupIdentifier
	blobKey    [blobKeySize]byte
	uidKey     zkcrypto.UidEncryptionKeyPair
	profileKey zkcrypto.ProfileKeyEncryptionKeyPair
	signingKey sign.PrivateKey
}

// GenerateGroupSecretParams creates a new group from fresh randomness.
func GenerateGroupSecretParams() (*GroupSecretParams, error) {
	return withRandom(func(r Randomness) (*GroupSecretParams, error) {
		return GenerateGroupSecretParamsWithRandom(r), nil
	})
}

// GenerateGroupSecretParamsWithRandom creates a new group from r.
func GenerateGroupSecretParamsWithRandom(r Randomness) *GroupSecretParams {
	var mk GroupMasterKey
	copy(mk[:], r.sho(labelGroupGenerate).Squeeze(GroupMasterKeySize))
	return DeriveGroupSecretParams(mk)
}

// DeriveGroupSecretParams derives the parameters of the group with master
// key mk. It is a pure function of mk.
func DeriveGroupSecretParams(mk GroupMasterKey) *GroupSecretParams {
	s := sho.New([]byte(labelGroupDerive), mk[:])
	p := &GroupSecretParams{masterKey: mk}
	copy(p.groupID[:], s.Squeeze(GroupIdentifierSize))
	copy(p.blobKey[:], s.Squeeze(blobKeySize))
	p.uidKey = zkcrypto.DeriveUidEncryptionKeyPair(s)
	p.profileKey = zkcrypto.DeriveProfileKeyEncryptionKeyPair(s)
	p.signingKey = sign.GenerateKey(s)
	return p
}

// NewGroupSecretParams parses serialized parameters. They are re-derived
// from the embedded master key and must match it exactly.
func NewGroupSecretParams(contents []byte) (*GroupSecretParams, error) {
	return deserialize(contents, GroupSecretParamsSize, func(s *cryptobyte.String) (*GroupSecretParams, error) {
		var mk GroupMasterKey
		if !s.CopyBytes(mk[:]) {
			return nil, zkerr.ErrBadLength
		}
		var rest []byte
		if !s.ReadBytes(&rest, GroupSecretParamsSize-1-GroupMasterKeySize) {
			return nil, zkerr.ErrBadLength
		}
		p := DeriveGroupSecretParams(mk)
		want := p.Serialize()[1+GroupMasterKeySize:]
		if subtle.ConstantTimeCompare(rest, want) != 1 {
			return nil, zkerr.ErrInconsistentParams
		}
		return p, nil
	})
}

// Serialize encodes p.
func (p *GroupSecretParams) Serialize() []byte {
	return serialize(GroupSecretParamsSize, func(b *cryptobyte.Builder) {
		b.AddBytes(p.masterKey[:])
		b.AddBytes(p.groupID[:])
		b.AddBytes(p.blobKey[:])
		p.uidKey.Marshal(b)
		p.profileKey.Marshal(b)
		b.AddBytes(p.signingKey.Bytes())
		b.AddBytes(p.signingKey.Public().Bytes())
	})
}

// GetMasterKey returns the master key p was derived from.
func (p *GroupSecretParams) GetMasterKey() GroupMasterKey {
	return p.masterKey
}

// GetPublicParams returns the parameters of p that may be shared with the
// server.
func (p *GroupSecretParams) GetPublicParams() *GroupPublicParams {
	return &GroupPublicParams{
		groupID:   p.groupID,
		verifyKey: p.signingKey.Public(),
		A:         p.uidKey.PublicKey(),
		B:         p.profileKey.PublicKey(),
	}
}

// Sign signs message with the group's signing key.
func (p *GroupSecretParams) Sign(message []byte) (ChangeSignature, error) {
	return withRandom(func(r Randomness) (ChangeSignature, error) {
		return p.SignWithRandom(r, message)
	})
}

// SignWithRandom signs message with the group's signing key.
func (p *GroupSecretParams) SignWithRandom(r Randomness, message []byte) (ChangeSignature, error) {
	var sig ChangeSignature
	raw, err := p.signingKey.Sign(message, r.sho(labelGroupSign).Squeeze(RandomnessSize))
	if err != nil {
		return sig, err
	}
	copy(sig[:], raw)
	return sig, nil
}

// GroupPublicParams are the public half of GroupSecretParams.
type GroupPublicParams struct {
	groupID   GroupIdentifier
	verifyKey sign.PublicKey
	A, B      group.Point
}

// NewGroupPublicParams parses serialized public parameters.
func NewGroupPublicParams(contents []byte) (*GroupPublicParams, error) {
	return deserialize(contents, GroupPublicParamsSize, func(s *cryptobyte.String) (*GroupPublicParams, error) {
		p := new(GroupPublicParams)
		if !s.CopyBytes(p.groupID[:]) {
			return nil, zkerr.ErrBadLength
		}
		var vk group.Point
		if err := zkcrypto.ReadPublicPoints(s, &vk, &p.A, &p.B); err != nil {
			return nil, err
		}
		p.verifyKey = sign.PublicKey{A: vk}
		return p, nil
	})
}

// Serialize encodes p.
func (p *GroupPublicParams) Serialize() []byte {
	return serialize(GroupPublicParamsSize, func(b *cryptobyte.Builder) {
		b.AddBytes(p.groupID[:])
		b.AddBytes(p.verifyKey.Bytes())
		b.AddBytes(p.A.Bytes())
		b.AddBytes(p.B.Bytes())
	})
}

// GetGroupIdentifier returns the group's identifier.
func (p *GroupPublicParams) GetGroupIdentifier() GroupIdentifier {
	return p.groupID
}

// VerifySignature checks a signature made with GroupSecretParams.Sign.
func (p *GroupPublicParams) VerifySignature(message []byte, sig ChangeSignature) error {
	return p.verifyKey.Verify(message, sig[:])
}
