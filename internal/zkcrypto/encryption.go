package zkcrypto

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/sho"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

// UidEncryptionKeyPair encrypts user identifiers deterministically:
//
//     E_A1 = a1*M1,  E_A2 = a2*E_A1 + M2,  A = a1*Ga1 + a2*Ga2
type UidEncryptionKeyPair struct {
	a1, a2 group.Scalar
	A      group.Point
}

// UidCiphertext is an encrypted user identifier.
type UidCiphertext struct {
	EA1, EA2 group.Point
}

// DeriveUidEncryptionKeyPair draws a key pair from s.
func DeriveUidEncryptionKeyPair(s *sho.Sho) UidEncryptionKeyPair {
	kp := UidEncryptionKeyPair{a1: s.GetScalar(), a2: s.GetScalar()}
	sp := System()
	kp.A = sp.Ga1.Mul(kp.a1).Add(sp.Ga2.Mul(kp.a2))
	return kp
}

// PublicKey returns A.
func (kp UidEncryptionKeyPair) PublicKey() group.Point {
	return kp.A
}

// Encrypt encrypts uid.
func (kp UidEncryptionKeyPair) Encrypt(uid UidStruct) UidCiphertext {
	EA1 := uid.M1.Mul(kp.a1)
	return UidCiphertext{EA1: EA1, EA2: EA1.Mul(kp.a2).Add(uid.M2)}
}

// Decrypt recovers the identifier and checks that ct was produced under kp.
func (kp UidEncryptionKeyPair) Decrypt(ct UidCiphertext) (UidStruct, error) {
	M2 := ct.EA2.Sub(ct.EA1.Mul(kp.a2))
	uid, err := group.LizardDecode(M2)
	if err != nil {
		return UidStruct{}, zkerr.ErrDecryption
	}
	s := NewUidStruct(uid)
	if !s.M1.Mul(kp.a1).Equal(ct.EA1) {
		return UidStruct{}, zkerr.ErrDecryption
	}
	return s, nil
}

// UidCiphertextSize is the encoded size of a UidCiphertext.
const UidCiphertextSize = 2 * group.PointSize

// Marshal appends the encoding of ct to b.
func (ct UidCiphertext) Marshal(b *cryptobyte.Builder) {
	addPoints(b, ct.EA1, ct.EA2)
}

// ReadUidCiphertext decodes a UidCiphertext.
func ReadUidCiphertext(s *cryptobyte.String) (UidCiphertext, error) {
	var ct UidCiphertext
	err := ReadPoints(s, &ct.EA1, &ct.EA2)
	return ct, err
}

// ProfileKeyEncryptionKeyPair encrypts profile keys deterministically:
//
//     E_B1 = b1*M3,  E_B2 = b2*E_B1 + M4,  B = b1*Gb1 + b2*Gb2
type ProfileKeyEncryptionKeyPair struct {
	b1, b2 group.Scalar
	B      group.Point
}

// ProfileKeyCiphertext is an encrypted profile key.
type ProfileKeyCiphertext struct {
	EB1, EB2 group.Point
}

// DeriveProfileKeyEncryptionKeyPair draws a key pair from s.
func DeriveProfileKeyEncryptionKeyPair(s *sho.Sho) ProfileKeyEncryptionKeyPair {
	kp := ProfileKeyEncryptionKeyPair{b1: s.GetScalar(), b2: s.GetScalar()}
	sp := System()
	kp.B = sp.Gb1.Mul(kp.b1).Add(sp.Gb2.Mul(kp.b2))
	return kp
}

// PublicKey returns B.
func (kp ProfileKeyEncryptionKeyPair) PublicKey() group.Point {
	return kp.B
}

// Encrypt encrypts a profile key.
func (kp ProfileKeyEncryptionKeyPair) Encrypt(pk ProfileKeyStruct) ProfileKeyCiphertext {
	EB1 := pk.M3.Mul(kp.b1)
	return ProfileKeyCiphertext{EB1: EB1, EB2: EB1.Mul(kp.b2).Add(pk.M4)}
}

// Decrypt recovers the profile key of uid and checks that ct was produced
// under kp for that identifier. M4 loses three bits of the key, so every
// completion of every Elligator preimage is tried against E_B1.
func (kp ProfileKeyEncryptionKeyPair) Decrypt(ct ProfileKeyCiphertext, uid [UidSize]byte) (ProfileKeyStruct, error) {
	M4 := ct.EB2.Sub(ct.EB1.Mul(kp.b2))
	for _, c := range group.Decode253(M4) {
		for bits := byte(0); bits < 8; bits++ {
			key := c
			key[0] |= bits & 1
			key[31] |= (bits >> 1) << 6
			M3 := calcM3(key, uid)
			if M3.Mul(kp.b1).Equal(ct.EB1) {
				return ProfileKeyStruct{Bytes: key, M3: M3, M4: M4}, nil
			}
		}
	}
	return ProfileKeyStruct{}, zkerr.ErrDecryption
}

// ProfileKeyCiphertextSize is the encoded size of a ProfileKeyCiphertext.
const ProfileKeyCiphertextSize = 2 * group.PointSize

// Marshal appends the encoding of ct to b.
func (ct ProfileKeyCiphertext) Marshal(b *cryptobyte.Builder) {
	addPoints(b, ct.EB1, ct.EB2)
}

// ReadProfileKeyCiphertext decodes a ProfileKeyCiphertext.
func ReadProfileKeyCiphertext(s *cryptobyte.String) (ProfileKeyCiphertext, error) {
	var ct ProfileKeyCiphertext
	err := ReadPoints(s, &ct.EB1, &ct.EB2)
	return ct, err
}

// Encoded sizes of the group encryption key pairs.
const (
	UidEncryptionKeyPairSize        = 3 * group.PointSize
	ProfileKeyEncryptionKeyPairSize = 3 * group.PointSize
)

// Marshal appends the encoding of kp to b.
func (kp UidEncryptionKeyPair) Marshal(b *cryptobyte.Builder) {
	addScalars(b, kp.a1, kp.a2)
	addPoints(b, kp.A)
}

// Marshal appends the encoding of kp to b.
func (kp ProfileKeyEncryptionKeyPair) Marshal(b *cryptobyte.Builder) {
	addScalars(b, kp.b1, kp.b2)
	addPoints(b, kp.B)
}
