package zkcrypto

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/sho"
)

const labelCommitmentJ3 = "ZKGroup_20200424_ProfileKeyAndUid_ProfileKeyCommitment_Calcj3"

// ElGamalCiphertext is (r*G, r*Y + M) for a blinding key Y.
type ElGamalCiphertext struct {
	C1, C2 group.Point
}

// BlindingKeyPair is the receiver's ephemeral key for blinded issuance.
type BlindingKeyPair struct {
	y group.Scalar
	Y group.Point
}

// GenerateBlindingKeyPair draws a key pair from s.
func GenerateBlindingKeyPair(s *sho.Sho) BlindingKeyPair {
	y := s.GetScalar()
	return BlindingKeyPair{y: y, Y: group.MulBase(y)}
}

// encrypt returns the encryption of M with nonce r.
func (kp BlindingKeyPair) encrypt(M group.Point, r group.Scalar) ElGamalCiphertext {
	return ElGamalCiphertext{C1: group.MulBase(r), C2: kp.Y.Mul(r).Add(M)}
}

// Unblind decrypts a blinded credential.
func (kp BlindingKeyPair) Unblind(bc BlindedCredential) Credential {
	return Credential{T: bc.T, U: bc.U, V: bc.S2.Sub(bc.S1.Mul(kp.y))}
}

// BlindingKeyPairSize is the encoded size of a BlindingKeyPair.
const BlindingKeyPairSize = 2 * group.PointSize

// Marshal appends the encoding of kp to b.
func (kp BlindingKeyPair) Marshal(b *cryptobyte.Builder) {
	addScalars(b, kp.y)
	addPoints(b, kp.Y)
}

// ReadBlindingKeyPair decodes a key pair, re-deriving Y.
func ReadBlindingKeyPair(s *cryptobyte.String) (BlindingKeyPair, error) {
	var kp BlindingKeyPair
	var Y group.Point
	if err := ReadScalars(s, &kp.y); err != nil {
		return kp, err
	}
	if err := ReadPoints(s, &Y); err != nil {
		return kp, err
	}
	kp.Y = group.MulBase(kp.y)
	if !kp.Y.Equal(Y) || kp.Y.IsIdentity() {
		return BlindingKeyPair{}, errInconsistent
	}
	return kp, nil
}

// ProfileKeyRequestCiphertext encrypts M3 (as D) and M4 (as E) of a profile
// key under the receiver's blinding key.
type ProfileKeyRequestCiphertext struct {
	D, E ElGamalCiphertext
}

// ProfileKeyRequestCiphertextWithSecretNonce keeps the nonces for the
// request proof.
type ProfileKeyRequestCiphertextWithSecretNonce struct {
	ProfileKeyRequestCiphertext
	r1, r2 group.Scalar
}

// EncryptProfileKey blinds a profile key for issuance.
func (kp BlindingKeyPair) EncryptProfileKey(pk ProfileKeyStruct, s *sho.Sho) ProfileKeyRequestCiphertextWithSecretNonce {
	r1 := s.GetScalar()
	r2 := s.GetScalar()
	return ProfileKeyRequestCiphertextWithSecretNonce{
		ProfileKeyRequestCiphertext: ProfileKeyRequestCiphertext{
			D: kp.encrypt(pk.M3, r1),
			E: kp.encrypt(pk.M4, r2),
		},
		r1: r1,
		r2: r2,
	}
}

// ProfileKeyRequestCiphertextSize is the encoded size of the ciphertext.
const ProfileKeyRequestCiphertextSize = 4 * group.PointSize

// Marshal appends D1, D2, E1, E2 to b.
func (ct ProfileKeyRequestCiphertext) Marshal(b *cryptobyte.Builder) {
	addPoints(b, ct.D.C1, ct.D.C2, ct.E.C1, ct.E.C2)
}

// ReadProfileKeyRequestCiphertext decodes the ciphertext.
func ReadProfileKeyRequestCiphertext(s *cryptobyte.String) (ProfileKeyRequestCiphertext, error) {
	var ct ProfileKeyRequestCiphertext
	err := ReadPoints(s, &ct.D.C1, &ct.D.C2, &ct.E.C1, &ct.E.C2)
	return ct, err
}

// ProfileKeyRequestCiphertextWithSecretNonceSize is the encoded size of the
// ciphertext and its nonces.
const ProfileKeyRequestCiphertextWithSecretNonceSize = 2*group.ScalarSize + ProfileKeyRequestCiphertextSize

// Marshal appends r1, r2 and the ciphertext to b.
func (ct ProfileKeyRequestCiphertextWithSecretNonce) Marshal(b *cryptobyte.Builder) {
	addScalars(b, ct.r1, ct.r2)
	ct.ProfileKeyRequestCiphertext.Marshal(b)
}

// ReadProfileKeyRequestCiphertextWithSecretNonce decodes the ciphertext and
// checks it against its nonces, the blinding key and the profile key.
func ReadProfileKeyRequestCiphertextWithSecretNonce(s *cryptobyte.String, kp BlindingKeyPair, pk ProfileKeyStruct) (ProfileKeyRequestCiphertextWithSecretNonce, error) {
	var ct ProfileKeyRequestCiphertextWithSecretNonce
	if err := ReadScalars(s, &ct.r1, &ct.r2); err != nil {
		return ct, err
	}
	var err error
	if ct.ProfileKeyRequestCiphertext, err = ReadProfileKeyRequestCiphertext(s); err != nil {
		return ct, err
	}
	D := kp.encrypt(pk.M3, ct.r1)
	E := kp.encrypt(pk.M4, ct.r2)
	if !ct.D.C1.Equal(D.C1) || !ct.D.C2.Equal(D.C2) || !ct.E.C1.Equal(E.C1) || !ct.E.C2.Equal(E.C2) {
		return ProfileKeyRequestCiphertextWithSecretNonce{}, errInconsistent
	}
	return ct, nil
}

// ReceiptRequestCiphertextWithSecretNonce encrypts the receipt serial point.
type ReceiptRequestCiphertextWithSecretNonce struct {
	ElGamalCiphertext
	r1 group.Scalar
}

// EncryptReceiptSerial blinds a receipt serial for issuance.
func (kp BlindingKeyPair) EncryptReceiptSerial(serial [ReceiptSerialSize]byte, s *sho.Sho) ReceiptRequestCiphertextWithSecretNonce {
	r1 := s.GetScalar()
	return ReceiptRequestCiphertextWithSecretNonce{
		ElGamalCiphertext: kp.encrypt(ReceiptSerialPoint(serial), r1),
		r1:                r1,
	}
}

// ElGamalCiphertextSize is the encoded size of an ElGamalCiphertext.
const ElGamalCiphertextSize = 2 * group.PointSize

// Marshal appends C1, C2 to b.
func (ct ElGamalCiphertext) Marshal(b *cryptobyte.Builder) {
	addPoints(b, ct.C1, ct.C2)
}

// ReadElGamalCiphertext decodes a ciphertext.
func ReadElGamalCiphertext(s *cryptobyte.String) (ElGamalCiphertext, error) {
	var ct ElGamalCiphertext
	err := ReadPoints(s, &ct.C1, &ct.C2)
	return ct, err
}

// Marshal appends r1 and the ciphertext to b.
func (ct ReceiptRequestCiphertextWithSecretNonce) Marshal(b *cryptobyte.Builder) {
	addScalars(b, ct.r1)
	ct.ElGamalCiphertext.Marshal(b)
}

// ReadReceiptRequestCiphertextWithSecretNonce decodes the ciphertext and
// checks it against its nonce, the blinding key and the serial.
func ReadReceiptRequestCiphertextWithSecretNonce(s *cryptobyte.String, kp BlindingKeyPair, serial [ReceiptSerialSize]byte) (ReceiptRequestCiphertextWithSecretNonce, error) {
	var ct ReceiptRequestCiphertextWithSecretNonce
	if err := ReadScalars(s, &ct.r1); err != nil {
		return ct, err
	}
	var err error
	if ct.ElGamalCiphertext, err = ReadElGamalCiphertext(s); err != nil {
		return ct, err
	}
	want := kp.encrypt(ReceiptSerialPoint(serial), ct.r1)
	if !ct.C1.Equal(want.C1) || !ct.C2.Equal(want.C2) {
		return ReceiptRequestCiphertextWithSecretNonce{}, errInconsistent
	}
	return ct, nil
}

// ProfileKeyCommitment is a Pedersen-style commitment to a profile key
// bound to an identifier:
//
//     J1 = j3*Gj1 + M3,  J2 = j3*Gj2 + M4,  J3 = j3*Gj3
//
// where j3 is derived from the key and the identifier.
type ProfileKeyCommitment struct {
	J1, J2, J3 group.Point
}

// ProfileKeyCommitmentWithSecretNonce keeps j3 for the request proof.
type ProfileKeyCommitmentWithSecretNonce struct {
	ProfileKeyCommitment
	j3 group.Scalar
}

// NewProfileKeyCommitment commits to pk for uid.
func NewProfileKeyCommitment(pk ProfileKeyStruct, uid [UidSize]byte) ProfileKeyCommitmentWithSecretNonce {
	sp := System()
	j3 := sho.New([]byte(labelCommitmentJ3), concat(pk.Bytes[:], uid[:])).GetScalar()
	return ProfileKeyCommitmentWithSecretNonce{
		ProfileKeyCommitment: ProfileKeyCommitment{
			J1: sp.Gj1.Mul(j3).Add(pk.M3),
			J2: sp.Gj2.Mul(j3).Add(pk.M4),
			J3: sp.Gj3.Mul(j3),
		},
		j3: j3,
	}
}

// ProfileKeyCommitmentSize is the encoded size of a commitment.
const ProfileKeyCommitmentSize = 3 * group.PointSize

// Marshal appends J1, J2, J3 to b.
func (c ProfileKeyCommitment) Marshal(b *cryptobyte.Builder) {
	addPoints(b, c.J1, c.J2, c.J3)
}

// ReadProfileKeyCommitment decodes a commitment; none of its points may be
// the identity.
func ReadProfileKeyCommitment(s *cryptobyte.String) (ProfileKeyCommitment, error) {
	var c ProfileKeyCommitment
	err := ReadPublicPoints(s, &c.J1, &c.J2, &c.J3)
	return c, err
}
