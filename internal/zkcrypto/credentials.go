package zkcrypto

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/sho"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

// Number of attributes of each credential kind.
const (
	AuthAttributes       = 3
	ProfileKeyAttributes = 4
	ReceiptAttributes    = 2
	PniAttributes        = 6
)

// CredentialKeyPair is the issuer's algebraic-MAC key for one credential kind.
type CredentialKeyPair struct {
	w, wprime group.Scalar
	x0, x1    group.Scalar
	y         []group.Scalar
	W, CW, I  group.Point
}

// CredentialPublicKey is what a receiver needs to check issuance proofs.
type CredentialPublicKey struct {
	CW, I group.Point
}

// Credential is an unblinded MAC over a set of attributes.
type Credential struct {
	T    group.Scalar
	U, V group.Point
}

// BlindedCredential is a MAC whose V is encrypted under the receiver's
// blinding key: V = S2 - y*S1.
type BlindedCredential struct {
	T      group.Scalar
	U      group.Point
	S1, S2 group.Point
}

// BlindedCredentialWithSecretNonce keeps the issuer's encryption nonce for
// the issuance proof.
type BlindedCredentialWithSecretNonce struct {
	BlindedCredential
	rprime group.Scalar
}

// GenerateCredentialKeyPair draws a key pair for n attributes from s.
func GenerateCredentialKeyPair(s *sho.Sho, n int) *CredentialKeyPair {
	if n < 1 || n > MaxAttributes {
		panic("zkcrypto: unsupported number of attributes")
	}
	kp := &CredentialKeyPair{
		w:      s.GetScalar(),
		wprime: s.GetScalar(),
		x0:     s.GetScalar(),
		x1:     s.GetScalar(),
		y:      make([]group.Scalar, n),
	}
	for i := range kp.y {
		kp.y[i] = s.GetScalar()
	}
	kp.derivePublic()
	return kp
}

func (kp *CredentialKeyPair) derivePublic() {
	sp := System()
	kp.W = sp.Gw.Mul(kp.w)
	kp.CW = kp.W.Add(sp.Gwprime.Mul(kp.wprime))
	I := sp.GV.Sub(sp.Gx0.Mul(kp.x0)).Sub(sp.Gx1.Mul(kp.x1))
	for i, y := range kp.y {
		I = I.Sub(sp.Gy[i].Mul(y))
	}
	kp.I = I
}

// NumAttributes returns the number of attributes kp signs.
func (kp *CredentialKeyPair) NumAttributes() int {
	return len(kp.y)
}

// PublicKey returns the issuer's public key.
func (kp *CredentialKeyPair) PublicKey() CredentialPublicKey {
	return CredentialPublicKey{CW: kp.CW, I: kp.I}
}

// CredentialKeyPairSize is the encoded size of a key pair for n attributes.
func CredentialKeyPairSize(n int) int {
	return (7 + n) * group.ScalarSize
}

// Marshal appends the encoding of kp to b.
func (kp *CredentialKeyPair) Marshal(b *cryptobyte.Builder) {
	addScalars(b, kp.w, kp.wprime, kp.x0, kp.x1)
	addScalars(b, kp.y...)
	addPoints(b, kp.W, kp.CW, kp.I)
}

// ReadCredentialKeyPair decodes a key pair for n attributes and checks that
// its public points match its secret scalars.
func ReadCredentialKeyPair(s *cryptobyte.String, n int) (*CredentialKeyPair, error) {
	kp := &CredentialKeyPair{y: make([]group.Scalar, n)}
	if err := ReadScalars(s, &kp.w, &kp.wprime, &kp.x0, &kp.x1); err != nil {
		return nil, err
	}
	for i := range kp.y {
		if err := ReadScalars(s, &kp.y[i]); err != nil {
			return nil, err
		}
	}
	var W, CW, I group.Point
	if err := ReadPoints(s, &W, &CW, &I); err != nil {
		return nil, err
	}
	kp.derivePublic()
	if !kp.W.Equal(W) || !kp.CW.Equal(CW) || !kp.I.Equal(I) {
		return nil, zkerr.ErrInconsistentParams
	}
	return kp, nil
}

// CredentialPublicKeySize is the encoded size of a public key.
const CredentialPublicKeySize = 2 * group.PointSize

// Marshal appends the encoding of pk to b.
func (pk CredentialPublicKey) Marshal(b *cryptobyte.Builder) {
	addPoints(b, pk.CW, pk.I)
}

// ReadCredentialPublicKey decodes a public key.
func ReadCredentialPublicKey(s *cryptobyte.String) (CredentialPublicKey, error) {
	var pk CredentialPublicKey
	err := ReadPublicPoints(s, &pk.CW, &pk.I)
	return pk, err
}

// credentialCore computes a fresh MAC over the attributes in M, which
// occupy the first len(M) attribute slots.
func (kp *CredentialKeyPair) credentialCore(M []group.Point, s *sho.Sho) Credential {
	if len(M) > len(kp.y) {
		panic("zkcrypto: too many attributes for key pair")
	}
	t := s.GetScalar()
	U := s.GetPoint()
	V := kp.W.Add(U.Mul(kp.x0.Add(kp.x1.Mul(t))))
	for i, m := range M {
		V = V.Add(m.Mul(kp.y[i]))
	}
	return Credential{T: t, U: U, V: V}
}

// CreateAuthCredential issues a credential over a user identifier and a
// redemption time.
func (kp *CredentialKeyPair) CreateAuthCredential(uid UidStruct, redemptionTime uint32, s *sho.Sho) Credential {
	return kp.credentialCore([]group.Point{uid.M1, uid.M2, AuthAttribute(redemptionTime)}, s)
}

// blindedCredential issues a credential whose first len(M) attributes are
// known to the issuer and whose remaining attributes are encrypted under
// the receiver's blinding key Y.
func (kp *CredentialKeyPair) blindedCredential(M []group.Point, Y group.Point, blinded []ElGamalCiphertext, s *sho.Sho) BlindedCredentialWithSecretNonce {
	if len(M)+len(blinded) != len(kp.y) {
		panic("zkcrypto: attribute count does not match key pair")
	}
	cred := kp.credentialCore(M, s)
	rprime := s.GetScalar()
	S1 := group.MulBase(rprime)
	S2 := Y.Mul(rprime).Add(cred.V)
	for i, ct := range blinded {
		y := kp.y[len(M)+i]
		S1 = S1.Add(ct.C1.Mul(y))
		S2 = S2.Add(ct.C2.Mul(y))
	}
	return BlindedCredentialWithSecretNonce{
		BlindedCredential: BlindedCredential{T: cred.T, U: cred.U, S1: S1, S2: S2},
		rprime:            rprime,
	}
}

// CreateBlindedProfileKeyCredential issues a profile key credential for an
// encrypted profile key.
func (kp *CredentialKeyPair) CreateBlindedProfileKeyCredential(uid UidStruct, Y group.Point, ct ProfileKeyRequestCiphertext, s *sho.Sho) BlindedCredentialWithSecretNonce {
	return kp.blindedCredential([]group.Point{uid.M1, uid.M2}, Y, []ElGamalCiphertext{ct.D, ct.E}, s)
}

// CreateBlindedPniCredential issues a credential binding an ACI, a PNI and an
// encrypted profile key.
func (kp *CredentialKeyPair) CreateBlindedPniCredential(aci, pni UidStruct, Y group.Point, ct ProfileKeyRequestCiphertext, s *sho.Sho) BlindedCredentialWithSecretNonce {
	return kp.blindedCredential([]group.Point{aci.M1, aci.M2, pni.M1, pni.M2}, Y, []ElGamalCiphertext{ct.D, ct.E}, s)
}

// CreateBlindedReceiptCredential issues a receipt credential for an
// encrypted receipt serial.
func (kp *CredentialKeyPair) CreateBlindedReceiptCredential(expiration, level uint64, Y group.Point, ct ElGamalCiphertext, s *sho.Sho) BlindedCredentialWithSecretNonce {
	m1 := ReceiptStruct{ExpirationTime: expiration, Level: level}.M1()
	return kp.blindedCredential([]group.Point{m1}, Y, []ElGamalCiphertext{ct}, s)
}

// CredentialSize is the encoded size of a Credential.
const CredentialSize = 3 * group.PointSize

// Marshal appends the encoding of c to b.
func (c Credential) Marshal(b *cryptobyte.Builder) {
	addScalars(b, c.T)
	addPoints(b, c.U, c.V)
}

// ReadCredential decodes a credential.
func ReadCredential(s *cryptobyte.String) (Credential, error) {
	var c Credential
	if err := ReadScalars(s, &c.T); err != nil {
		return c, err
	}
	err := ReadPoints(s, &c.U, &c.V)
	return c, err
}

// BlindedCredentialSize is the encoded size of a BlindedCredential.
const BlindedCredentialSize = 4 * group.PointSize

// Marshal appends the encoding of c to b.
func (c BlindedCredential) Marshal(b *cryptobyte.Builder) {
	addScalars(b, c.T)
	addPoints(b, c.U, c.S1, c.S2)
}

// ReadBlindedCredential decodes a blinded credential.
func ReadBlindedCredential(s *cryptobyte.String) (BlindedCredential, error) {
	var c BlindedCredential
	if err := ReadScalars(s, &c.T); err != nil {
		return c, err
	}
	err := ReadPoints(s, &c.U, &c.S1, &c.S2)
	return c, err
}
