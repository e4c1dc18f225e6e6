package zkcrypto

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/poksho"
	"github.com/whisperfish/zkgroup/crypto/sho"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

func term(scalar, point string) poksho.Term {
	return poksho.Term{Scalar: scalar, Point: point}
}

func yName(i int) string  { return fmt.Sprintf("y%d", i+1) }
func gyName(i int) string { return fmt.Sprintf("G_y%d", i+1) }
func mName(i int) string  { return fmt.Sprintf("M%d", i+1) }
func cyName(i int) string { return fmt.Sprintf("C_y%d", i+1) }

// issuance describes the proof an issuer attaches to a credential whose
// first revealed attributes are known to it and whose remaining blinded
// attributes arrive encrypted under the receiver's blinding key.
//
//     C_W   = w*Gw + w'*Gw'
//     GV-I  = x0*Gx0 + x1*Gx1 + sum(yi*Gyi)
//     V     = w*Gw + x0*U + x1*tU + sum(yi*Mi)                  (unblinded)
//     S1    = sum(yk*Ck1) + r'*G                                 (blinded)
//     S2    = sum(yk*Ck2) + r'*Y + w*Gw + x0*U + x1*tU + sum(yi*Mi)
type issuance struct {
	revealed, blinded int
	message           []byte
	st                *poksho.Statement
}

func newIssuance(revealed, blinded int, message string) *issuance {
	n := revealed + blinded
	st := poksho.NewStatement()
	st.Add("C_W", term("w", "G_w"), term("wprime", "G_wprime"))
	terms := []poksho.Term{term("x0", "G_x0"), term("x1", "G_x1")}
	for i := 0; i < n; i++ {
		terms = append(terms, term(yName(i), gyName(i)))
	}
	st.Add("G_V-I", terms...)

	core := []poksho.Term{term("w", "G_w"), term("x0", "U"), term("x1", "tU")}
	for i := 0; i < revealed; i++ {
		core = append(core, term(yName(i), mName(i)))
	}
	if blinded == 0 {
		st.Add("V", core...)
	} else {
		var s1, s2 []poksho.Term
		for i := revealed; i < n; i++ {
			s1 = append(s1, term(yName(i), fmt.Sprintf("C1_%d", i+1)))
			s2 = append(s2, term(yName(i), fmt.Sprintf("C2_%d", i+1)))
		}
		s1 = append(s1, term("rprime", "G"))
		s2 = append(s2, term("rprime", "Y"))
		st.Add("S1", s1...)
		st.Add("S2", append(s2, core...)...)
	}
	return &issuance{revealed: revealed, blinded: blinded, message: []byte(message), st: st}
}

var (
	authIssuance       = newIssuance(3, 0, "AuthCredentialIssuance")
	profileKeyIssuance = newIssuance(2, 2, "ProfileKeyCredentialIssuance")
	pniIssuance        = newIssuance(4, 2, "PniCredentialIssuance")
	receiptIssuance    = newIssuance(1, 1, "ReceiptCredentialIssuance")
)

// issuanceInputs are the public values of one issuance.
type issuanceInputs struct {
	revealed []group.Point
	blinded  []ElGamalCiphertext
	Y        group.Point
	t        group.Scalar
	U        group.Point
	V        group.Point // unblinded only
	S1, S2   group.Point // blinded only
}

func (is *issuance) points(pk CredentialPublicKey, in issuanceInputs) poksho.PointArgs {
	sp := System()
	pts := poksho.PointArgs{
		"C_W":      pk.CW,
		"G_w":      sp.Gw,
		"G_wprime": sp.Gwprime,
		"G_V-I":    sp.GV.Sub(pk.I),
		"G_x0":     sp.Gx0,
		"G_x1":     sp.Gx1,
		"U":        in.U,
		"tU":       in.U.Mul(in.t),
	}
	for i := 0; i < is.revealed+is.blinded; i++ {
		pts[gyName(i)] = sp.Gy[i]
	}
	for i, m := range in.revealed {
		pts[mName(i)] = m
	}
	if is.blinded == 0 {
		pts["V"] = in.V
		return pts
	}
	for k, ct := range in.blinded {
		i := is.revealed + k
		pts[fmt.Sprintf("C1_%d", i+1)] = ct.C1
		pts[fmt.Sprintf("C2_%d", i+1)] = ct.C2
	}
	pts["G"] = group.Base()
	pts["Y"] = in.Y
	pts["S1"] = in.S1
	pts["S2"] = in.S2
	return pts
}

func (is *issuance) prove(kp *CredentialKeyPair, in issuanceInputs, rprime group.Scalar, randomness []byte) ([]byte, error) {
	if len(in.revealed) != is.revealed || len(in.blinded) != is.blinded || kp.NumAttributes() != is.revealed+is.blinded {
		return nil, zkerr.ErrStatementUnsatisfied
	}
	scalars := poksho.ScalarArgs{
		"w":      kp.w,
		"wprime": kp.wprime,
		"x0":     kp.x0,
		"x1":     kp.x1,
	}
	for i, y := range kp.y {
		scalars[yName(i)] = y
	}
	if is.blinded > 0 {
		scalars["rprime"] = rprime
	}
	return is.st.Prove(scalars, is.points(kp.PublicKey(), in), is.message, randomness)
}

func (is *issuance) verify(proof []byte, pk CredentialPublicKey, in issuanceInputs) error {
	if len(in.revealed) != is.revealed || len(in.blinded) != is.blinded {
		return zkerr.ErrCredentialValidation
	}
	if err := is.st.Verify(proof, is.points(pk, in), is.message); err != nil {
		return zkerr.ErrCredentialValidation
	}
	return nil
}

// Proof sizes of each issuance: a challenge plus one response per secret
// scalar.
const (
	AuthIssuanceProofSize       = (1 + 4 + AuthAttributes) * group.ScalarSize
	ProfileKeyIssuanceProofSize = (1 + 4 + ProfileKeyAttributes + 1) * group.ScalarSize
	PniIssuanceProofSize        = (1 + 4 + PniAttributes + 1) * group.ScalarSize
	ReceiptIssuanceProofSize    = (1 + 4 + ReceiptAttributes + 1) * group.ScalarSize
)

func authInputs(uid UidStruct, redemptionTime uint32, cred Credential) issuanceInputs {
	return issuanceInputs{
		revealed: []group.Point{uid.M1, uid.M2, AuthAttribute(redemptionTime)},
		t:        cred.T,
		U:        cred.U,
		V:        cred.V,
	}
}

// NewAuthCredentialIssuanceProof proves that cred was computed correctly.
func NewAuthCredentialIssuanceProof(kp *CredentialKeyPair, uid UidStruct, redemptionTime uint32, cred Credential, randomness []byte) ([]byte, error) {
	return authIssuance.prove(kp, authInputs(uid, redemptionTime, cred), group.Scalar{}, randomness)
}

// VerifyAuthCredentialIssuanceProof checks an auth issuance proof.
func VerifyAuthCredentialIssuanceProof(proof []byte, pk CredentialPublicKey, uid UidStruct, redemptionTime uint32, cred Credential) error {
	return authIssuance.verify(proof, pk, authInputs(uid, redemptionTime, cred))
}

func blindedInputs(revealed []group.Point, blinded []ElGamalCiphertext, Y group.Point, bc BlindedCredential) issuanceInputs {
	return issuanceInputs{
		revealed: revealed,
		blinded:  blinded,
		Y:        Y,
		t:        bc.T,
		U:        bc.U,
		S1:       bc.S1,
		S2:       bc.S2,
	}
}

// NewProfileKeyCredentialIssuanceProof proves that a blinded profile key
// credential was computed correctly.
func NewProfileKeyCredentialIssuanceProof(kp *CredentialKeyPair, uid UidStruct, Y group.Point, ct ProfileKeyRequestCiphertext, bc BlindedCredentialWithSecretNonce, randomness []byte) ([]byte, error) {
	in := blindedInputs([]group.Point{uid.M1, uid.M2}, []ElGamalCiphertext{ct.D, ct.E}, Y, bc.BlindedCredential)
	return profileKeyIssuance.prove(kp, in, bc.rprime, randomness)
}

// VerifyProfileKeyCredentialIssuanceProof checks a profile key issuance proof.
func VerifyProfileKeyCredentialIssuanceProof(proof []byte, pk CredentialPublicKey, uid UidStruct, Y group.Point, ct ProfileKeyRequestCiphertext, bc BlindedCredential) error {
	in := blindedInputs([]group.Point{uid.M1, uid.M2}, []ElGamalCiphertext{ct.D, ct.E}, Y, bc)
	return profileKeyIssuance.verify(proof, pk, in)
}

// NewPniCredentialIssuanceProof proves that a blinded PNI credential was
// computed correctly.
func NewPniCredentialIssuanceProof(kp *CredentialKeyPair, aci, pni UidStruct, Y group.Point, ct ProfileKeyRequestCiphertext, bc BlindedCredentialWithSecretNonce, randomness []byte) ([]byte, error) {
	in := blindedInputs([]group.Point{aci.M1, aci.M2, pni.M1, pni.M2}, []ElGamalCiphertext{ct.D, ct.E}, Y, bc.BlindedCredential)
	return pniIssuance.prove(kp, in, bc.rprime, randomness)
}

// VerifyPniCredentialIssuanceProof checks a PNI issuance proof.
func VerifyPniCredentialIssuanceProof(proof []byte, pk CredentialPublicKey, aci, pni UidStruct, Y group.Point, ct ProfileKeyRequestCiphertext, bc BlindedCredential) error {
	in := blindedInputs([]group.Point{aci.M1, aci.M2, pni.M1, pni.M2}, []ElGamalCiphertext{ct.D, ct.E}, Y, bc)
	return pniIssuance.verify(proof, pk, in)
}

// NewReceiptCredentialIssuanceProof proves that a blinded receipt
// credential was computed correctly.
func NewReceiptCredentialIssuanceProof(kp *CredentialKeyPair, expiration, level uint64, Y group.Point, ct ElGamalCiphertext, bc BlindedCredentialWithSecretNonce, randomness []byte) ([]byte, error) {
	m1 := ReceiptStruct{ExpirationTime: expiration, Level: level}.M1()
	in := blindedInputs([]group.Point{m1}, []ElGamalCiphertext{ct}, Y, bc.BlindedCredential)
	return receiptIssuance.prove(kp, in, bc.rprime, randomness)
}

// VerifyReceiptCredentialIssuanceProof checks a receipt issuance proof.
func VerifyReceiptCredentialIssuanceProof(proof []byte, pk CredentialPublicKey, expiration, level uint64, Y group.Point, ct ElGamalCiphertext, bc BlindedCredential) error {
	m1 := ReceiptStruct{ExpirationTime: expiration, Level: level}.M1()
	in := blindedInputs([]group.Point{m1}, []ElGamalCiphertext{ct}, Y, bc)
	return receiptIssuance.verify(proof, pk, in)
}

// request proves that a blinded profile key matches a commitment:
//
//     Y     = y*G
//     D1    = r1*G
//     E1    = r2*G
//     J3    = j3*Gj3
//     D2-J1 = r1*Y - j3*Gj1
//     E2-J2 = r2*Y - j3*Gj2
var requestStatement = poksho.NewStatement().
	Add("Y", term("y", "G")).
	Add("D1", term("r1", "G")).
	Add("E1", term("r2", "G")).
	Add("J3", term("j3", "G_j3")).
	Add("D2-J1", term("r1", "Y"), term("j3", "-G_j1")).
	Add("E2-J2", term("r2", "Y"), term("j3", "-G_j2"))

// RequestProofSize is the size of a profile key request proof.
const RequestProofSize = 5 * group.ScalarSize

// Messages binding request proofs to the credential kind requested.
const (
	ProfileKeyRequestMessage = "ProfileKeyCredentialRequest"
	PniRequestMessage        = "PniCredentialRequest"
)

func requestPoints(Y group.Point, ct ProfileKeyRequestCiphertext, c ProfileKeyCommitment) poksho.PointArgs {
	sp := System()
	return poksho.PointArgs{
		"Y":     Y,
		"G":     group.Base(),
		"D1":    ct.D.C1,
		"E1":    ct.E.C1,
		"J3":    c.J3,
		"G_j3":  sp.Gj3,
		"D2-J1": ct.D.C2.Sub(c.J1),
		"E2-J2": ct.E.C2.Sub(c.J2),
		"-G_j1": sp.Gj1.Neg(),
		"-G_j2": sp.Gj2.Neg(),
	}
}

// NewProfileKeyCredentialRequestProof proves that ct encrypts the profile
// key committed to in c.
func NewProfileKeyCredentialRequestProof(kp BlindingKeyPair, ct ProfileKeyRequestCiphertextWithSecretNonce, c ProfileKeyCommitmentWithSecretNonce, message string, randomness []byte) ([]byte, error) {
	scalars := poksho.ScalarArgs{"y": kp.y, "r1": ct.r1, "r2": ct.r2, "j3": c.j3}
	return requestStatement.Prove(scalars, requestPoints(kp.Y, ct.ProfileKeyRequestCiphertext, c.ProfileKeyCommitment), []byte(message), randomness)
}

// VerifyProfileKeyCredentialRequestProof checks a request proof against the
// commitment the issuer holds for the identifier.
func VerifyProfileKeyCredentialRequestProof(proof []byte, Y group.Point, ct ProfileKeyRequestCiphertext, c ProfileKeyCommitment, message string) error {
	if err := requestStatement.Verify(proof, requestPoints(Y, ct, c), []byte(message)); err != nil {
		return zkerr.ErrRequestVerification
	}
	return nil
}

type attrKind int

const (
	revealedAttr attrKind = iota
	uidAttr
	profileKeyAttr
)

func (k attrKind) width() int {
	if k == revealedAttr {
		return 1
	}
	return 2
}

// presentation describes the proof a holder attaches to a presentation.
// With z random, the holder publishes
//
//     C_x0 = z*Gx0 + U,  C_x1 = z*Gx1 + t*U,  C_V = z*GV + V
//     C_yi = z*Gyi + Mi   (hidden attributes)
//     C_yi = z*Gyi        (revealed attributes)
//
// and proves
//
//     Z    = z*I
//     C_x1 = t*C_x0 + z0*Gx0 + z*Gx1                  z0 = -z*t
//     A    = a1*Ga1 + a2*Ga2
//     E_A1 = a1*C_y(i) + z1*Gy(i)                     z1 = -z*a1
//     C_y(i+1) - E_A2 = z*Gy(i+1) - a2*E_A1
//
// and the same for profile keys with b1, b2 and z2 = -z*b1. The verifier
// computes Z = C_V - W - x0*C_x0 - x1*C_x1 - sum(yi*(C_yi + Mi)) with Mi
// only added for revealed attributes.
type presentation struct {
	layout  []attrKind
	n       int
	message []byte
	st      *poksho.Statement
}

func newPresentation(message string, layout ...attrKind) *presentation {
	p := &presentation{layout: layout, message: []byte(message)}
	st := poksho.NewStatement()
	st.Add("Z", term("z", "I"))
	st.Add("C_x1", term("t", "C_x0"), term("z0", "G_x0"), term("z", "G_x1"))
	haveA, haveB := false, false
	i := 0
	for field, kind := range layout {
		switch kind {
		case revealedAttr:
			st.Add(cyName(i), term("z", gyName(i)))
		case uidAttr:
			if !haveA {
				st.Add("A", term("a1", "G_a1"), term("a2", "G_a2"))
				haveA = true
			}
			e1, e2 := fmt.Sprintf("E_A1_%d", field), fmt.Sprintf("E_A2_%d", field)
			st.Add(cyName(i+1)+"-"+e2, term("z", gyName(i+1)), term("a2", "-"+e1))
			st.Add(e1, term("a1", cyName(i)), term("z1", gyName(i)))
		case profileKeyAttr:
			if !haveB {
				st.Add("B", term("b1", "G_b1"), term("b2", "G_b2"))
				haveB = true
			}
			st.Add(cyName(i+1)+"-E_B2", term("z", gyName(i+1)), term("b2", "-E_B1"))
			st.Add("E_B1", term("b1", cyName(i)), term("z2", gyName(i)))
		}
		i += kind.width()
	}
	p.n = i
	p.st = st
	return p
}

var (
	authPresentation       = newPresentation("AuthCredentialPresentation", uidAttr, revealedAttr)
	profileKeyPresentation = newPresentation("ProfileKeyCredentialPresentation", uidAttr, profileKeyAttr)
	pniPresentation        = newPresentation("PniCredentialPresentation", uidAttr, uidAttr, profileKeyAttr)
	receiptPresentation    = newPresentation("ReceiptCredentialPresentation", revealedAttr, revealedAttr)
)

// PresentationProof is the commitments to a credential plus the proof
// over them.
type PresentationProof struct {
	Cx0, Cx1, CV group.Point
	Cy           []group.Point
	Poksho       []byte
}

// Presentation proof sizes per credential kind: C_x0, C_x1, C_V and one
// C_y per attribute, then the length-prefixed poksho proof. The proof has
// responses for z, t and z0, plus a1, a2 and z1 when an identifier is
// hidden and b1, b2 and z2 when a profile key is hidden.
const (
	AuthPresentationProofSize       = (3+AuthAttributes)*group.PointSize + 8 + (1+6)*group.ScalarSize
	ProfileKeyPresentationProofSize = (3+ProfileKeyAttributes)*group.PointSize + 8 + (1+9)*group.ScalarSize
	PniPresentationProofSize        = (3+PniAttributes)*group.PointSize + 8 + (1+9)*group.ScalarSize
	ReceiptPresentationProofSize    = (3+ReceiptAttributes)*group.PointSize + 8 + (1+3)*group.ScalarSize
)

// Marshal appends C_x0, C_x1, C_y1..C_yn, C_V and the poksho proof to b.
func (pp PresentationProof) Marshal(b *cryptobyte.Builder) {
	addPoints(b, pp.Cx0, pp.Cx1)
	addPoints(b, pp.Cy...)
	addPoints(b, pp.CV)
	AddProof(b, pp.Poksho)
}

func (p *presentation) read(s *cryptobyte.String) (PresentationProof, error) {
	pp := PresentationProof{Cy: make([]group.Point, p.n)}
	if err := ReadPoints(s, &pp.Cx0, &pp.Cx1); err != nil {
		return pp, err
	}
	for i := range pp.Cy {
		if err := ReadPoints(s, &pp.Cy[i]); err != nil {
			return pp, err
		}
	}
	if err := ReadPoints(s, &pp.CV); err != nil {
		return pp, err
	}
	var err error
	pp.Poksho, err = ReadProof(s, p.st.ProofSize())
	return pp, err
}

// presentationKeys are the group keys and ciphertexts a presentation
// is bound to.
type presentationKeys struct {
	uidKey    *UidEncryptionKeyPair
	pkKey     *ProfileKeyEncryptionKeyPair
	A, B      group.Point
	uidCts    []UidCiphertext
	pkCt      ProfileKeyCiphertext
	revealedM []group.Point // indexed by attribute, only revealed entries are read
}

func (p *presentation) points(pp PresentationProof, Z, I group.Point, k presentationKeys) poksho.PointArgs {
	sp := System()
	pts := poksho.PointArgs{
		"Z":    Z,
		"I":    I,
		"C_x0": pp.Cx0,
		"C_x1": pp.Cx1,
		"G_x0": sp.Gx0,
		"G_x1": sp.Gx1,
	}
	i, u := 0, 0
	for field, kind := range p.layout {
		switch kind {
		case revealedAttr:
			pts[cyName(i)] = pp.Cy[i]
			pts[gyName(i)] = sp.Gy[i]
		case uidAttr:
			ct := k.uidCts[u]
			u++
			pts["A"] = k.A
			pts["G_a1"] = sp.Ga1
			pts["G_a2"] = sp.Ga2
			e1, e2 := fmt.Sprintf("E_A1_%d", field), fmt.Sprintf("E_A2_%d", field)
			pts[cyName(i+1)+"-"+e2] = pp.Cy[i+1].Sub(ct.EA2)
			pts[gyName(i+1)] = sp.Gy[i+1]
			pts["-"+e1] = ct.EA1.Neg()
			pts[e1] = ct.EA1
			pts[cyName(i)] = pp.Cy[i]
			pts[gyName(i)] = sp.Gy[i]
		case profileKeyAttr:
			pts["B"] = k.B
			pts["G_b1"] = sp.Gb1
			pts["G_b2"] = sp.Gb2
			pts[cyName(i+1)+"-E_B2"] = pp.Cy[i+1].Sub(k.pkCt.EB2)
			pts[gyName(i+1)] = sp.Gy[i+1]
			pts["-E_B1"] = k.pkCt.EB1.Neg()
			pts["E_B1"] = k.pkCt.EB1
			pts[cyName(i)] = pp.Cy[i]
			pts[gyName(i)] = sp.Gy[i]
		}
		i += kind.width()
	}
	return pts
}

// prove builds a presentation proof for cred over the attribute points M.
func (p *presentation) prove(pk CredentialPublicKey, cred Credential, M []group.Point, k presentationKeys, s *sho.Sho) (PresentationProof, error) {
	if len(M) != p.n {
		return PresentationProof{}, zkerr.ErrStatementUnsatisfied
	}
	sp := System()
	z := s.GetScalar()

	pp := PresentationProof{
		Cx0: sp.Gx0.Mul(z).Add(cred.U),
		Cx1: sp.Gx1.Mul(z).Add(cred.U.Mul(cred.T)),
		CV:  sp.GV.Mul(z).Add(cred.V),
		Cy:  make([]group.Point, p.n),
	}
	i := 0
	for _, kind := range p.layout {
		for j := i; j < i+kind.width(); j++ {
			pp.Cy[j] = sp.Gy[j].Mul(z)
			if kind != revealedAttr {
				pp.Cy[j] = pp.Cy[j].Add(M[j])
			}
		}
		i += kind.width()
	}

	scalars := poksho.ScalarArgs{
		"z":  z,
		"t":  cred.T,
		"z0": z.Mul(cred.T).Neg(),
	}
	if k.uidKey != nil {
		scalars["a1"] = k.uidKey.a1
		scalars["a2"] = k.uidKey.a2
		scalars["z1"] = z.Mul(k.uidKey.a1).Neg()
		k.A = k.uidKey.A
	}
	if k.pkKey != nil {
		scalars["b1"] = k.pkKey.b1
		scalars["b2"] = k.pkKey.b2
		scalars["z2"] = z.Mul(k.pkKey.b1).Neg()
		k.B = k.pkKey.B
	}

	var err error
	pp.Poksho, err = p.st.Prove(scalars, p.points(pp, pk.I.Mul(z), pk.I, k), p.message, s.Squeeze(32))
	if err != nil {
		return PresentationProof{}, err
	}
	return pp, nil
}

// verify checks a presentation proof with the issuer's secret key.
func (p *presentation) verify(kp *CredentialKeyPair, pp PresentationProof, k presentationKeys) error {
	if len(pp.Cy) != p.n || kp.NumAttributes() != p.n {
		return zkerr.ErrPresentationVerification
	}
	Z := pp.CV.Sub(kp.W).Sub(pp.Cx0.Mul(kp.x0)).Sub(pp.Cx1.Mul(kp.x1))
	i := 0
	for _, kind := range p.layout {
		for j := i; j < i+kind.width(); j++ {
			Cy := pp.Cy[j]
			if kind == revealedAttr {
				Cy = Cy.Add(k.revealedM[j])
			}
			Z = Z.Sub(Cy.Mul(kp.y[j]))
		}
		i += kind.width()
	}
	if err := p.st.Verify(pp.Poksho, p.points(pp, Z, kp.I, k), p.message); err != nil {
		return zkerr.ErrPresentationVerification
	}
	return nil
}

// NewAuthCredentialPresentationProof proves possession of an auth
// credential for the identifier encrypted in ct.
func NewAuthCredentialPresentationProof(pk CredentialPublicKey, uidKey UidEncryptionKeyPair, cred Credential, uid UidStruct, ct UidCiphertext, redemptionTime uint32, s *sho.Sho) (PresentationProof, error) {
	M := []group.Point{uid.M1, uid.M2, AuthAttribute(redemptionTime)}
	return authPresentation.prove(pk, cred, M, presentationKeys{uidKey: &uidKey, uidCts: []UidCiphertext{ct}}, s)
}

// VerifyAuthCredentialPresentationProof checks an auth presentation proof.
func VerifyAuthCredentialPresentationProof(kp *CredentialKeyPair, pp PresentationProof, A group.Point, ct UidCiphertext, redemptionTime uint32) error {
	revealed := make([]group.Point, AuthAttributes)
	revealed[2] = AuthAttribute(redemptionTime)
	return authPresentation.verify(kp, pp, presentationKeys{A: A, uidCts: []UidCiphertext{ct}, revealedM: revealed})
}

// ReadAuthPresentationProof decodes an auth presentation proof.
func ReadAuthPresentationProof(s *cryptobyte.String) (PresentationProof, error) {
	return authPresentation.read(s)
}

// NewProfileKeyCredentialPresentationProof proves possession of a profile
// key credential for the identifier and profile key encrypted in uidCt and
// pkCt.
func NewProfileKeyCredentialPresentationProof(pk CredentialPublicKey, uidKey UidEncryptionKeyPair, pkKey ProfileKeyEncryptionKeyPair, cred Credential, uid UidStruct, profileKey ProfileKeyStruct, uidCt UidCiphertext, pkCt ProfileKeyCiphertext, s *sho.Sho) (PresentationProof, error) {
	M := []group.Point{uid.M1, uid.M2, profileKey.M3, profileKey.M4}
	k := presentationKeys{uidKey: &uidKey, pkKey: &pkKey, uidCts: []UidCiphertext{uidCt}, pkCt: pkCt}
	return profileKeyPresentation.prove(pk, cred, M, k, s)
}

// VerifyProfileKeyCredentialPresentationProof checks a profile key
// presentation proof.
func VerifyProfileKeyCredentialPresentationProof(kp *CredentialKeyPair, pp PresentationProof, A, B group.Point, uidCt UidCiphertext, pkCt ProfileKeyCiphertext) error {
	return profileKeyPresentation.verify(kp, pp, presentationKeys{A: A, B: B, uidCts: []UidCiphertext{uidCt}, pkCt: pkCt})
}

// ReadProfileKeyPresentationProof decodes a profile key presentation proof.
func ReadProfileKeyPresentationProof(s *cryptobyte.String) (PresentationProof, error) {
	return profileKeyPresentation.read(s)
}

// NewPniCredentialPresentationProof proves possession of a PNI credential.
func NewPniCredentialPresentationProof(pk CredentialPublicKey, uidKey UidEncryptionKeyPair, pkKey ProfileKeyEncryptionKeyPair, cred Credential, aci, pni UidStruct, profileKey ProfileKeyStruct, aciCt, pniCt UidCiphertext, pkCt ProfileKeyCiphertext, s *sho.Sho) (PresentationProof, error) {
	M := []group.Point{aci.M1, aci.M2, pni.M1, pni.M2, profileKey.M3, profileKey.M4}
	k := presentationKeys{uidKey: &uidKey, pkKey: &pkKey, uidCts: []UidCiphertext{aciCt, pniCt}, pkCt: pkCt}
	return pniPresentation.prove(pk, cred, M, k, s)
}

// VerifyPniCredentialPresentationProof checks a PNI presentation proof.
func VerifyPniCredentialPresentationProof(kp *CredentialKeyPair, pp PresentationProof, A, B group.Point, aciCt, pniCt UidCiphertext, pkCt ProfileKeyCiphertext) error {
	return pniPresentation.verify(kp, pp, presentationKeys{A: A, B: B, uidCts: []UidCiphertext{aciCt, pniCt}, pkCt: pkCt})
}

// ReadPniPresentationProof decodes a PNI presentation proof.
func ReadPniPresentationProof(s *cryptobyte.String) (PresentationProof, error) {
	return pniPresentation.read(s)
}

// NewReceiptCredentialPresentationProof proves possession of a receipt
// credential; all of its attributes are disclosed.
func NewReceiptCredentialPresentationProof(pk CredentialPublicKey, cred Credential, receipt ReceiptStruct, s *sho.Sho) (PresentationProof, error) {
	M := []group.Point{receipt.M1(), receipt.M2()}
	return receiptPresentation.prove(pk, cred, M, presentationKeys{}, s)
}

// VerifyReceiptCredentialPresentationProof checks a receipt presentation
// proof for the disclosed receipt.
func VerifyReceiptCredentialPresentationProof(kp *CredentialKeyPair, pp PresentationProof, receipt ReceiptStruct) error {
	return receiptPresentation.verify(kp, pp, presentationKeys{revealedM: []group.Point{receipt.M1(), receipt.M2()}})
}

// ReadReceiptPresentationProof decodes a receipt presentation proof.
func ReadReceiptPresentationProof(s *cryptobyte.String) (PresentationProof, error) {
	return receiptPresentation.read(s)
}
