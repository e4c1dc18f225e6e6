package zkcrypto

import (
	"errors"
	"testing"

	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/crypto"
	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/sho"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

var (
	testUid        = [UidSize]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	testPni        = [UidSize]byte{0xa0, 0xa1, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7, 0xa8, 0xa9, 0xaa, 0xab, 0xac, 0xad, 0xae, 0xaf}
	testProfileKey = [ProfileKeySize]byte{
		0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f,
		0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28, 0x29, 0x2a, 0x2b, 0x2c, 0x2d, 0x2e, 0x2f,
	}
	testRandomness = crypto.NewStaticTestRandomness()
)

func testSho(label string) *sho.Sho {
	return sho.New([]byte(label), testRandomness)
}

func marshal(m interface{ Marshal(*cryptobyte.Builder) }) []byte {
	var b cryptobyte.Builder
	m.Marshal(&b)
	return b.BytesOrPanic()
}

func TestUidEncryption(t *testing.T) {
	kp := DeriveUidEncryptionKeyPair(testSho("uid key"))
	uid := NewUidStruct(testUid)
	ct := kp.Encrypt(uid)
	if !ct.EA1.Equal(kp.Encrypt(uid).EA1) {
		t.Fatal("uid encryption is not deterministic")
	}
	got, err := kp.Decrypt(ct)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bytes != testUid {
		t.Fatal("uid did not round trip")
	}

	other := DeriveUidEncryptionKeyPair(testSho("other uid key"))
	if _, err := other.Decrypt(ct); !errors.Is(err, zkerr.ErrDecryption) {
		t.Fatal("decrypted under the wrong key, err =", err)
	}
}

func TestProfileKeyEncryption(t *testing.T) {
	kp := DeriveProfileKeyEncryptionKeyPair(testSho("profile key"))
	var ones [ProfileKeySize]byte
	for i := range ones {
		ones[i] = 0xff
	}
	for _, key := range [][ProfileKeySize]byte{testProfileKey, ones} {
		ct := kp.Encrypt(NewProfileKeyStruct(key, testUid))
		got, err := kp.Decrypt(ct, testUid)
		if err != nil {
			t.Fatal(err)
		}
		if got.Bytes != key {
			t.Fatalf("profile key %x did not round trip, got %x", key, got.Bytes)
		}
		if _, err := kp.Decrypt(ct, testPni); !errors.Is(err, zkerr.ErrDecryption) {
			t.Fatal("decrypted for the wrong identifier, err =", err)
		}
	}
}

func TestCredentialKeyPairEncoding(t *testing.T) {
	kp := GenerateCredentialKeyPair(testSho("credential key"), PniAttributes)
	raw := marshal(kp)
	if len(raw) != CredentialKeyPairSize(PniAttributes) {
		t.Fatalf("key pair is %d bytes", len(raw))
	}
	s := cryptobyte.String(raw)
	kp2, err := ReadCredentialKeyPair(&s, PniAttributes)
	if err != nil {
		t.Fatal(err)
	}
	if !kp2.I.Equal(kp.I) || !kp2.CW.Equal(kp.CW) {
		t.Fatal("key pair did not round trip")
	}

	// Corrupt the cached I.
	raw[len(raw)-1] ^= 1
	s = cryptobyte.String(raw)
	if _, err := ReadCredentialKeyPair(&s, PniAttributes); !errors.Is(err, zkerr.ErrorInvalidInput) {
		t.Fatal("accepted corrupted key pair, err =", err)
	}
}

func TestAuthCredential(t *testing.T) {
	kp := GenerateCredentialKeyPair(testSho("auth key"), AuthAttributes)
	uid := NewUidStruct(testUid)
	const rt = 18000

	cred := kp.CreateAuthCredential(uid, rt, testSho("issue"))
	proof, err := NewAuthCredentialIssuanceProof(kp, uid, rt, cred, testRandomness)
	if err != nil {
		t.Fatal(err)
	}
	if len(proof) != AuthIssuanceProofSize {
		t.Fatalf("issuance proof is %d bytes", len(proof))
	}
	if err := VerifyAuthCredentialIssuanceProof(proof, kp.PublicKey(), uid, rt, cred); err != nil {
		t.Fatal(err)
	}
	if err := VerifyAuthCredentialIssuanceProof(proof, kp.PublicKey(), uid, rt+1, cred); !errors.Is(err, zkerr.ErrCredentialValidation) {
		t.Fatal("issuance proof verified for another redemption time")
	}

	uidKey := DeriveUidEncryptionKeyPair(testSho("group"))
	ct := uidKey.Encrypt(uid)
	pp, err := NewAuthCredentialPresentationProof(kp.PublicKey(), uidKey, cred, uid, ct, rt, testSho("present"))
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyAuthCredentialPresentationProof(kp, pp, uidKey.A, ct, rt); err != nil {
		t.Fatal(err)
	}
	if err := VerifyAuthCredentialPresentationProof(kp, pp, uidKey.A, ct, rt+1); !errors.Is(err, zkerr.ErrPresentationVerification) {
		t.Fatal("presentation verified for another redemption time")
	}
	other := DeriveUidEncryptionKeyPair(testSho("other group"))
	if err := VerifyAuthCredentialPresentationProof(kp, pp, other.A, ct, rt); err == nil {
		t.Fatal("presentation verified for another group")
	}

	raw := marshal(pp)
	if len(raw) != AuthPresentationProofSize {
		t.Fatalf("presentation proof is %d bytes", len(raw))
	}
	s := cryptobyte.String(raw)
	pp2, err := ReadAuthPresentationProof(&s)
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyAuthCredentialPresentationProof(kp, pp2, uidKey.A, ct, rt); err != nil {
		t.Fatal(err)
	}
}

func TestProfileKeyCredential(t *testing.T) {
	kp := GenerateCredentialKeyPair(testSho("profile key credentials"), ProfileKeyAttributes)
	uid := NewUidStruct(testUid)
	pk := NewProfileKeyStruct(testProfileKey, testUid)
	commitment := NewProfileKeyCommitment(pk, testUid)

	blinding := GenerateBlindingKeyPair(testSho("blinding"))
	ct := blinding.EncryptProfileKey(pk, testSho("request"))
	reqProof, err := NewProfileKeyCredentialRequestProof(blinding, ct, commitment, ProfileKeyRequestMessage, testRandomness)
	if err != nil {
		t.Fatal(err)
	}
	if len(reqProof) != RequestProofSize {
		t.Fatalf("request proof is %d bytes", len(reqProof))
	}
	err = VerifyProfileKeyCredentialRequestProof(reqProof, blinding.Y, ct.ProfileKeyRequestCiphertext, commitment.ProfileKeyCommitment, ProfileKeyRequestMessage)
	if err != nil {
		t.Fatal(err)
	}
	err = VerifyProfileKeyCredentialRequestProof(reqProof, blinding.Y, ct.ProfileKeyRequestCiphertext, commitment.ProfileKeyCommitment, PniRequestMessage)
	if !errors.Is(err, zkerr.ErrRequestVerification) {
		t.Fatal("request proof verified for another credential kind")
	}
	otherCommitment := NewProfileKeyCommitment(pk, testPni)
	err = VerifyProfileKeyCredentialRequestProof(reqProof, blinding.Y, ct.ProfileKeyRequestCiphertext, otherCommitment.ProfileKeyCommitment, ProfileKeyRequestMessage)
	if err == nil {
		t.Fatal("request proof verified against another commitment")
	}

	bc := kp.CreateBlindedProfileKeyCredential(uid, blinding.Y, ct.ProfileKeyRequestCiphertext, testSho("issue"))
	proof, err := NewProfileKeyCredentialIssuanceProof(kp, uid, blinding.Y, ct.ProfileKeyRequestCiphertext, bc, testRandomness)
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyProfileKeyCredentialIssuanceProof(proof, kp.PublicKey(), uid, blinding.Y, ct.ProfileKeyRequestCiphertext, bc.BlindedCredential); err != nil {
		t.Fatal(err)
	}
	cred := blinding.Unblind(bc.BlindedCredential)

	uidKey := DeriveUidEncryptionKeyPair(testSho("group uid"))
	pkKey := DeriveProfileKeyEncryptionKeyPair(testSho("group profile key"))
	uidCt := uidKey.Encrypt(uid)
	pkCt := pkKey.Encrypt(pk)
	pp, err := NewProfileKeyCredentialPresentationProof(kp.PublicKey(), uidKey, pkKey, cred, uid, pk, uidCt, pkCt, testSho("present"))
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyProfileKeyCredentialPresentationProof(kp, pp, uidKey.A, pkKey.B, uidCt, pkCt); err != nil {
		t.Fatal(err)
	}
	if len(marshal(pp)) != ProfileKeyPresentationProofSize {
		t.Fatal("unexpected presentation proof size")
	}

	otherPk := testProfileKey
	otherPk[0] ^= 1
	otherCt := pkKey.Encrypt(NewProfileKeyStruct(otherPk, testUid))
	if err := VerifyProfileKeyCredentialPresentationProof(kp, pp, uidKey.A, pkKey.B, uidCt, otherCt); err == nil {
		t.Fatal("presentation verified for another profile key ciphertext")
	}
}

func TestPniCredential(t *testing.T) {
	kp := GenerateCredentialKeyPair(testSho("pni credentials"), PniAttributes)
	aci := NewUidStruct(testUid)
	pni := NewUidStruct(testPni)
	pk := NewProfileKeyStruct(testProfileKey, testUid)

	blinding := GenerateBlindingKeyPair(testSho("blinding"))
	ct := blinding.EncryptProfileKey(pk, testSho("request"))
	bc := kp.CreateBlindedPniCredential(aci, pni, blinding.Y, ct.ProfileKeyRequestCiphertext, testSho("issue"))
	proof, err := NewPniCredentialIssuanceProof(kp, aci, pni, blinding.Y, ct.ProfileKeyRequestCiphertext, bc, testRandomness)
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyPniCredentialIssuanceProof(proof, kp.PublicKey(), aci, pni, blinding.Y, ct.ProfileKeyRequestCiphertext, bc.BlindedCredential); err != nil {
		t.Fatal(err)
	}
	if err := VerifyPniCredentialIssuanceProof(proof, kp.PublicKey(), pni, aci, blinding.Y, ct.ProfileKeyRequestCiphertext, bc.BlindedCredential); err == nil {
		t.Fatal("issuance proof verified with swapped identifiers")
	}
	cred := blinding.Unblind(bc.BlindedCredential)

	uidKey := DeriveUidEncryptionKeyPair(testSho("group uid"))
	pkKey := DeriveProfileKeyEncryptionKeyPair(testSho("group profile key"))
	aciCt, pniCt, pkCt := uidKey.Encrypt(aci), uidKey.Encrypt(pni), pkKey.Encrypt(pk)
	pp, err := NewPniCredentialPresentationProof(kp.PublicKey(), uidKey, pkKey, cred, aci, pni, pk, aciCt, pniCt, pkCt, testSho("present"))
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyPniCredentialPresentationProof(kp, pp, uidKey.A, pkKey.B, aciCt, pniCt, pkCt); err != nil {
		t.Fatal(err)
	}
	if err := VerifyPniCredentialPresentationProof(kp, pp, uidKey.A, pkKey.B, pniCt, aciCt, pkCt); err == nil {
		t.Fatal("presentation verified with swapped ciphertexts")
	}
}

func TestReceiptCredential(t *testing.T) {
	kp := GenerateCredentialKeyPair(testSho("receipt credentials"), ReceiptAttributes)
	receipt := ReceiptStruct{
		Serial:         [ReceiptSerialSize]byte{9, 9, 9},
		ExpirationTime: 31 * SecondsPerDay,
		Level:          3,
	}

	blinding := GenerateBlindingKeyPair(testSho("blinding"))
	ct := blinding.EncryptReceiptSerial(receipt.Serial, testSho("request"))
	bc := kp.CreateBlindedReceiptCredential(receipt.ExpirationTime, receipt.Level, blinding.Y, ct.ElGamalCiphertext, testSho("issue"))
	proof, err := NewReceiptCredentialIssuanceProof(kp, receipt.ExpirationTime, receipt.Level, blinding.Y, ct.ElGamalCiphertext, bc, testRandomness)
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyReceiptCredentialIssuanceProof(proof, kp.PublicKey(), receipt.ExpirationTime, receipt.Level, blinding.Y, ct.ElGamalCiphertext, bc.BlindedCredential); err != nil {
		t.Fatal(err)
	}
	if err := VerifyReceiptCredentialIssuanceProof(proof, kp.PublicKey(), receipt.ExpirationTime, receipt.Level+1, blinding.Y, ct.ElGamalCiphertext, bc.BlindedCredential); err == nil {
		t.Fatal("issuance proof verified for another level")
	}
	cred := blinding.Unblind(bc.BlindedCredential)

	pp, err := NewReceiptCredentialPresentationProof(kp.PublicKey(), cred, receipt, testSho("present"))
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyReceiptCredentialPresentationProof(kp, pp, receipt); err != nil {
		t.Fatal(err)
	}
	forged := receipt
	forged.Level = 4
	if err := VerifyReceiptCredentialPresentationProof(kp, pp, forged); !errors.Is(err, zkerr.ErrPresentationVerification) {
		t.Fatal("presentation verified for another level")
	}
}

func TestPresentationDeterminism(t *testing.T) {
	kp := GenerateCredentialKeyPair(testSho("auth key"), AuthAttributes)
	uid := NewUidStruct(testUid)
	cred := kp.CreateAuthCredential(uid, 1, testSho("issue"))
	uidKey := DeriveUidEncryptionKeyPair(testSho("group"))
	ct := uidKey.Encrypt(uid)

	pp1, err := NewAuthCredentialPresentationProof(kp.PublicKey(), uidKey, cred, uid, ct, 1, testSho("present"))
	if err != nil {
		t.Fatal(err)
	}
	pp2, err := NewAuthCredentialPresentationProof(kp.PublicKey(), uidKey, cred, uid, ct, 1, testSho("present"))
	if err != nil {
		t.Fatal(err)
	}
	if string(marshal(pp1)) != string(marshal(pp2)) {
		t.Fatal("presentations differ for identical inputs")
	}
}

func TestReadRejectsCorruptRequestNonce(t *testing.T) {
	blinding := GenerateBlindingKeyPair(testSho("blinding"))
	pk := NewProfileKeyStruct(testProfileKey, testUid)
	ct := blinding.EncryptProfileKey(pk, testSho("request"))
	raw := marshal(ct)
	if len(raw) != ProfileKeyRequestCiphertextWithSecretNonceSize {
		t.Fatalf("ciphertext is %d bytes", len(raw))
	}
	s := cryptobyte.String(raw)
	if _, err := ReadProfileKeyRequestCiphertextWithSecretNonce(&s, blinding, pk); err != nil {
		t.Fatal(err)
	}
	other := NewProfileKeyStruct(testProfileKey, testPni)
	s = cryptobyte.String(raw)
	if _, err := ReadProfileKeyRequestCiphertextWithSecretNonce(&s, blinding, other); !errors.Is(err, zkerr.ErrInconsistentParams) {
		t.Fatal("accepted ciphertext for another profile key, err =", err)
	}
}

func TestCommitmentRejectsIdentity(t *testing.T) {
	raw := make([]byte, ProfileKeyCommitmentSize)
	copy(raw, group.Identity().Bytes())
	s := cryptobyte.String(raw)
	if _, err := ReadProfileKeyCommitment(&s); !errors.Is(err, zkerr.ErrorInvalidInput) {
		t.Fatal("accepted identity commitment, err =", err)
	}
}

func TestProofSizes(t *testing.T) {
	for _, tc := range []struct {
		name      string
		got, want int
	}{
		{"auth issuance", authIssuance.st.ProofSize(), AuthIssuanceProofSize},
		{"profile key issuance", profileKeyIssuance.st.ProofSize(), ProfileKeyIssuanceProofSize},
		{"pni issuance", pniIssuance.st.ProofSize(), PniIssuanceProofSize},
		{"receipt issuance", receiptIssuance.st.ProofSize(), ReceiptIssuanceProofSize},
		{"request", requestStatement.ProofSize(), RequestProofSize},
		{"auth presentation", (3+authPresentation.n)*group.PointSize + ProofFieldSize(authPresentation.st.ProofSize()), AuthPresentationProofSize},
		{"profile key presentation", (3+profileKeyPresentation.n)*group.PointSize + ProofFieldSize(profileKeyPresentation.st.ProofSize()), ProfileKeyPresentationProofSize},
		{"pni presentation", (3+pniPresentation.n)*group.PointSize + ProofFieldSize(pniPresentation.st.ProofSize()), PniPresentationProofSize},
		{"receipt presentation", (3+receiptPresentation.n)*group.PointSize + ProofFieldSize(receiptPresentation.st.ProofSize()), ReceiptPresentationProofSize},
	} {
		if tc.got != tc.want {
			t.Errorf("%s: proof is %d bytes, want %d", tc.name, tc.got, tc.want)
		}
	}
}
