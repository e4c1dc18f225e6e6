package zkgroup

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func testRandomness(b byte) Randomness {
	var r Randomness
	for i := range r {
		r[i] = b + byte(i)
	}
	return r
}

var (
	testMasterKey     = GroupMasterKey(mustHex("6465666768696a6b6c6d6e6f707172737475767778797a7b7c7d7e7f80818283"))
	testServerSeed    = Randomness(mustHex("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"))
	testPresentRandom = Randomness(mustHex("030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f202122"))
	testUid           = uuid.UUID(mustHex("000102030405060708090a0b0c0d0e0f"))
	testPni           = uuid.MustParse("8c78cd2a-16ff-427d-83dc-1a5e36ce713d")
	testProfileKey    = ProfileKey(mustHex("cccdcecfd0d1d2d3d4d5d6d7d8d9dadbdcdddedfe0e1e2e3e4e5e6e7e8e9eaeb"))
	testRedemption    = uint32(123456)
)

func TestMasterKeyRoundTrip(t *testing.T) {
	gsp := DeriveGroupSecretParams(testMasterKey)
	if got := gsp.GetMasterKey(); !bytes.Equal(got.Serialize(), testMasterKey.Serialize()) {
		t.Fatal("master key did not round trip")
	}
	raw := gsp.Serialize()
	if len(raw) != GroupSecretParamsSize {
		t.Fatalf("group secret params are %d bytes", len(raw))
	}
	gsp2, err := NewGroupSecretParams(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(gsp2.Serialize(), raw) {
		t.Fatal("group secret params did not round trip")
	}
	if !bytes.Equal(DeriveGroupSecretParams(testMasterKey).Serialize(), raw) {
		t.Fatal("derivation is not deterministic")
	}

	gpp, err := NewGroupPublicParams(gsp.GetPublicParams().Serialize())
	if err != nil {
		t.Fatal(err)
	}
	if gpp.GetGroupIdentifier() != gsp.GetPublicParams().GetGroupIdentifier() {
		t.Fatal("group identifier did not round trip")
	}
}

func TestGroupSecretParamsRejectsGarbage(t *testing.T) {
	junk := bytes.Repeat([]byte{0x81}, GroupSecretParamsSize)
	if _, err := NewGroupSecretParams(junk); !errors.Is(err, ErrInvalidInput) {
		t.Fatal("expected an invalid input error, got", err)
	}
	junk[0] = 0
	if _, err := NewGroupSecretParams(junk); !errors.Is(err, ErrInvalidInput) {
		t.Fatal("expected an invalid input error, got", err)
	}
	if _, err := NewGroupSecretParams(junk[:10]); !errors.Is(err, ErrInvalidInput) {
		t.Fatal("expected an invalid input error, got", err)
	}

	raw := DeriveGroupSecretParams(testMasterKey).Serialize()
	raw[len(raw)-40] ^= 1
	if _, err := NewGroupSecretParams(raw); !errors.Is(err, ErrInvalidInput) {
		t.Fatal("accepted inconsistent params, err =", err)
	}
}

func TestServerParamsRoundTrip(t *testing.T) {
	ssp := GenerateServerSecretParamsWithRandom(testServerSeed)
	raw := ssp.Serialize()
	ssp2, err := NewServerSecretParams(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ssp2.Serialize(), raw) {
		t.Fatal("server secret params did not round trip")
	}
	pub := ssp.GetPublicParams().Serialize()
	spp, err := NewServerPublicParams(pub)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(spp.Serialize(), pub) {
		t.Fatal("server public params did not round trip")
	}
}

// rejectsEveryBitFlip checks that accept fails for every single-bit change
// of raw, either while parsing or while verifying.
func rejectsEveryBitFlip(t *testing.T, raw []byte, accept func([]byte) error) {
	t.Helper()
	for i := 0; i < len(raw)*8; i++ {
		flipped := append([]byte(nil), raw...)
		flipped[i/8] ^= 1 << uint(i%8)
		err := accept(flipped)
		if err == nil {
			t.Fatalf("accepted with bit %d of %d flipped", i, len(raw)*8)
		}
		if !errors.Is(err, ErrVerification) && !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("bit %d: unexpected error %v", i, err)
		}
	}
}

func TestServerSignature(t *testing.T) {
	ssp := GenerateServerSecretParamsWithRandom(testServerSeed)
	spp := ssp.GetPublicParams()
	message := []byte("a message to be notarized")
	sig, err := ssp.SignWithRandom(testRandomness(7), message)
	if err != nil {
		t.Fatal(err)
	}
	if err := spp.VerifySignature(message, sig); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(message)*8; i++ {
		flipped := append([]byte(nil), message...)
		flipped[i/8] ^= 1 << uint(i%8)
		if err := spp.VerifySignature(flipped, sig); !errors.Is(err, ErrSignatureVerification) {
			t.Fatalf("signature verified with bit %d flipped", i)
		}
	}
}

func TestGroupSignature(t *testing.T) {
	gsp := DeriveGroupSecretParams(testMasterKey)
	message := []byte("group change")
	sig, err := gsp.Sign(message)
	if err != nil {
		t.Fatal(err)
	}
	if err := gsp.GetPublicParams().VerifySignature(message, sig); err != nil {
		t.Fatal(err)
	}
	other := GenerateGroupSecretParamsWithRandom(testRandomness(1))
	if err := other.GetPublicParams().VerifySignature(message, sig); !errors.Is(err, ErrVerification) {
		t.Fatal("signature verified under another group")
	}
}

func TestAuthIntegration(t *testing.T) {
	ssp := GenerateServerSecretParamsWithRandom(testServerSeed)
	spp := ssp.GetPublicParams()
	server := NewServerZkAuthOperations(ssp)
	client := NewClientZkAuthOperations(spp)
	gsp := DeriveGroupSecretParams(testMasterKey)

	resp, err := server.IssueAuthCredentialWithRandom(testRandomness(2), testUid, testRedemption)
	if err != nil {
		t.Fatal(err)
	}
	resp, err = NewAuthCredentialResponse(resp.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	cred, err := client.ReceiveAuthCredential(testUid, testRedemption, resp)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.ReceiveAuthCredential(testUid, testRedemption+1, resp); !errors.Is(err, ErrCredentialValidation) {
		t.Fatal("received a credential for the wrong redemption time")
	}

	pres, err := client.CreateAuthCredentialPresentationWithRandom(testPresentRandom, gsp, cred)
	if err != nil {
		t.Fatal(err)
	}
	pres, err = NewAuthCredentialPresentation(pres.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	if err := server.VerifyAuthCredentialPresentation(gsp.GetPublicParams(), pres); err != nil {
		t.Fatal(err)
	}
	if pres.GetRedemptionTime() != testRedemption {
		t.Fatal("wrong redemption time disclosed")
	}
	uid, err := NewClientZkGroupCipher(gsp).DecryptUuid(pres.GetUuidCiphertext())
	if err != nil {
		t.Fatal(err)
	}
	if uid != testUid {
		t.Fatal("presentation ciphertext does not decrypt to the user")
	}

	otherGroup := GenerateGroupSecretParamsWithRandom(testRandomness(3))
	if err := server.VerifyAuthCredentialPresentation(otherGroup.GetPublicParams(), pres); !errors.Is(err, ErrPresentationVerification) {
		t.Fatal("presentation verified for another group")
	}
	otherServer := NewServerZkAuthOperations(GenerateServerSecretParamsWithRandom(testRandomness(4)))
	if err := otherServer.VerifyAuthCredentialPresentation(gsp.GetPublicParams(), pres); !errors.Is(err, ErrPresentationVerification) {
		t.Fatal("presentation verified under another server key")
	}

	raw := pres.Serialize()
	raw[len(raw)-1] ^= 1
	forged, err := NewAuthCredentialPresentation(raw)
	if err != nil {
		t.Fatal(err)
	}
	if err := server.VerifyAuthCredentialPresentation(gsp.GetPublicParams(), forged); !errors.Is(err, ErrVerification) {
		t.Fatal("presentation verified with a changed redemption time")
	}

	rejectsEveryBitFlip(t, pres.Serialize(), func(raw []byte) error {
		p, err := NewAuthCredentialPresentation(raw)
		if err != nil {
			return err
		}
		return server.VerifyAuthCredentialPresentation(gsp.GetPublicParams(), p)
	})
}

// authPresentationResult is the presentation of an auth credential for
// testUid on testRedemption, issued with testRandomness(2) under
// testServerSeed and presented for testMasterKey with testPresentRandom.
const authPresentationResult = "" +
	"00a40bc7b56c9a042d3eecd82c91258d8a89ff5b2356c273e2fb625c2d34a48d" +
	"2c4c6f5073f0db497dcce2ff4470d50537f44c8fe4671d36f253f781795ab4c2" +
	"2432cd9154dee2f799f16f7092d75c2141f3a769e875bf0c5e400d0e42d4856c" +
	"2254e6d667df637bdf2d9d87542564f90427fa0f0994a3a9b440168b047f9294" +
	"579e5a30d1f81d768979b380dc435d74166431f8f1499f46c7bf4b62ee53721e" +
	"5b98386a5f6491e292a87b5a4bcdeef1e86cb545df0769f17dcabe8916bd4fa5" +
	"6000000000000000e090daa8cc0fdc79649f5ea79a1aa77a93c43215da45a393" +
	"270ec994807048610fcd341666e1e1fa72cb8822a942ad8e0d3315a27f332d8f" +
	"23ed54a0209b89c300f849aecf5d8c2e6ec25df78d792b4f0706c3e92bca6ae7" +
	"69fed9f3c3719592055f7cbb2699aeaf9fa2ae0d6ff67b664b46b1e37acf0506" +
	"6fdd71d1f7c4d5ff0d4c6b982d39062491ab8d256952160a130ea2013ec83681" +
	"85e3177bdc60ecf00b461140214bfcd36c0c4ab2c12764ddc9823ce10484a65a" +
	"dc5f46ef725d143b011ac2c84beb08bc418f9ad3b8d154af104643426c6c1741" +
	"49c478c170a692200010213cf62f6b01826ef312c4ca37e20087ade175fce1b9" +
	"3a506a42f488aeb3473237615bcbdddfbc30392dd234f30c4eb5a879c18445f1" +
	"d568089fa6c99057040001e240"

func TestAuthPresentationDeterminism(t *testing.T) {
	ssp := GenerateServerSecretParamsWithRandom(testServerSeed)
	client := NewClientZkAuthOperations(ssp.GetPublicParams())
	gsp := DeriveGroupSecretParams(testMasterKey)
	resp, err := NewServerZkAuthOperations(ssp).IssueAuthCredentialWithRandom(testRandomness(2), testUid, testRedemption)
	if err != nil {
		t.Fatal(err)
	}
	cred, err := client.ReceiveAuthCredential(testUid, testRedemption, resp)
	if err != nil {
		t.Fatal(err)
	}
	p1, err := client.CreateAuthCredentialPresentationWithRandom(testPresentRandom, gsp, cred)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := client.CreateAuthCredentialPresentationWithRandom(testPresentRandom, gsp, cred)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p1.Serialize(), mustHex(authPresentationResult)) {
		t.Fatalf("unexpected presentation %x", p1.Serialize())
	}
	if !bytes.Equal(p1.Serialize(), p2.Serialize()) {
		t.Fatal("presentations differ for identical inputs")
	}
	p3, err := client.CreateAuthCredentialPresentationWithRandom(testRandomness(9), gsp, cred)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(p1.Serialize(), p3.Serialize()) {
		t.Fatal("presentations do not depend on the randomness")
	}
}

func TestTamperedAuthResponse(t *testing.T) {
	ssp := GenerateServerSecretParamsWithRandom(testServerSeed)
	resp, err := NewServerZkAuthOperations(ssp).IssueAuthCredentialWithRandom(testRandomness(2), testUid, testRedemption)
	if err != nil {
		t.Fatal(err)
	}
	raw := resp.Serialize()
	// First byte of the proof's challenge.
	raw[1+96+8] ^= 1
	tampered, err := NewAuthCredentialResponse(raw)
	if err != nil {
		t.Fatal(err)
	}
	client := NewClientZkAuthOperations(ssp.GetPublicParams())
	if _, err := client.ReceiveAuthCredential(testUid, testRedemption, tampered); !errors.Is(err, ErrCredentialValidation) {
		t.Fatal("accepted a tampered response, err =", err)
	}

	other := NewClientZkAuthOperations(GenerateServerSecretParamsWithRandom(testRandomness(5)).GetPublicParams())
	if _, err := other.ReceiveAuthCredential(testUid, testRedemption, resp); !errors.Is(err, ErrCredentialValidation) {
		t.Fatal("accepted a response under another server key")
	}
}

func TestProfileKeyIntegration(t *testing.T) {
	ssp := GenerateServerSecretParamsWithRandom(testServerSeed)
	server := NewServerZkProfileOperations(ssp)
	client := NewClientZkProfileOperations(ssp.GetPublicParams())
	gsp := DeriveGroupSecretParams(testMasterKey)

	commitment, err := NewProfileKeyCommitment(testProfileKey.GetCommitment(testUid).Serialize())
	if err != nil {
		t.Fatal(err)
	}
	if commitment.GetProfileKeyVersion() != testProfileKey.GetProfileKeyVersion(testUid) {
		t.Fatal("commitment carries the wrong version")
	}

	ctx, err := client.CreateProfileKeyCredentialRequestContextWithRandom(testRandomness(10), testUid, testProfileKey)
	if err != nil {
		t.Fatal(err)
	}
	ctx, err = NewProfileKeyCredentialRequestContext(ctx.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	req, err := NewProfileKeyCredentialRequest(ctx.GetRequest().Serialize())
	if err != nil {
		t.Fatal(err)
	}

	otherCommitment := testProfileKey.GetCommitment(testPni)
	if _, err := server.IssueProfileKeyCredentialWithRandom(testRandomness(11), req, testUid, otherCommitment); !errors.Is(err, ErrRequestVerification) {
		t.Fatal("issued against the wrong commitment, err =", err)
	}

	resp, err := server.IssueProfileKeyCredentialWithRandom(testRandomness(11), req, testUid, commitment)
	if err != nil {
		t.Fatal(err)
	}
	resp, err = NewProfileKeyCredentialResponse(resp.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	cred, err := client.ReceiveProfileKeyCredential(ctx, resp)
	if err != nil {
		t.Fatal(err)
	}
	cred, err = NewProfileKeyCredential(cred.Serialize())
	if err != nil {
		t.Fatal(err)
	}

	pres, err := client.CreateProfileKeyCredentialPresentationWithRandom(testPresentRandom, gsp, cred)
	if err != nil {
		t.Fatal(err)
	}
	pres, err = NewProfileKeyCredentialPresentation(pres.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	if err := server.VerifyProfileKeyCredentialPresentation(gsp.GetPublicParams(), pres); err != nil {
		t.Fatal(err)
	}

	cipher := NewClientZkGroupCipher(gsp)
	uid, err := cipher.DecryptUuid(pres.GetUuidCiphertext())
	if err != nil {
		t.Fatal(err)
	}
	pk, err := cipher.DecryptProfileKey(pres.GetProfileKeyCiphertext(), uid)
	if err != nil {
		t.Fatal(err)
	}
	if uid != testUid || pk != testProfileKey {
		t.Fatal("presentation ciphertexts do not decrypt to the credential's attributes")
	}

	otherGroup := GenerateGroupSecretParamsWithRandom(testRandomness(12))
	if err := server.VerifyProfileKeyCredentialPresentation(otherGroup.GetPublicParams(), pres); !errors.Is(err, ErrPresentationVerification) {
		t.Fatal("presentation verified for another group")
	}

	rejectsEveryBitFlip(t, pres.Serialize(), func(raw []byte) error {
		p, err := NewProfileKeyCredentialPresentation(raw)
		if err != nil {
			return err
		}
		return server.VerifyProfileKeyCredentialPresentation(gsp.GetPublicParams(), p)
	})
}

func TestPniIntegration(t *testing.T) {
	ssp := GenerateServerSecretParamsWithRandom(testServerSeed)
	server := NewServerZkProfileOperations(ssp)
	client := NewClientZkProfileOperations(ssp.GetPublicParams())
	gsp := DeriveGroupSecretParams(testMasterKey)
	commitment := testProfileKey.GetCommitment(testUid)

	ctx, err := client.CreatePniCredentialRequestContextWithRandom(testRandomness(20), testUid, testPni, testProfileKey)
	if err != nil {
		t.Fatal(err)
	}
	ctx, err = NewPniCredentialRequestContext(ctx.Serialize())
	if err != nil {
		t.Fatal(err)
	}

	// A profile key request is not a PNI request.
	pkCtx, err := client.CreateProfileKeyCredentialRequestContextWithRandom(testRandomness(20), testUid, testProfileKey)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := server.IssuePniCredentialWithRandom(testRandomness(21), pkCtx.GetRequest(), testUid, testPni, commitment); !errors.Is(err, ErrRequestVerification) {
		t.Fatal("issued a PNI credential for a profile key request")
	}

	resp, err := server.IssuePniCredentialWithRandom(testRandomness(21), ctx.GetRequest(), testUid, testPni, commitment)
	if err != nil {
		t.Fatal(err)
	}
	raw := resp.Serialize()
	if len(raw) != 521 {
		t.Fatalf("PNI credential response is %d bytes", len(raw))
	}
	resp, err = NewPniCredentialResponse(raw)
	if err != nil {
		t.Fatal(err)
	}
	cred, err := client.ReceivePniCredential(ctx, resp)
	if err != nil {
		t.Fatal(err)
	}

	pres, err := client.CreatePniCredentialPresentationWithRandom(testPresentRandom, gsp, cred)
	if err != nil {
		t.Fatal(err)
	}
	pres, err = NewPniCredentialPresentation(pres.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	if err := server.VerifyPniCredentialPresentation(gsp.GetPublicParams(), pres); err != nil {
		t.Fatal(err)
	}
	cipher := NewClientZkGroupCipher(gsp)
	aci, err := cipher.DecryptUuid(pres.GetAciCiphertext())
	if err != nil {
		t.Fatal(err)
	}
	pni, err := cipher.DecryptUuid(pres.GetPniCiphertext())
	if err != nil {
		t.Fatal(err)
	}
	if aci != testUid || pni != testPni {
		t.Fatal("presentation ciphertexts do not decrypt to the credential's identifiers")
	}
	pk, err := cipher.DecryptProfileKey(pres.GetProfileKeyCiphertext(), aci)
	if err != nil {
		t.Fatal(err)
	}
	if pk != testProfileKey {
		t.Fatal("presentation carries the wrong profile key")
	}

	rejectsEveryBitFlip(t, pres.Serialize(), func(raw []byte) error {
		p, err := NewPniCredentialPresentation(raw)
		if err != nil {
			return err
		}
		return server.VerifyPniCredentialPresentation(gsp.GetPublicParams(), p)
	})
}

func TestReceiptIntegration(t *testing.T) {
	ssp := GenerateServerSecretParamsWithRandom(testServerSeed)
	server := NewServerZkReceiptOperations(ssp)
	client := NewClientZkReceiptOperations(ssp.GetPublicParams())

	serial, err := NewReceiptSerial(mustHex("0102030405060708090a0b0c0d0e0f10"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := client.CreateReceiptCredentialRequestContextWithRandom(testRandomness(30), serial)
	ctx, err = NewReceiptCredentialRequestContext(ctx.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	req, err := NewReceiptCredentialRequest(ctx.GetRequest().Serialize())
	if err != nil {
		t.Fatal(err)
	}

	const expiration = 1632355200 // 2021-09-23T00:00:00Z
	const level = 5
	if _, err := server.IssueReceiptCredentialWithRandom(testRandomness(31), req, expiration+1, level); !errors.Is(err, ErrInvalidAttribute) {
		t.Fatal("issued a receipt with an unaligned expiration, err =", err)
	}
	resp, err := server.IssueReceiptCredentialWithRandom(testRandomness(31), req, expiration, level)
	if err != nil {
		t.Fatal(err)
	}
	resp, err = NewReceiptCredentialResponse(resp.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	cred, err := client.ReceiveReceiptCredential(ctx, resp)
	if err != nil {
		t.Fatal(err)
	}
	raw := cred.Serialize()
	if len(raw) != 129 {
		t.Fatalf("receipt credential is %d bytes", len(raw))
	}
	if !bytes.Equal(raw[1+96:1+96+8], mustHex("00000000614bc380")) {
		t.Fatal("expiration is not big-endian after the credential")
	}
	cred, err = NewReceiptCredential(raw)
	if err != nil {
		t.Fatal(err)
	}
	if cred.GetReceiptExpirationTime() != expiration || cred.GetReceiptLevel() != level {
		t.Fatal("wrong receipt attributes")
	}

	pres, err := client.CreateReceiptCredentialPresentationWithRandom(testPresentRandom, cred)
	if err != nil {
		t.Fatal(err)
	}
	pres, err = NewReceiptCredentialPresentation(pres.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	if err := server.VerifyReceiptCredentialPresentation(pres); err != nil {
		t.Fatal(err)
	}
	if pres.GetReceiptSerial() != serial || pres.GetReceiptLevel() != level || pres.GetReceiptExpirationTime() != expiration {
		t.Fatal("wrong disclosed receipt attributes")
	}

	// Claim a higher level.
	raw = pres.Serialize()
	raw[len(raw)-ReceiptSerialSize-1]++
	forged, err := NewReceiptCredentialPresentation(raw)
	if err != nil {
		t.Fatal(err)
	}
	if err := server.VerifyReceiptCredentialPresentation(forged); !errors.Is(err, ErrPresentationVerification) {
		t.Fatal("presentation verified with a forged level")
	}
}

func TestBlobEncryption(t *testing.T) {
	gsp := DeriveGroupSecretParams(testMasterKey)
	cipher := NewClientZkGroupCipher(gsp)
	for _, n := range []int{0, 1, 16, 1000} {
		plaintext := bytes.Repeat([]byte{0x42}, n)
		ct, err := cipher.EncryptBlobWithRandom(testRandomness(40), plaintext)
		if err != nil {
			t.Fatal(err)
		}
		if len(ct) != n+BlobOverhead {
			t.Fatalf("blob of %d bytes encrypted to %d bytes", n, len(ct))
		}
		got, err := cipher.DecryptBlob(ct)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatal("blob did not round trip")
		}
	}

	ct, err := cipher.EncryptBlob([]byte("secret group title"))
	if err != nil {
		t.Fatal(err)
	}
	other := NewClientZkGroupCipher(GenerateGroupSecretParamsWithRandom(testRandomness(41)))
	if _, err := other.DecryptBlob(ct); !errors.Is(err, ErrDecryption) {
		t.Fatal("decrypted under another group, err =", err)
	}
	ct[len(ct)-1] ^= 1
	if _, err := cipher.DecryptBlob(ct); !errors.Is(err, ErrDecryption) {
		t.Fatal("decrypted a tampered blob, err =", err)
	}
	if _, err := cipher.DecryptBlob(ct[:BlobOverhead-1]); !errors.Is(err, ErrInvalidInput) {
		t.Fatal("decrypted a truncated blob, err =", err)
	}
}

func TestUuidAndProfileKeyEncryption(t *testing.T) {
	gsp := DeriveGroupSecretParams(testMasterKey)
	cipher := NewClientZkGroupCipher(gsp)

	ct, err := NewUuidCiphertext(cipher.EncryptUuid(testUid).Serialize())
	if err != nil {
		t.Fatal(err)
	}
	uid, err := cipher.DecryptUuid(ct)
	if err != nil {
		t.Fatal(err)
	}
	if uid != testUid {
		t.Fatal("uuid did not round trip")
	}

	pkCt, err := NewProfileKeyCiphertext(cipher.EncryptProfileKey(testProfileKey, testUid).Serialize())
	if err != nil {
		t.Fatal(err)
	}
	pk, err := cipher.DecryptProfileKey(pkCt, testUid)
	if err != nil {
		t.Fatal(err)
	}
	if pk != testProfileKey {
		t.Fatal("profile key did not round trip")
	}

	other := NewClientZkGroupCipher(GenerateGroupSecretParamsWithRandom(testRandomness(50)))
	if _, err := other.DecryptUuid(ct); !errors.Is(err, ErrDecryption) {
		t.Fatal("decrypted uuid under another group")
	}
	if _, err := other.DecryptProfileKey(pkCt, testUid); !errors.Is(err, ErrDecryption) {
		t.Fatal("decrypted profile key under another group")
	}
}

func TestProfileKeyVersion(t *testing.T) {
	v1 := testProfileKey.GetProfileKeyVersion(testUid)
	v2 := ProfileKey(testProfileKey).GetProfileKeyVersion(testUid)
	if v1 != v2 {
		t.Fatal("equal keys have different versions")
	}
	other := testProfileKey
	other[31] ^= 1
	if other.GetProfileKeyVersion(testUid) == v1 {
		t.Fatal("different keys have equal versions")
	}
	parsed, err := NewProfileKeyVersion(v1.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != v1 {
		t.Fatal("version did not round trip")
	}
	if _, err := NewProfileKeyVersion(bytes.Repeat([]byte("G"), ProfileKeyVersionSize)); !errors.Is(err, ErrInvalidInput) {
		t.Fatal("accepted a non-hex version")
	}
}

func TestArtifactSizes(t *testing.T) {
	for _, tc := range []struct {
		name      string
		got, want int
	}{
		{"GroupSecretParams", GroupSecretParamsSize, 353},
		{"GroupPublicParams", GroupPublicParamsSize, 129},
		{"ServerSecretParams", ServerSecretParamsSize, 1441},
		{"ServerPublicParams", ServerPublicParamsSize, 289},
		{"NotarySignature", NotarySignatureSize, 64},
		{"UuidCiphertext", UuidCiphertextSize, 64},
		{"ProfileKeyCiphertext", ProfileKeyCiphertextSize, 64},
		{"ProfileKeyCommitment", ProfileKeyCommitmentSize, 161},
		{"ProfileKeyVersion", ProfileKeyVersionSize, 64},
		{"AuthCredentialResponse", AuthCredentialResponseSize, 361},
		{"AuthCredential", AuthCredentialSize, 117},
		{"AuthCredentialPresentation", AuthCredentialPresentationSize, 493},
		{"ProfileKeyCredentialRequestContext", ProfileKeyCredentialRequestContextSize, 473},
		{"ProfileKeyCredentialRequest", ProfileKeyCredentialRequestSize, 329},
		{"ProfileKeyCredentialResponse", ProfileKeyCredentialResponseSize, 457},
		{"ProfileKeyCredential", ProfileKeyCredentialSize, 145},
		{"ProfileKeyCredentialPresentation", ProfileKeyCredentialPresentationSize, 681},
		{"PniCredentialRequestContext", PniCredentialRequestContextSize, 489},
		{"PniCredentialResponse", PniCredentialResponseSize, 521},
		{"PniCredential", PniCredentialSize, 161},
		{"PniCredentialPresentation", PniCredentialPresentationSize, 809},
		{"ReceiptCredentialRequestContext", ReceiptCredentialRequestContextSize, 177},
		{"ReceiptCredentialRequest", ReceiptCredentialRequestSize, 97},
		{"ReceiptCredentialResponse", ReceiptCredentialResponseSize, 409},
		{"ReceiptCredential", ReceiptCredentialSize, 129},
		{"ReceiptCredentialPresentation", ReceiptCredentialPresentationSize, 329},
	} {
		if tc.got != tc.want {
			t.Errorf("%s is %d bytes, want %d", tc.name, tc.got, tc.want)
		}
	}
}

func TestDeserializeRejectsReservedByte(t *testing.T) {
	gsp := DeriveGroupSecretParams(testMasterKey)
	raw := gsp.GetPublicParams().Serialize()
	raw[0] = 1
	if _, err := NewGroupPublicParams(raw); !errors.Is(err, ErrBadVersion) || !errors.Is(err, ErrInvalidInput) {
		t.Fatal("accepted a non-zero reserved byte, err =", err)
	}
}

func BenchmarkAuthPresentation(b *testing.B) {
	ssp := GenerateServerSecretParamsWithRandom(testServerSeed)
	client := NewClientZkAuthOperations(ssp.GetPublicParams())
	gsp := DeriveGroupSecretParams(testMasterKey)
	resp, err := NewServerZkAuthOperations(ssp).IssueAuthCredentialWithRandom(testRandomness(2), testUid, testRedemption)
	if err != nil {
		b.Fatal(err)
	}
	cred, err := client.ReceiveAuthCredential(testUid, testRedemption, resp)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.CreateAuthCredentialPresentationWithRandom(testPresentRandom, gsp, cred); err != nil {
			b.Fatal(err)
		}
	}
}
