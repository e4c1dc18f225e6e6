package sign

import (
	"bytes"
	"errors"
	"testing"

	"github.com/whisperfish/zkgroup/crypto/sho"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

func staticKey() PrivateKey {
	return GenerateKey(sho.New([]byte("sign tests"), []byte("deterministic tests need 256 bit")))
}

func TestVerifySignature(t *testing.T) {
	key := staticKey()
	message := []byte("test message")
	sig, err := key.Sign(message, bytes.Repeat([]byte{0xc8}, 32))
	if err != nil {
		t.Fatal(err)
	}
	if len(sig) != SignatureSize {
		t.Fatalf("signature size %d", len(sig))
	}

	pk := key.Public()
	if err := pk.Verify(message, sig); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}

	wrongMessage := []byte("wrong message")
	if err := pk.Verify(wrongMessage, sig); !errors.Is(err, zkerr.ErrorVerification) {
		t.Errorf("signature of different message accepted")
	}
}

func TestFlipBitMessage(t *testing.T) {
	key := staticKey()
	message := []byte{0xde, 0xad, 0xbe, 0xef}
	sig, err := key.Sign(message, make([]byte, 32))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(message)*8; i++ {
		altered := append([]byte(nil), message...)
		altered[i/8] ^= 1 << uint(i%8)
		if !errors.Is(key.Public().Verify(altered, sig), ErrVerify) {
			t.Fatalf("signature verified for message with bit %d flipped", i)
		}
	}
}

func TestKeyEncoding(t *testing.T) {
	key := staticKey()
	parsed, err := NewPrivateKey(key.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Public().A.Equal(key.Public().A) {
		t.Fatal("public key not re-derived")
	}
	pk, err := NewPublicKey(key.Public().Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pk.Bytes(), key.Public().Bytes()) {
		t.Fatal("public key did not round trip")
	}
	if _, err := NewPublicKey(make([]byte, PublicKeySize)); err == nil {
		t.Fatal("identity accepted as public key")
	}
}
