package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

type testErrorRandReader struct{}

func (er testErrorRandReader) Read([]byte) (int, error) {
	return 0, errors.New("not enough entropy")
}

func TestDigest(t *testing.T) {
	msg := []byte("test message")
	d := Digest(msg)
	if len(d) != HashSizeByte {
		t.Fatal("Computation of Hash failed.")
	}
	if bytes.Equal(d, make([]byte, HashSizeByte)) {
		t.Fatal("Hash is all zeros.")
	}
	if !bytes.Equal(d, Digest([]byte("test "), []byte("message"))) {
		t.Fatal("Digest depends on how the input is split.")
	}
}

func TestMakeRand(t *testing.T) {
	r, err := MakeRand()
	if err != nil {
		t.Fatal(err)
	}
	// check if hashed the random output:
	if len(r) != RandomnessSize {
		t.Fatal("Looks like Digest wasn't called correctly.")
	}
	orig := rand.Reader
	rand.Reader = testErrorRandReader{}
	defer func() { rand.Reader = orig }()
	if _, err = MakeRand(); err == nil {
		t.Fatal("No error returned")
	}
}
