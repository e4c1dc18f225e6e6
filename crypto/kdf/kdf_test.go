package kdf

import (
	"bytes"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	secret := bytes.Repeat([]byte{0x0b}, 32)
	k1, err := DeriveKey(secret, nil, []byte("a"), 32)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := DeriveKey(secret, nil, []byte("a"), 32)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatal("DeriveKey is not deterministic")
	}
	k3, err := DeriveKey(secret, nil, []byte("b"), 32)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(k1, k3) {
		t.Fatal("info does not separate keys")
	}
	if _, err := DeriveKey(secret, nil, nil, 255*32+1); err == nil {
		t.Fatal("expected error for oversized output")
	}
}
