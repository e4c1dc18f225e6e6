package poksho

import (
	"bytes"
	"errors"
	"testing"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

var dst = []byte("poksho tests")

func testStatement() (*Statement, ScalarArgs, PointArgs) {
	x := group.HashToScalar([]byte("x"), dst)
	y := group.HashToScalar([]byte("y"), dst)
	G := group.Base()
	H := group.HashToPoint([]byte("H"), dst)

	st := NewStatement().
		Add("A", Term{"x", "G"}).
		Add("B", Term{"x", "H"}, Term{"y", "G"})
	scalars := ScalarArgs{"x": x, "y": y}
	points := PointArgs{
		"G": G,
		"H": H,
		"A": G.Mul(x),
		"B": H.Mul(x).Add(G.Mul(y)),
	}
	return st, scalars, points
}

func TestProveVerify(t *testing.T) {
	st, scalars, points := testStatement()
	msg := []byte("message")
	proof, err := st.Prove(scalars, points, msg, bytes.Repeat([]byte{7}, 32))
	if err != nil {
		t.Fatal(err)
	}
	if len(proof) != st.ProofSize() {
		t.Fatalf("proof size %d, want %d", len(proof), st.ProofSize())
	}
	if err := st.Verify(proof, points, msg); err != nil {
		t.Fatal(err)
	}
	if err := st.Verify(proof, points, []byte("other")); !errors.Is(err, zkerr.ErrorVerification) {
		t.Fatal("proof verified for a different message")
	}
}

func TestProveDeterministic(t *testing.T) {
	st, scalars, points := testStatement()
	r := bytes.Repeat([]byte{1}, 32)
	p1, err := st.Prove(scalars, points, nil, r)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := st.Prove(scalars, points, nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p1, p2) {
		t.Fatal("same randomness gave different proofs")
	}
	p3, err := st.Prove(scalars, points, nil, bytes.Repeat([]byte{2}, 32))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(p1, p3) {
		t.Fatal("different randomness gave equal proofs")
	}
}

func TestFlipBitForgery(t *testing.T) {
	st, scalars, points := testStatement()
	msg := []byte("message")
	proof, err := st.Prove(scalars, points, msg, make([]byte, 32))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(proof)*8; i++ {
		forged := make([]byte, len(proof))
		copy(forged, proof)
		forged[i/8] ^= 1 << uint(i%8)
		if st.Verify(forged, points, msg) == nil {
			t.Fatalf("forged proof verified (bit %d)", i)
		}
	}
}

func TestWrongWitness(t *testing.T) {
	st, scalars, points := testStatement()
	scalars["y"] = group.HashToScalar([]byte("not y"), dst)
	if _, err := st.Prove(scalars, points, nil, nil); !errors.Is(err, zkerr.ErrorProtocolInvariant) {
		t.Fatal("expected protocol invariant error, got", err)
	}
	delete(scalars, "y")
	if _, err := st.Prove(scalars, points, nil, nil); !errors.Is(err, ErrMissingArg) {
		t.Fatal("expected missing argument, got", err)
	}
}

func TestWrongPoints(t *testing.T) {
	st, scalars, points := testStatement()
	proof, err := st.Prove(scalars, points, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	points["A"] = points["A"].Add(group.Base())
	if st.Verify(proof, points, nil) == nil {
		t.Fatal("proof verified for altered public point")
	}
	if st.Verify(proof[:len(proof)-1], points, nil) == nil {
		t.Fatal("truncated proof verified")
	}
}
