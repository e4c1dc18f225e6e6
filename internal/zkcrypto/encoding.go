package zkcrypto

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

func addPoints(b *cryptobyte.Builder, ps ...group.Point) {
	for _, p := range ps {
		b.AddBytes(p.Bytes())
	}
}

func addScalars(b *cryptobyte.Builder, ss ...group.Scalar) {
	for _, s := range ss {
		b.AddBytes(s.Bytes())
	}
}

// AddProof writes a proof with its 8-byte length prefix.
func AddProof(b *cryptobyte.Builder, proof []byte) {
	b.AddUint64(uint64(len(proof)))
	b.AddBytes(proof)
}

// ReadPoints decodes consecutive points into outs.
func ReadPoints(s *cryptobyte.String, outs ...*group.Point) error {
	for _, out := range outs {
		var raw []byte
		if !s.ReadBytes(&raw, group.PointSize) {
			return zkerr.ErrBadLength
		}
		p, err := group.DecodePoint(raw)
		if err != nil {
			return err
		}
		*out = p
	}
	return nil
}

// ReadPublicPoints is ReadPoints rejecting the identity.
func ReadPublicPoints(s *cryptobyte.String, outs ...*group.Point) error {
	for _, out := range outs {
		var raw []byte
		if !s.ReadBytes(&raw, group.PointSize) {
			return zkerr.ErrBadLength
		}
		p, err := group.DecodePublicPoint(raw)
		if err != nil {
			return err
		}
		*out = p
	}
	return nil
}

// ReadScalars decodes consecutive canonical scalars into outs.
func ReadScalars(s *cryptobyte.String, outs ...*group.Scalar) error {
	for _, out := range outs {
		var raw []byte
		if !s.ReadBytes(&raw, group.ScalarSize) {
			return zkerr.ErrBadLength
		}
		x, err := group.DecodeScalar(raw)
		if err != nil {
			return err
		}
		*out = x
	}
	return nil
}

// ReadProof reads a length-prefixed proof that must be exactly size bytes.
func ReadProof(s *cryptobyte.String, size int) ([]byte, error) {
	var n uint64
	if !s.ReadUint64(&n) || n != uint64(size) {
		return nil, zkerr.ErrBadLength
	}
	var proof []byte
	if !s.ReadBytes(&proof, size) {
		return nil, zkerr.ErrBadLength
	}
	return append([]byte(nil), proof...), nil
}

// ProofFieldSize is the encoded size of a proof of size bytes.
func ProofFieldSize(size int) int {
	return 8 + size
}

var errInconsistent = zkerr.ErrInconsistentParams
