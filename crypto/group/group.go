// Package group implements the prime-order Ristretto255 group used by every
// zkgroup construction.
//
// Scalars and points are immutable values; every operation returns a new
// value. Scalar multiplication and equality run in constant time.
//
//     l   = 2^252 + 27742317777372353535851937790883648493 (group order)
//     G   = the Ristretto255 base point
//     H(m, d) = hash_to_ristretto255(m, d) (RFC 9380, XMD:SHA-512)
//     L(b)    = Lizard(b), an injective map from 16 bytes to points
//     E(b)    = Elligator2(b), mapping 253 bits of a 32-byte string to a point
//
// Decoding rejects non-canonical encodings of both scalars and points.
package group

import (
	"crypto/subtle"
	"encoding/binary"

	r255 "github.com/bwesterb/go-ristretto"
	"github.com/bwesterb/go-ristretto/edwards25519"
	"github.com/cloudflare/circl/group"

	"github.com/whisperfish/zkgroup/internal/zkerr"
)

const (
	// ScalarSize is the size of an encoded scalar in bytes.
	ScalarSize = 32
	// PointSize is the size of an encoded point in bytes.
	PointSize = 32
	// LizardSize is the number of bytes a point can carry via Lizard.
	LizardSize = 16
)

var (
	ErrPointDecode   = zkerr.ErrPointDecode
	ErrScalarDecode  = zkerr.ErrScalarDecode
	ErrIdentityPoint = zkerr.ErrIdentityPoint
)

// Scalar is an integer modulo the group order.
type Scalar struct {
	s r255.Scalar
}

// Point is an element of the Ristretto255 group.
type Point struct {
	p r255.Point
}

// Zero returns the additive identity scalar.
func Zero() Scalar {
	var r Scalar
	r.s.SetZero()
	return r
}

// ScalarFromUint64 returns x as a scalar.
func ScalarFromUint64(x uint64) Scalar {
	var buf [ScalarSize]byte
	binary.LittleEndian.PutUint64(buf[:], x)
	s, err := DecodeScalar(buf[:])
	if err != nil {
		// values below 2^64 are always canonical
		panic(err)
	}
	return s
}

// ScalarFromLowBytes interprets the first 16 bytes of b as a little-endian
// integer, which is always a canonical scalar.
func ScalarFromLowBytes(b [16]byte) Scalar {
	var buf [ScalarSize]byte
	copy(buf[:], b[:])
	s, err := DecodeScalar(buf[:])
	if err != nil {
		panic(err)
	}
	return s
}

// DecodeScalar parses a canonical 32-byte little-endian scalar.
func DecodeScalar(b []byte) (Scalar, error) {
	var r Scalar
	if len(b) != ScalarSize {
		return r, ErrScalarDecode
	}
	if err := r.s.UnmarshalBinary(b); err != nil {
		return r, ErrScalarDecode
	}
	enc, err := r.s.MarshalBinary()
	if err != nil || subtle.ConstantTimeCompare(enc, b) != 1 {
		return Scalar{}, ErrScalarDecode
	}
	return r, nil
}

// Bytes returns the canonical encoding of a.
func (a Scalar) Bytes() []byte {
	b, err := a.s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return b
}

// Add returns a+b.
func (a Scalar) Add(b Scalar) Scalar {
	var r Scalar
	r.s.Add(&a.s, &b.s)
	return r
}

// Sub returns a-b.
func (a Scalar) Sub(b Scalar) Scalar {
	var r Scalar
	r.s.Sub(&a.s, &b.s)
	return r
}

// Mul returns a*b.
func (a Scalar) Mul(b Scalar) Scalar {
	var r Scalar
	r.s.Mul(&a.s, &b.s)
	return r
}

// Neg returns -a.
func (a Scalar) Neg() Scalar {
	return Zero().Sub(a)
}

// Equal reports whether a == b in constant time.
func (a Scalar) Equal(b Scalar) bool {
	return subtle.ConstantTimeCompare(a.Bytes(), b.Bytes()) == 1
}

// Identity returns the neutral element.
func Identity() Point {
	var r Point
	r.p.SetZero()
	return r
}

// Base returns the standard generator G.
func Base() Point {
	var one [ScalarSize]byte
	one[0] = 1
	s, _ := DecodeScalar(one[:])
	return MulBase(s)
}

// MulBase returns s*G.
func MulBase(s Scalar) Point {
	var r Point
	r.p.ScalarMultBase(&s.s)
	return r
}

// DecodePoint parses a canonical point encoding.
func DecodePoint(b []byte) (Point, error) {
	var r Point
	if len(b) != PointSize {
		return r, ErrPointDecode
	}
	if err := r.p.UnmarshalBinary(b); err != nil {
		return Point{}, ErrPointDecode
	}
	return r, nil
}

// DecodePublicPoint parses a point that will be used as a public key or
// commitment base, rejecting the identity.
func DecodePublicPoint(b []byte) (Point, error) {
	p, err := DecodePoint(b)
	if err != nil {
		return p, err
	}
	if p.IsIdentity() {
		return Point{}, ErrIdentityPoint
	}
	return p, nil
}

// Bytes returns the canonical encoding of a.
func (a Point) Bytes() []byte {
	b, err := a.p.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return b
}

// Add returns a+b.
func (a Point) Add(b Point) Point {
	var r Point
	r.p.Add(&a.p, &b.p)
	return r
}

// Sub returns a-b.
func (a Point) Sub(b Point) Point {
	var r Point
	r.p.Sub(&a.p, &b.p)
	return r
}

// Neg returns -a.
func (a Point) Neg() Point {
	return Identity().Sub(a)
}

// Mul returns s*a.
func (a Point) Mul(s Scalar) Point {
	var r Point
	r.p.ScalarMult(&a.p, &s.s)
	return r
}

// Equal reports whether a == b in constant time.
func (a Point) Equal(b Point) bool {
	return subtle.ConstantTimeCompare(a.Bytes(), b.Bytes()) == 1
}

// IsIdentity reports whether a is the neutral element.
func (a Point) IsIdentity() bool {
	var zero [PointSize]byte
	return subtle.ConstantTimeCompare(a.Bytes(), zero[:]) == 1
}

// HashToPoint maps msg to a point with domain separation tag dst.
func HashToPoint(msg, dst []byte) Point {
	e := group.Ristretto255.HashToElement(msg, dst)
	enc, err := e.MarshalBinary()
	if err != nil {
		panic(err)
	}
	p, err := DecodePoint(enc)
	if err != nil {
		panic(err)
	}
	return p
}

// HashToScalar maps msg to a uniformly distributed scalar with domain
// separation tag dst.
func HashToScalar(msg, dst []byte) Scalar {
	s := group.Ristretto255.HashToScalar(msg, dst)
	enc, err := s.MarshalBinary()
	if err != nil {
		panic(err)
	}
	r, err := DecodeScalar(enc)
	if err != nil {
		panic(err)
	}
	return r
}

// LizardEncode injectively maps 16 bytes to a point.
func LizardEncode(data [LizardSize]byte) Point {
	var r Point
	r.p.SetLizard(&data)
	return r
}

// LizardDecode recovers the 16 bytes carried by a point created with
// LizardEncode. It fails if a carries no unique payload.
func LizardDecode(a Point) ([LizardSize]byte, error) {
	var out [LizardSize]byte
	if err := a.p.LizardInto(&out); err != nil {
		return [LizardSize]byte{}, ErrPointDecode
	}
	return out, nil
}

// Encode253 maps the 32 bytes of data to a point with Elligator2, after
// clearing the lowest bit of data[0] and the two highest bits of data[31].
func Encode253(data [32]byte) Point {
	data[0] &= 254
	data[31] &= 63
	var r Point
	r.p.SetElligator(&data)
	return r
}

// Decode253 returns every 32-byte string with the three cleared bits unset
// that Encode253 maps to a. There are at most eight.
func Decode253(a Point) [][32]byte {
	var fes [8]edwards25519.FieldElement
	e := edwards25519.ExtendedPoint(a.p)
	mask := e.RistrettoElligator2Inverse(&fes)
	var out [][32]byte
	for j := 0; j < 8; j++ {
		if mask&(1<<uint(j)) == 0 {
			continue
		}
		var b [32]byte
		fes[j].BytesInto(&b)
		if b[0]&1 != 0 || b[31]&192 != 0 {
			continue
		}
		out = append(out, b)
	}
	return out
}
