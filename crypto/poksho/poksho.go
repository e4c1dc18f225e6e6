// Package poksho implements non-interactive proofs of knowledge of
// discrete-log linear relations over Ristretto255, made non-interactive
// with the Fiat-Shamir transform over a stateful hash object.
//
// A Statement is a list of equations
//
//     P_j = x_{j,1}*Q_{j,1} + ... + x_{j,k}*Q_{j,k}
//
// over named secret scalars x and named public points P, Q. For secret
// scalars x_1..x_n a proof is
//
//     n_i   = synthetic nonces from (randomness, x, message)
//     R_j   = sum of n_i*Q over the terms of equation j
//     c     = H(statement, points, R, message)
//     s_i   = n_i + c*x_i
//     proof = c || s_1 || ... || s_n
//
// and verification recomputes R_j = sum(s_i*Q) - c*P_j and checks c.
package poksho

import (
	"crypto/subtle"
	"fmt"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/sho"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

const protocolLabel = "zkgroup POKSHO Ristretto255 SHO v1"

var (
	ErrVerification = zkerr.ErrProofVerification
	ErrUnsatisfied  = zkerr.ErrStatementUnsatisfied
	ErrMissingArg   = zkerr.ErrMissingArgument
)

// Term is one scalar*point product on the right-hand side of an equation.
type Term struct {
	Scalar string
	Point  string
}

// ScalarArgs maps secret scalar names to values.
type ScalarArgs map[string]group.Scalar

// PointArgs maps public point names to values.
type PointArgs map[string]group.Point

type equation struct {
	lhs   int
	terms []indexedTerm
}

type indexedTerm struct {
	scalar, point int
}

// A Statement describes the relations a proof attests to.
// Statements are built once and may then be shared between goroutines.
type Statement struct {
	equations []equation
	scalars   []string
	points    []string
	scalarIdx map[string]int
	pointIdx  map[string]int
}

// NewStatement returns an empty statement.
func NewStatement() *Statement {
	return &Statement{
		scalarIdx: make(map[string]int),
		pointIdx:  make(map[string]int),
	}
}

// Add appends the equation lhs = sum(terms).
func (st *Statement) Add(lhs string, terms ...Term) *Statement {
	eq := equation{lhs: st.pointIndex(lhs)}
	for _, t := range terms {
		eq.terms = append(eq.terms, indexedTerm{
			scalar: st.scalarIndex(t.Scalar),
			point:  st.pointIndex(t.Point),
		})
	}
	st.equations = append(st.equations, eq)
	return st
}

// ProofSize returns the size in bytes of every proof for st.
func (st *Statement) ProofSize() int {
	return (1 + len(st.scalars)) * group.ScalarSize
}

// Prove returns a proof that scalars satisfy st for the given points,
// bound to message. randomness only needs to be unpredictable for the proof
// to be zero-knowledge; nonces are also derived from the witness.
func (st *Statement) Prove(scalars ScalarArgs, points PointArgs, message, randomness []byte) ([]byte, error) {
	xs, err := st.scalarValues(scalars)
	if err != nil {
		return nil, err
	}
	pts, err := st.pointValues(points)
	if err != nil {
		return nil, err
	}
	for _, eq := range st.equations {
		if !st.evaluate(eq, xs, pts).Equal(pts[eq.lhs]) {
			return nil, ErrUnsatisfied
		}
	}

	transcript := st.transcript(pts)
	nonceSho := transcript.Clone()
	nonceSho.AbsorbAndRatchet(randomness)
	for _, x := range xs {
		nonceSho.Absorb(x.Bytes())
	}
	nonceSho.Ratchet()
	nonceSho.AbsorbAndRatchet(message)
	nonces := make([]group.Scalar, len(xs))
	for i := range nonces {
		nonces[i] = nonceSho.GetScalar()
	}

	c := st.challenge(transcript, st.commitments(nonces, pts), message)
	proof := make([]byte, 0, st.ProofSize())
	proof = append(proof, c.Bytes()...)
	for i, x := range xs {
		proof = append(proof, nonces[i].Add(c.Mul(x)).Bytes()...)
	}

	if err := st.Verify(proof, points, message); err != nil {
		return nil, ErrUnsatisfied
	}
	return proof, nil
}

// Verify checks proof against st, points and message.
func (st *Statement) Verify(proof []byte, points PointArgs, message []byte) error {
	if len(proof) != st.ProofSize() {
		return ErrVerification
	}
	pts, err := st.pointValues(points)
	if err != nil {
		return err
	}
	c, err := group.DecodeScalar(proof[:group.ScalarSize])
	if err != nil {
		return ErrVerification
	}
	responses := make([]group.Scalar, len(st.scalars))
	for i := range responses {
		off := (i + 1) * group.ScalarSize
		responses[i], err = group.DecodeScalar(proof[off : off+group.ScalarSize])
		if err != nil {
			return ErrVerification
		}
	}

	commitments := st.commitments(responses, pts)
	for j, eq := range st.equations {
		commitments[j] = commitments[j].Sub(pts[eq.lhs].Mul(c))
	}
	expected := st.challenge(st.transcript(pts), commitments, message)
	if subtle.ConstantTimeCompare(expected.Bytes(), c.Bytes()) != 1 {
		return ErrVerification
	}
	return nil
}

func (st *Statement) scalarIndex(name string) int {
	if i, ok := st.scalarIdx[name]; ok {
		return i
	}
	st.scalarIdx[name] = len(st.scalars)
	st.scalars = append(st.scalars, name)
	return len(st.scalars) - 1
}

func (st *Statement) pointIndex(name string) int {
	if i, ok := st.pointIdx[name]; ok {
		return i
	}
	st.pointIdx[name] = len(st.points)
	st.points = append(st.points, name)
	return len(st.points) - 1
}

func (st *Statement) scalarValues(args ScalarArgs) ([]group.Scalar, error) {
	xs := make([]group.Scalar, len(st.scalars))
	for i, name := range st.scalars {
		x, ok := args[name]
		if !ok {
			return nil, zkerr.Wrap(ErrMissingArg, fmt.Errorf("scalar %q", name))
		}
		xs[i] = x
	}
	return xs, nil
}

func (st *Statement) pointValues(args PointArgs) ([]group.Point, error) {
	pts := make([]group.Point, len(st.points))
	for i, name := range st.points {
		p, ok := args[name]
		if !ok {
			return nil, zkerr.Wrap(ErrMissingArg, fmt.Errorf("point %q", name))
		}
		pts[i] = p
	}
	return pts, nil
}

func (st *Statement) evaluate(eq equation, xs []group.Scalar, pts []group.Point) group.Point {
	sum := group.Identity()
	for _, t := range eq.terms {
		sum = sum.Add(pts[t.point].Mul(xs[t.scalar]))
	}
	return sum
}

func (st *Statement) commitments(xs []group.Scalar, pts []group.Point) []group.Point {
	out := make([]group.Point, len(st.equations))
	for j, eq := range st.equations {
		out[j] = st.evaluate(eq, xs, pts)
	}
	return out
}

// description encodes the shape of the statement without its names.
func (st *Statement) description() []byte {
	d := []byte{byte(len(st.scalars)), byte(len(st.points)), byte(len(st.equations))}
	for _, eq := range st.equations {
		d = append(d, byte(eq.lhs), byte(len(eq.terms)))
		for _, t := range eq.terms {
			d = append(d, byte(t.scalar), byte(t.point))
		}
	}
	return d
}

func (st *Statement) transcript(pts []group.Point) *sho.Sho {
	s := sho.New([]byte(protocolLabel), st.description())
	for _, p := range pts {
		s.Absorb(p.Bytes())
	}
	s.Ratchet()
	return s
}

func (st *Statement) challenge(s *sho.Sho, commitments []group.Point, message []byte) group.Scalar {
	for _, r := range commitments {
		s.Absorb(r.Bytes())
	}
	s.AbsorbAndRatchet(message)
	return s.GetScalar()
}
