// Package zkcrypto contains the algebra of the zkgroup protocol: attribute
// encodings, algebraic-MAC credential key pairs, attribute encryption,
// profile key commitments, blinded issuance, and the proofs tying them
// together.
//
// Credentials are keyed-verification anonymous credentials. For a key pair
// with secret scalars (w, w', x0, x1, y1..yn) and attributes M1..Mn the
// issuer computes, for fresh t and U,
//
//     V = W + (x0 + x1*t)*U + y1*M1 + ... + yn*Mn      where W = w*Gw
//
// and publishes C_W = w*Gw + w'*Gw' and I = GV - x0*Gx0 - x1*Gx1 - sum(yi*Gyi).
package zkcrypto

import (
	"sync"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/sho"
)

// MaxAttributes is the largest credential supported by a key pair.
const MaxAttributes = 6

const (
	labelSystemParams       = "ZKGroup_20200424_Constant_Credentials_SystemParams_Generate"
	labelUidSystemParams    = "ZKGroup_20200424_Constant_UidEncryption_SystemParams_Generate"
	labelPKSystemParams     = "ZKGroup_20200424_Constant_ProfileKeyEncryption_SystemParams_Generate"
	labelCommitSystemParams = "ZKGroup_20200424_Constant_ProfileKeyCommitment_SystemParams_Generate"
)

// SystemParams are the fixed generators of the protocol. Nobody knows a
// discrete logarithm relation between any two of them.
type SystemParams struct {
	Gw, Gwprime group.Point
	Gx0, Gx1    group.Point
	Gy          [MaxAttributes]group.Point
	Gm1, Gm2    group.Point
	Gm3, Gm4    group.Point
	GV, Gz      group.Point

	Ga1, Ga2      group.Point
	Gb1, Gb2      group.Point
	Gj1, Gj2, Gj3 group.Point
}

// System returns the process-wide system parameters, computed on first use.
var System = sync.OnceValue(generateSystemParams)

func generateSystemParams() *SystemParams {
	sp := new(SystemParams)

	s := sho.New([]byte(labelSystemParams), nil)
	sp.Gw = s.GetPoint()
	sp.Gwprime = s.GetPoint()
	sp.Gx0 = s.GetPoint()
	sp.Gx1 = s.GetPoint()
	for i := range sp.Gy {
		sp.Gy[i] = s.GetPoint()
	}
	sp.Gm1 = s.GetPoint()
	sp.Gm2 = s.GetPoint()
	sp.Gm3 = s.GetPoint()
	sp.Gm4 = s.GetPoint()
	sp.GV = s.GetPoint()
	sp.Gz = s.GetPoint()

	s = sho.New([]byte(labelUidSystemParams), nil)
	sp.Ga1 = s.GetPoint()
	sp.Ga2 = s.GetPoint()

	s = sho.New([]byte(labelPKSystemParams), nil)
	sp.Gb1 = s.GetPoint()
	sp.Gb2 = s.GetPoint()

	s = sho.New([]byte(labelCommitSystemParams), nil)
	sp.Gj1 = s.GetPoint()
	sp.Gj2 = s.GetPoint()
	sp.Gj3 = s.GetPoint()
	return sp
}
