package zkgroup

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/internal/zkcrypto"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

const (
	PniCredentialRequestContextSize = 1 + 2*zkcrypto.UidSize + ProfileKeySize + blindedRequestSize
	PniCredentialResponseSize       = 1 + zkcrypto.BlindedCredentialSize + 8 + zkcrypto.PniIssuanceProofSize
	PniCredentialSize               = 1 + zkcrypto.CredentialSize + 2*zkcrypto.UidSize + ProfileKeySize
	PniCredentialPresentationSize   = 1 + zkcrypto.PniPresentationProofSize + 2*UuidCiphertextSize + ProfileKeyCiphertextSize

	labelRequestPni = "Signal_ZKGroup_20220111_Random_ServerPublicParams_CreatePniCredentialRequestContext"
	labelIssuePni   = "Signal_ZKGroup_20220111_Random_ServerSecretParams_IssuePniCredential"
	labelPresentPni = "Signal_ZKGroup_20220111_Random_ServerPublicParams_CreatePniCredentialPresentation"
)

// PniCredentialRequestContext is the client's private state while a PNI
// credential request is outstanding. The request itself is a
// ProfileKeyCredentialRequest bound to the ACI.
type PniCredentialRequestContext struct {
	aci, pni uuid.UUID
	pk       ProfileKey
	q        blindedRequest
}

// NewPniCredentialRequestContext parses a request context.
func NewPniCredentialRequestContext(contents []byte) (*PniCredentialRequestContext, error) {
	return deserialize(contents, PniCredentialRequestContextSize, func(s *cryptobyte.String) (*PniCredentialRequestContext, error) {
		c := new(PniCredentialRequestContext)
		if !s.CopyBytes(c.aci[:]) || !s.CopyBytes(c.pni[:]) || !s.CopyBytes(c.pk[:]) {
			return nil, zkerr.ErrBadLength
		}
		var err error
		if c.q, err = readBlindedRequest(s, c.pk, c.aci); err != nil {
			return nil, err
		}
		return c, nil
	})
}

// Serialize encodes c.
func (c *PniCredentialRequestContext) Serialize() []byte {
	return serialize(PniCredentialRequestContextSize, func(b *cryptobyte.Builder) {
		b.AddBytes(c.aci[:])
		b.AddBytes(c.pni[:])
		b.AddBytes(c.pk[:])
		c.q.marshal(b)
	})
}

// GetRequest returns the request to send to the server.
func (c *PniCredentialRequestContext) GetRequest() *ProfileKeyCredentialRequest {
	return c.q.request()
}

// PniCredentialResponse is the server's reply to a PNI credential request.
type PniCredentialResponse struct {
	blindedResponse
}

// NewPniCredentialResponse parses a response.
func NewPniCredentialResponse(contents []byte) (*PniCredentialResponse, error) {
	return deserialize(contents, PniCredentialResponseSize, func(s *cryptobyte.String) (*PniCredentialResponse, error) {
		r, err := readBlindedResponse(s, zkcrypto.PniIssuanceProofSize)
		if err != nil {
			return nil, err
		}
		return &PniCredentialResponse{r}, nil
	})
}

// Serialize encodes r.
func (r *PniCredentialResponse) Serialize() []byte {
	return serialize(PniCredentialResponseSize, r.marshal)
}

// PniCredential binds a user's ACI, PNI and profile key.
type PniCredential struct {
	cred     zkcrypto.Credential
	aci, pni uuid.UUID
	pk       ProfileKey
}

// NewPniCredential parses a credential.
func NewPniCredential(contents []byte) (*PniCredential, error) {
	return deserialize(contents, PniCredentialSize, func(s *cryptobyte.String) (*PniCredential, error) {
		c := new(PniCredential)
		var err error
		if c.cred, err = zkcrypto.ReadCredential(s); err != nil {
			return nil, err
		}
		if !s.CopyBytes(c.aci[:]) || !s.CopyBytes(c.pni[:]) || !s.CopyBytes(c.pk[:]) {
			return nil, zkerr.ErrBadLength
		}
		return c, nil
	})
}

// Serialize encodes c.
func (c *PniCredential) Serialize() []byte {
	return serialize(PniCredentialSize, func(b *cryptobyte.Builder) {
		c.cred.Marshal(b)
		b.AddBytes(c.aci[:])
		b.AddBytes(c.pni[:])
		b.AddBytes(c.pk[:])
	})
}

// PniCredentialPresentation proves that an encrypted ACI, PNI and profile
// key belong together.
type PniCredentialPresentation struct {
	proof        zkcrypto.PresentationProof
	aciCt, pniCt UuidCiphertext
	pkCt         ProfileKeyCiphertext
}

// NewPniCredentialPresentation parses a presentation.
func NewPniCredentialPresentation(contents []byte) (*PniCredentialPresentation, error) {
	return deserialize(contents, PniCredentialPresentationSize, func(s *cryptobyte.String) (*PniCredentialPresentation, error) {
		p := new(PniCredentialPresentation)
		var err error
		if p.proof, err = zkcrypto.ReadPniPresentationProof(s); err != nil {
			return nil, err
		}
		if p.aciCt.ct, err = zkcrypto.ReadUidCiphertext(s); err != nil {
			return nil, err
		}
		if p.pniCt.ct, err = zkcrypto.ReadUidCiphertext(s); err != nil {
			return nil, err
		}
		if p.pkCt.ct, err = zkcrypto.ReadProfileKeyCiphertext(s); err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Serialize encodes p.
func (p *PniCredentialPresentation) Serialize() []byte {
	return serialize(PniCredentialPresentationSize, func(b *cryptobyte.Builder) {
		p.proof.Marshal(b)
		p.aciCt.ct.Marshal(b)
		p.pniCt.ct.Marshal(b)
		p.pkCt.ct.Marshal(b)
	})
}

// GetAciCiphertext returns the presenter's encrypted ACI.
func (p *PniCredentialPresentation) GetAciCiphertext() *UuidCiphertext {
	ct := p.aciCt
	return &ct
}

// GetPniCiphertext returns the presenter's encrypted PNI.
func (p *PniCredentialPresentation) GetPniCiphertext() *UuidCiphertext {
	ct := p.pniCt
	return &ct
}

// GetProfileKeyCiphertext returns the presenter's encrypted profile key.
func (p *PniCredentialPresentation) GetProfileKeyCiphertext() *ProfileKeyCiphertext {
	ct := p.pkCt
	return &ct
}

// IssuePniCredential answers req from the user with identifiers aci and
// pni, whose profile key commitment the server stored earlier.
func (o *ServerZkProfileOperations) IssuePniCredential(req *ProfileKeyCredentialRequest, aci, pni uuid.UUID, commitment *ProfileKeyCommitment) (*PniCredentialResponse, error) {
	return withRandom(func(r Randomness) (*PniCredentialResponse, error) {
		return o.IssuePniCredentialWithRandom(r, req, aci, pni, commitment)
	})
}

// IssuePniCredentialWithRandom answers req from the user with identifiers
// aci and pni.
func (o *ServerZkProfileOperations) IssuePniCredentialWithRandom(r Randomness, req *ProfileKeyCredentialRequest, aci, pni uuid.UUID, commitment *ProfileKeyCommitment) (*PniCredentialResponse, error) {
	if err := req.verify(commitment, zkcrypto.PniRequestMessage); err != nil {
		return nil, err
	}
	s := r.sho(labelIssuePni)
	a, p := zkcrypto.NewUidStruct(aci), zkcrypto.NewUidStruct(pni)
	key := o.params.pniKey
	bc := key.CreateBlindedPniCredential(a, p, req.blindingKey, req.ct, s)
	proof, err := zkcrypto.NewPniCredentialIssuanceProof(key, a, p, req.blindingKey, req.ct, bc, s.Squeeze(RandomnessSize))
	if err != nil {
		return nil, err
	}
	return &PniCredentialResponse{blindedResponse{bc: bc.BlindedCredential, proof: proof}}, nil
}

// VerifyPniCredentialPresentation checks a presentation made for the group
// of gp.
func (o *ServerZkProfileOperations) VerifyPniCredentialPresentation(gp *GroupPublicParams, p *PniCredentialPresentation) error {
	return zkcrypto.VerifyPniCredentialPresentationProof(o.params.pniKey, p.proof, gp.A, gp.B, p.aciCt.ct, p.pniCt.ct, p.pkCt.ct)
}

// CreatePniCredentialRequestContext starts a request for a credential
// binding aci, pni and pk.
func (o *ClientZkProfileOperations) CreatePniCredentialRequestContext(aci, pni uuid.UUID, pk ProfileKey) (*PniCredentialRequestContext, error) {
	return withRandom(func(r Randomness) (*PniCredentialRequestContext, error) {
		return o.CreatePniCredentialRequestContextWithRandom(r, aci, pni, pk)
	})
}

// CreatePniCredentialRequestContextWithRandom starts a request for a
// credential binding aci, pni and pk.
func (o *ClientZkProfileOperations) CreatePniCredentialRequestContextWithRandom(r Randomness, aci, pni uuid.UUID, pk ProfileKey) (*PniCredentialRequestContext, error) {
	q, err := newBlindedRequest(r.sho(labelRequestPni), pk, aci, zkcrypto.PniRequestMessage)
	if err != nil {
		return nil, err
	}
	return &PniCredentialRequestContext{aci: aci, pni: pni, pk: pk, q: q}, nil
}

// ReceivePniCredential validates and unblinds the server's response to the
// request of ctx.
func (o *ClientZkProfileOperations) ReceivePniCredential(ctx *PniCredentialRequestContext, resp *PniCredentialResponse) (*PniCredential, error) {
	a, p := zkcrypto.NewUidStruct(ctx.aci), zkcrypto.NewUidStruct(ctx.pni)
	Y := ctx.q.blinding.Y
	err := zkcrypto.VerifyPniCredentialIssuanceProof(resp.proof, o.params.pniKey, a, p, Y, ctx.q.ct.ProfileKeyRequestCiphertext, resp.bc)
	if err != nil {
		return nil, err
	}
	return &PniCredential{cred: ctx.q.blinding.Unblind(resp.bc), aci: ctx.aci, pni: ctx.pni, pk: ctx.pk}, nil
}

// CreatePniCredentialPresentation presents cred for the group of gsp.
func (o *ClientZkProfileOperations) CreatePniCredentialPresentation(gsp *GroupSecretParams, cred *PniCredential) (*PniCredentialPresentation, error) {
	return withRandom(func(r Randomness) (*PniCredentialPresentation, error) {
		return o.CreatePniCredentialPresentationWithRandom(r, gsp, cred)
	})
}

// CreatePniCredentialPresentationWithRandom presents cred for the group of
// gsp.
func (o *ClientZkProfileOperations) CreatePniCredentialPresentationWithRandom(r Randomness, gsp *GroupSecretParams, cred *PniCredential) (*PniCredentialPresentation, error) {
	a, p := zkcrypto.NewUidStruct(cred.aci), zkcrypto.NewUidStruct(cred.pni)
	attrs := cred.pk.attributes(cred.aci)
	aciCt, pniCt := gsp.uidKey.Encrypt(a), gsp.uidKey.Encrypt(p)
	pkCt := gsp.profileKey.Encrypt(attrs)
	proof, err := zkcrypto.NewPniCredentialPresentationProof(o.params.pniKey, gsp.uidKey, gsp.profileKey,
		cred.cred, a, p, attrs, aciCt, pniCt, pkCt, r.sho(labelPresentPni))
	if err != nil {
		return nil, err
	}
	return &PniCredentialPresentation{
		proof: proof,
		aciCt: UuidCiphertext{ct: aciCt},
		pniCt: UuidCiphertext{ct: pniCt},
		pkCt:  ProfileKeyCiphertext{ct: pkCt},
	}, nil
}
