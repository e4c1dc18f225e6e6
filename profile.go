package zkgroup

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/sho"
	"github.com/whisperfish/zkgroup/internal/zkcrypto"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

const (
	blindedRequestSize = zkcrypto.BlindingKeyPairSize +
		zkcrypto.ProfileKeyRequestCiphertextWithSecretNonceSize + 8 + zkcrypto.RequestProofSize

	ProfileKeyCredentialRequestContextSize = 1 + zkcrypto.UidSize + ProfileKeySize + blindedRequestSize
	ProfileKeyCredentialRequestSize        = 1 + group.PointSize + zkcrypto.ProfileKeyRequestCiphertextSize + 8 + zkcrypto.RequestProofSize
	ProfileKeyCredentialResponseSize       = 1 + zkcrypto.BlindedCredentialSize + 8 + zkcrypto.ProfileKeyIssuanceProofSize
	ProfileKeyCredentialSize               = 1 + zkcrypto.CredentialSize + zkcrypto.UidSize + ProfileKeySize
	ProfileKeyCredentialPresentationSize   = 1 + zkcrypto.ProfileKeyPresentationProofSize + UuidCiphertextSize + ProfileKeyCiphertextSize

	labelRequestProfileKey = "Signal_ZKGroup_20200424_Random_ServerPublicParams_CreateProfileKeyCredentialRequestContext"
	labelIssueProfileKey   = "Signal_ZKGroup_20200424_Random_ServerSecretParams_IssueProfileKeyCredential"
	labelPresentProfileKey = "Signal_ZKGroup_20200424_Random_ServerPublicParams_CreateProfileKeyCredentialPresentation"
)

// blindedRequest is the client state behind a request for a credential
// over a blinded profile key.
type blindedRequest struct {
	blinding zkcrypto.BlindingKeyPair
	ct       zkcrypto.ProfileKeyRequestCiphertextWithSecretNonce
	proof    []byte
}

func newBlindedRequest(s *sho.Sho, pk ProfileKey, uid uuid.UUID, message string) (blindedRequest, error) {
	attrs := pk.attributes(uid)
	q := blindedRequest{blinding: zkcrypto.GenerateBlindingKeyPair(s)}
	q.ct = q.blinding.EncryptProfileKey(attrs, s)
	commitment := zkcrypto.NewProfileKeyCommitment(attrs, uid)
	var err error
	q.proof, err = zkcrypto.NewProfileKeyCredentialRequestProof(q.blinding, q.ct, commitment, message, s.Squeeze(RandomnessSize))
	return q, err
}

func (q blindedRequest) marshal(b *cryptobyte.Builder) {
	q.blinding.Marshal(b)
	q.ct.Marshal(b)
	zkcrypto.AddProof(b, q.proof)
}

func readBlindedRequest(s *cryptobyte.String, pk ProfileKey, uid uuid.UUID) (blindedRequest, error) {
	var q blindedRequest
	var err error
	if q.blinding, err = zkcrypto.ReadBlindingKeyPair(s); err != nil {
		return q, err
	}
	if q.ct, err = zkcrypto.ReadProfileKeyRequestCiphertextWithSecretNonce(s, q.blinding, pk.attributes(uid)); err != nil {
		return q, err
	}
	q.proof, err = zkcrypto.ReadProof(s, zkcrypto.RequestProofSize)
	return q, err
}

func (q blindedRequest) request() *ProfileKeyCredentialRequest {
	return &ProfileKeyCredentialRequest{
		blindingKey: q.blinding.Y,
		ct:          q.ct.ProfileKeyRequestCiphertext,
		proof:       q.proof,
	}
}

// ProfileKeyCredentialRequestContext is the client's private state while a
// profile key credential request is outstanding.
type ProfileKeyCredentialRequestContext struct {
	uid uuid.UUID
	pk  ProfileKey
	q   blindedRequest
}

// NewProfileKeyCredentialRequestContext parses a request context,
// checking its ciphertext against the embedded profile key.
func NewProfileKeyCredentialRequestContext(contents []byte) (*ProfileKeyCredentialRequestContext, error) {
	return deserialize(contents, ProfileKeyCredentialRequestContextSize, func(s *cryptobyte.String) (*ProfileKeyCredentialRequestContext, error) {
		c := new(ProfileKeyCredentialRequestContext)
		if !s.CopyBytes(c.uid[:]) || !s.CopyBytes(c.pk[:]) {
			return nil, zkerr.ErrBadLength
		}
		var err error
		if c.q, err = readBlindedRequest(s, c.pk, c.uid); err != nil {
			return nil, err
		}
		return c, nil
	})
}

// Serialize encodes c.
func (c *ProfileKeyCredentialRequestContext) Serialize() []byte {
	return serialize(ProfileKeyCredentialRequestContextSize, func(b *cryptobyte.Builder) {
		b.AddBytes(c.uid[:])
		b.AddBytes(c.pk[:])
		c.q.marshal(b)
	})
}

// GetRequest returns the request to send to the server.
func (c *ProfileKeyCredentialRequestContext) GetRequest() *ProfileKeyCredentialRequest {
	return c.q.request()
}

// ProfileKeyCredentialRequest asks the server for a credential over a
// blinded profile key. It is also used to request PNI credentials.
type ProfileKeyCredentialRequest struct {
	blindingKey group.Point
	ct          zkcrypto.ProfileKeyRequestCiphertext
	proof       []byte
}

// NewProfileKeyCredentialRequest parses a request.
func NewProfileKeyCredentialRequest(contents []byte) (*ProfileKeyCredentialRequest, error) {
	return deserialize(contents, ProfileKeyCredentialRequestSize, func(s *cryptobyte.String) (*ProfileKeyCredentialRequest, error) {
		q := new(ProfileKeyCredentialRequest)
		if err := zkcrypto.ReadPublicPoints(s, &q.blindingKey); err != nil {
			return nil, err
		}
		var err error
		if q.ct, err = zkcrypto.ReadProfileKeyRequestCiphertext(s); err != nil {
			return nil, err
		}
		if q.proof, err = zkcrypto.ReadProof(s, zkcrypto.RequestProofSize); err != nil {
			return nil, err
		}
		return q, nil
	})
}

// Serialize encodes q.
func (q *ProfileKeyCredentialRequest) Serialize() []byte {
	return serialize(ProfileKeyCredentialRequestSize, func(b *cryptobyte.Builder) {
		b.AddBytes(q.blindingKey.Bytes())
		q.ct.Marshal(b)
		zkcrypto.AddProof(b, q.proof)
	})
}

// verify checks the request proof against the commitment the server holds
// for the requesting user.
func (q *ProfileKeyCredentialRequest) verify(c *ProfileKeyCommitment, message string) error {
	return zkcrypto.VerifyProfileKeyCredentialRequestProof(q.proof, q.blindingKey, q.ct, c.c, message)
}

// blindedResponse is a blinded credential with its issuance proof.
type blindedResponse struct {
	bc    zkcrypto.BlindedCredential
	proof []byte
}

func (r blindedResponse) marshal(b *cryptobyte.Builder) {
	r.bc.Marshal(b)
	zkcrypto.AddProof(b, r.proof)
}

func readBlindedResponse(s *cryptobyte.String, proofSize int) (blindedResponse, error) {
	var r blindedResponse
	var err error
	if r.bc, err = zkcrypto.ReadBlindedCredential(s); err != nil {
		return r, err
	}
	r.proof, err = zkcrypto.ReadProof(s, proofSize)
	return r, err
}

// ProfileKeyCredentialResponse is the server's reply to a
// ProfileKeyCredentialRequest.
type ProfileKeyCredentialResponse struct {
	blindedResponse
}

// NewProfileKeyCredentialResponse parses a response.
func NewProfileKeyCredentialResponse(contents []byte) (*ProfileKeyCredentialResponse, error) {
	return deserialize(contents, ProfileKeyCredentialResponseSize, func(s *cryptobyte.String) (*ProfileKeyCredentialResponse, error) {
		r, err := readBlindedResponse(s, zkcrypto.ProfileKeyIssuanceProofSize)
		if err != nil {
			return nil, err
		}
		return &ProfileKeyCredentialResponse{r}, nil
	})
}

// Serialize encodes r.
func (r *ProfileKeyCredentialResponse) Serialize() []byte {
	return serialize(ProfileKeyCredentialResponseSize, r.marshal)
}

// ProfileKeyCredential lets a user prove to the server that a group
// member's encrypted profile key belongs to that member.
type ProfileKeyCredential struct {
	cred zkcrypto.Credential
	uid  uuid.UUID
	pk   ProfileKey
}

// NewProfileKeyCredential parses a credential.
func NewProfileKeyCredential(contents []byte) (*ProfileKeyCredential, error) {
	return deserialize(contents, ProfileKeyCredentialSize, func(s *cryptobyte.String) (*ProfileKeyCredential, error) {
		c := new(ProfileKeyCredential)
		var err error
		if c.cred, err = zkcrypto.ReadCredential(s); err != nil {
			return nil, err
		}
		if !s.CopyBytes(c.uid[:]) || !s.CopyBytes(c.pk[:]) {
			return nil, zkerr.ErrBadLength
		}
		return c, nil
	})
}

// Serialize encodes c.
func (c *ProfileKeyCredential) Serialize() []byte {
	return serialize(ProfileKeyCredentialSize, func(b *cryptobyte.Builder) {
		c.cred.Marshal(b)
		b.AddBytes(c.uid[:])
		b.AddBytes(c.pk[:])
	})
}

// ProfileKeyCredentialPresentation proves that an encrypted profile key
// belongs to an encrypted user.
type ProfileKeyCredentialPresentation struct {
	proof zkcrypto.PresentationProof
	uidCt UuidCiphertext
	pkCt  ProfileKeyCiphertext
}

// NewProfileKeyCredentialPresentation parses a presentation.
func NewProfileKeyCredentialPresentation(contents []byte) (*ProfileKeyCredentialPresentation, error) {
	return deserialize(contents, ProfileKeyCredentialPresentationSize, func(s *cryptobyte.String) (*ProfileKeyCredentialPresentation, error) {
		p := new(ProfileKeyCredentialPresentation)
		var err error
		if p.proof, err = zkcrypto.ReadProfileKeyPresentationProof(s); err != nil {
			return nil, err
		}
		if p.uidCt.ct, err = zkcrypto.ReadUidCiphertext(s); err != nil {
			return nil, err
		}
		if p.pkCt.ct, err = zkcrypto.ReadProfileKeyCiphertext(s); err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Serialize encodes p.
func (p *ProfileKeyCredentialPresentation) Serialize() []byte {
	return serialize(ProfileKeyCredentialPresentationSize, func(b *cryptobyte.Builder) {
		p.proof.Marshal(b)
		p.uidCt.ct.Marshal(b)
		p.pkCt.ct.Marshal(b)
	})
}

// GetUuidCiphertext returns the presenter's encrypted identifier.
func (p *ProfileKeyCredentialPresentation) GetUuidCiphertext() *UuidCiphertext {
	ct := p.uidCt
	return &ct
}

// GetProfileKeyCiphertext returns the presenter's encrypted profile key.
func (p *ProfileKeyCredentialPresentation) GetProfileKeyCiphertext() *ProfileKeyCiphertext {
	ct := p.pkCt
	return &ct
}

// ServerZkProfileOperations issues profile key and PNI credentials and
// verifies their presentations.
type ServerZkProfileOperations struct {
	params *ServerSecretParams
}

// NewServerZkProfileOperations returns the profile operations of params.
func NewServerZkProfileOperations(params *ServerSecretParams) *ServerZkProfileOperations {
	return &ServerZkProfileOperations{params: params}
}

// IssueProfileKeyCredential answers req from uid, whose profile key
// commitment the server stored earlier.
func (o *ServerZkProfileOperations) IssueProfileKeyCredential(req *ProfileKeyCredentialRequest, uid uuid.UUID, commitment *ProfileKeyCommitment) (*ProfileKeyCredentialResponse, error) {
	return withRandom(func(r Randomness) (*ProfileKeyCredentialResponse, error) {
		return o.IssueProfileKeyCredentialWithRandom(r, req, uid, commitment)
	})
}

// IssueProfileKeyCredentialWithRandom answers req from uid. The request
// proof must match commitment.
func (o *ServerZkProfileOperations) IssueProfileKeyCredentialWithRandom(r Randomness, req *ProfileKeyCredentialRequest, uid uuid.UUID, commitment *ProfileKeyCommitment) (*ProfileKeyCredentialResponse, error) {
	if err := req.verify(commitment, zkcrypto.ProfileKeyRequestMessage); err != nil {
		return nil, err
	}
	s := r.sho(labelIssueProfileKey)
	u := zkcrypto.NewUidStruct(uid)
	key := o.params.profileKeyKey
	bc := key.CreateBlindedProfileKeyCredential(u, req.blindingKey, req.ct, s)
	proof, err := zkcrypto.NewProfileKeyCredentialIssuanceProof(key, u, req.blindingKey, req.ct, bc, s.Squeeze(RandomnessSize))
	if err != nil {
		return nil, err
	}
	return &ProfileKeyCredentialResponse{blindedResponse{bc: bc.BlindedCredential, proof: proof}}, nil
}

// VerifyProfileKeyCredentialPresentation checks a presentation made for
// the group of gp.
func (o *ServerZkProfileOperations) VerifyProfileKeyCredentialPresentation(gp *GroupPublicParams, p *ProfileKeyCredentialPresentation) error {
	return zkcrypto.VerifyProfileKeyCredentialPresentationProof(o.params.profileKeyKey, p.proof, gp.A, gp.B, p.uidCt.ct, p.pkCt.ct)
}

// ClientZkProfileOperations requests, receives and presents profile key
// and PNI credentials.
type ClientZkProfileOperations struct {
	params *ServerPublicParams
}

// NewClientZkProfileOperations returns the profile operations for the
// server with public parameters params.
func NewClientZkProfileOperations(params *ServerPublicParams) *ClientZkProfileOperations {
	return &ClientZkProfileOperations{params: params}
}

// CreateProfileKeyCredentialRequestContext starts a request for a
// credential over pk for uid.
func (o *ClientZkProfileOperations) CreateProfileKeyCredentialRequestContext(uid uuid.UUID, pk ProfileKey) (*ProfileKeyCredentialRequestContext, error) {
	return withRandom(func(r Randomness) (*ProfileKeyCredentialRequestContext, error) {
		return o.CreateProfileKeyCredentialRequestContextWithRandom(r, uid, pk)
	})
}

// CreateProfileKeyCredentialRequestContextWithRandom starts a request for
// a credential over pk for uid.
func (o *ClientZkProfileOperations) CreateProfileKeyCredentialRequestContextWithRandom(r Randomness, uid uuid.UUID, pk ProfileKey) (*ProfileKeyCredentialRequestContext, error) {
	q, err := newBlindedRequest(r.sho(labelRequestProfileKey), pk, uid, zkcrypto.ProfileKeyRequestMessage)
	if err != nil {
		return nil, err
	}
	return &ProfileKeyCredentialRequestContext{uid: uid, pk: pk, q: q}, nil
}

// ReceiveProfileKeyCredential validates and unblinds the server's response
// to the request of ctx.
func (o *ClientZkProfileOperations) ReceiveProfileKeyCredential(ctx *ProfileKeyCredentialRequestContext, resp *ProfileKeyCredentialResponse) (*ProfileKeyCredential, error) {
	u := zkcrypto.NewUidStruct(ctx.uid)
	Y := ctx.q.blinding.Y
	err := zkcrypto.VerifyProfileKeyCredentialIssuanceProof(resp.proof, o.params.profileKeyKey, u, Y, ctx.q.ct.ProfileKeyRequestCiphertext, resp.bc)
	if err != nil {
		return nil, err
	}
	return &ProfileKeyCredential{cred: ctx.q.blinding.Unblind(resp.bc), uid: ctx.uid, pk: ctx.pk}, nil
}

// CreateProfileKeyCredentialPresentation presents cred for the group of
// gsp.
func (o *ClientZkProfileOperations) CreateProfileKeyCredentialPresentation(gsp *GroupSecretParams, cred *ProfileKeyCredential) (*ProfileKeyCredentialPresentation, error) {
	return withRandom(func(r Randomness) (*ProfileKeyCredentialPresentation, error) {
		return o.CreateProfileKeyCredentialPresentationWithRandom(r, gsp, cred)
	})
}

// CreateProfileKeyCredentialPresentationWithRandom presents cred for the
// group of gsp.
func (o *ClientZkProfileOperations) CreateProfileKeyCredentialPresentationWithRandom(r Randomness, gsp *GroupSecretParams, cred *ProfileKeyCredential) (*ProfileKeyCredentialPresentation, error) {
	u := zkcrypto.NewUidStruct(cred.uid)
	attrs := cred.pk.attributes(cred.uid)
	uidCt := gsp.uidKey.Encrypt(u)
	pkCt := gsp.profileKey.Encrypt(attrs)
	proof, err := zkcrypto.NewProfileKeyCredentialPresentationProof(o.params.profileKeyKey, gsp.uidKey, gsp.profileKey,
		cred.cred, u, attrs, uidCt, pkCt, r.sho(labelPresentProfileKey))
	if err != nil {
		return nil, err
	}
	return &ProfileKeyCredentialPresentation{
		proof: proof,
		uidCt: UuidCiphertext{ct: uidCt},
		pkCt:  ProfileKeyCiphertext{ct: pkCt},
	}, nil
}
