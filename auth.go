package zkgroup

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/internal/zkcrypto"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

const (
	AuthCredentialResponseSize     = 1 + zkcrypto.CredentialSize + 8 + zkcrypto.AuthIssuanceProofSize
	AuthCredentialSize             = 1 + zkcrypto.CredentialSize + zkcrypto.UidSize + 4
	AuthCredentialPresentationSize = 1 + zkcrypto.AuthPresentationProofSize + UuidCiphertextSize + 4

	labelIssueAuth   = "Signal_ZKGroup_20200424_Random_ServerSecretParams_IssueAuthCredential"
	labelPresentAuth = "Signal_ZKGroup_20200424_Random_ServerPublicParams_CreateAuthCredentialPresentation"
)

// AuthCredentialResponse is the server's reply to an auth credential
// request. It is turned into an AuthCredential by ReceiveAuthCredential.
type AuthCredentialResponse struct {
	cred  zkcrypto.Credential
	proof []byte
}

// NewAuthCredentialResponse parses a response.
func NewAuthCredentialResponse(contents []byte) (*AuthCredentialResponse, error) {
	return deserialize(contents, AuthCredentialResponseSize, func(s *cryptobyte.String) (*AuthCredentialResponse, error) {
		cred, err := zkcrypto.ReadCredential(s)
		if err != nil {
			return nil, err
		}
		proof, err := zkcrypto.ReadProof(s, zkcrypto.AuthIssuanceProofSize)
		if err != nil {
			return nil, err
		}
		return &AuthCredentialResponse{cred: cred, proof: proof}, nil
	})
}

// Serialize encodes r.
func (r *AuthCredentialResponse) Serialize() []byte {
	return serialize(AuthCredentialResponseSize, func(b *cryptobyte.Builder) {
		r.cred.Marshal(b)
		zkcrypto.AddProof(b, r.proof)
	})
}

// AuthCredential lets a user prove membership in groups to the server on
// one redemption day.
type AuthCredential struct {
	cred           zkcrypto.Credential
	uid            uuid.UUID
	redemptionTime uint32
}

// NewAuthCredential parses a credential.
func NewAuthCredential(contents []byte) (*AuthCredential, error) {
	return deserialize(contents, AuthCredentialSize, func(s *cryptobyte.String) (*AuthCredential, error) {
		c := new(AuthCredential)
		var err error
		if c.cred, err = zkcrypto.ReadCredential(s); err != nil {
			return nil, err
		}
		if !s.CopyBytes(c.uid[:]) || !s.ReadUint32(&c.redemptionTime) {
			return nil, zkerr.ErrBadLength
		}
		return c, nil
	})
}

// Serialize encodes c.
func (c *AuthCredential) Serialize() []byte {
	return serialize(AuthCredentialSize, func(b *cryptobyte.Builder) {
		c.cred.Marshal(b)
		b.AddBytes(c.uid[:])
		b.AddUint32(c.redemptionTime)
	})
}

// GetRedemptionTime returns the day the credential is valid for.
func (c *AuthCredential) GetRedemptionTime() uint32 {
	return c.redemptionTime
}

// AuthCredentialPresentation proves possession of an AuthCredential for
// an encrypted user identifier.
type AuthCredentialPresentation struct {
	proof          zkcrypto.PresentationProof
	uidCt          UuidCiphertext
	redemptionTime uint32
}

// NewAuthCredentialPresentation parses a presentation.
func NewAuthCredentialPresentation(contents []byte) (*AuthCredentialPresentation, error) {
	return deserialize(contents, AuthCredentialPresentationSize, func(s *cryptobyte.String) (*AuthCredentialPresentation, error) {
		p := new(AuthCredentialPresentation)
		var err error
		if p.proof, err = zkcrypto.ReadAuthPresentationProof(s); err != nil {
			return nil, err
		}
		if p.uidCt.ct, err = zkcrypto.ReadUidCiphertext(s); err != nil {
			return nil, err
		}
		if !s.ReadUint32(&p.redemptionTime) {
			return nil, zkerr.ErrBadLength
		}
		return p, nil
	})
}

// Serialize encodes p.
func (p *AuthCredentialPresentation) Serialize() []byte {
	return serialize(AuthCredentialPresentationSize, func(b *cryptobyte.Builder) {
		p.proof.Marshal(b)
		p.uidCt.ct.Marshal(b)
		b.AddUint32(p.redemptionTime)
	})
}

// GetUuidCiphertext returns the presenter's encrypted identifier.
func (p *AuthCredentialPresentation) GetUuidCiphertext() *UuidCiphertext {
	ct := p.uidCt
	return &ct
}

// GetRedemptionTime returns the disclosed redemption day.
func (p *AuthCredentialPresentation) GetRedemptionTime() uint32 {
	return p.redemptionTime
}

// ServerZkAuthOperations issues auth credentials and verifies their
// presentations.
type ServerZkAuthOperations struct {
	params *ServerSecretParams
}

// NewServerZkAuthOperations returns the auth operations of params.
func NewServerZkAuthOperations(params *ServerSecretParams) *ServerZkAuthOperations {
	return &ServerZkAuthOperations{params: params}
}

// IssueAuthCredential issues a credential for uid on redemptionTime.
func (o *ServerZkAuthOperations) IssueAuthCredential(uid uuid.UUID, redemptionTime uint32) (*AuthCredentialResponse, error) {
	return withRandom(func(r Randomness) (*AuthCredentialResponse, error) {
		return o.IssueAuthCredentialWithRandom(r, uid, redemptionTime)
	})
}

// IssueAuthCredentialWithRandom issues a credential for uid on
// redemptionTime.
func (o *ServerZkAuthOperations) IssueAuthCredentialWithRandom(r Randomness, uid uuid.UUID, redemptionTime uint32) (*AuthCredentialResponse, error) {
	s := r.sho(labelIssueAuth)
	u := zkcrypto.NewUidStruct(uid)
	cred := o.params.authKey.CreateAuthCredential(u, redemptionTime, s)
	proof, err := zkcrypto.NewAuthCredentialIssuanceProof(o.params.authKey, u, redemptionTime, cred, s.Squeeze(RandomnessSize))
	if err != nil {
		return nil, err
	}
	return &AuthCredentialResponse{cred: cred, proof: proof}, nil
}

// VerifyAuthCredentialPresentation checks a presentation made for the group
// of gp. Checking the redemption time against the current day is left to
// the caller.
func (o *ServerZkAuthOperations) VerifyAuthCredentialPresentation(gp *GroupPublicParams, p *AuthCredentialPresentation) error {
	return zkcrypto.VerifyAuthCredentialPresentationProof(o.params.authKey, p.proof, gp.A, p.uidCt.ct, p.redemptionTime)
}

// ClientZkAuthOperations receives and presents auth credentials.
type ClientZkAuthOperations struct {
	params *ServerPublicParams
}

// NewClientZkAuthOperations returns the auth operations for the server
// with public parameters params.
func NewClientZkAuthOperations(params *ServerPublicParams) *ClientZkAuthOperations {
	return &ClientZkAuthOperations{params: params}
}

// ReceiveAuthCredential validates a response to a request for uid on
// redemptionTime.
func (o *ClientZkAuthOperations) ReceiveAuthCredential(uid uuid.UUID, redemptionTime uint32, resp *AuthCredentialResponse) (*AuthCredential, error) {
	u := zkcrypto.NewUidStruct(uid)
	if err := zkcrypto.VerifyAuthCredentialIssuanceProof(resp.proof, o.params.authKey, u, redemptionTime, resp.cred); err != nil {
		return nil, err
	}
	return &AuthCredential{cred: resp.cred, uid: uid, redemptionTime: redemptionTime}, nil
}

// CreateAuthCredentialPresentation presents cred to the server for the
// group of gsp.
func (o *ClientZkAuthOperations) CreateAuthCredentialPresentation(gsp *GroupSecretParams, cred *AuthCredential) (*AuthCredentialPresentation, error) {
	return withRandom(func(r Randomness) (*AuthCredentialPresentation, error) {
		return o.CreateAuthCredentialPresentationWithRandom(r, gsp, cred)
	})
}

// CreateAuthCredentialPresentationWithRandom presents cred to the server
// for the group of gsp.
func (o *ClientZkAuthOperations) CreateAuthCredentialPresentationWithRandom(r Randomness, gsp *GroupSecretParams, cred *AuthCredential) (*AuthCredentialPresentation, error) {
	u := zkcrypto.NewUidStruct(cred.uid)
	ct := gsp.uidKey.Encrypt(u)
	proof, err := zkcrypto.NewAuthCredentialPresentationProof(o.params.authKey, gsp.uidKey, cred.cred, u, ct, cred.redemptionTime, r.sho(labelPresentAuth))
	if err != nil {
		return nil, err
	}
	return &AuthCredentialPresentation{
		proof:          proof,
		uidCt:          UuidCiphertext{ct: ct},
		redemptionTime: cred.redemptionTime,
	}, nil
}
