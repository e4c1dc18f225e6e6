package zkgroup

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/internal/zkcrypto"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

const (
	ReceiptSerialSize = zkcrypto.ReceiptSerialSize

	receiptRequestCiphertextSize = group.ScalarSize + zkcrypto.ElGamalCiphertextSize

	ReceiptCredentialRequestContextSize = 1 + ReceiptSerialSize + zkcrypto.BlindingKeyPairSize + receiptRequestCiphertextSize
	ReceiptCredentialRequestSize        = 1 + group.PointSize + zkcrypto.ElGamalCiphertextSize
	ReceiptCredentialResponseSize       = 1 + zkcrypto.BlindedCredentialSize + 8 + 8 + 8 + zkcrypto.ReceiptIssuanceProofSize
	ReceiptCredentialSize               = 1 + zkcrypto.CredentialSize + 8 + 8 + ReceiptSerialSize
	ReceiptCredentialPresentationSize   = 1 + zkcrypto.ReceiptPresentationProofSize + 8 + 8 + ReceiptSerialSize

	labelReceiptSerial  = "Signal_ZKGroup_20210919_Random_ReceiptSerial_Generate"
	labelRequestReceipt = "Signal_ZKGroup_20210919_Random_ServerPublicParams_CreateReceiptCredentialRequestContext"
	labelIssueReceipt   = "Signal_ZKGroup_20210919_Random_ServerSecretParams_IssueReceiptCredential"
	labelPresentReceipt = "Signal_ZKGroup_20210919_Random_ServerPublicParams_CreateReceiptCredentialPresentation"
)

// ReceiptSerial identifies one receipt. The server records presented
// serials to prevent double spending.
type ReceiptSerial [ReceiptSerialSize]byte

// NewReceiptSerial parses a serial.
func NewReceiptSerial(contents []byte) (ReceiptSerial, error) {
	var rs ReceiptSerial
	err := copyFixed(rs[:], contents)
	return rs, err
}

// GenerateReceiptSerial draws a fresh random serial.
func GenerateReceiptSerial() (ReceiptSerial, error) {
	return withRandom(func(r Randomness) (ReceiptSerial, error) {
		var rs ReceiptSerial
		copy(rs[:], r.sho(labelReceiptSerial).Squeeze(ReceiptSerialSize))
		return rs, nil
	})
}

// Serialize returns the raw serial.
func (rs ReceiptSerial) Serialize() []byte {
	return append([]byte(nil), rs[:]...)
}

func checkExpiration(expiration uint64) error {
	if expiration%zkcrypto.SecondsPerDay != 0 {
		return zkerr.ErrInvalidAttribute
	}
	return nil
}

// ReceiptCredentialRequestContext is the client's private state while a
// receipt credential request is outstanding.
type ReceiptCredentialRequestContext struct {
	serial   ReceiptSerial
	blinding zkcrypto.BlindingKeyPair
	ct       zkcrypto.ReceiptRequestCiphertextWithSecretNonce
}

// NewReceiptCredentialRequestContext parses a request context.
func NewReceiptCredentialRequestContext(contents []byte) (*ReceiptCredentialRequestContext, error) {
	return deserialize(contents, ReceiptCredentialRequestContextSize, func(s *cryptobyte.String) (*ReceiptCredentialRequestContext, error) {
		c := new(ReceiptCredentialRequestContext)
		if !s.CopyBytes(c.serial[:]) {
			return nil, zkerr.ErrBadLength
		}
		var err error
		if c.blinding, err = zkcrypto.ReadBlindingKeyPair(s); err != nil {
			return nil, err
		}
		if c.ct, err = zkcrypto.ReadReceiptRequestCiphertextWithSecretNonce(s, c.blinding, c.serial); err != nil {
			return nil, err
		}
		return c, nil
	})
}

// Serialize encodes c.
func (c *ReceiptCredentialRequestContext) Serialize() []byte {
	return serialize(ReceiptCredentialRequestContextSize, func(b *cryptobyte.Builder) {
		b.AddBytes(c.serial[:])
		c.blinding.Marshal(b)
		c.ct.Marshal(b)
	})
}

// GetReceiptSerial returns the serial the request is for.
func (c *ReceiptCredentialRequestContext) GetReceiptSerial() ReceiptSerial {
	return c.serial
}

// GetRequest returns the request to send to the server.
func (c *ReceiptCredentialRequestContext) GetRequest() *ReceiptCredentialRequest {
	return &ReceiptCredentialRequest{blindingKey: c.blinding.Y, ct: c.ct.ElGamalCiphertext}
}

// ReceiptCredentialRequest asks the server for a credential over a blinded
// receipt serial.
type ReceiptCredentialRequest struct {
	blindingKey group.Point
	ct          zkcrypto.ElGamalCiphertext
}

// NewReceiptCredentialRequest parses a request.
func NewReceiptCredentialRequest(contents []byte) (*ReceiptCredentialRequest, error) {
	return deserialize(contents, ReceiptCredentialRequestSize, func(s *cryptobyte.String) (*ReceiptCredentialRequest, error) {
		q := new(ReceiptCredentialRequest)
		if err := zkcrypto.ReadPublicPoints(s, &q.blindingKey); err != nil {
			return nil, err
		}
		var err error
		if q.ct, err = zkcrypto.ReadElGamalCiphertext(s); err != nil {
			return nil, err
		}
		return q, nil
	})
}

// Serialize encodes q.
func (q *ReceiptCredentialRequest) Serialize() []byte {
	return serialize(ReceiptCredentialRequestSize, func(b *cryptobyte.Builder) {
		b.AddBytes(q.blindingKey.Bytes())
		q.ct.Marshal(b)
	})
}

// ReceiptCredentialResponse is the server's reply to a
// ReceiptCredentialRequest.
type ReceiptCredentialResponse struct {
	bc         zkcrypto.BlindedCredential
	expiration uint64
	level      uint64
	proof      []byte
}

// NewReceiptCredentialResponse parses a response.
func NewReceiptCredentialResponse(contents []byte) (*ReceiptCredentialResponse, error) {
	return deserialize(contents, ReceiptCredentialResponseSize, func(s *cryptobyte.String) (*ReceiptCredentialResponse, error) {
		r := new(ReceiptCredentialResponse)
		var err error
		if r.bc, err = zkcrypto.ReadBlindedCredential(s); err != nil {
			return nil, err
		}
		if !s.ReadUint64(&r.expiration) || !s.ReadUint64(&r.level) {
			return nil, zkerr.ErrBadLength
		}
		if r.proof, err = zkcrypto.ReadProof(s, zkcrypto.ReceiptIssuanceProofSize); err != nil {
			return nil, err
		}
		return r, nil
	})
}

// Serialize encodes r.
func (r *ReceiptCredentialResponse) Serialize() []byte {
	return serialize(ReceiptCredentialResponseSize, func(b *cryptobyte.Builder) {
		r.bc.Marshal(b)
		b.AddUint64(r.expiration)
		b.AddUint64(r.level)
		zkcrypto.AddProof(b, r.proof)
	})
}

// ReceiptCredential attests that its holder paid for a receipt of some
// level, redeemable until an expiration time.
type ReceiptCredential struct {
	cred       zkcrypto.Credential
	expiration uint64
	level      uint64
	serial     ReceiptSerial
}

// NewReceiptCredential parses a credential.
func NewReceiptCredential(contents []byte) (*ReceiptCredential, error) {
	return deserialize(contents, ReceiptCredentialSize, func(s *cryptobyte.String) (*ReceiptCredential, error) {
		c := new(ReceiptCredential)
		var err error
		if c.cred, err = zkcrypto.ReadCredential(s); err != nil {
			return nil, err
		}
		if !s.ReadUint64(&c.expiration) || !s.ReadUint64(&c.level) || !s.CopyBytes(c.serial[:]) {
			return nil, zkerr.ErrBadLength
		}
		return c, nil
	})
}

// Serialize encodes c.
func (c *ReceiptCredential) Serialize() []byte {
	return serialize(ReceiptCredentialSize, func(b *cryptobyte.Builder) {
		c.cred.Marshal(b)
		b.AddUint64(c.expiration)
		b.AddUint64(c.level)
		b.AddBytes(c.serial[:])
	})
}

// GetReceiptExpirationTime returns the expiration time in seconds since
// the epoch.
func (c *ReceiptCredential) GetReceiptExpirationTime() uint64 {
	return c.expiration
}

// GetReceiptLevel returns the receipt level.
func (c *ReceiptCredential) GetReceiptLevel() uint64 {
	return c.level
}

// GetReceiptSerial returns the serial the credential redeems.
func (c *ReceiptCredential) GetReceiptSerial() ReceiptSerial {
	return c.serial
}

// ReceiptCredentialPresentation redeems a receipt. It discloses the
// expiration time, level and serial.
type ReceiptCredentialPresentation struct {
	proof   zkcrypto.PresentationProof
	receipt zkcrypto.ReceiptStruct
}

// NewReceiptCredentialPresentation parses a presentation.
func NewReceiptCredentialPresentation(contents []byte) (*ReceiptCredentialPresentation, error) {
	return deserialize(contents, ReceiptCredentialPresentationSize, func(s *cryptobyte.String) (*ReceiptCredentialPresentation, error) {
		p := new(ReceiptCredentialPresentation)
		var err error
		if p.proof, err = zkcrypto.ReadReceiptPresentationProof(s); err != nil {
			return nil, err
		}
		if !s.ReadUint64(&p.receipt.ExpirationTime) || !s.ReadUint64(&p.receipt.Level) || !s.CopyBytes(p.receipt.Serial[:]) {
			return nil, zkerr.ErrBadLength
		}
		return p, nil
	})
}

// Serialize encodes p.
func (p *ReceiptCredentialPresentation) Serialize() []byte {
	return serialize(ReceiptCredentialPresentationSize, func(b *cryptobyte.Builder) {
		p.proof.Marshal(b)
		b.AddUint64(p.receipt.ExpirationTime)
		b.AddUint64(p.receipt.Level)
		b.AddBytes(p.receipt.Serial[:])
	})
}

// GetReceiptExpirationTime returns the disclosed expiration time.
func (p *ReceiptCredentialPresentation) GetReceiptExpirationTime() uint64 {
	return p.receipt.ExpirationTime
}

// GetReceiptLevel returns the disclosed level.
func (p *ReceiptCredentialPresentation) GetReceiptLevel() uint64 {
	return p.receipt.Level
}

// GetReceiptSerial returns the disclosed serial.
func (p *ReceiptCredentialPresentation) GetReceiptSerial() ReceiptSerial {
	return p.receipt.Serial
}

// ServerZkReceiptOperations issues receipt credentials and verifies their
// presentations.
type ServerZkReceiptOperations struct {
	params *ServerSecretParams
}

// NewServerZkReceiptOperations returns the receipt operations of params.
func NewServerZkReceiptOperations(params *ServerSecretParams) *ServerZkReceiptOperations {
	return &ServerZkReceiptOperations{params: params}
}

// IssueReceiptCredential answers req with a credential for level, valid
// until expiration. expiration must be a whole number of days.
func (o *ServerZkReceiptOperations) IssueReceiptCredential(req *ReceiptCredentialRequest, expiration, level uint64) (*ReceiptCredentialResponse, error) {
	return withRandom(func(r Randomness) (*ReceiptCredentialResponse, error) {
		return o.IssueReceiptCredentialWithRandom(r, req, expiration, level)
	})
}

// IssueReceiptCredentialWithRandom answers req with a credential for
// level, valid until expiration.
func (o *ServerZkReceiptOperations) IssueReceiptCredentialWithRandom(r Randomness, req *ReceiptCredentialRequest, expiration, level uint64) (*ReceiptCredentialResponse, error) {
	if err := checkExpiration(expiration); err != nil {
		return nil, err
	}
	s := r.sho(labelIssueReceipt)
	key := o.params.receiptKey
	bc := key.CreateBlindedReceiptCredential(expiration, level, req.blindingKey, req.ct, s)
	proof, err := zkcrypto.NewReceiptCredentialIssuanceProof(key, expiration, level, req.blindingKey, req.ct, bc, s.Squeeze(RandomnessSize))
	if err != nil {
		return nil, err
	}
	return &ReceiptCredentialResponse{
		bc:         bc.BlindedCredential,
		expiration: expiration,
		level:      level,
		proof:      proof,
	}, nil
}

// VerifyReceiptCredentialPresentation checks a presentation. Checking the
// expiration time and recording the serial are left to the caller.
func (o *ServerZkReceiptOperations) VerifyReceiptCredentialPresentation(p *ReceiptCredentialPresentation) error {
	return zkcrypto.VerifyReceiptCredentialPresentationProof(o.params.receiptKey, p.proof, p.receipt)
}

// ClientZkReceiptOperations requests, receives and presents receipt
// credentials.
type ClientZkReceiptOperations struct {
	params *ServerPublicParams
}

// NewClientZkReceiptOperations returns the receipt operations for the
// server with public parameters params.
func NewClientZkReceiptOperations(params *ServerPublicParams) *ClientZkReceiptOperations {
	return &ClientZkReceiptOperations{params: params}
}

// CreateReceiptCredentialRequestContext starts a request for a credential
// over serial.
func (o *ClientZkReceiptOperations) CreateReceiptCredentialRequestContext(serial ReceiptSerial) (*ReceiptCredentialRequestContext, error) {
	return withRandom(func(r Randomness) (*ReceiptCredentialRequestContext, error) {
		return o.CreateReceiptCredentialRequestContextWithRandom(r, serial), nil
	})
}

// CreateReceiptCredentialRequestContextWithRandom starts a request for a
// credential over serial.
func (o *ClientZkReceiptOperations) CreateReceiptCredentialRequestContextWithRandom(r Randomness, serial ReceiptSerial) *ReceiptCredentialRequestContext {
	s := r.sho(labelRequestReceipt)
	blinding := zkcrypto.GenerateBlindingKeyPair(s)
	return &ReceiptCredentialRequestContext{
		serial:   serial,
		blinding: blinding,
		ct:       blinding.EncryptReceiptSerial(serial, s),
	}
}

// ReceiveReceiptCredential validates and unblinds the server's response to
// the request of ctx.
func (o *ClientZkReceiptOperations) ReceiveReceiptCredential(ctx *ReceiptCredentialRequestContext, resp *ReceiptCredentialResponse) (*ReceiptCredential, error) {
	if err := checkExpiration(resp.expiration); err != nil {
		return nil, err
	}
	err := zkcrypto.VerifyReceiptCredentialIssuanceProof(resp.proof, o.params.receiptKey, resp.expiration, resp.level,
		ctx.blinding.Y, ctx.ct.ElGamalCiphertext, resp.bc)
	if err != nil {
		return nil, err
	}
	return &ReceiptCredential{
		cred:       ctx.blinding.Unblind(resp.bc),
		expiration: resp.expiration,
		level:      resp.level,
		serial:     ctx.serial,
	}, nil
}

// CreateReceiptCredentialPresentation redeems cred.
func (o *ClientZkReceiptOperations) CreateReceiptCredentialPresentation(cred *ReceiptCredential) (*ReceiptCredentialPresentation, error) {
	return withRandom(func(r Randomness) (*ReceiptCredentialPresentation, error) {
		return o.CreateReceiptCredentialPresentationWithRandom(r, cred)
	})
}

// CreateReceiptCredentialPresentationWithRandom redeems cred.
func (o *ClientZkReceiptOperations) CreateReceiptCredentialPresentationWithRandom(r Randomness, cred *ReceiptCredential) (*ReceiptCredentialPresentation, error) {
	receipt := zkcrypto.ReceiptStruct{Serial: cred.serial, ExpirationTime: cred.expiration, Level: cred.level}
	proof, err := zkcrypto.NewReceiptCredentialPresentationProof(o.params.receiptKey, cred.cred, receipt, r.sho(labelPresentReceipt))
	if err != nil {
		return nil, err
	}
	return &ReceiptCredentialPresentation{proof: proof, receipt: receipt}, nil
}
