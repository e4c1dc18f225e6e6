package zkgroup

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/sign"
	"github.com/whisperfish/zkgroup/internal/zkcrypto"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

const (
	ServerSecretParamsSize = 1 +
		(7+zkcrypto.AuthAttributes)*group.ScalarSize +
		(7+zkcrypto.ProfileKeyAttributes)*group.ScalarSize +
		signingKeySize +
		(7+zkcrypto.ReceiptAttributes)*group.ScalarSize +
		(7+zkcrypto.PniAttributes)*group.ScalarSize
	ServerPublicParamsSize = 1 + 4*zkcrypto.CredentialPublicKeySize + sign.PublicKeySize
	NotarySignatureSize    = sign.SignatureSize

	labelServerGenerate = "Signal_ZKGroup_20200424_Random_ServerSecretParams_Generate"
	labelServerSign     = "Signal_ZKGroup_20200424_Random_ServerSecretParams_Sign"
)

// NotarySignature is a signature made with the server's signing key.
type NotarySignature [NotarySignatureSize]byte

// NewNotarySignature parses a server signature.
func NewNotarySignature(contents []byte) (NotarySignature, error) {
	var sig NotarySignature
	err := copyFixed(sig[:], contents)
	return sig, err
}

// Serialize returns the raw signature.
func (sig NotarySignature) Serialize() []byte {
	return append([]byte(nil), sig[:]...)
}

// ServerSecretParams are the server's long-term issuing and signing keys.
type ServerSecretParams struct {
	authKey       *zkcrypto.CredentialKeyPair
	profileKeyKey *zkcrypto.CredentialKeyPair
	receiptKey    *zkcrypto.CredentialKeyPair
	pniKey        *zkcrypto.CredentialKeyPair
	signingKey    sign.PrivateKey
}

// GenerateServerSecretParams creates server keys from fresh randomness.
func GenerateServerSecretParams() (*ServerSecretParams, error) {
	return withRandom(func(r Randomness) (*ServerSecretParams, error) {
		return GenerateServerSecretParamsWithRandom(r), nil
	})
}

// GenerateServerSecretParamsWithRandom creates server keys from r. Outside
// of tests r must come from NewRandomness.
func GenerateServerSecretParamsWithRandom(r Randomness) *ServerSecretParams {
	s := r.sho(labelServerGenerate)
	return &ServerSecretParams{
		authKey:       zkcrypto.GenerateCredentialKeyPair(s, zkcrypto.AuthAttributes),
		profileKeyKey: zkcrypto.GenerateCredentialKeyPair(s, zkcrypto.ProfileKeyAttributes),
		signingKey:    sign.GenerateKey(s),
		receiptKey:    zkcrypto.GenerateCredentialKeyPair(s, zkcrypto.ReceiptAttributes),
		pniKey:        zkcrypto.GenerateCredentialKeyPair(s, zkcrypto.PniAttributes),
	}
}

func readSigningKey(s *cryptobyte.String) (sign.PrivateKey, error) {
	var a, A []byte
	if !s.ReadBytes(&a, sign.PrivateKeySize) || !s.ReadBytes(&A, sign.PublicKeySize) {
		return sign.PrivateKey{}, zkerr.ErrBadLength
	}
	key, err := sign.NewPrivateKey(a)
	if err != nil {
		return sign.PrivateKey{}, err
	}
	pub, err := sign.NewPublicKey(A)
	if err != nil {
		return sign.PrivateKey{}, err
	}
	if !key.Public().A.Equal(pub.A) {
		return sign.PrivateKey{}, zkerr.ErrInconsistentParams
	}
	return key, nil
}

// NewServerSecretParams parses serialized server keys, re-deriving every
// public point from its secret scalars.
func NewServerSecretParams(contents []byte) (*ServerSecretParams, error) {
	return deserialize(contents, ServerSecretParamsSize, func(s *cryptobyte.String) (*ServerSecretParams, error) {
		p := new(ServerSecretParams)
		var err error
		if p.authKey, err = zkcrypto.ReadCredentialKeyPair(s, zkcrypto.AuthAttributes); err != nil {
			return nil, err
		}
		if p.profileKeyKey, err = zkcrypto.ReadCredentialKeyPair(s, zkcrypto.ProfileKeyAttributes); err != nil {
			return nil, err
		}
		if p.signingKey, err = readSigningKey(s); err != nil {
			return nil, err
		}
		if p.receiptKey, err = zkcrypto.ReadCredentialKeyPair(s, zkcrypto.ReceiptAttributes); err != nil {
			return nil, err
		}
		if p.pniKey, err = zkcrypto.ReadCredentialKeyPair(s, zkcrypto.PniAttributes); err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Serialize encodes p.
func (p *ServerSecretParams) Serialize() []byte {
	return serialize(ServerSecretParamsSize, func(b *cryptobyte.Builder) {
		p.authKey.Marshal(b)
		p.profileKeyKey.Marshal(b)
		b.AddBytes(p.signingKey.Bytes())
		b.AddBytes(p.signingKey.Public().Bytes())
		p.receiptKey.Marshal(b)
		p.pniKey.Marshal(b)
	})
}

// GetPublicParams returns the public half of p.
func (p *ServerSecretParams) GetPublicParams() *ServerPublicParams {
	return &ServerPublicParams{
		authKey:       p.authKey.PublicKey(),
		profileKeyKey: p.profileKeyKey.PublicKey(),
		verifyKey:     p.signingKey.Public(),
		receiptKey:    p.receiptKey.PublicKey(),
		pniKey:        p.pniKey.PublicKey(),
	}
}

// Sign signs message with the server's signing key.
func (p *ServerSecretParams) Sign(message []byte) (NotarySignature, error) {
	return withRandom(func(r Randomness) (NotarySignature, error) {
		return p.SignWithRandom(r, message)
	})
}

// SignWithRandom signs message with the server's signing key.
func (p *ServerSecretParams) SignWithRandom(r Randomness, message []byte) (NotarySignature, error) {
	var sig NotarySignature
	raw, err := p.signingKey.Sign(message, r.sho(labelServerSign).Squeeze(RandomnessSize))
	if err != nil {
		return sig, err
	}
	copy(sig[:], raw)
	return sig, nil
}

// ServerPublicParams are distributed to every client.
type ServerPublicParams struct {
	authKey       zkcrypto.CredentialPublicKey
	profileKeyKey zkcrypto.CredentialPublicKey
	verifyKey     sign.PublicKey
	receiptKey    zkcrypto.CredentialPublicKey
	pniKey        zkcrypto.CredentialPublicKey
}

// NewServerPublicParams parses serialized public parameters.
func NewServerPublicParams(contents []byte) (*ServerPublicParams, error) {
	return deserialize(contents, ServerPublicParamsSize, func(s *cryptobyte.String) (*ServerPublicParams, error) {
		p := new(ServerPublicParams)
		var err error
		if p.authKey, err = zkcrypto.ReadCredentialPublicKey(s); err != nil {
			return nil, err
		}
		if p.profileKeyKey, err = zkcrypto.ReadCredentialPublicKey(s); err != nil {
			return nil, err
		}
		var vk group.Point
		if err = zkcrypto.ReadPublicPoints(s, &vk); err != nil {
			return nil, err
		}
		p.verifyKey = sign.PublicKey{A: vk}
		if p.receiptKey, err = zkcrypto.ReadCredentialPublicKey(s); err != nil {
			return nil, err
		}
		if p.pniKey, err = zkcrypto.ReadCredentialPublicKey(s); err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Serialize encodes p.
func (p *ServerPublicParams) Serialize() []byte {
	return serialize(ServerPublicParamsSize, func(b *cryptobyte.Builder) {
		p.authKey.Marshal(b)
		p.profileKeyKey.Marshal(b)
		b.AddBytes(p.verifyKey.Bytes())
		p.receiptKey.Marshal(b)
		p.pniKey.Marshal(b)
	})
}

// VerifySignature checks a signature made with ServerSecretParams.Sign.
func (p *ServerPublicParams) VerifySignature(message []byte, sig NotarySignature) error {
	return p.verifyKey.Verify(message, sig[:])
}
