package zkgroup

import (
	"crypto/cipher"

	"github.com/google/uuid"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/crypto/kdf"
	"github.com/whisperfish/zkgroup/internal/zkcrypto"
	"github.com/whisperfish/zkgroup/internal/zkerr"
)

const (
	UuidCiphertextSize       = zkcrypto.UidCiphertextSize
	ProfileKeyCiphertextSize = zkcrypto.ProfileKeyCiphertextSize

	// BlobOverhead is the number of bytes EncryptBlob adds to a plaintext.
	BlobOverhead = 1 + chacha20poly1305.NonceSize + chacha20poly1305.Overhead

	labelBlobNonce = "Signal_ZKGroup_20200424_Random_ClientZkGroupCipher_EncryptBlob"
	blobKeyInfo    = "Signal_ZKGroup_20200424_GroupSecretParams_BlobKey"
)

// UuidCiphertext is a user identifier encrypted under a group's keys.
type UuidCiphertext struct {
	ct zkcrypto.UidCiphertext
}

// NewUuidCiphertext parses a ciphertext.
func NewUuidCiphertext(contents []byte) (*UuidCiphertext, error) {
	if len(contents) != UuidCiphertextSize {
		return nil, zkerr.ErrBadLength
	}
	s := cryptobyte.String(contents)
	ct, err := zkcrypto.ReadUidCiphertext(&s)
	if err != nil {
		return nil, err
	}
	return &UuidCiphertext{ct: ct}, nil
}

// Serialize encodes c.
func (c *UuidCiphertext) Serialize() []byte {
	var b cryptobyte.Builder
	c.ct.Marshal(&b)
	return b.BytesOrPanic()
}

// ProfileKeyCiphertext is a profile key encrypted under a group's keys.
type ProfileKeyCiphertext struct {
	ct zkcrypto.ProfileKeyCiphertext
}

// NewProfileKeyCiphertext parses a ciphertext.
func NewProfileKeyCiphertext(contents []byte) (*ProfileKeyCiphertext, error) {
	if len(contents) != ProfileKeyCiphertextSize {
		return nil, zkerr.ErrBadLength
	}
	s := cryptobyte.String(contents)
	ct, err := zkcrypto.ReadProfileKeyCiphertext(&s)
	if err != nil {
		return nil, err
	}
	return &ProfileKeyCiphertext{ct: ct}, nil
}

// Serialize encodes c.
func (c *ProfileKeyCiphertext) Serialize() []byte {
	var b cryptobyte.Builder
	c.ct.Marshal(&b)
	return b.BytesOrPanic()
}

// ClientZkGroupCipher encrypts group members' attributes under the keys of
// one group.
type ClientZkGroupCipher struct {
	params *GroupSecretParams
}

// NewClientZkGroupCipher returns a cipher for the group of params.
func NewClientZkGroupCipher(params *GroupSecretParams) *ClientZkGroupCipher {
	return &ClientZkGroupCipher{params: params}
}

// EncryptUuid encrypts uid. Encryption is deterministic per group.
func (c *ClientZkGroupCipher) EncryptUuid(uid uuid.UUID) *UuidCiphertext {
	return &UuidCiphertext{ct: c.params.uidKey.Encrypt(zkcrypto.NewUidStruct(uid))}
}

// DecryptUuid decrypts a ciphertext produced by EncryptUuid for this group.
func (c *ClientZkGroupCipher) DecryptUuid(ct *UuidCiphertext) (uuid.UUID, error) {
	uid, err := c.params.uidKey.Decrypt(ct.ct)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.UUID(uid.Bytes), nil
}

// EncryptProfileKey encrypts the profile key of uid.
func (c *ClientZkGroupCipher) EncryptProfileKey(pk ProfileKey, uid uuid.UUID) *ProfileKeyCiphertext {
	return &ProfileKeyCiphertext{ct: c.params.profileKey.Encrypt(pk.attributes(uid))}
}

// DecryptProfileKey decrypts the profile key of uid.
func (c *ClientZkGroupCipher) DecryptProfileKey(ct *ProfileKeyCiphertext, uid uuid.UUID) (ProfileKey, error) {
	pk, err := c.params.profileKey.Decrypt(ct.ct, uid)
	if err != nil {
		return ProfileKey{}, err
	}
	return ProfileKey(pk.Bytes), nil
}

func (c *ClientZkGroupCipher) blobAEAD() (cipher.AEAD, error) {
	key, err := kdf.DeriveKey(c.params.blobKey[:], nil, []byte(blobKeyInfo), chacha20poly1305.KeySize)
	if err != nil {
		return nil, zkerr.Wrap(zkerr.ErrInternal, err)
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, zkerr.Wrap(zkerr.ErrInternal, err)
	}
	return aead, nil
}

// EncryptBlob encrypts and authenticates plaintext with fresh randomness.
func (c *ClientZkGroupCipher) EncryptBlob(plaintext []byte) ([]byte, error) {
	return withRandom(func(r Randomness) ([]byte, error) {
		return c.EncryptBlobWithRandom(r, plaintext)
	})
}

// EncryptBlobWithRandom encrypts and authenticates plaintext. The result is
// 0x00 || nonce || ciphertext || tag.
func (c *ClientZkGroupCipher) EncryptBlobWithRandom(r Randomness, plaintext []byte) ([]byte, error) {
	aead, err := c.blobAEAD()
	if err != nil {
		return nil, err
	}
	nonce := r.sho(labelBlobNonce).Squeeze(chacha20poly1305.NonceSize)
	out := make([]byte, 0, len(plaintext)+BlobOverhead)
	out = append(out, reservedByte)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// DecryptBlob authenticates and decrypts a blob from EncryptBlob.
func (c *ClientZkGroupCipher) DecryptBlob(blob []byte) ([]byte, error) {
	if len(blob) < BlobOverhead {
		return nil, zkerr.ErrBadLength
	}
	if blob[0] != reservedByte {
		return nil, zkerr.ErrBadVersion
	}
	aead, err := c.blobAEAD()
	if err != nil {
		return nil, err
	}
	nonce := blob[1 : 1+chacha20poly1305.NonceSize]
	plaintext, err := aead.Open(nil, nonce, blob[1+chacha20poly1305.NonceSize:], nil)
	if err != nil {
		return nil, zkerr.ErrDecryption
	}
	return plaintext, nil
}
