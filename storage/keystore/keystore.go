// Package keystore persists zkgroup parameters and credentials in a kv.DB.
//
// Values are stored in their canonical serialized form and re-validated
// when loaded, so a corrupted database surfaces as a zkgroup
// InvalidInput error rather than as a malformed credential.
package keystore

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/whisperfish/zkgroup"
	"github.com/whisperfish/zkgroup/storage/kv"
	"github.com/whisperfish/zkgroup/utils"
)

var (
	// ErrNotFound is returned when no value is stored under a key.
	ErrNotFound = errors.New("[keystore] Not found")
	// ErrAlreadyRedeemed is returned when a receipt serial is redeemed twice.
	ErrAlreadyRedeemed = errors.New("[keystore] Receipt already redeemed")
)

// A Store is a typed view of a kv.DB.
type Store struct {
	db kv.DB
	// serializes check-then-put sequences
	mu sync.Mutex
}

// New returns a Store backed by db.
func New(db kv.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key []byte) ([]byte, error) {
	v, err := s.db.Get(key)
	if err == s.db.ErrNotFound() {
		return nil, ErrNotFound
	}
	return v, errors.Wrap(err, "keystore: get")
}

// StoreServerParams persists the server's secret parameters.
func (s *Store) StoreServerParams(params *zkgroup.ServerSecretParams) error {
	return errors.Wrap(s.db.Put([]byte{ServerParamsIdentifier}, params.Serialize()),
		"keystore: store server params")
}

// LoadServerParams loads the server's secret parameters.
func (s *Store) LoadServerParams() (*zkgroup.ServerSecretParams, error) {
	v, err := s.get([]byte{ServerParamsIdentifier})
	if err != nil {
		return nil, err
	}
	params, err := zkgroup.NewServerSecretParams(v)
	return params, errors.Wrap(err, "keystore: server params")
}

func groupKey(name string) []byte {
	key := make([]byte, 0, 1+len(name))
	key = append(key, GroupIdentifier)
	return append(key, name...)
}

// StoreGroup persists the master key of the group called name.
func (s *Store) StoreGroup(name string, mk zkgroup.GroupMasterKey) error {
	return errors.Wrapf(s.db.Put(groupKey(name), mk.Serialize()),
		"keystore: store group %q", name)
}

// LoadGroup loads the master key of the group called name.
func (s *Store) LoadGroup(name string) (zkgroup.GroupMasterKey, error) {
	v, err := s.get(groupKey(name))
	if err != nil {
		return zkgroup.GroupMasterKey{}, err
	}
	mk, err := zkgroup.NewGroupMasterKey(v)
	return mk, errors.Wrapf(err, "keystore: group %q", name)
}

// ListGroups returns the names of all stored groups in lexical order.
func (s *Store) ListGroups() ([]string, error) {
	iter := s.db.NewIterator(kv.BytesPrefix([]byte{GroupIdentifier}))
	defer iter.Release()
	var names []string
	for iter.Next() {
		names = append(names, string(iter.Key()[1:]))
	}
	return names, errors.Wrap(iter.Error(), "keystore: list groups")
}

func authKey(redemptionTime uint32) []byte {
	return append([]byte{AuthCredentialIdentifier}, utils.UInt32ToBytes(redemptionTime)...)
}

// StoreAuthCredential persists an auth credential under its redemption day.
func (s *Store) StoreAuthCredential(cred *zkgroup.AuthCredential) error {
	return errors.Wrap(s.db.Put(authKey(cred.GetRedemptionTime()), cred.Serialize()),
		"keystore: store auth credential")
}

// LoadAuthCredential loads the auth credential for redemptionTime.
func (s *Store) LoadAuthCredential(redemptionTime uint32) (*zkgroup.AuthCredential, error) {
	v, err := s.get(authKey(redemptionTime))
	if err != nil {
		return nil, err
	}
	cred, err := zkgroup.NewAuthCredential(v)
	return cred, errors.Wrapf(err, "keystore: auth credential for day %d", redemptionTime)
}

// PruneAuthCredentials deletes every auth credential whose redemption day
// is before day. It returns the number of credentials deleted.
func (s *Store) PruneAuthCredentials(day uint32) (int, error) {
	iter := s.db.NewIterator(&kv.Range{
		Start: []byte{AuthCredentialIdentifier},
		Limit: authKey(day),
	})
	wb := s.db.NewBatch()
	n := 0
	for iter.Next() {
		wb.Delete(append([]byte(nil), iter.Key()...))
		n++
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return 0, errors.Wrap(err, "keystore: prune auth credentials")
	}
	if n == 0 {
		return 0, nil
	}
	return n, errors.Wrap(s.db.Write(wb), "keystore: prune auth credentials")
}

func profileKeyCredentialKey(uid uuid.UUID) []byte {
	return append([]byte{ProfileKeyCredentialIdentifier}, uid[:]...)
}

// StoreProfileKeyCredential persists the profile key credential of uid.
func (s *Store) StoreProfileKeyCredential(uid uuid.UUID, cred *zkgroup.ProfileKeyCredential) error {
	return errors.Wrap(s.db.Put(profileKeyCredentialKey(uid), cred.Serialize()),
		"keystore: store profile key credential")
}

// LoadProfileKeyCredential loads the profile key credential of uid.
func (s *Store) LoadProfileKeyCredential(uid uuid.UUID) (*zkgroup.ProfileKeyCredential, error) {
	v, err := s.get(profileKeyCredentialKey(uid))
	if err != nil {
		return nil, err
	}
	cred, err := zkgroup.NewProfileKeyCredential(v)
	return cred, errors.Wrapf(err, "keystore: profile key credential of %s", uid)
}

func pniCredentialKey(aci uuid.UUID) []byte {
	return append([]byte{PniCredentialIdentifier}, aci[:]...)
}

// StorePniCredential persists the PNI credential of aci.
func (s *Store) StorePniCredential(aci uuid.UUID, cred *zkgroup.PniCredential) error {
	return errors.Wrap(s.db.Put(pniCredentialKey(aci), cred.Serialize()),
		"keystore: store pni credential")
}

// LoadPniCredential loads the PNI credential of aci.
func (s *Store) LoadPniCredential(aci uuid.UUID) (*zkgroup.PniCredential, error) {
	v, err := s.get(pniCredentialKey(aci))
	if err != nil {
		return nil, err
	}
	cred, err := zkgroup.NewPniCredential(v)
	return cred, errors.Wrapf(err, "keystore: pni credential of %s", aci)
}

func receiptKey(prefix byte, serial zkgroup.ReceiptSerial) []byte {
	return append([]byte{prefix}, serial[:]...)
}

// StoreReceiptRequest persists an outstanding receipt credential request
// under its serial.
func (s *Store) StoreReceiptRequest(ctx *zkgroup.ReceiptCredentialRequestContext) error {
	return errors.Wrap(s.db.Put(receiptKey(ReceiptRequestIdentifier, ctx.GetReceiptSerial()), ctx.Serialize()),
		"keystore: store receipt request")
}

// LoadReceiptRequest loads the outstanding request for serial.
func (s *Store) LoadReceiptRequest(serial zkgroup.ReceiptSerial) (*zkgroup.ReceiptCredentialRequestContext, error) {
	v, err := s.get(receiptKey(ReceiptRequestIdentifier, serial))
	if err != nil {
		return nil, err
	}
	ctx, err := zkgroup.NewReceiptCredentialRequestContext(v)
	return ctx, errors.Wrapf(err, "keystore: receipt request %x", serial)
}

// StoreReceiptCredential persists cred under its serial and drops the
// request it answered, in one batch.
func (s *Store) StoreReceiptCredential(cred *zkgroup.ReceiptCredential) error {
	serial := cred.GetReceiptSerial()
	wb := s.db.NewBatch()
	wb.Put(receiptKey(ReceiptCredentialIdentifier, serial), cred.Serialize())
	wb.Delete(receiptKey(ReceiptRequestIdentifier, serial))
	return errors.Wrap(s.db.Write(wb), "keystore: store receipt credential")
}

// LoadReceiptCredential loads the receipt credential for serial.
func (s *Store) LoadReceiptCredential(serial zkgroup.ReceiptSerial) (*zkgroup.ReceiptCredential, error) {
	v, err := s.get(receiptKey(ReceiptCredentialIdentifier, serial))
	if err != nil {
		return nil, err
	}
	cred, err := zkgroup.NewReceiptCredential(v)
	return cred, errors.Wrapf(err, "keystore: receipt credential %x", serial)
}

// RedeemReceipt records serial as spent, storing the level it was redeemed
// for. Redeeming the same serial again returns ErrAlreadyRedeemed.
func (s *Store) RedeemReceipt(serial zkgroup.ReceiptSerial, level uint64) error {
	key := receiptKey(RedeemedReceiptIdentifier, serial)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.get(key); err == nil {
		return ErrAlreadyRedeemed
	} else if err != ErrNotFound {
		return err
	}
	return errors.Wrap(s.db.Put(key, utils.ULongToBytes(level)), "keystore: redeem receipt")
}
