// Package wallet keeps a client's groups and credentials and turns them
// into presentations.
package wallet

import (
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/whisperfish/zkgroup"
	"github.com/whisperfish/zkgroup/application"
	"github.com/whisperfish/zkgroup/storage/keystore"
)

// ErrGroupExists is returned by NewGroup for a name already in use.
var ErrGroupExists = errors.New("[wallet] Group already exists")

// A Wallet holds the client side of the protocol.
type Wallet struct {
	auth    *zkgroup.ClientZkAuthOperations
	profile *zkgroup.ClientZkProfileOperations
	receipt *zkgroup.ClientZkReceiptOperations
	store   *keystore.Store
	logger  *application.Logger
}

// New returns a wallet for credentials issued under params.
func New(params *zkgroup.ServerPublicParams, store *keystore.Store, logger *application.Logger) *Wallet {
	return &Wallet{
		auth:    zkgroup.NewClientZkAuthOperations(params),
		profile: zkgroup.NewClientZkProfileOperations(params),
		receipt: zkgroup.NewClientZkReceiptOperations(params),
		store:   store,
		logger:  logger,
	}
}

// NewGroup creates a group called name with a fresh master key.
func (w *Wallet) NewGroup(name string) (*zkgroup.GroupSecretParams, error) {
	if _, err := w.store.LoadGroup(name); err == nil {
		return nil, ErrGroupExists
	} else if err != keystore.ErrNotFound {
		return nil, err
	}
	gsp, err := zkgroup.GenerateGroupSecretParams()
	if err != nil {
		return nil, err
	}
	if err := w.store.StoreGroup(name, gsp.GetMasterKey()); err != nil {
		return nil, err
	}
	w.logger.Info("Created group", "name", name)
	return gsp, nil
}

// JoinGroup stores a master key received from another member.
func (w *Wallet) JoinGroup(name string, mk zkgroup.GroupMasterKey) error {
	return w.store.StoreGroup(name, mk)
}

// Group returns the secret params of the group called name.
func (w *Wallet) Group(name string) (*zkgroup.GroupSecretParams, error) {
	mk, err := w.store.LoadGroup(name)
	if err != nil {
		return nil, errors.Wrapf(err, "group %q", name)
	}
	return zkgroup.DeriveGroupSecretParams(mk), nil
}

// Groups lists the names of all known groups.
func (w *Wallet) Groups() ([]string, error) {
	return w.store.ListGroups()
}

// ReceiveAuthCredential validates resp and stores the credential for its
// redemption day.
func (w *Wallet) ReceiveAuthCredential(uid uuid.UUID, redemptionTime uint32, resp *zkgroup.AuthCredentialResponse) error {
	cred, err := w.auth.ReceiveAuthCredential(uid, redemptionTime, resp)
	if err != nil {
		w.logger.Warn("Rejected auth credential response", "error", err)
		return err
	}
	return w.store.StoreAuthCredential(cred)
}

// PresentAuthCredential presents the stored credential for redemptionTime
// to the group called group.
func (w *Wallet) PresentAuthCredential(group string, redemptionTime uint32) (*zkgroup.AuthCredentialPresentation, error) {
	gsp, err := w.Group(group)
	if err != nil {
		return nil, err
	}
	cred, err := w.store.LoadAuthCredential(redemptionTime)
	if err != nil {
		return nil, errors.Wrapf(err, "auth credential for day %d", redemptionTime)
	}
	return w.auth.CreateAuthCredentialPresentation(gsp, cred)
}

// PruneAuthCredentials drops credentials for days before today.
func (w *Wallet) PruneAuthCredentials(today uint32) error {
	n, err := w.store.PruneAuthCredentials(today)
	if err != nil {
		return err
	}
	if n > 0 {
		w.logger.Debug("Pruned auth credentials", "count", n)
	}
	return nil
}

// RequestProfileKeyCredential starts a profile key credential request.
// The context must be kept for ReceiveProfileKeyCredential.
func (w *Wallet) RequestProfileKeyCredential(uid uuid.UUID, pk zkgroup.ProfileKey) (*zkgroup.ProfileKeyCredentialRequestContext, error) {
	return w.profile.CreateProfileKeyCredentialRequestContext(uid, pk)
}

// ReceiveProfileKeyCredential validates resp and stores the credential
// for uid.
func (w *Wallet) ReceiveProfileKeyCredential(uid uuid.UUID, ctx *zkgroup.ProfileKeyCredentialRequestContext,
	resp *zkgroup.ProfileKeyCredentialResponse) error {
	cred, err := w.profile.ReceiveProfileKeyCredential(ctx, resp)
	if err != nil {
		w.logger.Warn("Rejected profile key credential response", "error", err)
		return err
	}
	return w.store.StoreProfileKeyCredential(uid, cred)
}

// PresentProfileKeyCredential presents the stored credential of uid to the
// group called group.
func (w *Wallet) PresentProfileKeyCredential(group string, uid uuid.UUID) (*zkgroup.ProfileKeyCredentialPresentation, error) {
	gsp, err := w.Group(group)
	if err != nil {
		return nil, err
	}
	cred, err := w.store.LoadProfileKeyCredential(uid)
	if err != nil {
		return nil, err
	}
	return w.profile.CreateProfileKeyCredentialPresentation(gsp, cred)
}

// RequestPniCredential starts a PNI credential request for aci and pni.
// The context must be kept for ReceivePniCredential.
func (w *Wallet) RequestPniCredential(aci, pni uuid.UUID, pk zkgroup.ProfileKey) (*zkgroup.PniCredentialRequestContext, error) {
	return w.profile.CreatePniCredentialRequestContext(aci, pni, pk)
}

// ReceivePniCredential validates resp and stores the credential for aci.
func (w *Wallet) ReceivePniCredential(aci uuid.UUID, ctx *zkgroup.PniCredentialRequestContext,
	resp *zkgroup.PniCredentialResponse) error {
	cred, err := w.profile.ReceivePniCredential(ctx, resp)
	if err != nil {
		w.logger.Warn("Rejected PNI credential response", "error", err)
		return err
	}
	return w.store.StorePniCredential(aci, cred)
}

// PresentPniCredential presents the stored PNI credential of aci to the
// group called group.
func (w *Wallet) PresentPniCredential(group string, aci uuid.UUID) (*zkgroup.PniCredentialPresentation, error) {
	gsp, err := w.Group(group)
	if err != nil {
		return nil, err
	}
	cred, err := w.store.LoadPniCredential(aci)
	if err != nil {
		return nil, err
	}
	return w.profile.CreatePniCredentialPresentation(gsp, cred)
}

// RequestReceiptCredential draws a fresh receipt serial and stores the
// request context for it until the response arrives.
func (w *Wallet) RequestReceiptCredential() (*zkgroup.ReceiptCredentialRequestContext, error) {
	serial, err := zkgroup.GenerateReceiptSerial()
	if err != nil {
		return nil, err
	}
	ctx, err := w.receipt.CreateReceiptCredentialRequestContext(serial)
	if err != nil {
		return nil, err
	}
	if err := w.store.StoreReceiptRequest(ctx); err != nil {
		return nil, err
	}
	w.logger.Debug("Requested receipt credential", "serial", hex.EncodeToString(serial[:]))
	return ctx, nil
}

// ReceiveReceiptCredential validates the response to the outstanding
// request for serial and stores the credential in its place.
func (w *Wallet) ReceiveReceiptCredential(serial zkgroup.ReceiptSerial, resp *zkgroup.ReceiptCredentialResponse) (*zkgroup.ReceiptCredential, error) {
	ctx, err := w.store.LoadReceiptRequest(serial)
	if err != nil {
		return nil, errors.Wrapf(err, "receipt request %x", serial)
	}
	cred, err := w.receipt.ReceiveReceiptCredential(ctx, resp)
	if err != nil {
		w.logger.Warn("Rejected receipt credential response", "error", err)
		return nil, err
	}
	if err := w.store.StoreReceiptCredential(cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// PresentReceiptCredential presents the stored receipt credential for
// serial.
func (w *Wallet) PresentReceiptCredential(serial zkgroup.ReceiptSerial) (*zkgroup.ReceiptCredentialPresentation, error) {
	cred, err := w.store.LoadReceiptCredential(serial)
	if err != nil {
		return nil, errors.Wrapf(err, "receipt credential %x", serial)
	}
	return w.receipt.CreateReceiptCredentialPresentation(cred)
}

// EncryptBlob encrypts plaintext for the group called group.
func (w *Wallet) EncryptBlob(group string, plaintext []byte) ([]byte, error) {
	gsp, err := w.Group(group)
	if err != nil {
		return nil, err
	}
	return zkgroup.NewClientZkGroupCipher(gsp).EncryptBlob(plaintext)
}

// DecryptBlob decrypts a blob of the group called group.
func (w *Wallet) DecryptBlob(group string, blob []byte) ([]byte, error) {
	gsp, err := w.Group(group)
	if err != nil {
		return nil, err
	}
	return zkgroup.NewClientZkGroupCipher(gsp).DecryptBlob(blob)
}
