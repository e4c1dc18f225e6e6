// Package issuer implements a zkgroup credential issuer: it owns the
// server params, enforces the issuance policies and tracks redeemed
// receipts.
package issuer

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/whisperfish/zkgroup"
	"github.com/whisperfish/zkgroup/application"
	"github.com/whisperfish/zkgroup/storage/keystore"
)

const secondsPerDay = 86400

var (
	// ErrRedemptionTime is returned when an auth credential is requested
	// or presented for a day outside the allowed window.
	ErrRedemptionTime = errors.New("[issuer] Redemption time out of range")
	// ErrReceiptLevel is returned for a receipt level the issuer does not
	// certify.
	ErrReceiptLevel = errors.New("[issuer] Unsupported receipt level")
	// ErrReceiptExpired is returned when a receipt is presented after its
	// expiration time.
	ErrReceiptExpired = errors.New("[issuer] Receipt expired")
)

// An Issuer issues credentials and verifies their presentations.
// It is safe for concurrent use.
type Issuer struct {
	params   *zkgroup.ServerSecretParams
	auth     *zkgroup.ServerZkAuthOperations
	profile  *zkgroup.ServerZkProfileOperations
	receipt  *zkgroup.ServerZkReceiptOperations
	policies *Policies
	store    *keystore.Store
	logger   *application.Logger
	now      func() time.Time
}

// New loads the server params from store, generating and persisting
// fresh ones on first use.
func New(store *keystore.Store, policies *Policies, logger *application.Logger) (*Issuer, error) {
	params, err := store.LoadServerParams()
	if err == keystore.ErrNotFound {
		params, err = zkgroup.GenerateServerSecretParams()
		if err != nil {
			return nil, err
		}
		if err := store.StoreServerParams(params); err != nil {
			return nil, err
		}
		logger.Info("Generated new server params")
	} else if err != nil {
		return nil, err
	}
	return NewWithParams(params, store, policies, logger), nil
}

// NewWithParams builds an Issuer around existing params.
func NewWithParams(params *zkgroup.ServerSecretParams, store *keystore.Store,
	policies *Policies, logger *application.Logger) *Issuer {
	if policies == nil {
		policies = DefaultPolicies()
	}
	return &Issuer{
		params:   params,
		auth:     zkgroup.NewServerZkAuthOperations(params),
		profile:  zkgroup.NewServerZkProfileOperations(params),
		receipt:  zkgroup.NewServerZkReceiptOperations(params),
		policies: policies,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// PublicParams returns the params clients need.
func (is *Issuer) PublicParams() *zkgroup.ServerPublicParams {
	return is.params.GetPublicParams()
}

// Today returns the current day number since the Unix epoch.
func (is *Issuer) Today() uint32 {
	return uint32(is.now().Unix() / secondsPerDay)
}

// IssueAuthCredential issues an auth credential for uid, redeemable on
// day redemptionTime.
func (is *Issuer) IssueAuthCredential(uid uuid.UUID, redemptionTime uint32) (*zkgroup.AuthCredentialResponse, error) {
	today := is.Today()
	if redemptionTime < today || redemptionTime > today+is.policies.AuthIssueDays {
		is.logger.Warn("Rejected auth credential request",
			"redemption time", redemptionTime, "today", today)
		return nil, ErrRedemptionTime
	}
	resp, err := is.auth.IssueAuthCredential(uid, redemptionTime)
	if err != nil {
		is.logger.Error(err.Error())
		return nil, err
	}
	is.logger.Debug("Issued auth credential", "redemption time", redemptionTime)
	return resp, nil
}

// VerifyAuthCredentialPresentation verifies p for the group gp and checks
// that its redemption day is close to today.
func (is *Issuer) VerifyAuthCredentialPresentation(gp *zkgroup.GroupPublicParams, p *zkgroup.AuthCredentialPresentation) error {
	if err := is.auth.VerifyAuthCredentialPresentation(gp, p); err != nil {
		is.logger.Debug("Rejected auth presentation", "error", err)
		return err
	}
	today, rt := int64(is.Today()), int64(p.GetRedemptionTime())
	skew := int64(is.policies.AuthClockSkewDays)
	if rt < today-skew || rt > today+skew {
		return ErrRedemptionTime
	}
	return nil
}

// IssueProfileKeyCredential verifies req against commitment and issues a
// profile key credential for uid.
func (is *Issuer) IssueProfileKeyCredential(req *zkgroup.ProfileKeyCredentialRequest, uid uuid.UUID,
	commitment *zkgroup.ProfileKeyCommitment) (*zkgroup.ProfileKeyCredentialResponse, error) {
	resp, err := is.profile.IssueProfileKeyCredential(req, uid, commitment)
	if err != nil {
		is.logger.Debug("Rejected profile key credential request", "error", err)
		return nil, err
	}
	is.logger.Debug("Issued profile key credential", "version", commitment.GetProfileKeyVersion().String())
	return resp, nil
}

// VerifyProfileKeyCredentialPresentation verifies p for the group gp.
func (is *Issuer) VerifyProfileKeyCredentialPresentation(gp *zkgroup.GroupPublicParams, p *zkgroup.ProfileKeyCredentialPresentation) error {
	return is.profile.VerifyProfileKeyCredentialPresentation(gp, p)
}

// IssuePniCredential verifies req against commitment and issues a PNI
// credential binding aci to pni.
func (is *Issuer) IssuePniCredential(req *zkgroup.ProfileKeyCredentialRequest, aci, pni uuid.UUID,
	commitment *zkgroup.ProfileKeyCommitment) (*zkgroup.PniCredentialResponse, error) {
	resp, err := is.profile.IssuePniCredential(req, aci, pni, commitment)
	if err != nil {
		is.logger.Debug("Rejected PNI credential request", "error", err)
		return nil, err
	}
	return resp, nil
}

// VerifyPniCredentialPresentation verifies p for the group gp.
func (is *Issuer) VerifyPniCredentialPresentation(gp *zkgroup.GroupPublicParams, p *zkgroup.PniCredentialPresentation) error {
	return is.profile.VerifyPniCredentialPresentation(gp, p)
}

func (is *Issuer) receiptExpiration() uint64 {
	today := uint64(is.Today())
	return (today + 1 + is.policies.ReceiptValidityDays) * secondsPerDay
}

func (is *Issuer) checkLevel(level uint64) error {
	if len(is.policies.ReceiptLevels) == 0 {
		return nil
	}
	for _, l := range is.policies.ReceiptLevels {
		if l == level {
			return nil
		}
	}
	return ErrReceiptLevel
}

// IssueReceiptCredential issues a receipt credential at level, expiring
// ReceiptValidityDays after the end of today.
func (is *Issuer) IssueReceiptCredential(req *zkgroup.ReceiptCredentialRequest, level uint64) (*zkgroup.ReceiptCredentialResponse, error) {
	if err := is.checkLevel(level); err != nil {
		return nil, err
	}
	exp := is.receiptExpiration()
	resp, err := is.receipt.IssueReceiptCredential(req, exp, level)
	if err != nil {
		is.logger.Error(err.Error())
		return nil, err
	}
	is.logger.Debug("Issued receipt credential", "level", level, "expiration", exp)
	return resp, nil
}

// RedeemReceipt verifies p, checks it has not expired, and records its
// serial so that it cannot be redeemed again.
func (is *Issuer) RedeemReceipt(p *zkgroup.ReceiptCredentialPresentation) error {
	if err := is.receipt.VerifyReceiptCredentialPresentation(p); err != nil {
		is.logger.Debug("Rejected receipt presentation", "error", err)
		return err
	}
	if uint64(is.now().Unix()) >= p.GetReceiptExpirationTime() {
		return ErrReceiptExpired
	}
	serial := p.GetReceiptSerial()
	if err := is.store.RedeemReceipt(serial, p.GetReceiptLevel()); err != nil {
		is.logger.Warn("Receipt redemption failed", "serial", serial[:], "error", err)
		return err
	}
	is.logger.Info("Redeemed receipt", "level", p.GetReceiptLevel())
	return nil
}

// Sign notarizes message with the server params.
func (is *Issuer) Sign(message []byte) (zkgroup.NotarySignature, error) {
	return is.params.Sign(message)
}
