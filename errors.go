package zkgroup

import "github.com/whisperfish/zkgroup/internal/zkerr"

// Error kinds. Every error returned by this package matches exactly one of
// them under errors.Is.
const (
	ErrInvalidInput      = zkerr.ErrorInvalidInput
	ErrVerification      = zkerr.ErrorVerification
	ErrProtocolInvariant = zkerr.ErrorProtocolInvariant
)

// Specific errors.
var (
	ErrPointDecode              = zkerr.ErrPointDecode
	ErrBadLength                = zkerr.ErrBadLength
	ErrBadVersion               = zkerr.ErrBadVersion
	ErrInvalidAttribute         = zkerr.ErrInvalidAttribute
	ErrSignatureVerification    = zkerr.ErrSignatureVerification
	ErrCredentialValidation     = zkerr.ErrCredentialValidation
	ErrPresentationVerification = zkerr.ErrPresentationVerification
	ErrRequestVerification      = zkerr.ErrRequestVerification
	ErrDecryption               = zkerr.ErrDecryption
)
