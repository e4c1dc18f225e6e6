// Package zkerr defines the error kinds returned by every zkgroup operation.
//
// There are three kinds. InvalidInput is returned when bytes supplied by the
// caller have the wrong length or do not decode to valid group elements.
// Verification is returned when a signature, credential, presentation or
// ciphertext fails to verify. ProtocolInvariant means the library itself
// produced an inconsistent value and indicates a defect.
package zkerr

type ErrorCode int

const (
	ErrorInvalidInput ErrorCode = iota + 10
	ErrorVerification
	ErrorProtocolInvariant
)

var errorMessages = map[ErrorCode]string{
	ErrorInvalidInput:      "[zkgroup] Invalid input",
	ErrorVerification:      "[zkgroup] Verification failed",
	ErrorProtocolInvariant: "[zkgroup] Protocol invariant violated",
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}
	return errorMessages[ErrorProtocolInvariant]
}

// An Error is a specific failure of one of the three kinds.
// errors.Is matches it against both itself and its ErrorCode.
type Error struct {
	Code ErrorCode
	msg  string
}

// New returns an Error of kind code.
func New(code ErrorCode, msg string) *Error {
	return &Error{Code: code, msg: msg}
}

func (e *Error) Error() string {
	return "[zkgroup] " + e.msg
}

func (e *Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

var (
	ErrPointDecode              = New(ErrorInvalidInput, "Bytes do not encode a group element")
	ErrScalarDecode             = New(ErrorInvalidInput, "Bytes do not encode a canonical scalar")
	ErrIdentityPoint            = New(ErrorInvalidInput, "Identity element is not a valid key")
	ErrBadLength                = New(ErrorInvalidInput, "Wrong input length")
	ErrBadVersion               = New(ErrorInvalidInput, "Unsupported reserved byte")
	ErrInconsistentParams       = New(ErrorInvalidInput, "Parameters are internally inconsistent")
	ErrInvalidAttribute         = New(ErrorInvalidInput, "Invalid attribute encoding")
	ErrSignatureVerification    = New(ErrorVerification, "Signature verification failed")
	ErrCredentialValidation     = New(ErrorVerification, "Credential validation failed")
	ErrPresentationVerification = New(ErrorVerification, "Presentation verification failed")
	ErrRequestVerification      = New(ErrorVerification, "Credential request verification failed")
	ErrDecryption               = New(ErrorVerification, "Decryption failed")
	ErrProofVerification        = New(ErrorVerification, "Proof verification failed")
	ErrStatementUnsatisfied     = New(ErrorProtocolInvariant, "Statement does not hold for the given witness")
	ErrMissingArgument          = New(ErrorProtocolInvariant, "Missing proof argument")
	ErrRandomness               = New(ErrorProtocolInvariant, "Could not read randomness")
	ErrInternal                 = New(ErrorProtocolInvariant, "Internal error")
)

// Wrap attaches kind to err so errors.Is matches both.
func Wrap(kind *Error, err error) error {
	if err == nil {
		return nil
	}
	return &wrapped{kind: kind, err: err}
}

type wrapped struct {
	kind *Error
	err  error
}

func (w *wrapped) Error() string { return w.kind.Error() + ": " + w.err.Error() }

func (w *wrapped) Unwrap() []error { return []error{w.kind, w.err} }
