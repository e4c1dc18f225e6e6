package keystore

const (
	// ServerParamsIdentifier is the domain separation for server params.
	ServerParamsIdentifier = 'S'
	// GroupIdentifier is the domain separation for group master keys.
	GroupIdentifier = 'G'
	// AuthCredentialIdentifier is the domain separation for auth
	// credentials, keyed by redemption day.
	AuthCredentialIdentifier = 'A'
	// ProfileKeyCredentialIdentifier is the domain separation for profile
	// key credentials, keyed by user.
	ProfileKeyCredentialIdentifier = 'P'
	// PniCredentialIdentifier is the domain separation for PNI
	// credentials, keyed by ACI.
	PniCredentialIdentifier = 'N'
	// ReceiptRequestIdentifier is the domain separation for outstanding
	// receipt credential requests, keyed by serial.
	ReceiptRequestIdentifier = 'Q'
	// ReceiptCredentialIdentifier is the domain separation for received
	// receipt credentials, keyed by serial.
	ReceiptCredentialIdentifier = 'C'
	// RedeemedReceiptIdentifier is the domain separation for receipt
	// serials the server has accepted.
	RedeemedReceiptIdentifier = 'R'
)
