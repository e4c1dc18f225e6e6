/*
Package zkgroup implements the zkgroup anonymous-credential protocol.

A server holding ServerSecretParams issues credentials over attributes it
may never see in the clear, and later verifies presentations of those
credentials without learning which credential was presented. Clients
encrypt identifiers and profile keys under group keys derived from a
32-byte GroupMasterKey, so that the server only ever handles ciphertexts.

Four credential kinds are supported:

	Auth:       a user identifier and a redemption day
	ProfileKey: a user identifier and a blinded profile key
	Pni:        an ACI, a PNI and a blinded profile key
	Receipt:    a blinded receipt serial, an expiration time and a level

Every operation that needs randomness comes in two forms. The WithRandom
form takes an explicit 32-byte Randomness and is fully deterministic; the
plain form draws fresh Randomness from the operating system and calls it.

Every artifact has a Serialize method and a validating NewX constructor
that re-checks each embedded group element. Errors are of three kinds,
ErrInvalidInput, ErrVerification and ErrProtocolInvariant, and can be
tested with errors.Is.

The package performs no I/O.
*/
package zkgroup
