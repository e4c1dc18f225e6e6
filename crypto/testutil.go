package crypto

// NewStaticTestRandomness returns fixed randomness for _tests_.
func NewStaticTestRandomness() []byte {
	return []byte("deterministic tests need 256 bit")
}
