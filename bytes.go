package zkgroup

import (
	"golang.org/x/crypto/cryptobyte"

	"github.com/whisperfish/zkgroup/internal/zkerr"
)

// reservedByte prefixes every structured artifact.
const reservedByte = 0

// Serializable is implemented by every artifact of this package.
type Serializable interface {
	Serialize() []byte
}

// serialize encodes an artifact of exactly size bytes: the reserved byte
// followed by whatever marshal writes.
func serialize(size int, marshal func(b *cryptobyte.Builder)) []byte {
	b := cryptobyte.NewFixedBuilder(make([]byte, 0, size))
	b.AddUint8(reservedByte)
	marshal(b)
	out := b.BytesOrPanic()
	if len(out) != size {
		panic("zkgroup: serialized artifact has wrong size")
	}
	return out
}

// deserialize is the validating counterpart of serialize. contents must be
// exactly size bytes, start with the reserved byte, and be consumed
// completely by read.
func deserialize[T any](contents []byte, size int, read func(s *cryptobyte.String) (T, error)) (T, error) {
	var zero T
	if len(contents) != size {
		return zero, zkerr.ErrBadLength
	}
	s := cryptobyte.String(contents)
	var reserved uint8
	if !s.ReadUint8(&reserved) {
		return zero, zkerr.ErrBadLength
	}
	if reserved != reservedByte {
		return zero, zkerr.ErrBadVersion
	}
	v, err := read(&s)
	if err != nil {
		return zero, err
	}
	if !s.Empty() {
		return zero, zkerr.ErrBadLength
	}
	return v, nil
}

// copyFixed fills dst with contents, which must be exactly len(dst) bytes.
func copyFixed(dst, contents []byte) error {
	if len(contents) != len(dst) {
		return zkerr.ErrBadLength
	}
	copy(dst, contents)
	return nil
}
