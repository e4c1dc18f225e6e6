package zkcrypto

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/whisperfish/zkgroup/crypto/group"
	"github.com/whisperfish/zkgroup/crypto/sho"
)

const (
	UidSize           = 16
	ProfileKeySize    = 32
	ReceiptSerialSize = 16
	// ProfileKeyVersionSize is the length of the hex-encoded version tag.
	ProfileKeyVersionSize = 64
	// SecondsPerDay is the granularity of receipt expiration times.
	SecondsPerDay = 86400

	labelUidM1             = "ZKGroup_20200424_UID_CalcM1"
	labelProfileKeyM3      = "ZKGroup_20200424_ProfileKeyAndUid_ProfileKey_CalcM3"
	labelProfileKeyVersion = "ZKGroup_20200424_ProfileKeyAndUid_ProfileKey_GetProfileKeyVersion"
	labelReceiptM2         = "ZKGroup_20210919_ReceiptStruct_CalcM2"
)

// UidStruct is a user identifier and its two attribute points. M1 is a hash
// of the identifier and M2 carries it recoverably.
type UidStruct struct {
	Bytes  [UidSize]byte
	M1, M2 group.Point
}

// NewUidStruct computes the attribute points of uid.
func NewUidStruct(uid [UidSize]byte) UidStruct {
	return UidStruct{
		Bytes: uid,
		M1:    sho.New([]byte(labelUidM1), uid[:]).GetPoint(),
		M2:    group.LizardEncode(uid),
	}
}

// ProfileKeyStruct is a profile key bound to a user identifier. M3 hashes key
// and identifier together; M4 carries 253 bits of the key.
type ProfileKeyStruct struct {
	Bytes  [ProfileKeySize]byte
	M3, M4 group.Point
}

// NewProfileKeyStruct computes the attribute points of key for uid.
func NewProfileKeyStruct(key [ProfileKeySize]byte, uid [UidSize]byte) ProfileKeyStruct {
	return ProfileKeyStruct{
		Bytes: key,
		M3:    calcM3(key, uid),
		M4:    group.Encode253(key),
	}
}

func calcM3(key [ProfileKeySize]byte, uid [UidSize]byte) group.Point {
	return sho.New([]byte(labelProfileKeyM3), concat(key[:], uid[:])).GetPoint()
}

// ProfileKeyVersion returns the hex-encoded version tag of key for uid.
func ProfileKeyVersion(key [ProfileKeySize]byte, uid [UidSize]byte) [ProfileKeyVersionSize]byte {
	s := sho.New([]byte(labelProfileKeyVersion), concat(key[:], uid[:]))
	var out [ProfileKeyVersionSize]byte
	hex.Encode(out[:], s.Squeeze(ProfileKeyVersionSize/2))
	return out
}

// AuthAttribute is the public attribute point of a redemption time.
func AuthAttribute(redemptionTime uint32) group.Point {
	return System().Gm3.Mul(group.ScalarFromUint64(uint64(redemptionTime)))
}

// ReceiptStruct holds the attributes of a receipt credential.
type ReceiptStruct struct {
	Serial         [ReceiptSerialSize]byte
	ExpirationTime uint64
	Level          uint64
}

// M1 encodes expiration time and level as one attribute point.
func (r ReceiptStruct) M1() group.Point {
	var m [16]byte
	binary.LittleEndian.PutUint64(m[:8], r.ExpirationTime)
	binary.LittleEndian.PutUint64(m[8:], r.Level)
	return System().Gm1.Mul(group.ScalarFromLowBytes(m))
}

// M2 is the attribute point of the receipt serial.
func (r ReceiptStruct) M2() group.Point {
	return ReceiptSerialPoint(r.Serial)
}

// ReceiptSerialPoint hashes a receipt serial to its attribute point.
func ReceiptSerialPoint(serial [ReceiptSerialSize]byte) group.Point {
	return sho.New([]byte(labelReceiptM2), serial[:]).GetPoint()
}

func concat(bs ...[]byte) []byte {
	var out []byte
	for _, b := range bs {
		out = append(out, b...)
	}
	return out
}
