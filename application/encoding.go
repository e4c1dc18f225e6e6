// Artifacts cross process boundaries (files, stdin, stdout) as lower-case
// hex of their canonical serialization.

package application

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"github.com/whisperfish/zkgroup"
)

// EncodeArtifact returns the hex encoding of a.
func EncodeArtifact(a zkgroup.Serializable) string {
	return hex.EncodeToString(a.Serialize())
}

// DecodeArtifact decodes a hex-encoded artifact, ignoring surrounding
// whitespace. The result still has to be parsed by the matching
// zkgroup constructor.
func DecodeArtifact(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrap(err, "Malformed artifact encoding")
	}
	return b, nil
}
