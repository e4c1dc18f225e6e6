package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup"
	"github.com/whisperfish/zkgroup/application"
)

// ErrMultipleStdinArgs is returned when more than one argument asks to be
// read from standard input.
var ErrMultipleStdinArgs = errors.New("At most one argument may be read from standard input")

// SingleStdinArg is a cobra.PositionalArgs that allows at most one "-"
// argument.
func SingleStdinArg(cmd *cobra.Command, args []string) error {
	n := 0
	for _, arg := range args {
		if arg == "-" {
			n++
		}
	}
	if n > 1 {
		return ErrMultipleStdinArgs
	}
	return nil
}

// ArtifactArg decodes a hex artifact argument. "-" reads it from the
// command's input.
func ArtifactArg(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "Cannot read artifact")
		}
		arg = string(b)
	}
	return application.DecodeArtifact(arg)
}

// UuidArg parses a UUID argument.
func UuidArg(arg string) (uuid.UUID, error) {
	uid, err := uuid.Parse(arg)
	return uid, errors.Wrapf(err, "Malformed UUID %q", arg)
}

// DayArg parses a day number argument.
func DayArg(arg string) (uint32, error) {
	day, err := strconv.ParseUint(arg, 10, 32)
	return uint32(day), errors.Wrapf(err, "Malformed day %q", arg)
}

// PrintArtifact writes a hex-encoded artifact on its own line.
func PrintArtifact(cmd *cobra.Command, a zkgroup.Serializable) {
	fmt.Fprintln(cmd.OutOrStdout(), application.EncodeArtifact(a))
}
