package cli

import (
	"github.com/spf13/cobra"
)

// An operationCommand runs one protocol operation on artifacts passed as
// arguments and prints the resulting artifact.
type operationCommand struct {
	use     string
	short   string
	nargs   int
	runFunc func(cmd *cobra.Command, args []string) error
}

var _ cobraCommand = (*operationCommand)(nil)

// NewOperationCommand constructs a command that takes exactly nargs
// arguments. The use string names the command and its arguments,
// e.g. "issue-auth UUID DAY".
func NewOperationCommand(use, short string, nargs int,
	runFunc func(cmd *cobra.Command, args []string) error) *cobra.Command {
	opCmd := &operationCommand{
		use:     use,
		short:   short,
		nargs:   nargs,
		runFunc: runFunc,
	}
	return opCmd.Build()
}

// Build constructs the cobra.Command according to the
// operationCommand's settings.
func (opCmd *operationCommand) Build() *cobra.Command {
	cmd := cobra.Command{
		Use:   opCmd.use,
		Short: opCmd.short,
		Long: opCmd.short + `

Artifacts are read and written as hex strings. An artifact argument
of "-" is read from standard input; only one argument may be "-".`,
		Args: cobra.MatchAll(cobra.ExactArgs(opCmd.nargs), SingleStdinArg),
		RunE: opCmd.runFunc,
	}
	return &cmd
}
