package cmd

import (
	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup/application/issuer"
	"github.com/whisperfish/zkgroup/cli"
)

var signCmd = cli.NewOperationCommand("sign MESSAGE",
	"Notarize a message with the server params.", 1,
	func(cmd *cobra.Command, args []string) error {
		return withIssuer(cmd, func(is *issuer.Issuer, _ *issuer.Config) error {
			sig, err := is.Sign([]byte(args[0]))
			if err != nil {
				return err
			}
			cli.PrintArtifact(cmd, sig)
			return nil
		})
	})

func init() {
	RootCmd.AddCommand(signCmd)
}
