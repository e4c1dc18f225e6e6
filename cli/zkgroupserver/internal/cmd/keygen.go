package cmd

import (
	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup/application"
	"github.com/whisperfish/zkgroup/application/issuer"
	"github.com/whisperfish/zkgroup/cli"
)

var keygenCmd = cli.NewOperationCommand("keygen",
	"Generate the server params and write the public params file.", 0,
	func(cmd *cobra.Command, args []string) error {
		return withIssuer(cmd, func(is *issuer.Issuer, conf *issuer.Config) error {
			if err := application.SaveServerPublicParams(conf.PublicParamsPath, is.PublicParams()); err != nil {
				return err
			}
			cmd.Println("Wrote public params to", conf.PublicParamsPath)
			return nil
		})
	})

func init() {
	RootCmd.AddCommand(keygenCmd)
}
