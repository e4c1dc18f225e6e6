package cmd

import (
	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup"
	"github.com/whisperfish/zkgroup/application/wallet"
	"github.com/whisperfish/zkgroup/cli"
)

var receiveAuthCmd = cli.NewOperationCommand("receive-auth UUID DAY RESPONSE",
	"Validate an auth credential response and store the credential.", 3,
	func(cmd *cobra.Command, args []string) error {
		uid, err := cli.UuidArg(args[0])
		if err != nil {
			return err
		}
		day, err := cli.DayArg(args[1])
		if err != nil {
			return err
		}
		raw, err := cli.ArtifactArg(cmd, args[2])
		if err != nil {
			return err
		}
		resp, err := zkgroup.NewAuthCredentialResponse(raw)
		if err != nil {
			return err
		}
		return withWallet(cmd, func(w *wallet.Wallet) error {
			return w.ReceiveAuthCredential(uid, day, resp)
		})
	})

var presentAuthCmd = cli.NewOperationCommand("present-auth NAME DAY",
	"Present the auth credential for a day to a group.", 2,
	func(cmd *cobra.Command, args []string) error {
		day, err := cli.DayArg(args[1])
		if err != nil {
			return err
		}
		return withWallet(cmd, func(w *wallet.Wallet) error {
			pres, err := w.PresentAuthCredential(args[0], day)
			if err != nil {
				return err
			}
			cli.PrintArtifact(cmd, pres)
			return nil
		})
	})

func init() {
	RootCmd.AddCommand(receiveAuthCmd)
	RootCmd.AddCommand(presentAuthCmd)
}
