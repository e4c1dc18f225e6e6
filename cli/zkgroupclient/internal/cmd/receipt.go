package cmd

import (
	"encoding/hex"
	"time"

	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup"
	"github.com/whisperfish/zkgroup/application/wallet"
	"github.com/whisperfish/zkgroup/cli"
)

func serialArg(cmd *cobra.Command, arg string) (zkgroup.ReceiptSerial, error) {
	raw, err := cli.ArtifactArg(cmd, arg)
	if err != nil {
		return zkgroup.ReceiptSerial{}, err
	}
	return zkgroup.NewReceiptSerial(raw)
}

var requestReceiptCmd = cli.NewOperationCommand("request-receipt",
	"Start a receipt credential request for a fresh serial.", 0,
	func(cmd *cobra.Command, args []string) error {
		return withWallet(cmd, func(w *wallet.Wallet) error {
			ctx, err := w.RequestReceiptCredential()
			if err != nil {
				return err
			}
			serial := ctx.GetReceiptSerial()
			cmd.Println("Receipt serial", hex.EncodeToString(serial[:]))
			cli.PrintArtifact(cmd, ctx.GetRequest())
			return nil
		})
	})

var receiveReceiptCmd = cli.NewOperationCommand("receive-receipt SERIAL RESPONSE",
	"Validate a receipt credential response and store the credential.", 2,
	func(cmd *cobra.Command, args []string) error {
		serial, err := serialArg(cmd, args[0])
		if err != nil {
			return err
		}
		raw, err := cli.ArtifactArg(cmd, args[1])
		if err != nil {
			return err
		}
		resp, err := zkgroup.NewReceiptCredentialResponse(raw)
		if err != nil {
			return err
		}
		return withWallet(cmd, func(w *wallet.Wallet) error {
			cred, err := w.ReceiveReceiptCredential(serial, resp)
			if err != nil {
				return err
			}
			expires := time.Unix(int64(cred.GetReceiptExpirationTime()), 0).UTC()
			cmd.Println("Stored receipt credential at level", cred.GetReceiptLevel(),
				"expiring", expires.Format(time.RFC3339))
			return nil
		})
	})

var presentReceiptCmd = cli.NewOperationCommand("present-receipt SERIAL",
	"Present a stored receipt credential for redemption.", 1,
	func(cmd *cobra.Command, args []string) error {
		serial, err := serialArg(cmd, args[0])
		if err != nil {
			return err
		}
		return withWallet(cmd, func(w *wallet.Wallet) error {
			pres, err := w.PresentReceiptCredential(serial)
			if err != nil {
				return err
			}
			cli.PrintArtifact(cmd, pres)
			return nil
		})
	})

func init() {
	RootCmd.AddCommand(requestReceiptCmd)
	RootCmd.AddCommand(receiveReceiptCmd)
	RootCmd.AddCommand(presentReceiptCmd)
}
