package cmd

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup"
	"github.com/whisperfish/zkgroup/application/issuer"
	"github.com/whisperfish/zkgroup/cli"
)

var issueReceiptCmd = cli.NewOperationCommand("issue-receipt REQUEST LEVEL",
	"Issue a receipt credential at a level.", 2,
	func(cmd *cobra.Command, args []string) error {
		raw, err := cli.ArtifactArg(cmd, args[0])
		if err != nil {
			return err
		}
		req, err := zkgroup.NewReceiptCredentialRequest(raw)
		if err != nil {
			return err
		}
		level, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "Malformed level %q", args[1])
		}
		return withIssuer(cmd, func(is *issuer.Issuer, _ *issuer.Config) error {
			resp, err := is.IssueReceiptCredential(req, level)
			if err != nil {
				return err
			}
			cli.PrintArtifact(cmd, resp)
			return nil
		})
	})

var verifyReceiptCmd = cli.NewOperationCommand("verify-receipt PRESENTATION",
	"Verify and redeem a receipt credential presentation.", 1,
	func(cmd *cobra.Command, args []string) error {
		raw, err := cli.ArtifactArg(cmd, args[0])
		if err != nil {
			return err
		}
		pres, err := zkgroup.NewReceiptCredentialPresentation(raw)
		if err != nil {
			return err
		}
		return withIssuer(cmd, func(is *issuer.Issuer, _ *issuer.Config) error {
			if err := is.RedeemReceipt(pres); err != nil {
				return err
			}
			cmd.Println("Redeemed receipt at level", pres.GetReceiptLevel())
			return nil
		})
	})

func init() {
	RootCmd.AddCommand(issueReceiptCmd)
	RootCmd.AddCommand(verifyReceiptCmd)
}
