package cmd

import (
	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup"
	"github.com/whisperfish/zkgroup/application/issuer"
	"github.com/whisperfish/zkgroup/cli"
)

var issueAuthCmd = cli.NewOperationCommand("issue-auth UUID DAY",
	"Issue an auth credential for a user and redemption day.", 2,
	func(cmd *cobra.Command, args []string) error {
		uid, err := cli.UuidArg(args[0])
		if err != nil {
			return err
		}
		day, err := cli.DayArg(args[1])
		if err != nil {
			return err
		}
		return withIssuer(cmd, func(is *issuer.Issuer, _ *issuer.Config) error {
			resp, err := is.IssueAuthCredential(uid, day)
			if err != nil {
				return err
			}
			cli.PrintArtifact(cmd, resp)
			return nil
		})
	})

var verifyAuthCmd = cli.NewOperationCommand("verify-auth GROUP_PUBLIC_PARAMS PRESENTATION",
	"Verify an auth credential presentation for a group.", 2,
	func(cmd *cobra.Command, args []string) error {
		raw, err := cli.ArtifactArg(cmd, args[0])
		if err != nil {
			return err
		}
		gp, err := zkgroup.NewGroupPublicParams(raw)
		if err != nil {
			return err
		}
		if raw, err = cli.ArtifactArg(cmd, args[1]); err != nil {
			return err
		}
		pres, err := zkgroup.NewAuthCredentialPresentation(raw)
		if err != nil {
			return err
		}
		return withIssuer(cmd, func(is *issuer.Issuer, _ *issuer.Config) error {
			if err := is.VerifyAuthCredentialPresentation(gp, pres); err != nil {
				return err
			}
			cli.PrintArtifact(cmd, pres.GetUuidCiphertext())
			return nil
		})
	})

func init() {
	RootCmd.AddCommand(issueAuthCmd)
	RootCmd.AddCommand(verifyAuthCmd)
}
