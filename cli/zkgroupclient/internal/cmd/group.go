package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup/application/wallet"
	"github.com/whisperfish/zkgroup/cli"
)

var newGroupCmd = cli.NewOperationCommand("new-group NAME",
	"Create a group and print its master key.", 1,
	func(cmd *cobra.Command, args []string) error {
		return withWallet(cmd, func(w *wallet.Wallet) error {
			gsp, err := w.NewGroup(args[0])
			if err != nil {
				return err
			}
			cli.PrintArtifact(cmd, gsp.GetMasterKey())
			return nil
		})
	})

var groupPublicCmd = cli.NewOperationCommand("group-public NAME",
	"Print the public params of a group.", 1,
	func(cmd *cobra.Command, args []string) error {
		return withWallet(cmd, func(w *wallet.Wallet) error {
			gsp, err := w.Group(args[0])
			if err != nil {
				return err
			}
			cli.PrintArtifact(cmd, gsp.GetPublicParams())
			return nil
		})
	})

var encryptBlobCmd = cli.NewOperationCommand("encrypt-blob NAME PLAINTEXT",
	"Encrypt a blob for a group.", 2,
	func(cmd *cobra.Command, args []string) error {
		return withWallet(cmd, func(w *wallet.Wallet) error {
			blob, err := w.EncryptBlob(args[0], []byte(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(blob))
			return nil
		})
	})

var decryptBlobCmd = cli.NewOperationCommand("decrypt-blob NAME BLOB",
	"Decrypt a group blob.", 2,
	func(cmd *cobra.Command, args []string) error {
		blob, err := cli.ArtifactArg(cmd, args[1])
		if err != nil {
			return err
		}
		return withWallet(cmd, func(w *wallet.Wallet) error {
			plaintext, err := w.DecryptBlob(args[0], blob)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(plaintext))
			return nil
		})
	})

func init() {
	RootCmd.AddCommand(newGroupCmd)
	RootCmd.AddCommand(groupPublicCmd)
	RootCmd.AddCommand(encryptBlobCmd)
	RootCmd.AddCommand(decryptBlobCmd)
}
