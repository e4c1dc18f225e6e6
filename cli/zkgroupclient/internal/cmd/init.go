package cmd

import (
	"path"

	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup/application/wallet"
	"github.com/whisperfish/zkgroup/cli"
)

var initCmd = cli.NewInitCommand("zkgroup client", mkConfig)

func init() {
	RootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("dir", "d", ".",
		"Location of directory for storing generated files")
	initCmd.Flags().StringP("server-params", "s", "server.pub",
		"Path to the issuer's public params, relative to the config file")
}

func mkConfig(cmd *cobra.Command, args []string) {
	dir := cmd.Flag("dir").Value.String()
	conf := wallet.NewConfig(path.Join(dir, "config.toml"), "toml",
		"wallet", cmd.Flag("server-params").Value.String())
	if err := conf.Save(); err != nil {
		cmd.PrintErrln("Couldn't save config. Error message: [" + err.Error() + "]")
	}
}
