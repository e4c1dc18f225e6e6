package cmd

import (
	"path"

	"github.com/spf13/cobra"
	"github.com/whisperfish/zkgroup/application"
	"github.com/whisperfish/zkgroup/application/issuer"
	"github.com/whisperfish/zkgroup/cli"
)

var initCmd = cli.NewInitCommand("zkgroup issuer", initRunFunc)

func init() {
	RootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("dir", "d", ".", "Location of directory for storing generated files")
}

func initRunFunc(cmd *cobra.Command, args []string) {
	dir := cmd.Flag("dir").Value.String()
	logger := &application.LoggerConfig{
		EnableStacktrace: true,
		Environment:      "development",
		Path:             "zkgroupserver.log",
	}
	conf := issuer.NewConfig(path.Join(dir, "config.toml"), "toml",
		"keystore", "server.pub", logger, issuer.DefaultPolicies())
	if err := conf.Save(); err != nil {
		cmd.PrintErrln(err)
	}
}
