package cmd

import (
	"github.com/whisperfish/zkgroup/cli"
)

var versionCmd = cli.NewVersionCommand("zkgroupclient")

func init() {
	RootCmd.AddCommand(versionCmd)
}
