package cmd

import (
	"github.com/whisperfish/zkgroup/cli"
)

var versionCmd = cli.NewVersionCommand("zkgroupserver")

func init() {
	RootCmd.AddCommand(versionCmd)
}
