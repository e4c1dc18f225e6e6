// Package cmd implements the CLI commands for a zkgroup client wallet.
package cmd

import (
	"github.com/whisperfish/zkgroup/cli"
)

// RootCmd represents the base "zkgroupclient" command when called without
// any subcommands (new-group, receive-auth, ...).
var RootCmd = cli.NewRootCommand("zkgroupclient",
	"zkgroup client wallet reference implementation in Go",
	`zkgroupclient keeps group master keys and credentials, and creates
presentations and encrypted group blobs.`)

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "config.toml", "Path to wallet configuration file")
}
