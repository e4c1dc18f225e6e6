// Package cmd implements the CLI commands for a zkgroup issuer.
package cmd

import (
	"github.com/whisperfish/zkgroup/cli"
)

// RootCmd represents the base "zkgroupserver" command when called without any subcommands.
var RootCmd = cli.NewRootCommand("zkgroupserver",
	"zkgroup credential issuer reference implementation in Go",
	`zkgroupserver issues anonymous credentials and verifies their
presentations. Run "zkgroupserver init" and then "zkgroupserver keygen"
to set up a new issuer.`)

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "config.toml", "Path to issuer configuration file")
}
