// Executable zkgroup credential issuer. See README for
// usage instructions.
package main

import (
	"github.com/whisperfish/zkgroup/cli"
	"github.com/whisperfish/zkgroup/cli/zkgroupserver/internal/cmd"
)

func main() {
	cli.ExecuteRoot(cmd.RootCmd)
}
