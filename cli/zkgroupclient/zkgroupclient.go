// Executable zkgroup client wallet. See README for
// usage instructions.
package main

import (
	"github.com/whisperfish/zkgroup/cli"
	"github.com/whisperfish/zkgroup/cli/zkgroupclient/internal/cmd"
)

func main() {
	cli.ExecuteRoot(cmd.RootCmd)
}
