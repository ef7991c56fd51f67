// Command slireport generates SLI compliance reports for a managed
// cluster fleet.
package main

import (
	"fmt"
	"os"

	"github.com/fleetwatch/slireport/cmd"
	"github.com/fleetwatch/slireport/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		iocache.CloseCaching()
		os.Exit(1)
	}
}
