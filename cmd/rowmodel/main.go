// Command rowmodel demonstrates the query-based record layer against a
// postgres or sqlite target.
package main

import (
	"os"

	"github.com/leapstack-labs/rowmodel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
