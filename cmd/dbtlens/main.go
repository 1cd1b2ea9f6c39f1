// Package main provides the dbtlens CLI entrypoint.
package main

import (
	"os"

	"github.com/leapstack-labs/dbtlens/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
