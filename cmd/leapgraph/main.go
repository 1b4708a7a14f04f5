// Package main is the entry point for the leapgraph CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapgraph/internal/cli"
	// Import provisioner packages to ensure provisioners are registered via init()
	_ "github.com/leapstack-labs/leapgraph/internal/provision/local"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
