package main

import (
	"os"

	"github.com/zephyrtronium/rpncalc/cmd/rpncalc/commands"
)

func main() {
	// cobra prints the error.
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
