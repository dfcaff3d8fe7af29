package main

import (
	"os"

	"github.com/ThomasCrouzet/stackctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
