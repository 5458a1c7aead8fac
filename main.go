package main

import (
	"os"

	"github.com/byterings/benv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(int(cmd.MapExitCode(err)))
	}
}
