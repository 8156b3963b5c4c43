package main

import (
	"os"

	"exptracker/cmd/exptracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
