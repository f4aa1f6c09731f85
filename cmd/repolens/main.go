package main

import (
	"os"

	"github.com/abramin/repolens/cmd/repolens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
