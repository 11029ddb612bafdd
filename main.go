package main

import (
	"os"

	"github.com/applyforge/applyforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
