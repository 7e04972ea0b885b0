package main

import (
	"os"

	"github.com/unclebandit/hvac-backend/cmd/hvacctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
