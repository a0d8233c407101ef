package main

import (
	"os"

	"github.com/vitwit/onramp/cmd/onramp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
