package main

import (
	"os"

	"signup/cmd/accountctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
