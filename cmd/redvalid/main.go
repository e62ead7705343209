package main

import (
	"os"

	"redvalid/cmd/redvalid/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
