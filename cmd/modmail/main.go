package main

import (
	"os"

	"modmail/cmd/modmail/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
