package main

import (
	"fmt"
	"os"

	"github.com/nhle/clientdeck/cmd/clientdeck/commands"
)

func main() {
	rootCmd := commands.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
