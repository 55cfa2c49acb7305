package main

import (
	"os"

	"github.com/arthur-debert/shellstrap/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
