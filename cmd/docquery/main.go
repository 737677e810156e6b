package main

import (
	"os"

	"github.com/custodia-labs/docquery-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
