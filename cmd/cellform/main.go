package main

import (
	"os"

	"github.com/gridleaf-labs/cellform/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
