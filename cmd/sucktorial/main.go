package main

import (
	"os"

	"github.com/deskhours/sucktorial/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
