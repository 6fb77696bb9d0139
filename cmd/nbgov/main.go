// Package main is the entry point for the nbgov CLI tool.
package main

import (
	"os"

	"github.com/aikit/nbgov/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
