package main

import (
	"os"

	"github.com/metaphox/dhall-go/cmd/dhall-syntax/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
