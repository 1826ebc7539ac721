package main

import (
	"os"

	"github.com/lemmego/patterns/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
