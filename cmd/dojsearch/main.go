package main

import (
	"os"

	"github.com/doj-tools/dojsearch/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
