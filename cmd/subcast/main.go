package main

import (
	"os"

	"github.com/subcast/subcast/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
