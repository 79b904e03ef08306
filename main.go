package main

import (
	"os"

	"github.com/cardpress/cardpress/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
