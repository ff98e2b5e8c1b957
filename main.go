package main

import (
	"os"

	"github.com/railoptima/railoptima/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
