package main

import (
	"os"

	"github.com/gnolang/boolattack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
