package main

import (
	"os"

	"github.com/skillgate/skillgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
