package main

import (
	"os"

	"github.com/theglitchis/mt4dash/cmd/mt4dash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
