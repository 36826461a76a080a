package main

import (
	"fmt"
	"os"

	"github.com/abstract-horizon/pyrosd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if exit, ok := err.(*cmd.ExitError); ok {
			fmt.Fprintln(os.Stderr, "Error:", exit.Err)
			os.Exit(exit.Code)
		}

		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
