package main

import (
	"fmt"
	"os"

	"go.followtheprocess.codes/lox/internal/cmd"
	"go.followtheprocess.codes/lox/internal/lox"
)

func main() {
	root, err := cmd.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := root.Execute(); err != nil {
		os.Exit(lox.ExitCode(err))
	}
}
