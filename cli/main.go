package main

import (
	"fmt"
	"os"

	"github.com/trebuchet-org/treb-deployer/internal/cli"
	"github.com/trebuchet-org/treb-deployer/internal/cli/render"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := cli.Execute(rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		os.Exit(1)
	}
}
