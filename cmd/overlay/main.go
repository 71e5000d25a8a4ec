package main

import (
	"fmt"
	"os"

	"github.com/overlay-lang/overlay/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "overlay: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
