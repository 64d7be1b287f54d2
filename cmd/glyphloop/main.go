package main

import (
	"fmt"
	"os"

	"github.com/roach88/glyphloop/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "glyphloop:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
