package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/bootstrap/internal/cli"
	"github.com/arthur-debert/bootstrap/pkg/tui"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if cli.Interrupted(err) {
			os.Exit(tui.InterruptExitCode)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
