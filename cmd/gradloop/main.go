package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gradloop",
		Short: "Run and differentiate bounded while loops",
		Long: `gradloop demonstrates bounded while loops over tensor states.

A loop keeps stepping while its condition holds, freezes its state once the
condition turns false, and always stops within a fixed step budget. Running
the same loop on a recording tape yields reverse-mode gradients of the result.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(sqrtCmd())
	cmd.AddCommand(gradcheckCmd())
	return cmd
}
