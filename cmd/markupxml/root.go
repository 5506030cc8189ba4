package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "markupxml",
	Short: "Parse, query, and format XML and lenient HTML documents",
	Long: `markupxml parses XML and lenient HTML byte streams into an
in-memory element tree, serializes trees back to bytes, and evaluates
a compact XPath-like query language over them.`,
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
