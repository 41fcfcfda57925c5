// Package cli wires cobra subcommands onto the doctor/analyze engine.
// Argument parsing, logging subscriber setup, and progress bars are this
// package's concern; the engine itself (internal/doctor, internal/analyze,
// internal/config) has no dependency on cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "scope",
	Short: "Check and fix developer machine health",
	Long:  "scope runs declared checks against the local environment, applies fixes when checks fail, and scans output for known error patterns.",
}

// Execute runs the root command, mapping returned errors to exit code 1.
// Subcommands that need a different exit code (doctor, analyze) call
// os.Exit themselves before returning.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scope %s\n", version)
	},
}
