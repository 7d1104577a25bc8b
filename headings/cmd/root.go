// Package cmd provides the command-line interface for the heading
// animation service.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "headings",
	Short: "Headings animates the rotation of map markers.",
	Long: `Headings animates the heading of many independent map markers, ` +
		`smoothing each one toward periodically changing target angles. ` +
		`It can expose a monitoring server for live inspection and record ` +
		`every processed tick into an SQLite database.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
