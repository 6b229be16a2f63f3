package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tynda",
	Short: "Tynda is a music track catalog service.",
	Run: func(cmd *cobra.Command, args []string) {
		// Running without a subcommand starts the server, same as "tynda server".
		runServer()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
