package cmd

import (
	"tynda/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Tynda HTTP server",
	Long:  `Start the Tynda music catalog HTTP server, serving the JSON API and the static pages.`,
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func runServer() {
	server.Start()
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
