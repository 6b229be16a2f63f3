package cmd

import (
	"log"

	"tynda/config"
	"tynda/db"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample tracks and users",
	Long:  `Create the schema if needed and load the sample catalog: 25 tracks plus an admin and a test user account.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		conn, err := db.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer conn.Close()

		if err := db.InitDB(conn); err != nil {
			log.Fatalf("Failed to initialize database schema: %v", err)
		}

		if err := db.Seed(conn); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}

		log.Println("Database seeded successfully.")
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
