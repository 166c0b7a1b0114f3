package commands

import (
	"github.com/Kariqs/mebel-api/initializers"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootstrap()
		if err != nil {
			return err
		}
		return initializers.SyncDatabase(db)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
