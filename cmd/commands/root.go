package commands

import (
	"fmt"
	"os"

	"github.com/Kariqs/mebel-api/initializers"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "mebel-api",
	Short: "SVD Mebel storefront API",
	Long: `REST API for the SVD Mebel furniture store: accounts, catalog, cart and orders.

Configuration is read from the environment and an optional .env file.
JWT_SECRET must always be set.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and opens the database.
func bootstrap() (initializers.Config, *gorm.DB, error) {
	initializers.LoadEnv()

	cfg, err := initializers.LoadConfig()
	if err != nil {
		return cfg, nil, err
	}

	db, err := initializers.ConnectToDB(cfg.DB)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, db, nil
}
