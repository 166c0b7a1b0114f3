package commands

import (
	"fmt"

	"github.com/Kariqs/mebel-api/models"
	"github.com/Kariqs/mebel-api/services"
	"github.com/spf13/cobra"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Create an administrator account regardless of ALLOW_ADMIN_SIGNUP.

Examples:
  mebel-api create-admin --email admin@svd-mebel.ru --password s3cret --name Admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}

		auth := services.NewAuthService(db, services.AuthOptions{Secret: cfg.JWTSecret, AllowAdminSignup: true})
		user, err := auth.Register(cmd.Context(), models.RegisterData{
			Name:     adminName,
			Email:    adminEmail,
			Password: adminPassword,
			Role:     models.RoleAdmin,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created with id %d\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Login email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Login password")
	createAdminCmd.MarkFlagRequired("email")
	createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
