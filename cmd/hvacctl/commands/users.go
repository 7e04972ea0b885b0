package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unclebandit/hvac-backend/internal/seed"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage dashboard users",
	}

	var firstName, lastName string
	createAdmin := &cobra.Command{
		Use:   "create-admin [email]",
		Short: "Create an admin account; the password is read from HVAC_ADMIN_PASSWORD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("HVAC_ADMIN_PASSWORD")
			if password == "" {
				return errors.New("HVAC_ADMIN_PASSWORD is not set")
			}

			a, closeApp, err := openApp()
			if err != nil {
				return err
			}
			defer closeApp()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			u, created, err := seed.EnsureAdmin(ctx, a.Users, args[0], password, firstName, lastName)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "User %s already exists (id %d, role %s)\n", u.Email, u.ID, u.Role)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d)\n", u.Email, u.ID)
			return nil
		},
	}
	createAdmin.Flags().StringVar(&firstName, "first-name", "Admin", "first name")
	createAdmin.Flags().StringVar(&lastName, "last-name", "User", "last name")

	cmd.AddCommand(createAdmin)
	return cmd
}
