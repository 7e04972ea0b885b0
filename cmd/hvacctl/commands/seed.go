package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unclebandit/hvac-backend/internal/logger"
	"github.com/unclebandit/hvac-backend/internal/seed"
)

func seedCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load seed/*.yaml into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := seed.LoadDir(dir)
			if err != nil {
				return err
			}

			a, closeApp, err := openApp()
			if err != nil {
				return err
			}
			defer closeApp()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			store := seed.Store{Settings: a.Settings, Services: a.Services, Testimonials: a.Testimonials, Users: a.Users}
			rep, err := seed.Apply(ctx, store, data, os.Getenv("SEED_ADMIN_PASSWORD"), logger.WithComponent("seed"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "settings=%d pages=%d services=%d testimonials=%d admin_created=%t\n",
				rep.Settings, rep.Pages, rep.Services, rep.Testimonials, rep.AdminCreated)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "seed", "directory of *.yaml seed files")
	return cmd
}
