package commands

import (
	"context"
	"database/sql"
	"time"

	"github.com/spf13/cobra"

	"github.com/unclebandit/hvac-backend/internal/app"
	"github.com/unclebandit/hvac-backend/internal/config"
	"github.com/unclebandit/hvac-backend/internal/db"
	"github.com/unclebandit/hvac-backend/internal/logger"
	"github.com/unclebandit/hvac-backend/internal/mailer"
	"github.com/unclebandit/hvac-backend/internal/queue"
)

var (
	cfg     *config.Config
	timeout time.Duration
	logJSON bool
)

func Execute() error {
	root := &cobra.Command{
		Use:           "hvacctl",
		Short:         "Operations tool for the HVAC backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			format := c.Log.Format
			if logJSON {
				format = "json"
			}
			logger.Configure(c.Log.Level, format)
			cfg = c
			return nil
		},
	}

	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "abort the command after this long")
	root.PersistentFlags().BoolVar(&logJSON, "json", false, "log as JSON")

	root.AddCommand(migrateCmd(), jobsCmd(), usersCmd(), seedCmd())
	return root.Execute()
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func openDB() (*sql.DB, error) {
	return db.Open(cfg.Database)
}

// openApp wires the application over a fresh connection. Emails go
// straight to the configured sender.
func openApp() (*app.App, func(), error) {
	conn, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(cfg, conn, queue.NewInMemoryQueue(), mailer.NewSender(cfg.Email))
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return a, func() { conn.Close() }, nil
}
