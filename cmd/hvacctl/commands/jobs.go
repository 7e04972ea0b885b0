package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unclebandit/hvac-backend/internal/scheduler"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run scheduled jobs by hand",
	}

	run := &cobra.Command{
		Use:       "run [" + scheduler.CleanupTask + "|" + scheduler.RemindersTask + "]",
		Short:     "Run one scheduled job now and print its result",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{scheduler.CleanupTask, scheduler.RemindersTask},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeApp, err := openApp()
			if err != nil {
				return err
			}
			defer closeApp()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			var result interface{}
			switch args[0] {
			case scheduler.CleanupTask:
				result, err = a.Cleanup().Run(ctx)
			case scheduler.RemindersTask:
				result, err = a.Reminders().Run(ctx)
			default:
				return fmt.Errorf("unknown job %q", args[0])
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.AddCommand(run)
	return cmd
}
