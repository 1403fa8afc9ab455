package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs a single fetch and notify cycle, for cron or systemd timers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, log, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		out, err := app.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"day":          out.Day,
			"sent":         len(out.Sent),
			"saved":        out.Saved,
			"fetch_failed": out.FetchFailed,
			"skipped":      out.Skipped,
		}).Info("cycle done")
		return nil
	},
}
