package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Armin-kho/satta-result-bot/internal/store"
)

var backupOut string

func init() {
	backupCmd.Flags().StringVarP(&backupOut, "out", "o", "", "destination file (default <data_dir>/backups/bot-<time>.db)")
	rootCmd.AddCommand(stateCmd, backupCmd)
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Prints the last-sent state as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.StateBackend, cfg.StateFile, log)
		if err != nil {
			return err
		}
		defer st.Close()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st.Load(cmd.Context()))
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup [--out <path>]",
	Short: "Snapshots the sqlite state database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.StateBackend, cfg.StateFile, log)
		if err != nil {
			return err
		}
		defer st.Close()

		out := backupOut
		if out == "" {
			dir := filepath.Join(cfg.DataDir, "backups")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			out = filepath.Join(dir, "bot-"+time.Now().Format("20060102-150405")+".db")
		}
		if err := store.Backup(cmd.Context(), st, out); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
		fmt.Println(out)
		return nil
	},
}
