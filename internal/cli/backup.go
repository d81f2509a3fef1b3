package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/OussamaSlimani/tasks/internal/ops"
)

var backupOut string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Archive the data directory to a tar.gz snapshot",
	RunE:  runBackup,
}

func init() {
	backupCmd.Flags().StringVarP(&backupOut, "out", "o", "", "archive path (default tasks-backup-<timestamp>.tar.gz)")
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := backupOut
	if out == "" {
		out = fmt.Sprintf("tasks-backup-%s.tar.gz", time.Now().UTC().Format("20060102T150405"))
	}
	if err := ops.Snapshot(cfg.Storage.Dir, out); err != nil {
		return err
	}
	fmt.Printf("backed up %s to %s\n", cfg.Storage.Dir, out)
	return nil
}
