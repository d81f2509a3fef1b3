package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OussamaSlimani/tasks/internal/ops"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <archive>",
	Short: "Restore the data directory from a backup archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := ops.Restore(args[0], cfg.Storage.Dir); err != nil {
		return err
	}
	fmt.Printf("restored %s into %s\n", args[0], cfg.Storage.Dir)
	return nil
}
