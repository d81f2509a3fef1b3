package cli

import (
	"github.com/spf13/cobra"

	"github.com/OussamaSlimani/tasks/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "tasksd",
	Short:         "Weekly task tracker service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "tasks.yml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return config.FromEnv(cfg), nil
}
