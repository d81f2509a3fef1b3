package cli

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/OussamaSlimani/tasks/internal/serverapp"
)

var (
	serveAddr    string
	serveDataDir string
	serveBackend string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the task API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDataDir, "data", "", "data directory (overrides config)")
	serveCmd.Flags().StringVar(&serveBackend, "storage", "", `storage backend: "file" or "bunt" (overrides config)`)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveDataDir != "" {
		cfg.Storage.Dir = serveDataDir
	}
	if serveBackend != "" {
		cfg.Storage.Backend = serveBackend
	}

	handler, cleanup, err := serverapp.NewHandler(serverapp.Options{
		Config: cfg,
		Logger: log.Default(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("store close failed: %v", err)
		}
	}()

	log.Printf("tasks listening on %s (backend=%s, data=%s)",
		cfg.Server.Addr, cfg.Storage.Backend, cfg.Storage.Dir)
	return http.ListenAndServe(cfg.Server.Addr, handler)
}
