package serverapp

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/OussamaSlimani/tasks/internal/config"
	"github.com/OussamaSlimani/tasks/internal/httpmw"
	"github.com/OussamaSlimani/tasks/internal/task"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
}

// NewHandler wires the store, service and routes into a single handler.
// The returned cleanup closes the backing store and must be called on
// shutdown.
func NewHandler(opts Options) (http.Handler, func() error, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	cfg := opts.Config

	var repo task.Repo
	cleanup := func() error { return nil }
	switch cfg.Storage.Backend {
	case config.BackendFile:
		fileRepo, err := task.NewFileRepo(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		repo = fileRepo
	case config.BackendBunt:
		buntRepo, err := task.NewBuntRepo(filepath.Join(cfg.Storage.Dir, "tasks.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("open document store: %w", err)
		}
		repo = buntRepo
		cleanup = buntRepo.Close
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	svc := task.NewService(repo, cfg)
	taskHandler := task.NewHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks", taskHandler.Actions)
	mux.HandleFunc("/api/events", taskHandler.Events)

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "tasks",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := repo.List(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "tasks",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	handler := httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	)
	return handler, cleanup, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
