package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/billbook/billbook/internal/ledger"
	"github.com/billbook/billbook/internal/server"
	"github.com/billbook/billbook/internal/storage"
	"github.com/billbook/billbook/internal/storage/jsonfile"
	"github.com/billbook/billbook/internal/storage/sqlite"
	"github.com/billbook/billbook/pkg/logging"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	backend, err := newBackend(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer backend.Close()
	slog.Info("Storage initialized", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	store := ledger.New(backend)

	srv := server.New(server.Config{
		Store:       store,
		CORSOrigins: cfg.CORSOrigins,
		StaticPath:  cfg.StaticPath,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := srv.Run(addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// newBackend constructs the configured snapshot backend inside the data
// directory.
func newBackend(cfg *config) (storage.Snapshotter, error) {
	switch cfg.Backend {
	case backendSQLite:
		return sqlite.New(filepath.Join(cfg.DataDir, "billbook.db"))
	default:
		return jsonfile.New(filepath.Join(cfg.DataDir, "database.json"))
	}
}
