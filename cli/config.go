package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schemapad/schemapad/daemon"
	"github.com/schemapad/schemapad/store"
)

// loadDaemonConfig resolves and loads the yaml config, falling back to the
// defaults when no file is found.
func loadDaemonConfig(cmd *cobra.Command) (daemon.Config, error) {
	explicit, _ := cmd.Flags().GetString("config")
	path, found, err := daemon.DiscoverConfigPath(explicit)
	if err != nil {
		return daemon.Config{}, exitError(exitConfig, "%v", err)
	}
	if !found {
		return daemon.DefaultConfig(), nil
	}
	cfg, err := daemon.LoadConfig(path)
	if err != nil {
		return daemon.Config{}, exitError(exitConfig, "%v", err)
	}
	return cfg, nil
}

// resolveSQLiteDSN picks the document database location: the --sqlite-path
// flag, then SCHEMAPAD_SQLITE_PATH, then the config file, then
// ~/.schemapad/schemapad.db.
func resolveSQLiteDSN(cmd *cobra.Command, cfg daemon.Config) (string, error) {
	sqlitePath, _ := cmd.Flags().GetString("sqlite-path")
	dsn := strings.TrimSpace(sqlitePath)
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("SCHEMAPAD_SQLITE_PATH"))
	}
	if dsn == "" {
		dsn = strings.TrimSpace(cfg.SQLitePath)
	}
	if dsn == "" {
		defaultPath, err := store.DefaultSQLitePath()
		if err != nil {
			return "", fmt.Errorf("resolving default sqlite path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(defaultPath), 0o755); err != nil {
			return "", fmt.Errorf("creating data directory: %w", err)
		}
		dsn = defaultPath
	}
	if !strings.HasPrefix(strings.ToLower(dsn), "file:") {
		dsn = filepath.Clean(dsn)
	}
	return dsn, nil
}

// openDocumentStore opens the SQLite document store for a command.
func openDocumentStore(cmd *cobra.Command, cfg daemon.Config) (*store.SQLiteStore, error) {
	dsn, err := resolveSQLiteDSN(cmd, cfg)
	if err != nil {
		return nil, err
	}
	st, err := store.NewSQLiteStore(store.SQLiteStoreConfig{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite document store: %w", err)
	}
	return st, nil
}

// resolveDocumentID picks the document id: the --document-id flag, then the
// config file, then "default".
func resolveDocumentID(cmd *cobra.Command, cfg daemon.Config) string {
	id, _ := cmd.Flags().GetString("document-id")
	if strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	if strings.TrimSpace(cfg.DocumentID) != "" {
		return strings.TrimSpace(cfg.DocumentID)
	}
	return "default"
}
