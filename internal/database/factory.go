package database

import (
	"fmt"
	"os"
	"path/filepath"

	"aw-go/internal/aw"
	"aw-go/internal/config"
)

// dbFileName is the SQLite database file kept under the data directory.
const dbFileName = "aw.db"

// NewDatabaseFromConfig creates a Database implementation based on the database config type.
// The schema is migrated to the latest version on open.
func NewDatabaseFromConfig(cfg config.DatabaseConfig) (aw.Database, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return openAndMigrate(filepath.Join(cfg.DataDir, dbFileName))
	case "memory":
		return openAndMigrate(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

func openAndMigrate(path string) (*SQLiteDatabase, error) {
	db, err := NewSQLiteDatabase(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}
