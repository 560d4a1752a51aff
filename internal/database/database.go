package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/taskboard/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrPersistentDSN is returned for a DSN that would store the feed on disk.
var ErrPersistentDSN = errors.New("feed database must be in-memory")

// IsMemoryDSN reports whether dsn names an SQLite in-memory database, either
// ":memory:" or a "file::memory:" URI.
func IsMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:")
}

// Options controls how the feed database is opened.
type Options struct {
	DSN      string
	LogLevel logger.LogLevel
}

// Connect opens the in-process SQLite database that backs the comment and
// activity feeds. The default DSN is memory-only; nothing outlives the
// process.
func Connect(opts Options) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("empty database dsn")
	}
	if !IsMemoryDSN(opts.DSN) {
		return nil, fmt.Errorf("%w: %q", ErrPersistentDSN, opts.DSN)
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}

	db, err := gorm.Open(sqlite.Open(opts.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	// Each SQLite :memory: connection is its own database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	log.Info().Str("dsn", opts.DSN).Msg("database connection established")
	return db, nil
}

// Migrate creates the feed tables and their indexes
func Migrate(db *gorm.DB) error {
	log.Debug().Msg("running database migrations")
	err := db.AutoMigrate(
		&models.Comment{},
		&models.Activity{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Debug().Msg("database migrations completed")
	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
