package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// OpenReadOnly opens the SQLite file at path for reading. Every statement is
// logged at debug level through logger.
func OpenReadOnly(path string, logger *slog.Logger) (*sql.DB, error) {
	// sqlite would happily create an empty database for a missing file.
	if _, err := os.Stat(filePart(path)); err != nil {
		return nil, fmt.Errorf("db stat: %w", err)
	}

	connector, err := NewLoggingConnector(buildDSN(path), logger)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db := sql.OpenDB(connector)

	// A render pass reads sequentially on one goroutine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

// OpenReadWrite opens or creates the SQLite file at path for writing.
func OpenReadWrite(path string, logger *slog.Logger) (*sql.DB, error) {
	connector, err := NewLoggingConnector(buildWriteDSN(path), logger)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func filePart(path string) string {
	p := strings.TrimPrefix(path, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}

func buildDSN(path string) string {
	return withParams(path, []string{
		"mode=ro",
		"_busy_timeout=5000",
		"_query_only=true",
	})
}

func buildWriteDSN(path string) string {
	return withParams(path, []string{
		"mode=rwc",
		"_busy_timeout=5000",
		// Rollback journal so read-only opens never need the -shm file.
		"_journal_mode=DELETE",
	})
}

func withParams(path string, params []string) string {
	// If caller provided something like "file:/data/day.db?x=y" as path, don't double-wrap
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&")
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&"))
}
