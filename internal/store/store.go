package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Format version history:
// 1 - initial container layout (meta + zstd JSON sections)
const currentFormatVersion = 1

// Section names within a container.
const (
	sectionGrids     = "grids"
	sectionJoints    = "joints"
	sectionRevisions = "revisions"
)

// Container is an open world file.
type Container struct {
	db   *sql.DB
	path string
}

// Open opens an existing world container for reading. The file must
// exist - Open never creates one, so a typo'd input path fails loudly
// instead of yielding an empty world.
func Open(path string) (*Container, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	return open(path)
}

// Create creates a new world container at path for writing. The
// destination must be distinct from any input the caller still needs:
// unless overwrite is set, an existing file is refused rather than
// clobbered.
func Create(path string, overwrite bool) (*Container, error) {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return nil, fmt.Errorf("create container: %s already exists", path)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("create container: %w", err)
		}
	}
	return open(path)
}

func open(path string) (*Container, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Container{db: db, path: path}, nil
}

// Close closes the underlying database.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the file path the container was opened at.
func (c *Container) Path() string {
	return c.path
}

// FileSize returns the on-disk size of the container in bytes.
func (c *Container) FileSize() (int64, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return 0, fmt.Errorf("stat container: %w", err)
	}
	return info.Size(), nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
