package store

import (
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is the console's client-local persistent storage: a small SQLite
// key/value table, the CLI counterpart of a browser's localStorage.
type Store struct {
	DB *sql.DB
}

// Open opens (creating if needed) the database at dataSourceName and
// applies pending migrations.
func Open(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{DB: db}
	if err := s.Migrate(migrations, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
