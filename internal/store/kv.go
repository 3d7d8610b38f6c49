package store

import (
	"database/sql"
	"errors"
)

// Get returns the value under key and whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Set(key, value string) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	_, err := s.DB.Exec(query, key, value)
	return err
}

// Remove deletes key; removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	_, err := s.DB.Exec(`DELETE FROM local_storage WHERE key = ?`, key)
	return err
}
