package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetConfigValue reads one app setting; ErrNotFound when the key is unset.
func (s *Store) GetConfigValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM app_config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read config %q: %w", key, err)
	}
	return value, nil
}

// SetConfigValue upserts one app setting.
func (s *Store) SetConfigValue(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO app_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write config %q: %w", key, err)
	}
	return nil
}
