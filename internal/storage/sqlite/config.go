package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cliftbar/mapviewer/internal/models"
	"github.com/cliftbar/mapviewer/internal/storage"
)

// LoadProfile returns the serialized config stored under name.
// Returns ErrProfileNotFound when the profile does not exist.
func (s *Storage) LoadProfile(ctx context.Context, name string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM config WHERE key = ?`, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return value, nil
}

// SaveProfile upserts the serialized config under name.
func (s *Storage) SaveProfile(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, name, data)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// ListProfiles returns all distinct stored profile names, sorted.
func (s *Storage) ListProfiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM config ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan profile name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return names, nil
}

// DeleteProfile removes a stored profile. The active "config" profile
// is protected and returns ErrProfileProtected.
func (s *Storage) DeleteProfile(ctx context.Context, name string) error {
	if name == models.ActiveProfile {
		return storage.ErrProfileProtected
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM config WHERE key = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
