package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/warelight/warelight/internal/common"
	"github.com/warelight/warelight/internal/params"
)

// SummerModeKey is the settings key toggling heat-sensitive handling.
const SummerModeKey = "summer_mode"

// GetSetting returns the value for key, or common.ErrNotFound.
func (s *SQLiteStorage) GetSetting(ctx context.Context, key string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(key, "key"); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: setting %s", common.ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts one setting.
func (s *SQLiteStorage) SetSetting(ctx context.Context, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetCostParameters returns the latest stored parameter document and its
// revision. A database with no stored document yields the built-in defaults
// at revision 0.
func (s *SQLiteStorage) GetCostParameters(ctx context.Context) (params.Parameters, int, error) {
	if err := validateContext(ctx); err != nil {
		return params.Parameters{}, 0, err
	}

	var (
		document string
		revision int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT document, revision FROM cost_params
		ORDER BY revision DESC LIMIT 1
	`).Scan(&document, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return params.Default(), 0, nil
	}
	if err != nil {
		return params.Parameters{}, 0, fmt.Errorf("failed to get cost parameters: %w", err)
	}

	p, err := params.Parse([]byte(document))
	if err != nil {
		return params.Parameters{}, 0, fmt.Errorf("stored cost parameters at revision %d: %w", revision, err)
	}
	return p, revision, nil
}

// SaveCostParameters validates and appends a new parameter revision,
// returning the revision number. Old revisions are kept so audit snapshots
// stay reproducible.
func (s *SQLiteStorage) SaveCostParameters(ctx context.Context, p params.Parameters) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	document, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal cost parameters: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO cost_params (document, created_at) VALUES (?, ?)
	`, string(document), time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to save cost parameters: %w", err)
	}

	revision, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get parameter revision: %w", err)
	}
	return int(revision), nil
}

// GetSummerMode reports whether summer handling is enabled. Missing setting
// means off.
func (s *SQLiteStorage) GetSummerMode(ctx context.Context) (bool, error) {
	value, err := s.GetSetting(ctx, SummerModeKey)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// SetSummerMode toggles summer handling.
func (s *SQLiteStorage) SetSummerMode(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return s.SetSetting(ctx, SummerModeKey, value)
}
