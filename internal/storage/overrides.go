package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/warelight/warelight/internal/model"
)

// GetCategoryDefaults returns every category default, active or not.
func (s *SQLiteStorage) GetCategoryDefaults(ctx context.Context) ([]model.CategoryDefault, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category_code, active, attributes, notes, updated_at
		FROM category_defaults ORDER BY category_code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category defaults: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var defaults []model.CategoryDefault
	for rows.Next() {
		var (
			def   model.CategoryDefault
			attrs string
			notes sql.NullString
		)
		if err := rows.Scan(&def.CategoryCode, &def.Active, &attrs, &notes, &def.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category default: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &def.Attributes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attributes for category %s: %w", def.CategoryCode, err)
		}
		def.Notes = notes.String
		defaults = append(defaults, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category defaults: %w", err)
	}
	return defaults, nil
}

// SaveCategoryDefault upserts one category default.
func (s *SQLiteStorage) SaveCategoryDefault(ctx context.Context, def *model.CategoryDefault) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if def == nil {
		return fmt.Errorf("%w: default", ErrNilParameter)
	}
	if err := validateString(def.CategoryCode, "categoryCode"); err != nil {
		return err
	}

	attrs, err := json.Marshal(def.Attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal attributes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO category_defaults (category_code, active, attributes, notes, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(category_code) DO UPDATE SET
			active = excluded.active,
			attributes = excluded.attributes,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, def.CategoryCode, def.Active, string(attrs), def.Notes, touchTime(def.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save category default %s: %w", def.CategoryCode, err)
	}
	return nil
}

// GetItemOverrides returns every item override, active or not.
func (s *SQLiteStorage) GetItemOverrides(ctx context.Context) ([]model.ItemOverride, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_code, active, attributes, notes, updated_at
		FROM item_overrides ORDER BY item_code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query item overrides: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var overrides []model.ItemOverride
	for rows.Next() {
		var (
			ovr   model.ItemOverride
			attrs string
			notes sql.NullString
		)
		if err := rows.Scan(&ovr.ItemCode, &ovr.Active, &attrs, &notes, &ovr.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item override: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &ovr.Attributes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attributes for item %s: %w", ovr.ItemCode, err)
		}
		ovr.Notes = notes.String
		overrides = append(overrides, ovr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item overrides: %w", err)
	}
	return overrides, nil
}

// SaveItemOverride upserts one item override.
func (s *SQLiteStorage) SaveItemOverride(ctx context.Context, override *model.ItemOverride) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if override == nil {
		return fmt.Errorf("%w: override", ErrNilParameter)
	}
	if err := validateString(override.ItemCode, "itemCode"); err != nil {
		return err
	}

	attrs, err := json.Marshal(override.Attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal attributes: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO item_overrides (item_code, active, attributes, notes, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(item_code) DO UPDATE SET
			active = excluded.active,
			attributes = excluded.attributes,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, override.ItemCode, override.Active, string(attrs), override.Notes, touchTime(override.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save item override %s: %w", override.ItemCode, err)
	}
	return nil
}
