package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/warelight/warelight/internal/model"
)

const itemColumns = `code, name, category_code, brand_code, attribute_codes,
	width_cm, height_cm, depth_cm, weight_kg, piece_count, active,
	unit_type, spill_risk, fragility, pressure_sensitivity, stackability,
	temperature_sensitivity, shape_type, pick_difficulty, shelf_height,
	box_fit_rule, zone, confidence, source, notes, evidence, classified_at`

// SaveItems upserts raw item rows. Classification columns are left alone on
// conflict: the sync process owns the raw signals, the engine owns the rest.
func (s *SQLiteStorage) SaveItems(ctx context.Context, items []model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateItems(items); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range items {
		item := &items[i]
		codes, err := json.Marshal(item.AttributeCodes)
		if err != nil {
			return fmt.Errorf("failed to marshal attribute codes for %s: %w", item.Code, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO items (code, name, category_code, brand_code, attribute_codes,
				width_cm, height_cm, depth_cm, weight_kg, piece_count, active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(code) DO UPDATE SET
				name = excluded.name,
				category_code = excluded.category_code,
				brand_code = excluded.brand_code,
				attribute_codes = excluded.attribute_codes,
				width_cm = excluded.width_cm,
				height_cm = excluded.height_cm,
				depth_cm = excluded.depth_cm,
				weight_kg = excluded.weight_kg,
				piece_count = excluded.piece_count,
				active = excluded.active
		`, item.Code, item.Name, item.CategoryCode, item.BrandCode, string(codes),
			item.WidthCM, item.HeightCM, item.DepthCM, item.WeightKG, item.PieceCount, item.Active)
		if err != nil {
			return fmt.Errorf("failed to save item %s: %w", item.Code, err)
		}
	}

	return tx.Commit()
}

// GetActiveItems returns every active item with its stored classification.
func (s *SQLiteStorage) GetActiveItems(ctx context.Context) ([]model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE active = 1 ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanItems(rows)
}

// GetItemByCode returns one item, or nil if the code is unknown.
func (s *SQLiteStorage) GetItemByCode(ctx context.Context, code string) (*model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(code, "code"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE code = ?`, code)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %s: %w", code, err)
	}
	return item, nil
}

// GetItemsNeedingReview returns active items whose confidence is below the
// threshold or that have an unresolved critical attribute. The filter
// mirrors Item.NeedsReview so the queue never drifts from the stored rows.
func (s *SQLiteStorage) GetItemsNeedingReview(ctx context.Context, threshold int) ([]model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE active = 1 AND (
			confidence < ?
			OR fragility IS NULL
			OR spill_risk IS NULL
			OR pressure_sensitivity IS NULL
			OR temperature_sensitivity IS NULL
			OR box_fit_rule IS NULL
		)
		ORDER BY confidence ASC, code
	`, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query review queue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanItems(rows)
}

// UpdateItemClassification writes the engine-owned classification columns.
func (s *SQLiteStorage) UpdateItemClassification(ctx context.Context, item *model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateItem(item); err != nil {
		return err
	}

	evidence, err := json.Marshal(item.Evidence)
	if err != nil {
		return fmt.Errorf("failed to marshal evidence for %s: %w", item.Code, err)
	}

	c := item.Class
	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET
			unit_type = ?, spill_risk = ?, fragility = ?, pressure_sensitivity = ?,
			stackability = ?, temperature_sensitivity = ?, shape_type = ?,
			pick_difficulty = ?, shelf_height = ?, box_fit_rule = ?, zone = ?,
			confidence = ?, source = ?, notes = ?, evidence = ?, classified_at = ?
		WHERE code = ?
	`, strPtr(c.UnitType), c.SpillRisk, strPtr(c.Fragility), strPtr(c.PressureSensitivity),
		strPtr(c.Stackability), strPtr(c.TemperatureSensitivity), strPtr(c.ShapeType),
		c.PickDifficulty, strPtr(c.ShelfHeight), strPtr(c.BoxFitRule), strPtr(c.Zone),
		item.Confidence, string(item.Source), item.Notes, string(evidence), item.ClassifiedAt,
		item.Code)
	if err != nil {
		return fmt.Errorf("failed to update classification for %s: %w", item.Code, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: item %s", ErrInvalidItem, item.Code)
	}
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for the shared scan code.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

func scanItem(row rowScanner) (*model.Item, error) {
	var (
		item         model.Item
		codes        sql.NullString
		unitType     sql.NullString
		spillRisk    sql.NullBool
		fragility    sql.NullString
		pressure     sql.NullString
		stackability sql.NullString
		temperature  sql.NullString
		shape        sql.NullString
		difficulty   sql.NullInt64
		shelf        sql.NullString
		boxFit       sql.NullString
		zone         sql.NullString
		source       sql.NullString
		notes        sql.NullString
		evidence     sql.NullString
		classifiedAt sql.NullTime
		categoryCode sql.NullString
		brandCode    sql.NullString
	)

	err := row.Scan(
		&item.Code, &item.Name, &categoryCode, &brandCode, &codes,
		&item.WidthCM, &item.HeightCM, &item.DepthCM, &item.WeightKG, &item.PieceCount, &item.Active,
		&unitType, &spillRisk, &fragility, &pressure, &stackability,
		&temperature, &shape, &difficulty, &shelf,
		&boxFit, &zone, &item.Confidence, &source, &notes, &evidence, &classifiedAt,
	)
	if err != nil {
		return nil, err
	}

	item.CategoryCode = categoryCode.String
	item.BrandCode = brandCode.String
	item.Source = model.Source(source.String)
	item.Notes = notes.String
	if classifiedAt.Valid {
		item.ClassifiedAt = classifiedAt.Time
	}
	if codes.Valid && codes.String != "" {
		if err := json.Unmarshal([]byte(codes.String), &item.AttributeCodes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attribute codes for %s: %w", item.Code, err)
		}
	}
	if evidence.Valid && evidence.String != "" {
		if err := json.Unmarshal([]byte(evidence.String), &item.Evidence); err != nil {
			return nil, fmt.Errorf("failed to unmarshal evidence for %s: %w", item.Code, err)
		}
	}

	item.Class = model.ItemClass{
		UnitType:               enumPtr[model.UnitType](unitType),
		Fragility:              enumPtr[model.Fragility](fragility),
		PressureSensitivity:    enumPtr[model.PressureSensitivity](pressure),
		Stackability:           enumPtr[model.Stackability](stackability),
		TemperatureSensitivity: enumPtr[model.TemperatureSensitivity](temperature),
		ShapeType:              enumPtr[model.ShapeType](shape),
		ShelfHeight:            enumPtr[model.ShelfHeight](shelf),
		BoxFitRule:             enumPtr[model.BoxFitRule](boxFit),
		Zone:                   enumPtr[model.Zone](zone),
	}
	if spillRisk.Valid {
		v := spillRisk.Bool
		item.Class.SpillRisk = &v
	}
	if difficulty.Valid {
		v := int(difficulty.Int64)
		item.Class.PickDifficulty = &v
	}

	return &item, nil
}

// strPtr converts an enum pointer to a nullable driver string.
func strPtr[T ~string](p *T) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

// enumPtr converts a nullable column back into an enum pointer.
func enumPtr[T ~string](ns sql.NullString) *T {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	v := T(ns.String)
	return &v
}

// touchTime returns t, or now if t is zero. Used when stamping rows whose
// caller did not set an explicit time.
func touchTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
