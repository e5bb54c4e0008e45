package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/warelight/warelight/internal/model"
)

// SaveClassificationRun appends one run record and fills in its ID.
func (s *SQLiteStorage) SaveClassificationRun(ctx context.Context, run *model.ClassificationRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO classification_runs
			(started_at, finished_at, run_by, threshold, summer_mode,
			 items_scanned, items_updated, items_need_review, items_failed, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.StartedAt, run.FinishedAt, run.RunBy, run.Threshold, run.SummerMode,
		run.ItemsScanned, run.ItemsUpdated, run.ItemsNeedReview, run.ItemsFailed, run.Notes)
	if err != nil {
		return fmt.Errorf("failed to save classification run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run ID: %w", err)
	}
	run.ID = id
	return nil
}

// ListClassificationRuns returns the most recent runs, newest first.
func (s *SQLiteStorage) ListClassificationRuns(ctx context.Context, limit int) ([]model.ClassificationRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, run_by, threshold, summer_mode,
			items_scanned, items_updated, items_need_review, items_failed, notes
		FROM classification_runs
		ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query classification runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.ClassificationRun
	for rows.Next() {
		var (
			run   model.ClassificationRun
			runBy sql.NullString
			notes sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &runBy, &run.Threshold,
			&run.SummerMode, &run.ItemsScanned, &run.ItemsUpdated, &run.ItemsNeedReview,
			&run.ItemsFailed, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan classification run: %w", err)
		}
		run.RunBy = runBy.String
		run.Notes = notes.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classification runs: %w", err)
	}
	return runs, nil
}

// SaveEstimateRun appends one estimate audit snapshot and its lines in a
// single transaction.
func (s *SQLiteStorage) SaveEstimateRun(ctx context.Context, run *model.EstimateRun, lines []model.EstimateLine) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if err := validateString(run.OrderNumber, "orderNumber"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO estimate_runs
			(order_number, estimator_version, params_revision, params_snapshot,
			 breakdown, reason, total_seconds, travel_seconds, pick_seconds,
			 pack_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.OrderNumber, run.EstimatorVersion, run.ParamsRevision, run.ParamsSnapshot,
		run.BreakdownJSON, run.Reason, run.TotalSeconds, run.TravelSeconds,
		run.PickSeconds, run.PackSeconds, touchTime(run.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save estimate run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run ID: %w", err)
	}
	run.ID = id

	for i := range lines {
		line := &lines[i]
		line.RunID = id
		_, err := tx.ExecContext(ctx, `
			INSERT INTO estimate_lines
				(run_id, order_number, item_code, location, unit_type,
				 quantity, pick_seconds, walk_seconds, total_seconds)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, line.RunID, line.OrderNumber, line.ItemCode, line.Location, line.UnitType,
			line.Quantity, line.PickSeconds, line.WalkSeconds, line.TotalSeconds)
		if err != nil {
			return fmt.Errorf("failed to save estimate line: %w", err)
		}
	}

	return tx.Commit()
}

// ListEstimateRuns returns recent audit snapshots, newest first. An empty
// orderNumber lists runs across all orders.
func (s *SQLiteStorage) ListEstimateRuns(ctx context.Context, orderNumber string, limit int) ([]model.EstimateRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, order_number, estimator_version, params_revision, params_snapshot,
			breakdown, reason, total_seconds, travel_seconds, pick_seconds,
			pack_seconds, created_at
		FROM estimate_runs`
	args := []any{}
	if orderNumber != "" {
		query += ` WHERE order_number = ?`
		args = append(args, orderNumber)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query estimate runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.EstimateRun
	for rows.Next() {
		var (
			run       model.EstimateRun
			breakdown sql.NullString
			reason    sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.OrderNumber, &run.EstimatorVersion, &run.ParamsRevision,
			&run.ParamsSnapshot, &breakdown, &reason, &run.TotalSeconds, &run.TravelSeconds,
			&run.PickSeconds, &run.PackSeconds, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan estimate run: %w", err)
		}
		run.BreakdownJSON = breakdown.String
		run.Reason = reason.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate estimate runs: %w", err)
	}
	return runs, nil
}
