package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: items, defaults, overrides, runs",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS items (
					code TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					category_code TEXT,
					brand_code TEXT,
					attribute_codes TEXT,
					width_cm REAL DEFAULT 0,
					height_cm REAL DEFAULT 0,
					depth_cm REAL DEFAULT 0,
					weight_kg REAL DEFAULT 0,
					piece_count INTEGER DEFAULT 0,
					active BOOLEAN DEFAULT 1,
					unit_type TEXT,
					spill_risk BOOLEAN,
					fragility TEXT,
					pressure_sensitivity TEXT,
					stackability TEXT,
					temperature_sensitivity TEXT,
					shape_type TEXT,
					pick_difficulty INTEGER,
					shelf_height TEXT,
					box_fit_rule TEXT,
					zone TEXT,
					confidence INTEGER DEFAULT 0,
					source TEXT,
					notes TEXT,
					evidence TEXT,
					classified_at DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_items_category ON items(category_code)`,
				`CREATE INDEX idx_items_active ON items(active)`,
				`CREATE INDEX idx_items_confidence ON items(confidence)`,

				`CREATE TABLE IF NOT EXISTS category_defaults (
					category_code TEXT PRIMARY KEY,
					active BOOLEAN DEFAULT 1,
					attributes TEXT NOT NULL,
					notes TEXT,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS item_overrides (
					item_code TEXT PRIMARY KEY,
					active BOOLEAN DEFAULT 1,
					attributes TEXT NOT NULL,
					notes TEXT,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS classification_runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					started_at DATETIME NOT NULL,
					finished_at DATETIME,
					run_by TEXT,
					threshold INTEGER NOT NULL,
					summer_mode BOOLEAN DEFAULT 0,
					items_scanned INTEGER DEFAULT 0,
					items_updated INTEGER DEFAULT 0,
					items_need_review INTEGER DEFAULT 0,
					items_failed INTEGER DEFAULT 0,
					notes TEXT
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Orders and estimate audit tables",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS orders (
					number TEXT PRIMARY KEY,
					expected_minutes REAL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS order_lines (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					order_number TEXT NOT NULL,
					line_no INTEGER NOT NULL,
					item_code TEXT NOT NULL,
					location TEXT,
					zone TEXT,
					unit_type TEXT,
					quantity INTEGER DEFAULT 1,
					expected_seconds REAL DEFAULT 0,
					FOREIGN KEY (order_number) REFERENCES orders(number) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_order_lines_order ON order_lines(order_number)`,

				`CREATE TABLE IF NOT EXISTS estimate_runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					order_number TEXT NOT NULL,
					estimator_version TEXT NOT NULL,
					params_revision INTEGER DEFAULT 0,
					params_snapshot TEXT NOT NULL,
					breakdown TEXT,
					reason TEXT,
					total_seconds REAL DEFAULT 0,
					travel_seconds REAL DEFAULT 0,
					pick_seconds REAL DEFAULT 0,
					pack_seconds REAL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_estimate_runs_order ON estimate_runs(order_number)`,

				`CREATE TABLE IF NOT EXISTS estimate_lines (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					run_id INTEGER NOT NULL,
					order_number TEXT NOT NULL,
					item_code TEXT NOT NULL,
					location TEXT,
					unit_type TEXT,
					quantity INTEGER DEFAULT 1,
					pick_seconds REAL DEFAULT 0,
					walk_seconds REAL DEFAULT 0,
					total_seconds REAL DEFAULT 0,
					FOREIGN KEY (run_id) REFERENCES estimate_runs(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_estimate_lines_run ON estimate_lines(run_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Settings and versioned cost parameters",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS settings (
					key TEXT PRIMARY KEY,
					value TEXT NOT NULL,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS cost_params (
					revision INTEGER PRIMARY KEY AUTOINCREMENT,
					document TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	return nil
}
