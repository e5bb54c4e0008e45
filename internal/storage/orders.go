package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/warelight/warelight/internal/model"
)

// SaveOrders upserts orders with their lines. Lines are replaced wholesale:
// the sync process always delivers the full order.
func (s *SQLiteStorage) SaveOrders(ctx context.Context, orders []model.Order) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOrders(orders); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range orders {
		order := &orders[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (number, expected_minutes, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT(number) DO UPDATE SET
				created_at = excluded.created_at
		`, order.Number, order.ExpectedMinutes, touchTime(order.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to save order %s: %w", order.Number, err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM order_lines WHERE order_number = ?`, order.Number); err != nil {
			return fmt.Errorf("failed to clear lines for order %s: %w", order.Number, err)
		}

		for lineNo, line := range order.Lines {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_lines
					(order_number, line_no, item_code, location, zone,
					 unit_type, quantity, expected_seconds)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, order.Number, lineNo, line.ItemCode, line.Location, line.Zone,
				line.UnitType, line.Quantity, line.ExpectedSeconds)
			if err != nil {
				return fmt.Errorf("failed to save line %d of order %s: %w", lineNo, order.Number, err)
			}
		}
	}

	return tx.Commit()
}

// GetOrder returns one order with its lines in original order.
func (s *SQLiteStorage) GetOrder(ctx context.Context, number string) (*model.Order, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(number, "number"); err != nil {
		return nil, err
	}

	var order model.Order
	err := s.db.QueryRowContext(ctx, `
		SELECT number, expected_minutes, created_at FROM orders WHERE number = ?
	`, number).Scan(&order.Number, &order.ExpectedMinutes, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s", ErrInvalidOrder, number)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", number, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_code, location, zone, unit_type, quantity, expected_seconds
		FROM order_lines WHERE order_number = ? ORDER BY line_no
	`, number)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for order %s: %w", number, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			line     model.OrderLine
			location sql.NullString
			zone     sql.NullString
			unitType sql.NullString
		)
		if err := rows.Scan(&line.ItemCode, &location, &zone, &unitType,
			&line.Quantity, &line.ExpectedSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		line.Location = location.String
		line.Zone = zone.String
		line.UnitType = unitType.String
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order lines: %w", err)
	}

	return &order, nil
}

// GetOrderNumbers lists order numbers, oldest first.
func (s *SQLiteStorage) GetOrderNumbers(ctx context.Context, limit int) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT number FROM orders ORDER BY created_at, number`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order numbers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("failed to scan order number: %w", err)
		}
		numbers = append(numbers, number)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order numbers: %w", err)
	}
	return numbers, nil
}

// UpdateOrderEstimate writes the expected time back onto the order and its
// lines.
func (s *SQLiteStorage) UpdateOrderEstimate(ctx context.Context, order *model.Order) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("%w: order", ErrNilParameter)
	}
	if err := validateString(order.Number, "number"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE orders SET expected_minutes = ? WHERE number = ?`,
		order.ExpectedMinutes, order.Number)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.Number, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: order %s", ErrInvalidOrder, order.Number)
	}

	for lineNo, line := range order.Lines {
		_, err := tx.ExecContext(ctx, `
			UPDATE order_lines SET expected_seconds = ?
			WHERE order_number = ? AND line_no = ?
		`, line.ExpectedSeconds, order.Number, lineNo)
		if err != nil {
			return fmt.Errorf("failed to update line %d of order %s: %w", lineNo, order.Number, err)
		}
	}

	return tx.Commit()
}
