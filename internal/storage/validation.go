// Package storage provides the SQLite persistence layer.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/warelight/warelight/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrEmptySlice   = errors.New("slice cannot be empty")
	ErrInvalidItem  = errors.New("invalid item")
	ErrInvalidOrder = errors.New("invalid order")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateItems validates a slice of items.
func validateItems(items []model.Item) error {
	if items == nil {
		return fmt.Errorf("%w: items", ErrNilParameter)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: items", ErrEmptySlice)
	}
	for i := range items {
		if err := validateItem(&items[i]); err != nil {
			return fmt.Errorf("item at index %d: %w", i, err)
		}
	}
	return nil
}

// validateItem validates a single item.
func validateItem(item *model.Item) error {
	if item == nil {
		return fmt.Errorf("%w: item", ErrNilParameter)
	}
	if strings.TrimSpace(item.Code) == "" {
		return fmt.Errorf("%w: missing code", ErrInvalidItem)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidItem)
	}
	return nil
}

// validateOrders validates a slice of orders.
func validateOrders(orders []model.Order) error {
	if orders == nil {
		return fmt.Errorf("%w: orders", ErrNilParameter)
	}
	if len(orders) == 0 {
		return fmt.Errorf("%w: orders", ErrEmptySlice)
	}
	for i := range orders {
		if strings.TrimSpace(orders[i].Number) == "" {
			return fmt.Errorf("order at index %d: %w: missing number", i, ErrInvalidOrder)
		}
	}
	return nil
}
