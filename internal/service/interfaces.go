// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/warelight/warelight/internal/model"
	"github.com/warelight/warelight/internal/params"
)

// Storage defines the contract for our persistence layer. The classification
// and estimation engines only ever see this interface; persistence details
// stay behind it.
type Storage interface {
	// Item operations. Raw item rows are written by the external item-sync
	// process; the engine only updates classification fields.
	SaveItems(ctx context.Context, items []model.Item) error
	GetActiveItems(ctx context.Context) ([]model.Item, error)
	GetItemByCode(ctx context.Context, code string) (*model.Item, error)
	GetItemsNeedingReview(ctx context.Context, threshold int) ([]model.Item, error)
	UpdateItemClassification(ctx context.Context, item *model.Item) error

	// Category defaults and per-item overrides.
	GetCategoryDefaults(ctx context.Context) ([]model.CategoryDefault, error)
	SaveCategoryDefault(ctx context.Context, def *model.CategoryDefault) error
	GetItemOverrides(ctx context.Context) ([]model.ItemOverride, error)
	SaveItemOverride(ctx context.Context, override *model.ItemOverride) error

	// Classification run history (append-only).
	SaveClassificationRun(ctx context.Context, run *model.ClassificationRun) error
	ListClassificationRuns(ctx context.Context, limit int) ([]model.ClassificationRun, error)

	// Order operations.
	SaveOrders(ctx context.Context, orders []model.Order) error
	GetOrder(ctx context.Context, number string) (*model.Order, error)
	GetOrderNumbers(ctx context.Context, limit int) ([]string, error)
	UpdateOrderEstimate(ctx context.Context, order *model.Order) error

	// Estimate audit snapshots.
	SaveEstimateRun(ctx context.Context, run *model.EstimateRun, lines []model.EstimateLine) error
	ListEstimateRuns(ctx context.Context, orderNumber string, limit int) ([]model.EstimateRun, error)

	// Settings and cost parameters. Parameters are stored as a versioned
	// JSON document with a monotonically increasing revision.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetCostParameters(ctx context.Context) (params.Parameters, int, error)
	SaveCostParameters(ctx context.Context, p params.Parameters) (int, error)
	GetSummerMode(ctx context.Context) (bool, error)
	SetSummerMode(ctx context.Context, enabled bool) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
