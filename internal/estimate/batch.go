package estimate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/warelight/warelight/internal/model"
)

// DefaultMaxBatchSize caps how many orders one batch call will process.
const DefaultMaxBatchSize = 500

// BatchFailure records one order that could not be estimated.
type BatchFailure struct {
	OrderNumber string
	Err         error
}

// BatchResult aggregates a batch run. Failed orders never abort the batch;
// they are collected here for the caller to surface.
type BatchResult struct {
	Estimates []Estimate
	Failures  []BatchFailure
}

// EstimateBatch estimates each order independently. A panic or error in one
// order is captured as a failure and the batch continues. maxBatch <= 0
// falls back to DefaultMaxBatchSize; orders beyond the cap are reported as
// failures rather than silently dropped.
func (e *Estimator) EstimateBatch(ctx context.Context, orders []model.Order, classOf func(itemCode string) *model.ItemClass, maxBatch int) (BatchResult, error) {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatchSize
	}

	var result BatchResult
	for i, order := range orders {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if i >= maxBatch {
			result.Failures = append(result.Failures, BatchFailure{
				OrderNumber: order.Number,
				Err:         fmt.Errorf("batch size limit %d exceeded", maxBatch),
			})
			continue
		}

		est, err := e.estimateOne(order, classOf)
		if err != nil {
			slog.Error("order estimation failed",
				"order", order.Number,
				"error", err)
			result.Failures = append(result.Failures, BatchFailure{OrderNumber: order.Number, Err: err})
			continue
		}
		result.Estimates = append(result.Estimates, est)
	}
	return result, nil
}

// estimateOne shields the batch from a panic in a single order.
func (e *Estimator) estimateOne(order model.Order, classOf func(itemCode string) *model.ItemClass) (est Estimate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic estimating order %s: %v", order.Number, r)
		}
	}()
	est = e.EstimateOrder(order, classOf)
	return est, nil
}
