package estimate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/warelight/warelight/internal/common"
	"github.com/warelight/warelight/internal/model"
	"github.com/warelight/warelight/internal/service"
)

// Runner loads orders and item classifications from storage, runs the
// estimator, and persists the results plus an audit snapshot.
type Runner struct {
	storage   service.Storage
	estimator *Estimator
	reason    string
	dryRun    bool
}

// RunnerConfig controls how estimates are produced and recorded.
type RunnerConfig struct {
	// Reason is stored on each audit snapshot, e.g. "cli" or "reestimate".
	Reason string
	// DryRun computes estimates without writing anything back.
	DryRun bool
}

// NewRunner builds a Runner from the cost parameters and summer mode
// currently stored in the database.
func NewRunner(ctx context.Context, storage service.Storage, cfg RunnerConfig) (*Runner, error) {
	p, revision, err := storage.GetCostParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cost parameters: %w", err)
	}
	summer, err := storage.GetSummerMode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load summer mode: %w", err)
	}
	estimator, err := NewEstimator(p, revision, summer)
	if err != nil {
		return nil, err
	}
	reason := cfg.Reason
	if reason == "" {
		reason = "cli"
	}
	return &Runner{
		storage:   storage,
		estimator: estimator,
		reason:    reason,
		dryRun:    cfg.DryRun,
	}, nil
}

// Estimator exposes the underlying estimator, mainly for dry-run display.
func (r *Runner) Estimator() *Estimator { return r.estimator }

// EstimateAndStore estimates one order, writes the expected time back onto
// the order, and appends an audit snapshot with the parameters used.
func (r *Runner) EstimateAndStore(ctx context.Context, orderNumber string) (Estimate, error) {
	order, err := r.storage.GetOrder(ctx, orderNumber)
	if err != nil {
		return Estimate{}, fmt.Errorf("failed to load order %s: %w", orderNumber, err)
	}

	classOf, err := r.classLookup(ctx, order.Lines)
	if err != nil {
		return Estimate{}, err
	}

	est := r.estimator.EstimateOrder(*order, classOf)
	if est.Travel.UnparsedStops > 0 {
		slog.Warn("order has unparseable locations",
			"order", orderNumber,
			"unparsed_stops", est.Travel.UnparsedStops)
	}

	if r.dryRun {
		return est, nil
	}
	if err := r.persist(ctx, order, est); err != nil {
		return Estimate{}, err
	}
	return est, nil
}

// EstimateAll estimates every known order, isolating failures per order.
func (r *Runner) EstimateAll(ctx context.Context, limit int) (BatchResult, error) {
	numbers, err := r.storage.GetOrderNumbers(ctx, limit)
	if err != nil {
		return BatchResult{}, fmt.Errorf("failed to list orders: %w", err)
	}
	if len(numbers) == 0 {
		return BatchResult{}, common.ErrNoOrders
	}

	var result BatchResult
	for _, number := range numbers {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		est, err := r.EstimateAndStore(ctx, number)
		if err != nil {
			slog.Error("order estimation failed", "order", number, "error", err)
			result.Failures = append(result.Failures, BatchFailure{OrderNumber: number, Err: err})
			continue
		}
		result.Estimates = append(result.Estimates, est)
	}
	return result, nil
}

// classLookup preloads the classification of every item referenced by the
// order lines. Items without a stored classification resolve to nil, which
// the cost models treat as "no handling adjustments".
func (r *Runner) classLookup(ctx context.Context, lines []model.OrderLine) (func(string) *model.ItemClass, error) {
	classes := make(map[string]*model.ItemClass, len(lines))
	for _, line := range lines {
		if _, ok := classes[line.ItemCode]; ok {
			continue
		}
		item, err := r.storage.GetItemByCode(ctx, line.ItemCode)
		if err != nil {
			return nil, fmt.Errorf("failed to load item %s: %w", line.ItemCode, err)
		}
		if item == nil {
			classes[line.ItemCode] = nil
			continue
		}
		class := item.Class
		classes[line.ItemCode] = &class
	}
	return func(code string) *model.ItemClass { return classes[code] }, nil
}

func (r *Runner) persist(ctx context.Context, order *model.Order, est Estimate) error {
	order.ExpectedMinutes = est.TotalMinutes
	for i := range order.Lines {
		if i < len(est.Lines) {
			order.Lines[i].ExpectedSeconds = est.Lines[i].TotalSeconds
		}
	}
	if err := r.storage.UpdateOrderEstimate(ctx, order); err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.Number, err)
	}

	snapshot, err := json.Marshal(r.estimator.params)
	if err != nil {
		return fmt.Errorf("failed to marshal params snapshot: %w", err)
	}
	breakdown, err := json.Marshal(breakdownDoc(est))
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	run := &model.EstimateRun{
		CreatedAt:        time.Now(),
		OrderNumber:      order.Number,
		EstimatorVersion: EstimatorVersion,
		ParamsSnapshot:   string(snapshot),
		BreakdownJSON:    string(breakdown),
		Reason:           r.reason,
		ParamsRevision:   est.ParamsRevision,
		TotalSeconds:     est.TotalSeconds,
		TravelSeconds:    est.TravelSeconds,
		PickSeconds:      est.PickSeconds,
		PackSeconds:      est.PackSeconds,
	}

	lines := make([]model.EstimateLine, 0, len(est.Lines))
	for _, le := range est.Lines {
		lines = append(lines, model.EstimateLine{
			OrderNumber:  order.Number,
			ItemCode:     le.ItemCode,
			Location:     le.Location,
			UnitType:     string(le.UnitType),
			Quantity:     le.Quantity,
			PickSeconds:  le.PickSeconds,
			WalkSeconds:  le.WalkSeconds,
			TotalSeconds: le.TotalSeconds,
		})
	}

	if err := r.storage.SaveEstimateRun(ctx, run, lines); err != nil {
		return fmt.Errorf("failed to save estimate run for %s: %w", order.Number, err)
	}
	return nil
}

// breakdownDoc flattens an estimate into the JSON shape stored on the audit
// row.
func breakdownDoc(est Estimate) map[string]any {
	return map[string]any{
		"overhead_seconds":        est.OverheadSeconds,
		"travel_seconds":          est.TravelSeconds,
		"pick_seconds":            est.PickSeconds,
		"pack_seconds":            est.PackSeconds,
		"total_seconds":           est.TotalSeconds,
		"total_minutes":           est.TotalMinutes,
		"align_seconds":           est.Travel.AlignSeconds,
		"zone_switch_seconds":     est.Travel.ZoneSwitchSeconds,
		"corridor_change_seconds": est.Travel.CorridorChangeSeconds,
		"walking_seconds":         est.Travel.WalkingSeconds,
		"stairs_seconds":          est.Travel.StairsSeconds,
		"unparsed_stops":          est.Travel.UnparsedStops,
		"summer_mode":             est.SummerMode,
	}
}
