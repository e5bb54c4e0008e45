package classify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/warelight/warelight/internal/common"
	"github.com/warelight/warelight/internal/model"
	"github.com/warelight/warelight/internal/params"
	"github.com/warelight/warelight/internal/service"
)

// DefaultThreshold is the confidence floor below which a computed attribute
// is left unset.
const DefaultThreshold = 60

// Config holds configuration options for the classification engine.
type Config struct {
	RunBy      string
	OnItem     func(done, total int)
	Threshold  int
	SummerMode bool
	DryRun     bool
}

// Engine orchestrates classification over the full active item set.
type Engine struct {
	storage service.Storage
	config  Config
}

// New creates a classification engine. The threshold defaults to
// DefaultThreshold and is validated up front; a misconfigured threshold is
// a setup error, not something to discover mid-run.
func New(storage service.Storage, config Config) (*Engine, error) {
	if config.Threshold == 0 {
		config.Threshold = DefaultThreshold
	}
	if err := params.ValidateThreshold(config.Threshold); err != nil {
		return nil, err
	}
	return &Engine{storage: storage, config: config}, nil
}

// Run classifies every active item and appends one ClassificationRun record.
// Defaults and overrides are loaded once and treated as immutable snapshots
// for the duration of the run, so re-running with unchanged inputs
// reproduces identical output. A failure on one item is logged and counted
// but never aborts the run.
func (e *Engine) Run(ctx context.Context) (*model.ClassificationRun, error) {
	run := &model.ClassificationRun{
		StartedAt:  time.Now(),
		RunBy:      e.config.RunBy,
		Threshold:  e.config.Threshold,
		SummerMode: e.config.SummerMode,
	}

	slog.Info("Starting classification run",
		"run_by", e.config.RunBy,
		"threshold", e.config.Threshold,
		"summer_mode", e.config.SummerMode,
		"dry_run", e.config.DryRun)

	defaults, err := e.loadDefaults(ctx)
	if err != nil {
		return nil, err
	}
	overrides, err := e.loadOverrides(ctx)
	if err != nil {
		return nil, err
	}
	items, err := e.storage.GetActiveItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active items: %w", err)
	}
	if len(items) == 0 {
		return nil, common.ErrNoItems
	}

	run.ItemsScanned = len(items)

	for i := range items {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		item := &items[i]
		outcome, classifyErr := e.classifyOne(*item, defaults[item.CategoryCode], overrides[item.Code])
		if classifyErr != nil {
			slog.Error("Failed to classify item",
				"item_code", item.Code,
				"error", classifyErr)
			run.ItemsFailed++
			continue
		}

		item.Class = outcome.Class
		item.Evidence = outcome.Evidence
		item.Confidence = outcome.Confidence
		item.Source = outcome.Source
		item.Notes = outcome.Notes
		item.ClassifiedAt = run.StartedAt

		if !e.config.DryRun {
			if saveErr := e.storage.UpdateItemClassification(ctx, item); saveErr != nil {
				slog.Error("Failed to save item classification",
					"item_code", item.Code,
					"error", saveErr)
				run.ItemsFailed++
				continue
			}
		}

		if outcome.Updated {
			run.ItemsUpdated++
		}
		if item.NeedsReview(e.config.Threshold) {
			run.ItemsNeedReview++
		}
		if e.config.OnItem != nil {
			e.config.OnItem(i+1, len(items))
		}
	}

	run.FinishedAt = time.Now()
	run.Notes = fmt.Sprintf("threshold=%d summer_mode=%t failures=%d",
		e.config.Threshold, e.config.SummerMode, run.ItemsFailed)

	if !e.config.DryRun {
		if err := e.storage.SaveClassificationRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to record classification run: %w", err)
		}
	}

	slog.Info("Classification run complete",
		"items_scanned", run.ItemsScanned,
		"items_updated", run.ItemsUpdated,
		"items_need_review", run.ItemsNeedReview,
		"items_failed", run.ItemsFailed)

	return run, nil
}

// classifyOne guards a single item's classification. A panicking rule is
// converted into an error so the run continues with the item's prior
// classification intact.
func (e *Engine) classifyOne(item model.Item, def *model.CategoryDefault, ovr *model.ItemOverride) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule evaluation panicked: %v", r)
		}
	}()
	outcome = ClassifyItem(item, def, ovr, e.config.Threshold, e.config.SummerMode)
	return outcome, nil
}

func (e *Engine) loadDefaults(ctx context.Context) (map[string]*model.CategoryDefault, error) {
	defaults, err := e.storage.GetCategoryDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load category defaults: %w", err)
	}
	byCategory := make(map[string]*model.CategoryDefault, len(defaults))
	for i := range defaults {
		if defaults[i].Active {
			byCategory[defaults[i].CategoryCode] = &defaults[i]
		}
	}
	return byCategory, nil
}

func (e *Engine) loadOverrides(ctx context.Context) (map[string]*model.ItemOverride, error) {
	overrides, err := e.storage.GetItemOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load item overrides: %w", err)
	}
	byItem := make(map[string]*model.ItemOverride, len(overrides))
	for i := range overrides {
		if overrides[i].Active {
			byItem[overrides[i].ItemCode] = &overrides[i]
		}
	}
	return byItem, nil
}
