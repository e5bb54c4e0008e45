package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/warelight/warelight/internal/model"
	"github.com/warelight/warelight/internal/service"
)

// Reviewer walks the operator through every item whose classification needs
// human attention, recording manual overrides as it goes.
type Reviewer struct {
	storage   service.Storage
	reader    *NonBlockingReader
	writer    io.Writer
	threshold int
}

// ReviewStats summarizes one review session.
type ReviewStats struct {
	Reviewed   int
	Overridden int
	Skipped    int
}

// NewReviewer creates a reviewer reading from reader and writing styled
// output to writer. Nil reader/writer default to stdin/stdout.
func NewReviewer(storage service.Storage, reader io.Reader, writer io.Writer, threshold int) *Reviewer {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Reviewer{
		storage:   storage,
		reader:    NewNonBlockingReader(reader),
		writer:    writer,
		threshold: threshold,
	}
}

// Run iterates the review queue until it is empty, the user quits, or the
// context is canceled. Overrides are saved immediately; they take effect on
// the next classification run.
func (r *Reviewer) Run(ctx context.Context) (ReviewStats, error) {
	var stats ReviewStats

	items, err := r.storage.GetItemsNeedingReview(ctx, r.threshold)
	if err != nil {
		return stats, fmt.Errorf("failed to load review queue: %w", err)
	}
	if len(items) == 0 {
		fmt.Fprintln(r.writer, FormatSuccess("Nothing to review."))
		return stats, nil
	}

	fmt.Fprintln(r.writer, FormatTitle(fmt.Sprintf("%d items need review", len(items))))

	for i := range items {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		item := &items[i]
		r.showItem(item)

		done := false
		for !done {
			fmt.Fprint(r.writer, BoldStyle.Render("[o]verride attribute, [s]kip, [q]uit: "))
			choice, err := r.reader.ReadLine(ctx)
			if err != nil {
				if errors.Is(err, ErrInputCancelled) {
					return stats, ctx.Err()
				}
				return stats, fmt.Errorf("failed to read choice: %w", err)
			}

			switch strings.ToLower(choice) {
			case "o":
				if err := r.overrideAttribute(ctx, item); err != nil {
					if errors.Is(err, ErrInputCancelled) {
						return stats, ctx.Err()
					}
					fmt.Fprintln(r.writer, FormatError(err.Error()))
					continue
				}
				stats.Overridden++
				stats.Reviewed++
				done = true
			case "s", "":
				stats.Skipped++
				stats.Reviewed++
				done = true
			case "q":
				return stats, nil
			default:
				fmt.Fprintln(r.writer, FormatWarning("Unknown choice."))
			}
		}
	}

	fmt.Fprintln(r.writer, FormatSuccess(fmt.Sprintf(
		"Review complete: %d reviewed, %d overridden, %d skipped",
		stats.Reviewed, stats.Overridden, stats.Skipped)))
	return stats, nil
}

// showItem prints the item's identity and the evidence behind each critical
// attribute so the operator can judge the classification.
func (r *Reviewer) showItem(item *model.Item) {
	fmt.Fprintln(r.writer)
	fmt.Fprintln(r.writer, TitleStyle.Render(fmt.Sprintf("%s  %s", item.Code, item.Name)))
	fmt.Fprintln(r.writer, SubtleStyle.Render(fmt.Sprintf(
		"category=%s  confidence=%d%%  source=%s",
		item.CategoryCode, item.Confidence, item.Source)))

	for _, attr := range model.CriticalAttributes() {
		ev, ok := item.Evidence[attr]
		line := fmt.Sprintf("  %-24s", attr)
		switch {
		case !ok || ev.Value == nil:
			line += ErrorStyle.Render("unset")
			if ok && ev.Reason != "" {
				line += SubtleStyle.Render("  " + ev.Reason)
			}
		default:
			line += fmt.Sprintf("%-12s", *ev.Value)
			line += SubtleStyle.Render(fmt.Sprintf("%3d%%  %s  %s", ev.Confidence, ev.Source, ev.Reason))
		}
		fmt.Fprintln(r.writer, line)
	}
}

// overrideAttribute prompts for an attribute name and value and saves the
// resulting manual override.
func (r *Reviewer) overrideAttribute(ctx context.Context, item *model.Item) error {
	names := make([]string, 0, len(model.AllAttributes()))
	for _, attr := range model.AllAttributes() {
		names = append(names, string(attr))
	}
	fmt.Fprintln(r.writer, SubtleStyle.Render("attributes: "+strings.Join(names, ", ")))

	fmt.Fprint(r.writer, "attribute name: ")
	name, err := r.reader.ReadLine(ctx)
	if err != nil {
		return err
	}
	attr := model.Attribute(strings.ToLower(strings.TrimSpace(name)))

	fmt.Fprint(r.writer, "value: ")
	value, err := r.reader.ReadLine(ctx)
	if err != nil {
		return err
	}

	override, err := r.existingOverride(ctx, item.Code)
	if err != nil {
		return err
	}
	if err := override.Attributes.Set(attr, value); err != nil {
		return err
	}
	override.UpdatedAt = time.Now()
	override.Active = true

	if err := r.storage.SaveItemOverride(ctx, override); err != nil {
		return fmt.Errorf("failed to save override for %s: %w", item.Code, err)
	}
	fmt.Fprintln(r.writer, FormatSuccess(fmt.Sprintf("Override saved: %s.%s = %s", item.Code, attr, value)))
	return nil
}

// existingOverride returns the item's current override so repeated edits
// accumulate instead of clobbering each other.
func (r *Reviewer) existingOverride(ctx context.Context, itemCode string) (*model.ItemOverride, error) {
	overrides, err := r.storage.GetItemOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}
	for i := range overrides {
		if overrides[i].ItemCode == itemCode {
			return &overrides[i], nil
		}
	}
	return &model.ItemOverride{ItemCode: itemCode, Notes: "manual review"}, nil
}
