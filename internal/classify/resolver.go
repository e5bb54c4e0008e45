package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/warelight/warelight/internal/model"
)

// Resolution is the final outcome for one attribute after precedence has
// been applied. Value is nil when nothing confident enough was available;
// Confidence then keeps the rule's score for diagnostics.
type Resolution[T any] struct {
	Value      *T
	Source     model.Source
	Reason     string
	Confidence int
}

// Resolve applies the fixed precedence: manual override, then category
// default, then the computed candidate when its confidence clears the
// threshold (inclusive), then nil. The precedence is never relaxed at
// runtime.
func Resolve[T any](attr model.Attribute, computed Candidate[T], override, fallback *T, threshold int) Resolution[T] {
	if override != nil {
		v := *override
		return Resolution[T]{
			Value:      &v,
			Confidence: 100,
			Source:     model.SourceManual,
			Reason:     fmt.Sprintf("manual override for %s", attr),
		}
	}
	if fallback != nil {
		v := *fallback
		return Resolution[T]{
			Value:      &v,
			Confidence: 85,
			Source:     model.SourceCategoryDefault,
			Reason:     fmt.Sprintf("category default for %s", attr),
		}
	}
	if computed.Confidence >= threshold {
		v := computed.Value
		return Resolution[T]{
			Value:      &v,
			Confidence: computed.Confidence,
			Source:     model.SourceRules,
			Reason:     computed.Reason,
		}
	}
	return Resolution[T]{
		Value:      nil,
		Confidence: computed.Confidence,
		Source:     model.SourceRules,
		Reason:     fmt.Sprintf("AMBIGUOUS (<%d): %s", threshold, computed.Reason),
	}
}

// evidenceOf flattens a typed resolution into the audit record stored on
// the item.
func evidenceOf[T any](r Resolution[T]) model.AttributeEvidence {
	ev := model.AttributeEvidence{
		Source:     r.Source,
		Reason:     r.Reason,
		Confidence: r.Confidence,
	}
	if r.Value != nil {
		s := fmt.Sprintf("%v", *r.Value)
		ev.Value = &s
	}
	return ev
}

// OverallConfidence averages the confidences of the critical attributes
// that were actually stored. It is 0 when none were.
func OverallConfidence(evidence model.Evidence) int {
	var sum, n int
	for _, attr := range model.CriticalAttributes() {
		ev, ok := evidence[attr]
		if !ok || ev.Value == nil {
			continue
		}
		sum += ev.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

// OverallSource rolls the per-attribute sources up to a single tag:
// MANUAL if any override was applied, CATEGORY_DEFAULT if any default was
// applied and no override, RULES otherwise.
func OverallSource(evidence model.Evidence) model.Source {
	var hasManual, hasDefault bool
	for _, ev := range evidence {
		switch ev.Source {
		case model.SourceManual:
			hasManual = true
		case model.SourceCategoryDefault:
			hasDefault = true
		}
	}
	if hasManual {
		return model.SourceManual
	}
	if hasDefault {
		return model.SourceCategoryDefault
	}
	return model.SourceRules
}

// BuildNotes produces the human-readable classification summary stored in
// the item's audit fields. Ambiguous attributes are listed in sorted order
// so repeated runs produce identical notes.
func BuildNotes(evidence model.Evidence, overallConfidence, threshold int) string {
	parts := []string{fmt.Sprintf("Overall confidence: %d%%", overallConfidence)}

	var hasManual, hasDefault bool
	for _, ev := range evidence {
		switch ev.Source {
		case model.SourceManual:
			hasManual = true
		case model.SourceCategoryDefault:
			hasDefault = true
		}
	}
	if hasManual {
		parts = append(parts, "Contains manual overrides")
	}
	if hasDefault {
		parts = append(parts, "Uses category defaults")
	}

	var ambiguous []string
	for attr, ev := range evidence {
		if ev.Value == nil && ev.Confidence < threshold {
			ambiguous = append(ambiguous, string(attr))
		}
	}
	if len(ambiguous) > 0 {
		sort.Strings(ambiguous)
		parts = append(parts, "Ambiguous: "+strings.Join(ambiguous, ", "))
	}
	return strings.Join(parts, ". ")
}
