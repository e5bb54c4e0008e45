package classify

import (
	"time"

	"github.com/warelight/warelight/internal/model"
)

// Outcome is the result of classifying a single item.
type Outcome struct {
	ClassifiedAt time.Time
	Notes        string
	Source       model.Source
	Evidence     model.Evidence
	Class        model.ItemClass
	Confidence   int
	Updated      bool
}

// ClassifyItem runs every attribute rule in dependency order, resolves each
// against the item's override and its category default, and folds the
// results into a new classification. It is pure: identical inputs always
// produce an identical outcome (the caller stamps ClassifiedAt).
//
// Derived attributes (stackability, pick difficulty, box fit, zone) consume
// the final resolved values of their prerequisites, so an override on
// fragility flows into stackability. A prerequisite counts as resolved
// regardless of which source supplied it.
func ClassifyItem(item model.Item, def *model.CategoryDefault, ovr *model.ItemOverride, threshold int, summerMode bool) Outcome {
	overrides := attributeSet(ovr)
	defaults := defaultSet(def)

	evidence := make(model.Evidence, 11)
	var class model.ItemClass

	unit := Resolve(model.AttrUnitType, UnitTypeRule(item), overrides.UnitType, defaults.UnitType, threshold)
	class.UnitType = unit.Value
	evidence[model.AttrUnitType] = evidenceOf(unit)

	spill := Resolve(model.AttrSpillRisk, SpillRiskRule(item), overrides.SpillRisk, defaults.SpillRisk, threshold)
	class.SpillRisk = spill.Value
	evidence[model.AttrSpillRisk] = evidenceOf(spill)

	frag := Resolve(model.AttrFragility, FragilityRule(item), overrides.Fragility, defaults.Fragility, threshold)
	class.Fragility = frag.Value
	evidence[model.AttrFragility] = evidenceOf(frag)

	press := Resolve(model.AttrPressureSensitivity, PressureRule(item), overrides.PressureSensitivity, defaults.PressureSensitivity, threshold)
	class.PressureSensitivity = press.Value
	evidence[model.AttrPressureSensitivity] = evidenceOf(press)

	stack := Resolve(model.AttrStackability, StackabilityRule(frag.Value, press.Value), overrides.Stackability, defaults.Stackability, threshold)
	class.Stackability = stack.Value
	evidence[model.AttrStackability] = evidenceOf(stack)

	temp := Resolve(model.AttrTemperatureSensitivity, TemperatureRule(item), overrides.TemperatureSensitivity, defaults.TemperatureSensitivity, threshold)
	class.TemperatureSensitivity = temp.Value
	evidence[model.AttrTemperatureSensitivity] = evidenceOf(temp)

	shape := Resolve(model.AttrShapeType, ShapeRule(item), overrides.ShapeType, defaults.ShapeType, threshold)
	class.ShapeType = shape.Value
	evidence[model.AttrShapeType] = evidenceOf(shape)

	diff := Resolve(model.AttrPickDifficulty, PickDifficultyRule(item, frag.Value, press.Value), overrides.PickDifficulty, defaults.PickDifficulty, threshold)
	class.PickDifficulty = diff.Value
	evidence[model.AttrPickDifficulty] = evidenceOf(diff)

	shelf := Resolve(model.AttrShelfHeight, ShelfHeightRule(item), overrides.ShelfHeight, defaults.ShelfHeight, threshold)
	class.ShelfHeight = shelf.Value
	evidence[model.AttrShelfHeight] = evidenceOf(shelf)

	boxFit := Resolve(model.AttrBoxFitRule,
		BoxFitRuleRule(item, frag.Value, spill.Value, press.Value, temp.Value, summerMode),
		overrides.BoxFitRule, defaults.BoxFitRule, threshold)
	class.BoxFitRule = boxFit.Value
	evidence[model.AttrBoxFitRule] = evidenceOf(boxFit)

	zone := Resolve(model.AttrZone, ZoneRule(item, temp.Value), overrides.Zone, defaults.Zone, threshold)
	class.Zone = zone.Value
	evidence[model.AttrZone] = evidenceOf(zone)

	confidence := OverallConfidence(evidence)

	return Outcome{
		Class:      class,
		Evidence:   evidence,
		Confidence: confidence,
		Source:     OverallSource(evidence),
		Notes:      BuildNotes(evidence, confidence, threshold),
		Updated:    classChanged(item.Class, class),
	}
}

// attributeSet unwraps an override, treating nil or inactive overrides as
// empty.
func attributeSet(ovr *model.ItemOverride) model.AttributeSet {
	if ovr == nil || !ovr.Active {
		return model.AttributeSet{}
	}
	return ovr.Attributes
}

// defaultSet unwraps a category default, treating nil or inactive defaults
// as empty.
func defaultSet(def *model.CategoryDefault) model.AttributeSet {
	if def == nil || !def.Active {
		return model.AttributeSet{}
	}
	return def.Attributes
}

func ptrChanged[T comparable](old, next *T) bool {
	if old == nil || next == nil {
		return old != next
	}
	return *old != *next
}

func classChanged(old, next model.ItemClass) bool {
	return ptrChanged(old.Zone, next.Zone) ||
		ptrChanged(old.UnitType, next.UnitType) ||
		ptrChanged(old.Fragility, next.Fragility) ||
		ptrChanged(old.Stackability, next.Stackability) ||
		ptrChanged(old.TemperatureSensitivity, next.TemperatureSensitivity) ||
		ptrChanged(old.PressureSensitivity, next.PressureSensitivity) ||
		ptrChanged(old.ShapeType, next.ShapeType) ||
		ptrChanged(old.SpillRisk, next.SpillRisk) ||
		ptrChanged(old.PickDifficulty, next.PickDifficulty) ||
		ptrChanged(old.ShelfHeight, next.ShelfHeight) ||
		ptrChanged(old.BoxFitRule, next.BoxFitRule)
}
