// Package classify implements the attribute rule evaluator, the precedence
// resolver, and the classification engine that orchestrates them.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/warelight/warelight/internal/model"
)

// Candidate is a rule evaluator's proposal for one attribute: a typed value,
// an integer confidence in [0,100], and a human-readable justification.
// Rules are pure and conservative: weak or missing signals yield low
// confidence, never a confident guess.
type Candidate[T any] struct {
	Reason     string
	Value      T
	Confidence int
}

var volumePattern = regexp.MustCompile(`\d+\s*(ml|l)\b`)

func itemCategory(item model.Item) string {
	return strings.ToUpper(strings.TrimSpace(item.CategoryCode))
}

func itemName(item model.Item) string {
	return strings.ToLower(item.Name)
}

func nameContains(name string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return kw, true
		}
	}
	return "", false
}

// UnitTypeRule derives the handling unit from the item's first generic
// attribute code.
func UnitTypeRule(item model.Item) Candidate[model.UnitType] {
	attr1 := strings.ToUpper(strings.TrimSpace(item.Attr1()))
	if ut, ok := unitTypeCodes[attr1]; ok {
		return Candidate[model.UnitType]{
			Value:      ut,
			Confidence: 90,
			Reason:     fmt.Sprintf("unit type %q from attribute code %q", ut, attr1),
		}
	}
	return Candidate[model.UnitType]{
		Value:      model.UnitItem,
		Confidence: 40,
		Reason:     fmt.Sprintf("attribute code %q not recognized, assuming plain item", attr1),
	}
}

// SpillRiskRule flags items that can leak or spill in transit.
func SpillRiskRule(item model.Item) Candidate[bool] {
	category := itemCategory(item)
	name := itemName(item)

	if liquidCategories[category] {
		return Candidate[bool]{
			Value:      true,
			Confidence: 90,
			Reason:     fmt.Sprintf("category %q indicates liquid product", category),
		}
	}
	if kw, ok := nameContains(name, liquidKeywords); ok {
		return Candidate[bool]{
			Value:      true,
			Confidence: 75,
			Reason:     fmt.Sprintf("item name contains liquid keyword %q", kw),
		}
	}
	if volumePattern.MatchString(name) {
		return Candidate[bool]{
			Value:      true,
			Confidence: 75,
			Reason:     "item name contains volume measurement (ml/L)",
		}
	}
	return Candidate[bool]{Value: false, Confidence: 30, Reason: "no liquid indicators found"}
}

// FragilityRule classifies breakability from category and name signals.
func FragilityRule(item model.Item) Candidate[model.Fragility] {
	category := itemCategory(item)
	name := itemName(item)

	if frag, ok := fragileCategories[category]; ok {
		return Candidate[model.Fragility]{
			Value:      frag,
			Confidence: 90,
			Reason:     fmt.Sprintf("category %q has known fragility %q", category, frag),
		}
	}
	if glassBottleCategories[category] {
		return Candidate[model.Fragility]{
			Value:      model.FragilityYes,
			Confidence: 85,
			Reason:     fmt.Sprintf("category %q contains glass bottles", category),
		}
	}
	if kw, ok := nameContains(name, fragileKeywords); ok {
		return Candidate[model.Fragility]{
			Value:      model.FragilityYes,
			Confidence: 70,
			Reason:     fmt.Sprintf("item name contains fragile keyword %q", kw),
		}
	}
	return Candidate[model.Fragility]{
		Value:      model.FragilityNo,
		Confidence: 45,
		Reason:     "no fragility indicators found",
	}
}

// PressureRule classifies how much stacking weight an item tolerates.
func PressureRule(item model.Item) Candidate[model.PressureSensitivity] {
	category := itemCategory(item)
	name := itemName(item)

	if highPressureCategories[category] {
		return Candidate[model.PressureSensitivity]{
			Value:      model.PressureHigh,
			Confidence: 90,
			Reason:     fmt.Sprintf("category %q is highly pressure sensitive", category),
		}
	}
	if mediumPressureCategories[category] {
		return Candidate[model.PressureSensitivity]{
			Value:      model.PressureMedium,
			Confidence: 85,
			Reason:     fmt.Sprintf("category %q is moderately pressure sensitive", category),
		}
	}
	if glassBottleCategories[category] {
		return Candidate[model.PressureSensitivity]{
			Value:      model.PressureMedium,
			Confidence: 80,
			Reason:     fmt.Sprintf("category %q contains glass", category),
		}
	}
	if kw, ok := nameContains(name, crushableKeywords); ok {
		return Candidate[model.PressureSensitivity]{
			Value:      model.PressureHigh,
			Confidence: 75,
			Reason:     fmt.Sprintf("item name keyword %q indicates crushable product", kw),
		}
	}
	return Candidate[model.PressureSensitivity]{
		Value:      model.PressureLow,
		Confidence: 50,
		Reason:     "no pressure sensitivity indicators",
	}
}

// StackabilityRule derives stackability from the final resolved fragility
// and pressure sensitivity. Confidence clears the storage threshold only
// when both prerequisites were themselves resolved; otherwise the
// uncertainty propagates instead of being papered over.
func StackabilityRule(frag *model.Fragility, press *model.PressureSensitivity) Candidate[model.Stackability] {
	var c Candidate[model.Stackability]
	switch {
	case frag != nil && *frag == model.FragilityYes:
		c = Candidate[model.Stackability]{
			Value: model.StackNo, Confidence: 85, Reason: "fragile items cannot be stacked",
		}
	case press != nil && *press == model.PressureHigh:
		c = Candidate[model.Stackability]{
			Value: model.StackNo, Confidence: 85, Reason: "high pressure sensitivity prevents stacking",
		}
	case (frag != nil && *frag == model.FragilitySemi) || (press != nil && *press == model.PressureMedium):
		c = Candidate[model.Stackability]{
			Value: model.StackLimited, Confidence: 75, Reason: "semi-fragile or medium pressure allows limited stacking",
		}
	default:
		c = Candidate[model.Stackability]{
			Value: model.StackYes, Confidence: 70, Reason: "no stacking restrictions identified",
		}
	}
	if frag == nil || press == nil {
		c.Confidence = 45
		c.Reason += " (fragility or pressure sensitivity unresolved)"
	}
	return c
}

// TemperatureRule classifies heat and cold handling needs.
func TemperatureRule(item model.Item) Candidate[model.TemperatureSensitivity] {
	category := itemCategory(item)
	name := itemName(item)

	if coolRequiredCategories[category] {
		return Candidate[model.TemperatureSensitivity]{
			Value:      model.TempCoolRequired,
			Confidence: 95,
			Reason:     fmt.Sprintf("category %q requires cold storage", category),
		}
	}
	if heatSensitiveCategories[category] {
		return Candidate[model.TemperatureSensitivity]{
			Value:      model.TempHeatSensitive,
			Confidence: 90,
			Reason:     fmt.Sprintf("category %q is heat sensitive", category),
		}
	}
	if kw, ok := nameContains(name, coolRequiredKeywords); ok {
		return Candidate[model.TemperatureSensitivity]{
			Value:      model.TempCoolRequired,
			Confidence: 80,
			Reason:     fmt.Sprintf("item name contains cold keyword %q", kw),
		}
	}
	if kw, ok := nameContains(name, heatSensitiveKeywords); ok {
		return Candidate[model.TemperatureSensitivity]{
			Value:      model.TempHeatSensitive,
			Confidence: 75,
			Reason:     fmt.Sprintf("item name contains heat-sensitive keyword %q", kw),
		}
	}
	if knownCategory(category) {
		return Candidate[model.TemperatureSensitivity]{
			Value:      model.TempNormal,
			Confidence: 60,
			Reason:     "no temperature sensitivity indicators",
		}
	}
	return Candidate[model.TemperatureSensitivity]{
		Value:      model.TempNormal,
		Confidence: 40,
		Reason:     fmt.Sprintf("category %q not recognized", category),
	}
}

// ShapeRule classifies rough geometry for packing.
func ShapeRule(item model.Item) Candidate[model.ShapeType] {
	category := itemCategory(item)
	name := itemName(item)

	if roundShapeCategories[category] {
		return Candidate[model.ShapeType]{
			Value:      model.ShapeRound,
			Confidence: 80,
			Reason:     fmt.Sprintf("category %q typically has cylindrical products", category),
		}
	}
	if flatShapeCategories[category] {
		return Candidate[model.ShapeType]{
			Value:      model.ShapeFlat,
			Confidence: 80,
			Reason:     fmt.Sprintf("category %q typically has flat products", category),
		}
	}
	if kw, ok := nameContains(name, roundKeywords); ok {
		return Candidate[model.ShapeType]{
			Value:      model.ShapeRound,
			Confidence: 70,
			Reason:     fmt.Sprintf("item name keyword %q indicates cylindrical container", kw),
		}
	}
	if kw, ok := nameContains(name, irregularKeywords); ok {
		return Candidate[model.ShapeType]{
			Value:      model.ShapeIrregular,
			Confidence: 65,
			Reason:     fmt.Sprintf("item name keyword %q indicates multi-piece or irregular shape", kw),
		}
	}
	return Candidate[model.ShapeType]{Value: model.ShapeCubic, Confidence: 55, Reason: "default to cubic shape"}
}

// PickDifficultyRule scores picking effort 1..5 from weight band and the
// final resolved fragility and pressure sensitivity.
func PickDifficultyRule(item model.Item, frag *model.Fragility, press *model.PressureSensitivity) Candidate[int] {
	if item.WeightKG <= 0 && frag == nil && press == nil {
		return Candidate[int]{
			Value:      2,
			Confidence: 35,
			Reason:     "insufficient signals for pick difficulty",
		}
	}

	score := 2
	confidence := 60
	var reasons []string

	switch {
	case item.WeightKG > 10:
		score += 2
		confidence = 70
		reasons = append(reasons, "heavy item (>10kg)")
	case item.WeightKG > 5:
		score++
		confidence = 65
		reasons = append(reasons, "moderately heavy (>5kg)")
	}
	if frag != nil && *frag == model.FragilityYes {
		score++
		if confidence < 70 {
			confidence = 70
		}
		reasons = append(reasons, "fragile item")
	}
	if press != nil && *press == model.PressureHigh {
		score++
		if confidence < 70 {
			confidence = 70
		}
		reasons = append(reasons, "high pressure sensitivity")
	}

	if score > 5 {
		score = 5
	}
	if score < 1 {
		score = 1
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "standard picking difficulty")
	}
	return Candidate[int]{Value: score, Confidence: confidence, Reason: strings.Join(reasons, "; ")}
}

// ShelfHeightRule recommends a storage height band from item weight.
func ShelfHeightRule(item model.Item) Candidate[model.ShelfHeight] {
	switch {
	case item.WeightKG > 8:
		return Candidate[model.ShelfHeight]{
			Value:      model.ShelfLow,
			Confidence: 70,
			Reason:     "heavy item (>8kg) should be on a low shelf",
		}
	case item.WeightKG > 4:
		return Candidate[model.ShelfHeight]{
			Value:      model.ShelfMid,
			Confidence: 60,
			Reason:     "medium weight item",
		}
	}
	return Candidate[model.ShelfHeight]{
		Value:      model.ShelfMid,
		Confidence: 35,
		Reason:     "weight data insufficient for shelf height recommendation",
	}
}

// BoxFitRuleRule decides where in the box an item belongs. It consumes the
// final resolved values of its four prerequisites; when any is unresolved
// the confidence is capped below the storage threshold.
func BoxFitRuleRule(item model.Item, frag *model.Fragility, spill *bool, press *model.PressureSensitivity, temp *model.TemperatureSensitivity, summerMode bool) Candidate[model.BoxFitRule] {
	if frag == nil && press == nil {
		return Candidate[model.BoxFitRule]{
			Value:      model.BoxMiddle,
			Confidence: 40,
			Reason:     "missing data for box-fit determination",
		}
	}

	c := boxFitCandidate(item, frag, spill, press, temp, summerMode)
	if frag == nil || spill == nil || press == nil || temp == nil {
		if c.Confidence > 55 {
			c.Confidence = 55
		}
		c.Reason += " (prerequisite attributes unresolved)"
	}
	return c
}

func boxFitCandidate(item model.Item, frag *model.Fragility, spill *bool, press *model.PressureSensitivity, temp *model.TemperatureSensitivity, summerMode bool) Candidate[model.BoxFitRule] {
	if temp != nil {
		if summerMode && (*temp == model.TempHeatSensitive || *temp == model.TempCoolRequired) {
			return Candidate[model.BoxFitRule]{
				Value:      model.BoxCoolerBag,
				Confidence: 90,
				Reason:     "temperature-sensitive item in summer mode",
			}
		}
		if *temp == model.TempCoolRequired {
			return Candidate[model.BoxFitRule]{
				Value:      model.BoxCoolerBag,
				Confidence: 85,
				Reason:     "item requires cool storage",
			}
		}
	}
	if spill != nil && *spill && item.WeightKG > 2 {
		return Candidate[model.BoxFitRule]{
			Value:      model.BoxBottom,
			Confidence: 85,
			Reason:     "heavy liquid belongs at the bottom",
		}
	}
	if frag != nil && *frag == model.FragilityYes {
		return Candidate[model.BoxFitRule]{
			Value:      model.BoxTop,
			Confidence: 85,
			Reason:     "fragile item belongs on top",
		}
	}
	if press != nil && *press == model.PressureHigh {
		return Candidate[model.BoxFitRule]{
			Value:      model.BoxTop,
			Confidence: 80,
			Reason:     "pressure-sensitive item belongs on top",
		}
	}
	if spill != nil && *spill {
		return Candidate[model.BoxFitRule]{
			Value:      model.BoxBottom,
			Confidence: 70,
			Reason:     "liquid item belongs at the bottom",
		}
	}
	return Candidate[model.BoxFitRule]{
		Value:      model.BoxMiddle,
		Confidence: 65,
		Reason:     "standard item goes in the middle",
	}
}

// ZoneRule assigns the warehouse zone from category, falling back to the
// final resolved temperature sensitivity.
func ZoneRule(item model.Item, temp *model.TemperatureSensitivity) Candidate[model.Zone] {
	category := itemCategory(item)
	if zone, ok := zoneCategories[category]; ok {
		return Candidate[model.Zone]{
			Value:      zone,
			Confidence: 85,
			Reason:     fmt.Sprintf("category %q maps to zone %q", category, zone),
		}
	}
	if temp != nil && (*temp == model.TempHeatSensitive || *temp == model.TempCoolRequired) {
		return Candidate[model.Zone]{
			Value:      model.ZoneSensitive,
			Confidence: 80,
			Reason:     "temperature-sensitive item goes to the SENSITIVE zone",
		}
	}
	return Candidate[model.Zone]{Value: model.ZoneMain, Confidence: 60, Reason: "default zone assignment"}
}
