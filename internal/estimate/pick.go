package estimate

import (
	"strconv"

	"github.com/warelight/warelight/internal/model"
	"github.com/warelight/warelight/internal/params"
)

// PickSeconds estimates the handling time for one order line: a per-unit
// base plus marginal units, shelf level and ladder access, pick difficulty,
// and handling penalties from the item's classification. Unknown or
// unclassified attributes contribute nothing; they are never guessed and
// no component is ever negative.
func PickSeconds(line model.OrderLine, class *model.ItemClass, loc LocationSpec, locParsed bool, p params.Parameters, summerMode bool) float64 {
	pick := p.Pick

	unit := string(model.NormalizeUnitType(line.UnitType))
	qty := line.Quantity
	if qty < 1 {
		qty = 1
	}

	base := lookupUnit(pick.BaseByUnitType, unit)
	perQty := lookupUnit(pick.PerQtyByUnitType, unit)
	t := base + perQty*float64(qty-1)

	t += pick.SecAlignScanPerLine

	// An unparsed location is picked as if from level A; ladder access
	// needs a corridor, so it only applies to parsed locations.
	level := "A"
	if locParsed {
		level = loc.Level
		t += ladderSeconds(loc.Corridor, level, p)
	}
	t += pick.LevelSeconds[level]

	if class != nil {
		if class.PickDifficulty != nil {
			t += pick.DifficultySeconds[strconv.Itoa(*class.PickDifficulty)]
		}
		if class.Fragility != nil {
			switch *class.Fragility {
			case model.FragilityYes:
				t += pick.HandlingSeconds[params.HandlingFragilityYes]
			case model.FragilitySemi:
				t += pick.HandlingSeconds[params.HandlingFragilitySemi]
			}
		}
		if class.SpillRisk != nil && *class.SpillRisk {
			t += pick.HandlingSeconds[params.HandlingSpillTrue]
		}
		if class.PressureSensitivity != nil && *class.PressureSensitivity == model.PressureHigh {
			t += pick.HandlingSeconds[params.HandlingPressureHigh]
		}
		if summerMode && class.TemperatureSensitivity != nil && *class.TemperatureSensitivity == model.TempHeatSensitive {
			t += pick.HandlingSeconds[params.HandlingHeatSensitiveSummer]
		}
	}

	return t
}

// ladderSeconds grants extra time when the corridor and level match a
// ladder rule, or when the level is one that always needs a ladder.
func ladderSeconds(corridor, level string, p params.Parameters) float64 {
	corridor = padCorridor(corridor)
	for _, rule := range p.Pick.LadderRules {
		if matchesLadderRule(rule, corridor, level) {
			return rule.LadderSeconds
		}
	}
	for _, l := range p.Location.LadderLevels {
		if normalizeUpper(l) == level {
			return p.Pick.LadderSeconds
		}
	}
	return 0
}

func matchesLadderRule(rule params.LadderRule, corridor, level string) bool {
	var corridorOK bool
	for _, c := range rule.Corridors {
		if padCorridor(c) == corridor {
			corridorOK = true
			break
		}
	}
	if !corridorOK {
		return false
	}
	for _, l := range rule.Levels {
		if normalizeUpper(l) == level {
			return true
		}
	}
	return false
}

// lookupUnit returns the per-unit-type coefficient, falling back to the
// plain item rate for unit types missing from the table.
func lookupUnit(m map[string]float64, unit string) float64 {
	if v, ok := m[unit]; ok {
		return v
	}
	return m[string(model.UnitItem)]
}
