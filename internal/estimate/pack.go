package estimate

import (
	"github.com/warelight/warelight/internal/model"
	"github.com/warelight/warelight/internal/params"
)

// PackSeconds estimates packing time for a whole order: a fixed base, a
// per-line increment, and one surcharge per distinct special handling
// group present anywhere on the order. A group counts once no matter how
// many lines exhibit it.
func PackSeconds(lines []model.OrderLine, classOf func(itemCode string) *model.ItemClass, pp params.PackParams, summerMode bool) float64 {
	var hasFragile, hasSpill, hasPressure, hasHeat bool

	for _, line := range lines {
		class := classOf(line.ItemCode)
		if class == nil {
			continue
		}
		if class.Fragility != nil && (*class.Fragility == model.FragilityYes || *class.Fragility == model.FragilitySemi) {
			hasFragile = true
		}
		if class.SpillRisk != nil && *class.SpillRisk {
			hasSpill = true
		}
		if class.PressureSensitivity != nil && *class.PressureSensitivity == model.PressureHigh {
			hasPressure = true
		}
		if summerMode && class.TemperatureSensitivity != nil && *class.TemperatureSensitivity == model.TempHeatSensitive {
			hasHeat = true
		}
	}

	groups := 0
	for _, present := range []bool{hasFragile, hasSpill, hasPressure, hasHeat} {
		if present {
			groups++
		}
	}

	return pp.BaseSeconds + pp.PerLineSeconds*float64(len(lines)) + pp.SpecialGroupSeconds*float64(groups)
}
