package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warelight/warelight/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestUnitTypeRule(t *testing.T) {
	tests := []struct {
		name           string
		attr1          string
		wantValue      model.UnitType
		wantConfidence int
	}{
		{"recognized pack code", "PAC", model.UnitPack, 90},
		{"recognized virtual pack", "vpack", model.UnitVirtualPack, 90},
		{"recognized box", "BOX", model.UnitBox, 90},
		{"unknown code falls back to item", "ZZZ", model.UnitItem, 40},
		{"missing code falls back to item", "", model.UnitItem, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := model.Item{Code: "X", Name: "x"}
			if tt.attr1 != "" {
				item.AttributeCodes = []string{tt.attr1}
			}
			got := UnitTypeRule(item)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestSpillRiskRule(t *testing.T) {
	tests := []struct {
		name           string
		item           model.Item
		wantValue      bool
		wantConfidence int
	}{
		{"liquid category", model.Item{CategoryCode: "BEV", Name: "Cola"}, true, 90},
		{"liquid keyword in name", model.Item{CategoryCode: "XXX", Name: "Orange Juice"}, true, 75},
		{"volume measurement in name", model.Item{CategoryCode: "XXX", Name: "Energy 500 ml"}, true, 75},
		{"no indicators", model.Item{CategoryCode: "XXX", Name: "Wooden Spoon"}, false, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpillRiskRule(tt.item)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestSpillRiskRuleVolumePattern(t *testing.T) {
	// "ml" must match as a unit token, not inside a word like "family".
	got := SpillRiskRule(model.Item{CategoryCode: "XXX", Name: "family pack"})
	assert.False(t, got.Value)
	assert.Equal(t, 30, got.Confidence)

	got = SpillRiskRule(model.Item{CategoryCode: "XXX", Name: "shaker 2 l"})
	assert.True(t, got.Value)
	assert.Equal(t, 75, got.Confidence)
}

func TestFragilityRule(t *testing.T) {
	tests := []struct {
		name           string
		item           model.Item
		wantValue      model.Fragility
		wantConfidence int
	}{
		{"fragile category", model.Item{CategoryCode: "CHO", Name: "Dark Bar"}, model.FragilityYes, 90},
		{"semi fragile category", model.Item{CategoryCode: "BIS", Name: "Tea Biscuits"}, model.FragilitySemi, 90},
		{"glass bottle category", model.Item{CategoryCode: "OLV", Name: "Olive Oil"}, model.FragilityYes, 85},
		{"fragile keyword", model.Item{CategoryCode: "XXX", Name: "Crystal Vase"}, model.FragilityYes, 70},
		{"no indicators", model.Item{CategoryCode: "XXX", Name: "Towel"}, model.FragilityNo, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FragilityRule(tt.item)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestPressureRule(t *testing.T) {
	tests := []struct {
		name           string
		item           model.Item
		wantValue      model.PressureSensitivity
		wantConfidence int
	}{
		{"high pressure category", model.Item{CategoryCode: "CRI", Name: "Salted Crisps"}, model.PressureHigh, 90},
		{"medium pressure category", model.Item{CategoryCode: "CER", Name: "Corn Flakes"}, model.PressureMedium, 85},
		{"glass category", model.Item{CategoryCode: "ALW", Name: "Red Wine"}, model.PressureMedium, 80},
		{"crushable keyword", model.Item{CategoryCode: "XXX", Name: "Vanilla Wafer"}, model.PressureHigh, 75},
		{"no indicators", model.Item{CategoryCode: "XXX", Name: "Brick"}, model.PressureLow, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PressureRule(tt.item)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestStackabilityRule(t *testing.T) {
	tests := []struct {
		name           string
		frag           *model.Fragility
		press          *model.PressureSensitivity
		wantValue      model.Stackability
		wantConfidence int
	}{
		{"fragile cannot stack", ptr(model.FragilityYes), ptr(model.PressureLow), model.StackNo, 85},
		{"high pressure cannot stack", ptr(model.FragilityNo), ptr(model.PressureHigh), model.StackNo, 85},
		{"semi fragile limited", ptr(model.FragilitySemi), ptr(model.PressureLow), model.StackLimited, 75},
		{"medium pressure limited", ptr(model.FragilityNo), ptr(model.PressureMedium), model.StackLimited, 75},
		{"no restrictions", ptr(model.FragilityNo), ptr(model.PressureLow), model.StackYes, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StackabilityRule(tt.frag, tt.press)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestStackabilityRuleUnresolvedPrerequisites(t *testing.T) {
	// With either prerequisite unresolved the confidence is capped so the
	// value never clears the default threshold.
	got := StackabilityRule(nil, ptr(model.PressureHigh))
	assert.Equal(t, model.StackNo, got.Value)
	assert.Equal(t, 45, got.Confidence)
	assert.Contains(t, got.Reason, "unresolved")

	got = StackabilityRule(ptr(model.FragilityYes), nil)
	assert.Equal(t, 45, got.Confidence)

	got = StackabilityRule(nil, nil)
	assert.Equal(t, model.StackYes, got.Value)
	assert.Equal(t, 45, got.Confidence)
}

func TestTemperatureRule(t *testing.T) {
	tests := []struct {
		name           string
		item           model.Item
		wantValue      model.TemperatureSensitivity
		wantConfidence int
	}{
		{"cool required category", model.Item{CategoryCode: "FRO", Name: "Peas"}, model.TempCoolRequired, 95},
		{"heat sensitive category", model.Item{CategoryCode: "CHO", Name: "Milk Bar"}, model.TempHeatSensitive, 90},
		{"cool keyword", model.Item{CategoryCode: "XXX", Name: "Vanilla Ice Cream Tub"}, model.TempCoolRequired, 80},
		{"heat keyword", model.Item{CategoryCode: "XXX", Name: "Scented Candle"}, model.TempHeatSensitive, 75},
		{"known category no signal", model.Item{CategoryCode: "BEV", Name: "Cola"}, model.TempNormal, 60},
		{"unknown category", model.Item{CategoryCode: "XYZ", Name: "Gadget"}, model.TempNormal, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TemperatureRule(tt.item)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestShapeRule(t *testing.T) {
	tests := []struct {
		name           string
		item           model.Item
		wantValue      model.ShapeType
		wantConfidence int
	}{
		{"round category", model.Item{CategoryCode: "SOD", Name: "Lemon Soda"}, model.ShapeRound, 80},
		{"flat category", model.Item{CategoryCode: "MAG", Name: "Monthly"}, model.ShapeFlat, 80},
		{"round keyword", model.Item{CategoryCode: "XXX", Name: "Honey Jar"}, model.ShapeRound, 70},
		{"irregular keyword", model.Item{CategoryCode: "XXX", Name: "Cutlery Set"}, model.ShapeIrregular, 65},
		{"default cubic", model.Item{CategoryCode: "XXX", Name: "Block"}, model.ShapeCubic, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShapeRule(tt.item)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestPickDifficultyRule(t *testing.T) {
	tests := []struct {
		name           string
		item           model.Item
		frag           *model.Fragility
		press          *model.PressureSensitivity
		wantValue      int
		wantConfidence int
	}{
		{"no signals", model.Item{}, nil, nil, 2, 35},
		{"standard item", model.Item{WeightKG: 1}, ptr(model.FragilityNo), ptr(model.PressureLow), 2, 60},
		{"moderately heavy", model.Item{WeightKG: 6}, ptr(model.FragilityNo), ptr(model.PressureLow), 3, 65},
		{"heavy", model.Item{WeightKG: 12}, ptr(model.FragilityNo), ptr(model.PressureLow), 4, 70},
		{"heavy and fragile", model.Item{WeightKG: 12}, ptr(model.FragilityYes), ptr(model.PressureLow), 5, 70},
		{"score clamped at 5", model.Item{WeightKG: 12}, ptr(model.FragilityYes), ptr(model.PressureHigh), 5, 70},
		{"fragile only", model.Item{WeightKG: 1}, ptr(model.FragilityYes), nil, 3, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickDifficultyRule(tt.item, tt.frag, tt.press)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestShelfHeightRule(t *testing.T) {
	tests := []struct {
		name           string
		weight         float64
		wantValue      model.ShelfHeight
		wantConfidence int
	}{
		{"heavy goes low", 9, model.ShelfLow, 70},
		{"medium goes mid", 5, model.ShelfMid, 60},
		{"light is a weak guess", 1, model.ShelfMid, 35},
		{"no weight data", 0, model.ShelfMid, 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShelfHeightRule(model.Item{WeightKG: tt.weight})
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestBoxFitRuleRule(t *testing.T) {
	tests := []struct {
		name           string
		item           model.Item
		frag           *model.Fragility
		spill          *bool
		press          *model.PressureSensitivity
		temp           *model.TemperatureSensitivity
		summer         bool
		wantValue      model.BoxFitRule
		wantConfidence int
	}{
		{
			name: "cool required gets cooler bag",
			frag: ptr(model.FragilityNo), spill: ptr(false), press: ptr(model.PressureLow),
			temp:      ptr(model.TempCoolRequired),
			wantValue: model.BoxCoolerBag, wantConfidence: 85,
		},
		{
			name: "heat sensitive in summer gets cooler bag",
			frag: ptr(model.FragilityNo), spill: ptr(false), press: ptr(model.PressureLow),
			temp: ptr(model.TempHeatSensitive), summer: true,
			wantValue: model.BoxCoolerBag, wantConfidence: 90,
		},
		{
			name: "heat sensitive off season goes middle",
			frag: ptr(model.FragilityNo), spill: ptr(false), press: ptr(model.PressureLow),
			temp:      ptr(model.TempHeatSensitive),
			wantValue: model.BoxMiddle, wantConfidence: 65,
		},
		{
			name: "heavy liquid at the bottom",
			item: model.Item{WeightKG: 3},
			frag: ptr(model.FragilityNo), spill: ptr(true), press: ptr(model.PressureLow),
			temp:      ptr(model.TempNormal),
			wantValue: model.BoxBottom, wantConfidence: 85,
		},
		{
			name: "fragile on top",
			frag: ptr(model.FragilityYes), spill: ptr(false), press: ptr(model.PressureLow),
			temp:      ptr(model.TempNormal),
			wantValue: model.BoxTop, wantConfidence: 85,
		},
		{
			name: "pressure sensitive on top",
			frag: ptr(model.FragilityNo), spill: ptr(false), press: ptr(model.PressureHigh),
			temp:      ptr(model.TempNormal),
			wantValue: model.BoxTop, wantConfidence: 80,
		},
		{
			name: "light liquid at the bottom",
			item: model.Item{WeightKG: 1},
			frag: ptr(model.FragilityNo), spill: ptr(true), press: ptr(model.PressureLow),
			temp:      ptr(model.TempNormal),
			wantValue: model.BoxBottom, wantConfidence: 70,
		},
		{
			name: "standard in the middle",
			frag: ptr(model.FragilityNo), spill: ptr(false), press: ptr(model.PressureLow),
			temp:      ptr(model.TempNormal),
			wantValue: model.BoxMiddle, wantConfidence: 65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BoxFitRuleRule(tt.item, tt.frag, tt.spill, tt.press, tt.temp, tt.summer)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestBoxFitRuleRuleUnresolvedPrerequisites(t *testing.T) {
	// Both structural prerequisites missing: weak MIDDLE guess.
	got := BoxFitRuleRule(model.Item{}, nil, ptr(false), nil, ptr(model.TempNormal), false)
	assert.Equal(t, model.BoxMiddle, got.Value)
	assert.Equal(t, 40, got.Confidence)

	// Partially missing: value computed but confidence capped below the
	// default threshold.
	got = BoxFitRuleRule(model.Item{}, ptr(model.FragilityYes), nil, ptr(model.PressureLow), ptr(model.TempNormal), false)
	assert.Equal(t, model.BoxTop, got.Value)
	assert.Equal(t, 55, got.Confidence)
	assert.Contains(t, got.Reason, "unresolved")
}

func TestZoneRule(t *testing.T) {
	tests := []struct {
		name           string
		item           model.Item
		temp           *model.TemperatureSensitivity
		wantValue      model.Zone
		wantConfidence int
	}{
		{"category mapping wins", model.Item{CategoryCode: "SNA"}, ptr(model.TempCoolRequired), model.ZoneSnacks, 85},
		{"temperature fallback", model.Item{CategoryCode: "XXX"}, ptr(model.TempHeatSensitive), model.ZoneSensitive, 80},
		{"default main", model.Item{CategoryCode: "XXX"}, ptr(model.TempNormal), model.ZoneMain, 60},
		{"nil temperature defaults main", model.Item{CategoryCode: "XXX"}, nil, model.ZoneMain, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZoneRule(tt.item, tt.temp)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}
