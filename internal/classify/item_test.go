package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelight/warelight/internal/model"
)

func TestClassifyItemWhiskyBottle(t *testing.T) {
	// A spirits bottle exercises most category tables at once.
	item := model.Item{
		Code:           "ALD-001",
		Name:           "Single Malt Whisky 700 ml",
		CategoryCode:   "ALD",
		AttributeCodes: []string{"EA"},
		WeightKG:       1.2,
	}

	outcome := ClassifyItem(item, nil, nil, DefaultThreshold, false)

	require.NotNil(t, outcome.Class.UnitType)
	assert.Equal(t, model.UnitItem, *outcome.Class.UnitType)

	require.NotNil(t, outcome.Class.SpillRisk)
	assert.True(t, *outcome.Class.SpillRisk)

	require.NotNil(t, outcome.Class.Fragility)
	assert.Equal(t, model.FragilityYes, *outcome.Class.Fragility)

	require.NotNil(t, outcome.Class.PressureSensitivity)
	assert.Equal(t, model.PressureMedium, *outcome.Class.PressureSensitivity)

	// Fragile resolves stackability to NO through the dependency chain.
	require.NotNil(t, outcome.Class.Stackability)
	assert.Equal(t, model.StackNo, *outcome.Class.Stackability)

	require.NotNil(t, outcome.Class.ShapeType)
	assert.Equal(t, model.ShapeRound, *outcome.Class.ShapeType)

	// Fragile beats spill: light bottle goes on top.
	require.NotNil(t, outcome.Class.BoxFitRule)
	assert.Equal(t, model.BoxTop, *outcome.Class.BoxFitRule)

	assert.Equal(t, model.SourceRules, outcome.Source)
	// mean of fragility 90, spill 90, pressure 85, temperature 60, box fit 85
	assert.Equal(t, 82, outcome.Confidence)

	item.Class = outcome.Class
	item.Confidence = outcome.Confidence
	assert.False(t, item.NeedsReview(DefaultThreshold))
}

func TestClassifyItemOverrideFlowsIntoDerived(t *testing.T) {
	item := model.Item{
		Code:         "TOW-001",
		Name:         "Bath Towel",
		CategoryCode: "XXX",
		WeightKG:     0.5,
	}

	// Without the override the item has no fragility signal.
	plain := ClassifyItem(item, nil, nil, DefaultThreshold, false)
	assert.Nil(t, plain.Class.Fragility)

	ovr := &model.ItemOverride{
		ItemCode: "TOW-001",
		Active:   true,
		Attributes: model.AttributeSet{
			Fragility:           ptr(model.FragilityYes),
			PressureSensitivity: ptr(model.PressureLow),
		},
	}
	got := ClassifyItem(item, nil, ovr, DefaultThreshold, false)

	require.NotNil(t, got.Class.Fragility)
	assert.Equal(t, model.FragilityYes, *got.Class.Fragility)
	assert.Equal(t, 100, got.Evidence[model.AttrFragility].Confidence)
	assert.Equal(t, model.SourceManual, got.Evidence[model.AttrFragility].Source)

	// The overridden fragility reaches the derived attributes.
	require.NotNil(t, got.Class.Stackability)
	assert.Equal(t, model.StackNo, *got.Class.Stackability)

	// Box fit still has unresolved spill and temperature prerequisites, so
	// its capped confidence keeps it below the threshold.
	assert.Nil(t, got.Class.BoxFitRule)
	assert.Equal(t, 55, got.Evidence[model.AttrBoxFitRule].Confidence)

	assert.Equal(t, model.SourceManual, got.Source)
	assert.Contains(t, got.Notes, "Contains manual overrides")
}

func TestClassifyItemCategoryDefault(t *testing.T) {
	item := model.Item{
		Code:         "MISC-1",
		Name:         "Mystery Product",
		CategoryCode: "XYZ",
	}

	def := &model.CategoryDefault{
		CategoryCode: "XYZ",
		Active:       true,
		Attributes: model.AttributeSet{
			SpillRisk:              ptr(false),
			Fragility:              ptr(model.FragilityNo),
			PressureSensitivity:    ptr(model.PressureLow),
			TemperatureSensitivity: ptr(model.TempNormal),
		},
	}

	got := ClassifyItem(item, def, nil, DefaultThreshold, false)

	require.NotNil(t, got.Class.Fragility)
	assert.Equal(t, model.FragilityNo, *got.Class.Fragility)
	assert.Equal(t, 85, got.Evidence[model.AttrFragility].Confidence)
	assert.Equal(t, model.SourceCategoryDefault, got.Evidence[model.AttrFragility].Source)
	assert.Equal(t, model.SourceCategoryDefault, got.Source)
	assert.Contains(t, got.Notes, "Uses category defaults")
}

func TestClassifyItemInactiveOverrideIgnored(t *testing.T) {
	item := model.Item{Code: "X", Name: "Bath Towel", CategoryCode: "XXX"}
	ovr := &model.ItemOverride{
		ItemCode:   "X",
		Active:     false,
		Attributes: model.AttributeSet{Fragility: ptr(model.FragilityYes)},
	}

	got := ClassifyItem(item, nil, ovr, DefaultThreshold, false)
	assert.Nil(t, got.Class.Fragility)
	assert.NotEqual(t, model.SourceManual, got.Source)
}

func TestClassifyItemAmbiguousLeavesUnset(t *testing.T) {
	// A bland item with no signals: the weak fragility guess (45) stays
	// below the threshold and the attribute is left unset.
	item := model.Item{Code: "X", Name: "Thing", CategoryCode: "ZZZ"}

	got := ClassifyItem(item, nil, nil, DefaultThreshold, false)

	assert.Nil(t, got.Class.Fragility)
	ev := got.Evidence[model.AttrFragility]
	assert.Nil(t, ev.Value)
	assert.Equal(t, 45, ev.Confidence)
	assert.Contains(t, ev.Reason, "AMBIGUOUS (<60):")
	assert.Contains(t, got.Notes, "Ambiguous:")
}

func TestClassifyItemDeterministic(t *testing.T) {
	item := model.Item{
		Code:           "CHO-42",
		Name:           "Hazelnut Chocolate Bar",
		CategoryCode:   "CHO",
		AttributeCodes: []string{"EA"},
		WeightKG:       0.3,
	}

	first := ClassifyItem(item, nil, nil, DefaultThreshold, true)
	second := ClassifyItem(item, nil, nil, DefaultThreshold, true)

	assert.Equal(t, first.Class, second.Class)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Notes, second.Notes)

	// Re-classifying the already-classified item reports no update.
	item.Class = first.Class
	third := ClassifyItem(item, nil, nil, DefaultThreshold, true)
	assert.False(t, third.Updated)
}

func TestClassifyItemSummerMode(t *testing.T) {
	item := model.Item{
		Code:         "CHO-1",
		Name:         "Dark Chocolate 85%",
		CategoryCode: "CHO",
		WeightKG:     0.2,
	}
	// Chocolate has no spill or pressure signal of its own; the category
	// default fills those in so box fit can resolve.
	def := &model.CategoryDefault{
		CategoryCode: "CHO",
		Active:       true,
		Attributes: model.AttributeSet{
			SpillRisk:           ptr(false),
			PressureSensitivity: ptr(model.PressureLow),
		},
	}

	winter := ClassifyItem(item, def, nil, DefaultThreshold, false)
	summer := ClassifyItem(item, def, nil, DefaultThreshold, true)

	require.NotNil(t, winter.Class.BoxFitRule)
	require.NotNil(t, summer.Class.BoxFitRule)
	assert.Equal(t, model.BoxTop, *winter.Class.BoxFitRule)
	assert.Equal(t, model.BoxCoolerBag, *summer.Class.BoxFitRule)
}
