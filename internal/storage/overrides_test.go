package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelight/warelight/internal/model"
)

func TestCategoryDefaultRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	def := model.CategoryDefault{
		CategoryCode: "ALD",
		Active:       true,
		Notes:        "alcohol in glass",
		Attributes: model.AttributeSet{
			Fragility: ptr(model.FragilityYes),
			SpillRisk: ptr(true),
		},
	}
	require.NoError(t, store.SaveCategoryDefault(ctx, &def))

	got, err := store.GetCategoryDefaults(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ALD", got[0].CategoryCode)
	assert.True(t, got[0].Active)
	require.NotNil(t, got[0].Attributes.Fragility)
	assert.Equal(t, model.FragilityYes, *got[0].Attributes.Fragility)
	require.NotNil(t, got[0].Attributes.SpillRisk)
	assert.True(t, *got[0].Attributes.SpillRisk)
	// Fields the default has no opinion on stay nil.
	assert.Nil(t, got[0].Attributes.Zone)
}

func TestCategoryDefaultUpsert(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	def := model.CategoryDefault{
		CategoryCode: "ALD",
		Active:       true,
		Attributes:   model.AttributeSet{SpillRisk: ptr(true)},
	}
	require.NoError(t, store.SaveCategoryDefault(ctx, &def))

	def.Active = false
	def.Attributes.SpillRisk = ptr(false)
	require.NoError(t, store.SaveCategoryDefault(ctx, &def))

	got, err := store.GetCategoryDefaults(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Active)
	assert.False(t, *got[0].Attributes.SpillRisk)
}

func TestItemOverrideRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	ovr := model.ItemOverride{
		ItemCode: "A100",
		Active:   true,
		Notes:    "manual review",
		Attributes: model.AttributeSet{
			BoxFitRule:     ptr(model.BoxTop),
			PickDifficulty: ptr(4),
		},
	}
	require.NoError(t, store.SaveItemOverride(ctx, &ovr))

	got, err := store.GetItemOverrides(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A100", got[0].ItemCode)
	require.NotNil(t, got[0].Attributes.BoxFitRule)
	assert.Equal(t, model.BoxTop, *got[0].Attributes.BoxFitRule)
	require.NotNil(t, got[0].Attributes.PickDifficulty)
	assert.Equal(t, 4, *got[0].Attributes.PickDifficulty)
	assert.Equal(t, "manual review", got[0].Notes)
	assert.False(t, got[0].UpdatedAt.IsZero())
}

func TestSaveItemOverrideValidation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveItemOverride(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.SaveItemOverride(ctx, &model.ItemOverride{}), ErrEmptyString)
}
