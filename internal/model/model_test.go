package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNormalizeUnitType(t *testing.T) {
	tests := []struct {
		raw  string
		want UnitType
	}{
		{raw: "PCS", want: UnitItem},
		{raw: " pcs ", want: UnitItem},
		{raw: "EA", want: UnitItem},
		{raw: "PK", want: UnitPack},
		{raw: "pack", want: UnitPack},
		{raw: "BX", want: UnitBox},
		{raw: "CASE", want: UnitCase},
		{raw: "VPACK", want: UnitVirtualPack},
		{raw: "PALLET", want: UnitItem},
		{raw: "", want: UnitItem},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeUnitType(tt.raw), "raw %q", tt.raw)
	}
}

func TestNeedsReview(t *testing.T) {
	full := ItemClass{
		Fragility:              ptr(FragilityNo),
		SpillRisk:              ptr(false),
		PressureSensitivity:    ptr(PressureLow),
		TemperatureSensitivity: ptr(TempNormal),
		BoxFitRule:             ptr(BoxMiddle),
	}

	tests := []struct {
		name string
		item Item
		want bool
	}{
		{
			name: "confident and complete",
			item: Item{Confidence: 60, Class: full},
			want: false,
		},
		{
			name: "confidence below threshold",
			item: Item{Confidence: 59, Class: full},
			want: true,
		},
		{
			name: "missing critical attribute",
			item: Item{Confidence: 95, Class: func() ItemClass {
				c := full
				c.BoxFitRule = nil
				return c
			}()},
			want: true,
		},
		{
			name: "missing non-critical attribute is fine",
			item: Item{Confidence: 80, Class: full},
			want: false,
		},
		{
			name: "unclassified",
			item: Item{},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.NeedsReview(60))
		})
	}
}

func TestAttr1(t *testing.T) {
	item := Item{AttributeCodes: []string{"EA", "113"}}
	assert.Equal(t, "EA", item.Attr1())
	assert.Equal(t, "", (&Item{}).Attr1())
}

func TestAttributeSetSet(t *testing.T) {
	tests := []struct {
		name    string
		attr    Attribute
		raw     string
		wantErr bool
		check   func(t *testing.T, s AttributeSet)
	}{
		{
			name: "fragility",
			attr: AttrFragility,
			raw:  "yes",
			check: func(t *testing.T, s AttributeSet) {
				require.NotNil(t, s.Fragility)
				assert.Equal(t, FragilityYes, *s.Fragility)
			},
		},
		{
			name: "spill risk",
			attr: AttrSpillRisk,
			raw:  "true",
			check: func(t *testing.T, s AttributeSet) {
				require.NotNil(t, s.SpillRisk)
				assert.True(t, *s.SpillRisk)
			},
		},
		{
			name: "pick difficulty",
			attr: AttrPickDifficulty,
			raw:  "4",
			check: func(t *testing.T, s AttributeSet) {
				require.NotNil(t, s.PickDifficulty)
				assert.Equal(t, 4, *s.PickDifficulty)
			},
		},
		{
			name: "zone with surrounding space",
			attr: AttrZone,
			raw:  "  sensitive ",
			check: func(t *testing.T, s AttributeSet) {
				require.NotNil(t, s.Zone)
				assert.Equal(t, ZoneSensitive, *s.Zone)
			},
		},
		{name: "bad enum value", attr: AttrFragility, raw: "MAYBE", wantErr: true},
		{name: "difficulty out of range", attr: AttrPickDifficulty, raw: "7", wantErr: true},
		{name: "difficulty not a number", attr: AttrPickDifficulty, raw: "high", wantErr: true},
		{name: "bad bool", attr: AttrSpillRisk, raw: "probably", wantErr: true},
		{name: "unknown attribute", attr: Attribute("color"), raw: "red", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s AttributeSet
			err := s.Set(tt.attr, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}
