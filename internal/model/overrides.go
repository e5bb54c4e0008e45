package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AttributeSet is a partially specified classification. A nil field means
// "no opinion", not "force null": only non-nil fields participate in
// precedence resolution.
type AttributeSet struct {
	Zone                   *Zone                   `json:"zone,omitempty"`
	UnitType               *UnitType               `json:"unit_type,omitempty"`
	Fragility              *Fragility              `json:"fragility,omitempty"`
	Stackability           *Stackability           `json:"stackability,omitempty"`
	TemperatureSensitivity *TemperatureSensitivity `json:"temperature_sensitivity,omitempty"`
	PressureSensitivity    *PressureSensitivity    `json:"pressure_sensitivity,omitempty"`
	ShapeType              *ShapeType              `json:"shape_type,omitempty"`
	SpillRisk              *bool                   `json:"spill_risk,omitempty"`
	PickDifficulty         *int                    `json:"pick_difficulty,omitempty"`
	ShelfHeight            *ShelfHeight            `json:"shelf_height,omitempty"`
	BoxFitRule             *BoxFitRule             `json:"box_fit_rule,omitempty"`
}

// CategoryDefault supplies fallback attribute values for every item in a
// category. It outranks computed rules but yields to per-item overrides.
type CategoryDefault struct {
	UpdatedAt    time.Time
	CategoryCode string
	Notes        string
	Attributes   AttributeSet
	Active       bool
}

// ItemOverride pins attribute values for a single SKU. It outranks both
// category defaults and computed rules.
type ItemOverride struct {
	UpdatedAt  time.Time
	ItemCode   string
	Notes      string
	Attributes AttributeSet
	Active     bool
}

// Set parses a raw string value for the named attribute and assigns it.
// Enum values are validated; an unknown attribute or value is an error.
func (s *AttributeSet) Set(attr Attribute, raw string) error {
	raw = strings.TrimSpace(raw)
	switch attr {
	case AttrUnitType:
		v, err := parseEnum(raw, UnitItem, UnitPack, UnitBox, UnitCase, UnitVirtualPack)
		if err != nil {
			return err
		}
		s.UnitType = &v
	case AttrSpillRisk:
		v, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return fmt.Errorf("invalid spill_risk value %q", raw)
		}
		s.SpillRisk = &v
	case AttrFragility:
		v, err := parseEnum(raw, FragilityYes, FragilitySemi, FragilityNo)
		if err != nil {
			return err
		}
		s.Fragility = &v
	case AttrPressureSensitivity:
		v, err := parseEnum(raw, PressureLow, PressureMedium, PressureHigh)
		if err != nil {
			return err
		}
		s.PressureSensitivity = &v
	case AttrStackability:
		v, err := parseEnum(raw, StackYes, StackLimited, StackNo)
		if err != nil {
			return err
		}
		s.Stackability = &v
	case AttrTemperatureSensitivity:
		v, err := parseEnum(raw, TempNormal, TempHeatSensitive, TempCoolRequired)
		if err != nil {
			return err
		}
		s.TemperatureSensitivity = &v
	case AttrShapeType:
		v, err := parseEnum(raw, ShapeCubic, ShapeFlat, ShapeRound, ShapeIrregular)
		if err != nil {
			return err
		}
		s.ShapeType = &v
	case AttrPickDifficulty:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 5 {
			return fmt.Errorf("invalid pick_difficulty value %q: want 1-5", raw)
		}
		s.PickDifficulty = &n
	case AttrShelfHeight:
		v, err := parseEnum(raw, ShelfLow, ShelfMid, ShelfHigh)
		if err != nil {
			return err
		}
		s.ShelfHeight = &v
	case AttrBoxFitRule:
		v, err := parseEnum(raw, BoxBottom, BoxMiddle, BoxTop, BoxCoolerBag)
		if err != nil {
			return err
		}
		s.BoxFitRule = &v
	case AttrZone:
		v, err := parseEnum(raw, ZoneMain, ZoneSensitive, ZoneSnacks, ZoneCrossShipping)
		if err != nil {
			return err
		}
		s.Zone = &v
	default:
		return fmt.Errorf("unknown attribute %q", attr)
	}
	return nil
}

// parseEnum matches raw against the allowed values, ignoring case.
func parseEnum[T ~string](raw string, allowed ...T) (T, error) {
	for _, v := range allowed {
		if strings.EqualFold(raw, string(v)) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q: want one of %v", raw, allowed)
}
