// Package params defines the versioned cost-model parameters and their
// load-time validation. Parameters are decoded once at the load boundary,
// validated atomically, and passed through the estimators as an immutable
// value; core functions never reach into ambient configuration.
package params

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Handling condition keys used in PickParams.HandlingSeconds.
const (
	HandlingFragilityYes        = "fragility_yes"
	HandlingFragilitySemi       = "fragility_semi"
	HandlingSpillTrue           = "spill_true"
	HandlingPressureHigh        = "pressure_high"
	HandlingHeatSensitiveSummer = "heat_sensitive_summer"
)

// Parameters is the full cost-model configuration. Unknown JSON keys are
// ignored; missing keys keep their built-in defaults.
type Parameters struct {
	Version  string         `json:"version"`
	Location LocationParams `json:"location"`
	Overhead OverheadParams `json:"overhead"`
	Travel   TravelParams   `json:"travel"`
	Pick     PickParams     `json:"pick"`
	Pack     PackParams     `json:"pack"`
}

// LocationParams configures the location grammar and floor layout.
type LocationParams struct {
	Pattern             string   `json:"pattern"`
	UpperFloorCorridors []string `json:"upper_floor_corridors"`
	LadderLevels        []string `json:"ladder_levels"`
}

// OverheadParams is the fixed per-order startup and wrap-up cost.
type OverheadParams struct {
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
}

// TravelParams are the walking-time coefficients.
type TravelParams struct {
	SecAlignPerStop      float64 `json:"sec_align_per_stop"`
	SecPerCorridorChange float64 `json:"sec_per_corridor_change"`
	SecPerCorridorStep   float64 `json:"sec_per_corridor_step"`
	SecPerBayStep        float64 `json:"sec_per_bay_step"`
	SecPerPosStep        float64 `json:"sec_per_pos_step"`
	SecStairsUp          float64 `json:"sec_stairs_up"`
	SecStairsDown        float64 `json:"sec_stairs_down"`
	UpperWalkMultiplier  float64 `json:"upper_walk_multiplier"`
	ZoneSwitchSeconds    float64 `json:"zone_switch_seconds"`
}

// LadderRule grants extra seconds when picking from specific corridors and
// levels that need a ladder fetched first.
type LadderRule struct {
	Corridors     []string `json:"corridors"`
	Levels        []string `json:"levels"`
	LadderSeconds float64  `json:"ladder_seconds"`
}

// PickParams are the per-line picking-time coefficients.
type PickParams struct {
	BaseByUnitType      map[string]float64 `json:"base_by_unit_type"`
	PerQtyByUnitType    map[string]float64 `json:"per_qty_by_unit_type"`
	LevelSeconds        map[string]float64 `json:"level_seconds"`
	DifficultySeconds   map[string]float64 `json:"difficulty_seconds"`
	HandlingSeconds     map[string]float64 `json:"handling_seconds"`
	LadderRules         []LadderRule       `json:"ladder_rules"`
	SecAlignScanPerLine float64            `json:"sec_align_scan_per_line"`
	LadderSeconds       float64            `json:"ladder_seconds"`
}

// PackParams are the per-order packing-time coefficients.
type PackParams struct {
	BaseSeconds         float64 `json:"base_seconds"`
	PerLineSeconds      float64 `json:"per_line_seconds"`
	SpecialGroupSeconds float64 `json:"special_group_seconds"`
}

// Default returns the built-in parameter set. Callers get a fresh value
// each time, so decoding over it never mutates shared state.
func Default() Parameters {
	return Parameters{
		Version: "v1",
		Location: LocationParams{
			Pattern:             `^(?P<corridor>\d{2})-(?P<bay>\d{2})-(?P<level>[A-Z])(?P<pos>\d{2})$`,
			UpperFloorCorridors: []string{"70", "80", "90"},
			LadderLevels:        []string{"D"},
		},
		Overhead: OverheadParams{
			StartSeconds: 45,
			EndSeconds:   45,
		},
		Travel: TravelParams{
			SecAlignPerStop:      13,
			SecPerCorridorChange: 14,
			SecPerCorridorStep:   4,
			SecPerBayStep:        2.5,
			SecPerPosStep:        0.6,
			SecStairsUp:          25,
			SecStairsDown:        20,
			UpperWalkMultiplier:  1.05,
			ZoneSwitchSeconds:    4,
		},
		Pick: PickParams{
			BaseByUnitType: map[string]float64{
				"item": 6, "pack": 8, "box": 10, "case": 13, "virtual_pack": 6,
			},
			PerQtyByUnitType: map[string]float64{
				"item": 1.1, "pack": 1.6, "box": 2.0, "case": 0, "virtual_pack": 1.1,
			},
			LevelSeconds: map[string]float64{
				"A": 0, "B": 2, "C": 12, "D": 14,
			},
			DifficultySeconds: map[string]float64{
				"1": 0, "2": 2, "3": 6, "4": 12, "5": 20,
			},
			HandlingSeconds: map[string]float64{
				HandlingFragilityYes:        6,
				HandlingFragilitySemi:       3,
				HandlingSpillTrue:           5,
				HandlingPressureHigh:        4,
				HandlingHeatSensitiveSummer: 8,
			},
			LadderRules: []LadderRule{
				{Corridors: []string{"11", "13"}, Levels: []string{"C"}, LadderSeconds: 15},
			},
			SecAlignScanPerLine: 13,
			LadderSeconds:       15,
		},
		Pack: PackParams{
			BaseSeconds:         45,
			PerLineSeconds:      3,
			SpecialGroupSeconds: 20,
		},
	}
}

// requiredGroups are the named capture groups the location pattern must
// define.
var requiredGroups = []string{"corridor", "bay", "level", "pos"}

// Parse decodes a JSON parameter document over the built-in defaults and
// validates the result. It fails closed: any validation error leaves the
// caller's previously active parameters untouched.
func Parse(data []byte) (Parameters, error) {
	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return Parameters{}, fmt.Errorf("invalid parameters document: %w", err)
	}
	for _, key := range []string{"travel", "pick", "pack"} {
		if _, ok := present[key]; !ok {
			return Parameters{}, fmt.Errorf("%w: missing required section %q", ErrInvalidParams, key)
		}
	}

	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Parameters{}, fmt.Errorf("invalid parameters document: %w", err)
	}

	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// Validate checks the parameter set for internal consistency. No time
// coefficient may be negative and the location pattern must compile with
// the corridor/bay/level/pos groups.
func (p Parameters) Validate() error {
	rx, err := regexp.Compile(p.Location.Pattern)
	if err != nil {
		return fmt.Errorf("%w: location pattern: %v", ErrInvalidParams, err)
	}
	names := map[string]bool{}
	for _, n := range rx.SubexpNames() {
		names[n] = true
	}
	for _, g := range requiredGroups {
		if !names[g] {
			return fmt.Errorf("%w: location pattern missing group %q", ErrInvalidParams, g)
		}
	}

	if p.Travel.UpperWalkMultiplier < 1 {
		return fmt.Errorf("%w: upper_walk_multiplier must be >= 1", ErrInvalidParams)
	}

	checks := []struct {
		name  string
		value float64
	}{
		{"overhead.start_seconds", p.Overhead.StartSeconds},
		{"overhead.end_seconds", p.Overhead.EndSeconds},
		{"travel.sec_align_per_stop", p.Travel.SecAlignPerStop},
		{"travel.sec_per_corridor_change", p.Travel.SecPerCorridorChange},
		{"travel.sec_per_corridor_step", p.Travel.SecPerCorridorStep},
		{"travel.sec_per_bay_step", p.Travel.SecPerBayStep},
		{"travel.sec_per_pos_step", p.Travel.SecPerPosStep},
		{"travel.sec_stairs_up", p.Travel.SecStairsUp},
		{"travel.sec_stairs_down", p.Travel.SecStairsDown},
		{"travel.zone_switch_seconds", p.Travel.ZoneSwitchSeconds},
		{"pick.sec_align_scan_per_line", p.Pick.SecAlignScanPerLine},
		{"pick.ladder_seconds", p.Pick.LadderSeconds},
		{"pack.base_seconds", p.Pack.BaseSeconds},
		{"pack.per_line_seconds", p.Pack.PerLineSeconds},
		{"pack.special_group_seconds", p.Pack.SpecialGroupSeconds},
	}
	for _, c := range checks {
		if c.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidParams, c.name)
		}
	}
	for name, m := range map[string]map[string]float64{
		"pick.base_by_unit_type":    p.Pick.BaseByUnitType,
		"pick.per_qty_by_unit_type": p.Pick.PerQtyByUnitType,
		"pick.level_seconds":        p.Pick.LevelSeconds,
		"pick.difficulty_seconds":   p.Pick.DifficultySeconds,
		"pick.handling_seconds":     p.Pick.HandlingSeconds,
	} {
		for k, v := range m {
			if v < 0 {
				return fmt.Errorf("%w: %s[%q] must not be negative", ErrInvalidParams, name, k)
			}
		}
	}
	for i, r := range p.Pick.LadderRules {
		if r.LadderSeconds < 0 {
			return fmt.Errorf("%w: pick.ladder_rules[%d].ladder_seconds must not be negative", ErrInvalidParams, i)
		}
	}
	return nil
}

// ValidateThreshold rejects confidence thresholds outside [0,100].
func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return fmt.Errorf("%w: threshold %d outside [0,100]", ErrInvalidThreshold, threshold)
	}
	return nil
}
