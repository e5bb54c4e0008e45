package model

import "time"

// Item represents one warehouse SKU with its raw signals and the
// classification the engine has written onto it. Raw signals are owned by
// the external item-sync process; classification fields are owned by the
// classification engine.
type Item struct {
	ClassifiedAt   time.Time
	Code           string
	Name           string
	CategoryCode   string
	BrandCode      string
	Notes          string
	Source         Source
	AttributeCodes []string // up to six generic attribute codes from the item master
	Evidence       Evidence
	Class          ItemClass
	WidthCM        float64
	HeightCM       float64
	DepthCM        float64
	WeightKG       float64
	PieceCount     int
	Confidence     int
	Active         bool
}

// ItemClass holds the resolved classification attributes. Every field is
// nullable: nil means no override, default, or confident rule supplied a
// value.
type ItemClass struct {
	Zone                   *Zone
	UnitType               *UnitType
	Fragility              *Fragility
	Stackability           *Stackability
	TemperatureSensitivity *TemperatureSensitivity
	PressureSensitivity    *PressureSensitivity
	ShapeType              *ShapeType
	SpillRisk              *bool
	PickDifficulty         *int
	ShelfHeight            *ShelfHeight
	BoxFitRule             *BoxFitRule
}

// Attr1 returns the first generic attribute code, or "" if none is set.
// It drives the unit-type rule.
func (i *Item) Attr1() string {
	if len(i.AttributeCodes) == 0 {
		return ""
	}
	return i.AttributeCodes[0]
}

// NeedsReview reports whether the item's classification requires human
// attention: overall confidence below the threshold, or any critical
// attribute unresolved. It is derived on read so it can never drift from
// the stored attributes.
func (i *Item) NeedsReview(threshold int) bool {
	if i.Confidence < threshold {
		return true
	}
	c := i.Class
	return c.Fragility == nil ||
		c.SpillRisk == nil ||
		c.PressureSensitivity == nil ||
		c.TemperatureSensitivity == nil ||
		c.BoxFitRule == nil
}
