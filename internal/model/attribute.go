// Package model defines the core domain models used throughout the application.
package model

// Source indicates where a resolved attribute value came from.
type Source string

// Attribute source constants, in precedence order.
const (
	SourceManual          Source = "MANUAL"
	SourceCategoryDefault Source = "CATEGORY_DEFAULT"
	SourceRules           Source = "RULES"
)

// UnitType is the handling unit an order line is picked in.
type UnitType string

// Unit type constants.
const (
	UnitItem        UnitType = "item"
	UnitPack        UnitType = "pack"
	UnitBox         UnitType = "box"
	UnitCase        UnitType = "case"
	UnitVirtualPack UnitType = "virtual_pack"
)

// Fragility classifies how easily an item breaks or crushes.
type Fragility string

// Fragility constants.
const (
	FragilityYes  Fragility = "YES"
	FragilitySemi Fragility = "SEMI"
	FragilityNo   Fragility = "NO"
)

// PressureSensitivity classifies how much weight an item tolerates on top of it.
type PressureSensitivity string

// Pressure sensitivity constants.
const (
	PressureLow    PressureSensitivity = "low"
	PressureMedium PressureSensitivity = "medium"
	PressureHigh   PressureSensitivity = "high"
)

// Stackability classifies whether other items may be stacked on this one.
type Stackability string

// Stackability constants.
const (
	StackYes     Stackability = "YES"
	StackLimited Stackability = "LIMITED"
	StackNo      Stackability = "NO"
)

// TemperatureSensitivity classifies an item's temperature handling needs.
type TemperatureSensitivity string

// Temperature sensitivity constants.
const (
	TempNormal        TemperatureSensitivity = "normal"
	TempHeatSensitive TemperatureSensitivity = "heat_sensitive"
	TempCoolRequired  TemperatureSensitivity = "cool_required"
)

// ShapeType classifies an item's rough geometry for packing purposes.
type ShapeType string

// Shape type constants.
const (
	ShapeCubic     ShapeType = "cubic"
	ShapeFlat      ShapeType = "flat"
	ShapeRound     ShapeType = "round"
	ShapeIrregular ShapeType = "irregular"
)

// ShelfHeight is the recommended storage height band for an item.
type ShelfHeight string

// Shelf height constants.
const (
	ShelfLow  ShelfHeight = "LOW"
	ShelfMid  ShelfHeight = "MID"
	ShelfHigh ShelfHeight = "HIGH"
)

// BoxFitRule determines where in a box (or which bag) an item belongs.
type BoxFitRule string

// Box fit constants.
const (
	BoxBottom    BoxFitRule = "BOTTOM"
	BoxMiddle    BoxFitRule = "MIDDLE"
	BoxTop       BoxFitRule = "TOP"
	BoxCoolerBag BoxFitRule = "COOLER_BAG"
)

// Zone is a warehouse zone an item is stored in.
type Zone string

// Zone constants.
const (
	ZoneMain          Zone = "MAIN"
	ZoneSensitive     Zone = "SENSITIVE"
	ZoneSnacks        Zone = "SNACKS"
	ZoneCrossShipping Zone = "CROSS_SHIPPING"
)

// Attribute identifies one classification attribute. The set is closed:
// the engine evaluates every attribute explicitly in dependency order, so
// a missing rule is a compile error rather than a runtime surprise.
type Attribute string

// Attribute name constants, listed in evaluation (dependency) order.
const (
	AttrUnitType               Attribute = "unit_type"
	AttrSpillRisk              Attribute = "spill_risk"
	AttrFragility              Attribute = "fragility"
	AttrPressureSensitivity    Attribute = "pressure_sensitivity"
	AttrStackability           Attribute = "stackability"
	AttrTemperatureSensitivity Attribute = "temperature_sensitivity"
	AttrShapeType              Attribute = "shape_type"
	AttrPickDifficulty         Attribute = "pick_difficulty"
	AttrShelfHeight            Attribute = "shelf_height"
	AttrBoxFitRule             Attribute = "box_fit_rule"
	AttrZone                   Attribute = "zone"
)

// AllAttributes returns every attribute in evaluation order. Derived
// attributes (stackability, pick difficulty, box fit, zone) appear after
// the attributes they consume.
func AllAttributes() []Attribute {
	return []Attribute{
		AttrUnitType,
		AttrSpillRisk,
		AttrFragility,
		AttrPressureSensitivity,
		AttrStackability,
		AttrTemperatureSensitivity,
		AttrShapeType,
		AttrPickDifficulty,
		AttrShelfHeight,
		AttrBoxFitRule,
		AttrZone,
	}
}

// CriticalAttributes are the attributes that gate the needs-review flag and
// feed the overall confidence average.
func CriticalAttributes() []Attribute {
	return []Attribute{
		AttrFragility,
		AttrSpillRisk,
		AttrPressureSensitivity,
		AttrTemperatureSensitivity,
		AttrBoxFitRule,
	}
}

// AttributeEvidence records how one attribute was resolved, for audit.
// Value is nil when the attribute was left unset (ambiguous below threshold).
type AttributeEvidence struct {
	Value      *string `json:"value"`
	Source     Source  `json:"source"`
	Reason     string  `json:"reason"`
	Confidence int     `json:"confidence"`
}

// Evidence maps attribute names to their resolution records. It is folded
// into the item's audit fields after classification.
type Evidence map[Attribute]AttributeEvidence
