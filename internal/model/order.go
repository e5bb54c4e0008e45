package model

import "time"

// Order is an external sales order whose picking time we estimate. The
// order and its lines are owned by the external order-sync process; the
// estimator only writes ExpectedMinutes and per-line ExpectedSeconds back.
type Order struct {
	CreatedAt       time.Time
	Number          string
	Lines           []OrderLine
	ExpectedMinutes float64
}

// OrderLine is one pick line on an order.
type OrderLine struct {
	ItemCode        string
	Location        string
	Zone            string
	UnitType        string
	Quantity        int
	ExpectedSeconds float64
}

// NormalizeUnitType maps raw unit type strings from upstream systems onto
// the standard unit types. Unrecognized values fall back to "item".
func NormalizeUnitType(raw string) UnitType {
	switch normalizeCode(raw) {
	case "PCS", "PC", "PIECE", "ITEM", "EA":
		return UnitItem
	case "PK", "PAC", "PACK":
		return UnitPack
	case "BX", "BOX":
		return UnitBox
	case "CS", "CASE":
		return UnitCase
	case "VPACK", "VIRTUAL_PACK":
		return UnitVirtualPack
	default:
		return UnitItem
	}
}
