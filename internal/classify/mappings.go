package classify

import "github.com/warelight/warelight/internal/model"

// Category and keyword tables driving the attribute rules. Editing these
// adjusts classification behavior without touching rule logic.

var liquidCategories = map[string]bool{
	"ALD": true, "ALE": true, "ALW": true, "ALB": true, // alcohol
	"BEV": true, "JUI": true, "SOF": true, "WAT": true, "ENE": true, "SOD": true, // beverages
	"CLN": true, "DET": true, "FAB": true, // cleaning products
	"OIL": true, "VIN": true, "SAU": true, // oils, vinegars, sauces
	"MIL": true, "CRE": true, // dairy liquids
}

var glassBottleCategories = map[string]bool{
	"ALD": true, "ALE": true, "ALW": true, "ALB": true, // spirits, wine, beer in glass
	"OLV": true, "VIN": true, // olive oil, vinegar in glass
}

var fragileCategories = map[string]model.Fragility{
	"CHO": model.FragilityYes,  // chocolate melts and breaks
	"BIS": model.FragilitySemi, // biscuits crush
	"SNA": model.FragilityYes,  // snacks/chips
	"EGG": model.FragilityYes,
	"CER": model.FragilitySemi, // cereal boxes crush
	"ALD": model.FragilityYes,  // spirits in glass
	"ALE": model.FragilityYes,  // wine in glass
	"ALB": model.FragilitySemi, // beer, some glass some cans
	"GLA": model.FragilityYes,
	"CRI": model.FragilityYes, // crisps
	"POR": model.FragilityYes, // porcelain/ceramics
}

var heatSensitiveCategories = map[string]bool{
	"CHO": true, "ICE": true, "FRO": true, "CAN": true, "WAX": true,
}

// coolRequiredCategories need cold storage rather than just shade.
var coolRequiredCategories = map[string]bool{
	"FRO": true, "ICE": true,
}

var highPressureCategories = map[string]bool{
	"SNA": true, "CRI": true, "BRE": true,
}

var mediumPressureCategories = map[string]bool{
	"CER": true, "BIS": true, "ALD": true, "ALE": true, "EGG": true,
}

var roundShapeCategories = map[string]bool{
	"ALD": true, "ALE": true, "ALB": true, "ALW": true,
	"BEV": true, "JUI": true, "SOF": true, "WAT": true, "ENE": true, "SOD": true,
	"OIL": true, "VIN": true,
	"CLN": true, "DET": true,
	"CAN": true,
}

var flatShapeCategories = map[string]bool{
	"MAG": true, "BOO": true, "PAP": true, "ENV": true,
}

var liquidKeywords = []string{
	"ml", "lt", "ltr", "litre", "liter", "bottle", "spray", "liquid",
	"juice", "water", "oil", "vinegar", "sauce", "syrup", "drink",
	"beverage", "wine", "beer", "spirit", "vodka", "whisky", "gin",
	"shampoo", "conditioner", "detergent", "cleaner", "bleach",
}

var fragileKeywords = []string{
	"glass", "fragile", "delicate", "crystal", "porcelain", "ceramic",
	"chocolate", "egg", "chip", "crisp", "wafer",
}

var heatSensitiveKeywords = []string{
	"chocolate", "candy", "candle", "wax", "ice cream", "frozen",
}

var coolRequiredKeywords = []string{
	"ice cream", "frozen",
}

var crushableKeywords = []string{"chip", "crisp", "wafer"}

var roundKeywords = []string{"bottle", "can", "jar", "spray"}

var irregularKeywords = []string{"set", "kit", "organizer", "combo"}

var unitTypeCodes = map[string]model.UnitType{
	"VPACK": model.UnitVirtualPack,
	"PAC":   model.UnitPack,
	"PACK":  model.UnitPack,
	"BOX":   model.UnitBox,
	"CASE":  model.UnitCase,
	"ITEM":  model.UnitItem,
	"EA":    model.UnitItem,
	"PC":    model.UnitItem,
	"PCS":   model.UnitItem,
}

var zoneCategories = map[string]model.Zone{
	"CHO": model.ZoneSensitive,
	"SNA": model.ZoneSnacks,
	"CRI": model.ZoneSnacks,
	"FRO": model.ZoneSensitive,
	"ICE": model.ZoneSensitive,
}

// knownCategory reports whether the category code appears in any mapping
// table. Temperature classification uses it to distinguish "no signal for a
// category we understand" from "a category we have never seen".
func knownCategory(category string) bool {
	if liquidCategories[category] || glassBottleCategories[category] ||
		heatSensitiveCategories[category] || highPressureCategories[category] ||
		mediumPressureCategories[category] || roundShapeCategories[category] ||
		flatShapeCategories[category] {
		return true
	}
	if _, ok := fragileCategories[category]; ok {
		return true
	}
	_, ok := zoneCategories[category]
	return ok
}
