package types

import (
	"fmt"
	"math"
	"strings"
)

// Wear is an item's exterior condition
type Wear string

const (
	WearNone          Wear = ""
	WearFactoryNew    Wear = "Factory New"
	WearMinimalWear   Wear = "Minimal Wear"
	WearFieldTested   Wear = "Field-Tested"
	WearWellWorn      Wear = "Well-Worn"
	WearBattleScarred Wear = "Battle-Scarred"
)

// Wears lists the wear conditions from best to worst
var Wears = []Wear{WearFactoryNew, WearMinimalWear, WearFieldTested, WearWellWorn, WearBattleScarred}

var wearAbbrev = map[Wear]string{
	WearFactoryNew:    "FN",
	WearMinimalWear:   "MW",
	WearFieldTested:   "FT",
	WearWellWorn:      "WW",
	WearBattleScarred: "BS",
}

// ParseWear resolves a canonical wear name, case-insensitively. Spaces and
// hyphens are interchangeable ("field tested" == "Field-Tested").
func ParseWear(s string) Wear {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", " ")
	for _, w := range Wears {
		if strings.ReplaceAll(strings.ToLower(string(w)), "-", " ") == key {
			return w
		}
	}
	return WearNone
}

// Abbrev returns the two-letter form ("FT"), or "" for WearNone
func (w Wear) Abbrev() string {
	return wearAbbrev[w]
}

// Price is a non-negative amount in dollars, or UnknownPrice
type Price float64

// UnknownPrice marks a missing or malformed price. It is never a real price.
const UnknownPrice Price = -1

// NewPrice validates v, mapping negatives and non-finite values to UnknownPrice
func NewPrice(v float64) Price {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return UnknownPrice
	}
	return Price(v)
}

// Known reports whether p holds a real price
func (p Price) Known() bool {
	return p >= 0
}

// String renders "$12.50", or "n/a" when unknown
func (p Price) String() string {
	if !p.Known() {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", float64(p))
}

// Markers that appear in market hash names
const (
	StatTrakMarker  = "StatTrak™"
	SouvenirMarker  = "Souvenir"
	StarMarker      = "★"
	TrademarkSymbol = "™"
)

// Item is one catalog record. Items are produced by the catalog loader and
// never mutated afterwards.
type Item struct {
	// Identification
	Name       string // market hash name, unique within a catalog
	WeaponType WeaponType
	SkinName   string
	Wear       Wear
	IsStatTrak bool
	IsSouvenir bool

	// Pricing
	MinPrice       Price
	MaxPrice       Price
	SuggestedPrice Price
	Quantity       int

	// Load order, used for stable tie-breaks
	Position int
}

// NewItem derives the descriptive fields of an item from its name. Prices
// start out unknown.
func NewItem(name string) Item {
	weapon, skin, wear := ParseName(name)
	lower := strings.ToLower(name)
	return Item{
		Name:           name,
		WeaponType:     weapon,
		SkinName:       skin,
		Wear:           wear,
		IsStatTrak:     strings.Contains(lower, "stattrak"),
		IsSouvenir:     strings.Contains(lower, "souvenir"),
		MinPrice:       UnknownPrice,
		MaxPrice:       UnknownPrice,
		SuggestedPrice: UnknownPrice,
	}
}

// ParseName splits "StatTrak™ AK-47 | Redline (Field-Tested)" into weapon
// type, skin name ("Redline") and wear.
func ParseName(name string) (WeaponType, string, Wear) {
	weapon := ClassifyWeapon(name)

	rest := name
	wear := WearNone
	if strings.HasSuffix(rest, ")") {
		if open := strings.LastIndex(rest, "("); open >= 0 {
			if w := ParseWear(rest[open+1 : len(rest)-1]); w != WearNone {
				wear = w
				rest = rest[:open]
			}
		}
	}

	skin := ""
	if bar := strings.Index(rest, "|"); bar >= 0 {
		skin = strings.TrimSpace(rest[bar+1:])
	}
	return weapon, skin, wear
}

// Validate checks the invariants the loader guarantees
func (it *Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return ErrEmptyItemName
	}
	if it.Quantity < 0 {
		return ErrNegativeQuantity
	}
	for _, p := range []Price{it.MinPrice, it.MaxPrice, it.SuggestedPrice} {
		if p != UnknownPrice && p < 0 {
			return ErrInvalidPrice
		}
	}
	return nil
}

// FoldName is the lookup key used for case-insensitive name equality: lower
// case, without the ™ and ★ glyphs, single-spaced.
func FoldName(s string) string {
	s = strings.ReplaceAll(s, TrademarkSymbol, "")
	s = strings.ReplaceAll(s, StarMarker, "")
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
