package types

import "math"

// PriceIntentKind identifies which price family a query matched
type PriceIntentKind string

const (
	IntentNone    PriceIntentKind = "none"
	IntentUnder   PriceIntentKind = "under"
	IntentOver    PriceIntentKind = "over"
	IntentBetween PriceIntentKind = "between"
	IntentNear    PriceIntentKind = "near"
)

// PriceIntent is a numeric constraint parsed from a query. Bounds are
// inclusive. Under sets only Max, Over sets only Min, Near keeps the spoken
// amount in Target and a tolerance window in Min/Max.
type PriceIntent struct {
	Kind   PriceIntentKind `json:"kind"`
	Min    float64         `json:"min,omitempty"`
	Max    float64         `json:"max,omitempty"`
	Target float64         `json:"target,omitempty"`
}

// NoIntent is the zero intent
var NoIntent = PriceIntent{Kind: IntentNone}

// IsRange reports whether the intent constrains price
func (p PriceIntent) IsRange() bool {
	return p.Kind != IntentNone && p.Kind != ""
}

// Bounds returns the inclusive [lo, hi] window; hi is +Inf for Over
func (p PriceIntent) Bounds() (float64, float64) {
	switch p.Kind {
	case IntentUnder:
		return 0, p.Max
	case IntentOver:
		return p.Min, math.Inf(1)
	case IntentBetween, IntentNear:
		return p.Min, p.Max
	default:
		return 0, math.Inf(1)
	}
}

// Contains reports whether price v falls inside the window
func (p PriceIntent) Contains(v float64) bool {
	lo, hi := p.Bounds()
	return v >= lo && v <= hi
}

// Extremum is a request for the cheapest or most expensive items
type Extremum string

const (
	ExtremumNone          Extremum = ""
	ExtremumCheapest      Extremum = "cheapest"
	ExtremumMostExpensive Extremum = "most_expensive"
)

// Components are the fragments the extractor splits a query into
type Components struct {
	Weapon   WeaponType `json:"weapon,omitempty"`
	Skin     string     `json:"skin,omitempty"`
	Wear     Wear       `json:"wear,omitempty"`
	StatTrak bool       `json:"stattrak,omitempty"`
	Souvenir bool       `json:"souvenir,omitempty"`
}

// Empty reports whether nothing was extracted
func (c Components) Empty() bool {
	return c.Weapon == WeaponNone && c.Skin == "" && c.Wear == WearNone && !c.StatTrak && !c.Souvenir
}

// Accepts reports whether it satisfies the weapon, trait and wear
// constraints. The skin fragment is not checked here.
func (c Components) Accepts(it Item) bool {
	if !c.Weapon.Covers(it.WeaponType) {
		return false
	}
	if c.StatTrak && !it.IsStatTrak {
		return false
	}
	if c.Souvenir && !it.IsSouvenir {
		return false
	}
	if c.Wear != WearNone && it.Wear != c.Wear {
		return false
	}
	return true
}

// ParsedQuery is the structured form of a free-text query
type ParsedQuery struct {
	Raw        string
	Normalized string
	Components
	Intent       PriceIntent
	Extremum     Extremum
	PriceKeyword bool // mentions price vocabulary ("price", "cost", "$")
}
