package types

import (
	"strings"
	"unicode"
)

// WeaponCategory groups weapon types for generic lookups ("knife", "gloves")
type WeaponCategory string

const (
	CategoryFirearm WeaponCategory = "firearm"
	CategoryKnife   WeaponCategory = "knife"
	CategoryGloves  WeaponCategory = "gloves"
	CategoryOther   WeaponCategory = "other"
)

// WeaponType is the canonical display name of a weapon, e.g. "AK-47"
type WeaponType string

const (
	WeaponNone   WeaponType = ""
	WeaponKnife  WeaponType = "Knife"
	WeaponGloves WeaponType = "Gloves"
	WeaponOther  WeaponType = "Other"
)

// WeaponSpec is one row of the classification table
type WeaponSpec struct {
	Type     WeaponType
	Category WeaponCategory
}

// weaponTable is scanned in order and the first entry whose words occur in an
// item name wins. Knives and gloves come before firearms and longer names
// that contain a shorter entry come first (M9 Bayonet before Bayonet, every
// named knife before the generic Knife).
var weaponTable = []WeaponSpec{
	{"Karambit", CategoryKnife},
	{"M9 Bayonet", CategoryKnife},
	{"Bayonet", CategoryKnife},
	{"Butterfly Knife", CategoryKnife},
	{"Bowie Knife", CategoryKnife},
	{"Classic Knife", CategoryKnife},
	{"Falchion Knife", CategoryKnife},
	{"Flip Knife", CategoryKnife},
	{"Gut Knife", CategoryKnife},
	{"Huntsman Knife", CategoryKnife},
	{"Kukri Knife", CategoryKnife},
	{"Navaja Knife", CategoryKnife},
	{"Nomad Knife", CategoryKnife},
	{"Paracord Knife", CategoryKnife},
	{"Shadow Daggers", CategoryKnife},
	{"Skeleton Knife", CategoryKnife},
	{"Stiletto Knife", CategoryKnife},
	{"Survival Knife", CategoryKnife},
	{"Talon Knife", CategoryKnife},
	{"Ursus Knife", CategoryKnife},
	{WeaponKnife, CategoryKnife},

	{"Hand Wraps", CategoryGloves},
	{"Sport Gloves", CategoryGloves},
	{"Driver Gloves", CategoryGloves},
	{"Moto Gloves", CategoryGloves},
	{"Specialist Gloves", CategoryGloves},
	{"Hydra Gloves", CategoryGloves},
	{"Bloodhound Gloves", CategoryGloves},
	{"Broken Fang Gloves", CategoryGloves},
	{WeaponGloves, CategoryGloves},

	{"AK-47", CategoryFirearm},
	{"M4A4", CategoryFirearm},
	{"M4A1-S", CategoryFirearm},
	{"AWP", CategoryFirearm},
	{"Desert Eagle", CategoryFirearm},
	{"USP-S", CategoryFirearm},
	{"Glock-18", CategoryFirearm},
	{"P2000", CategoryFirearm},
	{"P250", CategoryFirearm},
	{"Five-SeveN", CategoryFirearm},
	{"CZ75-Auto", CategoryFirearm},
	{"Tec-9", CategoryFirearm},
	{"Dual Berettas", CategoryFirearm},
	{"R8 Revolver", CategoryFirearm},
	{"Zeus x27", CategoryFirearm},
	{"P90", CategoryFirearm},
	{"MAC-10", CategoryFirearm},
	{"MP5-SD", CategoryFirearm},
	{"MP9", CategoryFirearm},
	{"MP7", CategoryFirearm},
	{"UMP-45", CategoryFirearm},
	{"PP-Bizon", CategoryFirearm},
	{"Galil AR", CategoryFirearm},
	{"FAMAS", CategoryFirearm},
	{"SG 553", CategoryFirearm},
	{"AUG", CategoryFirearm},
	{"SSG 08", CategoryFirearm},
	{"G3SG1", CategoryFirearm},
	{"SCAR-20", CategoryFirearm},
	{"MAG-7", CategoryFirearm},
	{"Nova", CategoryFirearm},
	{"Sawed-Off", CategoryFirearm},
	{"XM1014", CategoryFirearm},
	{"M249", CategoryFirearm},
	{"Negev", CategoryFirearm},
}

var (
	weaponWords    []string
	weaponByLower  map[string]WeaponSpec
	weaponMaxWords int
)

func init() {
	weaponWords = make([]string, len(weaponTable))
	weaponByLower = make(map[string]WeaponSpec, len(weaponTable))
	for i, w := range weaponTable {
		lower := strings.ToLower(string(w.Type))
		weaponWords[i] = wordKey(lower)
		weaponByLower[lower] = w
		if n := len(strings.Fields(lower)); n > weaponMaxWords {
			weaponMaxWords = n
		}
	}
}

// Weapons returns a copy of the ordered classification table
func Weapons() []WeaponSpec {
	out := make([]WeaponSpec, len(weaponTable))
	copy(out, weaponTable)
	return out
}

// ClassifyWeapon returns the first table entry contained in name as whole
// words (case-insensitive), or WeaponOther when none is. "AUG" does not
// match inside "Slaughter".
func ClassifyWeapon(name string) WeaponType {
	key := wordKey(name)
	for i, w := range weaponWords {
		if strings.Contains(key, w) {
			return weaponTable[i].Type
		}
	}
	return WeaponOther
}

// ContainsWords reports whether phrase occurs in s as a run of whole words.
// Case and punctuation are ignored, so "ak-47" is found in "AK-47 | Redline".
func ContainsWords(s, phrase string) bool {
	w := wordKey(phrase)
	return w != "  " && strings.Contains(wordKey(s), w)
}

// wordKey lower-cases s and rewrites it as " word word ", splitting on
// anything that is not a letter or digit
func wordKey(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(fields, " ") + " "
}

// LookupWeapon resolves a lower-case canonical phrase ("ak-47", "m9 bayonet")
func LookupWeapon(phrase string) (WeaponType, bool) {
	w, ok := weaponByLower[strings.ToLower(phrase)]
	return w.Type, ok
}

// WeaponPhraseMaxWords is the longest weapon name measured in words
func WeaponPhraseMaxWords() int {
	return weaponMaxWords
}

// HasWeaponKeyword reports whether name mentions any weapon, knife or glove
func HasWeaponKeyword(name string) bool {
	return ClassifyWeapon(name) != WeaponOther
}

// Category returns the weapon's category. Unknown types are CategoryOther.
func (w WeaponType) Category() WeaponCategory {
	if spec, ok := weaponByLower[strings.ToLower(string(w))]; ok {
		return spec.Category
	}
	return CategoryOther
}

// IsGeneric reports whether w names a whole category rather than one model
func (w WeaponType) IsGeneric() bool {
	return w == WeaponKnife || w == WeaponGloves
}

// Covers reports whether an item of type other satisfies a request for w.
// The generic Knife and Gloves types cover every model in their category.
func (w WeaponType) Covers(other WeaponType) bool {
	if w == WeaponNone || w == other {
		return true
	}
	if w.IsGeneric() {
		return other.Category() == w.Category()
	}
	return false
}
