package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyWeapon(t *testing.T) {
	tests := []struct {
		name string
		want WeaponType
	}{
		{"StatTrak™ AK-47 | Redline (Field-Tested)", "AK-47"},
		{"AWP | Asiimov (Battle-Scarred)", "AWP"},
		{"★ M9 Bayonet | Doppler (Factory New)", "M9 Bayonet"},
		{"★ Bayonet | Fade (Factory New)", "Bayonet"},
		{"★ Karambit | Fade (Factory New)", "Karambit"},
		{"★ Classic Knife | Night Stripe (Field-Tested)", "Classic Knife"},
		{"★ Sport Gloves | Vice (Minimal Wear)", "Sport Gloves"},
		{"M4A1-S | Printstream (Minimal Wear)", "M4A1-S"},
		{"Five-SeveN | Case Hardened (Field-Tested)", "Five-SeveN"},
		{"Sticker | Howling Dawn", WeaponOther},
		{"Revolution Case", WeaponOther},
		{"★ Karambit | Slaughter (Factory New)", "Karambit"},
		{"★ Butterfly Knife | Slaughter (Minimal Wear)", "Butterfly Knife"},
		{"★ M9 Bayonet | Slaughter (Field-Tested)", "M9 Bayonet"},
		{"★ Hand Wraps | Slaughter (Field-Tested)", "Hand Wraps"},
		{"Sticker | Slaughterhouse", WeaponOther},
		{"SSG 08 | Supernova (Factory New)", "SSG 08"},
		{"Souvenir AUG | Chameleon (Field-Tested)", "AUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyWeapon(tt.name))
		})
	}
}

func TestClassifyWeapon_FirstMatchWins(t *testing.T) {
	// Both "M9 Bayonet" and "Bayonet" occur; the earlier table entry wins.
	assert.Equal(t, WeaponType("M9 Bayonet"), ClassifyWeapon("m9 bayonet | lore"))
	// Names with two weapons resolve to the one listed first in the table.
	assert.Equal(t, WeaponType("AK-47"), ClassifyWeapon("Sticker | AWP and AK-47 fans"))
}

func TestContainsWords(t *testing.T) {
	assert.True(t, ContainsWords("StatTrak™ AK-47 | Redline", "ak-47"))
	assert.True(t, ContainsWords("Community Music Kit Box", "music kit"))
	assert.False(t, ContainsWords("★ Karambit | Slaughter", "aug"))
	assert.False(t, ContainsWords("Spinning Top", "pin"))
	assert.False(t, ContainsWords("anything", ""))
}

func TestWeaponCovers(t *testing.T) {
	assert.True(t, WeaponKnife.Covers("Karambit"))
	assert.True(t, WeaponKnife.Covers("Shadow Daggers"))
	assert.False(t, WeaponKnife.Covers("AK-47"))
	assert.True(t, WeaponGloves.Covers("Hand Wraps"))
	assert.True(t, WeaponType("AK-47").Covers("AK-47"))
	assert.False(t, WeaponType("AK-47").Covers("AWP"))
	assert.True(t, WeaponNone.Covers("AWP"), "no weapon requested accepts everything")
}

func TestLookupWeapon(t *testing.T) {
	w, ok := LookupWeapon("desert eagle")
	require.True(t, ok)
	assert.Equal(t, WeaponType("Desert Eagle"), w)

	_, ok = LookupWeapon("deagle")
	assert.False(t, ok, "aliases are resolved by the normalizer, not here")
	assert.GreaterOrEqual(t, WeaponPhraseMaxWords(), 3)
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name   string
		weapon WeaponType
		skin   string
		wear   Wear
	}{
		{"StatTrak™ AK-47 | Redline (Field-Tested)", "AK-47", "Redline", WearFieldTested},
		{"★ Karambit | Fade (Factory New)", "Karambit", "Fade", WearFactoryNew},
		{"★ Karambit", "Karambit", "", WearNone},
		{"Sticker | Crown (Foil)", WeaponOther, "Crown (Foil)", WearNone},
		{"Souvenir AWP | Dragon Lore (Battle-Scarred)", "AWP", "Dragon Lore", WearBattleScarred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weapon, skin, wear := ParseName(tt.name)
			assert.Equal(t, tt.weapon, weapon)
			assert.Equal(t, tt.skin, skin)
			assert.Equal(t, tt.wear, wear)
		})
	}
}

func TestNewItem_Markers(t *testing.T) {
	st := NewItem("StatTrak™ AK-47 | Redline (Field-Tested)")
	assert.True(t, st.IsStatTrak)
	assert.False(t, st.IsSouvenir)
	assert.False(t, st.MinPrice.Known())

	souv := NewItem("Souvenir AWP | Dragon Lore (Battle-Scarred)")
	assert.True(t, souv.IsSouvenir)
	assert.False(t, souv.IsStatTrak)
}

func TestParseWear(t *testing.T) {
	assert.Equal(t, WearFieldTested, ParseWear("field tested"))
	assert.Equal(t, WearFieldTested, ParseWear("Field-Tested"))
	assert.Equal(t, WearBattleScarred, ParseWear("battle-scarred"))
	assert.Equal(t, WearNone, ParseWear("Foil"))
	assert.Equal(t, "MW", WearMinimalWear.Abbrev())
}

func TestPrice(t *testing.T) {
	assert.Equal(t, UnknownPrice, NewPrice(-3))
	assert.Equal(t, UnknownPrice, NewPrice(math.NaN()))
	assert.Equal(t, UnknownPrice, NewPrice(math.Inf(1)))
	assert.Equal(t, Price(0), NewPrice(0))
	assert.Equal(t, "$12.50", NewPrice(12.5).String())
	assert.Equal(t, "n/a", UnknownPrice.String())
}

func TestPriceIntentBounds(t *testing.T) {
	lo, hi := PriceIntent{Kind: IntentUnder, Max: 10}.Bounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 10.0, hi)

	over := PriceIntent{Kind: IntentOver, Min: 50}
	assert.True(t, over.Contains(50), "bounds are inclusive")
	assert.True(t, over.Contains(1e9))
	assert.False(t, over.Contains(49.99))

	between := PriceIntent{Kind: IntentBetween, Min: 50, Max: 100}
	assert.True(t, between.Contains(100))
	assert.False(t, NoIntent.IsRange())
}

func TestComponentsAccepts(t *testing.T) {
	item := NewItem("StatTrak™ AK-47 | Redline (Field-Tested)")

	assert.True(t, Components{Weapon: "AK-47"}.Accepts(item))
	assert.True(t, Components{StatTrak: true, Wear: WearFieldTested}.Accepts(item))
	assert.False(t, Components{Wear: WearFactoryNew}.Accepts(item))
	assert.False(t, Components{Souvenir: true}.Accepts(item))
	assert.False(t, Components{Weapon: WeaponKnife}.Accepts(item))
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, "stattrak ak-47 | redline (field-tested)", FoldName("StatTrak™  AK-47 | Redline (Field-Tested)"))
	assert.Equal(t, "karambit | fade (factory new)", FoldName("★ Karambit | Fade (Factory New)"))
}

func TestErrors(t *testing.T) {
	cause := assert.AnError
	loadErr := &LoadError{Path: "data.json", Err: cause}
	assert.ErrorIs(t, loadErr, cause)
	assert.Contains(t, loadErr.Error(), "data.json")

	parseErr := &ParseError{Family: "between", Capture: "1e999", Err: cause}
	assert.ErrorIs(t, parseErr, cause)
	assert.Contains(t, parseErr.Error(), "between")
}
