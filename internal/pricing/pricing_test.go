package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baasilali/2m-backend/internal/catalog"
	"github.com/baasilali/2m-backend/pkg/types"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.LoadFile("../catalog/testdata/catalog.json")
	require.NoError(t, err)
	return c
}

func names(items []types.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestFilterByPrice_InclusiveBounds(t *testing.T) {
	cat := loadCatalog(t)

	got := FilterByPrice(cat, Filter{Weapon: "AWP"}, 50, 100)
	assert.Equal(t, []string{
		"AWP | Asiimov (Field-Tested)",
		"AWP | Hyper Beast (Minimal Wear)",
		"AWP | Wildfire (Factory New)",
	}, names(got), "unknown-price Dragon Lore is excluded")
}

func TestFilterByPrice_ExcludesContainers(t *testing.T) {
	cat := loadCatalog(t)

	got := FilterByPrice(cat, Filter{}, 50, 100)
	assert.Equal(t, []string{
		"AK-47 | Case Hardened (Well-Worn)",
		"AWP | Asiimov (Field-Tested)",
		"AWP | Hyper Beast (Minimal Wear)",
		"AWP | Wildfire (Factory New)",
	}, names(got))

	got = FilterByPrice(cat, Filter{}, 0, 1)
	assert.Equal(t, []string{"AK-47 | Safari Mesh (Battle-Scarred)"}, names(got))
}

func TestFilterByPrice_Traits(t *testing.T) {
	cat := loadCatalog(t)

	got := FilterByPrice(cat, Filter{StatTrak: true}, 0, 5000)
	assert.Equal(t, []string{
		"StatTrak™ AK-47 | Redline (Field-Tested)",
		"★ StatTrak™ Karambit | Fade (Minimal Wear)",
	}, names(got))

	got = FilterByPrice(cat, Filter{Weapon: types.WeaponKnife, Wear: types.WearFactoryNew}, 0, 5000)
	assert.Equal(t, []string{
		"★ Karambit | Fade (Factory New)",
		"★ M9 Bayonet | Doppler (Factory New)",
	}, names(got))
}

func TestFilterIntent_Sorting(t *testing.T) {
	cat := loadCatalog(t)

	between := FilterIntent(cat, Filter{Weapon: "AWP"}, types.PriceIntent{Kind: types.IntentBetween, Min: 50, Max: 100})
	assert.Equal(t, []string{
		"AWP | Hyper Beast (Minimal Wear)",
		"AWP | Asiimov (Field-Tested)",
		"AWP | Wildfire (Factory New)",
	}, names(between))

	under := FilterIntent(cat, Filter{Weapon: "AK-47"}, types.PriceIntent{Kind: types.IntentUnder, Max: 50})
	assert.Equal(t, []string{
		"StatTrak™ AK-47 | Redline (Field-Tested)",
		"AK-47 | Redline (Field-Tested)",
		"AK-47 | Slate (Minimal Wear)",
		"AK-47 | Safari Mesh (Battle-Scarred)",
	}, names(under))

	over := FilterIntent(cat, Filter{Weapon: types.WeaponKnife}, types.PriceIntent{Kind: types.IntentOver, Min: 1000})
	assert.Equal(t, []string{
		"★ Karambit | Fade (Factory New)",
		"★ StatTrak™ Karambit | Fade (Minimal Wear)",
	}, names(over))
}

func TestSortForIntent_StableTies(t *testing.T) {
	items := []types.Item{
		{Name: "b", MinPrice: 5, Position: 1},
		{Name: "a", MinPrice: 5, Position: 0},
		{Name: "c", MinPrice: types.UnknownPrice, Position: 2},
		{Name: "d", MinPrice: 1, Position: 3},
	}
	SortForIntent(items, types.IntentUnder)
	assert.Equal(t, []string{"a", "b", "d", "c"}, names(items))

	SortForIntent(items, types.IntentBetween)
	assert.Equal(t, []string{"d", "a", "b", "c"}, names(items))
}

func TestExtremum(t *testing.T) {
	cat := loadCatalog(t)

	cheapest := Extremum(cat, Filter{Weapon: "AK-47"}, types.ExtremumCheapest)
	require.NotEmpty(t, cheapest)
	assert.Equal(t, "AK-47 | Safari Mesh (Battle-Scarred)", cheapest[0].Name)
	assert.Len(t, cheapest, 6)

	priciest := Extremum(cat, Filter{Weapon: types.WeaponKnife}, types.ExtremumMostExpensive)
	assert.Equal(t, []string{
		"★ StatTrak™ Karambit | Fade (Minimal Wear)",
		"★ Karambit | Fade (Factory New)",
		"★ M9 Bayonet | Doppler (Factory New)",
	}, names(priciest))

	all := Extremum(cat, Filter{}, types.ExtremumCheapest)
	assert.Equal(t, "Revolution Case", all[1].Name, "extremum search keeps containers")
	for _, it := range all {
		assert.True(t, it.MinPrice.Known())
	}
}

func TestIsContainer(t *testing.T) {
	assert.True(t, IsContainer("Sticker | Howling Dawn"))
	assert.True(t, IsContainer("Revolution Case"))
	assert.True(t, IsContainer("Music Kit | Daniel Sadowski, Crimson Assault"))
	assert.False(t, IsContainer("AK-47 | Case Hardened (Well-Worn)"))
	assert.False(t, IsContainer("AWP | Asiimov (Field-Tested)"))
	assert.False(t, IsContainer("Spinfire Collectible"), "pin inside a word")
	assert.False(t, IsContainer("Nova | Casepunk (Minimal Wear)"))
	assert.True(t, IsContainer("Dust II Pin"))
	assert.True(t, IsContainer("Sticker | Slaughterhouse"), "aug inside a word is not a weapon")
}

func TestCap(t *testing.T) {
	items := []int{1, 2, 3, 4}

	got, capped := Cap(items, 3)
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.True(t, capped)

	got, capped = Cap(items, 4)
	assert.Len(t, got, 4)
	assert.False(t, capped)

	got, capped = Cap(items, 0)
	assert.Len(t, got, 4)
	assert.False(t, capped)
}
