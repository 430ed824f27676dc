package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baasilali/2m-backend/pkg/types"
)

func item(name string, lo, hi, suggested float64, qty int) types.Item {
	it := types.NewItem(name)
	it.MinPrice = types.NewPrice(lo)
	it.MaxPrice = types.NewPrice(hi)
	it.SuggestedPrice = types.NewPrice(suggested)
	it.Quantity = qty
	return it
}

var (
	hyperBeast = item("AWP | Hyper Beast (Minimal Wear)", 50, 66, 52, 40)
	asiimov    = item("AWP | Asiimov (Field-Tested)", 85, 120, 90, 60)
)

func TestFormat_RangeHeaderAndBlocks(t *testing.T) {
	q := &types.ParsedQuery{
		Raw:        "awp between $50 and $100",
		Components: types.Components{Weapon: "AWP"},
		Intent:     types.PriceIntent{Kind: types.IntentBetween, Min: 50, Max: 100},
	}

	got := New("").Format(Page{Query: q, Items: []types.Item{hyperBeast, asiimov}})

	want := "Found 2 CS2 skins for AWP between $50.00 and $100.00\n" +
		"The cheapest AWP skin is AWP | Hyper Beast (Minimal Wear) at $50.00\n\n" +
		"AWP | Hyper Beast (Minimal Wear):\n• Skinport Price: $50.00 - $66.00\n• Suggested Price: $52.00\n• Available: 40 items\n\n" +
		"AWP | Asiimov (Field-Tested):\n• Skinport Price: $85.00 - $120.00\n• Suggested Price: $90.00\n• Available: 60 items\n\n" +
		"Note: Prices and availability change frequently. For real-time information, check Skinport directly."
	assert.Equal(t, want, got)
}

func TestFormat_HeaderVariants(t *testing.T) {
	single := item("AK-47 | Safari Mesh (Battle-Scarred)", 0.05, 0.05, 0.07, 1500)

	tests := []struct {
		name string
		q    types.ParsedQuery
		want string
	}{
		{
			name: "singular without highlight",
			q:    types.ParsedQuery{Raw: "safari mesh"},
			want: "Found 1 CS2 skin\n\n",
		},
		{
			name: "under with stattrak",
			q: types.ParsedQuery{
				Components: types.Components{Weapon: "AK-47", StatTrak: true},
				Intent:     types.PriceIntent{Kind: types.IntentUnder, Max: 50},
			},
			want: "Found 1 CS2 skin (StatTrak™) for AK-47 under $50.00\nThe cheapest StatTrak™ AK-47 skin is",
		},
		{
			name: "over",
			q:    types.ParsedQuery{Intent: types.PriceIntent{Kind: types.IntentOver, Min: 0.01}},
			want: "Found 1 CS2 skin over $0.01\nThe cheapest skin is",
		},
		{
			name: "most expensive",
			q:    types.ParsedQuery{Components: types.Components{Weapon: "AK-47"}, Extremum: types.ExtremumMostExpensive},
			want: "Found 1 CS2 skin for AK-47\nThe most expensive AK-47 skin is AK-47 | Safari Mesh (Battle-Scarred) at $0.05",
		},
		{
			name: "price keyword",
			q:    types.ParsedQuery{PriceKeyword: true},
			want: "Found 1 CS2 skin\nThe cheapest skin is",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New("").Format(Page{Query: &tt.q, Items: []types.Item{single}})
			assert.True(t, strings.HasPrefix(got, tt.want), got)
			assert.Contains(t, got, "• Skinport Price: $0.05\n", "equal min and max print once")
		})
	}
}

func TestFormat_CapNote(t *testing.T) {
	q := &types.ParsedQuery{Intent: types.PriceIntent{Kind: types.IntentUnder, Max: 20}}
	got := New("").Format(Page{Query: q, Items: []types.Item{hyperBeast}, Capped: true})

	assert.Contains(t, got, "Note: I've shown the top 1 relevant skins. To see more specific results, try:")
	assert.Contains(t, got, "\n• Adding a specific weapon (like 'AK-47 under $20.00')")
	assert.Contains(t, got, "\n• Narrowing the price range (like 'between $15.00 and $20.00')")
	assert.Contains(t, got, "\n• Specifying a skin name (like 'AWP Asiimov')")

	q = &types.ParsedQuery{
		Components: types.Components{Weapon: "M4A1-S"},
		Intent:     types.PriceIntent{Kind: types.IntentOver, Min: 3},
	}
	got = New("").Format(Page{Query: q, Items: []types.Item{hyperBeast}, Capped: true})
	assert.NotContains(t, got, "Adding a specific weapon")
	assert.Contains(t, got, "'between $0.00 and $3.00'")
	assert.Contains(t, got, "'M4A1-S Asiimov'")
}

func TestFormat_UnknownPrices(t *testing.T) {
	lore := types.NewItem("AWP | Dragon Lore (Factory New)")
	lore.SuggestedPrice = 12000

	got := New("").Format(Page{Query: &types.ParsedQuery{PriceKeyword: true}, Items: []types.Item{lore}})
	assert.Contains(t, got, "• Skinport Price: n/a\n• Suggested Price: $12000.00\n• Available: 0 items")
	assert.NotContains(t, got, "The cheapest", "no highlight without a known price")
}

func TestFormat_NoMatch(t *testing.T) {
	f := New("")

	got := f.Format(Page{Query: &types.ParsedQuery{Raw: "zzzz qqqq"}})
	assert.Equal(t, "I couldn't find any CS2 skins matching 'zzzz qqqq'. Please try using a more specific name or check your spelling.", got)

	q := &types.ParsedQuery{
		Raw:        "stattrak karambit fade fn",
		Components: types.Components{Weapon: "Karambit", Skin: "fade", Wear: types.WearFactoryNew, StatTrak: true},
	}
	got = f.Format(Page{Query: q})
	assert.Equal(t, "I couldn't find the StatTrak™ Karambit | Fade (Factory New) in the current data. "+
		"This item might be unavailable on Skinport or our data may need to be updated. "+
		"For real-time availability, check Skinport directly.", got)
}

func TestFormat_Alternatives(t *testing.T) {
	q := &types.ParsedQuery{
		Components: types.Components{Weapon: "Karambit", Skin: "fade", Wear: types.WearFactoryNew, StatTrak: true},
	}
	alt := item("★ StatTrak™ Karambit | Fade (Minimal Wear)", 1700, 2100, 1750, 2)

	got := New("Buff").Format(Page{Query: q, Items: []types.Item{alt}, Alternatives: true})
	assert.True(t, strings.HasPrefix(got,
		"I couldn't find a StatTrak™ Karambit | Fade (Factory New), but here are some related alternatives:\n\n"+
			"★ StatTrak™ Karambit | Fade (Minimal Wear):\n• Buff Price: $1700.00 - $2100.00"), got)
	assert.True(t, strings.HasSuffix(got, "For the most up-to-date information, check Buff directly."))
}

func TestFormat_Unavailable(t *testing.T) {
	assert.Equal(t, UnavailableMessage, New("").Format(Page{Unavailable: true}))
}

func TestFormatResults(t *testing.T) {
	matches := types.MatchesFromItems([]types.Item{asiimov}, "exact")
	got := New("").FormatResults(matches, &types.ParsedQuery{Raw: "AWP | Asiimov (Field-Tested)"})
	assert.True(t, strings.HasPrefix(got, "Found 1 CS2 skin\n\nAWP | Asiimov (Field-Tested):"))
}
