package pricing

import (
	"sort"

	"github.com/baasilali/2m-backend/internal/catalog"
	"github.com/baasilali/2m-backend/pkg/types"
)

// Result caps
const (
	DefaultRangeCap    = 15
	DefaultExtremumCap = 25
)

// Filter restricts price searches by weapon, traits and wear. The skin
// fragment is ignored.
type Filter = types.Components

// containerKeywords mark non-weapon items that price searches skip unless
// the name also mentions a weapon, knife or glove
var containerKeywords = []string{
	"sticker", "patch", "graffiti", "case", "container", "capsule",
	"music kit", "charm", "pin", "package",
}

// IsContainer reports whether name looks like a sticker, case or similar
// non-weapon item. Keywords only count as whole words.
func IsContainer(name string) bool {
	for _, kw := range containerKeywords {
		if types.ContainsWords(name, kw) {
			return !types.HasWeaponKeyword(name)
		}
	}
	return false
}

// FilterByPrice returns the items whose minimum price lies in [lo, hi].
// Items with an unknown price are never included. Results keep catalog
// order.
func FilterByPrice(cat *catalog.Catalog, f Filter, lo, hi float64) []types.Item {
	var out []types.Item
	for _, it := range candidates(cat, f) {
		if !it.MinPrice.Known() {
			continue
		}
		p := float64(it.MinPrice)
		if p < lo || p > hi {
			continue
		}
		if IsContainer(it.Name) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// FilterIntent applies a parsed price intent
func FilterIntent(cat *catalog.Catalog, f Filter, in types.PriceIntent) []types.Item {
	lo, hi := in.Bounds()
	items := FilterByPrice(cat, f, lo, hi)
	SortForIntent(items, in.Kind)
	return items
}

// SortForIntent orders items for display: an upper bound shows the most
// expensive first, every other intent the cheapest first. Ties keep catalog
// order.
func SortForIntent(items []types.Item, kind types.PriceIntentKind) {
	if kind == types.IntentUnder {
		sortByPrice(items, true)
		return
	}
	sortByPrice(items, false)
}

// Extremum returns every known-price item passing f, cheapest or most
// expensive first
func Extremum(cat *catalog.Catalog, f Filter, kind types.Extremum) []types.Item {
	var out []types.Item
	for _, it := range candidates(cat, f) {
		if it.MinPrice.Known() {
			out = append(out, it)
		}
	}
	sortByPrice(out, kind == types.ExtremumMostExpensive)
	return out
}

// SortByPrice orders items by minimum price, unknown prices last
func SortByPrice(items []types.Item, descending bool) {
	sortByPrice(items, descending)
}

// Cap truncates items to n and reports whether anything was dropped
func Cap[T any](items []T, n int) ([]T, bool) {
	if n <= 0 || len(items) <= n {
		return items, false
	}
	return items[:n], true
}

func candidates(cat *catalog.Catalog, f Filter) []types.Item {
	var items []types.Item
	if f.Weapon != types.WeaponNone {
		items = cat.ItemsForWeapon(f.Weapon)
	} else {
		items = cat.Items()
	}

	out := items[:0:0]
	for _, it := range items {
		if f.Accepts(it) {
			out = append(out, it)
		}
	}
	return out
}

func sortByPrice(items []types.Item, descending bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.MinPrice.Known() != b.MinPrice.Known() {
			return a.MinPrice.Known()
		}
		if a.MinPrice != b.MinPrice {
			if descending {
				return a.MinPrice > b.MinPrice
			}
			return a.MinPrice < b.MinPrice
		}
		return a.Position < b.Position
	})
}
