package formatter

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/baasilali/2m-backend/pkg/types"
)

// DefaultMarketplace is named in price lines and disclaimers
const DefaultMarketplace = "Skinport"

// UnavailableMessage is returned when no catalog is loaded
const UnavailableMessage = "Marketplace data not available or empty."

// Page is everything needed to render one answer
type Page struct {
	Query        *types.ParsedQuery
	Items        []types.Item
	Capped       bool
	Alternatives bool // Items are stand-ins for an item that was not found
	Unavailable  bool
}

// Formatter renders search results as chat-ready text
type Formatter struct {
	market string
}

// New creates a formatter naming market in its output
func New(market string) *Formatter {
	if strings.TrimSpace(market) == "" {
		market = DefaultMarketplace
	}
	return &Formatter{market: market}
}

// FormatResults renders matches for q without cap information
func (f *Formatter) FormatResults(matches []types.Match, q *types.ParsedQuery) string {
	return f.Format(Page{Query: q, Items: types.Items(matches)})
}

// Format renders a page
func (f *Formatter) Format(p Page) string {
	if p.Unavailable {
		return UnavailableMessage
	}
	q := p.Query
	if q == nil {
		q = &types.ParsedQuery{}
	}

	switch {
	case p.Alternatives && len(p.Items) > 0:
		return f.alternatives(q, p.Items)
	case len(p.Items) == 0:
		return f.noMatch(q)
	}

	var b strings.Builder
	b.WriteString(f.header(q, p.Items))
	if p.Capped {
		b.WriteString(f.capNote(q, len(p.Items)))
	}
	b.WriteString("\n\n")
	b.WriteString(f.blocks(p.Items))
	fmt.Fprintf(&b, "\n\nNote: Prices and availability change frequently. For real-time information, check %s directly.", f.market)
	return b.String()
}

func (f *Formatter) header(q *types.ParsedQuery, items []types.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d CS2 skin", len(items))
	if len(items) != 1 {
		b.WriteString("s")
	}
	if q.StatTrak {
		b.WriteString(" (" + types.StatTrakMarker + ")")
	}
	if q.Weapon != types.WeaponNone {
		b.WriteString(" for " + string(q.Weapon))
	}

	switch q.Intent.Kind {
	case types.IntentBetween, types.IntentNear:
		fmt.Fprintf(&b, " between $%.2f and $%.2f", q.Intent.Min, q.Intent.Max)
	case types.IntentUnder:
		fmt.Fprintf(&b, " under $%.2f", q.Intent.Max)
	case types.IntentOver:
		fmt.Fprintf(&b, " over $%.2f", q.Intent.Min)
	}

	label := f.subject(q)
	switch {
	case q.Extremum == types.ExtremumMostExpensive:
		if top, ok := highest(items); ok {
			fmt.Fprintf(&b, "\nThe most expensive %s is %s at %s", label, top.Name, top.MinPrice)
		}
	case q.Extremum == types.ExtremumCheapest || q.Intent.IsRange() || q.PriceKeyword:
		if low, ok := lowest(items); ok {
			fmt.Fprintf(&b, "\nThe cheapest %s is %s at %s", label, low.Name, low.MinPrice)
		}
	}
	return b.String()
}

// subject is "StatTrak™ AK-47 skin", "knife skin" or just "skin"
func (f *Formatter) subject(q *types.ParsedQuery) string {
	var parts []string
	if q.StatTrak {
		parts = append(parts, types.StatTrakMarker)
	}
	if q.Weapon != types.WeaponNone {
		parts = append(parts, string(q.Weapon))
	}
	return strings.Join(append(parts, "skin"), " ")
}

func (f *Formatter) capNote(q *types.ParsedQuery, shown int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\nNote: I've shown the top %d relevant skins. To see more specific results, try:", shown)

	lo, hi := q.Intent.Bounds()
	bound := hi
	if math.IsInf(hi, 1) {
		bound = lo
	}

	if q.Weapon == types.WeaponNone {
		if q.Intent.IsRange() {
			fmt.Fprintf(&b, "\n• Adding a specific weapon (like 'AK-47 under $%.2f')", bound)
		} else {
			b.WriteString("\n• Adding a specific weapon (like 'cheapest AK-47')")
		}
	}
	if q.Intent.IsRange() {
		fmt.Fprintf(&b, "\n• Narrowing the price range (like 'between $%.2f and $%.2f')", math.Max(bound-5, 0), bound)
	}
	weapon := "AWP"
	if q.Weapon != types.WeaponNone {
		weapon = string(q.Weapon)
	}
	fmt.Fprintf(&b, "\n• Specifying a skin name (like '%s Asiimov')", weapon)
	return b.String()
}

func (f *Formatter) blocks(items []types.Item) string {
	out := make([]string, len(items))
	for i, it := range items {
		var b strings.Builder
		fmt.Fprintf(&b, "%s:\n• %s Price: %s", it.Name, f.market, it.MinPrice)
		if it.MaxPrice.Known() && it.MaxPrice != it.MinPrice {
			fmt.Fprintf(&b, " - %s", it.MaxPrice)
		}
		fmt.Fprintf(&b, "\n• Suggested Price: %s", it.SuggestedPrice)
		fmt.Fprintf(&b, "\n• Available: %d items", it.Quantity)
		out[i] = b.String()
	}
	return strings.Join(out, "\n\n")
}

func (f *Formatter) alternatives(q *types.ParsedQuery, items []types.Item) string {
	return fmt.Sprintf("I couldn't find a %s, but here are some related alternatives:\n\n%s"+
		"\n\nNote: Prices and availability change frequently. For the most up-to-date information, check %s directly.",
		f.describe(q), f.blocks(items), f.market)
}

func (f *Formatter) noMatch(q *types.ParsedQuery) string {
	if q.Weapon != types.WeaponNone && q.Skin != "" && q.Wear != types.WearNone && (q.StatTrak || q.Souvenir) {
		return fmt.Sprintf("I couldn't find the %s in the current data. "+
			"This item might be unavailable on %s or our data may need to be updated. "+
			"For real-time availability, check %s directly.", f.describe(q), f.market, f.market)
	}
	return fmt.Sprintf("I couldn't find any CS2 skins matching '%s'. "+
		"Please try using a more specific name or check your spelling.", q.Raw)
}

// describe renders the requested item the way marketplace names read:
// "StatTrak™ Karambit | Fade (Minimal Wear)"
func (f *Formatter) describe(q *types.ParsedQuery) string {
	var parts []string
	if q.StatTrak {
		parts = append(parts, types.StatTrakMarker)
	}
	if q.Souvenir {
		parts = append(parts, types.SouvenirMarker)
	}
	if q.Weapon != types.WeaponNone {
		parts = append(parts, string(q.Weapon))
	}
	if q.Skin != "" {
		if q.Weapon != types.WeaponNone {
			parts = append(parts, "|")
		}
		// Casers are stateful, one per call
		parts = append(parts, cases.Title(language.English).String(q.Skin))
	}
	if q.Wear != types.WearNone {
		parts = append(parts, "("+string(q.Wear)+")")
	}
	return strings.Join(parts, " ")
}

func lowest(items []types.Item) (types.Item, bool) {
	var best types.Item
	found := false
	for _, it := range items {
		if !it.MinPrice.Known() {
			continue
		}
		if !found || it.MinPrice < best.MinPrice {
			best, found = it, true
		}
	}
	return best, found
}

func highest(items []types.Item) (types.Item, bool) {
	var best types.Item
	found := false
	for _, it := range items {
		if !it.MinPrice.Known() {
			continue
		}
		if !found || it.MinPrice > best.MinPrice {
			best, found = it, true
		}
	}
	return best, found
}
