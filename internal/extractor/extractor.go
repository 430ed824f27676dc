package extractor

import (
	"strings"

	"github.com/baasilali/2m-backend/internal/intent"
	"github.com/baasilali/2m-backend/internal/normalizer"
	"github.com/baasilali/2m-backend/pkg/types"
)

// fillers are words that never contribute to a skin name
var fillers = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "for": {}, "is": {}, "are": {}, "in": {}, "on": {}, "with": {},
	"price": {}, "prices": {}, "priced": {}, "cost": {}, "costs": {}, "value": {}, "worth": {},
	"how": {}, "much": {}, "what": {}, "whats": {}, "does": {}, "do": {},
	"cheap": {}, "cheapest": {}, "expensive": {}, "priciest": {}, "most": {}, "least": {},
	"lowest": {}, "highest": {}, "affordable": {}, "budget": {}, "money": {},
	"dollar": {}, "dollars": {}, "usd": {}, "bucks": {},
	"skin": {}, "skins": {}, "item": {}, "items": {},
	"show": {}, "me": {}, "find": {}, "list": {}, "any": {}, "some": {}, "please": {},
	"i": {}, "want": {}, "looking": {}, "buy": {}, "get": {}, "skinport": {},
}

// state is threaded through the steps. Each step consumes the tokens it
// recognizes.
type state struct {
	tokens []string
	comps  types.Components
}

// Step is one destructive extraction pass
type Step struct {
	Name  string
	Apply func(*state)
}

var steps = []Step{
	{Name: "markers", Apply: stripMarkers},
	{Name: "weapon", Apply: stripWeapon},
	{Name: "wear", Apply: stripWear},
	{Name: "price", Apply: stripPrice},
}

// Steps returns the extraction passes in the order they run
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// Extractor splits a normalized query into weapon, skin, wear and trait
// components
type Extractor struct{}

// New creates an extractor
func New() *Extractor {
	return &Extractor{}
}

// Extract runs every step over normalized. Whatever the steps leave behind
// is the skin fragment.
func (e *Extractor) Extract(normalized string) types.Components {
	st := &state{tokens: strings.Fields(strings.ToLower(normalized))}
	for _, s := range steps {
		s.Apply(st)
	}
	st.comps.Skin = strings.Join(st.tokens, " ")
	return st.comps
}

func stripMarkers(st *state) {
	kept := st.tokens[:0]
	for _, t := range st.tokens {
		switch t {
		case normalizer.StatTrakToken:
			st.comps.StatTrak = true
		case normalizer.SouvenirToken:
			st.comps.Souvenir = true
		default:
			kept = append(kept, t)
		}
	}
	st.tokens = kept
}

// stripWeapon removes the leftmost weapon phrase, preferring the longest
// phrase at that position
func stripWeapon(st *state) {
	maxWords := types.WeaponPhraseMaxWords()
	for i := range st.tokens {
		for width := min(maxWords, len(st.tokens)-i); width > 0; width-- {
			w, ok := types.LookupWeapon(strings.Join(st.tokens[i:i+width], " "))
			if !ok {
				continue
			}
			st.comps.Weapon = w
			st.tokens = append(st.tokens[:i], st.tokens[i+width:]...)
			return
		}
	}
}

// stripWear removes every wear phrase. The first one found sets the wear.
func stripWear(st *state) {
	kept := st.tokens[:0]
	for i := 0; i < len(st.tokens); {
		if i+1 < len(st.tokens) {
			if w := types.ParseWear(st.tokens[i] + " " + st.tokens[i+1]); w != types.WearNone {
				if st.comps.Wear == types.WearNone {
					st.comps.Wear = w
				}
				i += 2
				continue
			}
		}
		if w := types.ParseWear(st.tokens[i]); w != types.WearNone {
			if st.comps.Wear == types.WearNone {
				st.comps.Wear = w
			}
			i++
			continue
		}
		kept = append(kept, st.tokens[i])
		i++
	}
	st.tokens = kept
}

func stripPrice(st *state) {
	rest := strings.Fields(intent.StripPriceExpressions(strings.Join(st.tokens, " ")))
	kept := rest[:0]
	for _, t := range rest {
		if strings.HasPrefix(t, "$") {
			continue
		}
		if _, ok := fillers[t]; ok {
			continue
		}
		kept = append(kept, t)
	}
	st.tokens = kept
}
