package intent

import (
	"regexp"

	"github.com/baasilali/2m-backend/pkg/types"
)

// num matches an amount with optional thousands separators and decimals
const num = `(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`

// lead keeps digits embedded in words ("ak-47", "p250") from counting as
// amounts
const lead = `(?:^|[^\w.\-$])`

// Family is one ordered group of price patterns. Between patterns capture
// two amounts, all others one.
type Family struct {
	Kind     types.PriceIntentKind
	Patterns []*regexp.Regexp
	// NeedsPriceContext patterns only count when the query also mentions
	// price vocabulary or a dollar sign
	NeedsPriceContext []bool
}

var families = []Family{
	{
		Kind: types.IntentBetween,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bbetween\s*\$?` + num + `\s*(?:and|to|-)\s*\$?` + num + `\b`),
			regexp.MustCompile(`\bfrom\s*\$?` + num + `\s*(?:to|-)\s*\$?` + num + `\b`),
			regexp.MustCompile(lead + `\$` + num + `\s*(?:-|to)\s*\$?` + num + `\b`),
			regexp.MustCompile(lead + num + `\s*(?:-|to)\s*\$` + num + `\b`),
			regexp.MustCompile(lead + num + `\s*(?:-|to)\s*` + num + `\s*(?:dollars?|usd|bucks)\b`),
		},
		NeedsPriceContext: []bool{false, false, false, false, false},
	},
	{
		Kind: types.IntentUnder,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:under|less than|cheaper than|below|max(?:imum)?(?:\s+of)?|at most|no more than|up to|not exceeding)\s*\$?` + num + `\b`),
			regexp.MustCompile(`<=?\s*\$?` + num + `\b`),
		},
		NeedsPriceContext: []bool{false, false},
	},
	{
		Kind: types.IntentOver,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:over|more than|above|min(?:imum)?(?:\s+of)?|at least|no less than|starting (?:at|from))\s*\$?` + num + `\b`),
			regexp.MustCompile(`>=?\s*\$?` + num + `\b`),
		},
		NeedsPriceContext: []bool{false, false},
	},
	{
		Kind: types.IntentNear,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(lead + `\$\s*` + num + `\b`),
			regexp.MustCompile(lead + num + `\s*(?:dollars?|usd|bucks)\b`),
			regexp.MustCompile(`\b(?:around|about|roughly|approximately|approx)\s*\$?` + num + `\b`),
		},
		NeedsPriceContext: []bool{false, false, true},
	},
}

// Families returns the pattern families in precedence order
func Families() []Family {
	out := make([]Family, len(families))
	copy(out, families)
	return out
}

var (
	priceKeyword = regexp.MustCompile(`\b(?:prices?|priced|costs?|value|worth|expensive|cheap|cheaper|cheapest|affordable|budget|money|dollars?|usd|bucks|priciest|how much)\b|\$`)

	cheapestPhrase      = regexp.MustCompile(`\b(?:cheapest|lowest price[sd]?|least expensive|lowest priced)\b`)
	mostExpensivePhrase = regexp.MustCompile(`\b(?:most expensive|highest price[sd]?|priciest|most valuable)\b`)
)
