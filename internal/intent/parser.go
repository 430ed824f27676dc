package intent

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/baasilali/2m-backend/pkg/types"
)

// DefaultTolerance is the half-width of the window around a near amount
const DefaultTolerance = 0.10

// ErrAmountOutOfRange is returned for captures that parse to an infinite or
// non-finite value
var ErrAmountOutOfRange = errors.New("amount out of range")

// Parser extracts price intent from query text
type Parser struct {
	tolerance float64
	logger    zerolog.Logger
}

// New creates a parser. A tolerance outside (0, 1) falls back to
// DefaultTolerance.
func New(tolerance float64, logger zerolog.Logger) *Parser {
	if tolerance <= 0 || tolerance >= 1 {
		tolerance = DefaultTolerance
	}
	return &Parser{tolerance: tolerance, logger: logger}
}

// Tolerance returns the near window half-width
func (p *Parser) Tolerance() float64 {
	return p.tolerance
}

// Parse returns the price intent of q. Families are tried in precedence
// order between, under, over, near and the first match wins. A capture that
// cannot be converted is logged and yields no intent.
func (p *Parser) Parse(q string) types.PriceIntent {
	in, err := p.ParseStrict(q)
	if err != nil {
		p.logger.Warn().Err(err).Str("query", q).Msg("Ignoring unparseable price expression")
		return types.NoIntent
	}
	return in
}

// ParseStrict is Parse with conversion failures returned as *types.ParseError
func (p *Parser) ParseStrict(q string) (types.PriceIntent, error) {
	s := strings.ToLower(q)
	hasContext := HasPriceKeyword(s)

	for _, fam := range families {
		for i, re := range fam.Patterns {
			if fam.NeedsPriceContext[i] && !hasContext {
				continue
			}
			m := re.FindStringSubmatch(s)
			if m == nil {
				continue
			}
			return p.build(fam.Kind, m[1:])
		}
	}
	return types.NoIntent, nil
}

func (p *Parser) build(kind types.PriceIntentKind, captures []string) (types.PriceIntent, error) {
	amounts := make([]float64, 0, len(captures))
	for _, c := range captures {
		v, err := parseAmount(c)
		if err != nil {
			return types.NoIntent, &types.ParseError{Family: string(kind), Capture: c, Err: err}
		}
		amounts = append(amounts, v)
	}

	switch kind {
	case types.IntentBetween:
		lo, hi := amounts[0], amounts[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return types.PriceIntent{Kind: kind, Min: lo, Max: hi}, nil
	case types.IntentUnder:
		return types.PriceIntent{Kind: kind, Max: amounts[0]}, nil
	case types.IntentOver:
		return types.PriceIntent{Kind: kind, Min: amounts[0]}, nil
	default:
		x := amounts[0]
		return types.PriceIntent{
			Kind:   types.IntentNear,
			Min:    x * (1 - p.tolerance),
			Max:    x * (1 + p.tolerance),
			Target: x,
		}, nil
	}
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrAmountOutOfRange
	}
	return v, nil
}

// HasPriceKeyword reports whether q mentions price vocabulary or a dollar
// sign
func HasPriceKeyword(q string) bool {
	return priceKeyword.MatchString(strings.ToLower(q))
}

// DetectExtremum recognizes requests for the cheapest or most expensive
// items. Cheapest phrasing is checked first.
func DetectExtremum(q string) types.Extremum {
	s := strings.ToLower(q)
	switch {
	case cheapestPhrase.MatchString(s):
		return types.ExtremumCheapest
	case mostExpensivePhrase.MatchString(s):
		return types.ExtremumMostExpensive
	default:
		return types.ExtremumNone
	}
}

// StripPriceExpressions blanks every price expression and extremum phrase
// out of q so the remaining words can be matched against item names
func StripPriceExpressions(q string) string {
	s := strings.ToLower(q)
	for _, fam := range families {
		for _, re := range fam.Patterns {
			s = re.ReplaceAllString(s, " ")
		}
	}
	s = cheapestPhrase.ReplaceAllString(s, " ")
	s = mostExpensivePhrase.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
