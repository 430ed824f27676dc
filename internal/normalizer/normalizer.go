package normalizer

import (
	"regexp"
	"strings"
)

// stAbbrev is rewritten to StatTrakToken only when a weapon phrase follows
const stAbbrev = "st"

var (
	// Separators that never carry meaning for matching. Commas are kept
	// between digits so "1,000" survives for the price parser.
	separatorReplacer = strings.NewReplacer(
		"™", "", "★", "",
		"|", " ", "(", " ", ")", " ", "[", " ", "]", " ",
		"?", " ", "!", " ", ";", " ", ":", " ", "\"", " ", "'s", "", "'", "",
	)
	looseComma = regexp.MustCompile(`,(\D|$)|(^|\D),`)
)

// Normalizer canonicalizes query text with an ordered phrase table
type Normalizer struct {
	rules    map[string]Rule
	maxWords int
}

// New creates a normalizer with the default rule table
func New() *Normalizer {
	return NewWithRules(DefaultRules())
}

// NewWithRules creates a normalizer from an explicit rule table. When two
// rules share a From phrase the later one wins.
func NewWithRules(rules []Rule) *Normalizer {
	n := &Normalizer{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		from := strings.Join(strings.Fields(strings.ToLower(r.From)), " ")
		if from == "" {
			continue
		}
		r.From = from
		n.rules[from] = r
		if words := strings.Count(from, " ") + 1; words > n.maxWords {
			n.maxWords = words
		}
	}
	return n
}

// Rules returns the rule table keyed by From phrase
func (n *Normalizer) Rules() map[string]Rule {
	out := make(map[string]Rule, len(n.rules))
	for k, v := range n.rules {
		out[k] = v
	}
	return out
}

// Normalize lower-cases q, strips decorative glyphs and punctuation and
// rewrites known phrases, longest match first. The result is stable:
// Normalize(Normalize(q)) == Normalize(q).
func (n *Normalizer) Normalize(q string) string {
	tokens := Tokenize(q)
	out := make([]string, 0, len(tokens))

	for i := 0; i < len(tokens); {
		if tokens[i] == stAbbrev {
			if _, _, ok := n.match(tokens, i+1, KindWeapon); ok {
				out = append(out, StatTrakToken)
				i++
				continue
			}
		}

		if rule, width, ok := n.match(tokens, i, ""); ok {
			out = append(out, rule.To)
			i += width
			continue
		}

		out = append(out, tokens[i])
		i++
	}

	return strings.Join(out, " ")
}

// match finds the longest rule starting at tokens[i]. A non-empty kind
// restricts the search to rules of that kind.
func (n *Normalizer) match(tokens []string, i int, kind RuleKind) (Rule, int, bool) {
	for width := min(n.maxWords, len(tokens)-i); width > 0; width-- {
		phrase := strings.Join(tokens[i:i+width], " ")
		rule, ok := n.rules[phrase]
		if !ok {
			continue
		}
		if kind != "" && rule.Kind != kind {
			continue
		}
		return rule, width, true
	}
	return Rule{}, 0, false
}

// Tokenize lower-cases q and splits it into whitespace tokens, dropping
// decorative glyphs and punctuation
func Tokenize(q string) []string {
	s := separatorReplacer.Replace(strings.ToLower(q))
	s = looseComma.ReplaceAllString(s, "$2 $1")

	fields := strings.Fields(s)
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.TrimRight(f, ".,")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
