package matcher

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/baasilali/2m-backend/internal/normalizer"
)

// partialWeight discounts a match found inside a longer name
const partialWeight = 0.9

// Similarity scores a against b on a 0-100 scale. It is the best of the
// plain edit-distance ratio, the ratio of the sorted token lists and a
// discounted ratio of the best aligned token window.
func Similarity(a, b string) int {
	ta, tb := strings.Fields(strings.ToLower(a)), strings.Fields(strings.ToLower(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	best := ratio(strings.Join(ta, " "), strings.Join(tb, " "))
	if s := tokenSortRatio(ta, tb); s > best {
		best = s
	}
	if s := int(math.Round(partialWeight * float64(partialRatio(ta, tb)))); s > best {
		best = s
	}
	return best
}

func ratio(a, b string) int {
	if a == b {
		return 100
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 100
	}
	d := fuzzy.LevenshteinDistance(a, b)
	return int(math.Round(100 * (1 - float64(d)/float64(longest))))
}

func tokenSortRatio(ta, tb []string) int {
	sa := append([]string(nil), ta...)
	sb := append([]string(nil), tb...)
	sort.Strings(sa)
	sort.Strings(sb)
	return ratio(strings.Join(sa, " "), strings.Join(sb, " "))
}

// partialRatio slides the shorter token list over the longer one
func partialRatio(ta, tb []string) int {
	short, long := ta, tb
	if len(short) > len(long) {
		short, long = long, short
	}
	needle := strings.Join(short, " ")

	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		if s := ratio(needle, strings.Join(long[i:i+len(short)], " ")); s > best {
			best = s
		}
	}
	return best
}

// nameKey is the form item names are compared in: lower case, with glyphs
// and punctuation dropped the same way queries are tokenized
func nameKey(name string) string {
	return strings.Join(normalizer.Tokenize(name), " ")
}
