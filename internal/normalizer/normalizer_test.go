package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := New()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"st before weapon alias", "st ak red", "stattrak ak-47 red"},
		{"st elsewhere untouched", "st patrick sticker", "st patrick sticker"},
		{"st at end untouched", "redline st", "redline st"},
		{"trademark glyph", "StatTrak™ AK-47 | Redline (Field-Tested)", "stattrak ak-47 redline field-tested"},
		{"star glyph", "★ Karambit | Fade (Factory New)", "karambit fade factory new"},
		{"stat trak spelling", "Stat-Trak M4A1s Printstream", "stattrak m4a1-s printstream"},
		{"wear abbreviation", "awp asiimov ft", "awp asiimov field-tested"},
		{"two word wear", "deagle blaze factory new", "desert eagle blaze factory new"},
		{"spelling fix", "karambit doplar", "karambit doppler"},
		{"multi word spelling fix", "m9 tiger toot", "m9 bayonet tiger tooth"},
		{"gamma doppler", "gamma dopler kara", "gamma doppler karambit"},
		{"knives plural", "cheapest knives", "cheapest knife"},
		{"souvenir", "souv awp", "souvenir awp"},
		{"punctuation", "How much is the AK Redline?", "how much is the ak-47 redline"},
		{"amounts survive", "AWP between $50 and $100", "awp between $50 and $100"},
		{"thousands separator", "knife under $1,000, please", "knife under $1,000 please"},
		{"whitespace", "   awp    asiimov   ", "awp asiimov"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.query))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New()

	queries := []string{
		"st ak red",
		"StatTrak™ AK-47 | Redline (Field-Tested)",
		"deagle blaze fn",
		"rust coat bayonet",
		"damascus m9",
		"sg krieg",
		"r8 revolver fade",
		"eagle",
		"broken fang glove",
		"tigertoot karambit bs",
		"st eagle blaze",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			once := n.Normalize(q)
			assert.Equal(t, once, n.Normalize(once))
		})
	}
}

func TestNormalize_IdentityRulesForEveryOutput(t *testing.T) {
	n := New()
	rules := n.Rules()

	for _, r := range rules {
		identity, ok := rules[r.To]
		require.Truef(t, ok, "no identity rule for output %q of %q", r.To, r.From)
		assert.Equal(t, r.To, identity.To)
	}
}

func TestNewWithRules(t *testing.T) {
	n := NewWithRules([]Rule{
		{From: "Hello  World", To: "greeting", Kind: KindSpelling},
		{From: "greeting", To: "greeting", Kind: KindSpelling},
		{From: "  ", To: "ignored"},
	})

	assert.Equal(t, "greeting there", n.Normalize("hello world there"))
	assert.Len(t, n.Rules(), 2)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"ak-47", "redline", "field-tested"}, Tokenize("AK-47 | Redline (Field-Tested)."))
	assert.Equal(t, []string{"under", "$1,000"}, Tokenize("under $1,000"))
	assert.Equal(t, []string{"a", "b"}, Tokenize("a,b"))
	assert.Empty(t, Tokenize(" | ( ) "))
}
