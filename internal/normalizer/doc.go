// Package normalizer canonicalizes free-text queries before extraction.
//
// Rewrites are whole-token phrase rules held in a table (weapon aliases,
// wear abbreviations, StatTrak and Souvenir synonyms, spelling fixes) and
// applied longest match first:
//
//	n := normalizer.New()
//	n.Normalize("st ak red ft") // "stattrak ak-47 red field-tested"
//
// The two-letter "st" is only read as StatTrak when a weapon phrase follows
// it. Every rule output is itself an identity rule, which makes Normalize
// idempotent.
package normalizer
