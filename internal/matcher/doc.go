// Package matcher resolves a parsed query to catalog items.
//
// Strategies run as a chain. The exact and component strategies are tried
// first and the first one with results wins. When both come up empty the
// fuzzy strategies and an optional semantic source are blended:
//
//	total = w*semantic + (1-w)*lexical
//
// with lexical similarity on a 0-100 Levenshtein ratio scale divided by 100.
// Candidates below the minimum score are dropped and the rest are ranked by
// score, then catalog order. A semantic source that fails is logged and
// the chain falls back to lexical scores alone.
package matcher
