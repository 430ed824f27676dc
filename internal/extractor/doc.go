// Package extractor splits a normalized query into its components.
//
// Extraction is a fixed sequence of destructive steps: StatTrak and
// Souvenir markers, then the leftmost weapon phrase, then wear phrases,
// then price expressions and filler words. The words that survive form the
// skin fragment, which may be empty.
package extractor
