// Package pricing answers price-constrained and cheapest/most expensive
// requests against a catalog snapshot.
//
// Bounds are inclusive and compare against an item's minimum listing
// price. Items without a known price never appear in price results.
// Range searches also skip stickers, cases and other containers unless the
// name mentions a weapon.
package pricing
