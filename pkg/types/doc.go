// Package types provides shared type definitions for the skin search engine.
//
// This package defines domain types used across the catalog, the query
// understanding pipeline and the result formatter.
//
// # Core Types
//
// Item represents one marketplace listing keyed by its market hash name:
//
//	item := types.NewItem("StatTrak™ AK-47 | Redline (Field-Tested)")
//	item.WeaponType // "AK-47"
//	item.SkinName   // "Redline"
//	item.Wear       // types.WearFieldTested
//	item.IsStatTrak // true
//
// Prices are types.Price values. A missing or malformed price is
// types.UnknownPrice, which never takes part in range filters or sorting:
//
//	if item.MinPrice.Known() {
//	    fmt.Println(item.MinPrice) // "$12.50"
//	}
//
// # Weapon Classification
//
// ClassifyWeapon scans an ordered table and returns the first weapon whose
// name occurs in the item name as whole words. Knives and gloves precede the
// firearms, and specific models precede the generic "Knife" and "Gloves"
// entries, so "M9 Bayonet" wins over "Bayonet". The generic
// types cover their whole category:
//
//	types.WeaponKnife.Covers("Karambit") // true
//
// # Queries
//
// ParsedQuery carries the normalized text, the extracted Components
// (weapon, skin fragment, wear, StatTrak/Souvenir flags), a PriceIntent
// and an optional Extremum request. PriceIntent bounds are inclusive.
//
// # Search Results
//
// Match combines an Item with its relevance score, in the [0, 1] range,
// and the name of the strategy that produced it.
package types
