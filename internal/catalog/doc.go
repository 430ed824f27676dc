// Package catalog loads marketplace snapshots and serves them as immutable,
// indexed catalogs.
//
// A Catalog is built once from validated items and never mutated. It keeps
// a name index, a case-folded name index for exact lookups, per-weapon
// position lists in load order and the StatTrak / non-StatTrak partition.
//
// Store owns the live catalog behind an atomic pointer:
//
//	store := catalog.NewStore("data/marketplace.json", logger)
//	if err := store.Open(ctx); err != nil {
//	    // store.Current() is an empty catalog; searches report
//	    // "data not available"
//	}
//	cat := store.Current() // snapshot for one request
//
// Reload loads a fresh snapshot completely before swapping it in, so
// requests already holding the previous catalog finish undisturbed.
package catalog
