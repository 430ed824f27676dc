// Package searcher wires the query pipeline into one Engine.
//
// A query is normalized, then price intent, extremum keywords and name
// components are pulled out of the normalized text. From there it takes one
// of two routes:
//
//   - price: a price band or a cheapest/most expensive request is served by
//     filtering and sorting the catalog, narrowed by weapon, trait and wear.
//     An empty band falls through to the name route.
//   - name: the matcher chain (exact, component, fuzzy, optional semantic)
//     ranks items by relevance.
//
// When the name route finds nothing for a query naming a skin plus a trait
// or wear, the engine relaxes those constraints and returns up to three
// labelled alternatives.
//
// # Basic Usage
//
//	store := catalog.NewStore("marketplace.json", logger)
//	_ = store.Open(ctx)
//
//	engine := searcher.New(store, searcher.DefaultConfig(), nil, logger)
//	fmt.Println(engine.Answer(ctx, "cheapest stattrak ak"))
//
// # Caching
//
// Responses are kept in an LRU cache keyed by sha256 of the query and the
// catalog version, with a TTL. Reload purges the cache and starts a
// background rebuild of the semantic index, if one is configured.
package searcher
