// Package mcp implements the Model Context Protocol (MCP) server for skinsearch.
//
// The server exposes four tools to MCP clients:
//   - search_skins: answer a natural language catalog query
//   - detect_price_intent: show how a query's price phrasing was read
//   - catalog_status: report catalog, semantic index and cache state
//   - reload_catalog: re-read the marketplace snapshot
//
// MCP is JSON-RPC 2.0 over stdio. The server is started with:
//
//	skinsearch serve --catalog marketplace_data.json
//
// # Tool: search_skins
//
//	Request:
//	{
//	  "query": "st ak redline ft",
//	  "limit": 5,
//	  "format": "json"
//	}
//
// The text format returns the chat-ready answer. The json format returns
// the matches with their prices (unknown prices are null) plus the path
// that answered (price_range, extremum, name, alternatives, unavailable),
// the winning strategy and whether the answer came from the cache. limit
// only truncates; it never raises the engine's own caps.
//
// # Error Codes
//
//	-32602: Invalid params
//	-32603: Internal error
//	-32001: No catalog snapshot configured
//	-32002: Reload already in progress
//	-32003: Reload failed, previous catalog kept
//	-32004: Empty query
package mcp
