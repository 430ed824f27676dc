package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool names
const (
	ToolSearchSkins       = "search_skins"
	ToolDetectPriceIntent = "detect_price_intent"
	ToolCatalogStatus     = "catalog_status"
	ToolReloadCatalog     = "reload_catalog"
)

// Output formats for search_skins
const (
	FormatText = "text"
	FormatJSON = "json"
)

// MaxLimit bounds the limit argument of search_skins
const MaxLimit = 100

// searchSkinsTool returns the tool definition for search_skins
func searchSkinsTool() mcp.Tool {
	return mcp.Tool{
		Name: ToolSearchSkins,
		Description: "Search the CS2 skin marketplace catalog with a natural language query. " +
			"Understands weapon nicknames, wear abbreviations, StatTrak/Souvenir, " +
			"price ranges ('under $50', 'between 10 and 20') and 'cheapest'/'most expensive'.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query, e.g. 'st ak redline ft' or 'awp under $100'",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100); never more than the engine's own cap",
					"minimum":     1,
					"maximum":     MaxLimit,
				},
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Response format: chat-ready text or structured JSON",
					"enum":        []string{FormatText, FormatJSON},
					"default":     FormatText,
				},
			},
			Required: []string{"query"},
		},
	}
}

// detectPriceIntentTool returns the tool definition for detect_price_intent
func detectPriceIntentTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolDetectPriceIntent,
		Description: "Extract the price constraint and cheapest/most expensive request from a query without searching",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Query to analyse",
				},
			},
			Required: []string{"query"},
		},
	}
}

// catalogStatusTool returns the tool definition for catalog_status
func catalogStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolCatalogStatus,
		Description: "Report the loaded catalog, semantic index and cache state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// reloadCatalogTool returns the tool definition for reload_catalog
func reloadCatalogTool() mcp.Tool {
	return mcp.Tool{
		Name:        ToolReloadCatalog,
		Description: "Re-read the marketplace snapshot from disk. The previous catalog stays live if the new one fails to load.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
