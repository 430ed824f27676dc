package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/baasilali/2m-backend/internal/catalog"
	"github.com/baasilali/2m-backend/internal/searcher"
	"github.com/baasilali/2m-backend/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeNoCatalogSource  = -32001 // Server was started without a snapshot path
	ErrorCodeReloadInProgress = -32002 // Another reload is already running
	ErrorCodeReloadFailed     = -32003 // Snapshot could not be read or decoded
	ErrorCodeEmptyQuery       = -32004 // Query parameter is empty
)

// handleSearchSkins handles the search_skins tool invocation
func (s *Server) handleSearchSkins(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, err := requireQuery(args)
	if err != nil {
		return nil, err
	}

	limit := getIntDefault(args, "limit", 0)
	if _, set := args["limit"]; set && (limit < 1 || limit > MaxLimit) {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit out of range", map[string]interface{}{
			"param":  "limit",
			"reason": fmt.Sprintf("must be between 1 and %d", MaxLimit),
		})
	}

	format := strings.ToLower(getStringDefault(args, "format", FormatText))
	if format != FormatText && format != FormatJSON {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid format", map[string]interface{}{
			"param":  "format",
			"reason": "must be text or json",
		})
	}

	resp, err := s.engine.Search(ctx, query)
	if errors.Is(err, types.ErrEmptyQuery) {
		return nil, emptyQueryError()
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if limit > 0 && len(resp.Matches) > limit {
		resp.Matches = resp.Matches[:limit]
		resp.Capped = true
	}

	if format == FormatText {
		return mcp.NewToolResultText(s.engine.Format(resp)), nil
	}

	matches := make([]map[string]interface{}, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, matchJSON(m))
	}

	response := map[string]interface{}{
		"query":       query,
		"path":        string(resp.Path),
		"strategy":    resp.Strategy,
		"total":       resp.Total,
		"returned":    len(matches),
		"capped":      resp.Capped,
		"cache_hit":   resp.CacheHit,
		"duration_ms": resp.Duration.Milliseconds(),
		"matches":     matches,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDetectPriceIntent handles the detect_price_intent tool invocation
func (s *Server) handleDetectPriceIntent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, err := requireQuery(args)
	if err != nil {
		return nil, err
	}

	q := s.engine.Parse(query)
	in := q.Intent

	var minPrice, maxPrice, target interface{}
	if in.IsRange() {
		lo, hi := in.Bounds()
		minPrice = lo
		if !math.IsInf(hi, 1) {
			maxPrice = hi
		}
	}
	if in.Kind == types.IntentNear {
		target = in.Target
	}

	var extremum interface{}
	if q.Extremum != types.ExtremumNone {
		extremum = string(q.Extremum)
	}

	response := map[string]interface{}{
		"query":         query,
		"normalized":    q.Normalized,
		"kind":          string(in.Kind),
		"min":           minPrice,
		"max":           maxPrice,
		"target":        target,
		"extremum":      extremum,
		"price_keyword": q.PriceKeyword,
		"components": map[string]interface{}{
			"weapon":   string(q.Weapon),
			"skin":     q.Skin,
			"wear":     string(q.Wear),
			"stattrak": q.StatTrak,
			"souvenir": q.Souvenir,
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCatalogStatus handles the catalog_status tool invocation
func (s *Server) handleCatalogStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := statusJSON(s.engine.Status())

	if s.cache != nil {
		cs, err := s.cache.CacheStatus(ctx)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to get embedding cache status", map[string]interface{}{
				"error": err.Error(),
			})
		}
		if cs != nil {
			response["embedding_cache"] = map[string]interface{}{
				"schema_version": cs.SchemaVersion,
				"sets":           cs.Sets,
				"vectors":        cs.Vectors,
				"size_mb":        fmt.Sprintf("%.2f", float64(cs.SizeBytes)/(1024*1024)),
				"build_mode":     cs.BuildMode,
				"driver":         cs.DriverName,
			}
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleReloadCatalog handles the reload_catalog tool invocation
func (s *Server) handleReloadCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.engine.Reload(ctx)
	switch {
	case errors.Is(err, catalog.ErrNoSource):
		return nil, newMCPError(ErrorCodeNoCatalogSource, "no catalog snapshot configured", nil)
	case errors.Is(err, catalog.ErrReloadInProgress):
		return nil, newMCPError(ErrorCodeReloadInProgress, "catalog reload already in progress", nil)
	case err != nil:
		s.logger.Warn().Err(err).Msg("Catalog reload failed")
		return nil, newMCPError(ErrorCodeReloadFailed, "catalog reload failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := statusJSON(*status)
	response["reloaded"] = true
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// requireQuery extracts a non-blank query argument
func requireQuery(args map[string]interface{}) (string, error) {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return "", emptyQueryError()
	}
	return query, nil
}

func emptyQueryError() error {
	return newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
		"param":  "query",
		"reason": "missing or empty",
	})
}

// matchJSON renders one match; unknown prices become null
func matchJSON(m types.Match) map[string]interface{} {
	return map[string]interface{}{
		"name":            m.Name,
		"weapon":          string(m.WeaponType),
		"skin":            m.SkinName,
		"wear":            string(m.Wear),
		"stattrak":        m.IsStatTrak,
		"souvenir":        m.IsSouvenir,
		"min_price":       priceJSON(m.MinPrice),
		"max_price":       priceJSON(m.MaxPrice),
		"suggested_price": priceJSON(m.SuggestedPrice),
		"quantity":        m.Quantity,
		"score":           m.Score,
		"strategy":        m.Strategy,
	}
}

func priceJSON(p types.Price) interface{} {
	if !p.Known() {
		return nil
	}
	return float64(p)
}

func statusJSON(st searcher.Status) map[string]interface{} {
	return map[string]interface{}{
		"loaded":    st.Items > 0,
		"items":     st.Items,
		"version":   st.Version,
		"name_hash": st.NameSetHash,
		"source":    st.Source,
		"pipeline":  st.StrategyPipeline,
		"cached":    st.CachedResponses,
		"semantic": map[string]interface{}{
			"enabled": st.SemanticEnabled,
			"ready":   st.SemanticReady,
		},
		"load_stats": map[string]interface{}{
			"records":          st.LoadStats.Records,
			"skipped":          st.LoadStats.Skipped,
			"duplicates":       st.LoadStats.Duplicates,
			"malformed_fields": st.LoadStats.MalformedFields,
		},
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
