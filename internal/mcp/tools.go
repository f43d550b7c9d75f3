package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docfusion/docfusion/internal/service"
	"github.com/docfusion/docfusion/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeCollectionNotFound = -32001 // Named collection does not exist
	ErrorCodeUnsupportedFormat  = -32002 // Document format has no extractor
	ErrorCodeEmptyDocument      = -32003 // Document has no extractable content
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
)

// handleIngestDocument handles the ingest_document tool invocation
func (s *Server) handleIngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	collection, ok := args["collection"].(string)
	if !ok || collection == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "collection is required", map[string]interface{}{
			"param": "collection",
		})
	}
	filename, ok := args["filename"].(string)
	if !ok || filename == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "filename is required", map[string]interface{}{
			"param": "filename",
		})
	}
	content, ok := args["content"].(string)
	if !ok || content == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "content is required", map[string]interface{}{
			"param": "content",
		})
	}
	documentID := getStringDefault(args, "document_id", "")

	result, err := s.svc.IngestDocument(ctx, service.IngestRequest{
		Collection: collection,
		DocumentID: documentID,
		Filename:   filename,
		Data:       []byte(content),
	})
	if err != nil {
		return nil, mapServiceError(err)
	}

	response := map[string]interface{}{
		"success":          true,
		"collection":       collection,
		"document_id":      result.DocumentID,
		"chunk_count":      result.ChunkCount,
		"lexical_indexed":  result.LexicalIndexed,
		"keyword_failures": result.KeywordFailures,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearch handles the search tool invocation
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	collection, ok := args["collection"].(string)
	if !ok || collection == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "collection is required", map[string]interface{}{
			"param": "collection",
		})
	}
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query must not be empty", map[string]interface{}{
			"param": "query",
		})
	}

	topK := getIntDefault(args, "top_k", service.DefaultTopK)
	if topK < 1 || topK > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "top_k must be between 1 and 100", map[string]interface{}{
			"param": "top_k",
			"value": topK,
		})
	}
	mode := getStringDefault(args, "mode", string(types.ModeHybrid))
	minScore := getFloatDefault(args, "min_score", 0)

	results, err := s.svc.Search(ctx, service.SearchQuery{
		Collection: collection,
		Query:      query,
		TopK:       topK,
		Mode:       types.SearchMode(mode),
		MinScore:   minScore,
	})
	if err != nil {
		return nil, mapServiceError(err)
	}

	items := make([]map[string]interface{}, 0, len(results))
	for i, r := range results {
		items = append(items, map[string]interface{}{
			"rank":     i + 1,
			"chunk_id": r.ChunkID,
			"content":  r.Text,
			"source":   string(r.Source),
			"metadata": r.Metadata,
			"scores": map[string]interface{}{
				"hybrid":   r.HybridScore,
				"semantic": r.SemanticScore,
				"lexical":  r.LexicalScore,
			},
		})
	}

	response := map[string]interface{}{
		"collection": collection,
		"query":      query,
		"mode":       mode,
		"count":      len(items),
		"results":    items,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListCollections handles the list_collections tool invocation
func (s *Server) handleListCollections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.svc.ListCollections(ctx)
	if err != nil {
		return nil, mapServiceError(err)
	}

	response := map[string]interface{}{
		"collections": names,
		"count":       len(names),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDeleteCollection handles the delete_collection tool invocation
func (s *Server) handleDeleteCollection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	collection, ok := args["collection"].(string)
	if !ok || collection == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "collection is required", map[string]interface{}{
			"param": "collection",
		})
	}

	if err := s.svc.DeleteCollection(ctx, collection); err != nil {
		return nil, mapServiceError(err)
	}

	response := map[string]interface{}{
		"deleted":    true,
		"collection": collection,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCollectionStats handles the collection_stats tool invocation
func (s *Server) handleCollectionStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	collection, ok := args["collection"].(string)
	if !ok || collection == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "collection is required", map[string]interface{}{
			"param": "collection",
		})
	}

	stats, err := s.svc.CollectionStats(ctx, collection)
	if err != nil {
		return nil, mapServiceError(err)
	}

	response := map[string]interface{}{
		"collection":     stats.Name,
		"vector_chunks":  stats.VectorChunks,
		"lexical_chunks": stats.LexicalChunks,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// mapServiceError translates service errors into MCP protocol errors.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, types.ErrCollectionNotFound):
		return newMCPError(ErrorCodeCollectionNotFound, "collection not found", map[string]interface{}{
			"error": err.Error(),
		})
	case errors.Is(err, types.ErrUnsupportedFormat):
		return newMCPError(ErrorCodeUnsupportedFormat, "unsupported document format", map[string]interface{}{
			"error": err.Error(),
		})
	case errors.Is(err, types.ErrEmptyDocument), errors.Is(err, types.ErrNoContent):
		return newMCPError(ErrorCodeEmptyDocument, "document has no content", map[string]interface{}{
			"error": err.Error(),
		})
	case errors.Is(err, types.ErrInvalidQuery):
		return newMCPError(ErrorCodeEmptyQuery, "query must not be empty", map[string]interface{}{
			"error": err.Error(),
		})
	case errors.Is(err, types.ErrInvalidCollectionName),
		errors.Is(err, types.ErrInvalidTopK),
		errors.Is(err, types.ErrInvalidMode):
		return newMCPError(ErrorCodeInvalidParams, "invalid parameters", map[string]interface{}{
			"error": err.Error(),
		})
	default:
		return newMCPError(ErrorCodeInternalError, "operation failed", map[string]interface{}{
			"error": err.Error(),
		})
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

// getFloatDefault extracts a float parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	if val, ok := args[key].(int); ok {
		return float64(val)
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
