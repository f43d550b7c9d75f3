package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ingestDocumentTool returns the tool definition for ingest_document
func ingestDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest a document into a collection for hybrid search",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Collection to ingest into (created on first use)",
				},
				"filename": map[string]interface{}{
					"type":        "string",
					"description": "Source filename; the extension selects the extractor (.txt, .md)",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Raw document content",
				},
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable document identifier; re-ingesting the same ID replaces its chunks. Generated when omitted.",
				},
			},
			Required: []string{"collection", "filename", "content"},
		},
	}
}

// searchTool returns the tool definition for search
func searchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search",
		Description: "Search a collection with hybrid, semantic, or lexical retrieval",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Collection to search",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language or keyword query",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Search strategy: hybrid (dense + sparse with score fusion), semantic (dense only), or lexical (BM25 only)",
					"enum":        []string{"hybrid", "semantic", "lexical"},
					"default":     "hybrid",
				},
				"min_score": map[string]interface{}{
					"type":        "number",
					"description": "Minimum hybrid score threshold (0.0-1.0)",
					"minimum":     0.0,
					"maximum":     1.0,
				},
			},
			Required: []string{"collection", "query"},
		},
	}
}

// listCollectionsTool returns the tool definition for list_collections
func listCollectionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_collections",
		Description: "List all collections in the store",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// deleteCollectionTool returns the tool definition for delete_collection
func deleteCollectionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_collection",
		Description: "Delete a collection and all of its indexed chunks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Collection to delete",
				},
			},
			Required: []string{"collection"},
		},
	}
}

// collectionStatsTool returns the tool definition for collection_stats
func collectionStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "collection_stats",
		Description: "Report chunk counts for a collection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Collection to inspect",
				},
			},
			Required: []string{"collection"},
		},
	}
}
