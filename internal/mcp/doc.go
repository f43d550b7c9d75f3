// Package mcp implements the Model Context Protocol (MCP) server for DocFusion.
//
// The MCP server exposes five tools to AI assistants:
//   - ingest_document: Ingest a document into a collection
//   - search: Query a collection with hybrid, semantic, or lexical retrieval
//   - list_collections: List all collections in the store
//   - delete_collection: Remove a collection and its indexed chunks
//   - collection_stats: Report chunk counts for a collection
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output, so
// all logging goes to stderr.
//
// # Tool: ingest_document
//
//	Request:
//	{
//	  "name": "ingest_document",
//	  "arguments": {
//	    "collection": "docs",
//	    "filename": "guide.md",
//	    "content": "# Heading\n\nBody text...",
//	    "document_id": "guide"
//	  }
//	}
//
//	Response:
//	{
//	  "success": true,
//	  "document_id": "guide",
//	  "chunk_count": 4,
//	  "lexical_indexed": true
//	}
//
// # Tool: search
//
//	Request:
//	{
//	  "name": "search",
//	  "arguments": {
//	    "collection": "docs",
//	    "query": "how does score fusion work",
//	    "top_k": 10,
//	    "mode": "hybrid",
//	    "min_score": 0.2
//	  }
//	}
//
//	Response:
//	{
//	  "count": 2,
//	  "results": [
//	    {
//	      "rank": 1,
//	      "chunk_id": "guide:0",
//	      "content": "...",
//	      "source": "both",
//	      "scores": {"hybrid": 0.91, "semantic": 0.88, "lexical": 0.74}
//	    }
//	  ]
//	}
//
// # Error Handling
//
// The server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "collection is required",
//	    "data": {"param": "collection"}
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, embedding provider, etc.)
//   - -32001: Collection not found
//   - -32002: Unsupported document format
//   - -32003: Document has no extractable content
//   - -32004: Query parameter is empty
package mcp
