// Package mcp provides an MCP (Model Context Protocol) server adapter for kbqa.
// It lets AI assistants list, preview and ask questions about the documents
// held by the knowledge base server.
package mcp

import "errors"

// Errors returned when required ports are missing.
var (
	ErrMissingChatService      = errors.New("mcp: chat service is required")
	ErrMissingInventoryService = errors.New("mcp: inventory service is required")
)
