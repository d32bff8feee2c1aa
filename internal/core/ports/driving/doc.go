// Package driving declares the services the CLI, TUI and MCP server call.
// internal/core/services implements them.
package driving
