// Package mcp exposes the batch-processing surface to the authoring
// agent over the Model Context Protocol: claiming unprocessed batches,
// submitting responses, and auditing corpus coverage.
package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kmorand/tarotgen/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"batch_next": {
		def:     batchNextToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBatchNext },
	},
	"batch_submit": {
		def:     batchSubmitToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBatchSubmit },
	},
	"coverage_report": {
		def:     coverageReportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCoverageReport },
	},
}

// AllToolNames returns all valid tool names in sorted order.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with the pipeline tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"tarotgen",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(cfg *config.Config, version string) error {
	s := NewServer(cfg, version)
	return server.ServeStdio(s)
}
