// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/testhealth/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the testhealth MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Test Health Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: scan_tests ---
	s.AddTool(mcp.NewTool("scan_tests",
		mcp.WithDescription("Find the test files under a directory and label each one stable, flaky, outdated or unknown."),
		mcp.WithString("repo_path", mcp.Description("Directory to scan (defaults to the server's configured path).")),
		mcp.WithString("category", mcp.Description("Comma-separated categories to include in the file lists (e.g. 'flaky,outdated'). The summary always covers every file.")),
	), h.handleScanTests)

	// --- 2. Tool: categorize_scores ---
	s.AddTool(mcp.NewTool("categorize_scores",
		mcp.WithDescription("Apply the categorization rules to the given scores without reading any file."),
		mcp.WithNumber("flaky_score", mcp.Description("Flaky indicator score."), mcp.Required()),
		mcp.WithNumber("outdated_score", mcp.Description("Outdated indicator score."), mcp.Required()),
		mcp.WithNumber("stable_score", mcp.Description("Stable indicator score."), mcp.Required()),
		mcp.WithString("path", mcp.Description("File path, used by the path-based rules.")),
		mcp.WithBoolean("is_old", mcp.Description("Whether the file has not been modified recently.")),
		mcp.WithArray("outdated_indicators", mcp.Description("Matched outdated indicators."), mcp.WithStringItems()),
	), h.handleCategorizeScores)

	// --- 3. Tool: list_indicators ---
	s.AddTool(mcp.NewTool("list_indicators",
		mcp.WithDescription("List the indicator strings, path rules and categorization rules."),
	), h.handleListIndicators)

	return s
}

// StartMCPServer starts the testhealth MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
