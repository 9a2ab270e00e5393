package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/testhealth/core"
	"github.com/huangsam/testhealth/internal/contract"
	"github.com/huangsam/testhealth/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// categorizeResponse is the answer of categorize_scores.
type categorizeResponse struct {
	Category schema.Category `json:"category"`
	Rule     string          `json:"rule"`
}

func (h *toolHandler) handleScanTests(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid repo_path: %v", err)), nil
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			return mcp.NewToolResultError(fmt.Sprintf("repo_path %q is not a directory", p)), nil
		}
		cfg.RepoPath = abs
	}
	categories, err := contract.ParseCategories(request.GetString("category", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := core.GetScanReport(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}
	return jsonResult(report.Filter(categories...))
}

func (h *toolHandler) handleCategorizeScores(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := core.CategorizeInput{
		FlakyScore:         request.GetInt("flaky_score", 0),
		OutdatedScore:      request.GetInt("outdated_score", 0),
		StableScore:        request.GetInt("stable_score", 0),
		OutdatedIndicators: request.GetStringSlice("outdated_indicators", nil),
		IsOld:              request.GetBool("is_old", false),
		Path:               request.GetString("path", ""),
	}
	if in.FlakyScore < 0 || in.OutdatedScore < 0 || in.StableScore < 0 {
		return mcp.NewToolResultError("scores must not be negative"), nil
	}
	category, rule := core.CategorizeWithRule(in)
	return jsonResult(categorizeResponse{Category: category, Rule: rule})
}

func (h *toolHandler) handleListIndicators(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(schema.NewIndicatorCatalog(core.Rules()))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
