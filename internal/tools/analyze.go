package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"planfold/internal/goals"
)

// AnalyzeTool handles the pm_analyze_goals MCP tool.
// It lists every legacy goal found across the three legacy sources.
type AnalyzeTool struct {
	extractor *goals.Extractor
}

// NewAnalyzeTool creates an AnalyzeTool.
func NewAnalyzeTool(extractor *goals.Extractor) *AnalyzeTool {
	return &AnalyzeTool{extractor: extractor}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_analyze_goals",
		mcp.WithDescription(
			"List every goal in the legacy structure: potential-goals files, "+
				"SELECTED-GOALS.md entries, and archived goals, deduplicated by id. "+
				"Read-only.",
		),
		mcp.WithString("path",
			mcp.Description("Project root path. Defaults to the server's working directory."),
		),
	)
}

// Handle processes the pm_analyze_goals tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}

	legacy, err := t.extractor.FromProject(root)
	if err != nil {
		return nil, fmt.Errorf("extracting goals: %w", err)
	}

	if len(legacy) == 0 {
		return mcp.NewToolResultText(
			"No legacy goals found. Either the project is already migrated or " +
				"it has no goals under brainstorming/future-goals/ or 08-archive/goals/.",
		), nil
	}

	byStatus := make(map[string]int)
	var b strings.Builder
	fmt.Fprintf(&b, "# Goal Inventory — %d goals\n\n", len(legacy))
	fmt.Fprintf(&b, "| ID | Name | Status | Description |\n|---|---|---|---|\n")
	for _, g := range legacy {
		byStatus[g.Status]++
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", g.ID, g.Name, g.Status, truncate(g.Description, 80))
	}

	b.WriteString("\n**By status:** ")
	var parts []string
	for status, n := range byStatus {
		parts = append(parts, fmt.Sprintf("%s: %d", status, n))
	}
	sort.Strings(parts)
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString("\n\nNext step: `pm_propose_components` to preview the component grouping.\n")

	return mcp.NewToolResultText(b.String()), nil
}

// truncate shortens s to at most n runes for table display.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
