package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"planfold/internal/cluster"
	"planfold/internal/goals"
	"planfold/internal/migrate"
)

// ProposeTool handles the pm_propose_components MCP tool.
// It previews how legacy goals would be grouped into components, and emits
// the machine-readable plan that pm_execute_migration accepts.
type ProposeTool struct {
	extractor *goals.Extractor
}

// NewProposeTool creates a ProposeTool.
func NewProposeTool(extractor *goals.Extractor) *ProposeTool {
	return &ProposeTool{extractor: extractor}
}

// Definition returns the MCP tool definition for registration.
func (t *ProposeTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_propose_components",
		mcp.WithDescription(
			"Group legacy goals into topic components (predefined categories: "+
				strings.Join(cluster.Names(), ", ")+", plus a General bucket for "+
				"unmatched goals). Returns a preview and a JSON plan that can be "+
				"edited and passed to pm_execute_migration. Read-only.",
		),
		mcp.WithString("path",
			mcp.Description("Project root path. Defaults to the server's working directory."),
		),
		mcp.WithNumber("target_components",
			mcp.Description("Desired number of components, clamped into [3,7]. Default 5."),
		),
	)
}

// Handle processes the pm_propose_components tool call.
func (t *ProposeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}
	target := intArg(req, "target_components", 5)

	legacy, err := t.extractor.FromProject(root)
	if err != nil {
		return nil, fmt.Errorf("extracting goals: %w", err)
	}
	if len(legacy) == 0 {
		return mcp.NewToolResultError(
			"no legacy goals found to cluster — run pm_detect_structure first",
		), nil
	}

	components := cluster.Assign(legacy, target)
	plan := migrate.PlanFromComponents(components)
	planJSON, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding plan: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Proposed Components — %d goals, target %d\n\n",
		len(legacy), cluster.ClampTarget(target))
	for _, c := range components {
		fmt.Fprintf(&b, "## %s (%d goals, confidence %.2f)\n\n%s\n\n",
			c.Name, len(c.Goals), c.Confidence, c.Reasoning)
		for _, g := range c.Goals {
			fmt.Fprintf(&b, "- [%s] %s\n", g.ID, g.Name)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Plan\n\nEdit if needed, then pass as the `plan` argument of `pm_execute_migration`:\n\n")
	fmt.Fprintf(&b, "```json\n%s\n```\n", planJSON)

	return mcp.NewToolResultText(b.String()), nil
}
