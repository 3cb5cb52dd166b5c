package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"planfold/internal/fsio"
	"planfold/internal/goals"
	"planfold/internal/project"
)

// DetectTool handles the pm_detect_structure MCP tool.
// It reports which legacy v0.8.0 markers a project has and how strongly
// the project looks like it needs migration.
type DetectTool struct {
	fsys      fsio.FS
	extractor *goals.Extractor
}

// NewDetectTool creates a DetectTool.
func NewDetectTool(fsys fsio.FS, extractor *goals.Extractor) *DetectTool {
	return &DetectTool{fsys: fsys, extractor: extractor}
}

// Definition returns the MCP tool definition for registration.
func (t *DetectTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_detect_structure",
		mcp.WithDescription(
			"Detect whether a project uses the legacy v0.8.0 folder layout "+
				"(brainstorming/future-goals/...) and estimate how strongly it "+
				"needs the v1.0.0 structure migration. Read-only.",
		),
		mcp.WithString("path",
			mcp.Description("Project root path. Defaults to the server's working directory."),
		),
	)
}

// Handle processes the pm_detect_structure tool call.
func (t *DetectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}

	snapshot := project.Detect(t.fsys, root)
	legacy, err := t.extractor.FromProject(root)
	if err != nil {
		return nil, fmt.Errorf("extracting goals: %w", err)
	}

	score, tier := project.MigrationConfidence(snapshot, len(legacy))

	var b strings.Builder
	fmt.Fprintf(&b, "# Structure Detection — %s\n\n", root)
	fmt.Fprintf(&b, "| Marker | Present |\n|---|---|\n")
	fmt.Fprintf(&b, "| brainstorming/ | %s |\n", yesNo(snapshot.HasBrainstorming))
	fmt.Fprintf(&b, "| brainstorming/future-goals/potential-goals/ | %s |\n", yesNo(snapshot.HasPotentialGoals))
	fmt.Fprintf(&b, "| brainstorming/future-goals/SELECTED-GOALS.md | %s |\n", yesNo(snapshot.HasSelectedGoals))
	fmt.Fprintf(&b, "| 08-archive/goals/ | %s |\n\n", yesNo(snapshot.HasArchive))
	fmt.Fprintf(&b, "**Legacy goals found:** %d\n", len(legacy))
	fmt.Fprintf(&b, "**Migration need:** %s (score %d)\n\n", tier, score)

	if !snapshot.IsLegacy() {
		b.WriteString("No legacy markers found — this project does not need migration.\n")
	} else {
		b.WriteString("Next step: run `pm_analyze_goals` to review the goal inventory, " +
			"then `pm_propose_components` to preview the component grouping.\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}
