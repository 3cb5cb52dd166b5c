package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"planfold/internal/fsio"
	"planfold/internal/migrate"
)

// ValidateTool handles the pm_validate_migration MCP tool.
type ValidateTool struct {
	fsys fsio.FS
}

// NewValidateTool creates a ValidateTool.
func NewValidateTool(fsys fsio.FS) *ValidateTool {
	return &ValidateTool{fsys: fsys}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_validate_migration",
		mcp.WithDescription(
			"Check a migrated project: the component tree exists, goal files "+
				"under major-goals/ match the expected count, and the project "+
				"overview is present. Structural checks only — file content is "+
				"not inspected. Read-only.",
		),
		mcp.WithString("path",
			mcp.Description("Project root path. Defaults to the server's working directory."),
		),
		mcp.WithNumber("original_goal_count",
			mcp.Description("Expected number of migrated goals. When omitted, the count check is skipped."),
		),
	)
}

// Handle processes the pm_validate_migration tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}
	expected := intArg(req, "original_goal_count", 0)

	result, err := migrate.Validate(t.fsys, root, expected)
	if err != nil {
		return nil, fmt.Errorf("validating migration: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Migration Validation — %s\n\n", root)
	fmt.Fprintf(&b, "| Check | Result |\n|---|---|\n")
	fmt.Fprintf(&b, "| Component structure exists | %s |\n", yesNo(result.StructureOK))
	fmt.Fprintf(&b, "| Project overview exists | %s |\n", yesNo(result.OverviewOK))
	if expected > 0 {
		fmt.Fprintf(&b, "| Goal files | %d of %d (missing %d) |\n",
			result.GoalCount.Found, result.GoalCount.Expected, result.GoalCount.Missing)
	} else {
		fmt.Fprintf(&b, "| Goal files | %d found (no expected count supplied) |\n", result.GoalCount.Found)
	}
	fmt.Fprintf(&b, "\n**Valid:** %s\n", yesNo(result.Valid))

	if len(result.Components) > 0 {
		fmt.Fprintf(&b, "\n**Components:** %s\n", strings.Join(result.Components, ", "))
	}
	if !result.Valid {
		b.WriteString("\nValidation failed. If the migration went wrong, " +
			"`pm_rollback_migration` with confirm=true restores the pre-migration tree.\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}
