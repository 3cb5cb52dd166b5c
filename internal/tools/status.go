package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusTool handles the pm_migration_status MCP tool.
// It reports the recorded migration runs for a project from the history
// manifest.
type StatusTool struct {
	openHistory HistoryOpener
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(openHistory HistoryOpener) *StatusTool {
	return &StatusTool{openHistory: openHistory}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_migration_status",
		mcp.WithDescription(
			"Show the recorded migration history for a project: when migrations "+
				"ran, which backup each one wrote, and their warning/error counts. "+
				"Read-only.",
		),
		mcp.WithString("path",
			mcp.Description("Project root path. Defaults to the server's working directory."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to show, newest first. Default 20."),
		),
	)
}

// Handle processes the pm_migration_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}
	limit := intArg(req, "limit", 20)

	if t.openHistory == nil {
		return mcp.NewToolResultError("migration history is disabled on this server"), nil
	}
	store, err := t.openHistory(root)
	if err != nil {
		return nil, fmt.Errorf("opening migration history: %w", err)
	}
	if store == nil {
		return mcp.NewToolResultError("migration history is disabled on this server"), nil
	}
	defer store.Close()

	runs, err := store.Runs(root, limit)
	if err != nil {
		return nil, fmt.Errorf("reading migration history: %w", err)
	}

	if len(runs) == 0 {
		return mcp.NewToolResultText(
			"No migrations recorded for this project yet.",
		), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Migration History — %s\n\n", root)
	b.WriteString("| When | Backup | Folders | Files | Warnings | Errors |\n|---|---|---|---|---|---|\n")
	for _, r := range runs {
		backup := r.BackupPath
		if backup == "" {
			backup = "—"
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d |\n",
			r.CreatedAt, backup, r.FoldersCreated, r.FilesCreated, len(r.Warnings), len(r.Errors))
	}

	return mcp.NewToolResultText(b.String()), nil
}
