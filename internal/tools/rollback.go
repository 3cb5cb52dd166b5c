package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"planfold/internal/fsio"
	"planfold/internal/migrate"
)

// RollbackTool handles the pm_rollback_migration MCP tool.
type RollbackTool struct {
	fsys        fsio.FS
	openHistory HistoryOpener
}

// NewRollbackTool creates a RollbackTool.
func NewRollbackTool(fsys fsio.FS, openHistory HistoryOpener) *RollbackTool {
	return &RollbackTool{fsys: fsys, openHistory: openHistory}
}

// Definition returns the MCP tool definition for registration.
func (t *RollbackTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_rollback_migration",
		mcp.WithDescription(
			"Restore a project to its pre-migration state from a backup "+
				"snapshot. Destructive: removes the new component structure and "+
				"replaces the tracked folders. Requires confirm=true.",
		),
		mcp.WithString("path",
			mcp.Description("Project root path. Defaults to the server's working directory."),
		),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true. Safety gate against accidental invocation."),
		),
		mcp.WithString("backup_path",
			mcp.Description("Backup directory to restore from. Defaults to the most recent backup (manifest first, directory order as fallback)."),
		),
	)
}

// Handle processes the pm_rollback_migration tool call.
func (t *RollbackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}

	opts := migrate.RollbackOptions{
		Confirm:    boolArg(req, "confirm", false),
		BackupPath: req.GetString("backup_path", ""),
	}

	var locator migrate.BackupLocator
	if t.openHistory != nil {
		store, err := t.openHistory(root)
		if err == nil && store != nil {
			defer store.Close()
			locator = store
		}
		// A broken history store is not fatal: rollback falls back to
		// directory-name selection.
	}

	result, err := migrate.Rollback(t.fsys, root, locator, opts)
	if err != nil {
		if errors.Is(err, migrate.ErrNotConfirmed) {
			return mcp.NewToolResultError(
				"rollback not confirmed — pass confirm=true to restore the pre-migration tree (nothing was changed)",
			), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("rollback failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Rollback — %s\n\n", root)
	fmt.Fprintf(&b, "**Backup used:** `%s`\n\n", result.BackupUsed)
	for _, removed := range result.Removed {
		fmt.Fprintf(&b, "Removed `%s`\n", removed)
	}
	b.WriteString("\n| Folder | Outcome |\n|---|---|\n")
	for _, fr := range result.Folders {
		outcome := "restored"
		switch {
		case fr.Err != "":
			outcome = "FAILED: " + fr.Err
		case fr.Skipped:
			outcome = "skipped (not in backup)"
		}
		fmt.Fprintf(&b, "| %s/ | %s |\n", fr.Folder, outcome)
	}

	if result.Succeeded() {
		b.WriteString("\nRollback complete — the tracked folders match the backup snapshot.\n")
	} else {
		b.WriteString("\nSome folders failed to restore. The backup is intact; fix the underlying issue and re-run.\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}
