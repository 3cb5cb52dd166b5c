package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"planfold/internal/cluster"
	"planfold/internal/fsio"
	"planfold/internal/goals"
	"planfold/internal/history"
	"planfold/internal/migrate"
	"planfold/internal/project"
)

// ExecuteTool handles the pm_execute_migration MCP tool.
type ExecuteTool struct {
	fsys        fsio.FS
	extractor   *goals.Extractor
	executor    *migrate.Executor
	openHistory HistoryOpener
}

// NewExecuteTool creates an ExecuteTool.
func NewExecuteTool(fsys fsio.FS, extractor *goals.Extractor, executor *migrate.Executor, openHistory HistoryOpener) *ExecuteTool {
	return &ExecuteTool{fsys: fsys, extractor: extractor, executor: executor, openHistory: openHistory}
}

// Definition returns the MCP tool definition for registration.
func (t *ExecuteTool) Definition() mcp.Tool {
	return mcp.NewTool("pm_execute_migration",
		mcp.WithDescription(
			"Migrate a project from the legacy v0.8.0 layout to the v1.0.0 "+
				"component structure. Additive: legacy files are copied and "+
				"transformed, never deleted. Use dry_run=true to preview the full "+
				"change report without writing anything.",
		),
		mcp.WithString("path",
			mcp.Description("Project root path. Defaults to the server's working directory."),
		),
		mcp.WithString("plan",
			mcp.Description("JSON component→goal-id plan from pm_propose_components. When omitted, goals are re-clustered automatically."),
		),
		mcp.WithNumber("target_components",
			mcp.Description("Component count for automatic clustering when no plan is given, clamped into [3,7]. Default 5."),
		),
		mcp.WithBoolean("create_backup",
			mcp.Description("Snapshot brainstorming/, 01-planning/, and 02-goals-and-roadmap/ before writing. Default true."),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Report intended changes without touching the filesystem. Default false."),
		),
	)
}

// Handle processes the pm_execute_migration tool call.
func (t *ExecuteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}
	opts := migrate.Options{
		CreateBackup: boolArg(req, "create_backup", true),
		DryRun:       boolArg(req, "dry_run", false),
	}

	snapshot := project.Detect(t.fsys, root)
	if !snapshot.IsLegacy() {
		return mcp.NewToolResultError(
			"no legacy v0.8.0 markers found — nothing to migrate",
		), nil
	}

	legacy, err := t.extractor.FromProject(root)
	if err != nil {
		return nil, fmt.Errorf("extracting goals: %w", err)
	}
	if len(legacy) == 0 {
		return mcp.NewToolResultError("no legacy goals found to migrate"), nil
	}

	var plan migrate.Plan
	if raw := req.GetString("plan", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &plan); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid plan JSON: %v", err)), nil
		}
		if len(plan.Components) == 0 {
			return mcp.NewToolResultError("plan has no components"), nil
		}
	} else {
		target := intArg(req, "target_components", 5)
		plan = migrate.PlanFromComponents(cluster.Assign(legacy, target))
	}

	result := t.executor.Execute(root, plan, legacy, opts)

	// Real runs are recorded in the history manifest; dry runs leave the
	// filesystem untouched, database included. Recording is best-effort.
	if !opts.DryRun && t.openHistory != nil {
		if warning := t.record(root, result, opts); warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
	}

	return mcp.NewToolResultText(renderMigrationReport(root, result, opts)), nil
}

// record writes the run to the history store, returning a warning string
// on failure (history problems never fail a completed migration).
func (t *ExecuteTool) record(root string, result *migrate.MigrationResult, opts migrate.Options) string {
	store, err := t.openHistory(root)
	if err != nil {
		return fmt.Sprintf("migration history unavailable: %v", err)
	}
	if store == nil {
		return ""
	}
	defer store.Close()

	if _, err := store.RecordRun(history.Run{
		ProjectRoot:    root,
		BackupPath:     result.BackupPath,
		DryRun:         opts.DryRun,
		FoldersCreated: len(result.FoldersCreated),
		FilesCreated:   len(result.FilesCreated),
		FilesMoved:     len(result.FilesMoved),
		Warnings:       result.Warnings,
		Errors:         result.Errors,
	}); err != nil {
		return fmt.Sprintf("recording migration history: %v", err)
	}
	return ""
}

// renderMigrationReport formats a MigrationResult as Markdown.
func renderMigrationReport(root string, result *migrate.MigrationResult, opts migrate.Options) string {
	var b strings.Builder

	mode := "Migration"
	if opts.DryRun {
		mode = "Migration (dry run — nothing was written)"
	}
	fmt.Fprintf(&b, "# %s — %s\n\n", mode, root)

	if result.Succeeded() {
		b.WriteString("**Status:** completed\n")
	} else {
		b.WriteString("**Status:** failed — remaining steps were aborted\n")
	}
	if result.BackupPath != "" {
		fmt.Fprintf(&b, "**Backup:** `%s`\n", result.BackupPath)
	}
	fmt.Fprintf(&b, "**Folders created:** %d · **Files created:** %d · **Goals placed:** %d\n\n",
		len(result.FoldersCreated), len(result.FilesCreated), len(result.FilesMoved))

	if len(result.FilesMoved) > 0 {
		b.WriteString("## Goals\n\n")
		for _, m := range result.FilesMoved {
			fmt.Fprintf(&b, "- `%s` → `%s`\n", m.From, m.To)
		}
		b.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(result.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\nOriginal files are untouched. Use pm_rollback_migration with confirm=true to restore from backup.\n")
	}

	if opts.DryRun {
		b.WriteString("Re-run with dry_run=false to apply these changes.\n")
	} else if result.Succeeded() {
		b.WriteString("Next step: `pm_validate_migration` to verify the new structure.\n")
	}

	return b.String()
}
