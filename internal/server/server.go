// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools/prompts/resources that depend on abstractions.
// No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"planfold/internal/config"
	"planfold/internal/fsio"
	"planfold/internal/goals"
	"planfold/internal/history"
	"planfold/internal/migrate"
	"planfold/internal/prompts"
	"planfold/internal/resources"
	"planfold/internal/templates"
	"planfold/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts, and
// resources registered. This is the single place where dependencies are
// resolved.
func New(opts config.Options) (*server.MCPServer, error) {
	// --- Shared dependencies ---

	fsys := fsio.NewOS()
	extractor := goals.NewExtractor(fsys, opts.CacheSize)

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating template renderer: %w", err)
	}

	executor := migrate.NewExecutor(fsys, renderer)

	// The history store is opened per project root at call time: the
	// database lives inside each project's archive, not in a global
	// data dir. A disabled history yields (nil, nil) and tools fall
	// back gracefully.
	var openHistory tools.HistoryOpener
	if !opts.HistoryDisabled {
		openHistory = func(root string) (tools.History, error) {
			return history.OpenForProject(root)
		}
	}

	// --- MCP server ---

	s := server.NewMCPServer(
		"planfold",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	detectTool := tools.NewDetectTool(fsys, extractor)
	s.AddTool(detectTool.Definition(), detectTool.Handle)

	analyzeTool := tools.NewAnalyzeTool(extractor)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	proposeTool := tools.NewProposeTool(extractor)
	s.AddTool(proposeTool.Definition(), proposeTool.Handle)

	executeTool := tools.NewExecuteTool(fsys, extractor, executor, openHistory)
	s.AddTool(executeTool.Definition(), executeTool.Handle)

	validateTool := tools.NewValidateTool(fsys)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	rollbackTool := tools.NewRollbackTool(fsys, openHistory)
	s.AddTool(rollbackTool.Definition(), rollbackTool.Handle)

	statusTool := tools.NewStatusTool(openHistory)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	// --- Register prompts ---

	migratePrompt := prompts.NewMigratePrompt()
	s.AddPrompt(migratePrompt.Definition(), migratePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(fsys, extractor)
	s.AddResource(resourceHandler.StructureResource(), resourceHandler.HandleStructure)

	return s, nil
}

// serverInstructions returns the system instructions that tell the AI how
// to run the migration safely.
func serverInstructions() string {
	return `You have access to planfold, a project-management MCP server that
migrates Markdown project workspaces from the legacy v0.8.0 layout
(brainstorming/future-goals/...) to the v1.0.0 component structure
(02-goals-and-roadmap/components/...).

Workflow:
1. pm_detect_structure — check for legacy markers (read-only)
2. pm_analyze_goals — list the legacy goals (read-only)
3. pm_propose_components — preview the component grouping; the user may
   edit the returned plan before execution (read-only)
4. pm_execute_migration — apply the migration. ALWAYS run with
   dry_run=true first and show the user the report. Keep
   create_backup=true unless the user explicitly opts out.
5. pm_validate_migration — verify goal counts after a real run
6. pm_rollback_migration — restore from backup; requires confirm=true

The forward migration never deletes legacy files; rollback is the only
destructive operation. pm_migration_status shows the recorded run history.`
}
