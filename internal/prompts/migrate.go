// Package prompts implements MCP prompt handlers for the migration pipeline.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which the
// AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// MigratePrompt handles the pm-migrate MCP prompt.
// It walks the AI through the full detect → analyze → propose → execute →
// validate sequence with the operator in the loop.
type MigratePrompt struct{}

// NewMigratePrompt creates a MigratePrompt.
func NewMigratePrompt() *MigratePrompt {
	return &MigratePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *MigratePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("pm-migrate",
		mcp.WithPromptDescription(
			"Migrate a project from the legacy v0.8.0 folder layout to the "+
				"v1.0.0 component structure, step by step with a review before "+
				"anything is written.",
		),
		mcp.WithArgument("path",
			mcp.ArgumentDescription("Project root path. Defaults to the server's working directory."),
		),
	)
}

// Handle processes the pm-migrate prompt request.
func (p *MigratePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	pathNote := "the current project"
	pathArg := ""
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["path"]; ok && v != "" {
			pathNote = fmt.Sprintf("the project at '%s'", v)
			pathArg = fmt.Sprintf(" with path='%s'", v)
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Migrate %s to the v1.0.0 structure", pathNote),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to migrate %s from the v0.8.0 layout to the v1.0.0 component structure.\n\n"+
						"Please:\n"+
						"1. Run `pm_detect_structure`%s and stop if no legacy markers are found\n"+
						"2. Run `pm_analyze_goals` and show me the goal inventory\n"+
						"3. Run `pm_propose_components` and let me review (and edit) the proposed grouping\n"+
						"4. Run `pm_execute_migration` with dry_run=true and show me the change report\n"+
						"5. Only after I approve, run it again with dry_run=false (keep create_backup=true)\n"+
						"6. Finish with `pm_validate_migration` using the goal count from step 2\n\n"+
						"Never skip the dry run, and never disable the backup without asking me.",
					pathNote, pathArg,
				)),
			},
		},
	}, nil
}
