// Package resources implements MCP resource handlers.
//
// Resources provide read-only data the host can consume for context. They
// use URI-based addressing (planfold://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"planfold/internal/fsio"
	"planfold/internal/goals"
	"planfold/internal/project"
)

// Handler manages planfold resource endpoints.
type Handler struct {
	fsys      fsio.FS
	extractor *goals.Extractor
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(fsys fsio.FS, extractor *goals.Extractor) *Handler {
	return &Handler{fsys: fsys, extractor: extractor}
}

// structureReport is the JSON shape served by the structure resource.
type structureReport struct {
	Root       string                    `json:"root"`
	Snapshot   project.StructureSnapshot `json:"snapshot"`
	GoalCount  int                       `json:"goal_count"`
	Score      int                       `json:"score"`
	Confidence string                    `json:"confidence"`
}

// StructureResource returns the MCP resource definition for the legacy
// structure snapshot of the working directory's project.
func (h *Handler) StructureResource() mcp.Resource {
	return mcp.NewResource(
		"planfold://project/structure",
		"Project Structure Snapshot",
		mcp.WithResourceDescription("Legacy v0.8.0 markers, goal count, and migration-need confidence"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStructure serves the structure snapshot as JSON.
func (h *Handler) HandleStructure(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	snapshot := project.Detect(h.fsys, root)
	legacy, err := h.extractor.FromProject(root)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	score, tier := project.MigrationConfidence(snapshot, len(legacy))

	data, err := json.MarshalIndent(structureReport{
		Root:       root,
		Snapshot:   snapshot,
		GoalCount:  len(legacy),
		Score:      score,
		Confidence: tier,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling structure report: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
