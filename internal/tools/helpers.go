// Package tools implements the MCP tool handlers for the migration pipeline.
//
// Each tool is a struct that receives its dependencies via constructor and
// exposes Definition() for registration plus Handle() compatible with
// mcp-go's CallToolRequest signature. One file per tool.
//
// Error convention: bad input and recoverable user-facing conditions return
// mcp.NewToolResultError with a nil Go error; infrastructure failures
// return wrapped errors.
package tools

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"planfold/internal/history"
)

// History is the slice of the sqlite history store the tools need.
// Abstracted so tool tests can run without a database.
type History interface {
	RecordRun(run history.Run) (int64, error)
	LatestBackup(projectRoot string) (string, error)
	Runs(projectRoot string, limit int) ([]history.Run, error)
	Close() error
}

// HistoryOpener opens the history store for a project root. It may return
// (nil, nil) when history is disabled; tools treat a nil History as absent.
type HistoryOpener func(projectRoot string) (History, error)

// resolveRoot returns the project root for a request: the "path" argument
// if given, otherwise the server's working directory.
func resolveRoot(req mcp.CallToolRequest) (string, error) {
	if path := req.GetString("path", ""); path != "" {
		return path, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return dir, nil
}

// intArg extracts an integer argument, returning defaultVal if the key is
// missing or not a number (JSON numbers arrive as float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// yesNo renders a boolean marker for reports.
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
