package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"planfold/internal/fsio"
)

func newExecuteTool(t *testing.T, m *fsio.Mem, h History) *ExecuteTool {
	t.Helper()
	var opener HistoryOpener
	if h != nil {
		opener = openerFor(h)
	}
	return NewExecuteTool(m, newExtractor(t, m), newExecutor(t, m), opener)
}

func TestExecuteTool_MigratesAndRecordsHistory(t *testing.T) {
	m := newLegacyProject(t)
	h := &fakeHistory{}
	tool := newExecuteTool(t, m, h)

	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"path": testRoot,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}

	text := getResultText(result)
	if !strings.Contains(text, "**Status:** completed") {
		t.Errorf("report:\n%s", text)
	}
	if !strings.Contains(text, "**Backup:**") {
		t.Errorf("backup should be on by default:\n%s", text)
	}
	if !strings.Contains(text, "pm_validate_migration") {
		t.Errorf("next-step hint missing:\n%s", text)
	}

	if !fsio.IsDir(m, testRoot+"/02-goals-and-roadmap/components") {
		t.Error("components tree not created")
	}

	if len(h.recorded) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(h.recorded))
	}
	run := h.recorded[0]
	if run.ProjectRoot != testRoot || run.DryRun || run.BackupPath == "" {
		t.Errorf("recorded run = %+v", run)
	}
	if run.FilesMoved != 3 {
		t.Errorf("FilesMoved = %d, want 3", run.FilesMoved)
	}
	if !h.closed {
		t.Error("history store not closed")
	}
}

func TestExecuteTool_DryRunWritesNothingAndSkipsHistory(t *testing.T) {
	m := newLegacyProject(t)
	h := &fakeHistory{}
	tool := newExecuteTool(t, m, h)

	mutations := m.Mutations
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"path":    testRoot,
		"dry_run": true,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "dry run — nothing was written") {
		t.Errorf("report:\n%s", text)
	}
	if !strings.Contains(text, "Re-run with dry_run=false") {
		t.Errorf("apply hint missing:\n%s", text)
	}

	if m.Mutations != mutations {
		t.Errorf("dry run performed %d writes", m.Mutations-mutations)
	}
	if len(h.recorded) != 0 {
		t.Error("dry run must not be recorded in history")
	}
}

func TestExecuteTool_NoLegacyMarkersIsError(t *testing.T) {
	m := fsio.NewMem()
	m.MkdirAll("/clean", 0o755)
	tool := newExecuteTool(t, m, nil)

	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"path": "/clean",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "nothing to migrate") {
		t.Errorf("result = %s", getResultText(result))
	}
}

func TestExecuteTool_MarkersButNoGoalsIsError(t *testing.T) {
	m := fsio.NewMem()
	m.MkdirAll("/p/brainstorming/future-goals/potential-goals", 0o755)
	tool := newExecuteTool(t, m, nil)

	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"path": "/p",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "no legacy goals") {
		t.Errorf("result = %s", getResultText(result))
	}
}

func TestExecuteTool_InvalidPlanJSON(t *testing.T) {
	m := newLegacyProject(t)
	tool := newExecuteTool(t, m, nil)

	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"path": testRoot,
		"plan": "{not json",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "invalid plan JSON") {
		t.Errorf("result = %s", getResultText(result))
	}
}

func TestExecuteTool_EmptyPlanIsError(t *testing.T) {
	m := newLegacyProject(t)
	tool := newExecuteTool(t, m, nil)

	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"path": testRoot,
		"plan": `{"components": []}`,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "plan has no components") {
		t.Errorf("result = %s", getResultText(result))
	}
}

func TestExecuteTool_ExplicitPlanIsUsed(t *testing.T) {
	m := newLegacyProject(t)
	tool := newExecuteTool(t, m, nil)

	plan := `{"components": [
		{"name": "Everything", "description": "All goals.", "goal_ids": ["001", "docs", "old"]}
	]}`
	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"path":          testRoot,
		"plan":          plan,
		"create_backup": false,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}

	if !fsio.IsDir(m, testRoot+"/02-goals-and-roadmap/components/everything/major-goals") {
		t.Error("planned component not created")
	}
	if strings.Contains(getResultText(result), "**Backup:**") {
		t.Error("backup line present with create_backup=false")
	}
}

func TestExecuteTool_HistoryFailureBecomesWarning(t *testing.T) {
	m := newLegacyProject(t)
	h := &fakeHistory{recordErr: errors.New("disk full")}
	tool := newExecuteTool(t, m, h)

	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"path": testRoot,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "**Status:** completed") {
		t.Errorf("history failure must not fail the migration:\n%s", text)
	}
	if !strings.Contains(text, "recording migration history") {
		t.Errorf("warning missing:\n%s", text)
	}
}
