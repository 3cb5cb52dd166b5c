package tools

import (
	"context"
	"strings"
	"testing"

	"planfold/internal/fsio"
)

// newMigratedProject builds a migrated v1.0.0 tree with the given number of
// goal files in one component.
func newMigratedProject(t *testing.T, goalFiles int) *fsio.Mem {
	t.Helper()
	m := fsio.NewMem()
	major := testRoot + "/02-goals-and-roadmap/components/general/major-goals"
	m.MkdirAll(major, 0o755)
	for i := 0; i < goalFiles; i++ {
		m.WriteFile(major+"/"+string(rune('a'+i))+".md", []byte("# g\n"), 0o644)
	}
	m.MkdirAll(testRoot+"/01-planning", 0o755)
	m.WriteFile(testRoot+"/01-planning/PROJECT-OVERVIEW.md", []byte("# o\n"), 0o644)
	return m
}

func TestValidateTool_ValidMigration(t *testing.T) {
	m := newMigratedProject(t, 3)
	tool := NewValidateTool(m)

	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"path":                testRoot,
		"original_goal_count": float64(3),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := getResultText(result)
	for _, want := range []string{
		"| Component structure exists | yes |",
		"| Project overview exists | yes |",
		"| Goal files | 3 of 3 (missing 0) |",
		"**Valid:** yes",
		"**Components:** general",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q\n---\n%s", want, text)
		}
	}
}

func TestValidateTool_MissingGoals(t *testing.T) {
	m := newMigratedProject(t, 3)
	tool := NewValidateTool(m)

	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"path":                testRoot,
		"original_goal_count": float64(5),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "| Goal files | 3 of 5 (missing 2) |") {
		t.Errorf("goal count row missing:\n%s", text)
	}
	if !strings.Contains(text, "**Valid:** no") {
		t.Errorf("should be invalid:\n%s", text)
	}
	if !strings.Contains(text, "pm_rollback_migration") {
		t.Errorf("rollback hint missing on failure:\n%s", text)
	}
}

func TestValidateTool_NoExpectedCount(t *testing.T) {
	m := newMigratedProject(t, 2)
	tool := NewValidateTool(m)

	result, err := tool.Handle(context.Background(), newRequest(map[string]interface{}{
		"path": testRoot,
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "2 found (no expected count supplied)") {
		t.Errorf("report:\n%s", text)
	}
	if !strings.Contains(text, "**Valid:** yes") {
		t.Errorf("count check should be skipped:\n%s", text)
	}
}
