package migrate

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"planfold/internal/fsio"
	"planfold/internal/goals"
	"planfold/internal/templates"
)

const testRoot = "/proj"

func fixedClock() time.Time {
	return time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
}

// newLegacyMem builds an in-memory legacy project with goal files.
func newLegacyMem(t *testing.T) *fsio.Mem {
	t.Helper()
	m := fsio.NewMem()
	m.MkdirAll(testRoot+"/brainstorming/future-goals/potential-goals", 0o755)
	m.MkdirAll(testRoot+"/08-archive/goals", 0o755)
	m.WriteFile(testRoot+"/brainstorming/future-goals/potential-goals/auth.md",
		[]byte("# Auth\n\nLogin API work.\n"), 0o644)
	m.WriteFile(testRoot+"/brainstorming/future-goals/SELECTED-GOALS.md",
		[]byte("- [docs] Write onboarding guide - Help new contributors\n"), 0o644)
	return m
}

func newTestExecutor(t *testing.T, m *fsio.Mem) *Executor {
	t.Helper()
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	e := NewExecutor(m, renderer)
	e.now = fixedClock
	return e
}

func testLegacyGoals() []goals.LegacyGoal {
	return []goals.LegacyGoal{
		{ID: "auth", Name: "auth", Description: "Login API work.", Status: "potential",
			FilePath: testRoot + "/brainstorming/future-goals/potential-goals/auth.md"},
		{ID: "docs", Name: "Write onboarding guide", Description: "Help new contributors", Status: "selected",
			FilePath: testRoot + "/brainstorming/future-goals/SELECTED-GOALS.md"},
	}
}

func testPlan() Plan {
	return Plan{Components: []PlannedComponent{
		{Name: "Backend & API Development", Description: "Server-side work.", Confidence: 0.5,
			Reasoning: "1 of 2 goals matched", GoalIDs: []string{"auth"}},
		{Name: "Documentation & Onboarding", Description: "Docs work.", Confidence: 0.5,
			Reasoning: "1 of 2 goals matched", GoalIDs: []string{"docs"}},
	}}
}

// --- Forward migration ---

func TestExecute_CreatesComponentStructure(t *testing.T) {
	m := newLegacyMem(t)
	e := newTestExecutor(t, m)

	result := e.Execute(testRoot, testPlan(), testLegacyGoals(), Options{})

	if !result.Succeeded() {
		t.Fatalf("Execute failed: %v", result.Errors)
	}

	wantDirs := []string{
		testRoot + "/02-goals-and-roadmap/components/backend-api-development/major-goals",
		testRoot + "/02-goals-and-roadmap/components/backend-api-development/sub-areas",
		testRoot + "/02-goals-and-roadmap/components/documentation-onboarding/major-goals",
		testRoot + "/02-goals-and-roadmap/components/documentation-onboarding/sub-areas",
	}
	for _, dir := range wantDirs {
		if !fsio.IsDir(m, dir) {
			t.Errorf("missing directory %s", dir)
		}
	}

	// Goal ids are sequential and zero-padded across components.
	goalFile := testRoot + "/02-goals-and-roadmap/components/backend-api-development/major-goals/001-auth.md"
	data, err := m.ReadFile(goalFile)
	if err != nil {
		t.Fatalf("goal file not written: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"type: major-goal",
		"tags: [major-goal, migrated-from-v0.8.0]",
		"original-id: auth",
		"## Problem Statement",
		"Login API work.",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("goal file missing %q", want)
		}
	}

	second := testRoot + "/02-goals-and-roadmap/components/documentation-onboarding/major-goals/002-write-onboarding-guide.md"
	if !fsio.Exists(m, second) {
		t.Errorf("second goal file missing at %s", second)
	}

	for _, overview := range []string{
		testRoot + "/02-goals-and-roadmap/components/backend-api-development/COMPONENT-OVERVIEW.md",
		testRoot + "/02-goals-and-roadmap/components/documentation-onboarding/COMPONENT-OVERVIEW.md",
		testRoot + "/01-planning/PROJECT-OVERVIEW.md",
	} {
		if !fsio.Exists(m, overview) {
			t.Errorf("missing %s", overview)
		}
	}
}

func TestExecute_IsAdditive(t *testing.T) {
	m := newLegacyMem(t)
	e := newTestExecutor(t, m)

	result := e.Execute(testRoot, testPlan(), testLegacyGoals(), Options{})
	if !result.Succeeded() {
		t.Fatalf("Execute failed: %v", result.Errors)
	}

	// Original legacy files must still exist; forward migration never deletes.
	for _, path := range []string{
		testRoot + "/brainstorming/future-goals/potential-goals/auth.md",
		testRoot + "/brainstorming/future-goals/SELECTED-GOALS.md",
	} {
		if !fsio.Exists(m, path) {
			t.Errorf("legacy file %s was removed", path)
		}
	}

	if len(result.FilesMoved) != 2 {
		t.Fatalf("FilesMoved = %d, want 2 logical moves", len(result.FilesMoved))
	}
	if result.FilesMoved[0].From != testRoot+"/brainstorming/future-goals/potential-goals/auth.md" {
		t.Errorf("move source = %s", result.FilesMoved[0].From)
	}
}

func TestExecute_DryRunParityAndZeroWrites(t *testing.T) {
	dry := newLegacyMem(t)
	live := newLegacyMem(t)

	before := dry.Snapshot()
	mutationsBefore := dry.Mutations

	dryResult := newTestExecutor(t, dry).Execute(testRoot, testPlan(), testLegacyGoals(),
		Options{DryRun: true})
	liveResult := newTestExecutor(t, live).Execute(testRoot, testPlan(), testLegacyGoals(),
		Options{})

	if !reflect.DeepEqual(dryResult.FoldersCreated, liveResult.FoldersCreated) {
		t.Errorf("FoldersCreated differ:\ndry:  %v\nlive: %v",
			dryResult.FoldersCreated, liveResult.FoldersCreated)
	}
	if !reflect.DeepEqual(dryResult.FilesCreated, liveResult.FilesCreated) {
		t.Errorf("FilesCreated differ:\ndry:  %v\nlive: %v",
			dryResult.FilesCreated, liveResult.FilesCreated)
	}
	if !reflect.DeepEqual(dryResult.FilesMoved, liveResult.FilesMoved) {
		t.Errorf("FilesMoved differ")
	}
	if !reflect.DeepEqual(dryResult.Warnings, liveResult.Warnings) {
		t.Errorf("Warnings differ")
	}

	if dry.Mutations != mutationsBefore {
		t.Errorf("dry run performed %d mutations, want 0", dry.Mutations-mutationsBefore)
	}
	if !reflect.DeepEqual(dry.Snapshot(), before) {
		t.Error("dry run changed file contents")
	}
}

func TestExecute_BackupSkippedOnDryRun(t *testing.T) {
	m := newLegacyMem(t)
	e := newTestExecutor(t, m)

	result := e.Execute(testRoot, testPlan(), testLegacyGoals(),
		Options{CreateBackup: true, DryRun: true})
	if result.BackupPath != "" {
		t.Errorf("BackupPath = %q on dry run, want empty", result.BackupPath)
	}
	if fsio.Exists(m, testRoot+"/08-archive/migration-backups") {
		t.Error("dry run created the backups directory")
	}
}

func TestExecute_UnknownGoalIDWarns(t *testing.T) {
	m := newLegacyMem(t)
	e := newTestExecutor(t, m)

	plan := Plan{Components: []PlannedComponent{
		{Name: "Backend & API Development", GoalIDs: []string{"auth", "ghost"}},
		{Name: "Documentation & Onboarding", GoalIDs: []string{"docs"}},
	}}

	result := e.Execute(testRoot, plan, testLegacyGoals(), Options{})
	if !result.Succeeded() {
		t.Fatalf("Execute failed: %v", result.Errors)
	}
	if len(result.FilesMoved) != 2 {
		t.Errorf("FilesMoved = %d, want 2 (ghost skipped)", len(result.FilesMoved))
	}
	if !hasWarningContaining(result.Warnings, `"ghost"`) {
		t.Errorf("no warning about unknown goal id, warnings: %v", result.Warnings)
	}
}

func TestExecute_DuplicatePlacementWarnsAndKeepsFirst(t *testing.T) {
	m := newLegacyMem(t)
	e := newTestExecutor(t, m)

	plan := Plan{Components: []PlannedComponent{
		{Name: "Backend & API Development", GoalIDs: []string{"auth", "docs"}},
		{Name: "Documentation & Onboarding", GoalIDs: []string{"docs"}},
	}}

	result := e.Execute(testRoot, plan, testLegacyGoals(), Options{})
	if !result.Succeeded() {
		t.Fatalf("Execute failed: %v", result.Errors)
	}
	if len(result.FilesMoved) != 2 {
		t.Errorf("FilesMoved = %d, want 2 (duplicate written once)", len(result.FilesMoved))
	}
	if !hasWarningContaining(result.Warnings, "multiple components") {
		t.Errorf("no duplicate-placement warning, warnings: %v", result.Warnings)
	}
}

func TestExecute_UnassignedLegacyGoalWarns(t *testing.T) {
	m := newLegacyMem(t)
	e := newTestExecutor(t, m)

	plan := Plan{Components: []PlannedComponent{
		{Name: "Backend & API Development", GoalIDs: []string{"auth"}},
	}}

	result := e.Execute(testRoot, plan, testLegacyGoals(), Options{})
	if !hasWarningContaining(result.Warnings, "not assigned to any component") {
		t.Errorf("no unassigned-goal warning, warnings: %v", result.Warnings)
	}
}

func TestExecute_ExistingProjectOverviewIsKept(t *testing.T) {
	m := newLegacyMem(t)
	m.MkdirAll(testRoot+"/01-planning", 0o755)
	m.WriteFile(testRoot+"/01-planning/PROJECT-OVERVIEW.md", []byte("handwritten\n"), 0o644)
	e := newTestExecutor(t, m)

	result := e.Execute(testRoot, testPlan(), testLegacyGoals(), Options{})
	if !result.Succeeded() {
		t.Fatalf("Execute failed: %v", result.Errors)
	}

	data, _ := m.ReadFile(testRoot + "/01-planning/PROJECT-OVERVIEW.md")
	if string(data) != "handwritten\n" {
		t.Error("existing project overview was overwritten")
	}
}

// --- Backup ---

func TestExecute_CreatesBackup(t *testing.T) {
	m := newLegacyMem(t)
	e := newTestExecutor(t, m)

	result := e.Execute(testRoot, testPlan(), testLegacyGoals(), Options{CreateBackup: true})
	if !result.Succeeded() {
		t.Fatalf("Execute failed: %v", result.Errors)
	}

	wantBackup := testRoot + "/08-archive/migration-backups/pre-v1.0.0-2026-08-23"
	if result.BackupPath != wantBackup {
		t.Fatalf("BackupPath = %s, want %s", result.BackupPath, wantBackup)
	}

	if !fsio.Exists(m, wantBackup+"/brainstorming/future-goals/potential-goals/auth.md") {
		t.Error("backup missing copied goal file")
	}
	if !fsio.Exists(m, wantBackup+"/README.md") {
		t.Error("backup missing README")
	}
}

func TestCreateBackup_SameDayCollisionGetsSuffix(t *testing.T) {
	m := newLegacyMem(t)
	renderer, _ := templates.NewRenderer()

	first, err := createBackup(m, testRoot, "2026-08-23", "2026-08-23T10:00:00Z", renderer)
	if err != nil {
		t.Fatalf("first backup: %v", err)
	}
	second, err := createBackup(m, testRoot, "2026-08-23", "2026-08-23T11:00:00Z", renderer)
	if err != nil {
		t.Fatalf("second backup: %v", err)
	}

	if first == second {
		t.Fatalf("second backup reused path %s", first)
	}
	if !strings.HasSuffix(second, "-2") {
		t.Errorf("second backup = %s, want -2 suffix", second)
	}
}

// --- findGoal ---

func TestFindGoal_ExactIDBeatsNameSubstring(t *testing.T) {
	all := []goals.LegacyGoal{
		{ID: "api", Name: "Rework api gateway"},
		{ID: "002", Name: "api cleanup"},
	}

	// "api" is both goal 1's id and a substring of goal 2's name; the id
	// match must win.
	got, ok := findGoal(all, "api")
	if !ok || got.ID != "api" {
		t.Fatalf("findGoal(api) = (%+v, %v), want exact id match", got, ok)
	}
}

func TestFindGoal_NameSubstringFallback(t *testing.T) {
	all := []goals.LegacyGoal{
		{ID: "002", Name: "Gateway Cleanup"},
	}
	got, ok := findGoal(all, "cleanup")
	if !ok || got.ID != "002" {
		t.Fatalf("findGoal(cleanup) = (%+v, %v), want substring match on name", got, ok)
	}

	if _, ok := findGoal(all, "missing"); ok {
		t.Error("findGoal(missing) matched, want no match")
	}
}

func hasWarningContaining(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}
