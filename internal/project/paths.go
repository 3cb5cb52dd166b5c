// Package project knows the on-disk layout of a planfold project workspace,
// both the legacy v0.8.0 layout and the v1.0.0 component layout, and detects
// which one a directory tree is in.
package project

import "path/filepath"

// Legacy (v0.8.0) layout.
const (
	BrainstormingDir  = "brainstorming"
	FutureGoalsDir    = "future-goals"
	PotentialGoalsDir = "potential-goals"
	SelectedGoalsFile = "SELECTED-GOALS.md"
	ArchiveDir        = "08-archive"
	ArchiveGoalsDir   = "goals"
)

// New (v1.0.0) layout.
const (
	PlanningDir         = "01-planning"
	GoalsRoadmapDir     = "02-goals-and-roadmap"
	ComponentsDir       = "components"
	MajorGoalsDir       = "major-goals"
	SubAreasDir         = "sub-areas"
	ComponentOverview   = "COMPONENT-OVERVIEW.md"
	ProjectOverviewFile = "PROJECT-OVERVIEW.md"
)

// Backup layout.
const (
	BackupsDir   = "migration-backups"
	BackupPrefix = "pre-v1.0.0-"
)

// TrackedFolders are the top-level folders captured in a backup snapshot
// and restored on rollback.
var TrackedFolders = []string{BrainstormingDir, PlanningDir, GoalsRoadmapDir}

// PotentialGoalsPath returns <root>/brainstorming/future-goals/potential-goals.
func PotentialGoalsPath(root string) string {
	return filepath.Join(root, BrainstormingDir, FutureGoalsDir, PotentialGoalsDir)
}

// SelectedGoalsPath returns <root>/brainstorming/future-goals/SELECTED-GOALS.md.
func SelectedGoalsPath(root string) string {
	return filepath.Join(root, BrainstormingDir, FutureGoalsDir, SelectedGoalsFile)
}

// ArchiveGoalsPath returns <root>/08-archive/goals.
func ArchiveGoalsPath(root string) string {
	return filepath.Join(root, ArchiveDir, ArchiveGoalsDir)
}

// ComponentsPath returns <root>/02-goals-and-roadmap/components.
func ComponentsPath(root string) string {
	return filepath.Join(root, GoalsRoadmapDir, ComponentsDir)
}

// ComponentPath returns the directory for one component by slug.
func ComponentPath(root, slug string) string {
	return filepath.Join(ComponentsPath(root), slug)
}

// ProjectOverviewPath returns <root>/01-planning/PROJECT-OVERVIEW.md.
func ProjectOverviewPath(root string) string {
	return filepath.Join(root, PlanningDir, ProjectOverviewFile)
}

// BackupsPath returns <root>/08-archive/migration-backups.
func BackupsPath(root string) string {
	return filepath.Join(root, ArchiveDir, BackupsDir)
}

// BackupPath returns the backup directory for a given date stamp,
// e.g. BackupPath(root, "2026-08-23") → .../pre-v1.0.0-2026-08-23.
func BackupPath(root, stamp string) string {
	return filepath.Join(BackupsPath(root), BackupPrefix+stamp)
}
