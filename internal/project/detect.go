package project

import (
	"path/filepath"

	"planfold/internal/fsio"
)

// StructureSnapshot records which legacy-layout markers exist in a project.
// Computed fresh on every call; never persisted.
type StructureSnapshot struct {
	HasBrainstorming  bool `json:"has_brainstorming"`
	HasPotentialGoals bool `json:"has_potential_goals"`
	HasSelectedGoals  bool `json:"has_selected_goals"`
	HasArchive        bool `json:"has_archive"`
}

// MarkerCount returns how many of the four legacy markers are present.
func (s StructureSnapshot) MarkerCount() int {
	n := 0
	for _, present := range []bool{s.HasBrainstorming, s.HasPotentialGoals, s.HasSelectedGoals, s.HasArchive} {
		if present {
			n++
		}
	}
	return n
}

// IsLegacy reports whether any legacy marker exists at all.
func (s StructureSnapshot) IsLegacy() bool {
	return s.MarkerCount() > 0
}

// Detect inspects root for legacy-layout markers. Each check is an
// independent existence test; a missing path is false, never an error.
func Detect(fsys fsio.FS, root string) StructureSnapshot {
	return StructureSnapshot{
		HasBrainstorming:  fsio.IsDir(fsys, filepath.Join(root, BrainstormingDir)),
		HasPotentialGoals: fsio.IsDir(fsys, PotentialGoalsPath(root)),
		HasSelectedGoals:  fsio.Exists(fsys, SelectedGoalsPath(root)),
		HasArchive:        fsio.IsDir(fsys, ArchiveGoalsPath(root)),
	}
}

// Confidence tiers for the migration-need heuristic.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// MigrationConfidence scores how strongly a project looks like it needs the
// v1.0.0 migration: one point per structural marker present, one more if the
// project has at least 3 goals, another if it has at least 10.
//
// The thresholds are heuristic defaults kept for compatibility with earlier
// releases, not a statistically grounded model.
func MigrationConfidence(snapshot StructureSnapshot, goalCount int) (score int, tier string) {
	score = snapshot.MarkerCount()
	if goalCount >= 3 {
		score++
	}
	if goalCount >= 10 {
		score++
	}

	switch {
	case score >= 4:
		tier = ConfidenceHigh
	case score >= 2:
		tier = ConfidenceMedium
	default:
		tier = ConfidenceLow
	}
	return score, tier
}
