// Package migrate executes, validates, and rolls back the v0.8.0 → v1.0.0
// project structure migration.
//
// The forward migration is additive: legacy files are copied and transformed
// into the new layout, never deleted. "Moved" entries in the result are
// logical source→destination pairs. Destruction only happens in rollback,
// which is gated behind an explicit confirmation flag and restores from the
// backup snapshot taken before migration.
package migrate

import (
	"planfold/internal/cluster"
	"planfold/internal/goals"
)

// FileMove records a logical source→destination pair. The source file is
// left in place; To is the transformed copy in the new layout.
type FileMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MigrationResult accumulates everything a migration did (or, in dry-run
// mode, would do). Built incrementally during execution; treated as
// immutable once returned.
type MigrationResult struct {
	FoldersCreated []string   `json:"folders_created"`
	FilesMoved     []FileMove `json:"files_moved"`
	FilesCreated   []string   `json:"files_created"`
	Warnings       []string   `json:"warnings"`
	Errors         []string   `json:"errors"`
	BackupPath     string     `json:"backup_path,omitempty"`
}

// Succeeded reports whether the migration completed without errors.
// Warnings do not affect success.
func (r *MigrationResult) Succeeded() bool {
	return len(r.Errors) == 0
}

// PlannedComponent is one approved component: a name plus the legacy goal
// ids assigned to it. Produced from clustering output, possibly edited by
// the operator before execution.
type PlannedComponent struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	GoalIDs     []string `json:"goal_ids"`
}

// Plan is the full approved component→goal mapping for a migration.
type Plan struct {
	Components []PlannedComponent `json:"components"`
}

// PlanFromComponents converts clustering output into an executable Plan.
func PlanFromComponents(components []cluster.Component) Plan {
	plan := Plan{Components: make([]PlannedComponent, 0, len(components))}
	for _, c := range components {
		pc := PlannedComponent{
			Name:        c.Name,
			Description: c.Description,
			Confidence:  c.Confidence,
			Reasoning:   c.Reasoning,
		}
		for _, g := range c.Goals {
			pc.GoalIDs = append(pc.GoalIDs, g.ID)
		}
		plan.Components = append(plan.Components, pc)
	}
	return plan
}

// findGoal resolves a goal id from the plan against the extracted legacy
// goals. Exact id match always wins; only when no id matches is a
// case-insensitive substring match on the goal name attempted, so an id
// that happens to be a substring of some other goal's name can never
// shadow a real id.
func findGoal(all []goals.LegacyGoal, id string) (goals.LegacyGoal, bool) {
	for _, g := range all {
		if g.ID == id {
			return g, true
		}
	}
	for _, g := range all {
		if containsFold(g.Name, id) {
			return g, true
		}
	}
	return goals.LegacyGoal{}, false
}
