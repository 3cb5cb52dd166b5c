package migrate

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"planfold/internal/fsio"
	"planfold/internal/goals"
	"planfold/internal/project"
	"planfold/internal/templates"
)

// Options controls a migration run.
type Options struct {
	// CreateBackup snapshots the tracked folders before any write.
	CreateBackup bool
	// DryRun reports every change the migration would make without
	// touching the filesystem.
	DryRun bool
}

// Executor performs the forward migration.
type Executor struct {
	fsys     fsio.FS
	renderer *templates.Renderer
	now      func() time.Time
}

// NewExecutor creates an Executor writing through the given filesystem.
func NewExecutor(fsys fsio.FS, renderer *templates.Renderer) *Executor {
	return &Executor{fsys: fsys, renderer: renderer, now: time.Now}
}

// Execute runs the migration for root according to plan. legacy is the full
// set of extracted legacy goals used to resolve the plan's goal ids.
//
// Every planned change is recorded in the result whether or not DryRun is
// set; in dry-run mode the writes are routed through a no-op filesystem so
// the report is produced by the identical code path. The first unexpected
// error aborts remaining steps and is captured in Errors; side effects
// already performed are not undone (the caller rolls back explicitly).
func (e *Executor) Execute(root string, plan Plan, legacy []goals.LegacyGoal, opts Options) *MigrationResult {
	result := &MigrationResult{}

	if opts.CreateBackup && !opts.DryRun {
		stamp := e.now().Format("2006-01-02")
		timestamp := e.now().Format(time.RFC3339)
		backupPath, err := createBackup(e.fsys, root, stamp, timestamp, e.renderer)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			return result
		}
		result.BackupPath = backupPath
	}

	wfs := e.fsys
	if opts.DryRun {
		wfs = readOnly{e.fsys}
	}

	migratedAt := e.now().Format("2006-01-02")
	placed := make(map[string]bool)
	seq := 0

	for _, pc := range plan.Components {
		slug := goals.Slugify(pc.Name)
		componentDir := project.ComponentPath(root, slug)

		overview := templates.ComponentOverviewData{
			Name:        pc.Name,
			Description: pc.Description,
			Slug:        slug,
			Confidence:  pc.Confidence,
			Reasoning:   pc.Reasoning,
			MigratedAt:  migratedAt,
		}

		// Resolve goals first so the overview lists what actually lands.
		var resolved []goals.LegacyGoal
		for _, id := range pc.GoalIDs {
			goal, ok := findGoal(legacy, id)
			if !ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("goal %q in component %q not found in legacy structure", id, pc.Name))
				continue
			}
			if placed[goal.ID] {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("goal %q assigned to multiple components; kept first placement", goal.ID))
				continue
			}
			placed[goal.ID] = true
			resolved = append(resolved, goal)
		}

		for _, dir := range []string{
			componentDir,
			filepath.Join(componentDir, project.MajorGoalsDir),
			filepath.Join(componentDir, project.SubAreasDir),
		} {
			if err := wfs.MkdirAll(dir, 0o755); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("creating %s: %v", dir, err))
				return result
			}
			result.FoldersCreated = append(result.FoldersCreated, dir)
		}

		for _, goal := range resolved {
			seq++
			newID := fmt.Sprintf("%03d", seq)
			filename := fmt.Sprintf("%s-%s.md", newID, goals.Slugify(goal.Name))
			dst := filepath.Join(componentDir, project.MajorGoalsDir, filename)

			content, err := e.renderer.Render(templates.GoalFile, templates.GoalFileData{
				ID:          newID,
				Name:        goal.Name,
				Description: goal.Description,
				Status:      goal.Status,
				OriginalID:  goal.ID,
				Component:   slug,
				MigratedAt:  migratedAt,
			})
			if err != nil {
				result.Errors = append(result.Errors, err.Error())
				return result
			}
			if err := wfs.WriteFile(dst, []byte(content), 0o644); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("writing %s: %v", dst, err))
				return result
			}
			result.FilesCreated = append(result.FilesCreated, dst)
			result.FilesMoved = append(result.FilesMoved, FileMove{From: goal.FilePath, To: dst})

			overview.Goals = append(overview.Goals, templates.GoalRef{ID: newID, Name: goal.Name})
		}

		overviewPath := filepath.Join(componentDir, project.ComponentOverview)
		content, err := e.renderer.Render(templates.ComponentOverview, overview)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			return result
		}
		if err := wfs.WriteFile(overviewPath, []byte(content), 0o644); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("writing %s: %v", overviewPath, err))
			return result
		}
		result.FilesCreated = append(result.FilesCreated, overviewPath)
	}

	// A legacy goal the plan never placed would silently vanish from the
	// new structure; surface it instead.
	for _, goal := range legacy {
		if !placed[goal.ID] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("legacy goal %q (%s) is not assigned to any component", goal.ID, goal.Name))
		}
	}

	if err := e.writeProjectOverview(wfs, root, plan, migratedAt, result); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	return result
}

// writeProjectOverview creates 01-planning/PROJECT-OVERVIEW.md unless the
// project already has one.
func (e *Executor) writeProjectOverview(wfs fsio.FS, root string, plan Plan, migratedAt string, result *MigrationResult) error {
	path := project.ProjectOverviewPath(root)
	if fsio.Exists(e.fsys, path) {
		return nil
	}

	data := templates.ProjectOverviewData{
		ProjectName: filepath.Base(root),
		MigratedAt:  migratedAt,
	}
	for _, pc := range plan.Components {
		comp := templates.ComponentOverviewData{Name: pc.Name, Description: pc.Description}
		for _, id := range pc.GoalIDs {
			comp.Goals = append(comp.Goals, templates.GoalRef{ID: id})
		}
		data.TotalGoals += len(pc.GoalIDs)
		data.Components = append(data.Components, comp)
	}

	content, err := e.renderer.Render(templates.ProjectOverview, data)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := wfs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	result.FoldersCreated = append(result.FoldersCreated, dir)

	if err := wfs.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	result.FilesCreated = append(result.FilesCreated, path)
	return nil
}

// readOnly wraps an FS, passing reads through and silently discarding
// writes. Dry-run mode uses it so the executor's real code path produces
// the change report without side effects.
type readOnly struct {
	fsio.FS
}

func (readOnly) WriteFile(string, []byte, fs.FileMode) error { return nil }
func (readOnly) MkdirAll(string, fs.FileMode) error          { return nil }
func (readOnly) RemoveAll(string) error                      { return nil }

// containsFold reports whether substr occurs in s, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
