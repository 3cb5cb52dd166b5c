package migrate

import (
	"fmt"
	"path/filepath"

	"planfold/internal/fsio"
	"planfold/internal/project"
)

// GoalCount compares expected vs found goal files after migration.
type GoalCount struct {
	Expected int `json:"expected"`
	Found    int `json:"found"`
	Missing  int `json:"missing"`
}

// ValidationResult reports the post-migration structural checks. This is a
// shallow structural validation: it counts files and checks markers, it
// does not inspect document content.
type ValidationResult struct {
	Valid       bool      `json:"valid"`
	StructureOK bool      `json:"structure_ok"`
	OverviewOK  bool      `json:"overview_ok"`
	GoalCount   GoalCount `json:"goal_count"`
	Components  []string  `json:"components"`
}

// Validate checks a migrated project: the components tree exists, every
// component's major-goals/ holds the expected number of Markdown files in
// total (when expectedGoals > 0; otherwise the count check is trivially
// satisfied), and the top-level project overview exists.
func Validate(fsys fsio.FS, root string, expectedGoals int) (ValidationResult, error) {
	result := ValidationResult{
		GoalCount: GoalCount{Expected: expectedGoals},
	}

	componentsDir := project.ComponentsPath(root)
	result.StructureOK = fsio.IsDir(fsys, componentsDir)

	if result.StructureOK {
		entries, err := fsys.ReadDir(componentsDir)
		if err != nil {
			return result, fmt.Errorf("reading %s: %w", componentsDir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			result.Components = append(result.Components, entry.Name())
			majorDir := filepath.Join(componentsDir, entry.Name(), project.MajorGoalsDir)
			files, err := fsio.MarkdownFiles(fsys, majorDir)
			if err != nil {
				return result, err
			}
			result.GoalCount.Found += len(files)
		}
	}

	if expectedGoals > 0 {
		result.GoalCount.Missing = max(0, expectedGoals-result.GoalCount.Found)
	}

	result.OverviewOK = fsio.Exists(fsys, project.ProjectOverviewPath(root))

	result.Valid = result.StructureOK && result.OverviewOK && result.GoalCount.Missing == 0
	return result, nil
}
