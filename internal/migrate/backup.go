package migrate

import (
	"fmt"
	"path/filepath"

	"planfold/internal/fsio"
	"planfold/internal/project"
	"planfold/internal/templates"
)

// createBackup snapshots the tracked legacy folders into a timestamped
// directory under 08-archive/migration-backups/ and writes a README with
// restore instructions. Returns the backup directory path.
//
// If a backup with the same date stamp already exists (a second migration
// on the same day), a numeric suffix is appended rather than overwriting.
func createBackup(fsys fsio.FS, root, stamp, timestamp string, renderer *templates.Renderer) (string, error) {
	backupDir := project.BackupPath(root, stamp)
	suffix := 2
	for fsio.Exists(fsys, backupDir) {
		backupDir = project.BackupPath(root, fmt.Sprintf("%s-%d", stamp, suffix))
		suffix++
	}

	if err := fsys.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory %s: %w", backupDir, err)
	}

	var captured []string
	for _, folder := range project.TrackedFolders {
		src := filepath.Join(root, folder)
		if !fsio.IsDir(fsys, src) {
			continue
		}
		if err := fsio.CopyTree(fsys, src, filepath.Join(backupDir, folder)); err != nil {
			return "", fmt.Errorf("backing up %s: %w", folder, err)
		}
		captured = append(captured, folder)
	}

	readme, err := renderer.Render(templates.BackupReadme, templates.BackupReadmeData{
		Stamp:     stamp,
		Folders:   captured,
		CreatedAt: timestamp,
	})
	if err != nil {
		return "", err
	}
	if err := fsys.WriteFile(filepath.Join(backupDir, "README.md"), []byte(readme), 0o644); err != nil {
		return "", fmt.Errorf("writing backup README: %w", err)
	}

	return backupDir, nil
}
