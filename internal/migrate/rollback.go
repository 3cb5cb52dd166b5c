package migrate

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"planfold/internal/fsio"
	"planfold/internal/project"
)

// ErrNotConfirmed is returned when rollback is invoked without the explicit
// confirmation flag. Nothing is touched in that case.
var ErrNotConfirmed = errors.New("rollback requires confirm=true")

// BackupLocator resolves the most recent backup for a project. The sqlite
// history store implements it; rollback falls back to directory-name order
// when no manifest entry exists.
type BackupLocator interface {
	LatestBackup(projectRoot string) (string, error)
}

// RollbackOptions controls a rollback invocation.
type RollbackOptions struct {
	// Confirm must be true; rollback is destructive and never runs by accident.
	Confirm bool
	// BackupPath overrides backup selection when set.
	BackupPath string
}

// FolderResult is the outcome of restoring one tracked folder. Failures are
// reported per folder instead of being swallowed: rollback is a
// safety-relevant path and the operator needs to know exactly what state
// each folder ended up in.
type FolderResult struct {
	Folder   string `json:"folder"`
	Restored bool   `json:"restored"`
	Skipped  bool   `json:"skipped"` // folder absent in the backup
	Err      string `json:"error,omitempty"`
}

// RollbackResult reports a completed rollback.
type RollbackResult struct {
	BackupUsed string         `json:"backup_used"`
	Removed    []string       `json:"removed"`
	Folders    []FolderResult `json:"folders"`
}

// Succeeded reports whether every folder either restored cleanly or was
// legitimately absent from the backup.
func (r RollbackResult) Succeeded() bool {
	for _, f := range r.Folders {
		if f.Err != "" {
			return false
		}
	}
	return true
}

// Rollback restores the pre-migration tree from a backup snapshot.
//
// Selection order: an explicit BackupPath, then the history manifest
// (locator may be nil), then the lexically greatest pre-v1.0.0-* directory;
// the timestamped naming makes lexical order chronological, but the
// manifest is authoritative whenever it has a record.
func Rollback(fsys fsio.FS, root string, locator BackupLocator, opts RollbackOptions) (RollbackResult, error) {
	var result RollbackResult

	if !opts.Confirm {
		return result, ErrNotConfirmed
	}

	backupDir, err := resolveBackup(fsys, root, locator, opts.BackupPath)
	if err != nil {
		return result, err
	}
	result.BackupUsed = backupDir

	// Drop the new component structure first so a partially restored
	// 02-goals-and-roadmap can't end up containing both layouts.
	componentsDir := project.ComponentsPath(root)
	if fsio.Exists(fsys, componentsDir) {
		if err := fsys.RemoveAll(componentsDir); err != nil {
			return result, fmt.Errorf("removing %s: %w", componentsDir, err)
		}
		result.Removed = append(result.Removed, componentsDir)
	}

	for _, folder := range project.TrackedFolders {
		fr := FolderResult{Folder: folder}
		src := filepath.Join(backupDir, folder)
		dst := filepath.Join(root, folder)

		if !fsio.IsDir(fsys, src) {
			fr.Skipped = true
			result.Folders = append(result.Folders, fr)
			continue
		}

		if err := fsys.RemoveAll(dst); err != nil {
			fr.Err = err.Error()
			result.Folders = append(result.Folders, fr)
			continue
		}
		if err := fsio.CopyTree(fsys, src, dst); err != nil {
			fr.Err = err.Error()
			result.Folders = append(result.Folders, fr)
			continue
		}

		fr.Restored = true
		result.Folders = append(result.Folders, fr)
	}

	return result, nil
}

// resolveBackup picks the backup directory to restore from.
func resolveBackup(fsys fsio.FS, root string, locator BackupLocator, explicit string) (string, error) {
	if explicit != "" {
		if !fsio.IsDir(fsys, explicit) {
			return "", fmt.Errorf("backup %s does not exist", explicit)
		}
		return explicit, nil
	}

	if locator != nil {
		path, err := locator.LatestBackup(root)
		if err != nil {
			return "", fmt.Errorf("consulting migration history: %w", err)
		}
		if path != "" && fsio.IsDir(fsys, path) {
			return path, nil
		}
	}

	return latestBackupByName(fsys, root)
}

// latestBackupByName scans the backups directory for pre-v1.0.0-* folders
// and returns the lexically greatest one.
func latestBackupByName(fsys fsio.FS, root string) (string, error) {
	backupsDir := project.BackupsPath(root)
	entries, err := fsys.ReadDir(backupsDir)
	if err != nil {
		return "", fmt.Errorf("no backups found under %s", backupsDir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), project.BackupPrefix) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no backups found under %s", backupsDir)
	}

	sort.Strings(names)
	return filepath.Join(backupsDir, names[len(names)-1]), nil
}
