// Package fsio abstracts filesystem access behind a small interface.
//
// Migration code never touches the os package directly: every read, write,
// and delete goes through an FS value injected at construction time. This
// keeps the destructive paths (backup, migrate, rollback) testable against
// an in-memory fake, and lets dry-run mode share the exact same code path
// as a real run.
package fsio

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FS is the filesystem capability used by all migration components.
type FS interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(path string) ([]fs.DirEntry, error)
	RemoveAll(path string) error
}

// OS implements FS against the real filesystem.
type OS struct{}

// NewOS creates a real-filesystem FS.
func NewOS() *OS {
	return &OS{}
}

func (*OS) Stat(path string) (fs.FileInfo, error)      { return os.Stat(path) }
func (*OS) ReadFile(path string) ([]byte, error)       { return os.ReadFile(path) }
func (*OS) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }
func (*OS) RemoveAll(path string) error                { return os.RemoveAll(path) }

func (*OS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (*OS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Exists reports whether path exists. Any Stat error other than
// "not exist" is treated as absent; detection checks must never fail.
func Exists(fsys FS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(fsys FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// CopyTree recursively copies the directory tree at src to dst through the
// given FS. File permissions are normalized to 0o644/0o755; backups don't
// need to preserve exotic modes.
func CopyTree(fsys FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if !info.IsDir() {
		data, err := fsys.ReadFile(src)
		if err != nil {
			return fmt.Errorf("reading %s: %w", src, err)
		}
		return fsys.WriteFile(dst, data, 0o644)
	}

	if err := fsys.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	entries, err := fsys.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if err := CopyTree(fsys, srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

// ListTree returns every file path under root, sorted, with root-relative
// slash-separated paths. Used by tests to compare trees byte-for-byte.
func ListTree(fsys FS, root string) ([]string, error) {
	var out []string
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			p := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if err := walk(p); err != nil {
					return err
				}
				continue
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// MarkdownFiles returns the names of entries in dir ending in .md
// (case-insensitive), sorted. A missing dir yields an empty slice.
func MarkdownFiles(fsys FS, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			out = append(out, entry.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
