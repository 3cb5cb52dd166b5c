package fsio

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Mem is an in-memory FS for tests. It is strict about parent directories
// (WriteFile into a missing directory fails, like os.WriteFile) and counts
// mutations so tests can assert that dry runs touch nothing.
type Mem struct {
	files map[string]memFile
	dirs  map[string]bool

	// Mutations counts WriteFile, MkdirAll, and RemoveAll calls.
	Mutations int

	clock int64
}

type memFile struct {
	data    []byte
	modTime time.Time
}

// NewMem creates an empty in-memory filesystem with a root directory.
func NewMem() *Mem {
	return &Mem{
		files: make(map[string]memFile),
		dirs:  map[string]bool{"/": true},
	}
}

func (m *Mem) clean(path string) string {
	return filepath.Clean(path)
}

func (m *Mem) tick() time.Time {
	m.clock++
	return time.Unix(m.clock, 0)
}

func (m *Mem) Stat(path string) (fs.FileInfo, error) {
	path = m.clean(path)
	if f, ok := m.files[path]; ok {
		return memInfo{name: filepath.Base(path), size: int64(len(f.data)), modTime: f.modTime}, nil
	}
	if m.dirs[path] {
		return memInfo{name: filepath.Base(path), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

func (m *Mem) ReadFile(path string) ([]byte, error) {
	path = m.clean(path)
	f, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(f.data))
	copy(out, f.data)
	return out, nil
}

func (m *Mem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	path = m.clean(path)
	m.Mutations++
	parent := filepath.Dir(path)
	if !m.dirs[parent] {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.files[path] = memFile{data: buf, modTime: m.tick()}
	return nil
}

func (m *Mem) MkdirAll(path string, perm fs.FileMode) error {
	path = m.clean(path)
	m.Mutations++
	for p := path; ; p = filepath.Dir(p) {
		m.dirs[p] = true
		if p == filepath.Dir(p) {
			break
		}
	}
	return nil
}

func (m *Mem) ReadDir(path string) ([]fs.DirEntry, error) {
	path = m.clean(path)
	if !m.dirs[path] {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	seen := make(map[string]bool)
	var entries []fs.DirEntry
	prefix := path
	if prefix != "/" {
		prefix += "/"
	}
	for p, f := range m.files {
		if name, ok := childName(prefix, p); ok && !seen[name] {
			seen[name] = true
			entries = append(entries, memEntry{memInfo{name: name, size: int64(len(f.data)), modTime: f.modTime}})
		}
	}
	for p := range m.dirs {
		if name, ok := childName(prefix, p); ok && !seen[name] {
			seen[name] = true
			entries = append(entries, memEntry{memInfo{name: name, dir: true}})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *Mem) RemoveAll(path string) error {
	path = m.clean(path)
	m.Mutations++
	prefix := path + "/"
	for p := range m.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
	for p := range m.dirs {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.dirs, p)
		}
	}
	return nil
}

// childName returns the single-component name of p under prefix, if p is a
// direct child of the directory prefix represents.
func childName(prefix, p string) (string, bool) {
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(p, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

// Snapshot returns a copy of all file contents keyed by path.
// Tests use it to diff trees before/after an operation.
func (m *Mem) Snapshot() map[string]string {
	out := make(map[string]string, len(m.files))
	for p, f := range m.files {
		out[p] = string(f.data)
	}
	return out
}

// --- fs.FileInfo / fs.DirEntry implementations ---

type memInfo struct {
	name    string
	size    int64
	dir     bool
	modTime time.Time
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) ModTime() time.Time { return i.modTime }
func (i memInfo) IsDir() bool        { return i.dir }
func (i memInfo) Sys() any           { return nil }

func (i memInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

type memEntry struct {
	info memInfo
}

func (e memEntry) Name() string               { return e.info.name }
func (e memEntry) IsDir() bool                { return e.info.dir }
func (e memEntry) Type() fs.FileMode          { return e.info.Mode().Type() }
func (e memEntry) Info() (fs.FileInfo, error) { return e.info, nil }
