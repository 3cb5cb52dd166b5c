package goals

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"planfold/internal/fsio"
	"planfold/internal/project"
)

// selectedLineRE matches one entry of SELECTED-GOALS.md:
//
//	- [auth-api] Add login API - Token-based auth for the public API
//
// Lines that don't match are skipped without error.
var selectedLineRE = regexp.MustCompile(`^-\s*\[([^\]]+)\]\s*(.+?)\s+-\s+(.+)$`)

// Extractor reads legacy goals through an injected filesystem. It keeps an
// LRU cache of parsed goal files keyed by path, size, and mtime, so the
// detect → analyze → propose → migrate tool sequence in one MCP session
// parses each unchanged file once.
type Extractor struct {
	fsys  fsio.FS
	cache *lru.Cache[string, LegacyGoal]
}

// NewExtractor creates an Extractor. cacheSize <= 0 disables caching.
func NewExtractor(fsys fsio.FS, cacheSize int) *Extractor {
	e := &Extractor{fsys: fsys}
	if cacheSize > 0 {
		// Only errors on non-positive size, which is guarded above.
		e.cache, _ = lru.New[string, LegacyGoal](cacheSize)
	}
	return e
}

// FromFolder extracts one LegacyGoal per Markdown file in dir. Non-Markdown
// files are skipped silently; a missing folder yields zero goals and no error.
func (e *Extractor) FromFolder(dir string) ([]LegacyGoal, error) {
	names, err := fsio.MarkdownFiles(e.fsys, dir)
	if err != nil {
		return nil, err
	}

	var out []LegacyGoal
	for _, name := range names {
		path := filepath.Join(dir, name)
		goal, err := e.fromFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, goal)
	}
	return out, nil
}

// fromFile parses a single goal file, consulting the cache first.
func (e *Extractor) fromFile(path string) (LegacyGoal, error) {
	key := e.cacheKey(path)
	if e.cache != nil && key != "" {
		if goal, ok := e.cache.Get(key); ok {
			return goal, nil
		}
	}

	data, err := e.fsys.ReadFile(path)
	if err != nil {
		return LegacyGoal{}, fmt.Errorf("reading goal file %s: %w", path, err)
	}
	content := string(data)

	fm, body := project.ParseFrontmatter(content)

	id, name := identityFromFilename(filepath.Base(path))
	if v, ok := fm.Get("id"); ok && v != "" {
		id = v
	}
	if v, ok := fm.Get("name"); ok && v != "" {
		name = v
	}

	status := StatusPotential
	if v, ok := fm.Get("status"); ok && v != "" {
		status = strings.ToLower(v)
	}

	description, ok := fm.Get("description")
	if !ok || description == "" {
		description = firstBodyLine(body)
	}

	goal := LegacyGoal{
		ID:          id,
		Name:        name,
		Description: description,
		Status:      status,
		FilePath:    path,
		RawContent:  content,
	}

	if e.cache != nil && key != "" {
		e.cache.Add(key, goal)
	}
	return goal, nil
}

// cacheKey builds the path|size|mtime cache key, or "" if the file can't
// be stat'd (the read that follows will report the real error).
func (e *Extractor) cacheKey(path string) string {
	info, err := e.fsys.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
}

// FromSelectedList parses SELECTED-GOALS.md line by line. Each matching
// line becomes a goal with status "selected"; non-matching lines are
// skipped. A missing file yields zero goals and no error.
func (e *Extractor) FromSelectedList(path string) ([]LegacyGoal, error) {
	data, err := e.fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var out []LegacyGoal
	for _, line := range strings.Split(string(data), "\n") {
		m := selectedLineRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		out = append(out, LegacyGoal{
			ID:          strings.TrimSpace(m[1]),
			Name:        strings.TrimSpace(m[2]),
			Description: strings.TrimSpace(m[3]),
			Status:      StatusSelected,
			FilePath:    path,
		})
	}
	return out, nil
}

// FromProject extracts goals from all three legacy sources (the
// potential-goals folder, the selected-goals list, and the goal archive),
// deduplicated by id (first occurrence wins, in that source order).
func (e *Extractor) FromProject(root string) ([]LegacyGoal, error) {
	potential, err := e.FromFolder(project.PotentialGoalsPath(root))
	if err != nil {
		return nil, err
	}
	selected, err := e.FromSelectedList(project.SelectedGoalsPath(root))
	if err != nil {
		return nil, err
	}
	archived, err := e.FromFolder(project.ArchiveGoalsPath(root))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []LegacyGoal
	for _, g := range [][]LegacyGoal{potential, selected, archived} {
		for _, goal := range g {
			if seen[goal.ID] {
				continue
			}
			seen[goal.ID] = true
			out = append(out, goal)
		}
	}
	return out, nil
}
