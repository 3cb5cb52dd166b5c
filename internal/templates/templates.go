// Package templates renders the Markdown documents the migration writes:
// converted goal files, component overviews, the project overview, and the
// backup README. All output goes through text/template so the document
// shape lives in one place instead of scattered Sprintf calls.
package templates

import (
	"fmt"
	"strings"
	"text/template"
)

// Kind identifies one of the registered templates.
type Kind string

const (
	GoalFile          Kind = "goal-file"
	ComponentOverview Kind = "component-overview"
	ProjectOverview   Kind = "project-overview"
	BackupReadme      Kind = "backup-readme"
)

// GoalFileData fills the converted goal file template.
type GoalFileData struct {
	ID          string // sequential zero-padded id, e.g. "001"
	Name        string
	Description string
	Status      string
	OriginalID  string
	Component   string
	MigratedAt  string // YYYY-MM-DD
}

// GoalRef is a compact goal reference for overview listings.
type GoalRef struct {
	ID   string
	Name string
}

// ComponentOverviewData fills the per-component overview template.
type ComponentOverviewData struct {
	Name        string
	Description string
	Slug        string
	Confidence  float64
	Reasoning   string
	Goals       []GoalRef
	MigratedAt  string
}

// ProjectOverviewData fills the top-level project overview template.
type ProjectOverviewData struct {
	ProjectName string
	Components  []ComponentOverviewData
	TotalGoals  int
	MigratedAt  string
}

// BackupReadmeData fills the backup README template.
type BackupReadmeData struct {
	Stamp     string
	Folders   []string
	CreatedAt string
}

const goalFileTmpl = `---
type: major-goal
tags: [major-goal, migrated-from-v0.8.0]
status: {{.Status}}
original-id: {{.OriginalID}}
component: {{.Component}}
migrated: {{.MigratedAt}}
---

# {{.ID}} — {{.Name}}

## Problem Statement

{{if .Description}}{{.Description}}{{else}}_To be filled in._{{end}}

## Expected Value

_To be filled in._

## Effort Details

_To be filled in._

## Success Criteria

_To be filled in._
`

const componentOverviewTmpl = `---
type: component-overview
component: {{.Slug}}
migrated: {{.MigratedAt}}
---

# {{.Name}}

{{.Description}}

**Goals:** {{len .Goals}}
**Grouping confidence:** {{printf "%.2f" .Confidence}} ({{.Reasoning}})

## Major Goals
{{range .Goals}}
- [{{.ID}}] {{.Name}}{{end}}
`

const projectOverviewTmpl = `---
type: project-overview
migrated: {{.MigratedAt}}
---

# {{.ProjectName}} — Project Overview

Migrated to the v1.0.0 component structure on {{.MigratedAt}}.
{{.TotalGoals}} goals across {{len .Components}} components.

## Components
{{range .Components}}
- **{{.Name}}** ({{len .Goals}} goals) — {{.Description}}{{end}}
`

const backupReadmeTmpl = `# Migration Backup — {{.Stamp}}

Snapshot taken {{.CreatedAt}}, before the v0.8.0 → v1.0.0 structure migration.
The folders below are byte-for-byte copies of the pre-migration tree:
{{range .Folders}}
- {{.}}/{{end}}

## Restore

Run the rollback tool (planfold rollback --confirm, or the
pm_rollback_migration MCP tool with confirm=true). It removes the new
component structure and copies these folders back in place.

Do not edit files inside this backup — rollback copies them verbatim.
`

// Renderer renders registered templates by Kind.
type Renderer struct {
	root *template.Template
}

// NewRenderer parses all templates. An error here is a programming error
// (malformed template literal) and should fail server startup.
func NewRenderer() (*Renderer, error) {
	root := template.New("planfold")
	for kind, text := range map[Kind]string{
		GoalFile:          goalFileTmpl,
		ComponentOverview: componentOverviewTmpl,
		ProjectOverview:   projectOverviewTmpl,
		BackupReadme:      backupReadmeTmpl,
	} {
		if _, err := root.New(string(kind)).Parse(text); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", kind, err)
		}
	}
	return &Renderer{root: root}, nil
}

// Render executes the template for kind with the given data.
func (r *Renderer) Render(kind Kind, data any) (string, error) {
	var b strings.Builder
	if err := r.root.ExecuteTemplate(&b, string(kind), data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", kind, err)
	}
	return b.String(), nil
}
