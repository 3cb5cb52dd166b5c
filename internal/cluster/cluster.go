// Package cluster assigns legacy goals to a fixed set of topic buckets.
//
// This is a greedy single-pass classifier, not a true clustering algorithm:
// each goal goes to the one bucket whose keyword list has the most substring
// matches in the goal's name and description. There is no iterative
// refinement and no distance metric beyond keyword overlap.
package cluster

import (
	"fmt"
	"sort"
	"strings"

	"planfold/internal/goals"
)

// Target component count bounds. Requests outside this range are clamped.
const (
	MinComponents = 3
	MaxComponents = 7
)

// GeneralName is the synthetic bucket for goals matching no category.
const GeneralName = "General"

// Component is a topic grouping of goals in the new hierarchical layout.
type Component struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Goals       []goals.LegacyGoal `json:"goals"`
	Confidence  float64            `json:"confidence"`
	Reasoning   string             `json:"reasoning"`
}

// bucket is one predefined category. Declaration order matters: score ties
// resolve to the first-declared bucket, which keeps assignment deterministic.
type bucket struct {
	name        string
	description string
	keywords    []string
}

var buckets = []bucket{
	{
		name:        "Backend & API Development",
		description: "Server-side services, APIs, data access, and integrations.",
		keywords:    []string{"api", "backend", "server", "endpoint", "database", "auth", "login", "service", "rest", "graphql", "integration", "webhook"},
	},
	{
		name:        "Frontend & UI",
		description: "User-facing interfaces, layout, and interaction design.",
		keywords:    []string{"ui", "frontend", "interface", "design", "page", "component", "css", "layout", "responsive", "screen", "widget"},
	},
	{
		name:        "DevOps & Infrastructure",
		description: "Build, deployment, environments, and operational tooling.",
		keywords:    []string{"deploy", "docker", "kubernetes", "infrastructure", "pipeline", "monitoring", "hosting", "devops", "build", "release", "ci/cd"},
	},
	{
		name:        "Testing & Quality",
		description: "Automated testing, quality gates, and regression coverage.",
		keywords:    []string{"test", "testing", "quality", "coverage", "lint", "regression", "e2e", "unit", "qa"},
	},
	{
		name:        "Documentation & Onboarding",
		description: "Guides, references, and material for new contributors.",
		keywords:    []string{"doc", "documentation", "guide", "readme", "tutorial", "onboarding", "wiki", "manual", "faq"},
	},
	{
		name:        "Data & Analytics",
		description: "Data pipelines, reporting, metrics, and insight tooling.",
		keywords:    []string{"data", "analytics", "report", "metric", "dashboard", "etl", "warehouse", "insight", "tracking"},
	},
	{
		name:        "Security & Compliance",
		description: "Hardening, auditing, privacy, and regulatory work.",
		keywords:    []string{"security", "encryption", "vulnerability", "compliance", "audit", "permission", "privacy", "gdpr", "secret"},
	},
}

// ClampTarget clamps a requested component count into [MinComponents, MaxComponents].
func ClampTarget(n int) int {
	if n < MinComponents {
		return MinComponents
	}
	if n > MaxComponents {
		return MaxComponents
	}
	return n
}

// score counts how many of the bucket's keywords appear (case-insensitive
// substring) in the goal's name + description.
func (b bucket) score(goal goals.LegacyGoal) int {
	text := strings.ToLower(goal.Name + " " + goal.Description)
	n := 0
	for _, kw := range b.keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// Assign groups the given goals into at most target components (clamped into
// [3,7]). Every input goal lands in exactly one output component: the
// best-scoring bucket, or the trailing "General" component when no keyword
// matches anywhere. Buckets that overflow the target count are folded into
// General rather than dropped, so no goal is ever lost.
func Assign(in []goals.LegacyGoal, target int) []Component {
	target = ClampTarget(target)
	total := len(in)

	assigned := make([][]goals.LegacyGoal, len(buckets))
	var general []goals.LegacyGoal

	for _, goal := range in {
		best, bestScore := -1, 0
		for i, b := range buckets {
			if s := b.score(goal); s > bestScore {
				best, bestScore = i, s
			}
		}
		if best < 0 {
			general = append(general, goal)
			continue
		}
		assigned[best] = append(assigned[best], goal)
	}

	// Non-empty buckets, by goal count descending. Stable sort keeps
	// declaration order among equal counts.
	var order []int
	for i := range buckets {
		if len(assigned[i]) > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(assigned[order[a]]) > len(assigned[order[b]])
	})

	if len(order) > target {
		for _, i := range order[target:] {
			general = append(general, assigned[i]...)
		}
		order = order[:target]
	}

	var out []Component
	for _, i := range order {
		b := buckets[i]
		out = append(out, Component{
			Name:        b.name,
			Description: b.description,
			Goals:       assigned[i],
			Confidence:  confidence(len(assigned[i]), total),
			Reasoning:   fmt.Sprintf("%d of %d goals matched %s keywords", len(assigned[i]), total, b.name),
		})
	}

	if len(general) > 0 {
		out = append(out, Component{
			Name:        GeneralName,
			Description: "Goals that did not match any predefined category.",
			Goals:       general,
			Confidence:  confidence(len(general), total),
			Reasoning:   fmt.Sprintf("%d of %d goals matched no category keywords", len(general), total),
		})
	}

	return out
}

func confidence(assigned, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(assigned) / float64(total)
}

// Names returns the predefined bucket names in declaration order,
// for tool descriptions and reports.
func Names() []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.name
	}
	return out
}
