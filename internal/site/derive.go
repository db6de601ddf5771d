package site

import (
	"sort"

	"github.com/devfolio/devfolio/internal/content"
)

const (
	FeaturedCount  = 3
	TopSkillsCount = 6
)

// SkillGroup is one category of skills in first-seen order.
type SkillGroup struct {
	Category string
	Skills   []content.Skill
}

// Categories returns the distinct categories in order of first appearance.
func Categories(skills []content.Skill) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, s := range skills {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

// GroupByCategory groups skills by category, preserving store order within
// each group.
func GroupByCategory(skills []content.Skill) []SkillGroup {
	idx := map[string]int{}
	out := []SkillGroup{}
	for _, s := range skills {
		i, ok := idx[s.Category]
		if !ok {
			i = len(out)
			idx[s.Category] = i
			out = append(out, SkillGroup{Category: s.Category})
		}
		out[i].Skills = append(out[i].Skills, s)
	}
	return out
}

// Featured returns the first FeaturedCount projects in store order.
func Featured(projects []content.Project) []content.Project {
	if len(projects) > FeaturedCount {
		return projects[:FeaturedCount]
	}
	return projects
}

// TopSkills sorts by level descending, keeping store order for ties, and
// keeps the first TopSkillsCount.
func TopSkills(skills []content.Skill) []content.Skill {
	sorted := append([]content.Skill(nil), skills...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Level > sorted[j].Level })
	if len(sorted) > TopSkillsCount {
		sorted = sorted[:TopSkillsCount]
	}
	return sorted
}

// ClampLevel bounds a stored level to the display range.
func ClampLevel(level int) int {
	switch {
	case level < content.MinSkillLevel:
		return content.MinSkillLevel
	case level > content.MaxSkillLevel:
		return content.MaxSkillLevel
	}
	return level
}

// LevelPercent is the width of a skill bar.
func LevelPercent(level int) int {
	return ClampLevel(level) * 100 / content.MaxSkillLevel
}

// LevelBand names the colour band of a skill bar.
func LevelBand(level int) string {
	switch l := ClampLevel(level); {
	case l >= 8:
		return "expert"
	case l >= 6:
		return "advanced"
	case l >= 4:
		return "intermediate"
	}
	return "beginner"
}
