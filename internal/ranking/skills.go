package ranking

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Category score boundaries
const (
	strengthThreshold = 80.0
	weaknessThreshold = 40.0
	partialBonus      = 0.3
)

// scoreSkills compares skills category by category. Categories where the job
// asks for nothing are skipped; the rest are averaged by category weight.
func (e *Engine) scoreSkills(resume *types.ExtractedSkillSet, job *types.JobFacets) types.SkillsAnalysis {
	analysis := types.SkillsAnalysis{
		Categories:    []types.CategoryMatch{},
		StrengthAreas: []string{},
		WeaknessAreas: []string{},
	}

	resumeNames := resume.Names()
	resumeFuzzy := resume.FuzzyNames()

	totalScore, totalWeight := 0.0, 0.0
	for _, category := range e.orderedCategories(job.SkillsByCategory) {
		required := job.SkillsByCategory[category]
		if len(required) == 0 {
			continue
		}

		match := e.matchCategory(category, required, resumeNames[category], resumeFuzzy[category])
		analysis.Categories = append(analysis.Categories, match)

		switch {
		case match.CategoryScore >= strengthThreshold:
			analysis.StrengthAreas = append(analysis.StrengthAreas, category)
		case match.CategoryScore < weaknessThreshold:
			analysis.WeaknessAreas = append(analysis.WeaknessAreas, category)
		}

		weight := e.taxonomy.Weight(category)
		totalScore += match.CategoryScore * weight
		totalWeight += weight
	}

	if totalWeight > 0 {
		analysis.Score = clamp(totalScore / totalWeight)
	}

	all := allNames(resumeNames)
	analysis.MissingCriticalSkills = e.missing(job.Prioritized.Critical, all)
	analysis.MissingImportantSkills = e.missing(job.Prioritized.Important, all)
	analysis.MissingNiceToHaveSkills = e.missing(job.Prioritized.NiceToHave, all)

	return analysis
}

// matchCategory splits the required skills of one category into exact matches
// and missing skills. Missing skills close to a résumé skill are also partial.
func (e *Engine) matchCategory(category string, required, resume, fuzzy []string) types.CategoryMatch {
	match := types.CategoryMatch{
		Category:       category,
		ExactMatches:   []string{},
		PartialMatches: []string{},
		Missing:        []string{},
	}

	for _, skill := range required {
		if e.containsSkill(resume, skill) {
			match.ExactMatches = append(match.ExactMatches, skill)
			continue
		}
		match.Missing = append(match.Missing, skill)
		if e.containsSkill(fuzzy, skill) || closeToAny(skill, resume) {
			match.PartialMatches = append(match.PartialMatches, skill)
		}
	}

	n := float64(len(required))
	exactRatio := float64(len(match.ExactMatches)) / n
	bonus := partialBonus * float64(len(match.PartialMatches)) / n

	match.CoveragePercentage = exactRatio * 100
	match.CategoryScore = clamp(minFloat(1.0, exactRatio+bonus) * 100)
	return match
}

func (e *Engine) containsSkill(names []string, skill string) bool {
	for _, n := range names {
		if e.taxonomy.Equivalent(n, skill) {
			return true
		}
	}
	return false
}

func closeToAny(skill string, names []string) bool {
	skill = strings.ToLower(skill)
	for _, n := range names {
		if skills.Similarity(skill, strings.ToLower(n)) >= skills.FuzzyThreshold {
			return true
		}
	}
	return false
}

// missing returns the tier skills the résumé does not have under any name
func (e *Engine) missing(tier []string, resume []string) []string {
	out := make([]string, 0)
	for _, skill := range tier {
		if !e.containsSkill(resume, skill) {
			out = append(out, skill)
		}
	}
	return out
}

// orderedCategories returns the job categories in taxonomy order followed by
// any categories the taxonomy does not declare, sorted by name
func (e *Engine) orderedCategories(byCategory map[string][]string) []string {
	out := make([]string, 0, len(byCategory))
	known := make(map[string]bool)
	for _, name := range e.taxonomy.CategoryNames() {
		known[name] = true
		if _, ok := byCategory[name]; ok {
			out = append(out, name)
		}
	}

	extra := make([]string, 0)
	for name := range byCategory {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func allNames(byCategory map[string][]string) []string {
	out := make([]string, 0)
	for _, names := range byCategory {
		out = append(out, names...)
	}
	return out
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
