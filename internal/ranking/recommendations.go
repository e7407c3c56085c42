package ranking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	keywordRecommendationCoverage = 60.0
	keywordImprovementCoverage    = 50.0
	atsRecommendationScore        = 70.0
	experienceStrengthScore       = 80.0
)

// recommendations builds the ranked suggestions for a scored result. The order
// is fixed: skills, experience, keywords, ATS, education.
func recommendations(r *types.MatchResult) []types.Recommendation {
	out := make([]types.Recommendation, 0)

	if critical := r.Skills.MissingCriticalSkills; len(critical) > 0 {
		items := make([]string, 0, 3)
		for _, skill := range firstN(critical, 3) {
			items = append(items, fmt.Sprintf("Take online courses or certifications in %s", skill))
		}
		out = append(out, types.Recommendation{
			Type:        "critical_skills",
			Priority:    types.PriorityHigh,
			Title:       "Add Critical Skills",
			Description: fmt.Sprintf("Focus on acquiring these critical skills: %s", strings.Join(firstN(critical, 5), ", ")),
			ActionItems: items,
		})
	}

	if gap := r.Experience.Gap; gap > 0 {
		out = append(out, types.Recommendation{
			Type:        "experience",
			Priority:    types.PriorityHigh,
			Title:       "Bridge Experience Gap",
			Description: fmt.Sprintf("You need %s more years of relevant experience", strconv.FormatFloat(gap, 'f', -1, 64)),
			ActionItems: []string{
				"Highlight transferable skills from other experiences",
				"Consider freelance or volunteer projects",
				"Emphasize relevant internships or academic projects",
			},
		})
	}

	if r.Keywords.Coverage < keywordRecommendationCoverage {
		// A posting with no extractable keywords leaves nothing to list
		description := "Mirror the terminology of the job posting in your resume"
		if missing := r.Keywords.MissingKeywords; len(missing) > 0 {
			description = fmt.Sprintf("Include these keywords: %s", strings.Join(firstN(missing, 5), ", "))
		}
		out = append(out, types.Recommendation{
			Type:        "keywords",
			Priority:    types.PriorityMedium,
			Title:       "Improve Keyword Coverage",
			Description: description,
			ActionItems: []string{
				"Naturally integrate keywords into your experience descriptions",
				"Use industry-standard terminology",
				"Mirror language from the job posting",
			},
		})
	}

	if r.ATS.Score < atsRecommendationScore {
		out = append(out, types.Recommendation{
			Type:        "ats_formatting",
			Priority:    types.PriorityMedium,
			Title:       "Improve ATS Compatibility",
			Description: "Optimize resume format for ATS systems",
			ActionItems: []string{
				"Use standard section headers (Experience, Education, Skills)",
				"Avoid complex formatting and graphics",
				"Use standard fonts and bullet points",
				"Include contact information in a clear format",
			},
		})
	}

	if !r.Education.DegreeRequirementMet {
		out = append(out, types.Recommendation{
			Type:        "education",
			Priority:    types.PriorityLow,
			Title:       "Consider Educational Enhancement",
			Description: "This role may prefer candidates with specific educational background",
			ActionItems: []string{
				"Consider relevant certifications",
				"Highlight relevant coursework or training",
				"Emphasize practical experience that compensates",
			},
		})
	}

	return out
}

func matchStrengths(r *types.MatchResult) []string {
	out := make([]string, 0)
	if len(r.Skills.StrengthAreas) > 0 {
		out = append(out, fmt.Sprintf("Strong skills in: %s", strings.Join(r.Skills.StrengthAreas, ", ")))
	}
	if r.Experience.Score >= experienceStrengthScore {
		out = append(out, fmt.Sprintf("Experience level: %s", r.Experience.QualificationStatus))
	}
	if r.Experience.LevelMatch {
		out = append(out, "Seniority level matches job requirements")
	}
	return out
}

func improvementAreas(r *types.MatchResult) []string {
	out := make([]string, 0)
	if len(r.Skills.WeaknessAreas) > 0 {
		out = append(out, fmt.Sprintf("Develop skills in: %s", strings.Join(r.Skills.WeaknessAreas, ", ")))
	}
	if critical := r.Skills.MissingCriticalSkills; len(critical) > 0 {
		out = append(out, fmt.Sprintf("Acquire critical skills: %s", strings.Join(firstN(critical, 3), ", ")))
	}
	if r.Keywords.Coverage < keywordImprovementCoverage {
		out = append(out, "Improve keyword optimization and industry terminology usage")
	}
	return out
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
