package ranking

import (
	"math"
	"strings"

	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	defaultEducationScore = 50.0
	noDegreeRequiredScore = 80.0
	degreeHeldScore       = 70.0
	fieldMatchBonus       = 10.0
)

// scoreEducation compares the highest résumé degree with the job requirement
func scoreEducation(resume *types.ResumeFacets, req types.EducationRequirement) types.EducationAnalysis {
	analysis := types.EducationAnalysis{
		Score:         defaultEducationScore,
		ResumeLevel:   resume.HighestEducation,
		RequiredLevel: req.Level,
	}

	resumeRank := parsing.EducationRank(resume.HighestEducation)
	jobRank := parsing.EducationRank(req.Level)

	switch {
	case !req.DegreeRequired:
		analysis.Score = noDegreeRequiredScore
		analysis.DegreeRequirementMet = true
		analysis.MeetsLevel = resumeRank >= jobRank
	case resumeRank > 0:
		analysis.DegreeRequirementMet = true
		analysis.Score = degreeHeldScore
		analysis.MeetsLevel = resumeRank >= jobRank
		if jobRank > 0 {
			if resumeRank >= jobRank {
				analysis.Score = 85 + math.Min(float64(resumeRank-jobRank)*5, 15)
			} else {
				analysis.Score = math.Max(40, 70-float64(jobRank-resumeRank)*15)
			}
		}
	}

	if fieldsMatch(resume.FieldsOfStudy, req.Fields) {
		analysis.FieldMatch = true
		analysis.Score += fieldMatchBonus
	}

	analysis.Score = clamp(analysis.Score)
	return analysis
}

// fieldsMatch reports whether any résumé field contains a job field or the reverse
func fieldsMatch(resumeFields, jobFields []string) bool {
	for _, rf := range resumeFields {
		rf = strings.ToLower(strings.TrimSpace(rf))
		if rf == "" {
			continue
		}
		for _, jf := range jobFields {
			jf = strings.ToLower(strings.TrimSpace(jf))
			if jf != "" && (strings.Contains(rf, jf) || strings.Contains(jf, rf)) {
				return true
			}
		}
	}
	return false
}
