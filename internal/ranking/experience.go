package ranking

import (
	"math"

	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	neutralExperienceScore = 80.0
	overQualifiedMargin    = 2.0
	overQualifiedPenalty   = 10.0
	maxOverQualifiedLoss   = 20.0
)

// scoreExperience compares years of experience, then adjusts for seniority
func scoreExperience(resume *types.ResumeFacets, job *types.JobFacets) types.ExperienceAnalysis {
	required := 0.0
	if job.YearsRequired != nil {
		required = float64(*job.YearsRequired)
	}
	years := resume.TotalYears

	analysis := types.ExperienceAnalysis{
		ResumeYears:     years,
		RequiredYears:   required,
		ResumeSeniority: resume.Seniority,
		JobSeniority:    job.Seniority,
	}

	score := neutralExperienceScore
	if required > 0 {
		if years >= required {
			excess := years - required
			if excess <= overQualifiedMargin {
				score = 90 + math.Min(excess*5, 10)
			} else {
				score = 90 - math.Min(excess*overQualifiedPenalty, maxOverQualifiedLoss)
			}
		} else {
			gap := required - years
			analysis.Gap = gap
			switch {
			case gap <= 1:
				score = 70
			case gap <= 2:
				score = 50
			default:
				score = math.Max(20, 50-gap*10)
			}
		}
	}

	resumeRank, jobRank := parsing.SeniorityRank(resume.Seniority), parsing.SeniorityRank(job.Seniority)
	if resumeRank > 0 && jobRank > 0 {
		switch {
		case resumeRank == jobRank:
			analysis.LevelMatch = true
			score += 5
		case resumeRank-jobRank == 1 || jobRank-resumeRank == 1:
			score += 2
		case resumeRank < jobRank-1:
			score -= 10
		}
	}

	switch {
	case years > required+overQualifiedMargin:
		analysis.QualificationStatus = types.QualificationOver
	case years >= required:
		analysis.QualificationStatus = types.QualificationMet
	default:
		analysis.QualificationStatus = types.QualificationUnder
	}

	analysis.Score = clamp(score)
	return analysis
}
