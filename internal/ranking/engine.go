// Package ranking provides the matching engine that scores a résumé against a
// job posting and explains the result.
package ranking

import (
	"fmt"
	"math"

	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Component weights of the overall score. They sum to 1.0.
const (
	SkillsWeight     = 0.35
	ExperienceWeight = 0.25
	KeywordsWeight   = 0.20
	EducationWeight  = 0.15
	ATSWeight        = 0.05
)

// ScoringError represents invalid input to the engine
type ScoringError struct {
	Message string
	Cause   error
}

func (e *ScoringError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scoring error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("scoring error: %s", e.Message)
}

func (e *ScoringError) Unwrap() error {
	return e.Cause
}

// Input is everything the engine needs for one comparison
type Input struct {
	ResumeSkills *types.ExtractedSkillSet
	Resume       *types.ResumeFacets
	Job          *types.JobFacets
	ResumeText   string
	JobText      string
}

// Engine scores résumés against job postings. It only reads the taxonomy and
// its inputs, so one Engine may serve concurrent analyses.
type Engine struct {
	taxonomy *skills.Taxonomy
}

// NewEngine creates an Engine that weights skill categories with the taxonomy
func NewEngine(taxonomy *skills.Taxonomy) *Engine {
	return &Engine{taxonomy: taxonomy}
}

// Score compares one résumé with one job posting
func (e *Engine) Score(in Input) (*types.MatchResult, error) {
	if in.Job == nil {
		return nil, &ScoringError{Message: "job facets are required"}
	}
	if in.Resume == nil {
		return nil, &ScoringError{Message: "resume facets are required"}
	}
	if in.ResumeSkills == nil {
		in.ResumeSkills = &types.ExtractedSkillSet{}
	}

	result := &types.MatchResult{
		Skills:        e.scoreSkills(in.ResumeSkills, in.Job),
		Experience:    scoreExperience(in.Resume, in.Job),
		Education:     scoreEducation(in.Resume, in.Job.Education),
		Keywords:      scoreKeywords(in.ResumeText, in.Job.Keywords),
		ATS:           scoreATS(in.ResumeText, in.Resume),
		JobComplexity: in.Job.ComplexityScore,
	}

	result.ComponentScores = types.ComponentScores{
		Skills:     result.Skills.Score,
		Experience: result.Experience.Score,
		Education:  result.Education.Score,
		Keywords:   result.Keywords.Score,
		ATS:        result.ATS.Score,
	}
	result.OverallScore = OverallScore(result.ComponentScores)
	result.MatchPercentage = result.OverallScore

	result.Recommendations = recommendations(result)
	result.MatchStrengths = matchStrengths(result)
	result.ImprovementAreas = improvementAreas(result)

	return result, nil
}

// OverallScore combines the component scores with the fixed weights. Each
// component is clamped to [0,100] first.
func OverallScore(c types.ComponentScores) float64 {
	return SkillsWeight*clamp(c.Skills) +
		ExperienceWeight*clamp(c.Experience) +
		KeywordsWeight*clamp(c.Keywords) +
		EducationWeight*clamp(c.Education) +
		ATSWeight*clamp(c.ATS)
}

func clamp(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(100, score))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
