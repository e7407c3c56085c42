package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-matcher/internal/pipeline/steps"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

func sampleResume() *types.Resume {
	return &types.Resume{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "555-123-4567",
		Summary:  "Senior backend engineer with 6 years of experience building Python and Go services.",
		WorkExperience: []types.WorkExperience{
			{Title: "Senior Software Engineer", Company: "Acme", StartDate: "2018-01", Current: true,
				Description: "Built scalable services on Kubernetes and Docker."},
		},
		Education: []types.EducationEntry{
			{Degree: "Bachelor of Science", Field: "Computer Science", Institution: "State University"},
		},
		Skills: []types.SkillEntry{{Name: "python"}, {Name: "go"}, {Name: "git"}},
	}
}

func sampleJob() *types.JobPosting {
	return &types.JobPosting{
		Title:        "Senior Backend Engineer",
		Company:      "Initech",
		Description:  "We are hiring a senior backend engineer to build scalable services.",
		Requirements: "5+ years of experience. Python and Kubernetes are required. Bachelor's degree in Computer Science.",
		Benefits:     "Remote friendly.",
	}
}

func TestAnalyze_ProducesResult(t *testing.T) {
	p := New(skills.DefaultTaxonomy())

	analysis, err := p.Analyze(context.Background(), sampleResume(), sampleJob())
	require.NoError(t, err)
	require.NotNil(t, analysis.Result)

	result := analysis.Result
	assert.GreaterOrEqual(t, result.OverallScore, 0.0)
	assert.LessOrEqual(t, result.OverallScore, 100.0)
	assert.Equal(t, result.OverallScore, result.MatchPercentage)
	assert.Equal(t, 5, *analysis.JobFacets.YearsRequired)
	assert.Equal(t, 6.0, analysis.ResumeFacets.TotalYears)
	assert.NotNil(t, analysis.ResumeSkills.Category("programming_languages"))
}

func TestAnalyze_RecordsStagesInOrder(t *testing.T) {
	p := New(skills.DefaultTaxonomy())

	analysis, err := p.Analyze(context.Background(), sampleResume(), sampleJob())
	require.NoError(t, err)

	names := make([]string, 0, len(analysis.Stages))
	for _, s := range analysis.Stages {
		names = append(names, s.Stage)
		assert.Equal(t, steps.StatusCompleted, s.Status)
	}
	assert.Equal(t, []string{
		steps.StageAnalyzeJob, steps.StageAnalyzeResume, steps.StageTagResume, steps.StageScore,
	}, names)
}

func TestAnalyze_Deterministic(t *testing.T) {
	p := New(skills.DefaultTaxonomy())

	first, err := p.Analyze(context.Background(), sampleResume(), sampleJob())
	require.NoError(t, err)
	second, err := p.Analyze(context.Background(), sampleResume(), sampleJob())
	require.NoError(t, err)

	assert.Equal(t, first.Result, second.Result)
}

func TestAnalyze_ProgressCallback(t *testing.T) {
	var mu sync.Mutex
	var events []ProgressEvent
	p := New(skills.DefaultTaxonomy(), WithProgress(func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}))

	_, err := p.Analyze(context.Background(), sampleResume(), sampleJob())
	require.NoError(t, err)

	require.Len(t, events, 4)
	assert.Equal(t, steps.StageScore, events[3].Stage)
	assert.Equal(t, steps.CategoryScoring, events[3].Category)
}

func TestAnalyze_RequiresInputs(t *testing.T) {
	p := New(skills.DefaultTaxonomy())

	_, err := p.Analyze(context.Background(), nil, sampleJob())
	assert.EqualError(t, err, "resume is required")

	_, err = p.Analyze(context.Background(), sampleResume(), nil)
	assert.EqualError(t, err, "job posting is required")
}

func TestAnalyze_CancelledContext(t *testing.T) {
	p := New(skills.DefaultTaxonomy())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Analyze(ctx, sampleResume(), sampleJob())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAnalyzeText_WithoutStructuredResume(t *testing.T) {
	p := New(skills.DefaultTaxonomy())

	analysis, err := p.AnalyzeText(context.Background(),
		"Python developer with 3 years of experience", nil,
		"Looking for a Python developer with 5 years of experience")
	require.NoError(t, err)

	assert.Equal(t, 2.0, analysis.Result.Experience.Gap)
	assert.Equal(t, 3.0, analysis.ResumeFacets.TotalYears)
}

func TestJobText(t *testing.T) {
	job := &types.JobPosting{
		Description:      "Build APIs.",
		Requirements:     "Go required.",
		Responsibilities: "  ",
		Benefits:         "Remote.",
	}

	assert.Equal(t, "Build APIs. Go required. Remote.", JobText(job))
	assert.Equal(t, "", JobText(nil))
}

func TestStageError(t *testing.T) {
	cause := errors.New("boom")
	err := &StageError{Stage: steps.StageScore, Cause: cause}

	assert.Equal(t, "stage score failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestAnalyzeText_UndeclaredDegreeLeavesRequirementUnmet(t *testing.T) {
	p := New(skills.DefaultTaxonomy())
	resume := &types.Resume{FullName: "Jane Doe", Summary: "Associate developer. Proficient in MS Office and Python."}

	analysis, err := p.AnalyzeText(context.Background(), resume.Summary, resume, "Bachelor degree required. Python.")
	require.NoError(t, err)

	edu := analysis.Result.Education
	assert.Equal(t, types.EducationUnknown, edu.ResumeLevel)
	assert.Equal(t, 50.0, edu.Score)
	assert.False(t, edu.DegreeRequirementMet)

	var kinds []string
	for _, r := range analysis.Result.Recommendations {
		kinds = append(kinds, r.Type)
	}
	assert.Contains(t, kinds, "education")
}
