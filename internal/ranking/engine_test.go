package ranking

import (
	"errors"
	"strings"
	"testing"

	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backendJob() *types.JobFacets {
	return &types.JobFacets{
		SkillsByCategory: map[string][]string{
			"programming_languages": {"python", "go"},
			"cloud_platforms":       {"kubernetes", "docker"},
			"tools":                 {"git"},
		},
		Prioritized: types.PrioritizedSkills{
			Critical:   []string{"python", "kubernetes"},
			Important:  []string{"git"},
			NiceToHave: []string{"docker", "go"},
		},
		YearsRequired:   intPtr(5),
		Seniority:       types.SenioritySenior,
		Education:       types.EducationRequirement{DegreeRequired: true, Level: types.EducationBachelors},
		Keywords:        []string{"python", "kubernetes", "scalable", "services"},
		ComplexityScore: 45,
	}
}

func TestScore_StrongCandidate(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())
	text := "Senior engineer building scalable python services on kubernetes with docker, go and git. " +
		strings.Repeat("delivered reliable systems for customers ", 60)

	result, err := engine.Score(Input{
		ResumeSkills: skillSet(map[string][]string{
			"programming_languages": {"python", "go"},
			"cloud_platforms":       {"docker", "kubernetes"},
			"tools":                 {"git"},
		}, nil),
		Resume: &types.ResumeFacets{
			TotalYears:       6,
			Seniority:        types.SenioritySenior,
			HighestEducation: types.EducationMasters,
			Contact:          types.ContactPresence{HasEmail: true, HasPhone: true},
			Sections:         []string{"experience", "education", "skills"},
		},
		Job:        backendJob(),
		ResumeText: text,
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Skills.Score)
	assert.Equal(t, 100.0, result.Experience.Score)
	assert.Equal(t, 90.0, result.Education.Score)
	assert.Equal(t, 100.0, result.Keywords.Coverage)
	assert.Equal(t, 96.0, result.ATS.Score)
	assert.Equal(t, 45.0, result.JobComplexity)
	assert.Equal(t, result.OverallScore, result.MatchPercentage)
	assert.Empty(t, result.Recommendations)
	assert.Contains(t, result.MatchStrengths, "Seniority level matches job requirements")
	assert.Empty(t, result.Skills.MissingCriticalSkills)
}

func TestScore_WeakCandidate(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())

	result, err := engine.Score(Input{
		ResumeSkills: skillSet(map[string][]string{"programming_languages": {"java"}}, nil),
		Resume:       &types.ResumeFacets{TotalYears: 1, Seniority: types.SeniorityEntry},
		Job:          backendJob(),
		ResumeText:   "Java developer",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "kubernetes"}, result.Skills.MissingCriticalSkills)
	assert.Equal(t, 4.0, result.Experience.Gap)
	assert.False(t, result.Education.DegreeRequirementMet)

	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, "critical_skills", result.Recommendations[0].Type)
	assert.Contains(t, result.ImprovementAreas, "Acquire critical skills: python, kubernetes")
	assert.Less(t, result.OverallScore, 40.0)
}

func TestScore_RequiresFacets(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())

	tests := []struct {
		name string
		in   Input
		want string
	}{
		{"missing job", Input{Resume: &types.ResumeFacets{}}, "scoring error: job facets are required"},
		{"missing resume", Input{Job: &types.JobFacets{}}, "scoring error: resume facets are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Score(tt.in)
			assert.Nil(t, result)

			var scoringErr *ScoringError
			require.True(t, errors.As(err, &scoringErr))
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestScore_EmptyInputsStayInRange(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())

	result, err := engine.Score(Input{Resume: &types.ResumeFacets{}, Job: &types.JobFacets{}})
	require.NoError(t, err)

	// Nothing required: experience 80, education 80, keywords 50
	assert.Equal(t, 0.0, result.Skills.Score)
	assert.Equal(t, 80.0, result.Experience.Score)
	assert.Equal(t, 80.0, result.Education.Score)
	assert.Equal(t, 50.0, result.Keywords.Score)
	assert.NotNil(t, result.Recommendations)
	assertWeightIdentity(t, result)
}

func TestScore_ComponentsBoundedAndWeighted(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())
	resumes := []*types.ResumeFacets{
		{},
		{TotalYears: 30, Seniority: types.SeniorityExecutive, HighestEducation: types.EducationPhD},
		{TotalYears: 5, Seniority: types.SenioritySenior, Contact: types.ContactPresence{HasEmail: true}},
	}
	texts := []string{"", "python python python", strings.Repeat("python kubernetes scalable services ", 400)}

	for _, resume := range resumes {
		for _, text := range texts {
			result, err := engine.Score(Input{
				ResumeSkills: skillSet(map[string][]string{"programming_languages": {"python"}}, nil),
				Resume:       resume,
				Job:          backendJob(),
				ResumeText:   text,
			})
			require.NoError(t, err)

			for _, score := range []float64{
				result.Skills.Score, result.Experience.Score, result.Education.Score,
				result.Keywords.Score, result.ATS.Score, result.OverallScore,
			} {
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 100.0)
			}
			assertWeightIdentity(t, result)
			assertSkillPartition(t, engine, result)
		}
	}
}

func TestOverallScore_ClampsComponents(t *testing.T) {
	got := OverallScore(types.ComponentScores{Skills: 150, Experience: -20, Education: 100, Keywords: 100, ATS: 100})
	assert.InDelta(t, 35+0+15+20+5, got, 1e-9)
}

func TestWeights_SumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, SkillsWeight+ExperienceWeight+KeywordsWeight+EducationWeight+ATSWeight, 1e-12)
}

func assertWeightIdentity(t *testing.T, r *types.MatchResult) {
	t.Helper()
	want := SkillsWeight*r.Skills.Score + ExperienceWeight*r.Experience.Score +
		KeywordsWeight*r.Keywords.Score + EducationWeight*r.Education.Score + ATSWeight*r.ATS.Score
	assert.InDelta(t, want, r.OverallScore, 1e-6)
}

// assertSkillPartition checks that every required skill of a category is
// either an exact match or missing, never both
func assertSkillPartition(t *testing.T, engine *Engine, r *types.MatchResult) {
	t.Helper()
	job := backendJob()
	for _, c := range r.Skills.Categories {
		required := job.SkillsByCategory[c.Category]
		assert.Equal(t, len(required), len(c.ExactMatches)+len(c.Missing), c.Category)
		for _, m := range c.ExactMatches {
			assert.False(t, engine.containsSkill(c.Missing, m), m)
		}
		for _, p := range c.PartialMatches {
			assert.True(t, engine.containsSkill(c.Missing, p), p)
		}
	}
}
