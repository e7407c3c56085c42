package ranking

import (
	"testing"

	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skillSet(byCategory map[string][]string, fuzzy map[string][]string) *types.ExtractedSkillSet {
	set := &types.ExtractedSkillSet{}
	for _, name := range skills.DefaultTaxonomy().CategoryNames() {
		c := types.CategorySkills{Category: name, Skills: []types.TaggedSkill{}}
		for _, s := range byCategory[name] {
			c.Skills = append(c.Skills, types.TaggedSkill{Name: s, MatchType: types.MatchExact, Mentions: 1})
		}
		for _, s := range fuzzy[name] {
			c.Fuzzy = append(c.Fuzzy, types.TaggedSkill{Name: s, MatchType: types.MatchFuzzy, Mentions: 1})
		}
		set.Categories = append(set.Categories, c)
	}
	return set
}

func TestScoreSkills_WeightedByCategory(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())
	resume := skillSet(map[string][]string{"programming_languages": {"python", "go"}}, nil)
	job := &types.JobFacets{SkillsByCategory: map[string][]string{
		"programming_languages": {"python", "go", "rust"},
		"databases":             {"postgresql"},
	}}

	got := engine.scoreSkills(resume, job)

	require.Len(t, got.Categories, 2)
	langs := got.Categories[0]
	assert.Equal(t, "programming_languages", langs.Category)
	assert.Equal(t, []string{"python", "go"}, langs.ExactMatches)
	assert.Equal(t, []string{"rust"}, langs.Missing)
	assert.InDelta(t, 200.0/3, langs.CoveragePercentage, 1e-9)
	assert.InDelta(t, 200.0/3, langs.CategoryScore, 1e-9)

	dbs := got.Categories[1]
	assert.Equal(t, "databases", dbs.Category)
	assert.Equal(t, 0.0, dbs.CategoryScore)

	// programming_languages weighs 1.0 and databases 0.8
	assert.InDelta(t, (200.0/3*1.0)/1.8, got.Score, 1e-9)
	assert.Equal(t, []string{"databases"}, got.WeaknessAreas)
	assert.Empty(t, got.StrengthAreas)
}

func TestScoreSkills_PartialMatchesEarnBonus(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())
	resume := skillSet(
		map[string][]string{"databases": {"mysql"}},
		map[string][]string{"databases": {"postgresql"}},
	)
	job := &types.JobFacets{SkillsByCategory: map[string][]string{
		"databases": {"mysql", "postgresql"},
	}}

	got := engine.scoreSkills(resume, job)

	require.Len(t, got.Categories, 1)
	match := got.Categories[0]
	assert.Equal(t, []string{"postgresql"}, match.PartialMatches)
	assert.Equal(t, []string{"postgresql"}, match.Missing, "partial matches still count as missing")
	assert.InDelta(t, 50, match.CoveragePercentage, 1e-9)
	assert.InDelta(t, 65, match.CategoryScore, 1e-9)
}

func TestScoreSkills_SimilarNamesArePartial(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())
	resume := skillSet(map[string][]string{"tools": {"gitlab"}}, nil)
	job := &types.JobFacets{SkillsByCategory: map[string][]string{"tools": {"github"}}}

	got := engine.scoreSkills(resume, job)

	require.Len(t, got.Categories, 1)
	// gitlab and github share 4 of 6 letters in order, below the 0.8 ratio
	assert.Empty(t, got.Categories[0].PartialMatches)

	resume = skillSet(map[string][]string{"databases": {"dynamodb"}}, nil)
	job = &types.JobFacets{SkillsByCategory: map[string][]string{"databases": {"dynamo db"}}}

	got = engine.scoreSkills(resume, job)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, []string{"dynamo db"}, got.Categories[0].PartialMatches)
}

func TestScoreSkills_EmptyJobCategoryContributesNothing(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())
	resume := skillSet(map[string][]string{
		"programming_languages": {"python"},
		"databases":             {"mysql", "redis"},
	}, nil)
	job := &types.JobFacets{SkillsByCategory: map[string][]string{
		"programming_languages": {"python"},
		"databases":             {},
	}}

	got := engine.scoreSkills(resume, job)

	require.Len(t, got.Categories, 1)
	assert.Equal(t, "programming_languages", got.Categories[0].Category)
	assert.Equal(t, 100.0, got.Score)
	assert.Equal(t, []string{"programming_languages"}, got.StrengthAreas)
}

func TestScoreSkills_NoJobSkills(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())
	resume := skillSet(map[string][]string{"programming_languages": {"python"}}, nil)

	got := engine.scoreSkills(resume, &types.JobFacets{})

	assert.Equal(t, 0.0, got.Score)
	assert.Empty(t, got.Categories)
}

func TestScoreSkills_MissingTiers(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())
	resume := skillSet(map[string][]string{
		"programming_languages": {"python"},
		"cloud_platforms":       {"docker"},
	}, nil)
	job := &types.JobFacets{
		SkillsByCategory: map[string][]string{
			"programming_languages": {"python"},
			"cloud_platforms":       {"kubernetes", "docker"},
			"tools":                 {"git"},
		},
		Prioritized: types.PrioritizedSkills{
			Critical:   []string{"python", "kubernetes"},
			Important:  []string{"git"},
			NiceToHave: []string{"docker"},
		},
	}

	got := engine.scoreSkills(resume, job)

	assert.Equal(t, []string{"kubernetes"}, got.MissingCriticalSkills)
	assert.Equal(t, []string{"git"}, got.MissingImportantSkills)
	assert.Equal(t, []string{}, got.MissingNiceToHaveSkills)
}

func TestOrderedCategories_UnknownCategoriesLast(t *testing.T) {
	engine := NewEngine(skills.DefaultTaxonomy())

	got := engine.orderedCategories(map[string][]string{
		"zeta":                  {"x"},
		"databases":             {"mysql"},
		"alpha":                 {"y"},
		"programming_languages": {"go"},
	})

	assert.Equal(t, []string{"programming_languages", "databases", "alpha", "zeta"}, got)
}
