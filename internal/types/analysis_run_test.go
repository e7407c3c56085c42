//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusFailed, false},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusPending, false},
		{StatusFailed, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestAnalysisRun_IsTerminal(t *testing.T) {
	assert.False(t, (&AnalysisRun{Status: StatusPending}).IsTerminal())
	assert.False(t, (&AnalysisRun{Status: StatusProcessing}).IsTerminal())
	assert.True(t, (&AnalysisRun{Status: StatusCompleted}).IsTerminal())
	assert.True(t, (&AnalysisRun{Status: StatusFailed}).IsTerminal())
}

func TestCreateAnalysisRequest_Validate(t *testing.T) {
	valid := CreateAnalysisRequest{
		ResumeID:     uuid.New().String(),
		JobPostingID: uuid.New().String(),
	}
	assert.NoError(t, valid.Validate())

	bad := CreateAnalysisRequest{ResumeID: "123", JobPostingID: uuid.New().String()}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ResumeID")

	empty := CreateAnalysisRequest{}
	assert.Error(t, empty.Validate())
}

func TestExtractedSkillSet_Accessors(t *testing.T) {
	set := &ExtractedSkillSet{Categories: []CategorySkills{
		{
			Category: "programming_languages",
			Skills: []TaggedSkill{
				{Name: "python", Confidence: 0.7, MatchType: MatchExact, Mentions: 2},
				{Name: "go", Confidence: 0.5, MatchType: MatchExact, Mentions: 1},
			},
			Fuzzy: []TaggedSkill{{Name: "javascript", Confidence: 0.3, MatchType: MatchFuzzy}},
		},
		{Category: "databases", Fuzzy: []TaggedSkill{{Name: "postgresql", Confidence: 0.3, MatchType: MatchFuzzy}}},
	}}

	assert.Equal(t, 2, set.Total())
	assert.Equal(t, map[string][]string{"programming_languages": {"python", "go"}}, set.Names())
	assert.Equal(t, map[string][]string{
		"programming_languages": {"javascript"},
		"databases":             {"postgresql"},
	}, set.FuzzyNames())
	require.NotNil(t, set.Category("databases"))
	assert.Nil(t, set.Category("cloud_platforms"))

	var nilSet *ExtractedSkillSet
	assert.Equal(t, 0, nilSet.Total())
	assert.Empty(t, nilSet.Names())
}
