package parsing

import (
	"regexp"
	"testing"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestVoteTable_Vote(t *testing.T) {
	table := VoteTable{
		{"cats", []string{"cat", "kitten"}},
		{"dogs", []string{"dog", "puppy"}},
	}

	winner, counts := table.Vote("A cat, a dog and a puppy", "none")
	assert.Equal(t, "dogs", winner)
	assert.Equal(t, []int{1, 2}, counts)

	winner, _ = table.Vote("One cat and one dog", "none")
	assert.Equal(t, "cats", winner, "ties go to the first declared category")

	winner, counts = table.Vote("catalog of dogma", "none")
	assert.Equal(t, "none", winner, "keywords must match on word boundaries")
	assert.Equal(t, []int{0, 0}, counts)
}

func TestDetectSeniority(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Senior engineer leading a senior team", types.SenioritySenior},
		{"Engineering Manager", types.SeniorityExecutive},
		{"Junior developer", types.SeniorityEntry},
		{"Sr. Backend Engineer", types.SenioritySenior},
		{"", types.SeniorityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSeniority(tt.text))
		})
	}
}

func TestRanks(t *testing.T) {
	assert.Less(t, SeniorityRank(types.SeniorityEntry), SeniorityRank(types.SeniorityMid))
	assert.Less(t, SeniorityRank(types.SenioritySenior), SeniorityRank(types.SeniorityExecutive))
	assert.Equal(t, 0, SeniorityRank(types.SeniorityUnknown))

	assert.Less(t, EducationRank(types.EducationCertificate), EducationRank(types.EducationAssociates))
	assert.Less(t, EducationRank(types.EducationMasters), EducationRank(types.EducationPhD))
	assert.Equal(t, 0, EducationRank(types.EducationUnknown))
}

func TestExtractYears(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      int
		wantFound bool
	}{
		{"years of experience", "5 years of experience in Go", 5, true},
		{"plus", "4+ yrs building APIs", 4, true},
		{"minimum", "Minimum of 7 years", 7, true},
		{"at least", "at least 2 years in production", 2, true},
		{"range keeps upper bound", "3 to 6 years", 6, true},
		{"dash range", "3-5 years experience", 5, true},
		{"maximum across matches", "10+ years of experience, 3 years managing", 10, true},
		{"nothing", "Plenty of experience", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractYears(tt.text)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractYears_ExtraPatterns(t *testing.T) {
	over := regexp.MustCompile(`(?i)over\s*(\d+)\s*years?`)

	_, found := ExtractYears("over 12 years shipping software")
	assert.False(t, found)

	got, found := ExtractYears("over 12 years shipping software", over)
	assert.True(t, found)
	assert.Equal(t, 12, got)
}
