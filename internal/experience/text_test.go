package experience

import (
	"testing"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestComposeText_PrefersRawText(t *testing.T) {
	resume := &types.Resume{RawText: "raw résumé text", Summary: "ignored"}
	assert.Equal(t, "raw résumé text", ComposeText(resume))
}

func TestComposeText_JoinsStructuredFields(t *testing.T) {
	resume := &types.Resume{
		RawText: "   ",
		Summary: "Backend engineer",
		WorkExperience: []types.WorkExperience{
			{Title: "Engineer", Company: "Acme", StartDate: "2020", Achievements: []string{"Cut latency"}},
		},
		Education: []types.EducationEntry{{Degree: "BSc", Institution: "State"}},
		Skills:    []types.SkillEntry{{Name: "Go", Level: "expert"}},
		Projects:  []types.Project{{Name: "matcher", Technologies: []string{"Postgres"}}},
	}

	assert.Equal(t,
		"Backend engineer Engineer Acme 2020 Cut latency BSc State Go expert matcher Postgres",
		ComposeText(resume))
}

func TestComposeText_Nil(t *testing.T) {
	assert.Empty(t, ComposeText(nil))
}
