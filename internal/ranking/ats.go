package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// ATS factor weights
const (
	atsLengthWeight     = 0.2
	atsContactWeight    = 0.3
	atsStructureWeight  = 0.3
	atsFormattingWeight = 0.2

	defaultFormattingFactor = 0.8
	minATSWords             = 200
	maxATSWords             = 1000
)

// Issue severities
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

var requiredSections = []string{"experience", "education", "skills"}

// scoreATS rates how well an applicant tracking system could parse the résumé
func scoreATS(text string, resume *types.ResumeFacets) types.ATSAnalysis {
	analysis := types.ATSAnalysis{
		Issues:           []types.ATSIssue{},
		Suggestions:      []string{},
		DetectedSections: resume.Sections,
		WordCount:        len(strings.Fields(text)),
	}
	if analysis.DetectedSections == nil {
		analysis.DetectedSections = []string{}
	}

	switch {
	case analysis.WordCount < minATSWords:
		analysis.Factors.Length = 0.3
		analysis.Issues = append(analysis.Issues, types.ATSIssue{
			Type:           "content_length",
			Severity:       SeverityHigh,
			Description:    "Resume appears too short for comprehensive ATS parsing",
			Recommendation: "Expand content to at least 300-500 words",
		})
	case analysis.WordCount > maxATSWords:
		analysis.Factors.Length = 0.7
		analysis.Issues = append(analysis.Issues, types.ATSIssue{
			Type:           "content_length",
			Severity:       SeverityMedium,
			Description:    "Resume may be too long for optimal ATS processing",
			Recommendation: "Consider condensing to 500-800 words",
		})
	default:
		analysis.Factors.Length = 1.0
	}

	analysis.Factors.Contact = resume.Contact.Score()
	if !resume.Contact.HasEmail {
		analysis.Issues = append(analysis.Issues, types.ATSIssue{
			Type:           "missing_contact",
			Severity:       SeverityHigh,
			Description:    "Email address not detected",
			Recommendation: "Include a clear email address",
		})
	}
	if !resume.Contact.HasPhone {
		analysis.Issues = append(analysis.Issues, types.ATSIssue{
			Type:           "missing_contact",
			Severity:       SeverityMedium,
			Description:    "Phone number not clearly detected",
			Recommendation: "Include a clear phone number",
		})
	}

	missing := make([]string, 0)
	for _, s := range requiredSections {
		if !contains(analysis.DetectedSections, s) {
			missing = append(missing, s)
		}
	}
	analysis.Factors.Structure = float64(len(requiredSections)-len(missing)) / float64(len(requiredSections))
	if len(missing) > 0 {
		analysis.Issues = append(analysis.Issues, types.ATSIssue{
			Type:           "missing_sections",
			Severity:       SeverityMedium,
			Description:    fmt.Sprintf("Missing standard resume sections: %s", strings.Join(missing, ", ")),
			Recommendation: "Include clear section headers for Experience, Education, and Skills",
		})
	}

	analysis.Factors.Formatting = defaultFormattingFactor

	for _, issue := range analysis.Issues {
		analysis.Suggestions = append(analysis.Suggestions, issue.Recommendation)
	}

	score := (analysis.Factors.Length*atsLengthWeight +
		analysis.Factors.Contact*atsContactWeight +
		analysis.Factors.Structure*atsStructureWeight +
		analysis.Factors.Formatting*atsFormattingWeight) * 100
	analysis.Score = clamp(round(score, 1))
	return analysis
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
